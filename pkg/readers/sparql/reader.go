package sparql

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/edpop/explorer/pkg/clients"
	"github.com/edpop/explorer/pkg/config"
	"github.com/edpop/explorer/pkg/errors"
	"github.com/edpop/explorer/pkg/logger"
	"github.com/edpop/explorer/pkg/reader"
	"github.com/edpop/explorer/pkg/record"
)

// PopulateFunc maps the fetched properties of a subject, keyed by
// predicate IRI, onto the record's fields.
type PopulateFunc func(props map[string][]string, rec *record.BibliographicalRecord)

// Definition describes one SPARQL-backed catalog: its endpoint, the
// graph pattern restricting subjects to the catalog's dataset, and the
// hook mapping fetched properties onto record fields.
type Definition struct {
	// Catalog is the static catalog descriptor
	Catalog *record.Catalog
	// Endpoint is the SPARQL endpoint URL
	Endpoint string
	// Filter is a graph pattern on ?s restricting candidate subjects
	Filter string
	// Populate maps a subject's properties onto record fields; nil
	// keeps only the raw data
	Populate PopulateFunc
}

// Reader runs full-text searches over one SPARQL endpoint. The whole
// result set is loaded on the first fetch, as the search query cannot
// be paged without repeating the scan.
type Reader struct {
	*reader.BaseReader

	def    *Definition
	client *Client
}

// NewReader creates a fresh reader for one search session.
func (d *Definition) NewReader(cfg *config.BaseConfig) *Reader {
	endpoint := d.Endpoint
	httpCfg := clients.DefaultHTTPConfig()
	if cfg != nil {
		if override := cfg.Catalog(d.Catalog.Slug); override.Endpoint != "" {
			endpoint = override.Endpoint
		}
		httpCfg.RequestTimeout = cfg.Timeouts.Request
		httpCfg.DialTimeout = cfg.Timeouts.Connection
		httpCfg.RateLimit = float64(cfg.Reliability.RateLimitPerSec)
		httpCfg.RetryAttempts = cfg.Reliability.RetryAttempts
		httpCfg.RetryDelay = cfg.Reliability.RetryDelay
	}

	log := logger.With(zap.String("catalog", d.Catalog.Slug))
	r := &Reader{
		def:    d,
		client: NewClient(clients.NewHTTPClient(httpCfg, log), endpoint),
	}
	r.BaseReader = reader.NewBaseReader(d.Catalog, r, reader.WithFetchAllAtOnce())
	return r
}

// Factory returns a registry factory for this definition.
func (d *Definition) Factory() func(cfg *config.BaseConfig) (reader.Reader, error) {
	return func(cfg *config.BaseConfig) (reader.Reader, error) {
		return d.NewReader(cfg), nil
	}
}

// searchQuery builds the select query matching any property value of
// candidate subjects against the search text.
func (d *Definition) searchQuery(query string) string {
	return fmt.Sprintf(`prefix schema: <http://schema.org/>
select ?s ?name where {
  ?s ?p ?o .
  ?s schema:name ?name .
  %s
  FILTER (regex(?o, "%s", "i"))
}
order by ?s`, d.Filter, EscapeLiteral(query))
}

// FetchRange runs the search and loads the complete result set. The
// requested span is ignored; the populated span covers every hit.
func (r *Reader) FetchRange(ctx context.Context, span reader.Span) (reader.Span, error) {
	if r.FetchingStarted() {
		return reader.Span{Start: span.Start, End: span.Start}, nil
	}

	query := r.PreparedQuery()
	result, err := r.client.Select(ctx, r.def.searchQuery(query.QueryString()))
	if err != nil {
		return reader.Span{}, err
	}

	r.SetNumberOfResults(len(result.Bindings))
	for i, binding := range result.Bindings {
		subject := binding["s"].Value
		rec := newRecord(r.def, r.client, subject)
		rec.Title = record.NewField(binding["name"].Value)
		r.StoreRecord(i, rec)
	}
	return reader.Span{Start: 0, End: len(result.Bindings)}, nil
}

// GetByID retrieves a single record. SPARQL identifiers are the
// subject IRIs themselves, so the record can be fetched directly.
func (r *Reader) GetByID(ctx context.Context, identifier string) (record.Record, error) {
	rec := newRecord(r.def, r.client, identifier)
	if err := rec.Fetch(ctx); err != nil {
		return nil, err
	}
	if len(rec.props) == 0 {
		return nil, errors.Newf(errors.ErrorTypeNotFound,
			"no record found for subject %s", identifier)
	}
	return rec, nil
}

// Record is a lazily fetched SPARQL hit. The search returns only the
// subject IRI and a display name; the remaining properties are
// retrieved on first use.
type Record struct {
	record.BibliographicalRecord

	def     *Definition
	client  *Client
	iri     string
	fetched bool
	props   map[string][]string
}

func newRecord(def *Definition, client *Client, iri string) *Record {
	rec := &Record{
		BibliographicalRecord: *record.NewBibliographicalRecord(def.Catalog),
		def:                   def,
		client:                client,
		iri:                   iri,
	}
	rec.ID = iri
	rec.URL = iri
	return rec
}

// Fetched reports whether the deferred retrieval has happened.
func (r *Record) Fetched() bool { return r.fetched }

// Fetch retrieves the subject's properties exactly once.
func (r *Record) Fetch(ctx context.Context) error {
	if r.fetched {
		return nil
	}

	query := fmt.Sprintf("select ?p ?o where {\n  <%s> ?p ?o\n}", r.iri)
	result, err := r.client.Select(ctx, query)
	if err != nil {
		return err
	}

	r.props = make(map[string][]string)
	data := make(record.MapData)
	for _, binding := range result.Bindings {
		p := binding["p"].Value
		o := binding["o"].Value
		r.props[p] = append(r.props[p], o)
		if existing, ok := data[p]; ok {
			switch v := existing.(type) {
			case []interface{}:
				data[p] = append(v, o)
			default:
				data[p] = []interface{}{v, o}
			}
		} else {
			data[p] = o
		}
	}
	r.Data = data

	if r.def.Populate != nil {
		r.def.Populate(r.props, &r.BibliographicalRecord)
	}
	r.fetched = true
	return nil
}
