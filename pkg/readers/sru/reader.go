package sru

import (
	"context"
	"net/url"

	"go.uber.org/zap"

	"github.com/edpop/explorer/pkg/clients"
	"github.com/edpop/explorer/pkg/config"
	"github.com/edpop/explorer/pkg/logger"
	"github.com/edpop/explorer/pkg/reader"
	"github.com/edpop/explorer/pkg/record"
)

func readerLogger(d *Definition) *zap.Logger {
	return logger.With(zap.String("catalog", d.Catalog.Slug))
}

// Definition describes one SRU-backed catalog: its endpoint, protocol
// parameters and the hooks that turn recordData payloads into records.
// Concrete catalog packages declare a Definition and register its
// factory.
type Definition struct {
	// Catalog is the static catalog descriptor
	Catalog *record.Catalog
	// Endpoint is the SRU base URL
	Endpoint string
	// Version is the SRU protocol version, "1.1" or "1.2"
	Version string
	// Schema is the requested record schema; empty uses the server
	// default
	Schema string
	// ExtraParams are sent with every request
	ExtraParams url.Values
	// PageSize overrides the default records per page
	PageSize int
	// Transform turns a raw query into the catalog's query syntax;
	// nil passes the query through unchanged
	Transform reader.TransformFunc
	// Convert turns one recordData payload into a record
	Convert func(catalog *record.Catalog, payload []byte) (record.Record, error)
	// SecondarySchema requests the same page in a second record
	// schema; its payloads are merged into the converted records
	SecondarySchema string
	// MergeSecondary merges one secondary-schema payload into the
	// record at the same position
	MergeSecondary func(rec record.Record, payload []byte) error
	// GetByIDQuery builds the list query used for single-record
	// lookup; nil transforms the identifier itself
	GetByIDQuery func(identifier string) (reader.PreparedQuery, error)
}

// Reader is the pagination engine over one SRU endpoint.
type Reader struct {
	*reader.BaseReader

	def    *Definition
	client *Client
	cfg    *config.BaseConfig
}

// NewReader creates a fresh reader for one search session.
func (d *Definition) NewReader(cfg *config.BaseConfig) *Reader {
	endpoint := d.Endpoint
	pageSize := d.PageSize
	httpCfg := clients.DefaultHTTPConfig()
	if cfg != nil {
		if override := cfg.Catalog(d.Catalog.Slug); override.Endpoint != "" {
			endpoint = override.Endpoint
		}
		if override := cfg.Catalog(d.Catalog.Slug); override.RecordsPerPage > 0 {
			pageSize = override.RecordsPerPage
		}
		httpCfg.RequestTimeout = cfg.Timeouts.Request
		httpCfg.DialTimeout = cfg.Timeouts.Connection
		httpCfg.RateLimit = float64(cfg.Reliability.RateLimitPerSec)
		httpCfg.RetryAttempts = cfg.Reliability.RetryAttempts
		httpCfg.RetryDelay = cfg.Reliability.RetryDelay
	}

	r := &Reader{
		def:    d,
		cfg:    cfg,
		client: NewClient(clients.NewHTTPClient(httpCfg, readerLogger(d)), endpoint, d.Version, d.ExtraParams),
	}

	opts := []reader.Option{}
	if d.Transform != nil {
		opts = append(opts, reader.WithTransform(d.Transform))
	}
	if pageSize > 0 {
		opts = append(opts, reader.WithPageSize(pageSize))
	}
	r.BaseReader = reader.NewBaseReader(d.Catalog, r, opts...)
	return r
}

// Factory returns a registry factory for this definition.
func (d *Definition) Factory() func(cfg *config.BaseConfig) (reader.Reader, error) {
	return func(cfg *config.BaseConfig) (reader.Reader, error) {
		return d.NewReader(cfg), nil
	}
}

// FetchRange performs one paged searchRetrieve request and populates
// the requested span. SRU numbers records from 1.
func (r *Reader) FetchRange(ctx context.Context, span reader.Span) (reader.Span, error) {
	query := r.PreparedQuery()
	resp, err := r.client.Search(ctx, query.QueryString(), span.Start+1, span.Len(), r.def.Schema)
	if err != nil {
		return reader.Span{}, err
	}
	r.SetNumberOfResults(resp.NumberOfRecords)

	count := 0
	converted := make([]record.Record, 0, len(resp.Records))
	for i, payload := range resp.Records {
		if i >= span.Len() {
			break
		}
		rec, err := r.def.Convert(r.Catalog(), payload)
		if err != nil {
			return reader.Span{}, err
		}
		r.StoreRecord(span.Start+i, rec)
		converted = append(converted, rec)
		count++
	}

	if r.def.SecondarySchema != "" && r.def.MergeSecondary != nil && count > 0 {
		secondary, err := r.client.Search(ctx, query.QueryString(), span.Start+1, span.Len(), r.def.SecondarySchema)
		if err != nil {
			return reader.Span{}, err
		}
		for i, payload := range secondary.Records {
			if i >= count {
				break
			}
			if err := r.def.MergeSecondary(converted[i], payload); err != nil {
				return reader.Span{}, err
			}
		}
	}
	return reader.Span{Start: span.Start, End: span.Start + count}, nil
}

// GetByID looks up a single record through a list query on a fresh
// reader, since SRU offers no direct retrieval.
func (r *Reader) GetByID(ctx context.Context, identifier string) (record.Record, error) {
	query, err := r.getByIDQuery(identifier)
	if err != nil {
		return nil, err
	}
	fresh := r.def.NewReader(r.cfg)
	return reader.GetByIDViaQuery(ctx, fresh, query, identifier)
}

func (r *Reader) getByIDQuery(identifier string) (reader.PreparedQuery, error) {
	if r.def.GetByIDQuery != nil {
		return r.def.GetByIDQuery(identifier)
	}
	if r.def.Transform != nil {
		return r.def.Transform(identifier)
	}
	return reader.StringQuery(identifier), nil
}
