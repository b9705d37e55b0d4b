// Package rest implements readers for catalogs exposed through JSON
// search APIs of the data.cerl.org kind: a search endpoint taking
// query, from and size parameters, and a by-identifier endpoint
// returning one record.
package rest

import (
	"context"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/edpop/explorer/pkg/clients"
	"github.com/edpop/explorer/pkg/config"
	"github.com/edpop/explorer/pkg/errors"
	"github.com/edpop/explorer/pkg/logger"
	"github.com/edpop/explorer/pkg/reader"
	"github.com/edpop/explorer/pkg/record"
)

// ConvertFunc turns one raw JSON row into a record.
type ConvertFunc func(catalog *record.Catalog, row map[string]interface{}) (record.Record, error)

// Definition describes one JSON-API-backed catalog.
type Definition struct {
	// Catalog is the static catalog descriptor
	Catalog *record.Catalog
	// SearchURL is the search endpoint, typically ending in /_search
	SearchURL string
	// ByIDBaseURL is the single-record endpoint base; the identifier
	// is appended
	ByIDBaseURL string
	// ExtraParams are sent with every search request
	ExtraParams url.Values
	// PageSize overrides the default records per page
	PageSize int
	// Transform turns a raw query into the catalog's query syntax;
	// nil passes the query through unchanged
	Transform reader.TransformFunc
	// Convert turns one raw row into a record
	Convert ConvertFunc
}

// Reader is the pagination engine over one JSON search API.
type Reader struct {
	*reader.BaseReader

	def       *Definition
	client    *clients.HTTPClient
	searchURL string
	byIDBase  string
}

// NewReader creates a fresh reader for one search session.
func (d *Definition) NewReader(cfg *config.BaseConfig) *Reader {
	searchURL := d.SearchURL
	pageSize := d.PageSize
	httpCfg := clients.DefaultHTTPConfig()
	if cfg != nil {
		if override := cfg.Catalog(d.Catalog.Slug); override.Endpoint != "" {
			searchURL = override.Endpoint
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

	log := logger.With(zap.String("catalog", d.Catalog.Slug))
	r := &Reader{
		def:       d,
		client:    clients.NewHTTPClient(httpCfg, log),
		searchURL: searchURL,
		byIDBase:  d.ByIDBaseURL,
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

// searchResponse mirrors the wire format of the search endpoint. Hits
// is absent when nothing matches.
type searchResponse struct {
	Hits *struct {
		Value int `json:"value"`
	} `json:"hits"`
	Rows []map[string]interface{} `json:"rows"`
}

// FetchRange performs one paged search request and populates the
// requested span.
func (r *Reader) FetchRange(ctx context.Context, span reader.Span) (reader.Span, error) {
	query := r.PreparedQuery()

	params := url.Values{}
	for key, values := range r.def.ExtraParams {
		for _, v := range values {
			params.Add(key, v)
		}
	}
	params.Set("query", query.QueryString())
	params.Set("from", fmt.Sprintf("%d", span.Start))
	params.Set("size", fmt.Sprintf("%d", span.Len()))
	params.Set("mode", "default")
	params.Set("sort", "default")

	var resp searchResponse
	requestURL := r.searchURL + "?" + params.Encode()
	if err := r.client.GetJSON(ctx, requestURL, nil, &resp); err != nil {
		return reader.Span{}, errors.Wrap(err, errors.ErrorTypeReader, "search request failed")
	}

	if resp.Hits == nil {
		r.SetNumberOfResults(0)
		return reader.Span{Start: span.Start, End: span.Start}, nil
	}
	r.SetNumberOfResults(resp.Hits.Value)

	count := 0
	for i, row := range resp.Rows {
		if i >= span.Len() {
			break
		}
		rec, err := r.def.Convert(r.Catalog(), row)
		if err != nil {
			return reader.Span{}, err
		}
		r.StoreRecord(span.Start+i, rec)
		count++
	}
	return reader.Span{Start: span.Start, End: span.Start + count}, nil
}

// GetByID retrieves a single record from the by-identifier endpoint.
func (r *Reader) GetByID(ctx context.Context, identifier string) (record.Record, error) {
	if r.byIDBase == "" {
		return nil, errors.Newf(errors.ErrorTypeReader,
			"catalog %s does not support retrieval by identifier", r.Catalog().Slug)
	}

	var row map[string]interface{}
	if err := r.client.GetJSON(ctx, r.byIDBase+url.PathEscape(identifier), nil, &row); err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.Newf(errors.ErrorTypeNotFound,
				"item with id %s does not exist", identifier)
		}
		return nil, errors.Wrap(err, errors.ErrorTypeReader, "retrieval by identifier failed")
	}
	return r.def.Convert(r.Catalog(), row)
}
