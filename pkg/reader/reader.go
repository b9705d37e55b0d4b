// Package reader implements the catalog pagination engine: the state
// machine that turns adapter-specific range fetches into a uniform,
// incrementally fetched and resumable result set.
package reader

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/edpop/explorer/pkg/errors"
	"github.com/edpop/explorer/pkg/logger"
	"github.com/edpop/explorer/pkg/record"
)

// DefaultRecordsPerPage is the number of records fetched per page when
// the caller does not specify one.
const DefaultRecordsPerPage = 10

// PreparedQuery is a query transformed for use by a catalog API. Plain
// text queries use StringQuery; adapters with structured queries define
// their own type.
type PreparedQuery interface {
	// QueryString returns the canonical string form of the query,
	// used for display and for session identifiers.
	QueryString() string
}

// StringQuery is a prepared query represented by a single string.
type StringQuery string

// QueryString returns the query itself.
func (q StringQuery) QueryString() string { return string(q) }

// Span is a half-open range of record indexes [Start, End).
type Span struct {
	Start int
	End   int
}

// Len returns the number of indexes in the span.
func (s Span) Len() int {
	if s.End <= s.Start {
		return 0
	}
	return s.End - s.Start
}

// IsEmpty reports whether the span covers no indexes.
func (s Span) IsEmpty() bool { return s.Len() == 0 }

// String renders the span for display.
func (s Span) String() string { return fmt.Sprintf("[%d, %d)", s.Start, s.End) }

// RangeFetcher is the adapter-supplied retrieval operation. FetchRange
// must populate the reader's records for every index in the span that
// exists, set the total result count as soon as it is knowable, and
// truncate rather than error when the span extends past the end of the
// result set. It returns the span of indexes actually populated.
type RangeFetcher interface {
	FetchRange(ctx context.Context, span Span) (Span, error)
}

// Reader is the uniform pagination contract every catalog adapter
// exposes.
type Reader interface {
	// Catalog returns the static descriptor of the catalog
	Catalog() *record.Catalog
	// PrepareQuery transforms and sets a raw query
	PrepareQuery(query string) error
	// SetQuery sets an exact prepared query
	SetQuery(query PreparedQuery) error
	// PreparedQuery returns the current query, or nil
	PreparedQuery() PreparedQuery
	// Fetch retrieves the next page of up to n records and returns
	// the span of indexes actually populated
	Fetch(ctx context.Context, n int) (Span, error)
	// Get returns the record at the given index, fetching it when
	// allowed and necessary
	Get(ctx context.Context, index int, allowFetching bool) (record.Record, error)
	// Record returns the record at the given index when present
	Record(index int) (record.Record, bool)
	// Records returns the sparse index-to-record mapping
	Records() map[int]record.Record
	// NumberOfResults returns the total hit count; false until the
	// first successful fetch
	NumberOfResults() (int, bool)
	// NumberFetched returns the count of populated records
	NumberFetched() int
	// FetchPosition returns the index the next Fetch starts from
	FetchPosition() int
	// FetchingStarted reports whether any fetch has completed
	FetchingStarted() bool
	// FetchingExhausted reports whether all results are fetched
	FetchingExhausted() bool
	// AdjustStartRecord pre-seeds the fetch cursor to resume a
	// session; only valid before any fetch
	AdjustStartRecord(n int) error
	// GenerateIdentifier returns a stable session key for this
	// reader and query combination
	GenerateIdentifier() (string, error)
}

// GetByIDReader is implemented by readers that support direct lookup
// of a single record by its catalog-local identifier.
type GetByIDReader interface {
	Reader
	GetByID(ctx context.Context, identifier string) (record.Record, error)
}

// TransformFunc turns a raw query into a prepared one.
type TransformFunc func(query string) (PreparedQuery, error)

// Option configures a BaseReader.
type Option func(*BaseReader)

// WithTransform sets the adapter's query transformation.
func WithTransform(fn TransformFunc) Option {
	return func(r *BaseReader) { r.transform = fn }
}

// WithPageSize sets the default number of records per fetch.
func WithPageSize(n int) Option {
	return func(r *BaseReader) {
		if n > 0 {
			r.pageSize = n
		}
	}
}

// WithFetchAllAtOnce marks the reader as fetching the complete result
// set on the first fetch, regardless of the requested page size.
func WithFetchAllAtOnce() Option {
	return func(r *BaseReader) { r.fetchAllAtOnce = true }
}

// BaseReader implements the pagination state machine. Concrete
// adapters embed it and pass themselves as the RangeFetcher.
type BaseReader struct {
	catalog *record.Catalog
	fetcher RangeFetcher
	log     *zap.Logger

	transform      TransformFunc
	pageSize       int
	fetchAllAtOnce bool

	records         map[int]record.Record
	numberOfResults int
	hasNumber       bool
	prepared        PreparedQuery
	fetchPosition   int
}

// NewBaseReader creates the pagination engine for one catalog adapter.
// The fetcher is the adapter itself.
func NewBaseReader(catalog *record.Catalog, fetcher RangeFetcher, opts ...Option) *BaseReader {
	r := &BaseReader{
		catalog:  catalog,
		fetcher:  fetcher,
		log:      logger.With(zap.String("catalog", catalog.Slug)),
		pageSize: DefaultRecordsPerPage,
		records:  make(map[int]record.Record),
		transform: func(query string) (PreparedQuery, error) {
			return StringQuery(query), nil
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Catalog returns the catalog descriptor.
func (r *BaseReader) Catalog() *record.Catalog { return r.catalog }

// PrepareQuery transforms a raw query and sets it. Changing the query
// after fetching has started requires a new reader instance.
func (r *BaseReader) PrepareQuery(query string) error {
	prepared, err := r.transform(query)
	if err != nil {
		return err
	}
	return r.SetQuery(prepared)
}

// SetQuery sets an exact prepared query.
func (r *BaseReader) SetQuery(query PreparedQuery) error {
	if r.FetchingStarted() {
		return errors.New(errors.ErrorTypeReader,
			"cannot change query after fetching has started")
	}
	r.prepared = query
	return nil
}

// PreparedQuery returns the current query, or nil when unset.
func (r *BaseReader) PreparedQuery() PreparedQuery { return r.prepared }

// FetchAllAtOnce reports whether the reader loads the complete result
// set on the first fetch.
func (r *BaseReader) FetchAllAtOnce() bool { return r.fetchAllAtOnce }

// PageSize returns the default number of records per fetch.
func (r *BaseReader) PageSize() int { return r.pageSize }

// Fetch retrieves the next page. When the reader is already exhausted
// it returns an empty span without touching any state.
func (r *BaseReader) Fetch(ctx context.Context, n int) (Span, error) {
	if r.prepared == nil {
		return Span{}, errors.New(errors.ErrorTypeReader, "no query has been set")
	}
	if r.FetchingExhausted() {
		return Span{Start: r.fetchPosition, End: r.fetchPosition}, nil
	}
	if n <= 0 {
		n = r.pageSize
	}

	requested := Span{Start: r.fetchPosition, End: r.fetchPosition + n}
	got, err := r.fetcher.FetchRange(ctx, requested)
	if err != nil {
		return Span{}, err
	}
	if got.End > r.fetchPosition {
		r.fetchPosition = got.End
	}

	r.log.Debug("fetched page",
		zap.String("requested", requested.String()),
		zap.String("populated", got.String()),
		zap.Int("number_fetched", r.NumberFetched()))
	return got, nil
}

// Get returns the record at index. When the record is absent, fetching
// is allowed, and the index is not provably out of range, a
// single-record fetch is attempted first.
func (r *BaseReader) Get(ctx context.Context, index int, allowFetching bool) (record.Record, error) {
	if rec, ok := r.records[index]; ok {
		return rec, nil
	}
	if allowFetching && (!r.hasNumber || index < r.numberOfResults) {
		if _, err := r.fetcher.FetchRange(ctx, Span{Start: index, End: index + 1}); err != nil {
			return nil, err
		}
		if rec, ok := r.records[index]; ok {
			return rec, nil
		}
	}
	return nil, errors.Newf(errors.ErrorTypeNotFound,
		"item with index %d is not available", index)
}

// Record returns the record at index when present.
func (r *BaseReader) Record(index int) (record.Record, bool) {
	rec, ok := r.records[index]
	return rec, ok
}

// Records returns the sparse index-to-record mapping. The map is the
// reader's own; callers must not mutate it.
func (r *BaseReader) Records() map[int]record.Record { return r.records }

// StoreRecord writes a fetched record at the given index. Adapters
// call this from FetchRange; existing entries are never removed.
func (r *BaseReader) StoreRecord(index int, rec record.Record) {
	r.records[index] = rec
}

// SetNumberOfResults records the total hit count as reported by the
// catalog.
func (r *BaseReader) SetNumberOfResults(n int) {
	r.numberOfResults = n
	r.hasNumber = true
}

// NumberOfResults returns the total hit count; the boolean is false
// until the first successful fetch.
func (r *BaseReader) NumberOfResults() (int, bool) {
	return r.numberOfResults, r.hasNumber
}

// NumberFetched returns the count of populated records. It is derived
// from the record index, never stored independently.
func (r *BaseReader) NumberFetched() int { return len(r.records) }

// FetchPosition returns the index the next Fetch starts from. Unlike
// NumberFetched it survives a resume: a reader pre-seeded with
// AdjustStartRecord reports the overall cursor, not just the records
// it fetched itself.
func (r *BaseReader) FetchPosition() int { return r.fetchPosition }

// FetchingStarted reports whether a fetch has completed. Once started,
// the query can no longer change.
func (r *BaseReader) FetchingStarted() bool { return r.hasNumber }

// FetchingExhausted reports whether every result has been fetched.
func (r *BaseReader) FetchingExhausted() bool {
	return r.hasNumber && r.NumberFetched() == r.numberOfResults
}

// AdjustStartRecord pre-seeds the fetch cursor so a resumed session
// skips the first n already-known results. Only valid before any
// fetch.
func (r *BaseReader) AdjustStartRecord(n int) error {
	if r.FetchingStarted() {
		return errors.New(errors.ErrorTypeReader,
			"cannot adjust start record after fetching has started")
	}
	if n < 0 {
		return errors.New(errors.ErrorTypeValidation, "start record cannot be negative")
	}
	r.fetchPosition = n
	return nil
}

// GenerateIdentifier returns a stable key for the combination of
// catalog and prepared query, usable to resume a session across
// process restarts.
func (r *BaseReader) GenerateIdentifier() (string, error) {
	if r.prepared == nil {
		return "", errors.New(errors.ErrorTypeReader, "a prepared query should be set first")
	}
	return fmt.Sprintf("%s | %s", r.catalog.Slug, r.prepared.QueryString()), nil
}
