package reader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/edpop/explorer/pkg/clients"
	"github.com/edpop/explorer/pkg/errors"
	"github.com/edpop/explorer/pkg/rdf"
	"github.com/edpop/explorer/pkg/record"
)

func stubCatalog() *record.Catalog {
	return &record.Catalog{
		Name:      "Stub Catalog",
		Slug:      "stub",
		URI:       rdf.IRI{Value: "http://example.com/catalogs/stub"},
		IRIPrefix: "http://example.com/records/stub/",
		Type:      record.Bibliographical,
	}
}

// stubReader serves a fixed number of synthetic records whose
// identifiers are their indexes.
type stubReader struct {
	*BaseReader
	total  int
	makeID func(i int) string
	calls  int
}

func newStubReader(total int, opts ...Option) *stubReader {
	s := &stubReader{
		total:  total,
		makeID: strconv.Itoa,
	}
	s.BaseReader = NewBaseReader(stubCatalog(), s, opts...)
	return s
}

func (s *stubReader) FetchRange(ctx context.Context, span Span) (Span, error) {
	s.calls++
	total := s.total
	if q := s.PreparedQuery(); q != nil && q.QueryString() == "nonematching" {
		total = 0
	}
	s.SetNumberOfResults(total)

	end := span.End
	if end > total {
		end = total
	}
	if span.Start >= end {
		return Span{Start: span.Start, End: span.Start}, nil
	}
	for i := span.Start; i < end; i++ {
		rec := record.NewBibliographicalRecord(s.Catalog())
		rec.ID = s.makeID(i)
		s.StoreRecord(i, rec)
	}
	return Span{Start: span.Start, End: end}, nil
}

func TestFetchPagination(t *testing.T) {
	ctx := context.Background()
	r := newStubReader(20)
	require.NoError(t, r.PrepareQuery("anything"))

	span, err := r.Fetch(ctx, 8)
	require.NoError(t, err)
	assert.Equal(t, Span{Start: 0, End: 8}, span)
	assert.Equal(t, 8, r.NumberFetched())
	assert.False(t, r.FetchingExhausted())

	span, err = r.Fetch(ctx, 8)
	require.NoError(t, err)
	assert.Equal(t, Span{Start: 8, End: 16}, span)
	assert.Equal(t, 16, r.NumberFetched())

	// The final page is clamped to the end of the result set.
	span, err = r.Fetch(ctx, 8)
	require.NoError(t, err)
	assert.Equal(t, Span{Start: 16, End: 20}, span)
	assert.Equal(t, 20, r.NumberFetched())
	assert.True(t, r.FetchingExhausted())

	// Fetching an exhausted reader is a no-op.
	calls := r.calls
	span, err = r.Fetch(ctx, 8)
	require.NoError(t, err)
	assert.True(t, span.IsEmpty())
	assert.Equal(t, calls, r.calls)
	assert.Equal(t, 20, r.NumberFetched())
}

func TestFetchDefaultPageSize(t *testing.T) {
	r := newStubReader(50, WithPageSize(15))
	require.NoError(t, r.PrepareQuery("anything"))

	span, err := r.Fetch(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 15, span.Len())
}

func TestFetchWithoutQuery(t *testing.T) {
	r := newStubReader(20)
	_, err := r.Fetch(context.Background(), 8)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeReader))
}

func TestNumberFetchedMatchesRecords(t *testing.T) {
	ctx := context.Background()
	r := newStubReader(20)
	require.NoError(t, r.PrepareQuery("anything"))

	previous := 0
	for i := 0; i < 4; i++ {
		_, err := r.Fetch(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, len(r.Records()), r.NumberFetched())
		assert.GreaterOrEqual(t, r.NumberFetched(), previous)
		previous = r.NumberFetched()
	}
	assert.Equal(t, 20, r.NumberFetched())
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	r := newStubReader(20)
	require.NoError(t, r.PrepareQuery("anything"))

	// A single-record fetch is performed on demand.
	rec, err := r.Get(ctx, 5, true)
	require.NoError(t, err)
	assert.Equal(t, "5", rec.Identifier())
	assert.Equal(t, 1, r.NumberFetched())

	// A present record is returned without fetching.
	calls := r.calls
	rec, err = r.Get(ctx, 5, true)
	require.NoError(t, err)
	assert.Equal(t, "5", rec.Identifier())
	assert.Equal(t, calls, r.calls)
}

func TestGetWithoutFetching(t *testing.T) {
	r := newStubReader(20)
	require.NoError(t, r.PrepareQuery("anything"))

	_, err := r.Get(context.Background(), 25, false)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestGetProvablyOutOfRange(t *testing.T) {
	ctx := context.Background()
	r := newStubReader(20)
	require.NoError(t, r.PrepareQuery("anything"))
	_, err := r.Fetch(ctx, 8)
	require.NoError(t, err)

	// The total is known, so no fetch is attempted for index 25.
	calls := r.calls
	_, err = r.Get(ctx, 25, true)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	assert.Equal(t, calls, r.calls)
}

func TestSetQueryAfterFetch(t *testing.T) {
	ctx := context.Background()
	r := newStubReader(20)
	require.NoError(t, r.PrepareQuery("first"))
	_, err := r.Fetch(ctx, 8)
	require.NoError(t, err)

	err = r.PrepareQuery("second")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeReader))
}

func TestAdjustStartRecord(t *testing.T) {
	ctx := context.Background()
	r := newStubReader(20)
	require.NoError(t, r.PrepareQuery("anything"))
	require.NoError(t, r.AdjustStartRecord(10))

	span, err := r.Fetch(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, Span{Start: 10, End: 15}, span)

	// Adjusting after fetching has started is an error.
	err = r.AdjustStartRecord(0)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeReader))
}

func TestGenerateIdentifier(t *testing.T) {
	r := newStubReader(20)
	_, err := r.GenerateIdentifier()
	require.Error(t, err)

	require.NoError(t, r.PrepareQuery("erasmus"))
	id, err := r.GenerateIdentifier()
	require.NoError(t, err)
	assert.Equal(t, "stub | erasmus", id)

	// The identifier is stable across instances.
	other := newStubReader(20)
	require.NoError(t, other.PrepareQuery("erasmus"))
	otherID, err := other.GenerateIdentifier()
	require.NoError(t, err)
	assert.Equal(t, id, otherID)
}

func TestGetByIDViaQueryNoResults(t *testing.T) {
	r := newStubReader(20)
	_, err := GetByIDViaQuery(context.Background(), r, StringQuery("nonematching"), "7")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestGetByIDViaQueryNotAmongResults(t *testing.T) {
	r := newStubReader(2)
	r.makeID = func(i int) string { return "other-" + strconv.Itoa(i) }
	_, err := GetByIDViaQuery(context.Background(), r, StringQuery("manymatching"), "7")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestGetByIDViaQueryFound(t *testing.T) {
	r := newStubReader(20)
	rec, err := GetByIDViaQuery(context.Background(), r, StringQuery("anything"), "3")
	require.NoError(t, err)
	assert.Equal(t, "3", rec.Identifier())
}

func TestSpan(t *testing.T) {
	assert.Equal(t, 5, Span{Start: 3, End: 8}.Len())
	assert.True(t, Span{Start: 3, End: 3}.IsEmpty())
	assert.Equal(t, 0, Span{Start: 8, End: 3}.Len())
	assert.Equal(t, "[3, 8)", Span{Start: 3, End: 8}.String())
}

func TestDatabaseFilePrepareDownloads(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("database contents"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	d := &DatabaseFile{URL: srv.URL, Filename: "stub.db"}

	cfg := clients.DefaultHTTPConfig()
	cfg.RateLimit = 0
	cfg.RetryDelay = time.Millisecond
	client := clients.NewHTTPClient(cfg, zap.NewNop())
	defer client.Close()

	path, err := d.Prepare(context.Background(), dir, client)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "stub.db"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "database contents", string(data))
}

func TestDatabaseFilePrepareExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stub.db")
	require.NoError(t, os.WriteFile(path, []byte("existing"), 0o644))

	d := &DatabaseFile{Filename: "stub.db"}
	got, err := d.Prepare(context.Background(), dir, nil)
	require.NoError(t, err)
	assert.Equal(t, path, got)
}

func TestDatabaseFilePrepareMissingWithoutURL(t *testing.T) {
	d := &DatabaseFile{Filename: "absent.db"}
	_, err := d.Prepare(context.Background(), t.TempDir(), nil)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeReader))
}
