package sparql

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edpop/explorer/pkg/errors"
	"github.com/edpop/explorer/pkg/record"
)

func testCatalog() *record.Catalog {
	return &record.Catalog{
		Name:      "Test SPARQL Catalog",
		Slug:      "testsparql",
		IRIPrefix: "http://example.com/testsparql/",
		Type:      record.Bibliographical,
	}
}

func searchResponse(subjects ...string) string {
	var rows []string
	for _, s := range subjects {
		rows = append(rows, fmt.Sprintf(
			`{"s": {"type": "uri", "value": "%s"}, "name": {"type": "literal", "value": "Name of %s"}}`,
			s, s))
	}
	return fmt.Sprintf(
		`{"head": {"vars": ["s", "name"]}, "results": {"bindings": [%s]}}`,
		strings.Join(rows, ","))
}

func propertyResponse(pairs map[string]string) string {
	var rows []string
	for p, o := range pairs {
		rows = append(rows, fmt.Sprintf(
			`{"p": {"type": "uri", "value": "%s"}, "o": {"type": "literal", "value": "%s"}}`, p, o))
	}
	return fmt.Sprintf(
		`{"head": {"vars": ["p", "o"]}, "results": {"bindings": [%s]}}`,
		strings.Join(rows, ","))
}

func testServer(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	var queries []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("query")
		queries = append(queries, query)
		w.Header().Set("Content-Type", "application/sparql-results+json")
		switch {
		case strings.Contains(query, "regex(?o, \"montaigne\""):
			fmt.Fprint(w, searchResponse("http://example.org/work/1", "http://example.org/work/2"))
		case strings.Contains(query, "regex"):
			fmt.Fprint(w, searchResponse())
		case strings.Contains(query, "<http://example.org/work/1>"):
			fmt.Fprint(w, propertyResponse(map[string]string{
				"http://schema.org/name":      "Essais",
				"http://schema.org/publisher": "L'Angelier",
			}))
		default:
			fmt.Fprint(w, propertyResponse(nil))
		}
	}))
	t.Cleanup(server.Close)
	return server, &queries
}

func testDefinition(endpoint string) *Definition {
	return &Definition{
		Catalog:  testCatalog(),
		Endpoint: endpoint,
		Filter:   "?s schema:isPartOf <http://example.org/dataset> .",
		Populate: func(props map[string][]string, rec *record.BibliographicalRecord) {
			if names := props["http://schema.org/name"]; len(names) > 0 {
				rec.Title = record.NewField(names[0])
			}
			if publishers := props["http://schema.org/publisher"]; len(publishers) > 0 {
				rec.PublisherOrPrinter = record.NewField(publishers[0])
			}
		},
	}
}

func TestFetchLoadsAllAtOnce(t *testing.T) {
	server, queries := testServer(t)
	r := testDefinition(server.URL).NewReader(nil)
	require.NoError(t, r.PrepareQuery("montaigne"))

	span, err := r.Fetch(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 0, span.Start)
	assert.Equal(t, 2, span.End)
	assert.True(t, r.FetchingExhausted())

	total, ok := r.NumberOfResults()
	require.True(t, ok)
	assert.Equal(t, 2, total)

	// the dataset filter must be part of the search query
	require.Len(t, *queries, 1)
	assert.Contains(t, (*queries)[0], "http://example.org/dataset")

	// further fetches are no-ops
	span, err = r.Fetch(context.Background(), 0)
	require.NoError(t, err)
	assert.True(t, span.IsEmpty())
	require.Len(t, *queries, 1)
}

func TestRecordsAreLazy(t *testing.T) {
	server, queries := testServer(t)
	r := testDefinition(server.URL).NewReader(nil)
	require.NoError(t, r.PrepareQuery("montaigne"))
	_, err := r.Fetch(context.Background(), 0)
	require.NoError(t, err)

	rec, ok := r.Record(0)
	require.True(t, ok)
	lazy, ok := rec.(record.LazyRecord)
	require.True(t, ok)
	assert.False(t, lazy.Fetched())
	assert.Equal(t, "http://example.org/work/1", rec.Identifier())

	// the search already provides a display name
	bib := rec.(*Record)
	assert.Equal(t, "Name of http://example.org/work/1", bib.Title.OriginalText())

	require.NoError(t, lazy.Fetch(context.Background()))
	assert.True(t, lazy.Fetched())
	assert.Equal(t, "Essais", bib.Title.OriginalText())
	assert.Equal(t, "L'Angelier", bib.PublisherOrPrinter.OriginalText())
	require.NotNil(t, rec.RawData())
	assert.Equal(t, "Essais", rec.RawData().ToDict()["http://schema.org/name"])

	// a second fetch does not touch the endpoint again
	countBefore := len(*queries)
	require.NoError(t, lazy.Fetch(context.Background()))
	assert.Equal(t, countBefore, len(*queries))
}

func TestGetByID(t *testing.T) {
	server, _ := testServer(t)
	r := testDefinition(server.URL).NewReader(nil)

	rec, err := r.GetByID(context.Background(), "http://example.org/work/1")
	require.NoError(t, err)
	assert.Equal(t, "http://example.org/work/1", rec.Identifier())

	_, err = r.GetByID(context.Background(), "http://example.org/work/999")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestSearchQueryEscapesInput(t *testing.T) {
	d := testDefinition("http://example.com/sparql")
	query := d.searchQuery(`broken" } select`)
	assert.Contains(t, query, `broken\" } select`)
}

func TestEscapeLiteral(t *testing.T) {
	assert.Equal(t, `a\\b\"c\n`, EscapeLiteral("a\\b\"c\n"))
}
