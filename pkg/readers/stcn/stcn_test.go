package stcn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edpop/explorer/pkg/record"
)

func TestPopulate(t *testing.T) {
	rec := record.NewBibliographicalRecord(Catalog)
	populate(map[string][]string{
		"http://schema.org/name":          {"Sinnepoppen"},
		"http://schema.org/author":        {"Visscher, Roemer"},
		"http://schema.org/datePublished": {"1614"},
		"http://schema.org/inLanguage":    {"nl"},
		"http://schema.org/publisher":     {"Willem Jansz"},
	}, rec)

	assert.Equal(t, "Sinnepoppen", rec.Title.OriginalText())
	require.Len(t, rec.Contributors, 1)
	assert.Equal(t, "Visscher, Roemer", rec.Contributors[0].OriginalText())
	assert.Equal(t, "1614", rec.Dating.OriginalText())
	assert.Equal(t, "Willem Jansz", rec.PublisherOrPrinter.OriginalText())

	require.Len(t, rec.Languages, 1)
	lang := rec.Languages[0].(*record.LanguageField)
	assert.Equal(t, "nld", lang.LanguageCode)
	assert.Equal(t, "Dutch", lang.NormalizedText)
}

func TestPopulateEmptyProperties(t *testing.T) {
	rec := record.NewBibliographicalRecord(Catalog)
	populate(map[string][]string{}, rec)
	assert.Nil(t, rec.Title)
	assert.Empty(t, rec.Contributors)
}

func TestDatasetFilter(t *testing.T) {
	assert.Contains(t, Definition.Filter, "dataset/stcn")
}
