// Package stcn implements the reader for the Short-Title Catalogue
// Netherlands, published as linked data on the KB SPARQL endpoint.
package stcn

import (
	"github.com/edpop/explorer/pkg/reader/registry"
	"github.com/edpop/explorer/pkg/readers/sparql"
	"github.com/edpop/explorer/pkg/record"
)

// Catalog is the static STCN catalog descriptor.
var Catalog = &record.Catalog{
	Name:        "Short-Title Catalogue Netherlands",
	Slug:        "stcn",
	Description: "Retrospective bibliography of the Netherlands up to 1801",
	URI:         record.CatalogIRI("stcn"),
	IRIPrefix:   "https://edpop.hum.uu.nl/readers/stcn/",
	Type:        record.Bibliographical,
}

// Definition wires the KB linked data endpoint, restricted to the STCN
// dataset.
var Definition = &sparql.Definition{
	Catalog:  Catalog,
	Endpoint: "http://data.bibliotheken.nl/sparql",
	Filter: "?s schema:mainEntityOfPage/schema:isPartOf " +
		"<http://data.bibliotheken.nl/id/dataset/stcn> .",
	Populate: populate,
}

func init() {
	registry.MustRegister(Catalog, Definition.Factory())
}

// populate maps the schema.org properties of a dereferenced STCN
// subject onto record fields.
func populate(props map[string][]string, rec *record.BibliographicalRecord) {
	if names := props["http://schema.org/name"]; len(names) > 0 {
		rec.Title = record.NewField(names[0])
	}
	for _, author := range props["http://schema.org/author"] {
		rec.Contributors = append(rec.Contributors, record.NewContributorField(author))
	}
	if published := props["http://schema.org/datePublished"]; len(published) > 0 {
		rec.Dating = record.NewDatingField(published[0])
	}
	for _, lang := range props["http://schema.org/inLanguage"] {
		language := record.NewLanguageField(lang)
		language.Normalize()
		rec.Languages = append(rec.Languages, language)
	}
	if publishers := props["http://schema.org/publisher"]; len(publishers) > 0 {
		rec.PublisherOrPrinter = record.NewField(publishers[0])
	}
}
