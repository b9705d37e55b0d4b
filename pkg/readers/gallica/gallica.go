// Package gallica implements the reader for Gallica, the digital
// library of the Bibliothèque nationale de France, queried over SRU
// with Dublin Core records.
package gallica

import (
	"regexp"
	"strings"

	"github.com/edpop/explorer/pkg/reader"
	"github.com/edpop/explorer/pkg/reader/registry"
	"github.com/edpop/explorer/pkg/readers/sru"
	"github.com/edpop/explorer/pkg/record"
)

// Catalog is the static Gallica catalog descriptor.
var Catalog = &record.Catalog{
	Name:        "Gallica",
	Slug:        "gallica",
	Description: "Digital library of the Bibliothèque nationale de France",
	URI:         record.CatalogIRI("gallica"),
	IRIPrefix:   "https://edpop.hum.uu.nl/readers/gallica/",
	Type:        record.Bibliographical,
}

var mimeTypePattern = regexp.MustCompile(`^[a-z]+/[a-z]+$`)

// Definition wires the Gallica endpoint to the Dublin Core conversion
// layer.
var Definition = &sru.Definition{
	Catalog:  Catalog,
	Endpoint: "https://gallica.bnf.fr/SRU",
	Version:  "1.2",
	Transform: func(query string) (reader.PreparedQuery, error) {
		return reader.StringQuery("gallica all " + query), nil
	},
	Convert: sru.DCDefinition{
		Identifier: arkIdentifier,
		Link:       arkIdentifier,
		Finalize:   finalize,
	}.Convert,
}

func init() {
	registry.MustRegister(Catalog, Definition.Factory())
}

// arkIdentifier picks the visitable Gallica URL out of the identifier
// elements, which mix URLs with other identifier types.
func arkIdentifier(d *sru.DCData) string {
	for _, id := range d.Values("identifier") {
		if strings.HasPrefix(id, "https://") {
			return id
		}
	}
	return ""
}

// finalize extracts the extent. The format elements mix the number of
// views, the MIME type and the physical extent; the extent is whatever
// remains after filtering out the first two.
func finalize(d *sru.DCData, rec *record.BibliographicalRecord) {
	for _, format := range d.Values("format") {
		if strings.HasPrefix(format, "Nombre total de vues") {
			continue
		}
		if mimeTypePattern.MatchString(format) {
			continue
		}
		rec.Extent = record.NewField(format)
		break
	}
}
