// Package kb implements the reader for the general catalog of the
// Koninklijke Bibliotheek, the national library of the Netherlands.
package kb

import (
	"net/url"
	"strings"

	"github.com/edpop/explorer/pkg/reader/registry"
	"github.com/edpop/explorer/pkg/readers/sru"
	"github.com/edpop/explorer/pkg/record"
)

const ppnPrefix = "GGC:AC:"

// Catalog is the static KB catalog descriptor.
var Catalog = &record.Catalog{
	Name:        "Koninklijke Bibliotheek",
	Slug:        "kb",
	Description: "General catalog of the national library of the Netherlands",
	URI:         record.CatalogIRI("kb"),
	IRIPrefix:   "https://edpop.hum.uu.nl/readers/kb/",
	Type:        record.Bibliographical,
}

// Definition wires the KB endpoint to the Dublin Core conversion
// layer. The server requires an x-collection parameter on every
// request.
var Definition = &sru.Definition{
	Catalog:     Catalog,
	Endpoint:    "http://jsru.kb.nl/sru",
	Version:     "1.2",
	ExtraParams: url.Values{"x-collection": {"GGC"}},
	Convert: sru.DCDefinition{
		Identifier: ppn,
		Link:       link,
	}.Convert,
}

func init() {
	registry.MustRegister(Catalog, Definition.Factory())
}

// ppn recovers the PPN from the OAI-PMH identifier element.
func ppn(d *sru.DCData) string {
	for _, id := range d.Values("OaiPmhIdentifier") {
		if strings.HasPrefix(id, ppnPrefix) {
			return strings.TrimPrefix(id, ppnPrefix)
		}
	}
	return ""
}

func link(d *sru.DCData) string {
	identifier := ppn(d)
	if identifier == "" {
		return ""
	}
	return "https://webggc.oclc.org/cbs/DB=2.37/PPN?PPN=" + identifier
}
