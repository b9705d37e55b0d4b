// Package hpb implements the reader for the Heritage of the Printed
// Book database, the CERL union catalog of hand-press era printing.
package hpb

import (
	"strings"

	"github.com/edpop/explorer/pkg/reader"
	"github.com/edpop/explorer/pkg/reader/registry"
	"github.com/edpop/explorer/pkg/readers/sru"
	"github.com/edpop/explorer/pkg/record"
)

const (
	endpoint   = "http://sru.k10plus.de/hpb"
	linkFormat = "http://hpb.cerl.org/record/"
	cerlPrefix = "(CERL)"
)

// Catalog is the static HPB catalog descriptor.
var Catalog = &record.Catalog{
	Name:        "Heritage of the Printed Book",
	Slug:        "hpb",
	Description: "Union catalog of European printing of the hand-press period",
	URI:         record.CatalogIRI("hpb"),
	IRIPrefix:   "https://edpop.hum.uu.nl/readers/hpb/",
	Type:        record.Bibliographical,
}

// Definition wires the HPB endpoint to the MARC21 conversion layer.
var Definition = &sru.Definition{
	Catalog:  Catalog,
	Endpoint: endpoint,
	Version:  "1.1",
	Schema:   "marcxml",
	Convert:  sru.Marc21Definition{Identifier: cerlIdentifier, Link: link}.Convert,
	GetByIDQuery: func(identifier string) (reader.PreparedQuery, error) {
		return reader.StringQuery("pica.ppn = " + identifier), nil
	},
}

func init() {
	registry.MustRegister(Catalog, Definition.Factory())
}

// cerlIdentifier extracts the CERL record id. HPB carries field 035
// more than once; the CERL id is the 035a value with a (CERL) prefix.
func cerlIdentifier(m *sru.Marc21Record) string {
	for _, f := range m.Fields("035") {
		if a := f.Subfield("a"); strings.HasPrefix(a, cerlPrefix) {
			return strings.TrimPrefix(a, cerlPrefix)
		}
	}
	return m.ControlField("001")
}

func link(m *sru.Marc21Record) string {
	for _, f := range m.Fields("035") {
		if a := f.Subfield("a"); strings.HasPrefix(a, cerlPrefix) {
			return linkFormat + strings.TrimPrefix(a, cerlPrefix)
		}
	}
	return ""
}
