// Package vd implements readers for the Verzeichnis der Drucke
// retrospective national bibliographies of the German speaking
// countries: VD16, VD17, VD18 and VD Lied.
package vd

import (
	"strings"

	"github.com/edpop/explorer/pkg/reader"
	"github.com/edpop/explorer/pkg/reader/registry"
	"github.com/edpop/explorer/pkg/readers/sru"
	"github.com/edpop/explorer/pkg/record"
)

// VD16Catalog describes the sixteenth century bibliography.
var VD16Catalog = &record.Catalog{
	Name:        "Verzeichnis der Drucke des 16. Jahrhunderts",
	Slug:        "vd16",
	Description: "Retrospective national bibliography of sixteenth century German prints",
	URI:         record.CatalogIRI("vd16"),
	IRIPrefix:   "https://edpop.hum.uu.nl/readers/vd16/",
	Type:        record.Bibliographical,
}

var VD17Catalog = &record.Catalog{
	Name:        "Verzeichnis der Drucke des 17. Jahrhunderts",
	Slug:        "vd17",
	Description: "Retrospective national bibliography of seventeenth century German prints",
	URI:         record.CatalogIRI("vd17"),
	IRIPrefix:   "https://edpop.hum.uu.nl/readers/vd17/",
	Type:        record.Bibliographical,
}

var VD18Catalog = &record.Catalog{
	Name:        "Verzeichnis der Drucke des 18. Jahrhunderts",
	Slug:        "vd18",
	Description: "Retrospective national bibliography of eighteenth century German prints",
	URI:         record.CatalogIRI("vd18"),
	IRIPrefix:   "https://edpop.hum.uu.nl/readers/vd18/",
	Type:        record.Bibliographical,
}

var VDLiedCatalog = &record.Catalog{
	Name:        "Verzeichnis der deutschsprachigen Liedflugschriften",
	Slug:        "vdlied",
	Description: "Bibliography of German song pamphlets",
	URI:         record.CatalogIRI("vdlied"),
	IRIPrefix:   "https://edpop.hum.uu.nl/readers/vdlied/",
	Type:        record.Bibliographical,
}

// VD16Definition queries the Bavarian union SRU server, which combines
// several databases; the query is restricted to the VD16 set.
var VD16Definition = &sru.Definition{
	Catalog:  VD16Catalog,
	Endpoint: "http://bvbr.bib-bvb.de:5661/bvb01sru",
	Version:  "1.1",
	Schema:   "marcxml",
	Transform: func(query string) (reader.PreparedQuery, error) {
		return reader.StringQuery("VD16 and (" + query + ")"), nil
	},
	Convert: sru.Marc21Definition{
		Identifier: vdNumber(""),
		Link:       vd16Link,
	}.Convert,
}

var VD17Definition = &sru.Definition{
	Catalog:  VD17Catalog,
	Endpoint: "http://sru.k10plus.de/vd17",
	Version:  "1.1",
	Schema:   "marcxml",
	Convert: sru.Marc21Definition{
		Identifier: vdNumber(""),
		Link: func(m *sru.Marc21Record) string {
			id := firstVDNumber(m, "")
			if id == "" {
				return ""
			}
			return "https://kxp.k10plus.de/DB=1.28/CMD?ACT=SRCHA&IKT=8079&TRM=%27" + id + "%27"
		},
	}.Convert,
}

var VD18Definition = &sru.Definition{
	Catalog:  VD18Catalog,
	Endpoint: "http://sru.k10plus.de/vd18",
	Version:  "1.1",
	Schema:   "marcxml",
	Convert: sru.Marc21Definition{
		Identifier: vdNumber("vd18"),
		Link: func(m *sru.Marc21Record) string {
			id := firstVDNumber(m, "vd18")
			if len(id) <= 5 {
				return ""
			}
			// the VD18 number carries a "VD18 " prefix not used in links
			return "https://kxp.k10plus.de/DB=1.65/SET=1/TTL=1/CMD?ACT=SRCHA&IKT=1016&SRT=YOP&TRM=" +
				id[5:] + "&ADI_MAT=B&MATCFILTER=Y&MATCSET=Y&ADI_MAT=T&REC=*"
		},
	}.Convert,
}

var VDLiedDefinition = &sru.Definition{
	Catalog:  VDLiedCatalog,
	Endpoint: "http://sru.gbv.de/vdlied",
	Version:  "1.1",
	Schema:   "marcxml",
	Convert: sru.Marc21Definition{
		Link: func(m *sru.Marc21Record) string {
			ppn := m.ControlField("001")
			if ppn == "" {
				return ""
			}
			return "https://gso.gbv.de/DB=1.60/PPNSET?PPN=" + ppn
		},
	}.Convert,
}

func init() {
	registry.MustRegister(VD16Catalog, VD16Definition.Factory())
	registry.MustRegister(VD17Catalog, VD17Definition.Factory())
	registry.MustRegister(VD18Catalog, VD18Definition.Factory())
	registry.MustRegister(VDLiedCatalog, VDLiedDefinition.Factory())
}

// firstVDNumber returns the 024a value of the first 024 field whose
// subfield 2 matches the given source code; an empty code accepts any
// 024 field. Field 024 may repeat.
func firstVDNumber(m *sru.Marc21Record, source string) string {
	for _, f := range m.Fields("024") {
		if source != "" && f.Subfield("2") != source {
			continue
		}
		if a := f.Subfield("a"); a != "" {
			return a
		}
	}
	return ""
}

func vdNumber(source string) func(*sru.Marc21Record) string {
	return func(m *sru.Marc21Record) string {
		if id := firstVDNumber(m, source); id != "" {
			return id
		}
		return m.ControlField("001")
	}
}

func vd16Link(m *sru.Marc21Record) string {
	id := firstVDNumber(m, "")
	if id == "" {
		return ""
	}
	// gateway-bayern wants plus signs instead of spaces
	return "http://gateway-bayern.de/" + strings.ReplaceAll(id, " ", "+")
}
