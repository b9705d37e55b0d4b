// Package cerl implements readers for the biographical databases on
// the data.cerl.org platform: the CERL Thesaurus and the Scottish Book
// Trade Index. Both expose the platform's JSON search API.
package cerl

import (
	"github.com/edpop/explorer/pkg/reader/registry"
	"github.com/edpop/explorer/pkg/readers/rest"
	"github.com/edpop/explorer/pkg/record"
)

// ThesaurusCatalog describes the CERL Thesaurus of places, printers
// and authors of the hand-press era.
var ThesaurusCatalog = &record.Catalog{
	Name:        "CERL Thesaurus",
	Slug:        "cerlthesaurus",
	Description: "Names of places, printers and authors of the hand-press era",
	URI:         record.CatalogIRI("cerlthesaurus"),
	IRIPrefix:   "https://edpop.hum.uu.nl/readers/cerlthesaurus/",
	Type:        record.Biographical,
}

// SBTICatalog describes the Scottish Book Trade Index.
var SBTICatalog = &record.Catalog{
	Name:        "Scottish Book Trade Index (SBTI)",
	Slug:        "sbti",
	Description: "Names, trades and addresses of people involved in printing in Scotland up to 1850",
	URI:         record.CatalogIRI("sbti"),
	IRIPrefix:   "https://edpop.hum.uu.nl/readers/sbti/",
	Type:        record.Biographical,
}

// ThesaurusDefinition wires the thesaurus search API.
var ThesaurusDefinition = &rest.Definition{
	Catalog:     ThesaurusCatalog,
	SearchURL:   "https://data.cerl.org/thesaurus/_search",
	ByIDBaseURL: "https://data.cerl.org/thesaurus/",
	Convert:     converter("https://data.cerl.org/thesaurus/"),
}

// SBTIDefinition wires the SBTI search API.
var SBTIDefinition = &rest.Definition{
	Catalog:     SBTICatalog,
	SearchURL:   "https://data.cerl.org/sbti/_search",
	ByIDBaseURL: "https://data.cerl.org/sbti/",
	Convert:     converter("https://data.cerl.org/sbti/"),
}

func init() {
	registry.MustRegister(ThesaurusCatalog, ThesaurusDefinition.Factory())
	registry.MustRegister(SBTICatalog, SBTIDefinition.Factory())
}

// converter builds the row conversion shared by the data.cerl.org
// databases.
func converter(linkBase string) rest.ConvertFunc {
	return func(catalog *record.Catalog, row map[string]interface{}) (record.Record, error) {
		rec := record.NewBiographicalRecord(catalog)
		rec.Data = record.MapData(row)

		if id, ok := row["id"].(string); ok && id != "" {
			rec.ID = id
		} else if id, ok := row["_id"].(string); ok {
			rec.ID = id
		}
		if rec.ID != "" {
			rec.URL = linkBase + rec.ID
		}

		if headings, ok := row["heading"].([]interface{}); ok && len(headings) > 0 {
			rec.Name = nameField(headings[0])
		}
		if variants, ok := row["variantName"].([]interface{}); ok {
			for _, v := range variants {
				if f := nameField(v); f != nil {
					rec.VariantNames = append(rec.VariantNames, f)
				}
			}
		}
		// the API misspells this key
		if places, ok := row["placeOfActitivty"].([]interface{}); ok {
			for _, p := range places {
				entry, ok := p.(map[string]interface{})
				if !ok {
					continue
				}
				if name, ok := entry["name"].(string); ok && name != "" {
					location := record.NewLocationField(name)
					rec.PlacesOfActivity = append(rec.PlacesOfActivity, location)
				}
			}
		}
		return rec, nil
	}
}

// nameField renders one name entry, which splits first name and
// surname into separate keys.
func nameField(v interface{}) record.Field {
	entry, ok := v.(map[string]interface{})
	if !ok {
		return nil
	}
	firstname, _ := entry["firstname"].(string)
	name, _ := entry["name"].(string)
	switch {
	case firstname != "" && name != "":
		return record.NewField(firstname + " " + name)
	case name != "":
		return record.NewField(name)
	default:
		return nil
	}
}
