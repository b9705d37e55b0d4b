package sru

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"github.com/edpop/explorer/pkg/errors"
	"github.com/edpop/explorer/pkg/record"
)

// DCData is a parsed Dublin Core payload: the text values of its leaf
// elements keyed by local element name. Servers disagree on namespace
// prefixes and wrapper elements, so only local names of leaves are
// kept.
type DCData struct {
	values map[string][]string
	order  []string
}

// ParseDublinCore parses a Dublin Core payload as carried in SRU
// recordData.
func ParseDublinCore(payload []byte) (*DCData, error) {
	decoder := xml.NewDecoder(bytes.NewReader(wrapPayload(payload)))
	data := &DCData{values: make(map[string][]string)}

	var name string
	var text strings.Builder
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "malformed Dublin Core payload")
		}
		switch t := token.(type) {
		case xml.StartElement:
			name = t.Name.Local
			text.Reset()
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			// only leaf elements carry values; the closing tag of a
			// leaf matches the most recently opened element
			if t.Name.Local == name {
				value := strings.TrimSpace(text.String())
				if value != "" {
					if _, seen := data.values[name]; !seen {
						data.order = append(data.order, name)
					}
					data.values[name] = append(data.values[name], value)
				}
			}
			name = ""
			text.Reset()
		}
	}
	return data, nil
}

// Names returns the leaf element names in order of first appearance.
func (d *DCData) Names() []string {
	return d.order
}

// Values returns all values of the named element, possibly none.
func (d *DCData) Values(name string) []string {
	return d.values[name]
}

// First returns the first value of the named element, or "".
func (d *DCData) First(name string) string {
	if vs := d.values[name]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// Joined returns all values of the named element joined by the given
// separator, or "".
func (d *DCData) Joined(name, sep string) string {
	return strings.Join(d.values[name], sep)
}

// ToDict returns the values as raw record data.
func (d *DCData) ToDict() map[string]interface{} {
	out := make(map[string]interface{}, len(d.values))
	for name, vs := range d.values {
		if len(vs) == 1 {
			out[name] = vs[0]
		} else {
			items := make([]interface{}, len(vs))
			for i, v := range vs {
				items[i] = v
			}
			out[name] = items
		}
	}
	return out
}

// DCDefinition describes how one Dublin Core catalog derives record
// identity and catalog-specific fields from the parsed payload.
type DCDefinition struct {
	// Identifier extracts the catalog-local identifier, or ""
	Identifier func(d *DCData) string
	// Link builds the human-facing record URL, or ""
	Link func(d *DCData) string
	// Finalize applies catalog-specific mapping after the common
	// Dublin Core fields have been set
	Finalize func(d *DCData, rec *record.BibliographicalRecord)
}

// Convert returns a Definition.Convert hook mapping Dublin Core
// payloads to bibliographical records.
func (def DCDefinition) Convert(catalog *record.Catalog, payload []byte) (record.Record, error) {
	d, err := ParseDublinCore(payload)
	if err != nil {
		return nil, err
	}

	rec := record.NewBibliographicalRecord(catalog)
	if def.Identifier != nil {
		rec.ID = def.Identifier(d)
	}
	if def.Link != nil {
		rec.URL = def.Link(d)
	}
	rec.Data = record.MapData(d.ToDict())

	if title := d.Joined("title", " ; "); title != "" {
		rec.Title = record.NewField(title)
	}
	for _, creator := range d.Values("creator") {
		rec.Contributors = append(rec.Contributors, record.NewContributorField(creator))
	}
	if dating := d.Joined("date", " ; "); dating != "" {
		rec.Dating = record.NewDatingField(dating)
	}
	for _, lang := range d.Values("language") {
		language := record.NewLanguageField(lang)
		language.Normalize()
		rec.Languages = append(rec.Languages, language)
	}
	if publisher := d.Joined("publisher", " ; "); publisher != "" {
		rec.PublisherOrPrinter = record.NewField(publisher)
	}

	if def.Finalize != nil {
		def.Finalize(d, rec)
	}
	return rec, nil
}
