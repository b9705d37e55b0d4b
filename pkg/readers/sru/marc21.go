package sru

import (
	"encoding/xml"
	"strings"

	"github.com/edpop/explorer/pkg/errors"
	"github.com/edpop/explorer/pkg/record"
)

// Marc21Subfield is one coded subfield of a MARC21 data field.
type Marc21Subfield struct {
	Code  string `xml:"code,attr"`
	Value string `xml:",chardata"`
}

// Marc21Field is one MARC21 data field. Fields may repeat, so records
// keep them in a list rather than a map.
type Marc21Field struct {
	Tag        string           `xml:"tag,attr"`
	Indicator1 string           `xml:"ind1,attr"`
	Indicator2 string           `xml:"ind2,attr"`
	Subfields  []Marc21Subfield `xml:"subfield"`
}

// Subfield returns the value of the subfield with the given code, or
// "".
func (f *Marc21Field) Subfield(code string) string {
	for _, sf := range f.Subfields {
		if sf.Code == code {
			return strings.TrimSpace(sf.Value)
		}
	}
	return ""
}

type marc21ControlField struct {
	Tag   string `xml:"tag,attr"`
	Value string `xml:",chardata"`
}

// Marc21Record is one parsed MARCXML record.
type Marc21Record struct {
	controlFields map[string]string
	fields        []Marc21Field
}

// ParseMarc21 parses a MARCXML payload as carried in SRU recordData.
func ParseMarc21(payload []byte) (*Marc21Record, error) {
	var parsed struct {
		ControlFields []marc21ControlField `xml:"controlfield"`
		DataFields    []Marc21Field        `xml:"datafield"`
	}
	if err := xml.Unmarshal(wrapPayload(payload), &parsed); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "malformed MARCXML payload")
	}

	rec := &Marc21Record{controlFields: make(map[string]string)}
	for _, cf := range parsed.ControlFields {
		rec.controlFields[cf.Tag] = strings.TrimSpace(cf.Value)
	}
	rec.fields = parsed.DataFields
	return rec, nil
}

// wrapPayload makes the recordData contents parseable as one XML
// document even when the payload has no single containing element.
func wrapPayload(payload []byte) []byte {
	wrapped := make([]byte, 0, len(payload)+13)
	wrapped = append(wrapped, "<payload>"...)
	wrapped = append(wrapped, payload...)
	wrapped = append(wrapped, "</payload>"...)
	return wrapped
}

// ControlField returns the value of a control field, or "".
func (r *Marc21Record) ControlField(tag string) string {
	return r.controlFields[tag]
}

// FirstField returns the first data field with the given tag, useful
// for fields that appear only once such as 245.
func (r *Marc21Record) FirstField(tag string) (*Marc21Field, bool) {
	for i := range r.fields {
		if r.fields[i].Tag == tag {
			return &r.fields[i], true
		}
	}
	return nil, false
}

// Fields returns all data fields with the given tag; possibly none.
func (r *Marc21Record) Fields(tag string) []Marc21Field {
	var out []Marc21Field
	for _, f := range r.fields {
		if f.Tag == tag {
			out = append(out, f)
		}
	}
	return out
}

// FirstSubfield returns the named subfield of the first field with the
// given tag, or "".
func (r *Marc21Record) FirstSubfield(tag, code string) string {
	if f, ok := r.FirstField(tag); ok {
		return f.Subfield(code)
	}
	return ""
}

// Marc21Definition describes how one MARC21 catalog derives record
// identity from the parsed MARC data.
type Marc21Definition struct {
	// Identifier extracts the catalog-local identifier; nil uses
	// control field 001
	Identifier func(m *Marc21Record) string
	// Link builds the human-facing record URL; nil leaves it empty
	Link func(m *Marc21Record) string
}

// Convert returns a Definition.Convert hook mapping MARCXML payloads
// to bibliographical records.
func (d Marc21Definition) Convert(catalog *record.Catalog, payload []byte) (record.Record, error) {
	m, err := ParseMarc21(payload)
	if err != nil {
		return nil, err
	}

	rec := record.NewBibliographicalRecord(catalog)
	if d.Identifier != nil {
		rec.ID = d.Identifier(m)
	} else {
		rec.ID = m.ControlField("001")
	}
	if d.Link != nil {
		rec.URL = d.Link(m)
	}
	rec.Data = marc21RawData(m)

	if title := m.FirstSubfield("245", "a"); title != "" {
		rec.Title = record.NewField(title)
	}
	if alt := m.FirstSubfield("246", "a"); alt != "" {
		rec.AlternativeTitle = record.NewField(alt)
	}
	for _, tag := range []string{"100", "700"} {
		for _, f := range m.Fields(tag) {
			name := f.Subfield("a")
			if name == "" {
				continue
			}
			contributor := record.NewContributorField(name)
			contributor.Role = f.Subfield("e")
			rec.Contributors = append(rec.Contributors, contributor)
		}
	}
	if publisher := m.FirstSubfield("264", "b"); publisher != "" {
		rec.PublisherOrPrinter = record.NewField(publisher)
	}
	if place := m.FirstSubfield("264", "a"); place != "" {
		location := record.NewLocationField(place)
		location.LocationType = record.LocationLocality
		rec.PlacesOfPublication = append(rec.PlacesOfPublication, location)
	}
	if dating := m.FirstSubfield("264", "c"); dating != "" {
		rec.Dating = record.NewDatingField(dating)
	}
	for _, f := range m.Fields("041") {
		for _, sf := range f.Subfields {
			if sf.Code != "a" {
				continue
			}
			language := record.NewLanguageField(strings.TrimSpace(sf.Value))
			language.Normalize()
			rec.Languages = append(rec.Languages, language)
		}
	}
	if extent := m.FirstSubfield("300", "a"); extent != "" {
		rec.Extent = record.NewField(extent)
	}
	if physical := m.FirstSubfield("300", "b"); physical != "" {
		rec.PhysicalDescription = record.NewField(physical)
	}
	if size := m.FirstSubfield("300", "c"); size != "" {
		rec.Size = record.NewField(size)
	}
	if fingerprint := m.FirstSubfield("026", "e"); fingerprint != "" {
		rec.Fingerprint = record.NewField(fingerprint)
	}

	return rec, nil
}

// marc21RawData preserves the parsed MARC fields for audit.
func marc21RawData(m *Marc21Record) record.RawData {
	data := make(record.MapData)
	for tag, value := range m.controlFields {
		data[tag] = value
	}
	for _, f := range m.fields {
		subfields := make(map[string]interface{})
		for _, sf := range f.Subfields {
			subfields[sf.Code] = strings.TrimSpace(sf.Value)
		}
		if existing, ok := data[f.Tag].([]interface{}); ok {
			data[f.Tag] = append(existing, subfields)
		} else {
			data[f.Tag] = []interface{}{subfields}
		}
	}
	return data
}
