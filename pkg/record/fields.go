package record

import (
	"github.com/edpop/explorer/pkg/edpoprec"
	"github.com/edpop/explorer/pkg/rdf"
)

// LanguageField holds a language indication. Normalization resolves the
// original text, whether a code or an English language name, to an ISO
// 639-3 code.
type LanguageField struct {
	BaseField

	// LanguageCode is the ISO 639-3 code, set by Normalize or by the
	// adapter directly.
	LanguageCode string
}

// NewLanguageField creates a language field from its source text.
func NewLanguageField(originalText string) *LanguageField {
	return &LanguageField{BaseField: *NewField(originalText)}
}

// RDFClass returns edpoprec:Field.
func (f *LanguageField) RDFClass() rdf.IRI { return edpoprec.Field }

// Subfields returns the base subfields plus the language code.
func (f *LanguageField) Subfields() []Subfield {
	return append(f.baseSubfields(),
		Subfield{Name: "language_code", Predicate: edpoprec.LanguageCode, Datatype: DatatypeString, Value: f.LanguageCode},
	)
}

// Normalize resolves the original text to an ISO 639-3 code and an
// English language name.
func (f *LanguageField) Normalize() NormalizationResult {
	code, name, ok := LookupLanguage(f.OriginalText())
	if !ok {
		return NormalizationFail
	}
	f.LanguageCode = code
	f.NormalizedText = name
	return NormalizationSuccess
}

// ContributorField holds a person or institution contributing to a
// work. The original text is the contributor's name; the role states
// the nature of the contribution.
type ContributorField struct {
	BaseField

	// Role describes the contribution (author, printer, translator)
	Role string
}

// NewContributorField creates a contributor field from a name.
func NewContributorField(name string) *ContributorField {
	return &ContributorField{BaseField: *NewField(name)}
}

// Subfields returns the base subfields plus the role.
func (f *ContributorField) Subfields() []Subfield {
	return append(f.baseSubfields(),
		Subfield{Name: "role", Predicate: edpoprec.Role, Datatype: DatatypeString, Value: f.Role},
	)
}

// SummaryText renders the contributor as "name (role)" when a role is
// known.
func (f *ContributorField) SummaryText() string {
	if f.Role != "" {
		return f.OriginalText() + " (" + f.Role + ")"
	}
	return f.BaseField.SummaryText()
}

// LocationField holds a place name, optionally typed as a locality or
// a country.
type LocationField struct {
	BaseField

	// LocationType is one of LocationLocality or LocationCountry, or
	// zero when not stated.
	LocationType rdf.IRI
}

// Location type individuals.
var (
	LocationLocality = edpoprec.Locality
	LocationCountry  = edpoprec.Country
)

// NewLocationField creates a location field from a place name.
func NewLocationField(originalText string) *LocationField {
	return &LocationField{BaseField: *NewField(originalText)}
}

// Subfields returns the base subfields plus the location type.
func (f *LocationField) Subfields() []Subfield {
	return append(f.baseSubfields(),
		Subfield{Name: "location_type", Predicate: edpoprec.LocationType, Datatype: DatatypeURIRef, Value: f.LocationType},
	)
}

// DatingField holds a date or date range. The normalized form is an
// EDTF expression.
type DatingField struct {
	BaseField

	// EDTFText is the date in Extended Date/Time Format
	EDTFText string
}

// NewDatingField creates a dating field from its source text.
func NewDatingField(originalText string) *DatingField {
	return &DatingField{BaseField: *NewField(originalText)}
}

// Subfields returns the base subfields plus the EDTF form.
func (f *DatingField) Subfields() []Subfield {
	return append(f.baseSubfields(),
		Subfield{Name: "edtf_text", Predicate: edpoprec.EDTFText, Datatype: DatatypeEDTF, Value: f.EDTFText},
	)
}
