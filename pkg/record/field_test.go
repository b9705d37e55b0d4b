package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edpop/explorer/pkg/edpoprec"
	"github.com/edpop/explorer/pkg/errors"
	"github.com/edpop/explorer/pkg/rdf"
)

func TestFieldToGraph(t *testing.T) {
	f := NewField("Dit is een boektitel")
	subject := f.FieldSubject()

	g, err := FieldToGraph(f, subject)
	require.NoError(t, err)

	assert.True(t, g.Has(subject, rdf.RDFType, edpoprec.Field))
	assert.True(t, g.Has(subject, edpoprec.OriginalText, rdf.NewLiteral("Dit is een boektitel")))
	assert.False(t, g.Has(subject, edpoprec.Unknown, nil), "unset subfields are omitted")
}

func TestFieldToGraphUnknown(t *testing.T) {
	f := NewField("onbekend")
	unknown := true
	f.Unknown = &unknown

	g, err := FieldToGraph(f, f.FieldSubject())
	require.NoError(t, err)
	assert.True(t, g.Has(f.FieldSubject(), edpoprec.Unknown, rdf.NewBooleanLiteral(true)))
}

func TestFieldToGraphEmptyOriginalText(t *testing.T) {
	f := NewField("")
	_, err := FieldToGraph(f, f.FieldSubject())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeField))
}

// badSubfieldField declares a boolean subfield holding a string.
type badSubfieldField struct {
	BaseField
}

func (f *badSubfieldField) Subfields() []Subfield {
	return append(f.baseSubfields(),
		Subfield{Name: "flag", Predicate: edpoprec.Unknown, Datatype: DatatypeBoolean, Value: "not a bool"},
	)
}

func TestFieldToGraphTypeMismatch(t *testing.T) {
	f := &badSubfieldField{BaseField: *NewField("tekst")}
	g, err := FieldToGraph(f, rdf.NewBlankNode())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeField))
	assert.Nil(t, g, "no partial graph on type mismatch")
}

// unknownDatatypeField declares a subfield with a datatype that does
// not exist.
type unknownDatatypeField struct {
	BaseField
}

func (f *unknownDatatypeField) Subfields() []Subfield {
	return append(f.baseSubfields(),
		Subfield{Name: "other", Predicate: edpoprec.Unknown, Datatype: "othertype", Value: "text"},
	)
}

func TestFieldToGraphUnknownDatatype(t *testing.T) {
	f := &unknownDatatypeField{BaseField: *NewField("tekst")}
	_, err := FieldToGraph(f, rdf.NewBlankNode())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeField))
}

func TestLocationField(t *testing.T) {
	f := NewLocationField("Voorschoten")
	subject := f.FieldSubject()

	g, err := FieldToGraph(f, subject)
	require.NoError(t, err)
	assert.False(t, g.Has(subject, edpoprec.LocationType, nil), "unset location type is omitted")

	f.LocationType = LocationLocality
	g, err = FieldToGraph(f, subject)
	require.NoError(t, err)
	assert.True(t, g.Has(subject, edpoprec.LocationType, edpoprec.Locality))
}

func TestDatingField(t *testing.T) {
	f := NewDatingField("gedrukt in 1624")
	f.EDTFText = "1624"

	subject := f.FieldSubject()
	g, err := FieldToGraph(f, subject)
	require.NoError(t, err)
	assert.True(t, g.Has(subject, edpoprec.EDTFText,
		rdf.NewTypedLiteral("1624", edpoprec.DatatypeEDTF)))
}

func TestContributorFieldSummary(t *testing.T) {
	f := NewContributorField("Jan de Vries")
	assert.Equal(t, "Jan de Vries", f.SummaryText())
	f.Role = "author"
	assert.Equal(t, "Jan de Vries (author)", f.SummaryText())
}

func TestLanguageFieldNormalize(t *testing.T) {
	tests := []struct {
		input    string
		result   NormalizationResult
		code     string
	}{
		{"nl", NormalizationSuccess, "nld"},
		{"Dutch", NormalizationSuccess, "nld"},
		{"french", NormalizationSuccess, "fra"},
		{"xyzzy", NormalizationFail, ""},
		{"", NormalizationFail, ""},
	}
	for _, tc := range tests {
		f := NewLanguageField(tc.input)
		assert.Equal(t, tc.result, f.Normalize(), "input %q", tc.input)
		assert.Equal(t, tc.code, f.LanguageCode, "input %q", tc.input)
	}
}

func TestBaseFieldNormalizeNoData(t *testing.T) {
	f := NewField("iets")
	assert.Equal(t, NormalizationNoData, f.Normalize())
}

func TestFieldSubjectStable(t *testing.T) {
	f := NewField("tekst")
	assert.Equal(t, f.FieldSubject(), f.FieldSubject())
}

func TestBindFieldSubject(t *testing.T) {
	parent := rdf.IRI{Value: "http://example.com/records/1"}
	a := NewField("tekst")
	b := NewField("tekst")
	c := NewField("andere tekst")

	// Identical content under the same record and attribute resolves
	// to the same IRI.
	assert.Equal(t, BindFieldSubject(parent, "title", a), BindFieldSubject(parent, "title", b))
	// Different content, attribute or record gives a different IRI.
	assert.NotEqual(t, BindFieldSubject(parent, "title", a), BindFieldSubject(parent, "title", c))
	assert.NotEqual(t, BindFieldSubject(parent, "title", a), BindFieldSubject(parent, "dating", a))
	other := rdf.IRI{Value: "http://example.com/records/2"}
	assert.NotEqual(t, BindFieldSubject(parent, "title", a), BindFieldSubject(other, "title", a))
}
