// Package record implements normalized catalog records and their typed
// fields, together with their RDF graph serialization.
package record

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/edpop/explorer/pkg/edpoprec"
	"github.com/edpop/explorer/pkg/errors"
	"github.com/edpop/explorer/pkg/rdf"
)

// Datatype names the serialization type of a subfield value.
type Datatype string

const (
	// DatatypeString serializes as a plain literal
	DatatypeString Datatype = "string"
	// DatatypeBoolean serializes as an xsd:boolean literal
	DatatypeBoolean Datatype = "boolean"
	// DatatypeEDTF serializes as an EDTF-typed literal
	DatatypeEDTF Datatype = "edtf"
	// DatatypeURIRef serializes as an IRI object
	DatatypeURIRef Datatype = "uriref"
)

// Subfield is one declared sub-attribute of a field: its attribute
// name, the predicate it serializes to, its datatype and the current
// value. Absent values (nil, empty string, nil pointer, zero IRI) are
// skipped during serialization.
type Subfield struct {
	Name      string
	Predicate rdf.IRI
	Datatype  Datatype
	Value     interface{}
}

// NormalizationResult reports the outcome of a normalization attempt.
type NormalizationResult int

const (
	// NormalizationNoData means the field type has no normalization
	NormalizationNoData NormalizationResult = iota
	// NormalizationSuccess means derived subfields were populated
	NormalizationSuccess
	// NormalizationFail means the original text could not be normalized
	NormalizationFail
)

// Field is a normalized, typed leaf datum extracted from a catalog
// record. Concrete field types embed BaseField and declare extra
// subfields.
type Field interface {
	// OriginalText returns the literal source string
	OriginalText() string
	// SummaryText returns the human-readable form of the field
	SummaryText() string
	// RDFClass returns the field's RDF class
	RDFClass() rdf.IRI
	// Subfields returns the declared subfields in registration order
	Subfields() []Subfield
	// Normalize derives subfields from the original text
	Normalize() NormalizationResult
}

// BaseField is the common part of every field. The original text is
// required; all other subfields are optional.
type BaseField struct {
	originalText string

	// NormalizedText is a manually set normalized form. Field types
	// that support automatic normalization set it from Normalize.
	NormalizedText string
	// Unknown marks a value explicitly flagged as unknown in the
	// source. Nil means not stated.
	Unknown *bool
	// AuthorityRecord links to an external authoritative record.
	AuthorityRecord rdf.IRI

	blankNode rdf.Term
}

// NewField creates a plain field holding the given source text.
func NewField(originalText string) *BaseField {
	return &BaseField{originalText: originalText}
}

// OriginalText returns the literal source string.
func (f *BaseField) OriginalText() string { return f.originalText }

// SummaryText returns the normalized text when available, the original
// text otherwise.
func (f *BaseField) SummaryText() string {
	if f.NormalizedText != "" {
		return f.NormalizedText
	}
	return f.originalText
}

// RDFClass returns edpoprec:Field.
func (f *BaseField) RDFClass() rdf.IRI { return edpoprec.Field }

// Normalize is a no-op on the base field.
func (f *BaseField) Normalize() NormalizationResult { return NormalizationNoData }

// FieldSubject returns the field's own subject node, used when the
// field is not bound to a record with an IRI. The node is stable for
// the lifetime of the field.
func (f *BaseField) FieldSubject() rdf.Term {
	if f.blankNode == nil {
		f.blankNode = rdf.NewBlankNode()
	}
	return f.blankNode
}

// Subfields returns the base subfields shared by all field types.
func (f *BaseField) Subfields() []Subfield {
	return f.baseSubfields()
}

func (f *BaseField) baseSubfields() []Subfield {
	return []Subfield{
		{Name: "original_text", Predicate: edpoprec.OriginalText, Datatype: DatatypeString, Value: f.originalText},
		{Name: "normalized_text", Predicate: edpoprec.NormalizedText, Datatype: DatatypeString, Value: f.NormalizedText},
		{Name: "unknown", Predicate: edpoprec.Unknown, Datatype: DatatypeBoolean, Value: f.Unknown},
		{Name: "authority_record", Predicate: edpoprec.AuthorityRecord, Datatype: DatatypeURIRef, Value: f.AuthorityRecord},
	}
}

// FieldToGraph serializes a field as a subgraph rooted at subject.
// Serialization is fail-fast: the first subfield whose value does not
// match its declared datatype aborts with a field error.
func FieldToGraph(f Field, subject rdf.Term) (*rdf.Graph, error) {
	if f.OriginalText() == "" {
		return nil, errors.New(errors.ErrorTypeField, "field has no original text")
	}
	g := rdf.NewGraph()
	g.AddTriple(subject, rdf.RDFType, f.RDFClass())

	for _, sf := range f.Subfields() {
		obj, err := subfieldObject(sf)
		if err != nil {
			return nil, err
		}
		if obj == nil {
			continue
		}
		g.AddTriple(subject, sf.Predicate, obj)
	}
	return g, nil
}

// subfieldObject converts a subfield value to an RDF term according to
// its declared datatype. A nil return with nil error means the value is
// absent and the subfield is skipped.
func subfieldObject(sf Subfield) (rdf.Term, error) {
	if sf.Value == nil {
		return nil, nil
	}
	switch sf.Datatype {
	case DatatypeString:
		v, ok := sf.Value.(string)
		if !ok {
			return nil, typeMismatch(sf, "string")
		}
		if v == "" {
			return nil, nil
		}
		return rdf.NewLiteral(v), nil
	case DatatypeBoolean:
		switch v := sf.Value.(type) {
		case *bool:
			if v == nil {
				return nil, nil
			}
			return rdf.NewBooleanLiteral(*v), nil
		case bool:
			return rdf.NewBooleanLiteral(v), nil
		default:
			return nil, typeMismatch(sf, "boolean")
		}
	case DatatypeEDTF:
		v, ok := sf.Value.(string)
		if !ok {
			return nil, typeMismatch(sf, "edtf string")
		}
		if v == "" {
			return nil, nil
		}
		return rdf.NewTypedLiteral(v, edpoprec.DatatypeEDTF), nil
	case DatatypeURIRef:
		v, ok := sf.Value.(rdf.IRI)
		if !ok {
			return nil, typeMismatch(sf, "IRI")
		}
		if v.IsZero() {
			return nil, nil
		}
		return v, nil
	default:
		return nil, errors.Newf(errors.ErrorTypeField,
			"subfield %s declares unknown datatype %q", sf.Name, sf.Datatype)
	}
}

func typeMismatch(sf Subfield, want string) *errors.Error {
	return errors.Newf(errors.ErrorTypeField,
		"subfield %s should hold a %s value but holds %T", sf.Name, want, sf.Value)
}

// BindFieldSubject derives the deterministic subject IRI of a field
// bound to a record: the parent IRI extended with the attribute name
// and a content hash of the field's subfields. Identical content under
// the same record and attribute resolves to the same IRI; any change
// in record, attribute or content yields a different one.
func BindFieldSubject(parent rdf.IRI, attrName string, f Field) rdf.IRI {
	h := sha256.New()
	for _, sf := range f.Subfields() {
		fmt.Fprintf(h, "%s=%v\n", sf.Name, sf.Value)
	}
	digest := hex.EncodeToString(h.Sum(nil))[:12]
	return rdf.IRI{Value: parent.Value + "/" + attrName + "." + digest}
}
