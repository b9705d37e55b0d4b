package record

import (
	"context"
	"fmt"

	"github.com/edpop/explorer/pkg/edpoprec"
	"github.com/edpop/explorer/pkg/errors"
	"github.com/edpop/explorer/pkg/json"
	"github.com/edpop/explorer/pkg/rdf"
)

// RawData is the opaque original payload of a record, preserved for
// audit and debugging. Implementations expose a map representation.
type RawData interface {
	ToDict() map[string]interface{}
}

// MapData is the trivial RawData backed by a map.
type MapData map[string]interface{}

// ToDict returns the underlying map.
func (m MapData) ToDict() map[string]interface{} { return m }

// FieldEntry is one entry of a record's field registry: the attribute
// name, the predicate linking record to field, and the current value.
// Value holds a Field, a []Field, or nil when absent.
type FieldEntry struct {
	Name      string
	Predicate rdf.IRI
	Value     interface{}
}

// Record is one normalized catalog item.
type Record interface {
	// Identifier returns the catalog-local unique identifier, or ""
	Identifier() string
	// Link returns a human-facing URL for the record, or ""
	Link() string
	// Catalog returns the descriptor of the owning catalog
	Catalog() *Catalog
	// Subject returns the record's subject node. The same node is
	// returned on every call for the lifetime of the record.
	Subject() (rdf.Term, error)
	// Fields returns the ordered field registry
	Fields() []FieldEntry
	// RawData returns the opaque original payload, or nil
	RawData() RawData
}

// LazyRecord is a record whose field population is deferred until
// first use.
type LazyRecord interface {
	Record
	// Fetch performs the deferred retrieval exactly once
	Fetch(ctx context.Context) error
	// Fetched reports whether the deferred retrieval has happened
	Fetched() bool
}

// BaseRecord is the common part of every record. Adapters embed it and
// set the exported attributes while mapping a catalog item.
type BaseRecord struct {
	// ID is the catalog-local unique identifier
	ID string
	// URL is a human-facing link to the record
	URL string
	// Data is the raw original payload
	Data RawData

	catalog   *Catalog
	blankNode rdf.Term
}

// NewBaseRecord creates the common record part for the given catalog.
func NewBaseRecord(catalog *Catalog) BaseRecord {
	return BaseRecord{catalog: catalog}
}

// Identifier returns the catalog-local identifier.
func (r *BaseRecord) Identifier() string { return r.ID }

// Link returns the human-facing URL.
func (r *BaseRecord) Link() string { return r.URL }

// Catalog returns the owning catalog descriptor.
func (r *BaseRecord) Catalog() *Catalog { return r.catalog }

// RawData returns the raw original payload.
func (r *BaseRecord) RawData() RawData { return r.Data }

// Fields returns an empty registry; concrete record types override it.
func (r *BaseRecord) Fields() []FieldEntry { return nil }

// Subject returns the record's subject node: the IRI minted from the
// identifier when one is set, otherwise a blank node that is stable
// for the lifetime of the record.
func (r *BaseRecord) Subject() (rdf.Term, error) {
	if r.ID != "" && r.catalog != nil && r.catalog.IRIPrefix != "" {
		return r.catalog.IdentifierToIRI(r.ID)
	}
	if r.blankNode == nil {
		r.blankNode = rdf.NewBlankNode()
	}
	return r.blankNode, nil
}

// String renders the record for display.
func (r *BaseRecord) String() string {
	if r.ID != "" {
		return fmt.Sprintf("record %s", r.ID)
	}
	return "record"
}

// BibliographicalRecord describes one printed work.
type BibliographicalRecord struct {
	BaseRecord

	Title                 Field
	AlternativeTitle      Field
	Contributors          []Field
	PublisherOrPrinter    Field
	PlacesOfPublication   []Field
	Dating                Field
	Languages             []Field
	Extent                Field
	Size                  Field
	PhysicalDescription   Field
	Fingerprint           Field
	Format                Field
	CollationFormula      Field
	TypographicalFeatures Field
	Holdings              []Field
}

// NewBibliographicalRecord creates an empty bibliographical record for
// the given catalog.
func NewBibliographicalRecord(catalog *Catalog) *BibliographicalRecord {
	return &BibliographicalRecord{BaseRecord: NewBaseRecord(catalog)}
}

// Fields returns the bibliographical field registry in declaration
// order.
func (r *BibliographicalRecord) Fields() []FieldEntry {
	return []FieldEntry{
		{Name: "title", Predicate: edpoprec.Title, Value: r.Title},
		{Name: "alternative_title", Predicate: edpoprec.AlternativeTitle, Value: r.AlternativeTitle},
		{Name: "contributors", Predicate: edpoprec.Contributor, Value: r.Contributors},
		{Name: "publisher_or_printer", Predicate: edpoprec.PublisherOrPrinter, Value: r.PublisherOrPrinter},
		{Name: "places_of_publication", Predicate: edpoprec.PlaceOfPublication, Value: r.PlacesOfPublication},
		{Name: "dating", Predicate: edpoprec.Dating, Value: r.Dating},
		{Name: "languages", Predicate: edpoprec.Language, Value: r.Languages},
		{Name: "extent", Predicate: edpoprec.Extent, Value: r.Extent},
		{Name: "size", Predicate: edpoprec.Size, Value: r.Size},
		{Name: "physical_description", Predicate: edpoprec.PhysicalDescription, Value: r.PhysicalDescription},
		{Name: "fingerprint", Predicate: edpoprec.Fingerprint, Value: r.Fingerprint},
		{Name: "format", Predicate: edpoprec.Format, Value: r.Format},
		{Name: "collation_formula", Predicate: edpoprec.CollationFormula, Value: r.CollationFormula},
		{Name: "typographical_features", Predicate: edpoprec.TypographicalFeatures, Value: r.TypographicalFeatures},
		{Name: "holdings", Predicate: edpoprec.Holdings, Value: r.Holdings},
	}
}

// String renders the record as its title when one is set.
func (r *BibliographicalRecord) String() string {
	if r.Title != nil {
		return r.Title.SummaryText()
	}
	return r.BaseRecord.String()
}

// BiographicalRecord describes one person.
type BiographicalRecord struct {
	BaseRecord

	Name             Field
	VariantNames     []Field
	PlaceOfBirth     Field
	PlaceOfDeath     Field
	PlacesOfActivity []Field
	Timespan         Field
	Activities       []Field
	Gender           Field
}

// NewBiographicalRecord creates an empty biographical record for the
// given catalog.
func NewBiographicalRecord(catalog *Catalog) *BiographicalRecord {
	return &BiographicalRecord{BaseRecord: NewBaseRecord(catalog)}
}

// Fields returns the biographical field registry in declaration order.
func (r *BiographicalRecord) Fields() []FieldEntry {
	return []FieldEntry{
		{Name: "name", Predicate: edpoprec.Name, Value: r.Name},
		{Name: "variant_names", Predicate: edpoprec.VariantName, Value: r.VariantNames},
		{Name: "place_of_birth", Predicate: edpoprec.PlaceOfBirth, Value: r.PlaceOfBirth},
		{Name: "place_of_death", Predicate: edpoprec.PlaceOfDeath, Value: r.PlaceOfDeath},
		{Name: "places_of_activity", Predicate: edpoprec.PlaceOfActivity, Value: r.PlacesOfActivity},
		{Name: "timespan", Predicate: edpoprec.Timespan, Value: r.Timespan},
		{Name: "activities", Predicate: edpoprec.Activity, Value: r.Activities},
		{Name: "gender", Predicate: edpoprec.Gender, Value: r.Gender},
	}
}

// String renders the record as the person's name when one is set.
func (r *BiographicalRecord) String() string {
	if r.Name != nil {
		return r.Name.SummaryText()
	}
	return r.BaseRecord.String()
}

// ToGraph serializes a record and all its fields into one RDF graph.
// Lazy records are fetched first. Serialization aborts on the first
// field or registry error.
func ToGraph(ctx context.Context, rec Record) (*rdf.Graph, error) {
	if lazy, ok := rec.(LazyRecord); ok {
		if err := lazy.Fetch(ctx); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeRecord, "fetching lazy record")
		}
	}

	subject, err := rec.Subject()
	if err != nil {
		return nil, err
	}

	g := rdf.NewGraph()
	edpoprec.Bind(g)

	catalog := rec.Catalog()
	class := edpoprec.Record
	if catalog != nil {
		class = catalog.RecordClass()
	}
	g.AddTriple(subject, rdf.RDFType, class)

	if catalog != nil && !catalog.URI.IsZero() {
		g.AddTriple(subject, edpoprec.FromCatalog, catalog.URI)
	}
	if id := rec.Identifier(); id != "" {
		g.AddTriple(subject, edpoprec.Identifier, rdf.NewLiteral(id))
	}
	if link := rec.Link(); link != "" {
		g.AddTriple(subject, edpoprec.PublicURL, rdf.NewLiteral(link))
	}
	if raw := rec.RawData(); raw != nil {
		encoded, err := json.Marshal(raw.ToDict())
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeRecord, "serializing raw data")
		}
		g.AddTriple(subject, edpoprec.OriginalData, rdf.NewLiteral(string(encoded)))
	}

	for _, entry := range rec.Fields() {
		fields, err := EntryFields(entry)
		if err != nil {
			return nil, err
		}
		for _, f := range fields {
			fieldSubject := subjectForField(subject, entry.Name, f)
			sub, err := FieldToGraph(f, fieldSubject)
			if err != nil {
				return nil, err
			}
			g.AddTriple(subject, entry.Predicate, fieldSubject)
			g.Merge(sub)
		}
	}

	return g, nil
}

// EntryFields flattens a registry entry's value into a list of fields.
// A value that is neither nil, a Field nor a []Field is a record error.
func EntryFields(entry FieldEntry) ([]Field, error) {
	switch v := entry.Value.(type) {
	case nil:
		return nil, nil
	case Field:
		if isNilField(v) {
			return nil, nil
		}
		return []Field{v}, nil
	case []Field:
		out := make([]Field, 0, len(v))
		for _, f := range v {
			if f == nil || isNilField(f) {
				continue
			}
			out = append(out, f)
		}
		return out, nil
	default:
		return nil, errors.Newf(errors.ErrorTypeRecord,
			"attribute %s holds %T, expected a field or a list of fields", entry.Name, entry.Value)
	}
}

// isNilField guards against typed nil pointers stored in Field values.
func isNilField(f Field) bool {
	switch v := f.(type) {
	case *BaseField:
		return v == nil
	case *LanguageField:
		return v == nil
	case *ContributorField:
		return v == nil
	case *LocationField:
		return v == nil
	case *DatingField:
		return v == nil
	default:
		return false
	}
}

// subjectForField resolves the subject node of a field bound to a
// record: deterministic when the record has an IRI, the field's own
// stable blank node otherwise.
func subjectForField(recordSubject rdf.Term, attrName string, f Field) rdf.Term {
	if iri, ok := recordSubject.(rdf.IRI); ok && !iri.IsZero() {
		return BindFieldSubject(iri, attrName, f)
	}
	if carrier, ok := f.(interface{ FieldSubject() rdf.Term }); ok {
		return carrier.FieldSubject()
	}
	return rdf.NewBlankNode()
}
