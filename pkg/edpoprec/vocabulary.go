// Package edpoprec defines the EDPOP Record Ontology vocabulary: the
// classes and properties used when serializing catalog records to RDF.
package edpoprec

import "github.com/edpop/explorer/pkg/rdf"

// Namespace is the base namespace of the EDPOP Record Ontology.
const Namespace = "https://dhstatic.hum.uu.nl/edpop-records/latest/"

// NamespaceRelators is the Library of Congress relators vocabulary, used
// for contributor roles.
const NamespaceRelators = "http://id.loc.gov/vocabulary/relators/"

// NamespaceSDO is the schema.org namespace.
const NamespaceSDO = "https://schema.org/"

// DatatypeEDTF is the Extended Date/Time Format datatype.
var DatatypeEDTF = rdf.IRI{Value: "http://id.loc.gov/datatypes/edtf"}

func term(local string) rdf.IRI {
	return rdf.IRI{Value: Namespace + local}
}

func sdo(local string) rdf.IRI {
	return rdf.IRI{Value: NamespaceSDO + local}
}

// Classes.
var (
	Record                 = term("Record")
	BibliographicalRecord  = term("BibliographicalRecord")
	BiographicalRecord     = term("BiographicalRecord")
	Field                  = term("Field")
	Catalog                = term("Catalog")
	BibliographicalCatalog = term("BibliographicalCatalog")
	BiographicalCatalog    = term("BiographicalCatalog")
)

// Record properties.
var (
	FromCatalog  = term("fromCatalog")
	Identifier   = term("identifier")
	PublicURL    = term("publicURL")
	OriginalData = term("originalData")
)

// Field properties.
var (
	OriginalText    = term("originalText")
	NormalizedText  = term("normalizedText")
	Unknown         = term("unknown")
	AuthorityRecord = term("authorityRecord")
	SummaryText     = term("summaryText")
)

// Bibliographical record fields.
var (
	Title                 = term("title")
	AlternativeTitle      = term("alternativeTitle")
	Contributor           = term("contributor")
	PublisherOrPrinter    = term("publisherOrPrinter")
	PlaceOfPublication    = term("placeOfPublication")
	Dating                = term("dating")
	Language              = term("language")
	Extent                = term("extent")
	Size                  = term("size")
	PhysicalDescription   = term("physicalDescription")
	Fingerprint           = term("fingerprint")
	Holdings              = term("holdings")
	TypographicalFeatures = term("typographicalFeatures")
	Bookseller            = term("bookseller")
	Format                = term("format")
	CollationFormula      = term("collationFormula")
	Publisher             = term("publisher")
)

// Biographical record fields.
var (
	Name            = term("name")
	VariantName     = term("variantName")
	PlaceOfBirth    = term("placeOfBirth")
	PlaceOfDeath    = term("placeOfDeath")
	PlaceOfActivity = term("placeOfActivity")
	Timespan        = term("timespan")
	Activity        = term("activity")
	Gender          = term("gender")
)

// Subfield properties on specialized field classes.
var (
	Role         = term("role")
	LanguageCode = term("languageCode")
	LocationType = term("locationType")
	EDTFText     = term("edtfText")
)

// Location type individuals.
var (
	Locality = term("locality")
	Country  = term("country")
)

// Schema.org terms used on catalog descriptions.
var (
	SDOName        = sdo("name")
	SDODescription = sdo("description")
	SDOIdentifier  = sdo("identifier")
	SDOURL         = sdo("url")
)

// Bind registers the conventional prefixes on a graph.
func Bind(g *rdf.Graph) {
	g.Bind("edpoprec", Namespace)
	g.Bind("relators", NamespaceRelators)
	g.Bind("sdo", NamespaceSDO)
	g.Bind("rdf", rdf.NamespaceRDF)
	g.Bind("rdfs", rdf.NamespaceRDFS)
	g.Bind("xsd", rdf.NamespaceXSD)
}
