package record

import (
	"net/url"
	"strings"

	"github.com/edpop/explorer/pkg/edpoprec"
	"github.com/edpop/explorer/pkg/errors"
	"github.com/edpop/explorer/pkg/rdf"
)

// CatalogType distinguishes bibliographical from biographical catalogs.
type CatalogType string

const (
	// Bibliographical catalogs describe books and other printed works
	Bibliographical CatalogType = "bibliographical"
	// Biographical catalogs describe persons
	Biographical CatalogType = "biographical"
)

// CatalogBaseIRI is the namespace under which catalog identities are
// minted.
const CatalogBaseIRI = "https://edpop.hum.uu.nl/readers/"

// CatalogIRI mints the canonical identity IRI for a catalog slug.
func CatalogIRI(slug string) rdf.IRI {
	return rdf.IRI{Value: CatalogBaseIRI + slug}
}

// Catalog is the static descriptor of one external data source. It is
// shared by every reader instance and record produced for that source,
// and carries the metadata needed to mint record IRIs and to type the
// produced graphs.
type Catalog struct {
	// Name is the human-readable catalog name
	Name string
	// Slug is the short machine name used in the CLI and sessions
	Slug string
	// Description explains what the catalog contains
	Description string
	// URI is the canonical identity of the catalog itself
	URI rdf.IRI
	// IRIPrefix is prepended to percent-encoded identifiers to mint
	// record IRIs
	IRIPrefix string
	// Type states whether the catalog is bibliographical or
	// biographical
	Type CatalogType
}

// IdentifierToIRI mints the IRI of the record with the given
// catalog-local identifier.
func (c *Catalog) IdentifierToIRI(identifier string) (rdf.IRI, error) {
	if c.IRIPrefix == "" {
		return rdf.IRI{}, errors.Newf(errors.ErrorTypeReader,
			"catalog %s has no IRI prefix", c.Slug)
	}
	return rdf.IRI{Value: c.IRIPrefix + url.PathEscape(identifier)}, nil
}

// IRIToIdentifier recovers the catalog-local identifier from a record
// IRI minted by IdentifierToIRI.
func (c *Catalog) IRIToIdentifier(iri rdf.IRI) (string, error) {
	if c.IRIPrefix == "" {
		return "", errors.Newf(errors.ErrorTypeReader,
			"catalog %s has no IRI prefix", c.Slug)
	}
	if !strings.HasPrefix(iri.Value, c.IRIPrefix) {
		return "", errors.Newf(errors.ErrorTypeReader,
			"IRI %s does not belong to catalog %s", iri.Value, c.Slug)
	}
	identifier, err := url.PathUnescape(strings.TrimPrefix(iri.Value, c.IRIPrefix))
	if err != nil {
		return "", errors.Wrap(err, errors.ErrorTypeReader, "malformed record IRI")
	}
	return identifier, nil
}

// RecordClass returns the RDF class of records from this catalog.
func (c *Catalog) RecordClass() rdf.IRI {
	switch c.Type {
	case Bibliographical:
		return edpoprec.BibliographicalRecord
	case Biographical:
		return edpoprec.BiographicalRecord
	default:
		return edpoprec.Record
	}
}

// ToGraph emits the catalog's static metadata as a small graph. It is
// independent of any search state.
func (c *Catalog) ToGraph() *rdf.Graph {
	g := rdf.NewGraph()
	edpoprec.Bind(g)

	var subject rdf.Term = c.URI
	if c.URI.IsZero() {
		subject = rdf.NewBlankNode()
	}

	class := edpoprec.Catalog
	switch c.Type {
	case Bibliographical:
		class = edpoprec.BibliographicalCatalog
	case Biographical:
		class = edpoprec.BiographicalCatalog
	}
	g.AddTriple(subject, rdf.RDFType, class)

	if c.Name != "" {
		g.AddTriple(subject, edpoprec.SDOName, rdf.NewLiteral(c.Name))
	}
	if c.Description != "" {
		g.AddTriple(subject, edpoprec.SDODescription, rdf.NewLiteral(c.Description))
	}
	if c.Slug != "" {
		g.AddTriple(subject, edpoprec.SDOIdentifier, rdf.NewLiteral(c.Slug))
	}
	return g
}
