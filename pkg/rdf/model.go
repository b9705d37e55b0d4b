// Package rdf provides the in-memory RDF model used to express catalog
// records as linked data. It is deliberately small: terms, triples and a
// set-semantics graph with N-Triples output. It is not a triple store.
package rdf

import (
	"fmt"

	"github.com/google/uuid"
)

// TermKind identifies RDF term types.
type TermKind uint8

const (
	// TermIRI represents an IRI term.
	TermIRI TermKind = iota
	// TermBlankNode represents a blank node term.
	TermBlankNode
	// TermLiteral represents a literal term.
	TermLiteral
)

// Term is a value that can appear in RDF triples.
type Term interface {
	Kind() TermKind
	String() string
}

// IRI represents an RDF IRI.
type IRI struct {
	// Value is the IRI string value.
	Value string
}

// Kind returns TermIRI.
func (i IRI) Kind() TermKind { return TermIRI }

// String returns the IRI value.
func (i IRI) String() string { return i.Value }

// IsZero reports whether the IRI is unset.
func (i IRI) IsZero() bool { return i.Value == "" }

// BlankNode represents an RDF blank node.
type BlankNode struct {
	// ID is the blank node identifier.
	ID string
}

// NewBlankNode mints a blank node with a unique identifier.
func NewBlankNode() BlankNode {
	return BlankNode{ID: "b" + uuid.NewString()}
}

// Kind returns TermBlankNode.
func (b BlankNode) Kind() TermKind { return TermBlankNode }

// String returns the blank node identifier prefixed with "_:".
func (b BlankNode) String() string { return "_:" + b.ID }

// Literal represents an RDF literal.
type Literal struct {
	// Lexical is the lexical form of the literal.
	Lexical string
	// Datatype is the datatype IRI, if any.
	Datatype IRI
	// Lang is the language tag, if any.
	Lang string
}

// NewLiteral returns a plain string literal.
func NewLiteral(lexical string) Literal {
	return Literal{Lexical: lexical}
}

// NewTypedLiteral returns a literal with an explicit datatype.
func NewTypedLiteral(lexical string, datatype IRI) Literal {
	return Literal{Lexical: lexical, Datatype: datatype}
}

// NewBooleanLiteral returns an xsd:boolean literal.
func NewBooleanLiteral(value bool) Literal {
	lexical := "false"
	if value {
		lexical = "true"
	}
	return Literal{Lexical: lexical, Datatype: XSDBoolean}
}

// Kind returns TermLiteral.
func (l Literal) Kind() TermKind { return TermLiteral }

// String returns a string representation of the literal.
func (l Literal) String() string {
	if l.Lang != "" {
		return fmt.Sprintf("%q@%s", l.Lexical, l.Lang)
	}
	if l.Datatype.Value != "" {
		return fmt.Sprintf("%q^^<%s>", l.Lexical, l.Datatype.Value)
	}
	return fmt.Sprintf("%q", l.Lexical)
}

// Triple is an RDF triple.
type Triple struct {
	// S is the subject.
	S Term
	// P is the predicate.
	P IRI
	// O is the object.
	O Term
}

// String returns an N-Triples-like representation of the triple.
func (t Triple) String() string {
	return fmt.Sprintf("%s <%s> %s .", termNTriples(t.S), t.P.Value, termNTriples(t.O))
}

// Well-known namespaces and terms used throughout the module.
var (
	// RDFType is rdf:type.
	RDFType = IRI{Value: "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"}
	// XSDBoolean is the xsd:boolean datatype.
	XSDBoolean = IRI{Value: "http://www.w3.org/2001/XMLSchema#boolean"}
)

// Namespace prefixes commonly bound on produced graphs.
const (
	NamespaceRDF  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	NamespaceRDFS = "http://www.w3.org/2000/01/rdf-schema#"
	NamespaceXSD  = "http://www.w3.org/2001/XMLSchema#"
)
