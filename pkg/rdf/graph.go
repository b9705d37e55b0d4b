package rdf

import (
	"sort"
	"strings"
)

// Graph is an in-memory set of triples with namespace bindings. Insertion
// order is preserved for serialization, duplicates are dropped.
type Graph struct {
	triples  []Triple
	index    map[string]struct{}
	prefixes map[string]string
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		index:    make(map[string]struct{}),
		prefixes: make(map[string]string),
	}
}

func tripleKey(t Triple) string {
	var sb strings.Builder
	sb.WriteString(termNTriples(t.S))
	sb.WriteByte(' ')
	sb.WriteString(t.P.Value)
	sb.WriteByte(' ')
	sb.WriteString(termNTriples(t.O))
	return sb.String()
}

// Add inserts a triple. Adding the same triple twice is a no-op.
func (g *Graph) Add(t Triple) {
	key := tripleKey(t)
	if _, ok := g.index[key]; ok {
		return
	}
	g.index[key] = struct{}{}
	g.triples = append(g.triples, t)
}

// AddTriple is a convenience for Add with separate terms.
func (g *Graph) AddTriple(s Term, p IRI, o Term) {
	g.Add(Triple{S: s, P: p, O: o})
}

// Merge adds all triples and prefix bindings of other into g.
func (g *Graph) Merge(other *Graph) {
	if other == nil {
		return
	}
	for _, t := range other.triples {
		g.Add(t)
	}
	for prefix, ns := range other.prefixes {
		g.Bind(prefix, ns)
	}
}

// Bind associates a namespace prefix with a namespace IRI. Bindings only
// affect serializations that support prefixes; triples are unaffected.
func (g *Graph) Bind(prefix, namespace string) {
	g.prefixes[prefix] = namespace
}

// Prefixes returns the bound prefixes.
func (g *Graph) Prefixes() map[string]string {
	out := make(map[string]string, len(g.prefixes))
	for k, v := range g.prefixes {
		out[k] = v
	}
	return out
}

// Len returns the number of distinct triples in the graph.
func (g *Graph) Len() int { return len(g.triples) }

// Triples returns the triples in insertion order.
func (g *Graph) Triples() []Triple {
	out := make([]Triple, len(g.triples))
	copy(out, g.triples)
	return out
}

// Has reports whether a triple matching the given pattern exists. A nil
// subject or object matches any term; a zero predicate matches any
// predicate.
func (g *Graph) Has(s Term, p IRI, o Term) bool {
	for _, t := range g.triples {
		if s != nil && termNTriples(t.S) != termNTriples(s) {
			continue
		}
		if !p.IsZero() && t.P != p {
			continue
		}
		if o != nil && termNTriples(t.O) != termNTriples(o) {
			continue
		}
		return true
	}
	return false
}

// Objects returns all objects of triples with the given subject and
// predicate, in insertion order.
func (g *Graph) Objects(s Term, p IRI) []Term {
	var out []Term
	for _, t := range g.triples {
		if termNTriples(t.S) == termNTriples(s) && t.P == p {
			out = append(out, t.O)
		}
	}
	return out
}

// NTriples serializes the graph in canonical N-Triples form: one triple
// per line, sorted lexicographically. The output is deterministic for a
// given triple set.
func (g *Graph) NTriples() string {
	lines := make([]string, 0, len(g.triples))
	for _, t := range g.triples {
		lines = append(lines, t.String())
	}
	sort.Strings(lines)
	var sb strings.Builder
	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func termNTriples(t Term) string {
	switch v := t.(type) {
	case IRI:
		return "<" + v.Value + ">"
	case BlankNode:
		return v.String()
	case Literal:
		out := "\"" + escapeLiteral(v.Lexical) + "\""
		if v.Lang != "" {
			return out + "@" + v.Lang
		}
		if !v.Datatype.IsZero() {
			return out + "^^<" + v.Datatype.Value + ">"
		}
		return out
	default:
		if t == nil {
			return ""
		}
		return t.String()
	}
}

func escapeLiteral(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
