package rdf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphAddDeduplicates(t *testing.T) {
	g := NewGraph()
	s := IRI{Value: "http://example.com/s"}
	p := IRI{Value: "http://example.com/p"}
	o := NewLiteral("hello")

	g.AddTriple(s, p, o)
	g.AddTriple(s, p, o)

	assert.Equal(t, 1, g.Len())
}

func TestGraphHas(t *testing.T) {
	g := NewGraph()
	s := IRI{Value: "http://example.com/s"}
	p := IRI{Value: "http://example.com/p"}
	o := NewLiteral("hello")
	g.AddTriple(s, p, o)

	assert.True(t, g.Has(s, p, o))
	assert.True(t, g.Has(s, p, nil), "nil object should match any")
	assert.True(t, g.Has(nil, p, o), "nil subject should match any")
	assert.True(t, g.Has(s, IRI{}, nil), "zero predicate should match any")
	assert.False(t, g.Has(s, p, NewLiteral("other")))
	assert.False(t, g.Has(IRI{Value: "http://example.com/other"}, p, nil))
}

func TestGraphObjects(t *testing.T) {
	g := NewGraph()
	s := IRI{Value: "http://example.com/s"}
	p := IRI{Value: "http://example.com/p"}
	g.AddTriple(s, p, NewLiteral("one"))
	g.AddTriple(s, p, NewLiteral("two"))
	g.AddTriple(s, IRI{Value: "http://example.com/q"}, NewLiteral("three"))

	objects := g.Objects(s, p)
	require.Len(t, objects, 2)
	assert.Equal(t, "one", objects[0].(Literal).Lexical)
	assert.Equal(t, "two", objects[1].(Literal).Lexical)
}

func TestGraphMerge(t *testing.T) {
	a := NewGraph()
	a.Bind("ex", "http://example.com/")
	a.AddTriple(IRI{Value: "http://example.com/a"}, RDFType, IRI{Value: "http://example.com/Thing"})

	b := NewGraph()
	b.Bind("xsd", NamespaceXSD)
	b.AddTriple(IRI{Value: "http://example.com/a"}, RDFType, IRI{Value: "http://example.com/Thing"})
	b.AddTriple(IRI{Value: "http://example.com/b"}, RDFType, IRI{Value: "http://example.com/Thing"})

	a.Merge(b)
	assert.Equal(t, 2, a.Len())
	assert.Contains(t, a.Prefixes(), "ex")
	assert.Contains(t, a.Prefixes(), "xsd")
}

func TestNTriplesSerialization(t *testing.T) {
	g := NewGraph()
	s := IRI{Value: "http://example.com/s"}
	g.AddTriple(s, IRI{Value: "http://example.com/name"}, NewLiteral(`say "hi"`))
	g.AddTriple(s, IRI{Value: "http://example.com/flag"}, NewBooleanLiteral(true))

	out := g.NTriples()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, out, `"say \"hi\""`)
	assert.Contains(t, out, `"true"^^<`+XSDBoolean.Value+`>`)
	for _, line := range lines {
		assert.True(t, strings.HasSuffix(line, " ."), "each line ends with a dot: %q", line)
	}
}

func TestNTriplesDeterministic(t *testing.T) {
	build := func(reverse bool) string {
		g := NewGraph()
		t1 := Triple{S: IRI{Value: "http://example.com/a"}, P: RDFType, O: NewLiteral("x")}
		t2 := Triple{S: IRI{Value: "http://example.com/b"}, P: RDFType, O: NewLiteral("y")}
		if reverse {
			g.Add(t2)
			g.Add(t1)
		} else {
			g.Add(t1)
			g.Add(t2)
		}
		return g.NTriples()
	}
	assert.Equal(t, build(false), build(true))
}

func TestLanguageTaggedLiteral(t *testing.T) {
	lit := Literal{Lexical: "bonjour", Lang: "fr"}
	assert.Equal(t, `"bonjour"@fr`, termNTriples(lit))
}

func TestBlankNodeUnique(t *testing.T) {
	a := NewBlankNode()
	b := NewBlankNode()
	assert.NotEqual(t, a.ID, b.ID)
	assert.True(t, strings.HasPrefix(a.String(), "_:"))
}
