package jsonld

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/sbolgraph/rdf"
)

const (
	rdfType    = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
	xsdBoolean = "http://www.w3.org/2001/XMLSchema#boolean"
)

func TestDecodeGraph(t *testing.T) {
	src := `{
  "@context": {"ex": "http://ex.org/"},
  "@graph": [
    {
      "@id": "http://ex.org/a",
      "@type": "ex:Thing",
      "ex:n": 3,
      "ex:flag": true,
      "ex:tagged": {"@value": "hi", "@language": "en"},
      "ex:link": [{"@id": "ex:b"}, {"@id": "http://other.org/c"}]
    }
  ]
}`
	triples, err := Decode(strings.NewReader(src))
	require.NoError(t, err)
	assert.ElementsMatch(t, []rdf.Triple{
		{Subject: "http://ex.org/a", Predicate: rdfType, Object: rdf.IRI("http://ex.org/Thing")},
		{Subject: "http://ex.org/a", Predicate: "http://ex.org/flag", Object: rdf.Typed("true", xsdBoolean)},
		{Subject: "http://ex.org/a", Predicate: "http://ex.org/link", Object: rdf.IRI("http://ex.org/b")},
		{Subject: "http://ex.org/a", Predicate: "http://ex.org/link", Object: rdf.IRI("http://other.org/c")},
		{Subject: "http://ex.org/a", Predicate: "http://ex.org/n", Object: rdf.Integer(3)},
		{Subject: "http://ex.org/a", Predicate: "http://ex.org/tagged", Object: rdf.Object{Value: "hi", Lang: "en"}},
	}, triples)
}

func TestDecodeSingleNode(t *testing.T) {
	src := `{
  "@context": {"sbol": "http://sbols.org/v2#"},
  "@id": "http://x.org/s1",
  "@type": "sbol:Sequence",
  "sbol:elements": "acgt"
}`
	triples, err := Decode(strings.NewReader(src))
	require.NoError(t, err)
	assert.ElementsMatch(t, []rdf.Triple{
		{Subject: "http://x.org/s1", Predicate: rdfType, Object: rdf.IRI("http://sbols.org/v2#Sequence")},
		{Subject: "http://x.org/s1", Predicate: "http://sbols.org/v2#elements", Object: rdf.Literal("acgt")},
	}, triples)
}

func TestDecodeTermDefinitions(t *testing.T) {
	src := `{
  "@context": {
    "sbol": "http://sbols.org/v2#",
    "elements": {"@id": "sbol:elements"},
    "encoding": {"@id": "sbol:encoding", "@type": "@id"}
  },
  "@id": "http://x.org/s1",
  "elements": "acgt",
  "encoding": "http://www.chem.qmul.ac.uk/iubmb/misc/naseq.html"
}`
	triples, err := Decode(strings.NewReader(src))
	require.NoError(t, err)
	assert.ElementsMatch(t, []rdf.Triple{
		{Subject: "http://x.org/s1", Predicate: "http://sbols.org/v2#elements", Object: rdf.Literal("acgt")},
		{Subject: "http://x.org/s1", Predicate: "http://sbols.org/v2#encoding", Object: rdf.IRI("http://www.chem.qmul.ac.uk/iubmb/misc/naseq.html")},
	}, triples)
}

func TestDecodeKeepsLargeIntegers(t *testing.T) {
	src := `{"@id": "http://x.org/r", "http://x.org/count": 12345678901234567890, "http://x.org/ratio": 0.5}`
	triples, err := Decode(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, triples, 2)

	byPredicate := map[string]rdf.Object{}
	for _, tr := range triples {
		byPredicate[tr.Predicate] = tr.Object
	}
	assert.Equal(t, rdf.Typed("12345678901234567890", rdf.XSDInteger), byPredicate["http://x.org/count"])
	assert.Equal(t, "http://www.w3.org/2001/XMLSchema#double", byPredicate["http://x.org/ratio"].Datatype)
}

func TestDecodeBlankNodes(t *testing.T) {
	src := `{"@id": "http://x.org/a", "http://x.org/p": {"http://x.org/q": "v"}}`
	triples, err := Decode(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, triples, 2)
	for _, tr := range triples {
		assert.False(t, strings.HasPrefix(tr.Subject, "_:_:"), tr.Subject)
		assert.False(t, strings.HasPrefix(tr.Object.Value, "_:_:"), tr.Object.Value)
	}
}

func TestDecodeNamedGraphRejected(t *testing.T) {
	src := `{"@id": "http://x.org/g", "@graph": [{"@id": "http://x.org/a", "http://x.org/p": "v"}]}`
	_, err := Decode(strings.NewReader(src))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "named graph")
}

func TestDecodeSyntaxError(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"@id": `))
	assert.Error(t, err)
}
