// Package jsonld adapts JSON-LD documents to rdf.Source using the cayley
// quad JSON-LD codec.
package jsonld

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	quadld "github.com/cayleygraph/quad/jsonld"

	"github.com/c360studio/sbolgraph/rdf"
	"github.com/c360studio/sbolgraph/rdf/ntriples"
)

func init() {
	// Keep typed literals in their written lexical form.
	quadld.AutoConvertTypedString = false
}

// Reader is an rdf.Source over one JSON-LD document. The document is
// expanded to RDF when the reader is created. Named graphs are rejected:
// SBOL documents live in the default graph.
type Reader struct {
	r *quadld.Reader
	n int
}

// NewReader decodes the JSON-LD document in r. Decoding errors surface on
// the first call to Next.
func NewReader(r io.Reader) *Reader {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return &Reader{r: quadld.NewReader(errReader{err})}
	}
	return &Reader{r: quadld.NewReaderFromMap(numbers(v, false))}
}

// Next implements rdf.Source.
func (r *Reader) Next() (rdf.Triple, error) {
	q, err := r.r.ReadQuad()
	if err == io.EOF {
		return rdf.Triple{}, io.EOF
	}
	if err != nil {
		return rdf.Triple{}, fmt.Errorf("jsonld: %w", err)
	}
	r.n++
	if q.Label != nil {
		return rdf.Triple{}, fmt.Errorf("jsonld: statement %d: named graph %s not supported", r.n, q.Label)
	}
	t, err := ntriples.FromQuad(q)
	if err != nil {
		return rdf.Triple{}, fmt.Errorf("jsonld: statement %d: %w", r.n, err)
	}
	return t, nil
}

// Close releases the expanded dataset.
func (r *Reader) Close() error {
	return r.r.Close()
}

// Decode reads every triple of a JSON-LD document.
func Decode(r io.Reader) ([]rdf.Triple, error) {
	jr := NewReader(r)
	defer jr.Close()
	return rdf.ReadAll(jr)
}

// numbers replaces decoded JSON numbers. Integers become xsd:integer value
// objects carrying their digits verbatim, so values beyond float64
// precision survive; other numbers become float64 as the JSON-LD
// processor expects. Inside @context every number is a float64.
func numbers(v any, inContext bool) any {
	switch x := v.(type) {
	case map[string]any:
		if n, ok := x["@value"].(json.Number); ok {
			if !inContext && isInteger(n) {
				x["@value"] = n.String()
				if _, typed := x["@type"]; !typed {
					x["@type"] = rdf.XSDInteger
				}
			} else {
				x["@value"] = float(n)
			}
		}
		for k, e := range x {
			if k == "@value" {
				continue
			}
			x[k] = numbers(e, inContext || k == "@context")
		}
		return x
	case []any:
		for i, e := range x {
			x[i] = numbers(e, inContext)
		}
		return x
	case json.Number:
		if !inContext && isInteger(x) {
			return map[string]any{"@value": x.String(), "@type": rdf.XSDInteger}
		}
		return float(x)
	default:
		return v
	}
}

func isInteger(n json.Number) bool {
	return !strings.ContainsAny(n.String(), ".eE")
}

func float(n json.Number) float64 {
	f, _ := n.Float64()
	return f
}

type errReader struct{ err error }

func (e errReader) Read([]byte) (int, error) { return 0, e.err }
