// Package ntriples adapts N-Triples (and the default graph of N-Quads) to
// rdf.Source and rdf.Sink using the cayley quad codec.
package ntriples

import (
	"fmt"
	"io"
	"strings"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/nquads"

	"github.com/c360studio/sbolgraph/rdf"
)

// Reader is an rdf.Source over an N-Triples stream. Quads with a graph
// label are rejected: SBOL documents live in the default graph.
type Reader struct {
	r    *nquads.Reader
	line int
}

// NewReader returns a Reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: nquads.NewReader(r, true)}
}

// Next implements rdf.Source.
func (r *Reader) Next() (rdf.Triple, error) {
	q, err := r.r.ReadQuad()
	if err == io.EOF {
		return rdf.Triple{}, io.EOF
	}
	r.line++
	if err != nil {
		return rdf.Triple{}, fmt.Errorf("ntriples: statement %d: %w", r.line, err)
	}
	if q.Label != nil {
		return rdf.Triple{}, fmt.Errorf("ntriples: statement %d: named graph %s not supported", r.line, q.Label)
	}
	t, err := FromQuad(q)
	if err != nil {
		return rdf.Triple{}, fmt.Errorf("ntriples: statement %d: %w", r.line, err)
	}
	return t, nil
}

// Close releases the underlying reader.
func (r *Reader) Close() error {
	return r.r.Close()
}

// FromQuad converts a default-graph quad to a triple.
func FromQuad(q quad.Quad) (rdf.Triple, error) {
	subj, err := node(q.Subject)
	if err != nil {
		return rdf.Triple{}, fmt.Errorf("subject: %w", err)
	}
	pred, ok := q.Predicate.(quad.IRI)
	if !ok {
		return rdf.Triple{}, fmt.Errorf("predicate %v is not an IRI", q.Predicate)
	}
	obj, err := object(q.Object)
	if err != nil {
		return rdf.Triple{}, fmt.Errorf("object: %w", err)
	}
	return rdf.Triple{Subject: subj, Predicate: string(pred), Object: obj}, nil
}

func node(v quad.Value) (string, error) {
	switch n := v.(type) {
	case quad.IRI:
		return string(n), nil
	case quad.BNode:
		return "_:" + strings.TrimPrefix(string(n), "_:"), nil
	default:
		return "", fmt.Errorf("%v is not an IRI or blank node", v)
	}
}

func object(v quad.Value) (rdf.Object, error) {
	switch o := v.(type) {
	case quad.IRI:
		return rdf.IRI(string(o)), nil
	case quad.BNode:
		return rdf.IRI("_:" + strings.TrimPrefix(string(o), "_:")), nil
	case quad.String:
		return rdf.Literal(string(o)), nil
	case quad.TypedString:
		if o.Type == rdf.XSDString {
			return rdf.Literal(string(o.Value)), nil
		}
		return rdf.Typed(string(o.Value), string(o.Type)), nil
	case quad.LangString:
		return rdf.Object{Value: string(o.Value), Lang: o.Lang}, nil
	case nil:
		return rdf.Object{}, fmt.Errorf("missing object")
	default:
		return rdf.Literal(quad.StringOf(v)), nil
	}
}

// Writer is an rdf.Sink emitting N-Triples.
type Writer struct {
	w *nquads.Writer
}

// NewWriter returns a Writer emitting to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: nquads.NewWriter(w)}
}

// WriteTriple implements rdf.Sink.
func (w *Writer) WriteTriple(t rdf.Triple) error {
	return w.w.WriteQuad(ToQuad(t))
}

// Close flushes the writer.
func (w *Writer) Close() error {
	return w.w.Close()
}

// ToQuad converts a triple to a cayley quad in the default graph.
func ToQuad(t rdf.Triple) quad.Quad {
	return quad.Quad{
		Subject:   toNode(t.Subject),
		Predicate: quad.IRI(t.Predicate),
		Object:    toValue(t.Object),
	}
}

func toNode(s string) quad.Value {
	if strings.HasPrefix(s, "_:") {
		return quad.BNode(strings.TrimPrefix(s, "_:"))
	}
	return quad.IRI(s)
}

func toValue(o rdf.Object) quad.Value {
	switch {
	case o.IsIRI:
		return toNode(o.Value)
	case o.Lang != "":
		return quad.LangString{Value: quad.String(o.Value), Lang: o.Lang}
	case o.Datatype != "" && o.Datatype != rdf.XSDString:
		return quad.TypedString{Value: quad.String(o.Value), Type: quad.IRI(o.Datatype)}
	default:
		return quad.String(o.Value)
	}
}

// Decode reads every triple of an N-Triples document.
func Decode(r io.Reader) ([]rdf.Triple, error) {
	nr := NewReader(r)
	defer nr.Close()
	return rdf.ReadAll(nr)
}

// Encode writes triples as N-Triples.
func Encode(w io.Writer, triples []rdf.Triple) error {
	nw := NewWriter(w)
	for _, t := range triples {
		if err := nw.WriteTriple(t); err != nil {
			return err
		}
	}
	return nw.Close()
}
