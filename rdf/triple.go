// Package rdf defines the triple stream shared by the SBOL codec and its
// syntax adapters.
//
// A Source is a finite, single-pass stream: Next returns io.EOF once it is
// exhausted and cannot be rewound. A Sink accepts triples in order. Concrete
// syntaxes (N-Triples, RDF/XML) live in subpackages and only ever see this
// interface.
package rdf

import (
	"fmt"
	"io"
	"strconv"
)

// XSD datatype IRIs used by SBOL literals.
const (
	XSDString  = "http://www.w3.org/2001/XMLSchema#string"
	XSDInteger = "http://www.w3.org/2001/XMLSchema#integer"
	XSDInt     = "http://www.w3.org/2001/XMLSchema#int"
	XSDLong    = "http://www.w3.org/2001/XMLSchema#long"
)

// Object is the object position of a triple: an IRI or a literal with an
// optional datatype or language tag.
type Object struct {
	Value    string
	IsIRI    bool
	Datatype string
	Lang     string
}

// IRI returns an IRI object.
func IRI(v string) Object { return Object{Value: v, IsIRI: true} }

// Literal returns a plain string literal.
func Literal(v string) Object { return Object{Value: v} }

// Typed returns a literal carrying datatype.
func Typed(v, datatype string) Object { return Object{Value: v, Datatype: datatype} }

// Integer returns an xsd:integer literal.
func Integer(n int64) Object { return Typed(strconv.FormatInt(n, 10), XSDInteger) }

// String renders the object in N-Triples form.
func (o Object) String() string {
	if o.IsIRI {
		return "<" + o.Value + ">"
	}
	s := strconv.Quote(o.Value)
	switch {
	case o.Lang != "":
		s += "@" + o.Lang
	case o.Datatype != "" && o.Datatype != XSDString:
		s += "^^<" + o.Datatype + ">"
	}
	return s
}

// Triple is one RDF statement. Subject and Predicate are IRIs.
type Triple struct {
	Subject   string
	Predicate string
	Object    Object
}

// String renders the triple as one N-Triples line without the newline.
func (t Triple) String() string {
	return fmt.Sprintf("<%s> <%s> %s .", t.Subject, t.Predicate, t.Object)
}

// Source yields triples one at a time. Next returns io.EOF after the last
// triple; any other error aborts the stream.
type Source interface {
	Next() (Triple, error)
}

// Sink receives triples in order.
type Sink interface {
	WriteTriple(Triple) error
}

// SliceSource replays a fixed slice once.
type SliceSource struct {
	triples []Triple
	pos     int
}

// NewSliceSource returns a Source over triples.
func NewSliceSource(triples []Triple) *SliceSource {
	return &SliceSource{triples: triples}
}

// Next implements Source.
func (s *SliceSource) Next() (Triple, error) {
	if s.pos >= len(s.triples) {
		return Triple{}, io.EOF
	}
	t := s.triples[s.pos]
	s.pos++
	return t, nil
}

// Collector is a Sink that keeps every triple in memory.
type Collector struct {
	Triples []Triple
}

// WriteTriple implements Sink.
func (c *Collector) WriteTriple(t Triple) error {
	c.Triples = append(c.Triples, t)
	return nil
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Triple) error

// WriteTriple implements Sink.
func (f SinkFunc) WriteTriple(t Triple) error { return f(t) }

// ReadAll drains src into a slice.
func ReadAll(src Source) ([]Triple, error) {
	var out []Triple
	for {
		t, err := src.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, t)
	}
}

// Copy streams every triple from src into dst and returns the count.
func Copy(dst Sink, src Source) (int, error) {
	n := 0
	for {
		t, err := src.Next()
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		if err := dst.WriteTriple(t); err != nil {
			return n, err
		}
		n++
	}
}
