// Package rdfxml reads and writes the RDF/XML syntax SBOL files are
// usually exchanged in.
//
// Reading is backed by the knakk/rdf RDF/XML decoder. Blank nodes come
// back as "_:label" subjects and objects, matching the rest of the rdf
// adapters.
package rdfxml

import (
	"errors"
	"fmt"
	"io"
	"strings"

	krdf "github.com/knakk/rdf"

	"github.com/c360studio/sbolgraph/rdf"
)

// Reader is an rdf.Source over an RDF/XML document.
type Reader struct {
	dec krdf.TripleDecoder
	n   int
}

// NewReader returns a Reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{dec: krdf.NewTripleDecoder(r, krdf.RDFXML)}
}

// Next implements rdf.Source.
func (r *Reader) Next() (rdf.Triple, error) {
	t, err := r.dec.Decode()
	if errors.Is(err, io.EOF) {
		return rdf.Triple{}, io.EOF
	}
	r.n++
	if err != nil {
		return rdf.Triple{}, fmt.Errorf("rdfxml: statement %d: %w", r.n, err)
	}
	out, err := fromTriple(t)
	if err != nil {
		return rdf.Triple{}, fmt.Errorf("rdfxml: statement %d: %w", r.n, err)
	}
	return out, nil
}

// Decode reads every triple of an RDF/XML document.
func Decode(r io.Reader) ([]rdf.Triple, error) {
	return rdf.ReadAll(NewReader(r))
}

func fromTriple(t krdf.Triple) (rdf.Triple, error) {
	subj, err := node(t.Subj)
	if err != nil {
		return rdf.Triple{}, fmt.Errorf("subject: %w", err)
	}
	if t.Pred.Type() != krdf.TermIRI {
		return rdf.Triple{}, fmt.Errorf("predicate %s is not an IRI", t.Pred)
	}
	obj, err := object(t.Obj)
	if err != nil {
		return rdf.Triple{}, fmt.Errorf("object: %w", err)
	}
	return rdf.Triple{Subject: subj, Predicate: t.Pred.String(), Object: obj}, nil
}

func node(term krdf.Term) (string, error) {
	switch term.Type() {
	case krdf.TermIRI:
		return term.String(), nil
	case krdf.TermBlank:
		return "_:" + strings.TrimPrefix(term.String(), "_:"), nil
	default:
		return "", fmt.Errorf("%s is not an IRI or blank node", term)
	}
}

func object(term krdf.Term) (rdf.Object, error) {
	if term.Type() != krdf.TermLiteral {
		s, err := node(term)
		if err != nil {
			return rdf.Object{}, err
		}
		return rdf.IRI(s), nil
	}
	l, ok := term.(krdf.Literal)
	if !ok {
		return rdf.Object{}, fmt.Errorf("unexpected literal %T", term)
	}
	if lang := l.Lang(); lang != "" {
		return rdf.Object{Value: l.String(), Lang: lang}, nil
	}
	dt := l.DataType.String()
	if dt == "" || dt == rdf.XSDString {
		return rdf.Literal(l.String()), nil
	}
	return rdf.Typed(l.String(), dt), nil
}
