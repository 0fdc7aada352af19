// Package export renders SBOL documents in the RDF syntaxes the toolchain
// exchanges (RDF/XML, N-Triples, Turtle, JSON-LD) with optional ontology
// alignment profiles, and reads back the syntaxes it can parse.
package export

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/c360studio/sbolgraph/codec"
	"github.com/c360studio/sbolgraph/document"
	"github.com/c360studio/sbolgraph/rdf"
	"github.com/c360studio/sbolgraph/rdf/jsonld"
	"github.com/c360studio/sbolgraph/rdf/ntriples"
	"github.com/c360studio/sbolgraph/rdf/rdfxml"
	"github.com/c360studio/sbolgraph/vocabulary/sbol2"
)

// Format specifies the output serialization format.
type Format string

const (
	// FormatRDFXML produces RDF/XML, the native SBOL exchange format.
	FormatRDFXML Format = "rdfxml"

	// FormatTurtle produces Turtle (.ttl) output.
	FormatTurtle Format = "turtle"

	// FormatNTriples produces N-Triples (.nt) output.
	FormatNTriples Format = "ntriples"

	// FormatJSONLD produces JSON-LD (.jsonld) output.
	FormatJSONLD Format = "jsonld"
)

// RDFExporter writes documents in one format under one profile.
type RDFExporter struct {
	profile  Profile
	prefixes map[string]string
}

// NewRDFExporter creates a new RDF exporter with the specified profile.
func NewRDFExporter(profile Profile) *RDFExporter {
	return &RDFExporter{
		profile:  profile,
		prefixes: defaultPrefixes(),
	}
}

// defaultPrefixes returns the standard namespace prefixes for RDF export.
func defaultPrefixes() map[string]string {
	return map[string]string{
		"rdf":     sbol2.RDF,
		"xsd":     "http://www.w3.org/2001/XMLSchema#",
		"dcterms": sbol2.DCTerms,
		"prov":    sbol2.PROV,
		"sbol":    sbol2.SBOL2,
		"bfo":     "http://purl.obolibrary.org/obo/",
		"cco":     "http://www.ontologyrepository.com/CommonCoreOntologies/",
	}
}

// SetPrefix binds an extra namespace prefix used by Turtle and JSON-LD.
func (e *RDFExporter) SetPrefix(prefix, iri string) {
	e.prefixes[prefix] = iri
}

// Triples returns the document triples plus the profile's type assertions.
func (e *RDFExporter) Triples(doc *document.Document) []rdf.Triple {
	triples := codec.Triples(doc)
	return append(triples, NewTypeAsserter(e.profile).Triples(doc)...)
}

// Export writes doc to w in format.
func (e *RDFExporter) Export(w io.Writer, doc *document.Document, format Format) error {
	return e.Write(w, e.Triples(doc), format)
}

// ExportString renders doc in format.
func (e *RDFExporter) ExportString(doc *document.Document, format Format) (string, error) {
	var sb strings.Builder
	if err := e.Export(&sb, doc, format); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Write renders triples in format.
func (e *RDFExporter) Write(w io.Writer, triples []rdf.Triple, format Format) error {
	switch format {
	case FormatRDFXML:
		return rdfxml.Encode(w, triples)
	case FormatNTriples:
		return ntriples.Encode(w, triples)
	case FormatTurtle:
		tw := NewTurtleWriter()
		for p, iri := range e.prefixes {
			tw.SetPrefix(p, iri)
		}
		tw.WriteTriples(triples)
		_, err := io.WriteString(w, tw.String())
		return err
	case FormatJSONLD:
		jw := NewJSONLDWriter()
		jw.SetContext(e.prefixes)
		jw.AddTriples(triples)
		_, err := io.WriteString(w, jw.String()+"\n")
		return err
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// NewSource returns a triple source reading format from r. Turtle has no
// reader.
func NewSource(r io.Reader, format Format) (rdf.Source, error) {
	switch format {
	case FormatRDFXML:
		return rdfxml.NewReader(r), nil
	case FormatNTriples:
		return ntriples.NewReader(r), nil
	case FormatJSONLD:
		return jsonld.NewReader(r), nil
	default:
		return nil, fmt.Errorf("unsupported input format: %s", format)
	}
}

// subjects groups triples by subject in first-seen order.
func subjects(triples []rdf.Triple) ([]string, map[string][]rdf.Triple) {
	var order []string
	by := make(map[string][]rdf.Triple)
	for _, t := range triples {
		if _, ok := by[t.Subject]; !ok {
			order = append(order, t.Subject)
		}
		by[t.Subject] = append(by[t.Subject], t)
	}
	return order, by
}

// compactor shortens IRIs with a prefix table, longest namespace first.
type compactor struct {
	names []string
	iris  map[string]string
}

func newCompactor(prefixes map[string]string) *compactor {
	c := &compactor{iris: make(map[string]string, len(prefixes))}
	for p, iri := range prefixes {
		c.names = append(c.names, p)
		c.iris[p] = iri
	}
	sort.Slice(c.names, func(i, j int) bool {
		a, b := c.iris[c.names[i]], c.iris[c.names[j]]
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return c.names[i] < c.names[j]
	})
	return c
}

// compact returns prefix:local, or "" when no prefix applies.
func (c *compactor) compact(iri string) string {
	for _, p := range c.names {
		ns := c.iris[p]
		if local, ok := strings.CutPrefix(iri, ns); ok && isLocalName(local) {
			return p + ":" + local
		}
	}
	return ""
}

// expand resolves prefix:local against the table.
func (c *compactor) expand(s string) string {
	if p, local, ok := strings.Cut(s, ":"); ok && !strings.HasPrefix(local, "//") {
		if ns, ok := c.iris[p]; ok {
			return ns + local
		}
	}
	return s
}

func isLocalName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case i > 0 && (r >= '0' && r <= '9' || r == '-'):
		default:
			return false
		}
	}
	return true
}
