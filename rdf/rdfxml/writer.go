package rdfxml

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/c360studio/sbolgraph/rdf"
	"github.com/c360studio/sbolgraph/vocabulary/sbol2"
)

// conventional prefixes for well-known namespaces.
var conventional = map[string]string{
	sbol2.SBOL2:   "sbol",
	sbol2.RDF:     "rdf",
	sbol2.DCTerms: "dcterms",
	sbol2.PROV:    "prov",
}

// Writer is an rdf.Sink that buffers triples and renders them as RDF/XML
// on Close. Subjects appear in first-seen order, each as one node element
// with its properties in arrival order.
type Writer struct {
	w        io.Writer
	subjects []string
	bySubj   map[string][]rdf.Triple
	closed   bool
}

// NewWriter returns a Writer emitting to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, bySubj: make(map[string][]rdf.Triple)}
}

// WriteTriple implements rdf.Sink.
func (w *Writer) WriteTriple(t rdf.Triple) error {
	if w.closed {
		return fmt.Errorf("rdfxml: write after close")
	}
	if _, _, ok := split(t.Predicate); !ok {
		return fmt.Errorf("rdfxml: predicate %s cannot be written as an element name", t.Predicate)
	}
	if _, ok := w.bySubj[t.Subject]; !ok {
		w.subjects = append(w.subjects, t.Subject)
	}
	w.bySubj[t.Subject] = append(w.bySubj[t.Subject], t)
	return nil
}

// Encode writes triples as one RDF/XML document.
func Encode(out io.Writer, triples []rdf.Triple) error {
	w := NewWriter(out)
	for _, t := range triples {
		if err := w.WriteTriple(t); err != nil {
			return err
		}
	}
	return w.Close()
}

// split breaks an IRI into namespace and an XML local name at the last '#'
// or '/'.
func split(iri string) (ns, local string, ok bool) {
	i := strings.LastIndexAny(iri, "#/")
	if i < 0 || i == len(iri)-1 {
		return "", "", false
	}
	ns, local = iri[:i+1], iri[i+1:]
	return ns, local, isNCName(local)
}

func isNCName(s string) bool {
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (r == '-' || r == '.' || unicode.IsDigit(r)):
		default:
			return false
		}
	}
	return s != ""
}

type namespaces struct {
	prefixes map[string]string
	order    []string
}

func (n *namespaces) prefix(ns string) string {
	if p, ok := n.prefixes[ns]; ok {
		return p
	}
	p, ok := conventional[ns]
	if !ok {
		p = "ns" + strconv.Itoa(len(n.order))
	}
	n.prefixes[ns] = p
	n.order = append(n.order, ns)
	return p
}

func (n *namespaces) qname(iri string) string {
	ns, local, _ := split(iri)
	return n.prefix(ns) + ":" + local
}

// nodeType picks the rdf:type rendered as the node element name.
func nodeType(triples []rdf.Triple) int {
	for i, t := range triples {
		if t.Predicate == sbol2.RDF+"type" && t.Object.IsIRI && !strings.HasPrefix(t.Object.Value, "_:") {
			if _, _, ok := split(t.Object.Value); ok {
				return i
			}
		}
	}
	return -1
}

// Close renders the buffered document.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	ns := &namespaces{prefixes: make(map[string]string)}
	ns.prefix(sbol2.RDF)

	var body strings.Builder
	for _, s := range w.subjects {
		triples := w.bySubj[s]
		typed := nodeType(triples)
		name := "rdf:Description"
		if typed >= 0 {
			name = ns.qname(triples[typed].Object.Value)
		}

		body.WriteString("  <" + name + " ")
		if strings.HasPrefix(s, "_:") {
			body.WriteString(`rdf:nodeID="` + escape(strings.TrimPrefix(s, "_:")) + `"`)
		} else {
			body.WriteString(`rdf:about="` + escape(s) + `"`)
		}
		body.WriteString(">\n")

		for i, t := range triples {
			if i == typed {
				continue
			}
			writeProperty(&body, ns.qname(t.Predicate), t.Object)
		}
		body.WriteString("  </" + name + ">\n")
	}

	bw := bufio.NewWriter(w.w)
	bw.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	bw.WriteString("<rdf:RDF")
	for _, n := range ns.order {
		bw.WriteString(fmt.Sprintf("\n    xmlns:%s=\"%s\"", ns.prefixes[n], escape(n)))
	}
	bw.WriteString(">\n")
	bw.WriteString(body.String())
	bw.WriteString("</rdf:RDF>\n")
	return bw.Flush()
}

func writeProperty(b *strings.Builder, name string, o rdf.Object) {
	b.WriteString("    <" + name)
	switch {
	case o.IsIRI && strings.HasPrefix(o.Value, "_:"):
		b.WriteString(` rdf:nodeID="` + escape(strings.TrimPrefix(o.Value, "_:")) + `"/>` + "\n")
		return
	case o.IsIRI:
		b.WriteString(` rdf:resource="` + escape(o.Value) + `"/>` + "\n")
		return
	case o.Lang != "":
		b.WriteString(` xml:lang="` + escape(o.Lang) + `"`)
	case o.Datatype != "" && o.Datatype != rdf.XSDString:
		b.WriteString(` rdf:datatype="` + escape(o.Datatype) + `"`)
	}
	b.WriteString(">" + escape(o.Value) + "</" + name + ">\n")
}

func escape(s string) string {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "�")
	}
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
