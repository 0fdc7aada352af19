// Package codec converts between SBOL documents and RDF triple streams.
//
// Serialize walks a Document in insertion order and writes one rdf:type
// triple per entity followed by its identity, properties, references,
// containment links and annotations. Deserialize reads a single-pass triple
// stream back into a Document, collecting non-fatal irregularities as
// warnings.
package codec

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/c360studio/sbolgraph/document"
	"github.com/c360studio/sbolgraph/rdf"
	"github.com/c360studio/sbolgraph/vocabulary/sbol2"
)

// Options configures Serialize and Deserialize.
type Options struct {
	// AllowIncomplete downgrades unresolved required references to
	// warnings when deserializing.
	AllowIncomplete bool

	// External lists URI prefixes whose targets live outside the document.
	// References under them are dangling by intent when deserializing.
	External []string

	// Logger receives debug output. Defaults to slog.Default().
	Logger *slog.Logger

	// Metrics is optional.
	Metrics *Metrics
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// Serialize writes doc to sink. Equal document state always produces the
// same triple sequence.
func Serialize(doc *document.Document, sink rdf.Sink, opts Options) (err error) {
	start := time.Now()
	defer func() { opts.Metrics.observe("serialize", start, err) }()

	n := 0
	emit := func(t rdf.Triple) error {
		if err := sink.WriteTriple(t); err != nil {
			return fmt.Errorf("write triple %d: %w", n, err)
		}
		n++
		opts.Metrics.written()
		return nil
	}

	for _, e := range doc.Entities() {
		for _, t := range entityTriples(doc, e) {
			if err := emit(t); err != nil {
				return err
			}
		}
	}

	opts.logger().Debug("Serialized document",
		slog.Int("entities", doc.Len()),
		slog.Int("triples", n))
	return nil
}

// Triples returns the serialized form of doc as a slice.
func Triples(doc *document.Document) []rdf.Triple {
	var c rdf.Collector
	_ = Serialize(doc, &c, Options{Logger: slog.New(slog.DiscardHandler)})
	return c.Triples
}

// entityTriples renders one entity. Containment links to children whose
// kind the entity's schema cannot own are skipped; validation reports them.
func entityTriples(doc *document.Document, e *document.Entity) []rdf.Triple {
	s := e.ID().String()
	out := []rdf.Triple{{Subject: s, Predicate: sbol2.RDFType.IRI(), Object: rdf.IRI(e.Kind().Type().IRI())}}

	id := e.ID()
	if id.IsCompliant() {
		if !e.Has(sbol2.PersistentIdentity) {
			out = append(out, rdf.Triple{Subject: s, Predicate: sbol2.PersistentIdentity.IRI(), Object: rdf.IRI(id.PersistentIdentity())})
		}
		if !e.Has(sbol2.DisplayID) {
			out = append(out, rdf.Triple{Subject: s, Predicate: sbol2.DisplayID.IRI(), Object: rdf.Literal(id.DisplayID())})
		}
		if id.Version() != "" && !e.Has(sbol2.Version) {
			out = append(out, rdf.Triple{Subject: s, Predicate: sbol2.Version.IRI(), Object: rdf.Literal(id.Version())})
		}
	}

	for _, p := range e.Properties() {
		out = append(out, rdf.Triple{Subject: s, Predicate: p.Term.IRI(), Object: toObject(p.Value)})
	}
	for _, r := range e.References() {
		out = append(out, rdf.Triple{Subject: s, Predicate: r.Term.IRI(), Object: rdf.IRI(r.Target.String())})
	}

	schema := e.Schema()
	for _, c := range doc.Children(id) {
		f, ok := schema.ContainmentField(c.Kind())
		if !ok {
			continue
		}
		out = append(out, rdf.Triple{Subject: s, Predicate: f.Term.IRI(), Object: rdf.IRI(c.ID().String())})
	}

	for _, a := range e.Annotations() {
		out = append(out, rdf.Triple{Subject: s, Predicate: a.Predicate, Object: toObject(a.Value)})
	}
	return out
}

func toObject(v document.Value) rdf.Object {
	return rdf.Object{Value: v.Text, IsIRI: v.IRI, Datatype: v.Datatype, Lang: v.Lang}
}

func toValue(o rdf.Object) document.Value {
	return document.Value{Text: o.Value, IRI: o.IsIRI, Datatype: o.Datatype, Lang: o.Lang}
}
