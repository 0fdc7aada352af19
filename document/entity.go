package document

import (
	"github.com/c360studio/sbolgraph/identity"
	"github.com/c360studio/sbolgraph/vocabulary/sbol2"
)

// Value is a literal or IRI property value.
type Value struct {
	Text     string
	IRI      bool
	Datatype string
	Lang     string
}

// IRIValue returns an IRI value.
func IRIValue(iri string) Value { return Value{Text: iri, IRI: true} }

// Literal returns a plain literal value.
func Literal(s string) Value { return Value{Text: s} }

// TypedLiteral returns a literal with a datatype IRI.
func TypedLiteral(s, datatype string) Value { return Value{Text: s, Datatype: datatype} }

// Property is one stored property value.
type Property struct {
	Term  sbol2.Term
	Value Value
}

// Reference is one stored, possibly unresolved, pointer to another entity.
type Reference struct {
	Term   sbol2.Term
	Target identity.Identifier
}

// Annotation keeps a triple whose predicate is outside the vocabulary.
type Annotation struct {
	Predicate string
	Value     Value
}

// Entity is a node in a Document. Entities are created and mutated only
// through their Document.
type Entity struct {
	id          identity.Identifier
	kind        Kind
	parent      identity.Identifier
	properties  []Property
	references  []Reference
	annotations []Annotation
}

// ID returns the entity identifier.
func (e *Entity) ID() identity.Identifier { return e.id }

// Kind returns the entity kind.
func (e *Entity) Kind() Kind { return e.kind }

// Schema returns the schema of the entity's kind.
func (e *Entity) Schema() *Schema { return SchemaOf(e.kind) }

// Parent returns the owning entity's identifier, if any.
func (e *Entity) Parent() (identity.Identifier, bool) {
	return e.parent, !e.parent.IsZero()
}

// Properties returns the stored property values in insertion order.
func (e *Entity) Properties() []Property {
	return append([]Property(nil), e.properties...)
}

// Values returns every value stored under term.
func (e *Entity) Values(term sbol2.Term) []Value {
	var out []Value
	for _, p := range e.properties {
		if p.Term == term {
			out = append(out, p.Value)
		}
	}
	return out
}

// Property returns the first value stored under term.
func (e *Entity) Property(term sbol2.Term) (Value, bool) {
	for _, p := range e.properties {
		if p.Term == term {
			return p.Value, true
		}
	}
	return Value{}, false
}

// References returns the stored references in insertion order.
func (e *Entity) References() []Reference {
	return append([]Reference(nil), e.references...)
}

// Targets returns every target stored under term.
func (e *Entity) Targets(term sbol2.Term) []identity.Identifier {
	var out []identity.Identifier
	for _, r := range e.references {
		if r.Term == term {
			out = append(out, r.Target)
		}
	}
	return out
}

// Reference returns the first target stored under term.
func (e *Entity) Reference(term sbol2.Term) (identity.Identifier, bool) {
	for _, r := range e.references {
		if r.Term == term {
			return r.Target, true
		}
	}
	return identity.Identifier{}, false
}

// Annotations returns the kept unrecognised triples.
func (e *Entity) Annotations() []Annotation {
	return append([]Annotation(nil), e.annotations...)
}

// Has reports whether the entity stores any value or reference for term.
func (e *Entity) Has(term sbol2.Term) bool {
	if _, ok := e.Property(term); ok {
		return true
	}
	_, ok := e.Reference(term)
	return ok
}

func (e *Entity) clone() *Entity {
	return &Entity{
		id:          e.id,
		kind:        e.kind,
		parent:      e.parent,
		properties:  e.Properties(),
		references:  e.References(),
		annotations: e.Annotations(),
	}
}

func (e *Entity) count(term sbol2.Term) int {
	n := 0
	for _, p := range e.properties {
		if p.Term == term {
			n++
		}
	}
	for _, r := range e.references {
		if r.Term == term {
			n++
		}
	}
	return n
}
