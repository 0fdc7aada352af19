// Package document holds the SBOL entity graph.
//
// A Document is an arena of entities keyed by identifier. Entities refer to
// each other by identifier only, so references may be created before their
// targets exist and are checked later by ResolveAll. Ownership is a separate
// relation fixed when a child is created: removing a parent removes its
// children, never the targets of its references.
//
// A Document is not safe for concurrent mutation.
package document

import (
	"fmt"
	"strings"

	"github.com/c360studio/sbolgraph/identity"
	"github.com/c360studio/sbolgraph/vocabulary/sbol2"
)

// Document owns a set of entities in insertion order.
type Document struct {
	order     []string
	entities  map[string]*Entity
	children  map[string][]string
	externals []string
}

// New returns an empty Document.
func New() *Document {
	return &Document{
		entities: make(map[string]*Entity),
		children: make(map[string][]string),
	}
}

// CreateOption configures CreateEntity.
type CreateOption func(*Entity)

// WithParent records parent as the exclusive owner of the new entity. The
// parent does not have to exist yet.
func WithParent(parent identity.Identifier) CreateOption {
	return func(e *Entity) {
		e.parent = parent
	}
}

// CreateEntity adds an entity of kind under id.
func (d *Document) CreateEntity(kind Kind, id identity.Identifier, opts ...CreateOption) (*Entity, error) {
	if SchemaOf(kind) == nil {
		return nil, fmt.Errorf("create %s: %w", id, ErrUnknownKind)
	}
	if id.IsZero() {
		return nil, fmt.Errorf("create %s: %w", kind, ErrZeroIdentifier)
	}
	key := id.Key()
	if existing, ok := d.entities[key]; ok {
		return nil, &DuplicateIdentifierError{ID: id, Existing: existing.kind}
	}

	e := &Entity{id: id, kind: kind}
	for _, opt := range opts {
		opt(e)
	}
	if !e.parent.IsZero() {
		if kind.IsTopLevel() {
			return nil, fmt.Errorf("create %s: top-level %s cannot have a parent: %w", id, kind, ErrFieldNotAllowed)
		}
		if e.parent.Key() == key {
			return nil, fmt.Errorf("create %s: entity cannot own itself: %w", id, ErrFieldNotAllowed)
		}
		if p, ok := d.entities[e.parent.Key()]; ok {
			if _, ok := p.Schema().ContainmentField(kind); !ok {
				return nil, fmt.Errorf("create %s: %s cannot own a %s: %w", id, p.kind, kind, ErrFieldNotAllowed)
			}
		}
		pk := e.parent.Key()
		d.children[pk] = append(d.children[pk], key)
	}

	d.entities[key] = e
	d.order = append(d.order, key)
	return e, nil
}

// Get returns the entity stored under id.
func (d *Document) Get(id identity.Identifier) (*Entity, bool) {
	e, ok := d.entities[id.Key()]
	return e, ok
}

// Contains reports whether id is in the document.
func (d *Document) Contains(id identity.Identifier) bool {
	_, ok := d.entities[id.Key()]
	return ok
}

// Len returns the number of entities.
func (d *Document) Len() int { return len(d.order) }

// Entities returns every entity in insertion order.
func (d *Document) Entities() []*Entity {
	out := make([]*Entity, 0, len(d.order))
	for _, k := range d.order {
		out = append(out, d.entities[k])
	}
	return out
}

// TopLevels returns the top-level entities in insertion order.
func (d *Document) TopLevels() []*Entity {
	var out []*Entity
	for _, k := range d.order {
		if e := d.entities[k]; e.kind.IsTopLevel() {
			out = append(out, e)
		}
	}
	return out
}

// OfKind returns the entities of kind k in insertion order.
func (d *Document) OfKind(k Kind) []*Entity {
	var out []*Entity
	for _, key := range d.order {
		if e := d.entities[key]; e.kind == k {
			out = append(out, e)
		}
	}
	return out
}

// Children returns the entities owned by id in creation order.
func (d *Document) Children(id identity.Identifier) []*Entity {
	keys := d.children[id.Key()]
	out := make([]*Entity, 0, len(keys))
	for _, k := range keys {
		if e, ok := d.entities[k]; ok {
			out = append(out, e)
		}
	}
	return out
}

func (d *Document) lookup(id identity.Identifier) (*Entity, error) {
	e, ok := d.entities[id.Key()]
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	return e, nil
}

func (d *Document) field(e *Entity, term sbol2.Term, classes ...ValueClass) (Field, error) {
	f, ok := e.Schema().Field(term)
	if !ok {
		return Field{}, fmt.Errorf("%s on %s %s: %w", term, e.kind, e.id, ErrFieldNotAllowed)
	}
	for _, c := range classes {
		if f.Class == c {
			return f, nil
		}
	}
	return Field{}, fmt.Errorf("%s on %s %s is a %s field: %w", term, e.kind, e.id, f.Class, ErrFieldNotAllowed)
}

// AddReference stores a reference from id to target under term. The target
// need not exist yet.
func (d *Document) AddReference(id identity.Identifier, term sbol2.Term, target identity.Identifier) error {
	e, err := d.lookup(id)
	if err != nil {
		return err
	}
	if target.IsZero() {
		return fmt.Errorf("reference %s on %s: %w", term, id, ErrZeroIdentifier)
	}
	f, err := d.field(e, term, ClassReference)
	if err != nil {
		return err
	}
	if !f.Multi && e.count(f.Term) > 0 {
		return fmt.Errorf("reference %s on %s: %w", f.Term, id, ErrSingleValued)
	}
	e.references = append(e.references, Reference{Term: f.Term, Target: target})
	return nil
}

// AddProperty appends a literal or IRI value under term.
func (d *Document) AddProperty(id identity.Identifier, term sbol2.Term, v Value) error {
	e, err := d.lookup(id)
	if err != nil {
		return err
	}
	f, err := d.field(e, term, ClassLiteral, ClassURI)
	if err != nil {
		return err
	}
	if !f.Multi && e.count(f.Term) > 0 {
		return fmt.Errorf("property %s on %s: %w", f.Term, id, ErrSingleValued)
	}
	if f.Class == ClassURI {
		v.IRI = true
	}
	e.properties = append(e.properties, Property{Term: f.Term, Value: v})
	return nil
}

// SetProperty replaces every value under term with v.
func (d *Document) SetProperty(id identity.Identifier, term sbol2.Term, v Value) error {
	e, err := d.lookup(id)
	if err != nil {
		return err
	}
	f, err := d.field(e, term, ClassLiteral, ClassURI)
	if err != nil {
		return err
	}
	kept := e.properties[:0]
	for _, p := range e.properties {
		if p.Term != f.Term {
			kept = append(kept, p)
		}
	}
	e.properties = kept
	return d.AddProperty(id, f.Term, v)
}

// AddAnnotation keeps a value under a predicate the vocabulary does not
// know.
func (d *Document) AddAnnotation(id identity.Identifier, predicate string, v Value) error {
	e, err := d.lookup(id)
	if err != nil {
		return err
	}
	if predicate == "" {
		return fmt.Errorf("annotation on %s: empty predicate", id)
	}
	e.annotations = append(e.annotations, Annotation{Predicate: predicate, Value: v})
	return nil
}

// RemoveEntity deletes id and, depth first, every entity it owns.
// References to the removed entities elsewhere are left dangling.
func (d *Document) RemoveEntity(id identity.Identifier) error {
	e, err := d.lookup(id)
	if err != nil {
		return err
	}
	removed := make(map[string]bool)
	d.collect(id.Key(), removed)

	if pk := e.parent.Key(); pk != "" {
		d.children[pk] = without(d.children[pk], removed)
		if len(d.children[pk]) == 0 {
			delete(d.children, pk)
		}
	}
	for k := range removed {
		delete(d.entities, k)
		delete(d.children, k)
	}
	d.order = without(d.order, removed)
	return nil
}

func (d *Document) collect(key string, acc map[string]bool) {
	if acc[key] {
		return
	}
	acc[key] = true
	for _, c := range d.children[key] {
		d.collect(c, acc)
	}
}

func without(keys []string, drop map[string]bool) []string {
	out := keys[:0]
	for _, k := range keys {
		if !drop[k] {
			out = append(out, k)
		}
	}
	return out
}

// DeclareExternal marks a URI prefix whose targets live outside the
// document on purpose. ResolveAll skips references under it.
func (d *Document) DeclareExternal(prefix string) {
	prefix = identity.Normalize(prefix)
	if prefix == "" {
		return
	}
	for _, p := range d.externals {
		if p == prefix {
			return
		}
	}
	d.externals = append(d.externals, prefix)
}

// Externals returns the declared external prefixes.
func (d *Document) Externals() []string {
	return append([]string(nil), d.externals...)
}

// IsExternal reports whether id falls under a declared external prefix.
func (d *Document) IsExternal(id identity.Identifier) bool {
	s := id.String()
	for _, p := range d.externals {
		if s == p || strings.HasPrefix(s, p+"/") || strings.HasPrefix(s, p+"#") ||
			(strings.HasSuffix(p, "#") && strings.HasPrefix(s, p)) {
			return true
		}
	}
	return false
}

// Resolve returns the entity target points at, if present.
func (d *Document) Resolve(target identity.Identifier) (*Entity, bool) {
	return d.Get(target)
}

// ResolveAll reports every reference whose target is neither in the
// document nor external. It never mutates the document, so repeated calls
// return equal results.
func (d *Document) ResolveAll() []*UnresolvedReferenceError {
	var out []*UnresolvedReferenceError
	for _, k := range d.order {
		e := d.entities[k]
		schema := e.Schema()
		for _, r := range e.references {
			if d.Contains(r.Target) || d.IsExternal(r.Target) {
				continue
			}
			f, _ := schema.Field(r.Term)
			out = append(out, &UnresolvedReferenceError{
				Subject:   e.id,
				Predicate: r.Term,
				Target:    r.Target,
				Required:  f.Required,
			})
		}
	}
	return out
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	c := New()
	c.order = append([]string(nil), d.order...)
	for k, e := range d.entities {
		c.entities[k] = e.clone()
	}
	for k, v := range d.children {
		c.children[k] = append([]string(nil), v...)
	}
	c.externals = d.Externals()
	return c
}
