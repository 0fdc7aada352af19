package document

import (
	"slices"
	"strings"

	"github.com/c360studio/sbolgraph/vocabulary/sbol2"
)

// Equal reports whether d and other hold the same entities with the same
// kinds, parents, properties, references and annotations. Insertion order
// and the order of values within an entity are ignored.
func (d *Document) Equal(other *Document) bool {
	if d.Len() != other.Len() {
		return false
	}
	for k, e := range d.entities {
		o, ok := other.entities[k]
		if !ok || !e.Equal(o) {
			return false
		}
	}
	return true
}

// Equal reports whether e and other carry the same state.
func (e *Entity) Equal(other *Entity) bool {
	if e.id.Key() != other.id.Key() || e.kind != other.kind || e.parent.Key() != other.parent.Key() {
		return false
	}
	return slices.Equal(e.Fingerprint(), other.Fingerprint())
}

// Fingerprint returns the entity's values as sorted predicate/object lines,
// suitable for set comparison. Identity values implied by a compliant
// identifier are included whether or not they are stored.
func (e *Entity) Fingerprint() []string {
	lines := make([]string, 0, len(e.properties)+len(e.references)+len(e.annotations)+3)
	if e.id.IsCompliant() {
		if !e.Has(sbol2.PersistentIdentity) {
			lines = append(lines, sbol2.PersistentIdentity.IRI()+" "+IRIValue(e.id.PersistentIdentity()).key())
		}
		if !e.Has(sbol2.DisplayID) {
			lines = append(lines, sbol2.DisplayID.IRI()+" "+Literal(e.id.DisplayID()).key())
		}
		if v := e.id.Version(); v != "" && !e.Has(sbol2.Version) {
			lines = append(lines, sbol2.Version.IRI()+" "+Literal(v).key())
		}
	}
	for _, p := range e.properties {
		lines = append(lines, p.Term.IRI()+" "+p.Value.key())
	}
	for _, r := range e.references {
		lines = append(lines, r.Term.IRI()+" <"+r.Target.String()+">")
	}
	for _, a := range e.annotations {
		lines = append(lines, a.Predicate+" "+a.Value.key())
	}
	slices.Sort(lines)
	return lines
}

func (v Value) key() string {
	if v.IRI {
		return "<" + v.Text + ">"
	}
	var b strings.Builder
	b.WriteString(`"` + v.Text + `"`)
	if v.Lang != "" {
		b.WriteString("@" + v.Lang)
	} else if v.Datatype != "" {
		b.WriteString("^^" + v.Datatype)
	}
	return b.String()
}
