// Package compare reports the differences between two SBOL documents, both
// structurally (entity by entity, following containment) and textually over
// their canonical N-Triples.
package compare

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/c360studio/sbolgraph/codec"
	"github.com/c360studio/sbolgraph/document"
	"github.com/c360studio/sbolgraph/identity"
	"github.com/c360studio/sbolgraph/rdf/ntriples"
)

// ChangeType classifies a difference.
type ChangeType string

const (
	// Missing means the entity exists on one side only.
	Missing ChangeType = "missing"
	// Changed means both sides hold the entity with different state.
	Changed ChangeType = "changed"
)

// Difference is one entity that does not match between two documents.
type Difference struct {
	Kind  document.Kind
	ID    identity.Identifier
	Depth int
	Type  ChangeType

	// MissingFrom names the document lacking the entity.
	MissingFrom string

	// Removed and Added hold fingerprint lines found only on the left or
	// only on the right.
	Removed []string
	Added   []string
}

// String formats d the way validators print comparison output: children are
// indented with arrows, one level per containment step.
func (d Difference) String() string {
	prefix := ""
	if d.Depth > 0 {
		prefix = strings.Repeat("-", 2*d.Depth-1) + ">"
	}
	if d.Type == Missing {
		return fmt.Sprintf("%s%s %s not found in %s", prefix, d.Kind, d.ID, d.MissingFrom)
	}
	return fmt.Sprintf("%s%s %s differ.", prefix, d.Kind, d.ID)
}

// Result is the outcome of comparing two documents.
type Result struct {
	Left        string
	Right       string
	Differences []Difference
}

// Equal reports whether no differences were found.
func (r *Result) Equal() bool { return len(r.Differences) == 0 }

// Messages returns one line per difference.
func (r *Result) Messages() []string {
	out := make([]string, len(r.Differences))
	for i, d := range r.Differences {
		out[i] = d.String()
	}
	return out
}

// Format renders the messages together with each changed entity's line
// changes.
func (r *Result) Format() string {
	if r.Equal() {
		return fmt.Sprintf("%s and %s are equal\n", r.Left, r.Right)
	}
	var sb strings.Builder
	for _, d := range r.Differences {
		sb.WriteString(d.String())
		sb.WriteByte('\n')
		for _, l := range d.Removed {
			sb.WriteString("    - " + l + "\n")
		}
		for _, l := range d.Added {
			sb.WriteString("    + " + l + "\n")
		}
	}
	return sb.String()
}

// Documents compares left and right. Top-level entities are visited in left
// document order, then those only on the right. Children of an entity present
// on both sides are compared recursively.
func Documents(leftName string, left *document.Document, rightName string, right *document.Document) *Result {
	r := &Result{Left: leftName, Right: rightName}
	for _, e := range left.TopLevels() {
		r.walk(left, right, e, 0)
	}
	for _, e := range right.TopLevels() {
		if !left.Contains(e.ID()) {
			r.missing(e, 0, leftName)
		}
	}
	return r
}

func (r *Result) walk(left, right *document.Document, e *document.Entity, depth int) {
	o, ok := right.Get(e.ID())
	if !ok {
		r.missing(e, depth, r.Right)
		return
	}
	if !e.Equal(o) {
		d := Difference{Kind: e.Kind(), ID: e.ID(), Depth: depth, Type: Changed}
		d.Removed, d.Added = lineDelta(describe(e), describe(o))
		r.Differences = append(r.Differences, d)
	}
	for _, c := range left.Children(e.ID()) {
		r.walk(left, right, c, depth+1)
	}
	for _, c := range right.Children(e.ID()) {
		if !left.Contains(c.ID()) {
			r.missing(c, depth+1, r.Left)
		}
	}
}

func (r *Result) missing(e *document.Entity, depth int, from string) {
	r.Differences = append(r.Differences, Difference{
		Kind: e.Kind(), ID: e.ID(), Depth: depth, Type: Missing, MissingFrom: from,
	})
}

// describe is the entity fingerprint plus its kind and parent, so a moved or
// retyped entity shows a line change.
func describe(e *document.Entity) []string {
	lines := []string{"kind " + e.Kind().String()}
	if p, ok := e.Parent(); ok {
		lines = append(lines, "parent <"+p.String()+">")
	}
	return append(lines, e.Fingerprint()...)
}

// lineDelta returns the lines only in a and only in b. Both inputs hold
// distinct lines.
func lineDelta(a, b []string) (removed, added []string) {
	for _, l := range a {
		if !slices.Contains(b, l) {
			removed = append(removed, l)
		}
	}
	for _, l := range b {
		if !slices.Contains(a, l) {
			added = append(added, l)
		}
	}
	return removed, added
}

// Canonical returns the document as sorted N-Triples lines.
func Canonical(doc *document.Document) ([]string, error) {
	var buf bytes.Buffer
	if err := ntriples.Encode(&buf, codec.Triples(doc)); err != nil {
		return nil, fmt.Errorf("encode canonical triples: %w", err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil, nil
	}
	slices.Sort(lines)
	return lines, nil
}

// Text returns a line diff of the canonical N-Triples of left and right:
// unchanged lines prefixed with two spaces, removed with "- " and added with
// "+ ". It is empty when the documents serialize identically.
func Text(left, right *document.Document) (string, error) {
	a, err := Canonical(left)
	if err != nil {
		return "", err
	}
	b, err := Canonical(right)
	if err != nil {
		return "", err
	}
	if slices.Equal(a, b) {
		return "", nil
	}

	dmp := diffmatchpatch.New()
	ca, cb, table := dmp.DiffLinesToChars(joinLines(a), joinLines(b))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), table)

	var sb strings.Builder
	for _, diff := range diffs {
		var prefix string
		switch diff.Type {
		case diffmatchpatch.DiffEqual:
			prefix = "  "
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		}
		for _, line := range strings.SplitAfter(diff.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(prefix + line)
		}
	}
	return sb.String(), nil
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
