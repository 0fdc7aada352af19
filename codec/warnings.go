package codec

import (
	"fmt"

	"github.com/c360studio/sbolgraph/document"
	"github.com/c360studio/sbolgraph/rdf"
)

// UnrecognizedPredicateWarning reports a predicate the subject's kind does
// not define. The entity is still created and the triple is kept as an
// annotation.
type UnrecognizedPredicateWarning struct {
	Subject   string
	Predicate string
	Kind      document.Kind
}

func (w *UnrecognizedPredicateWarning) Error() string {
	return fmt.Sprintf("unrecognized predicate %s on %s %s", w.Predicate, w.Kind, w.Subject)
}

// UntypedSubjectWarning reports a subject without an SBOL rdf:type. Its
// triples are skipped.
type UntypedSubjectWarning struct {
	Subject string
	Triples int
}

func (w *UntypedSubjectWarning) Error() string {
	return fmt.Sprintf("subject %s has no SBOL type; %d triples skipped", w.Subject, w.Triples)
}

// InvalidValueWarning reports a known predicate whose object cannot be
// stored, such as a literal in a reference field or a second value in a
// single-valued field.
type InvalidValueWarning struct {
	Subject   string
	Predicate string
	Object    rdf.Object
	Err       error
}

func (w *InvalidValueWarning) Error() string {
	return fmt.Sprintf("invalid value %s for %s on %s: %v", w.Object, w.Predicate, w.Subject, w.Err)
}

func (w *InvalidValueWarning) Unwrap() error { return w.Err }

// OwnershipWarning reports a containment triple that could not be applied:
// a second owner, or a child of a kind the parent cannot own.
type OwnershipWarning struct {
	Parent string
	Child  string
	Reason string
}

func (w *OwnershipWarning) Error() string {
	return fmt.Sprintf("%s cannot own %s: %s", w.Parent, w.Child, w.Reason)
}

func warningType(w error) string {
	switch w.(type) {
	case *UnrecognizedPredicateWarning:
		return "unrecognized_predicate"
	case *UntypedSubjectWarning:
		return "untyped_subject"
	case *InvalidValueWarning:
		return "invalid_value"
	case *OwnershipWarning:
		return "ownership"
	case *document.UnresolvedReferenceError:
		return "unresolved_reference"
	}
	return "other"
}
