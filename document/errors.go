package document

import (
	"errors"
	"fmt"
	"strings"

	"github.com/c360studio/sbolgraph/identity"
	"github.com/c360studio/sbolgraph/vocabulary/sbol2"
)

// Sentinel errors for schema violations.
var (
	// ErrFieldNotAllowed is returned when a predicate is not a field of the
	// entity's kind, or is used with the wrong value class.
	ErrFieldNotAllowed = errors.New("field not allowed for kind")

	// ErrSingleValued is returned when a second value is added to a
	// single-valued field.
	ErrSingleValued = errors.New("field is single-valued")

	// ErrUnknownKind is returned for KindUnknown or out-of-range kinds.
	ErrUnknownKind = errors.New("unknown entity kind")

	// ErrZeroIdentifier is returned when an operation gets the empty
	// identifier.
	ErrZeroIdentifier = errors.New("identifier is empty")
)

// DuplicateIdentifierError is returned by CreateEntity when the identifier
// is already taken.
type DuplicateIdentifierError struct {
	ID       identity.Identifier
	Existing Kind
}

func (e *DuplicateIdentifierError) Error() string {
	return fmt.Sprintf("duplicate identifier %s (already a %s)", e.ID, e.Existing)
}

// NotFoundError is returned when an identifier has no entity.
type NotFoundError struct {
	ID identity.Identifier
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("entity %s not found", e.ID)
}

// UnresolvedReferenceError reports a reference whose target is not in the
// document. Required is set when the field is required by the subject's
// kind.
type UnresolvedReferenceError struct {
	Subject   identity.Identifier
	Predicate sbol2.Term
	Target    identity.Identifier
	Required  bool
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("%s %s references missing %s", e.Subject, e.Predicate, e.Target)
}

// Issue is one fatal finding collected into a ValidationError.
type Issue struct {
	Rule    string
	Subject identity.Identifier
	Message string
	Err     error
}

func (i Issue) String() string {
	var b strings.Builder
	if i.Rule != "" {
		b.WriteString("[" + i.Rule + "] ")
	}
	if !i.Subject.IsZero() {
		b.WriteString(i.Subject.String() + ": ")
	}
	b.WriteString(i.Message)
	return b.String()
}

// ValidationError aggregates every fatal finding of one operation.
type ValidationError struct {
	Issues []Issue
}

// NewValidationError returns nil when issues is empty.
func NewValidationError(issues []Issue) *ValidationError {
	if len(issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: issues}
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 1 {
		return "validation failed: " + e.Issues[0].String()
	}
	parts := make([]string, len(e.Issues))
	for i, is := range e.Issues {
		parts[i] = is.String()
	}
	return fmt.Sprintf("validation failed with %d issues: %s", len(e.Issues), strings.Join(parts, "; "))
}

// Unwrap exposes the underlying typed errors to errors.Is and errors.As.
func (e *ValidationError) Unwrap() []error {
	var errs []error
	for _, is := range e.Issues {
		if is.Err != nil {
			errs = append(errs, is.Err)
		}
	}
	return errs
}
