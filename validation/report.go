package validation

import (
	"fmt"
	"strings"

	"github.com/c360studio/sbolgraph/document"
	"github.com/c360studio/sbolgraph/identity"
)

// Gate names the point in the pipeline a check runs at.
type Gate string

const (
	// GatePostDeserialize runs after a document is loaded: reference
	// resolution, target types and cross-entity rules.
	GatePostDeserialize Gate = "post-deserialize"

	// GatePreSerialize runs before a document is written: required fields,
	// version grammar and URI structure.
	GatePreSerialize Gate = "pre-serialize"
)

// Severity classifies a finding.
type Severity string

const (
	// SeverityError findings make the report invalid.
	SeverityError Severity = "error"

	// SeverityWarning findings are reported but do not fail the gate.
	SeverityWarning Severity = "warning"
)

// Finding is one rule violation.
type Finding struct {
	Rule     string              `json:"rule"`
	Subject  identity.Identifier `json:"-"`
	Message  string              `json:"message"`
	Severity Severity            `json:"severity"`
	Err      error               `json:"-"`
}

// String renders the finding on one line.
func (f Finding) String() string {
	s := fmt.Sprintf("%s [%s] %s", f.Severity, f.Rule, f.Message)
	if !f.Subject.IsZero() {
		s = fmt.Sprintf("%s [%s] %s: %s", f.Severity, f.Rule, f.Subject, f.Message)
	}
	return s
}

// Report contains the result of running one gate.
type Report struct {
	Gate     Gate      `json:"gate"`
	Valid    bool      `json:"valid"`
	Findings []Finding `json:"findings,omitempty"`
}

// Errors returns the error-severity findings.
func (r *Report) Errors() []Finding { return r.filter(SeverityError) }

// Warnings returns the warning-severity findings.
func (r *Report) Warnings() []Finding { return r.filter(SeverityWarning) }

func (r *Report) filter(s Severity) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Severity == s {
			out = append(out, f)
		}
	}
	return out
}

// HasRule reports whether any finding carries rule.
func (r *Report) HasRule(rule string) bool {
	for _, f := range r.Findings {
		if f.Rule == rule {
			return true
		}
	}
	return false
}

// Err aggregates the error findings into a *document.ValidationError, or
// returns nil.
func (r *Report) Err() error {
	errs := r.Errors()
	if len(errs) == 0 {
		return nil
	}
	issues := make([]document.Issue, len(errs))
	for i, f := range errs {
		issues[i] = document.Issue{Rule: f.Rule, Subject: f.Subject, Message: f.Message, Err: f.Err}
	}
	return document.NewValidationError(issues)
}

// Merge appends the findings of other, keeping r's gate.
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}
	r.Findings = append(r.Findings, other.Findings...)
	r.Valid = r.Valid && other.Valid
}

// Format renders the report as a human-readable summary.
func (r *Report) Format() string {
	var sb strings.Builder
	if r.Valid {
		sb.WriteString(fmt.Sprintf("Validation passed (%s)", r.Gate))
		if n := len(r.Warnings()); n > 0 {
			sb.WriteString(fmt.Sprintf(" with %d warnings", n))
		}
		sb.WriteString("\n")
	} else {
		sb.WriteString(fmt.Sprintf("Validation failed (%s): %d errors\n", r.Gate, len(r.Errors())))
	}
	for _, f := range r.Findings {
		sb.WriteString(fmt.Sprintf("- %s\n", f))
	}
	return sb.String()
}
