// Package validation checks SBOL documents at two gates: after
// deserialization (references, target types, cross-entity rules) and before
// serialization (required fields, versions, URI structure).
//
// Validation never mutates a document. It classifies what it finds into a
// Report; error findings are also aggregated into a
// *document.ValidationError.
package validation

import (
	"log/slog"

	"github.com/c360studio/sbolgraph/document"
)

// Options selects which rule families run.
type Options struct {
	// Complete treats unresolved references as errors. When false they are
	// warnings.
	Complete bool `json:"complete" yaml:"complete"`

	// Compliant enforces compliant URIs: every identifier built from display
	// IDs and every child URI nested under its parent.
	Compliant bool `json:"compliant" yaml:"compliant"`

	// BestPractice enables recommended-practice checks as warnings.
	BestPractice bool `json:"best_practice" yaml:"best_practice"`

	// FailFast stops a gate at the first rule reporting an error.
	FailFast bool `json:"fail_fast" yaml:"fail_fast"`
}

// DefaultOptions returns the strict default: complete and compliant.
func DefaultOptions() Options {
	return Options{Complete: true, Compliant: true}
}

// Rule is one named check.
type Rule struct {
	ID          string
	Gate        Gate
	Description string
	// Enabled decides whether the rule runs under the given options. Nil
	// means always.
	Enabled func(Options) bool
	Check   func(c *Checker)
}

// Validator runs rules against documents.
type Validator struct {
	opts    Options
	rules   []Rule
	logger  *slog.Logger
	metrics *Metrics
}

// Option configures a Validator.
type Option func(*Validator)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(v *Validator) { v.logger = l }
}

// WithMetrics attaches metrics.
func WithMetrics(m *Metrics) Option {
	return func(v *Validator) { v.metrics = m }
}

// WithRules replaces the default rule table.
func WithRules(rules ...Rule) Option {
	return func(v *Validator) { v.rules = rules }
}

// NewValidator creates a validator with the default rule table.
func NewValidator(opts Options, options ...Option) *Validator {
	v := &Validator{
		opts:   opts,
		rules:  DefaultRules(),
		logger: slog.Default(),
	}
	for _, o := range options {
		o(v)
	}
	return v
}

// Options returns the validator options.
func (v *Validator) Options() Options { return v.opts }

// Rules returns the rules that run at gate under the current options.
func (v *Validator) Rules(gate Gate) []Rule {
	var out []Rule
	for _, r := range v.rules {
		if r.Gate != gate {
			continue
		}
		if r.Enabled != nil && !r.Enabled(v.opts) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Check runs every enabled rule of gate against doc. The returned error is
// a *document.ValidationError when the report has error findings.
func (v *Validator) Check(doc *document.Document, gate Gate) (*Report, error) {
	report := &Report{Gate: gate, Valid: true}

	for _, r := range v.Rules(gate) {
		c := &Checker{doc: doc, opts: v.opts, rule: r.ID}
		r.Check(c)
		report.Findings = append(report.Findings, c.findings...)
		if c.failed {
			report.Valid = false
			if v.opts.FailFast {
				break
			}
		}
	}

	v.metrics.record(report)
	v.logger.Debug("Validated document",
		slog.String("gate", string(gate)),
		slog.Int("entities", doc.Len()),
		slog.Int("errors", len(report.Errors())),
		slog.Int("warnings", len(report.Warnings())))

	return report, report.Err()
}

// CheckAll runs the post-deserialize gate and then the pre-serialize gate,
// merging both into one report.
func (v *Validator) CheckAll(doc *document.Document) (*Report, error) {
	report, _ := v.Check(doc, GatePostDeserialize)
	if !report.Valid && v.opts.FailFast {
		return report, report.Err()
	}
	pre, _ := v.Check(doc, GatePreSerialize)
	report.Merge(pre)
	return report, report.Err()
}

// Validate is a convenience wrapper running both gates with opts.
func Validate(doc *document.Document, opts Options) (*Report, error) {
	return NewValidator(opts).CheckAll(doc)
}

// Checker collects the findings of one rule run.
type Checker struct {
	doc      *document.Document
	opts     Options
	rule     string
	findings []Finding
	failed   bool
}

// Doc returns the document under check.
func (c *Checker) Doc() *document.Document { return c.doc }

// Options returns the active options.
func (c *Checker) Options() Options { return c.opts }

// Report records a finding. An empty rule defaults to the running rule.
func (c *Checker) Report(rule string, sev Severity, e *document.Entity, msg string, err error) {
	if rule == "" {
		rule = c.rule
	}
	f := Finding{Rule: rule, Severity: sev, Message: msg, Err: err}
	if e != nil {
		f.Subject = e.ID()
	}
	c.findings = append(c.findings, f)
	if sev == SeverityError {
		c.failed = true
	}
}

// Fail records an error finding against e.
func (c *Checker) Fail(e *document.Entity, msg string) {
	c.Report("", SeverityError, e, msg, nil)
}

// Warn records a warning finding against e.
func (c *Checker) Warn(e *document.Entity, msg string) {
	c.Report("", SeverityWarning, e, msg, nil)
}
