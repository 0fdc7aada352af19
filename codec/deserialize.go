package codec

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/c360studio/sbolgraph/document"
	"github.com/c360studio/sbolgraph/identity"
	"github.com/c360studio/sbolgraph/rdf"
	"github.com/c360studio/sbolgraph/vocabulary/sbol2"
)

// subject buffers the triples of one subject in stream order.
type subject struct {
	uri     string
	triples []rdf.Triple
	kind    document.Kind
	typeIdx int
	id      identity.Identifier
	// consumed marks identity triples folded into id.
	consumed map[int]bool
}

// Deserialize reads every triple from src and builds a Document.
//
// Non-fatal irregularities come back as warnings. Unresolved references in
// required fields are fatal unless opts.AllowIncomplete is set: the
// returned error is then a *document.ValidationError and the document is
// still returned for inspection. Any other error aborts the read and
// returns a nil document.
func Deserialize(src rdf.Source, opts Options) (doc *document.Document, warnings []error, err error) {
	start := time.Now()
	defer func() { opts.Metrics.observe("deserialize", start, err) }()

	subjects, err := group(src, opts.Metrics)
	if err != nil {
		return nil, nil, err
	}

	warn := func(w error) {
		warnings = append(warnings, w)
		opts.Metrics.warning(warningType(w))
	}

	typed := make(map[string]*subject, len(subjects))
	for _, s := range subjects {
		if classify(s) {
			typed[s.id.Key()] = s
			continue
		}
		warn(&UntypedSubjectWarning{Subject: s.uri, Triples: len(s.triples)})
	}

	parents, skip, keep := owners(subjects, typed, warn)

	doc = document.New()
	for _, prefix := range opts.External {
		doc.DeclareExternal(prefix)
	}
	for _, s := range subjects {
		if s.kind == document.KindUnknown {
			continue
		}
		var copts []document.CreateOption
		if p, ok := parents[s.id.Key()]; ok {
			copts = append(copts, document.WithParent(p))
		}
		if _, err := doc.CreateEntity(s.kind, s.id, copts...); err != nil {
			return nil, warnings, fmt.Errorf("create %s: %w", s.uri, err)
		}
	}

	for _, s := range subjects {
		if s.kind == document.KindUnknown {
			continue
		}
		for i, t := range s.triples {
			key := tripleKey{s.id.Key(), i}
			if i == s.typeIdx || s.consumed[i] || skip[key] {
				continue
			}
			if keep[key] {
				if err := doc.AddAnnotation(s.id, t.Predicate, toValue(t.Object)); err != nil {
					return nil, warnings, err
				}
				continue
			}
			if err := apply(doc, s, t, warn); err != nil {
				return nil, warnings, err
			}
		}
	}

	var issues []document.Issue
	for _, u := range doc.ResolveAll() {
		if u.Required && !opts.AllowIncomplete {
			issues = append(issues, document.Issue{
				Rule:    "unresolved-reference",
				Subject: u.Subject,
				Message: u.Error(),
				Err:     u,
			})
			continue
		}
		warn(u)
	}

	opts.logger().Debug("Deserialized document",
		slog.Int("entities", doc.Len()),
		slog.Int("warnings", len(warnings)),
		slog.Int("fatal", len(issues)))

	if ve := document.NewValidationError(issues); ve != nil {
		return doc, warnings, ve
	}
	return doc, warnings, nil
}

// group drains src, bucketing triples by subject in first-sight order.
func group(src rdf.Source, m *Metrics) ([]*subject, error) {
	var order []*subject
	bySubject := make(map[string]*subject)
	for n := 0; ; n++ {
		t, err := src.Next()
		if errors.Is(err, io.EOF) {
			return order, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read triple %d: %w", n, err)
		}
		m.read()
		key := identity.Normalize(t.Subject)
		s, ok := bySubject[key]
		if !ok {
			s = &subject{uri: t.Subject, typeIdx: -1}
			bySubject[key] = s
			order = append(order, s)
		}
		s.triples = append(s.triples, t)
	}
}

// classify finds the subject's SBOL kind and folds its identity triples
// into a structured identifier when they agree with the URI.
func classify(s *subject) bool {
	var pid, display, version string
	pidIdx, displayIdx, versionIdx := -1, -1, -1
	for i, t := range s.triples {
		switch t.Predicate {
		case sbol2.RDFType.IRI():
			if s.kind != document.KindUnknown || !t.Object.IsIRI {
				continue
			}
			if term, ok := sbol2.ByIRI(t.Object.Value); ok {
				if k, ok := document.KindOf(term); ok {
					s.kind, s.typeIdx = k, i
				}
			}
		case sbol2.PersistentIdentity.IRI():
			if pidIdx < 0 {
				pid, pidIdx = t.Object.Value, i
			}
		case sbol2.DisplayID.IRI():
			if displayIdx < 0 && !t.Object.IsIRI {
				display, displayIdx = t.Object.Value, i
			}
		case sbol2.Version.IRI():
			if versionIdx < 0 && !t.Object.IsIRI {
				version, versionIdx = t.Object.Value, i
			}
		}
	}

	s.id = identity.FromParts(s.uri, pid, display, version)
	if s.id.IsCompliant() {
		s.consumed = map[int]bool{pidIdx: true, displayIdx: true}
		if versionIdx >= 0 {
			s.consumed[versionIdx] = true
		}
	}
	return s.kind != document.KindUnknown
}

type tripleKey struct {
	subject string
	index   int
}

// owners maps each child key to its parent identifier from containment
// triples. Honoured containment triples are returned in skip. Those that
// cannot be honoured are reported and returned in keep, to be stored as
// annotations.
func owners(subjects []*subject, typed map[string]*subject, warn func(error)) (parents map[string]identity.Identifier, skip, keep map[tripleKey]bool) {
	parents = make(map[string]identity.Identifier)
	skip = make(map[tripleKey]bool)
	keep = make(map[tripleKey]bool)
	for _, s := range subjects {
		if s.kind == document.KindUnknown {
			continue
		}
		schema := document.SchemaOf(s.kind)
		for i, t := range s.triples {
			term, ok := sbol2.ByIRI(t.Predicate)
			if !ok {
				continue
			}
			f, ok := schema.Field(term)
			if !ok || f.Class != document.ClassChild || !t.Object.IsIRI {
				continue
			}
			key := tripleKey{s.id.Key(), i}
			childKey := identity.Normalize(t.Object.Value)
			c, ok := typed[childKey]
			switch {
			case !ok:
				// Left for apply, which keeps it as an annotation.
				continue
			case !f.Accepts(c.kind):
				warn(&OwnershipWarning{Parent: s.uri, Child: t.Object.Value, Reason: fmt.Sprintf("%s is not a valid %s target", c.kind, f.Term)})
				keep[key] = true
			case parents[childKey].Key() != "":
				warn(&OwnershipWarning{Parent: s.uri, Child: t.Object.Value, Reason: "already owned by " + parents[childKey].String()})
				keep[key] = true
			case childKey == s.id.Key():
				warn(&OwnershipWarning{Parent: s.uri, Child: t.Object.Value, Reason: "self ownership"})
				keep[key] = true
			default:
				parents[childKey] = s.id
				skip[key] = true
			}
		}
	}
	return parents, skip, keep
}

// apply stores one non-type triple on the subject's entity.
func apply(doc *document.Document, s *subject, t rdf.Triple, warn func(error)) error {
	annotate := func() error {
		return doc.AddAnnotation(s.id, t.Predicate, toValue(t.Object))
	}

	term, ok := sbol2.ByIRI(t.Predicate)
	if !ok {
		warn(&UnrecognizedPredicateWarning{Subject: s.uri, Predicate: t.Predicate, Kind: s.kind})
		return annotate()
	}
	if term == sbol2.RDFType {
		return annotate()
	}
	f, ok := document.SchemaOf(s.kind).Field(term)
	if !ok {
		warn(&UnrecognizedPredicateWarning{Subject: s.uri, Predicate: t.Predicate, Kind: s.kind})
		return annotate()
	}

	var err error
	switch f.Class {
	case document.ClassLiteral, document.ClassURI:
		err = doc.AddProperty(s.id, f.Term, toValue(t.Object))
	case document.ClassReference:
		if !t.Object.IsIRI {
			warn(&InvalidValueWarning{Subject: s.uri, Predicate: t.Predicate, Object: t.Object, Err: errors.New("reference object must be an IRI")})
			return annotate()
		}
		err = doc.AddReference(s.id, f.Term, identity.Parse(t.Object.Value))
	case document.ClassChild:
		warn(&InvalidValueWarning{Subject: s.uri, Predicate: t.Predicate, Object: t.Object, Err: errors.New("child is not a typed SBOL entity")})
		return annotate()
	}

	if errors.Is(err, document.ErrSingleValued) {
		warn(&InvalidValueWarning{Subject: s.uri, Predicate: t.Predicate, Object: t.Object, Err: err})
		return nil
	}
	return err
}
