// Package graph publishes SBOL entities to the semstreams knowledge graph.
package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/c360studio/semstreams/message"
	"github.com/google/uuid"

	"github.com/c360studio/sbolgraph/document"
	"github.com/c360studio/sbolgraph/export"
	"github.com/c360studio/sbolgraph/vocabulary/sbol2"
)

// GraphIngestSubject is the default subject for graph ingestion.
const GraphIngestSubject = "graph.ingest.entity"

// DefaultSource is the triple source recorded when none is configured.
const DefaultSource = "sbolgraph.publish"

// PredicateURI links a graph entity back to its SBOL identifier.
const PredicateURI = "sbol.identified.uri"

// Publisher sends data to a JetStream subject. *natsclient.Client
// satisfies it.
type Publisher interface {
	PublishToStream(ctx context.Context, subject string, data []byte) error
}

// Options configures publishing.
type Options struct {
	// Subject overrides GraphIngestSubject.
	Subject string

	// Source is recorded on every triple. Defaults to DefaultSource.
	Source string

	// Profile adds ontology type triples. Defaults to export.ProfileSBOL.
	Profile export.Profile

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Now overrides the clock.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Subject == "" {
		o.Subject = GraphIngestSubject
	}
	if o.Source == "" {
		o.Source = DefaultSource
	}
	if o.Profile == "" {
		o.Profile = export.ProfileSBOL
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// EntityID generates a consistent graph entity ID for an SBOL identifier.
// Format: sbolgraph.local.sbol.design.entity.<uuid-v5 of the URI>
func EntityID(uri string) string {
	return "sbolgraph.local.sbol.design.entity." + uuid.NewSHA1(uuid.NameSpaceURL, []byte(uri)).String()
}

// Payloads converts every entity of doc to an ingest payload, in document
// order. References become relationships to the target's graph entity ID,
// whether or not the target is in doc.
func Payloads(doc *document.Document, opts Options) []*EntityPayload {
	opts = opts.withDefaults()
	now := opts.Now()
	out := make([]*EntityPayload, 0, doc.Len())
	for _, e := range doc.Entities() {
		out = append(out, &EntityPayload{
			EntityID_:  EntityID(e.ID().String()),
			URI:        e.ID().String(),
			TripleData: EntityTriples(doc, e, opts.Source, opts.Profile, now),
			UpdatedAt:  now,
		})
	}
	return out
}

// EntityTriples returns the graph triples describing e.
func EntityTriples(doc *document.Document, e *document.Entity, source string, profile export.Profile, now time.Time) []message.Triple {
	subject := EntityID(e.ID().String())
	triple := func(predicate string, object any) message.Triple {
		return message.Triple{
			Subject:    subject,
			Predicate:  predicate,
			Object:     object,
			Source:     source,
			Timestamp:  now,
			Confidence: 1.0,
		}
	}

	id := e.ID()
	triples := []message.Triple{
		triple(sbol2.PredicateType, e.Kind().Type().IRI()),
		triple(PredicateURI, id.String()),
	}
	if id.IsCompliant() {
		triples = append(triples,
			triple(sbol2.PredicateDisplayID, id.DisplayID()),
			triple(sbol2.PredicatePersistentIdentity, EntityID(id.PersistentIdentity())))
		if v := id.Version(); v != "" {
			triples = append(triples, triple(sbol2.PredicateVersion, v))
		}
	}

	for _, p := range e.Properties() {
		if name := sbol2.PredicateName(p.Term); name != "" && !implied(p.Term, id.IsCompliant()) {
			triples = append(triples, triple(name, p.Value.Text))
		}
	}
	for _, r := range e.References() {
		if name := sbol2.PredicateName(r.Term); name != "" {
			triples = append(triples, triple(name, EntityID(r.Target.String())))
		}
	}
	for _, c := range doc.Children(id) {
		if f, ok := e.Schema().ContainmentField(c.Kind()); ok {
			triples = append(triples, triple(sbol2.PredicateName(f.Term), EntityID(c.ID().String())))
		}
	}
	for _, a := range e.Annotations() {
		triples = append(triples, triple(a.Predicate, a.Value.Text))
	}

	for _, t := range export.TypeTriples(subject, e.Kind(), profile) {
		t.Source = source
		t.Timestamp = now
		triples = append(triples, t)
	}
	return triples
}

// implied reports whether term is an identity value already published from
// a compliant identifier.
func implied(term sbol2.Term, compliant bool) bool {
	if !compliant {
		return false
	}
	return term == sbol2.DisplayID || term == sbol2.PersistentIdentity || term == sbol2.Version
}

// PublishDocument publishes every entity of doc to the knowledge graph and
// returns the number of entities sent. A nil publisher skips publishing.
func PublishDocument(ctx context.Context, pub Publisher, doc *document.Document, opts Options) (int, error) {
	if pub == nil {
		return 0, nil // Skip publishing if no NATS client (graceful degradation)
	}
	opts = opts.withDefaults()

	sent := 0
	for _, p := range Payloads(doc, opts) {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		if err := p.Validate(); err != nil {
			return sent, fmt.Errorf("entity %s: %w", p.URI, err)
		}
		msg := message.NewBaseMessage(EntityType, p, opts.Source)
		data, err := json.Marshal(msg)
		if err != nil {
			return sent, fmt.Errorf("marshal entity %s: %w", p.URI, err)
		}
		if err := pub.PublishToStream(ctx, opts.Subject, data); err != nil {
			return sent, fmt.Errorf("publish entity %s: %w", p.URI, err)
		}
		sent++
	}
	opts.Logger.Debug("Published document to graph",
		slog.String("subject", opts.Subject),
		slog.Int("entities", sent))
	return sent, nil
}
