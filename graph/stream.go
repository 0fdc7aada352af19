package graph

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go/jetstream"
)

// DefaultStream is the stream created when no stream captures the ingest
// subject.
const DefaultStream = "GRAPH"

// EnsureStream returns the name of the stream bound to subject, creating
// DefaultStream over the subject's parent wildcard when none is.
func EnsureStream(ctx context.Context, js jetstream.JetStream, subject string) (string, error) {
	name, err := js.StreamNameBySubject(ctx, subject)
	if err == nil {
		return name, nil
	}
	if !errors.Is(err, jetstream.ErrStreamNotFound) {
		return "", fmt.Errorf("look up stream for %s: %w", subject, err)
	}

	_, err = js.CreateStream(ctx, jetstream.StreamConfig{
		Name:        DefaultStream,
		Description: "SBOL knowledge graph ingestion",
		Subjects:    []string{wildcard(subject)},
		Storage:     jetstream.FileStorage,
	})
	if err != nil {
		return "", fmt.Errorf("create stream %s: %w", DefaultStream, err)
	}
	return DefaultStream, nil
}

// wildcard widens a.b.c to a.b.>.
func wildcard(subject string) string {
	i := strings.LastIndexByte(subject, '.')
	if i < 0 {
		return subject
	}
	return subject[:i] + ".>"
}
