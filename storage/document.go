// Package storage persists SBOL documents in a NATS JetStream KV bucket.
// Documents are stored as canonical N-Triples together with a content
// identifier, so identical designs stored twice share a CID.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ipfs/go-cid"
	"github.com/nats-io/nats.go/jetstream"
	gocache "github.com/patrickmn/go-cache"

	"github.com/c360studio/sbolgraph/codec"
	"github.com/c360studio/sbolgraph/document"
	"github.com/c360studio/sbolgraph/rdf"
	"github.com/c360studio/sbolgraph/rdf/ntriples"
)

// BucketDocuments is the default KV bucket name.
const BucketDocuments = "SBOL_DOCUMENTS"

// Decoded documents are cached by CID.
const (
	DefaultCacheExpiration = 10 * time.Minute
	DefaultCleanupInterval = 30 * time.Minute
)

// contentPrefix builds CIDv1 raw-codec identifiers over a sha2-256 digest.
var contentPrefix = cid.Prefix{
	Version:  1,
	Codec:    cid.Raw,
	MhType:   0x12, // sha2-256
	MhLength: -1,
}

// DocumentKey identifies a stored document.
type DocumentKey string

// NewDocumentKey generates a new unique document key.
func NewDocumentKey() DocumentKey {
	return DocumentKey(uuid.New().String())
}

// ParseDocumentKey validates s as a document key.
func ParseDocumentKey(s string) (DocumentKey, error) {
	if _, err := uuid.Parse(s); err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidKey, s)
	}
	return DocumentKey(s), nil
}

// Record is a stored document with its metadata.
type Record struct {
	Key       DocumentKey `json:"key"`
	Name      string      `json:"name"`
	CID       string      `json:"cid"`
	Entities  int         `json:"entities"`
	TopLevels int         `json:"top_levels"`
	Triples   int         `json:"triples"`
	NTriples  string      `json:"ntriples"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Store provides document storage operations backed by NATS KV.
type Store struct {
	kv     jetstream.KeyValue
	cache  *gocache.Cache
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// NewStore opens the named bucket, creating it if it doesn't exist. An empty
// bucket name selects BucketDocuments.
func NewStore(ctx context.Context, js jetstream.JetStream, bucket string, opts ...Option) (*Store, error) {
	if bucket == "" {
		bucket = BucketDocuments
	}
	kv, err := getOrCreateBucket(ctx, js, bucket)
	if err != nil {
		return nil, fmt.Errorf("create documents bucket: %w", err)
	}
	return newStore(kv, opts...), nil
}

func newStore(kv jetstream.KeyValue, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		cache:  gocache.New(DefaultCacheExpiration, DefaultCleanupInterval),
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func getOrCreateBucket(ctx context.Context, js jetstream.JetStream, name string) (jetstream.KeyValue, error) {
	kv, err := js.KeyValue(ctx, name)
	if err == nil {
		return kv, nil
	}
	return js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      name,
		Description: "SBOL document storage",
		History:     5,
	})
}

// Put stores doc under a new key and returns its record.
func (s *Store) Put(ctx context.Context, name string, doc *document.Document) (*Record, error) {
	r, err := s.record(doc)
	if err != nil {
		return nil, err
	}
	r.Key = NewDocumentKey()
	r.Name = name
	r.CreatedAt = s.now()
	r.UpdatedAt = r.CreatedAt

	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	if _, err := s.kv.Create(ctx, string(r.Key), data); err != nil {
		return nil, fmt.Errorf("store document: %w", err)
	}
	s.cache.Set(r.CID, doc.Clone(), gocache.DefaultExpiration)
	s.logger.Debug("Stored document",
		slog.String("key", string(r.Key)),
		slog.String("cid", r.CID),
		slog.Int("triples", r.Triples))
	return r, nil
}

// Update replaces the document stored under key. The record keeps its name
// and creation time.
func (s *Store) Update(ctx context.Context, key DocumentKey, doc *document.Document) (*Record, error) {
	old, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	r, err := s.record(doc)
	if err != nil {
		return nil, err
	}
	r.Key = key
	r.Name = old.Name
	r.CreatedAt = old.CreatedAt
	r.UpdatedAt = s.now()

	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	if _, err := s.kv.Put(ctx, string(key), data); err != nil {
		return nil, fmt.Errorf("update document: %w", err)
	}
	s.cache.Set(r.CID, doc.Clone(), gocache.DefaultExpiration)
	return r, nil
}

// Get retrieves the record stored under key.
func (s *Store) Get(ctx context.Context, key DocumentKey) (*Record, error) {
	entry, err := s.kv.Get(ctx, string(key))
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	var r Record
	if err := json.Unmarshal(entry.Value(), &r); err != nil {
		return nil, fmt.Errorf("unmarshal record: %w", err)
	}
	return &r, nil
}

// Load retrieves and decodes the document stored under key. The caller owns
// the returned document.
func (s *Store) Load(ctx context.Context, key DocumentKey) (*document.Document, error) {
	r, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return s.Decode(r)
}

// Decode returns the document held by r, from cache when its CID was seen.
func (s *Store) Decode(r *Record) (*document.Document, error) {
	if v, ok := s.cache.Get(r.CID); ok {
		if doc, ok := v.(*document.Document); ok {
			s.logger.Debug("Document cache hit", slog.String("cid", r.CID))
			return doc.Clone(), nil
		}
	}
	doc, warnings, err := codec.Deserialize(ntriples.NewReader(strings.NewReader(r.NTriples)), codec.Options{
		AllowIncomplete: true,
		Logger:          s.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("decode document %s: %w", r.Key, err)
	}
	for _, w := range warnings {
		s.logger.Warn("Stored document warning", slog.String("key", string(r.Key)), slog.Any("warning", w))
	}
	s.cache.Set(r.CID, doc.Clone(), gocache.DefaultExpiration)
	return doc, nil
}

// List returns all records ordered by name, then key.
func (s *Store) List(ctx context.Context) ([]*Record, error) {
	keys, err := s.kv.Keys(ctx)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("list document keys: %w", err)
	}

	records := make([]*Record, 0, len(keys))
	for _, key := range keys {
		r, err := s.Get(ctx, DocumentKey(key))
		if err != nil {
			s.logger.Warn("Skipping unreadable document", slog.String("key", key), slog.Any("error", err))
			continue
		}
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Name != records[j].Name {
			return records[i].Name < records[j].Name
		}
		return records[i].Key < records[j].Key
	})
	return records, nil
}

// FindByCID returns the records whose content identifier is c.
func (s *Store) FindByCID(ctx context.Context, c string) ([]*Record, error) {
	if _, err := cid.Decode(c); err != nil {
		return nil, fmt.Errorf("parse cid: %w", err)
	}
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []*Record
	for _, r := range all {
		if r.CID == c {
			out = append(out, r)
		}
	}
	return out, nil
}

// Delete removes the document stored under key.
func (s *Store) Delete(ctx context.Context, key DocumentKey) error {
	if _, err := s.Get(ctx, key); err != nil {
		return err
	}
	if err := s.kv.Delete(ctx, string(key)); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// ContentID returns the CID of doc's canonical N-Triples. Documents that are
// Equal share a CID whatever their insertion order.
func ContentID(doc *document.Document) (string, error) {
	data, _, err := canonical(doc)
	if err != nil {
		return "", err
	}
	return contentID(data)
}

// contentID hashes the sorted lines of N-Triples data.
func contentID(data []byte) (string, error) {
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	sort.Strings(lines)
	c, err := contentPrefix.Sum([]byte(strings.Join(lines, "\n")))
	if err != nil {
		return "", fmt.Errorf("hash document: %w", err)
	}
	return c.String(), nil
}

func (s *Store) record(doc *document.Document) (*Record, error) {
	data, n, err := canonical(doc)
	if err != nil {
		return nil, err
	}
	c, err := contentID(data)
	if err != nil {
		return nil, err
	}
	return &Record{
		CID:       c,
		Entities:  doc.Len(),
		TopLevels: len(doc.TopLevels()),
		Triples:   n,
		NTriples:  string(data),
	}, nil
}

// canonical serializes doc as N-Triples and counts the triples written.
func canonical(doc *document.Document) ([]byte, int, error) {
	var buf bytes.Buffer
	w := ntriples.NewWriter(&buf)
	n := 0
	sink := rdf.SinkFunc(func(t rdf.Triple) error {
		n++
		return w.WriteTriple(t)
	})
	if err := codec.Serialize(doc, sink, codec.Options{}); err != nil {
		return nil, 0, fmt.Errorf("serialize document: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, 0, fmt.Errorf("flush document: %w", err)
	}
	return buf.Bytes(), n, nil
}

// isNotFound checks if an error indicates a key was not found.
func isNotFound(err error) bool {
	return errors.Is(err, jetstream.ErrKeyNotFound) || (err != nil && strings.Contains(err.Error(), "key not found"))
}
