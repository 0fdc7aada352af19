package storage

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/sbolgraph/document"
	"github.com/c360studio/sbolgraph/document/doctest"
	"github.com/c360studio/sbolgraph/vocabulary/sbol2"
)

// memKV is an in-memory jetstream.KeyValue covering the calls Store makes.
type memKV struct {
	jetstream.KeyValue

	mu   sync.Mutex
	data map[string][]byte
}

func newMemKV() *memKV {
	return &memKV{data: make(map[string][]byte)}
}

func (m *memKV) Create(_ context.Context, key string, value []byte, _ ...jetstream.KVCreateOpt) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; ok {
		return 0, jetstream.ErrKeyExists
	}
	m.data[key] = value
	return uint64(len(m.data)), nil
}

func (m *memKV) Put(_ context.Context, key string, value []byte) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return uint64(len(m.data)), nil
}

func (m *memKV) Get(_ context.Context, key string) (jetstream.KeyValueEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, jetstream.ErrKeyNotFound
	}
	return &memEntry{key: key, value: v}, nil
}

func (m *memKV) Keys(_ context.Context, _ ...jetstream.WatchOpt) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.data) == 0 {
		return nil, jetstream.ErrNoKeysFound
	}
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *memKV) Delete(_ context.Context, key string, _ ...jetstream.KVDeleteOpt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

type memEntry struct {
	jetstream.KeyValueEntry
	key   string
	value []byte
}

func (e *memEntry) Key() string   { return e.key }
func (e *memEntry) Value() []byte { return e.value }

func testStore(t *testing.T) (*Store, *memKV) {
	t.Helper()
	kv := newMemKV()
	s := newStore(kv)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }
	return s, kv
}

func TestDocumentKey(t *testing.T) {
	key := NewDocumentKey()
	parsed, err := ParseDocumentKey(string(key))
	require.NoError(t, err)
	assert.Equal(t, key, parsed)

	for _, bad := range []string{"", "toggle", "doc:abc123"} {
		_, err := ParseDocumentKey(bad)
		assert.ErrorIs(t, err, ErrInvalidKey, "input %q", bad)
	}
}

func TestPutAndLoad(t *testing.T) {
	ctx := context.Background()
	s, _ := testStore(t)
	doc := doctest.ToggleSwitch()

	r, err := s.Put(ctx, "toggle.xml", doc)
	require.NoError(t, err)
	assert.Equal(t, "toggle.xml", r.Name)
	assert.Equal(t, doc.Len(), r.Entities)
	assert.Equal(t, len(doc.TopLevels()), r.TopLevels)
	assert.Positive(t, r.Triples)
	assert.NotEmpty(t, r.NTriples)

	want, err := ContentID(doc)
	require.NoError(t, err)
	assert.Equal(t, want, r.CID)

	got, err := s.Load(ctx, r.Key)
	require.NoError(t, err)
	assert.True(t, doc.Equal(got))
}

func TestLoadDecodesWithoutCache(t *testing.T) {
	ctx := context.Background()
	s, _ := testStore(t)
	doc := doctest.ToggleSwitch()
	r, err := s.Put(ctx, "toggle", doc)
	require.NoError(t, err)

	s.cache.Flush()
	got, err := s.Load(ctx, r.Key)
	require.NoError(t, err)
	assert.True(t, doc.Equal(got))

	_, cached := s.cache.Get(r.CID)
	assert.True(t, cached)
}

func TestLoadReturnsIndependentCopies(t *testing.T) {
	ctx := context.Background()
	s, _ := testStore(t)
	r, err := s.Put(ctx, "toggle", doctest.ToggleSwitch())
	require.NoError(t, err)

	first, err := s.Load(ctx, r.Key)
	require.NoError(t, err)
	require.NoError(t, first.RemoveEntity(doctest.ID("toggle")))

	second, err := s.Load(ctx, r.Key)
	require.NoError(t, err)
	assert.True(t, second.Contains(doctest.ID("toggle")))
}

func TestContentIDIsStable(t *testing.T) {
	a, err := ContentID(doctest.ToggleSwitch())
	require.NoError(t, err)
	b, err := ContentID(doctest.ToggleSwitch())
	require.NoError(t, err)
	assert.Equal(t, a, b)

	changed := doctest.ToggleSwitch()
	require.NoError(t, changed.SetProperty(doctest.ID("toggle"), sbol2.Title, document.Literal("Toggle")))
	c, err := ContentID(changed)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestContentIDIgnoresInsertionOrder(t *testing.T) {
	build := func(names ...string) *document.Document {
		doc := document.New()
		for _, name := range names {
			id := doctest.ID(name)
			_, err := doc.CreateEntity(document.KindSequence, id)
			require.NoError(t, err)
			require.NoError(t, doc.AddProperty(id, sbol2.HasElements, document.Literal("acgt")))
			require.NoError(t, doc.AddProperty(id, sbol2.HasEncoding, document.IRIValue(sbol2.EncodingIUPACDNA)))
		}
		return doc
	}
	a, b := build("seq_a", "seq_b"), build("seq_b", "seq_a")
	require.True(t, a.Equal(b))

	cidA, err := ContentID(a)
	require.NoError(t, err)
	cidB, err := ContentID(b)
	require.NoError(t, err)
	assert.Equal(t, cidA, cidB)
}

func TestGetNotFound(t *testing.T) {
	s, _ := testStore(t)
	_, err := s.Get(context.Background(), NewDocumentKey())
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.Delete(context.Background(), NewDocumentKey())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	s, _ := testStore(t)
	r, err := s.Put(ctx, "toggle", doctest.ToggleSwitch())
	require.NoError(t, err)

	later := r.CreatedAt.Add(time.Hour)
	s.now = func() time.Time { return later }

	changed := doctest.ToggleSwitch()
	require.NoError(t, changed.RemoveEntity(doctest.ID("TetR_seq")))
	updated, err := s.Update(ctx, r.Key, changed)
	require.NoError(t, err)
	assert.Equal(t, r.Key, updated.Key)
	assert.Equal(t, "toggle", updated.Name)
	assert.Equal(t, r.CreatedAt, updated.CreatedAt)
	assert.Equal(t, later, updated.UpdatedAt)
	assert.NotEqual(t, r.CID, updated.CID)
	assert.Equal(t, r.Entities-1, updated.Entities)

	got, err := s.Load(ctx, r.Key)
	require.NoError(t, err)
	assert.False(t, got.Contains(doctest.ID("TetR_seq")))

	_, err = s.Update(ctx, NewDocumentKey(), changed)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListAndFind(t *testing.T) {
	ctx := context.Background()
	s, _ := testStore(t)

	records, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	b, err := s.Put(ctx, "b", doctest.ToggleSwitch())
	require.NoError(t, err)
	a, err := s.Put(ctx, "a", doctest.ToggleSwitch())
	require.NoError(t, err)
	other := document.New()
	_, err = other.CreateEntity(document.KindSequence, doctest.ID("lonely"))
	require.NoError(t, err)
	c, err := s.Put(ctx, "c", other)
	require.NoError(t, err)

	records, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{records[0].Name, records[1].Name, records[2].Name})

	same, err := s.FindByCID(ctx, a.CID)
	require.NoError(t, err)
	assert.Len(t, same, 2)
	assert.Equal(t, b.CID, a.CID)
	assert.NotEqual(t, a.CID, c.CID)

	_, err = s.FindByCID(ctx, "not-a-cid")
	assert.Error(t, err)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s, _ := testStore(t)
	r, err := s.Put(ctx, "toggle", doctest.ToggleSwitch())
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, r.Key))
	_, err = s.Get(ctx, r.Key)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestListSkipsCorruptRecords(t *testing.T) {
	ctx := context.Background()
	s, kv := testStore(t)
	_, err := s.Put(ctx, "toggle", doctest.ToggleSwitch())
	require.NoError(t, err)
	_, err = kv.Put(ctx, string(NewDocumentKey()), []byte("{not json"))
	require.NoError(t, err)

	records, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
