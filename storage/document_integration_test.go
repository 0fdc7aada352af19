//go:build integration

package storage

import (
	"context"
	"testing"

	"github.com/c360studio/semstreams/natsclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/sbolgraph/document/doctest"
)

func TestStoreJetStream(t *testing.T) {
	tc := natsclient.NewTestClient(t, natsclient.WithJetStream())
	ctx := context.Background()

	js, err := tc.Client.JetStream()
	require.NoError(t, err)

	store, err := NewStore(ctx, js, "")
	require.NoError(t, err)

	doc := doctest.ToggleSwitch()
	rec, err := store.Put(ctx, "toggle", doc)
	require.NoError(t, err)

	loaded, err := store.Load(ctx, rec.Key)
	require.NoError(t, err)
	assert.True(t, doc.Equal(loaded))

	// Reopening finds the existing bucket.
	again, err := NewStore(ctx, js, BucketDocuments)
	require.NoError(t, err)
	records, err := again.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, rec.CID, records[0].CID)

	require.NoError(t, again.Delete(ctx, rec.Key))
	_, err = again.Get(ctx, rec.Key)
	assert.ErrorIs(t, err, ErrNotFound)
}
