package permission_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blueberrycongee/forge/permission"
)

func TestInMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := permission.NewInMemoryStore()

	got, err := store.Load(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	snap := permission.Snapshot{Always: []string{"tool:echo"}}
	require.NoError(t, store.Save(ctx, "s1", snap))

	got, err = store.Load(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, snap, *got)
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := permission.NewFileStore(t.TempDir())

	snap := permission.Snapshot{Reject: []string{"tool:dangerous"}, Once: []string{"tool:read"}}
	require.NoError(t, store.Save(ctx, "session-1", snap))

	got, err := store.Load(ctx, "session-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.ElementsMatch(t, snap.Reject, got.Reject)
	assert.ElementsMatch(t, snap.Once, got.Once)

	missing, err := store.Load(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
