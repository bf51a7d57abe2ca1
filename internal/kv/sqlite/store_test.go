package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	ierr "github.com/talentflow/talentflow/internal/errors"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return s
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	_, err := s.Get(ctx, "model:1")
	require.Error(t, err)
	assert.True(t, ierr.IsNotFound(err))

	require.NoError(t, s.Put(ctx, "model:1", []byte(`{"v":1}`)))
	require.NoError(t, s.Put(ctx, "model:1", []byte(`{"v":2}`)))

	value, err := s.Get(ctx, "model:1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":2}`, string(value))

	require.NoError(t, s.Delete(ctx, "model:1"))
	require.NoError(t, s.Delete(ctx, "model:1"))
	_, err = s.Get(ctx, "model:1")
	assert.True(t, ierr.IsNotFound(err))
}

func TestStoreListByPrefix(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	for _, key := range []string{
		"slot:2024-05-01:b",
		"slot:2024-05-01:a",
		"slot:2024-05-02:a",
		"slot:2024-05-0",
		"model:a",
	} {
		require.NoError(t, s.Put(ctx, key, []byte(`{}`)))
	}

	entries, err := s.List(ctx, "slot:2024-05-01:")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "slot:2024-05-01:a", entries[0].Key)
	assert.Equal(t, "slot:2024-05-01:b", entries[1].Key)

	all, err := s.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kv.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, "model:1", []byte(`{"v":1}`)))
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	value, err := reopened.Get(ctx, "model:1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":1}`, string(value))
}

func TestOpenInMemory(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Put(context.Background(), "k", []byte(`1`)))
	_, err = s.Get(context.Background(), "k")
	require.NoError(t, err)
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
}
