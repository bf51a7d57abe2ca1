package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	ierr "github.com/talentflow/talentflow/internal/errors"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	defer s.Close()

	_, err := s.Get(ctx, "model:1")
	require.Error(t, err)
	assert.True(t, ierr.IsNotFound(err))

	require.NoError(t, s.Put(ctx, "slot:2024-05-02:b", []byte(`{"id":"b"}`)))
	require.NoError(t, s.Put(ctx, "slot:2024-05-01:a", []byte(`{"id":"a"}`)))
	require.NoError(t, s.Put(ctx, "slot:2024-05-01:c", []byte(`{"id":"c"}`)))
	require.NoError(t, s.Put(ctx, "model:1", []byte(`{"id":"1"}`)))

	value, err := s.Get(ctx, "model:1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1"}`, string(value))

	entries, err := s.List(ctx, "slot:2024-05-01:")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "slot:2024-05-01:a", entries[0].Key)
	assert.Equal(t, "slot:2024-05-01:c", entries[1].Key)

	require.NoError(t, s.Delete(ctx, "model:1"))
	require.NoError(t, s.Delete(ctx, "model:1"), "deleting a missing key is not an error")
	_, err = s.Get(ctx, "model:1")
	assert.True(t, ierr.IsNotFound(err))
}

func TestStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	value := []byte(`{"id":"1"}`)
	require.NoError(t, s.Put(ctx, "model:1", value))
	value[2] = 'X'

	stored, err := s.Get(ctx, "model:1")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"1"}`, string(stored))

	stored[2] = 'Y'
	again, err := s.Get(ctx, "model:1")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"1"}`, string(again))
}

func TestStoreRejectsEmptyKey(t *testing.T) {
	err := NewStore().Put(context.Background(), " ", []byte(`{}`))
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}
