package history

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talentflow/talentflow/internal/types"
)

func TestLogAppendAndRead(t *testing.T) {
	var log Log
	ctx := types.SetUserID(context.Background(), "user_1")

	log.Append(NewEntry(ctx, EntryCreated, "created"))
	log.Append(
		NewEntry(ctx, EntryStatusChange, "").WithDiff(map[string]Change{"status1": {From: "not_confirmed", To: "confirmed"}}),
		NewEntry(ctx, EntryCreated, "again"),
	)

	assert.Equal(t, 3, log.Len())
	require.Len(t, log.OfType(EntryCreated), 2)
	assert.Empty(t, log.OfType(EntryUnlinked))

	last, ok := log.Last()
	require.True(t, ok)
	assert.Equal(t, "again", last.Description)
	assert.Equal(t, "user_1", last.UserID)
	assert.NotEmpty(t, last.ID)
}

func TestEntriesReturnsCopy(t *testing.T) {
	var log Log
	log.Append(NewEntry(context.Background(), EntryCreated, "original"))

	entries := log.Entries()
	entries[0].Description = "tampered"

	assert.Equal(t, "original", log.Entries()[0].Description)
	assert.Equal(t, types.DefaultUserID, log.Entries()[0].UserID)
}

func TestLogJSON(t *testing.T) {
	var empty Log
	raw, err := json.Marshal(empty)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))

	var log Log
	log.Append(NewEntry(context.Background(), EntryLinked, "linked").WithMetadata(map[string]any{"slot_id": "slot_1"}))
	raw, err = json.Marshal(log)
	require.NoError(t, err)

	var decoded Log
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Equal(t, 1, decoded.Len())
	assert.Equal(t, EntryLinked, decoded.Entries()[0].Type)
	assert.Equal(t, "slot_1", decoded.Entries()[0].Metadata["slot_id"])

	var junk Log
	assert.Error(t, json.Unmarshal([]byte(`{"not":"a list"}`), &junk))

	var nullLog Log
	require.NoError(t, json.Unmarshal([]byte(`null`), &nullLog))
	assert.Equal(t, 0, nullLog.Len())
}

func TestUnmarshalKeepsEntriesAroundMalformedOnes(t *testing.T) {
	raw := []byte(`[
		{"id":"hist_1","type":"created","at":"2026-03-14T10:00:00Z","user_id":"user_1","description":"created"},
		{"id":"hist_2","type":"status_change","at":"yesterday","user_id":42,"diff":{"status1":{"from":null,"to":"confirmed"}}},
		"garbage",
		{"id":"hist_3","type":"comment_added","at":"2026-03-14T11:00:00Z","metadata":"not an object"}
	]`)

	var log Log
	require.NoError(t, json.Unmarshal(raw, &log))
	require.Equal(t, 3, log.Len())

	entries := log.Entries()
	assert.Equal(t, EntryCreated, entries[0].Type)
	assert.Equal(t, "user_1", entries[0].UserID)
	assert.Equal(t, 2026, entries[0].At.Year())

	assert.Equal(t, EntryStatusChange, entries[1].Type)
	assert.True(t, entries[1].At.IsZero())
	assert.Equal(t, "42", entries[1].UserID)
	assert.Equal(t, Change{From: nil, To: "confirmed"}, entries[1].Diff["status1"])

	assert.Equal(t, "hist_3", entries[2].ID)
	assert.Nil(t, entries[2].Metadata)
}

func TestNilLogIsReadable(t *testing.T) {
	var log *Log
	assert.Equal(t, 0, log.Len())
	assert.Empty(t, log.Entries())
	assert.Empty(t, log.OfType(EntryCreated))
}
