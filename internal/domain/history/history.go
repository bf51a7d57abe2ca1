package history

import (
	"context"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	ierr "github.com/talentflow/talentflow/internal/errors"
	"github.com/talentflow/talentflow/internal/types"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// EntryType classifies an audit entry
type EntryType string

const (
	EntryCreated             EntryType = "created"
	EntryUpdated             EntryType = "updated"
	EntryStatusChange        EntryType = "status_change"
	EntryStatusSyncFromSlot  EntryType = "status_sync_from_slot"
	EntryStatusSyncFromModel EntryType = "status_sync_from_model"
	EntryTitleSyncFromModel  EntryType = "title_sync_from_model"
	EntryTitleSyncFromSlot   EntryType = "title_sync_from_slot"
	EntryDataSyncFromSlot    EntryType = "data_sync_from_slot"
	EntryDataSyncFromModel   EntryType = "data_sync_from_model"
	EntrySlotRefSync         EntryType = "slot_ref_sync"
	EntryRegisteredFromSlot  EntryType = "registered_from_slot"
	EntryModelRegistered     EntryType = "model_registered"
	EntryLinked              EntryType = "linked"
	EntryUnlinked            EntryType = "unlinked"
	EntryLifecycleTransition EntryType = "lifecycle_transition"
	EntryCommentAdded        EntryType = "comment_added"
)

// Change is the old and new value of one key
type Change struct {
	From any `json:"from"`
	To   any `json:"to"`
}

// Entry is a single immutable audit record
type Entry struct {
	ID          string            `json:"id"`
	Type        EntryType         `json:"type"`
	At          time.Time         `json:"at"`
	UserID      string            `json:"user_id"`
	Description string            `json:"description,omitempty"`
	Diff        map[string]Change `json:"diff,omitempty"`
	Metadata    map[string]any    `json:"metadata,omitempty"`
}

// NewEntry builds an entry attributed to the actor in ctx
func NewEntry(ctx context.Context, entryType EntryType, description string) Entry {
	return Entry{
		ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_HISTORY),
		Type:        entryType,
		At:          time.Now().UTC(),
		UserID:      types.GetActorID(ctx),
		Description: description,
	}
}

// WithDiff returns a copy of e carrying diff
func (e Entry) WithDiff(diff map[string]Change) Entry {
	e.Diff = diff
	return e
}

// WithMetadata returns a copy of e carrying metadata
func (e Entry) WithMetadata(metadata map[string]any) Entry {
	e.Metadata = metadata
	return e
}

// Log is an append-only sequence of entries. The zero value is ready to use.
// Entries can be read but never modified or removed.
type Log struct {
	entries []Entry
}

// Append adds entries to the end of the log
func (l *Log) Append(entries ...Entry) {
	l.entries = append(l.entries, entries...)
}

// Entries returns a copy of the log in insertion order
func (l *Log) Entries() []Entry {
	if l == nil {
		return []Entry{}
	}
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries
func (l *Log) Len() int {
	if l == nil {
		return 0
	}
	return len(l.entries)
}

// OfType returns the entries of the given type in insertion order
func (l *Log) OfType(entryType EntryType) []Entry {
	out := []Entry{}
	if l == nil {
		return out
	}
	for _, e := range l.entries {
		if e.Type == entryType {
			out = append(out, e)
		}
	}
	return out
}

// Last returns the most recent entry
func (l *Log) Last() (Entry, bool) {
	if l.Len() == 0 {
		return Entry{}, false
	}
	return l.entries[len(l.entries)-1], true
}

func (l Log) MarshalJSON() ([]byte, error) {
	if l.entries == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l.entries)
}

// UnmarshalJSON decodes entry by entry so a single malformed record never
// costs the rest of the log. A document whose history is not a list is
// rejected rather than read as empty, since the next write would persist
// the empty log.
func (l *Log) UnmarshalJSON(data []byte) error {
	switch json.Get(data).ValueType() {
	case jsoniter.NilValue:
		l.entries = nil
		return nil
	case jsoniter.ArrayValue:
	default:
		return ierr.NewError("history is not a list").
			WithHint("Stored history is malformed").
			Mark(ierr.ErrValidation)
	}

	var items []jsoniter.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}

	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		if e, ok := decodeEntry(item); ok {
			entries = append(entries, e)
		}
	}
	l.entries = entries
	return nil
}

// decodeEntry reads any JSON object as an entry. Fields of the wrong type
// are zeroed, an unparseable at becomes the zero time.
func decodeEntry(item jsoniter.RawMessage) (Entry, bool) {
	var fields map[string]jsoniter.RawMessage
	if err := json.Unmarshal(item, &fields); err != nil || fields == nil {
		return Entry{}, false
	}

	e := Entry{
		ID:          scalarText(fields["id"]),
		Type:        EntryType(scalarText(fields["type"])),
		UserID:      scalarText(fields["user_id"]),
		Description: scalarText(fields["description"]),
	}
	if at, err := time.Parse(time.RFC3339Nano, scalarText(fields["at"])); err == nil {
		e.At = at
	}
	if raw, ok := fields["diff"]; ok {
		var diff map[string]Change
		if err := json.Unmarshal(raw, &diff); err == nil {
			e.Diff = diff
		}
	}
	if raw, ok := fields["metadata"]; ok {
		var metadata map[string]any
		if err := json.Unmarshal(raw, &metadata); err == nil {
			e.Metadata = metadata
		}
	}
	return e, true
}

// scalarText returns a JSON string as is and numbers or booleans verbatim
func scalarText(raw jsoniter.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	switch json.Get(raw).ValueType() {
	case jsoniter.NumberValue, jsoniter.BoolValue:
		return strings.TrimSpace(string(raw))
	}
	return ""
}
