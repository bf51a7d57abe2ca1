package types

import (
	"encoding/json"
	"time"
)

// ChangeEvent is a notification emitted after a slot, model or shift mutation
// has been persisted. Consumers treat it as a hint and re-read the entity.
type ChangeEvent struct {
	ID         string          `json:"id"`
	EventName  string          `json:"event_name"`
	EntityType EntityType      `json:"entity_type"`
	EntityID   string          `json:"entity_id"`
	UserID     string          `json:"user_id"`
	RequestID  string          `json:"request_id,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

// EntityType names the aggregate a change event refers to
type EntityType string

const (
	EntityTypeSlot  EntityType = "slot"
	EntityTypeModel EntityType = "model"
	EntityTypeShift EntityType = "shift"
)

// slot event names
const (
	EventSlotCreated = "slot.created"
	EventSlotUpdated = "slot.updated"
	EventSlotDeleted = "slot.deleted"
	EventSlotLinked  = "slot.linked"
)

// model event names
const (
	EventModelCreated       = "model.created"
	EventModelRegistered    = "model.registered"
	EventModelUpdated       = "model.updated"
	EventModelDeleted       = "model.deleted"
	EventModelStageAdvanced = "model.stage_advanced"
)

// shift event names
const (
	EventShiftCreated   = "shift.created"
	EventShiftCompleted = "shift.completed"
	EventShiftUpdated   = "shift.updated"
	EventShiftDeleted   = "shift.deleted"
)

// EventSyncFailed is emitted when a best-effort propagation to a linked
// counterpart could not be applied.
const EventSyncFailed = "sync.failed"
