package shift

import (
	"context"
	"fmt"
	"time"

	"github.com/talentflow/talentflow/internal/types"
)

// Type distinguishes onboarding shifts from regular work
type Type string

const (
	TypeTraining Type = "training"
	TypeRegular  Type = "regular"
)

// Status is the progress of a single shift
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (t Type) Validate() bool {
	return t == TypeTraining || t == TypeRegular
}

func (s Status) Validate() bool {
	return s == StatusScheduled || s == StatusCompleted || s == StatusCancelled
}

// Shift is a work or training shift of a model
type Shift struct {
	ID          string     `json:"id"`
	ModelID     string     `json:"model_id"`
	Date        string     `json:"date"`
	Start       string     `json:"start"`
	End         string     `json:"end"`
	Type        Type       `json:"type"`
	Status      Status     `json:"status"`
	EmployeeID  *string    `json:"employee_id,omitempty"`
	Comment     string     `json:"comment,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	types.BaseModel
}

// New creates a scheduled shift for modelID
func New(ctx context.Context, modelID string, shiftType Type) *Shift {
	return &Shift{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SHIFT),
		ModelID:   modelID,
		Type:      shiftType,
		Status:    StatusScheduled,
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
}

func (s *Shift) IsCompleted() bool {
	return s.Status == StatusCompleted
}

func (s *Shift) Key() string {
	return Key(s.ModelID, s.ID)
}

// Key builds the store key shift:<model_id>:<id>
func Key(modelID, id string) string {
	return fmt.Sprintf("shift:%s:%s", modelID, id)
}

// ModelPrefix is the key prefix of every shift of modelID
func ModelPrefix(modelID string) string {
	return fmt.Sprintf("shift:%s:", modelID)
}
