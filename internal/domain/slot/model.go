package slot

import (
	"context"
	"fmt"

	"github.com/talentflow/talentflow/internal/domain/datablock"
	"github.com/talentflow/talentflow/internal/domain/history"
	"github.com/talentflow/talentflow/internal/domain/status"
	"github.com/talentflow/talentflow/internal/types"
)

// Slot is a scheduled interview appointment
type Slot struct {
	ID    string `json:"id"`
	Date  string `json:"date"`
	Start string `json:"start"`
	End   string `json:"end"`
	Title string `json:"title"`
	status.Vector
	EmployeeID *string `json:"employee_id,omitempty"`
	// ModelID is a weak back-reference to the model registered from this slot
	ModelID   *string              `json:"model_id,omitempty"`
	DataBlock *datablock.DataBlock `json:"data_block"`
	History   history.Log          `json:"history"`
	types.BaseModel
}

// New creates a slot attributed to the actor in ctx
func New(ctx context.Context, date string) *Slot {
	return &Slot{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SLOT),
		Date:      date,
		Vector:    status.Vector{Status1: status.DefaultConfirmation},
		DataBlock: datablock.New(),
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
}

// Key returns the store key of the slot
func (s *Slot) Key() string {
	return Key(s.Date, s.ID)
}

// Key builds the store key slot:<date>:<id>
func Key(date, id string) string {
	return fmt.Sprintf("slot:%s:%s", date, id)
}

// DatePrefix is the key prefix of every slot on date
func DatePrefix(date string) string {
	return fmt.Sprintf("slot:%s:", date)
}

// IsLinked reports whether a model was registered from the slot
func (s *Slot) IsLinked() bool {
	return s.ModelID != nil && *s.ModelID != ""
}

// Statuses returns the normalized status vector
func (s *Slot) Statuses() status.Vector {
	return status.Normalize(s.Vector)
}

// Ref is the snapshot of a slot kept on a registered model
type Ref struct {
	ID    string `json:"id"`
	Date  string `json:"date"`
	Start string `json:"start"`
	End   string `json:"end"`
	Title string `json:"title"`
}

// Ref takes a snapshot of the slot for a model's registration
func (s *Slot) Ref() *Ref {
	return &Ref{
		ID:    s.ID,
		Date:  s.Date,
		Start: s.Start,
		End:   s.End,
		Title: s.Title,
	}
}
