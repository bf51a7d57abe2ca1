package dto

import (
	"context"
	"strings"

	"github.com/talentflow/talentflow/internal/domain/datablock"
	"github.com/talentflow/talentflow/internal/domain/slot"
	"github.com/talentflow/talentflow/internal/domain/status"
	"github.com/talentflow/talentflow/internal/types"
	"github.com/talentflow/talentflow/internal/validator"
)

type CreateSlotRequest struct {
	Date       string  `json:"date" validate:"required,date"`
	Start      string  `json:"start,omitempty" validate:"omitempty,clock"`
	End        string  `json:"end,omitempty" validate:"omitempty,clock"`
	Title      string  `json:"title,omitempty" validate:"omitempty,max=255"`
	EmployeeID *string `json:"employee_id,omitempty"`
	StatusFields
	DataBlock *datablock.DataBlock `json:"data_block,omitempty"`
}

func (r *CreateSlotRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if err := types.ValidateClockRange(r.Start, r.End); err != nil {
		return err
	}
	return r.StatusFields.Validate()
}

// ToSlot builds the slot with the default vector overridden by the written axes
func (r *CreateSlotRequest) ToSlot(ctx context.Context) *slot.Slot {
	s := slot.New(ctx, strings.TrimSpace(r.Date))
	s.Start = r.Start
	s.End = r.End
	s.Title = strings.TrimSpace(r.Title)
	s.EmployeeID = r.EmployeeID
	s.Vector = r.StatusFields.Apply(s.Vector)
	if r.DataBlock != nil {
		s.DataBlock = datablock.Canonical(r.DataBlock)
	}
	return s
}

type UpdateSlotRequest struct {
	Start      *string `json:"start,omitempty" validate:"omitempty,clock"`
	End        *string `json:"end,omitempty" validate:"omitempty,clock"`
	Title      *string `json:"title,omitempty" validate:"omitempty,max=255"`
	EmployeeID *string `json:"employee_id,omitempty"`
	StatusFields
	DataBlock *datablock.DataBlock `json:"data_block,omitempty"`
}

func (r *UpdateSlotRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return r.StatusFields.Validate()
}

// RegisterModelRequest creates a model from a slot. Name defaults to the slot title.
type RegisterModelRequest struct {
	Name     *string      `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Email    string       `json:"email,omitempty" validate:"omitempty,email"`
	Comment  string       `json:"comment,omitempty" validate:"omitempty,max=4000"`
	Statuses StatusFields `json:"statuses"`
}

func (r *RegisterModelRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return r.Statuses.Validate()
}

// LinkModelRequest links an existing model to a slot
type LinkModelRequest struct {
	ModelID string `json:"model_id" validate:"required"`
	// SyncTitle copies the slot title onto the model name
	SyncTitle bool `json:"sync_title"`
}

func (r *LinkModelRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// SlotResponse carries a slot with its statuses coerced for reading
type SlotResponse struct {
	*slot.Slot
}

func NewSlotResponse(s *slot.Slot) *SlotResponse {
	if s == nil {
		return nil
	}
	out := *s
	out.Vector = status.Normalize(s.Vector)
	return &SlotResponse{Slot: &out}
}

// ListSlotsResponse represents a paginated list of slots
type ListSlotsResponse = types.ListResponse[*SlotResponse]

// RegisterModelResponse returns both sides of a registration
type RegisterModelResponse struct {
	Slot  *SlotResponse  `json:"slot"`
	Model *ModelResponse `json:"model"`
}

// LinkResponse returns both sides of a link change
type LinkResponse struct {
	Slot  *SlotResponse  `json:"slot"`
	Model *ModelResponse `json:"model,omitempty"`
}
