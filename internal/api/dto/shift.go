package dto

import (
	"context"
	"strings"

	"github.com/talentflow/talentflow/internal/domain/lifecycle"
	"github.com/talentflow/talentflow/internal/domain/shift"
	"github.com/talentflow/talentflow/internal/types"
	"github.com/talentflow/talentflow/internal/validator"
)

type CreateShiftRequest struct {
	Date       string  `json:"date" validate:"required,date"`
	Start      string  `json:"start,omitempty" validate:"omitempty,clock"`
	End        string  `json:"end,omitempty" validate:"omitempty,clock"`
	Type       string  `json:"type" validate:"required,shift_type"`
	EmployeeID *string `json:"employee_id,omitempty"`
	Comment    string  `json:"comment,omitempty" validate:"omitempty,max=4000"`
}

func (r *CreateShiftRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return types.ValidateClockRange(r.Start, r.End)
}

func (r *CreateShiftRequest) ToShift(ctx context.Context, modelID string) *shift.Shift {
	s := shift.New(ctx, modelID, shift.Type(r.Type))
	s.Date = strings.TrimSpace(r.Date)
	s.Start = r.Start
	s.End = r.End
	s.EmployeeID = r.EmployeeID
	s.Comment = r.Comment
	return s
}

type UpdateShiftRequest struct {
	Date       *string `json:"date,omitempty" validate:"omitempty,date"`
	Start      *string `json:"start,omitempty" validate:"omitempty,clock"`
	End        *string `json:"end,omitempty" validate:"omitempty,clock"`
	Status     *string `json:"status,omitempty" validate:"omitempty,shift_status"`
	EmployeeID *string `json:"employee_id,omitempty"`
	Comment    *string `json:"comment,omitempty" validate:"omitempty,max=4000"`
}

func (r *UpdateShiftRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type ShiftResponse struct {
	*shift.Shift
}

// ListShiftsResponse represents a paginated list of shifts
type ListShiftsResponse = types.ListResponse[*ShiftResponse]

// StageChange describes a lifecycle transition caused by a shift completion
type StageChange struct {
	From        lifecycle.Stage `json:"from"`
	To          lifecycle.Stage `json:"to"`
	Description string          `json:"description"`
}

type UpdateShiftResponse struct {
	*ShiftResponse
	StageChange *StageChange `json:"stage_change,omitempty"`
}

type ShiftEligibilityResponse struct {
	lifecycle.Eligibility
	Stage lifecycle.Stage `json:"stage"`
	Type  shift.Type      `json:"type"`
}
