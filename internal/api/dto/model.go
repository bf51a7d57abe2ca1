package dto

import (
	"context"
	"strings"
	"time"

	"github.com/talentflow/talentflow/internal/domain/datablock"
	"github.com/talentflow/talentflow/internal/domain/history"
	"github.com/talentflow/talentflow/internal/domain/lifecycle"
	"github.com/talentflow/talentflow/internal/domain/model"
	"github.com/talentflow/talentflow/internal/domain/status"
	ierr "github.com/talentflow/talentflow/internal/errors"
	"github.com/talentflow/talentflow/internal/types"
	"github.com/talentflow/talentflow/internal/validator"
)

// ContactsRequest carries optional contact writes
type ContactsRequest struct {
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=64"`
	Telegram *string `json:"telegram,omitempty" validate:"omitempty,max=64"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
}

// RegistrationRequest carries optional registration paperwork writes
type RegistrationRequest struct {
	BirthDate *string `json:"birth_date,omitempty" validate:"omitempty,date"`
	DocType   *string `json:"doc_type,omitempty" validate:"omitempty,max=64"`
	DocNumber *string `json:"doc_number,omitempty" validate:"omitempty,max=64"`
	Comment   *string `json:"comment,omitempty" validate:"omitempty,max=4000"`
}

type CreateModelRequest struct {
	Name           string               `json:"name" validate:"required,max=255"`
	FullName       string               `json:"full_name,omitempty" validate:"omitempty,max=255"`
	Contacts       *ContactsRequest     `json:"contacts,omitempty"`
	Stage          *string              `json:"status,omitempty" validate:"omitempty,stage"`
	InternshipDate *string              `json:"internship_date,omitempty" validate:"omitempty,date"`
	Registration   *RegistrationRequest `json:"registration,omitempty"`
	StatusFields
	DataBlock *datablock.DataBlock `json:"data_block,omitempty"`
}

func (r *CreateModelRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ierr.NewError("name is required").
			WithHint("Model name is required").
			Mark(ierr.ErrValidation)
	}
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return r.StatusFields.Validate()
}

// ToModel builds the model without its data block, which the service merges in
func (r *CreateModelRequest) ToModel(ctx context.Context) *model.Model {
	m := model.New(ctx, strings.TrimSpace(r.Name))
	m.FullName = r.FullName
	if r.Stage != nil {
		m.Status = lifecycle.Stage(*r.Stage)
	}
	m.Vector = r.StatusFields.Apply(m.Vector)
	m.InternshipDate = r.InternshipDate
	r.Contacts.apply(&m.Contacts)
	r.Registration.apply(&m.Registration)
	return m
}

type UpdateModelRequest struct {
	Name     *string          `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	FullName *string          `json:"full_name,omitempty" validate:"omitempty,max=255"`
	Contacts *ContactsRequest `json:"contacts,omitempty"`
	// Stage overrides the lifecycle stage by hand
	Stage          *string              `json:"status,omitempty" validate:"omitempty,stage"`
	InternshipDate *string              `json:"internship_date,omitempty" validate:"omitempty,date"`
	Registration   *RegistrationRequest `json:"registration,omitempty"`
	StatusFields
	DataBlock *datablock.DataBlock `json:"data_block,omitempty"`
	// SyncToSlot pushes the merged data block back to the linked slot
	SyncToSlot bool `json:"sync_to_slot,omitempty"`
}

func (r *UpdateModelRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return r.StatusFields.Validate()
}

// ApplyContacts writes the requested contacts and reports whether any changed
func (r *UpdateModelRequest) ApplyContacts(c *model.Contacts) bool {
	before := *c
	r.Contacts.apply(c)
	return before != *c
}

// ApplyRegistration writes the requested paperwork and reports whether any changed
func (r *UpdateModelRequest) ApplyRegistration(reg *model.Registration) bool {
	before := *reg
	r.Registration.apply(reg)
	return before.BirthDate != reg.BirthDate ||
		before.DocType != reg.DocType ||
		before.DocNumber != reg.DocNumber ||
		before.Comment != reg.Comment
}

func (r *ContactsRequest) apply(c *model.Contacts) {
	if r == nil {
		return
	}
	if r.Phone != nil {
		c.Phone = *r.Phone
	}
	if r.Telegram != nil {
		c.Telegram = *r.Telegram
	}
	if r.Email != nil {
		c.Email = *r.Email
	}
}

func (r *RegistrationRequest) apply(reg *model.Registration) {
	if r == nil {
		return
	}
	if r.BirthDate != nil {
		reg.BirthDate = *r.BirthDate
	}
	if r.DocType != nil {
		reg.DocType = *r.DocType
	}
	if r.DocNumber != nil {
		reg.DocNumber = *r.DocNumber
	}
	if r.Comment != nil {
		reg.Comment = *r.Comment
	}
}

type AddCommentRequest struct {
	Text string `json:"text" validate:"required,max=4000"`
}

func (r *AddCommentRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return ierr.NewError("text is required").
			WithHint("Comment text is required").
			Mark(ierr.ErrValidation)
	}
	return validator.ValidateRequest(r)
}

// ToComment builds a comment authored by the actor in ctx
func (r *AddCommentRequest) ToComment(ctx context.Context) model.Comment {
	return model.Comment{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_COMMENT),
		Text:      strings.TrimSpace(r.Text),
		AuthorID:  types.GetActorID(ctx),
		CreatedAt: time.Now().UTC(),
	}
}

// ModelResponse carries a model with its statuses coerced for reading
type ModelResponse struct {
	*model.Model
}

func NewModelResponse(m *model.Model) *ModelResponse {
	if m == nil {
		return nil
	}
	out := *m
	out.Vector = status.Normalize(m.Vector)
	out.Status = m.Stage()
	if m.Registration.Statuses != nil {
		snapshot := status.Normalize(*m.Registration.Statuses)
		out.Registration.Statuses = &snapshot
	}
	return &ModelResponse{Model: &out}
}

// ListModelsResponse represents a paginated list of models
type ListModelsResponse = types.ListResponse[*ModelResponse]

// HistoryResponse lists the audit entries of a model, oldest first
type HistoryResponse struct {
	Items []history.Entry `json:"items"`
	Total int             `json:"total"`
}
