package model

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/talentflow/talentflow/internal/domain/datablock"
	"github.com/talentflow/talentflow/internal/domain/history"
	"github.com/talentflow/talentflow/internal/domain/lifecycle"
	"github.com/talentflow/talentflow/internal/domain/slot"
	"github.com/talentflow/talentflow/internal/domain/status"
	"github.com/talentflow/talentflow/internal/types"
)

// KeyPrefix is shared by every model key
const KeyPrefix = "model:"

// Contacts of a model
type Contacts struct {
	Phone    string `json:"phone,omitempty"`
	Telegram string `json:"telegram,omitempty"`
	Email    string `json:"email,omitempty"`
}

// Registration holds the onboarding paperwork of a model
type Registration struct {
	// SlotRef is a denormalized snapshot of the slot the model was registered from
	SlotRef   *slot.Ref      `json:"slot_ref,omitempty"`
	BirthDate string         `json:"birth_date,omitempty"`
	DocType   string         `json:"doc_type,omitempty"`
	DocNumber string         `json:"doc_number,omitempty"`
	Comment   string         `json:"comment,omitempty"`
	Statuses  *status.Vector `json:"statuses,omitempty"`
}

// Comment is a free-text note left by staff
type Comment struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	AuthorID  string    `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Model is a candidate or worker
type Model struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	FullName string   `json:"full_name,omitempty"`
	Contacts Contacts `json:"contacts"`
	// Status is the lifecycle stage, the four status axes are inlined below
	Status lifecycle.Stage `json:"status"`
	status.Vector
	DataBlock      *datablock.DataBlock `json:"data_block"`
	InternshipDate *string              `json:"internship_date,omitempty"`
	Registration   Registration         `json:"registration"`
	History        history.Log          `json:"history"`
	Comments       []Comment            `json:"comments"`
	types.BaseModel
}

// New creates a model in the default stage
func New(ctx context.Context, name string) *Model {
	return &Model{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_MODEL),
		Name:      name,
		Status:    lifecycle.DefaultStage,
		Vector:    status.Vector{Status1: status.DefaultConfirmation},
		DataBlock: datablock.New(),
		Comments:  []Comment{},
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
}

func (m *Model) Key() string {
	return Key(m.ID)
}

// Key builds the store key model:<id>
func Key(id string) string {
	return fmt.Sprintf("%s%s", KeyPrefix, id)
}

// Statuses returns the normalized status vector
func (m *Model) Statuses() status.Vector {
	return status.Normalize(m.Vector)
}

// IsSlotLinked reports whether the model carries a slot snapshot
func (m *Model) IsSlotLinked() bool {
	return m.Registration.SlotRef != nil && m.Registration.SlotRef.ID != ""
}

// Stage returns the lifecycle stage, defaulting unknown values
func (m *Model) Stage() lifecycle.Stage {
	if !m.Status.Validate() {
		return lifecycle.DefaultStage
	}
	return m.Status
}

// ApplyFields copies the attributes present in f onto the model and
// returns the names of the attributes whose value changed
func (m *Model) ApplyFields(f datablock.Fields) []string {
	var changed []string
	apply := func(name string, dst *string, value *string) {
		if value == nil || *dst == *value {
			return
		}
		*dst = *value
		changed = append(changed, name)
	}

	apply("full_name", &m.FullName, f.FullName)
	apply("contacts.phone", &m.Contacts.Phone, f.Phone)
	apply("contacts.telegram", &m.Contacts.Telegram, f.Telegram)
	apply("registration.birth_date", &m.Registration.BirthDate, f.BirthDate)
	apply("registration.doc_type", &m.Registration.DocType, f.DocType)
	apply("registration.doc_number", &m.Registration.DocNumber, f.DocNumber)

	if f.InternshipDate != nil && (m.InternshipDate == nil || *m.InternshipDate != *f.InternshipDate) {
		value := *f.InternshipDate
		m.InternshipDate = &value
		changed = append(changed, "internship_date")
	}
	return changed
}

// Matches reports whether search occurs in the name, full name or contacts
func (m *Model) Matches(search string) bool {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return true
	}
	for _, candidate := range []string{m.Name, m.FullName, m.Contacts.Phone, m.Contacts.Telegram, m.Contacts.Email} {
		if strings.Contains(strings.ToLower(candidate), search) {
			return true
		}
	}
	return false
}
