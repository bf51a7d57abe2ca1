package datablock

import (
	"time"

	jsoniter "github.com/json-iterator/go"
)

// json sorts map keys on output, which makes serialized values comparable
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Field is a single named value inside model_data
type Field struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

// Change is one field-level modification produced by a merge
type Change struct {
	Field    string `json:"field"`
	OldValue any    `json:"old_value"`
	NewValue any    `json:"new_value"`
}

// EditEntry records a single changed field of one merge
type EditEntry struct {
	EditedAt time.Time `json:"edited_at"`
	UserID   *string   `json:"user_id"`
	Changes  Change    `json:"changes"`
}

// DataBlock is the semi-structured payload shared by a slot and the model
// registered from it
type DataBlock struct {
	ModelData   []Field     `json:"model_data"`
	Forms       []any       `json:"forms"`
	UserID      *string     `json:"user_id"`
	EditHistory []EditEntry `json:"edit_history"`
}

// New returns an empty block
func New() *DataBlock {
	return &DataBlock{
		ModelData:   []Field{},
		Forms:       []any{},
		EditHistory: []EditEntry{},
	}
}

// IsEmpty reports whether the block carries no fields, forms or contributor
func (b *DataBlock) IsEmpty() bool {
	return b == nil || (len(b.ModelData) == 0 && len(b.Forms) == 0 && b.UserID == nil)
}

// Lookup returns the value stored for field
func (b *DataBlock) Lookup(field string) (any, bool) {
	if b == nil {
		return nil, false
	}
	for _, f := range b.ModelData {
		if f.Field == field {
			return f.Value, true
		}
	}
	return nil, false
}

// Clone returns a deep copy of the block
func (b *DataBlock) Clone() *DataBlock {
	if b == nil {
		return New()
	}
	raw, err := json.Marshal(b)
	if err != nil {
		return Canonical(b)
	}
	return Parse(raw)
}

// UnmarshalJSON decodes leniently, see Parse. It never fails.
func (b *DataBlock) UnmarshalJSON(data []byte) error {
	*b = *Parse(data)
	return nil
}

// MarshalJSON always emits lists, never null
func (b DataBlock) MarshalJSON() ([]byte, error) {
	type plain DataBlock
	c := Canonical(&b)
	return json.Marshal(plain(*c))
}

// Equal reports whether both blocks serialize to the same document
func (b *DataBlock) Equal(other *DataBlock) bool {
	left, err := json.Marshal(Canonical(b))
	if err != nil {
		return false
	}
	right, err := json.Marshal(Canonical(other))
	if err != nil {
		return false
	}
	return string(left) == string(right)
}
