package datablock

import "strings"

// Fields is the projection of model_data onto first-class model attributes.
// A nil pointer means the block does not carry the attribute and the caller
// must leave its current value alone.
type Fields struct {
	FullName       *string `json:"full_name,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	Telegram       *string `json:"telegram,omitempty"`
	BirthDate      *string `json:"birth_date,omitempty"`
	DocType        *string `json:"doc_type,omitempty"`
	DocNumber      *string `json:"doc_number,omitempty"`
	InternshipDate *string `json:"internship_date,omitempty"`
}

// field aliases, the first one present wins
var (
	fullNameFields       = []string{"full_name", "fullName", "fio"}
	phoneFields          = []string{"phone", "phone_number"}
	telegramFields       = []string{"telegram", "tg"}
	birthDateFields      = []string{"birth_date", "birthDate"}
	docTypeFields        = []string{"doc_type", "docType"}
	docNumberFields      = []string{"doc_number", "docNumber"}
	internshipDateFields = []string{"internship_date", "internshipDate"}
)

// ExtractFields looks up the well-known attributes in block
func ExtractFields(block *DataBlock) Fields {
	return Fields{
		FullName:       lookupFirst(block, fullNameFields),
		Phone:          lookupFirst(block, phoneFields),
		Telegram:       lookupFirst(block, telegramFields),
		BirthDate:      lookupFirst(block, birthDateFields),
		DocType:        lookupFirst(block, docTypeFields),
		DocNumber:      lookupFirst(block, docNumberFields),
		InternshipDate: lookupFirst(block, internshipDateFields),
	}
}

// IsEmpty reports whether no attribute was found
func (f Fields) IsEmpty() bool {
	return f == Fields{}
}

// lookupFirst treats null and blank values as absent
func lookupFirst(block *DataBlock, names []string) *string {
	for _, name := range names {
		value, ok := block.Lookup(name)
		if !ok || value == nil {
			continue
		}
		s := strings.TrimSpace(stringify(value))
		if s == "" {
			continue
		}
		return &s
	}
	return nil
}
