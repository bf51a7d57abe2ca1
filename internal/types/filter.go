package types

import (
	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

const (
	FILTER_DEFAULT_LIMIT = 50
)

// QueryFilter represents a generic query filter with optional fields
type QueryFilter struct {
	Limit  *int `json:"limit,omitempty" form:"limit" validate:"omitempty,min=1,max=1000"`
	Offset *int `json:"offset,omitempty" form:"offset" validate:"omitempty,min=0"`
}

// NewDefaultQueryFilter defines default values for query filters
func NewDefaultQueryFilter() *QueryFilter {
	return &QueryFilter{
		Limit:  lo.ToPtr(FILTER_DEFAULT_LIMIT),
		Offset: lo.ToPtr(0),
	}
}

// NewNoLimitQueryFilter returns a filter with no pagination limits
func NewNoLimitQueryFilter() *QueryFilter {
	return &QueryFilter{
		Offset: lo.ToPtr(0),
	}
}

// GetLimit returns the limit value, 0 meaning unlimited
func (f *QueryFilter) GetLimit() int {
	if f == nil || f.Limit == nil {
		return 0
	}
	return *f.Limit
}

// GetOffset returns the offset value or default if not set
func (f *QueryFilter) GetOffset() int {
	if f == nil || f.Offset == nil {
		return 0
	}
	return *f.Offset
}

// SlotFilter lists the slots scheduled on one day
type SlotFilter struct {
	*QueryFilter
	Date       string `json:"date" form:"date" validate:"required"`
	EmployeeID string `json:"employee_id,omitempty" form:"employee_id"`
	Linked     *bool  `json:"linked,omitempty" form:"linked"`
}

func (f *SlotFilter) Validate() error {
	if f == nil {
		return nil
	}
	if err := validator.New().Struct(f); err != nil {
		return err
	}
	return ValidateDate(f.Date)
}

// ModelFilter narrows model listings
type ModelFilter struct {
	*QueryFilter
	Stage  string `json:"stage,omitempty" form:"stage"`
	Search string `json:"search,omitempty" form:"search"`
}

func (f *ModelFilter) Validate() error {
	if f == nil || f.QueryFilter == nil {
		return nil
	}
	return validator.New().Struct(f.QueryFilter)
}

// ShiftFilter narrows the shifts of a single model
type ShiftFilter struct {
	*QueryFilter
	Type   string `json:"type,omitempty" form:"type"`
	Status string `json:"status,omitempty" form:"status"`
}
