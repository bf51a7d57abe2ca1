package dto

import (
	"github.com/talentflow/talentflow/internal/domain/status"
	ierr "github.com/talentflow/talentflow/internal/errors"
)

// SuccessResponse represents a generic success response
type SuccessResponse struct {
	Message string `json:"message"`
}

// StatusFields are the optional axis writes of an update. A nil field leaves
// the axis untouched, an empty optional axis clears it.
type StatusFields struct {
	Status1 *string `json:"status1,omitempty" validate:"omitempty,status1"`
	Status2 *string `json:"status2,omitempty" validate:"omitempty,status2"`
	Status3 *string `json:"status3,omitempty" validate:"omitempty,status3"`
	Status4 *string `json:"status4,omitempty" validate:"omitempty,status4"`
}

func (f StatusFields) values() map[status.Axis]*string {
	return map[status.Axis]*string{
		status.AxisConfirmation: f.Status1,
		status.AxisVisit:        f.Status2,
		status.AxisDecision:     f.Status3,
		status.AxisRegistration: f.Status4,
	}
}

// IsEmpty reports whether no axis is written
func (f StatusFields) IsEmpty() bool {
	return f.Status1 == nil && f.Status2 == nil && f.Status3 == nil && f.Status4 == nil
}

// Validate rejects writes outside an axis enumeration. Writes are never coerced.
func (f StatusFields) Validate() error {
	values := f.values()
	for _, axis := range status.Axes {
		value := values[axis]
		if value == nil || status.Validate(axis, *value) {
			continue
		}
		return ierr.NewErrorf("invalid value %q for %s", *value, axis).
			WithHintf("Invalid value for %s", axis).
			WithReportableDetails(map[string]any{
				"axis":    axis,
				"value":   *value,
				"allowed": status.Values(axis),
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// Apply returns v with the written axes replaced
func (f StatusFields) Apply(v status.Vector) status.Vector {
	values := f.values()
	for _, axis := range status.Axes {
		if value := values[axis]; value != nil {
			v = v.Set(axis, *value)
		}
	}
	return v
}
