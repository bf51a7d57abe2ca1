package status

import (
	"strings"

	ierr "github.com/talentflow/talentflow/internal/errors"
)

// Axis names one of the four independent classification dimensions
type Axis string

const (
	// AxisConfirmation records whether the candidate confirmed the slot
	AxisConfirmation Axis = "status1"
	// AxisVisit records whether the candidate showed up
	AxisVisit Axis = "status2"
	// AxisDecision records the interview outcome
	AxisDecision Axis = "status3"
	// AxisRegistration records the registration stage
	AxisRegistration Axis = "status4"
)

// Axes lists every axis in storage order
var Axes = []Axis{AxisConfirmation, AxisVisit, AxisDecision, AxisRegistration}

// status1 values
const (
	Confirmed    = "confirmed"
	NotConfirmed = "not_confirmed"
	Fail         = "fail"
)

// status2 values
const (
	Arrived = "arrived"
	NoShow  = "no_show"
	Other   = "other"
)

// status3 values
const (
	Thinking        = "thinking"
	RejectUs        = "reject_us"
	RejectCandidate = "reject_candidate"
)

// status4 values
const (
	Registration = "registration"
)

// DefaultConfirmation is used whenever status1 is missing or unknown
const DefaultConfirmation = NotConfirmed

var enums = map[Axis][]string{
	AxisConfirmation: {Confirmed, NotConfirmed, Fail},
	AxisVisit:        {Arrived, NoShow, Other},
	AxisDecision:     {Thinking, RejectUs, RejectCandidate},
	AxisRegistration: {Registration},
}

// Vector is the four-axis status carried by slots and models. Optional axes
// are empty when unset.
type Vector struct {
	Status1 string `json:"status1"`
	Status2 string `json:"status2,omitempty"`
	Status3 string `json:"status3,omitempty"`
	Status4 string `json:"status4,omitempty"`
}

// Change is the from/to pair of a single axis
type Change struct {
	From any `json:"from"`
	To   any `json:"to"`
}

// Diff maps each changed axis to its old and new value
type Diff map[string]Change

// IsKnownAxis reports whether axis is one of status1..status4
func IsKnownAxis(axis Axis) bool {
	_, ok := enums[axis]
	return ok
}

// Values returns the enumeration of axis, or nil for an unknown axis
func Values(axis Axis) []string {
	values, ok := enums[axis]
	if !ok {
		return nil
	}
	return append([]string(nil), values...)
}

func member(axis Axis, value string) bool {
	for _, v := range enums[axis] {
		if v == value {
			return true
		}
	}
	return false
}

// Validate reports whether value is acceptable on a write. status1 must be a
// member of its enumeration; the optional axes also accept the empty value.
func Validate(axis Axis, value string) bool {
	if !IsKnownAxis(axis) {
		return false
	}
	if axis == AxisConfirmation {
		return member(axis, value)
	}
	if value == "" {
		return true
	}
	return member(axis, value)
}

// Normalize coerces v for reads. An unknown status1 becomes the default and
// unknown optional values are cleared. Normalize is idempotent.
func Normalize(v Vector) Vector {
	out := Vector{
		Status1: strings.TrimSpace(v.Status1),
		Status2: strings.TrimSpace(v.Status2),
		Status3: strings.TrimSpace(v.Status3),
		Status4: strings.TrimSpace(v.Status4),
	}
	if !member(AxisConfirmation, out.Status1) {
		out.Status1 = DefaultConfirmation
	}
	if !member(AxisVisit, out.Status2) {
		out.Status2 = ""
	}
	if !member(AxisDecision, out.Status3) {
		out.Status3 = ""
	}
	if !member(AxisRegistration, out.Status4) {
		out.Status4 = ""
	}
	return out
}

// Get returns the value stored on axis
func (v Vector) Get(axis Axis) string {
	switch axis {
	case AxisConfirmation:
		return v.Status1
	case AxisVisit:
		return v.Status2
	case AxisDecision:
		return v.Status3
	case AxisRegistration:
		return v.Status4
	}
	return ""
}

// Set returns a copy of v with axis set to value
func (v Vector) Set(axis Axis, value string) Vector {
	switch axis {
	case AxisConfirmation:
		v.Status1 = value
	case AxisVisit:
		v.Status2 = value
	case AxisDecision:
		v.Status3 = value
	case AxisRegistration:
		v.Status4 = value
	}
	return v
}

// ValidateAll rejects the first axis whose value is not writable
func (v Vector) ValidateAll() error {
	for _, axis := range Axes {
		value := v.Get(axis)
		if Validate(axis, value) {
			continue
		}
		return ierr.NewErrorf("invalid value %q for %s", value, axis).
			WithHintf("Invalid value for %s", axis).
			WithReportableDetails(map[string]any{
				"axis":    axis,
				"value":   value,
				"allowed": Values(axis),
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// Diff lists the axes whose value differs between v and next. Unset
// optional axes are reported as nil.
func (v Vector) Diff(next Vector) Diff {
	diff := Diff{}
	for _, axis := range Axes {
		from, to := v.Get(axis), next.Get(axis)
		if from == to {
			continue
		}
		diff[string(axis)] = Change{From: nilIfEmpty(from), To: nilIfEmpty(to)}
	}
	return diff
}

func nilIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
