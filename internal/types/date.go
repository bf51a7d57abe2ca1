package types

import (
	"strings"
	"time"

	ierr "github.com/talentflow/talentflow/internal/errors"
)

const (
	// DateLayout is the calendar day format used in slot and shift keys
	DateLayout = "2006-01-02"
	// ClockLayout is the wall-clock format for slot and shift boundaries
	ClockLayout = "15:04"
)

// ValidateDate checks that value is a calendar day in DateLayout
func ValidateDate(value string) error {
	if _, err := time.Parse(DateLayout, strings.TrimSpace(value)); err != nil {
		return ierr.WithError(err).
			WithHint("Date must be in YYYY-MM-DD format").
			WithReportableDetails(map[string]any{
				"date": value,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ValidateClockRange checks that start and end are HH:MM values and start is
// not after end. Empty values are allowed.
func ValidateClockRange(start, end string) error {
	var startAt, endAt time.Time
	var err error
	if start != "" {
		if startAt, err = time.Parse(ClockLayout, start); err != nil {
			return ierr.WithError(err).
				WithHint("Start time must be in HH:MM format").
				Mark(ierr.ErrValidation)
		}
	}
	if end != "" {
		if endAt, err = time.Parse(ClockLayout, end); err != nil {
			return ierr.WithError(err).
				WithHint("End time must be in HH:MM format").
				Mark(ierr.ErrValidation)
		}
	}
	if start != "" && end != "" && startAt.After(endAt) {
		return ierr.NewError("start is after end").
			WithHint("Start time must not be after end time").
			WithReportableDetails(map[string]any{
				"start": start,
				"end":   end,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
