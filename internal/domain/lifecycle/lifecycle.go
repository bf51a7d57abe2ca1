package lifecycle

import (
	"fmt"
	"strings"

	"github.com/talentflow/talentflow/internal/domain/shift"
)

// Stage is a model's position in the onboarding pipeline
type Stage string

const (
	StageRegistered        Stage = "registered"
	StageAccountRegistered Stage = "account_registered"
	StageTraining          Stage = "training"
	StageClosedToTeam      Stage = "closed_to_team"
	StageReadyToWork       Stage = "ready_to_work"
	StageModel             Stage = "model"
)

// DefaultStage is the stage of a newly created model
const DefaultStage = StageRegistered

// Stages lists every stage in pipeline order
var Stages = []Stage{
	StageRegistered,
	StageAccountRegistered,
	StageTraining,
	StageClosedToTeam,
	StageReadyToWork,
	StageModel,
}

var labels = map[Stage]string{
	StageRegistered:        "Registered",
	StageAccountRegistered: "Account registered",
	StageTraining:          "Training",
	StageClosedToTeam:      "Closed to team",
	StageReadyToWork:       "Ready to work",
	StageModel:             "Model",
}

func (s Stage) Validate() bool {
	_, ok := labels[s]
	return ok
}

// Label returns the human-readable stage name
func (s Stage) Label() string {
	if label, ok := labels[s]; ok {
		return label
	}
	return string(s)
}

// ShiftStats counts the completed shifts of a model per type
type ShiftStats struct {
	TrainingShiftsCompleted int `json:"training_shifts_completed"`
	RegularShiftsCompleted  int `json:"regular_shifts_completed"`
}

func (s ShiftStats) count(t shift.Type) int {
	switch t {
	case shift.TypeTraining:
		return s.TrainingShiftsCompleted
	case shift.TypeRegular:
		return s.RegularShiftsCompleted
	}
	return 0
}

// CountShifts recounts completed shifts from the full shift set, so counting
// the same completion twice is impossible
func CountShifts(shifts []*shift.Shift) ShiftStats {
	var stats ShiftStats
	for _, s := range shifts {
		if s == nil || !s.IsCompleted() {
			continue
		}
		switch s.Type {
		case shift.TypeTraining:
			stats.TrainingShiftsCompleted++
		case shift.TypeRegular:
			stats.RegularShiftsCompleted++
		}
	}
	return stats
}

// Eligibility is the answer of CanCreateShift
type Eligibility struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

var shiftStages = map[shift.Type][]Stage{
	shift.TypeTraining: {StageRegistered, StageAccountRegistered, StageTraining},
	shift.TypeRegular:  {StageClosedToTeam, StageReadyToWork, StageModel},
}

func describeStages(stages []Stage) string {
	names := make([]string, 0, len(stages))
	for _, s := range stages {
		names = append(names, strings.ToLower(s.Label()))
	}
	return strings.Join(names, ", ")
}

// describeShift returns the audit wording of a completed shift type
func describeShift(t shift.Type) string {
	switch t {
	case shift.TypeTraining:
		return "a training shift"
	case shift.TypeRegular:
		return "a regular shift"
	}
	return fmt.Sprintf("a %s shift", t)
}

// String renders stats for logs
func (s ShiftStats) String() string {
	return fmt.Sprintf("training=%d regular=%d", s.TrainingShiftsCompleted, s.RegularShiftsCompleted)
}
