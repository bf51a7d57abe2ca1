package lifecycle

import (
	"fmt"

	"github.com/talentflow/talentflow/internal/domain/shift"
)

// Config holds the rule parameters that products disagree on
type Config struct {
	// TrainingExitStage is entered once training completes, ready_to_work or closed_to_team
	TrainingExitStage Stage
	// TrainingCompleteThreshold is the completed training shifts needed to leave training
	TrainingCompleteThreshold int
	// ReadyToModelThreshold is the completed regular shifts needed to become a model
	ReadyToModelThreshold int
}

func DefaultConfig() Config {
	return Config{
		TrainingExitStage:         StageReadyToWork,
		TrainingCompleteThreshold: 2,
		ReadyToModelThreshold:     2,
	}
}

type rule struct {
	from      []Stage
	shiftType shift.Type
	threshold int
	to        Stage
}

func (r rule) matches(current Stage, shiftType shift.Type) bool {
	if r.shiftType != shiftType {
		return false
	}
	for _, s := range r.from {
		if s == current {
			return true
		}
	}
	return false
}

// StatusManager derives stage transitions from completed shift counts.
// It holds no state besides its rules and is safe for concurrent use.
type StatusManager struct {
	cfg   Config
	rules []rule
	next  map[Stage]Stage
}

func NewStatusManager(cfg Config) *StatusManager {
	if cfg.TrainingExitStage != StageClosedToTeam {
		cfg.TrainingExitStage = StageReadyToWork
	}
	// a threshold below one would advance on zero completed shifts
	cfg.TrainingCompleteThreshold = max(cfg.TrainingCompleteThreshold, 1)
	cfg.ReadyToModelThreshold = max(cfg.ReadyToModelThreshold, 1)

	return &StatusManager{
		cfg: cfg,
		rules: []rule{
			{
				from:      []Stage{StageRegistered, StageAccountRegistered},
				shiftType: shift.TypeTraining,
				threshold: 1,
				to:        StageTraining,
			},
			{
				from:      []Stage{StageTraining},
				shiftType: shift.TypeTraining,
				threshold: cfg.TrainingCompleteThreshold,
				to:        cfg.TrainingExitStage,
			},
			{
				from:      []Stage{StageClosedToTeam},
				shiftType: shift.TypeRegular,
				threshold: 1,
				to:        StageReadyToWork,
			},
			{
				from:      []Stage{StageReadyToWork},
				shiftType: shift.TypeRegular,
				threshold: cfg.ReadyToModelThreshold,
				to:        StageModel,
			},
		},
		next: map[Stage]Stage{
			StageRegistered:        StageTraining,
			StageAccountRegistered: StageTraining,
			StageTraining:          cfg.TrainingExitStage,
			StageClosedToTeam:      StageReadyToWork,
			StageReadyToWork:       StageModel,
		},
	}
}

// Config returns the effective configuration
func (m *StatusManager) Config() Config {
	return m.cfg
}

// CalculateNewStatus returns the stage a model moves to after completing a
// shift of shiftType. The first matching rule decides; without a match the
// current stage is returned unchanged.
func (m *StatusManager) CalculateNewStatus(current Stage, shiftType shift.Type, stats ShiftStats) Stage {
	for _, r := range m.rules {
		if !r.matches(current, shiftType) {
			continue
		}
		if stats.count(shiftType) >= r.threshold {
			return r.to
		}
		return current
	}
	return current
}

// CanCreateShift reports whether a shift of shiftType may be scheduled for a
// model in stage
func (m *StatusManager) CanCreateShift(stage Stage, shiftType shift.Type) Eligibility {
	allowed, ok := shiftStages[shiftType]
	if !ok {
		return Eligibility{Reason: fmt.Sprintf("Unknown shift type %q", shiftType)}
	}
	for _, s := range allowed {
		if s == stage {
			return Eligibility{Allowed: true}
		}
	}
	return Eligibility{
		Reason: fmt.Sprintf("A %s shift cannot be created for a model in stage %q, allowed stages: %s",
			shiftType, stage.Label(), describeStages(allowed)),
	}
}

// GetNextPossibleStatus returns the stage that follows stage in the pipeline
func (m *StatusManager) GetNextPossibleStatus(stage Stage) (Stage, bool) {
	next, ok := m.next[stage]
	return next, ok
}

// DescribeTransition renders the audit text of a transition
func (m *StatusManager) DescribeTransition(from, to Stage, shiftType shift.Type) string {
	return fmt.Sprintf("Stage changed from %s to %s after completing %s", from.Label(), to.Label(), describeShift(shiftType))
}
