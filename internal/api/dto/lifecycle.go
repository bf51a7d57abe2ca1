package dto

import (
	"github.com/talentflow/talentflow/internal/domain/lifecycle"
)

// StageInfo describes one lifecycle stage
type StageInfo struct {
	Value lifecycle.Stage `json:"value"`
	Label string          `json:"label"`
}

// StatusesResponse enumerates the values each status axis accepts
type StatusesResponse struct {
	Axes       map[string][]string `json:"axes"`
	Stages     []StageInfo         `json:"stages"`
	ShiftTypes []string            `json:"shift_types"`
}

type NextStatusResponse struct {
	Status lifecycle.Stage  `json:"status"`
	Next   *lifecycle.Stage `json:"next,omitempty"`
	Final  bool             `json:"final"`
}
