package service

import (
	"github.com/talentflow/talentflow/internal/config"
	"github.com/talentflow/talentflow/internal/domain/lifecycle"
	"github.com/talentflow/talentflow/internal/domain/model"
	"github.com/talentflow/talentflow/internal/domain/shift"
	"github.com/talentflow/talentflow/internal/domain/slot"
	"github.com/talentflow/talentflow/internal/logger"
	"github.com/talentflow/talentflow/internal/publisher"
	"github.com/talentflow/talentflow/internal/sentry"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	Sentry *sentry.Service

	// Repositories
	SlotRepo  slot.Repository
	ModelRepo model.Repository
	ShiftRepo shift.Repository

	// Lifecycle rules
	StatusManager *lifecycle.StatusManager

	// Publishers
	EventPublisher publisher.ChangePublisher
}

// Common service params
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	sentry *sentry.Service,
	slotRepo slot.Repository,
	modelRepo model.Repository,
	shiftRepo shift.Repository,
	statusManager *lifecycle.StatusManager,
	eventPublisher publisher.ChangePublisher,
) ServiceParams {
	return ServiceParams{
		Logger:         logger,
		Config:         config,
		Sentry:         sentry,
		SlotRepo:       slotRepo,
		ModelRepo:      modelRepo,
		ShiftRepo:      shiftRepo,
		StatusManager:  statusManager,
		EventPublisher: eventPublisher,
	}
}

// NewStatusManager builds the lifecycle rules from configuration
func NewStatusManager(cfg *config.Configuration) *lifecycle.StatusManager {
	return lifecycle.NewStatusManager(lifecycle.Config{
		TrainingExitStage:         lifecycle.Stage(cfg.Lifecycle.TrainingExitStage),
		TrainingCompleteThreshold: cfg.Lifecycle.TrainingCompleteThreshold,
		ReadyToModelThreshold:     cfg.Lifecycle.ReadyToModelThreshold,
	})
}
