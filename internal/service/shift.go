package service

import (
	"context"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/talentflow/talentflow/internal/api/dto"
	"github.com/talentflow/talentflow/internal/domain/history"
	"github.com/talentflow/talentflow/internal/domain/lifecycle"
	"github.com/talentflow/talentflow/internal/domain/shift"
	ierr "github.com/talentflow/talentflow/internal/errors"
	"github.com/talentflow/talentflow/internal/types"
)

type ShiftService interface {
	CreateShift(ctx context.Context, modelID string, req dto.CreateShiftRequest) (*dto.ShiftResponse, error)
	GetShift(ctx context.Context, modelID, id string) (*dto.ShiftResponse, error)
	ListShifts(ctx context.Context, modelID string, filter *types.ShiftFilter) (*dto.ListShiftsResponse, error)
	// UpdateShift applies the update and, when the shift ends up completed,
	// advances the model's lifecycle stage
	UpdateShift(ctx context.Context, modelID, id string, req dto.UpdateShiftRequest) (*dto.UpdateShiftResponse, error)
	DeleteShift(ctx context.Context, modelID, id string) error
	CheckEligibility(ctx context.Context, modelID, shiftType string) (*dto.ShiftEligibilityResponse, error)
}

type shiftService struct {
	ServiceParams
	sync SyncService
}

func NewShiftService(params ServiceParams) ShiftService {
	return &shiftService{
		ServiceParams: params,
		sync:          NewSyncService(params),
	}
}

func (s *shiftService) CreateShift(ctx context.Context, modelID string, req dto.CreateShiftRequest) (*dto.ShiftResponse, error) {
	if err := validateModelID(modelID); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	m, err := s.ModelRepo.Get(ctx, modelID)
	if err != nil {
		return nil, err
	}

	eligibility := s.StatusManager.CanCreateShift(m.Stage(), shift.Type(req.Type))
	if !eligibility.Allowed {
		return nil, ierr.NewError("shift type not allowed for model stage").
			WithHint(eligibility.Reason).
			WithReportableDetails(map[string]any{
				"model_id": m.ID,
				"stage":    m.Stage(),
				"type":     req.Type,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	sh := req.ToShift(ctx, m.ID)
	if err := s.ShiftRepo.Create(ctx, sh); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, types.EventShiftCreated, types.EntityTypeShift, sh.ID, map[string]any{
		"model_id": m.ID,
		"type":     sh.Type,
	})

	return &dto.ShiftResponse{Shift: sh}, nil
}

func (s *shiftService) GetShift(ctx context.Context, modelID, id string) (*dto.ShiftResponse, error) {
	if err := validateShiftKey(modelID, id); err != nil {
		return nil, err
	}

	sh, err := s.ShiftRepo.Get(ctx, modelID, id)
	if err != nil {
		return nil, err
	}
	return &dto.ShiftResponse{Shift: sh}, nil
}

func (s *shiftService) ListShifts(ctx context.Context, modelID string, filter *types.ShiftFilter) (*dto.ListShiftsResponse, error) {
	if err := validateModelID(modelID); err != nil {
		return nil, err
	}
	if filter == nil {
		filter = &types.ShiftFilter{}
	}
	if filter.Type != "" && !shift.Type(filter.Type).Validate() {
		return nil, ierr.NewErrorf("unknown shift type %q", filter.Type).
			WithHint("Shift type must be training or regular").
			Mark(ierr.ErrValidation)
	}
	if filter.Status != "" && !shift.Status(filter.Status).Validate() {
		return nil, ierr.NewErrorf("unknown shift status %q", filter.Status).
			WithHint("Shift status must be scheduled, completed or cancelled").
			Mark(ierr.ErrValidation)
	}

	// the whole set is needed for the total, pagination happens here
	window := filter.QueryFilter
	filter.QueryFilter = nil
	shifts, err := s.ShiftRepo.List(ctx, modelID, filter)
	if err != nil {
		return nil, err
	}

	items := lo.Map(types.Paginate(shifts, window.GetLimit(), window.GetOffset()), func(sh *shift.Shift, _ int) *dto.ShiftResponse {
		return &dto.ShiftResponse{Shift: sh}
	})
	response := types.NewListResponse(items, len(shifts), window.GetLimit(), window.GetOffset())
	return &response, nil
}

func (s *shiftService) UpdateShift(ctx context.Context, modelID, id string, req dto.UpdateShiftRequest) (*dto.UpdateShiftResponse, error) {
	if err := validateShiftKey(modelID, id); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sh, err := s.ShiftRepo.Get(ctx, modelID, id)
	if err != nil {
		return nil, err
	}

	if req.Date != nil {
		sh.Date = strings.TrimSpace(*req.Date)
	}
	if req.Start != nil {
		sh.Start = *req.Start
	}
	if req.End != nil {
		sh.End = *req.End
	}
	if err := types.ValidateClockRange(sh.Start, sh.End); err != nil {
		return nil, err
	}
	if req.EmployeeID != nil {
		sh.EmployeeID = lo.EmptyableToPtr(*req.EmployeeID)
	}
	if req.Comment != nil {
		sh.Comment = *req.Comment
	}

	completing := false
	if req.Status != nil {
		next := shift.Status(*req.Status)
		completing = next == shift.StatusCompleted
		if completing && sh.CompletedAt == nil {
			sh.CompletedAt = lo.ToPtr(time.Now().UTC())
		}
		if !completing {
			sh.CompletedAt = nil
		}
		sh.Status = next
	}

	sh.Touch(ctx)
	if err := s.ShiftRepo.Update(ctx, sh); err != nil {
		return nil, err
	}

	eventName := types.EventShiftUpdated
	if completing {
		eventName = types.EventShiftCompleted
	}
	s.publishEvent(ctx, eventName, types.EntityTypeShift, sh.ID, map[string]any{
		"model_id": sh.ModelID,
		"status":   sh.Status,
	})

	response := &dto.UpdateShiftResponse{ShiftResponse: &dto.ShiftResponse{Shift: sh}}
	if !completing {
		return response, nil
	}

	change, err := s.advanceLifecycle(ctx, sh)
	if err != nil {
		return nil, err
	}
	response.StageChange = change
	return response, nil
}

// advanceLifecycle recounts the completed shifts of the model and applies
// the resulting stage. Counting from the full set keeps re-marking a
// completed shift from counting twice.
func (s *shiftService) advanceLifecycle(ctx context.Context, sh *shift.Shift) (*dto.StageChange, error) {
	m, err := s.ModelRepo.Get(ctx, sh.ModelID)
	if err != nil {
		return nil, err
	}

	shifts, err := s.ShiftRepo.List(ctx, sh.ModelID, &types.ShiftFilter{
		QueryFilter: types.NewNoLimitQueryFilter(),
	})
	if err != nil {
		return nil, err
	}

	stats := lifecycle.CountShifts(shifts)
	current := m.Stage()
	next := s.StatusManager.CalculateNewStatus(current, sh.Type, stats)
	if next == current {
		s.Logger.Debugw("lifecycle unchanged after shift completion",
			"model_id", m.ID,
			"shift_id", sh.ID,
			"stage", current,
			"stats", stats.String(),
		)
		return nil, nil
	}

	description := s.StatusManager.DescribeTransition(current, next, sh.Type)
	m.Status = next
	m.History.Append(history.NewEntry(ctx, history.EntryLifecycleTransition, description).
		WithDiff(map[string]history.Change{
			"status": {From: current, To: next},
		}).
		WithMetadata(map[string]any{
			"shift_id":                  sh.ID,
			"shift_type":                sh.Type,
			"training_shifts_completed": stats.TrainingShiftsCompleted,
			"regular_shifts_completed":  stats.RegularShiftsCompleted,
		}))
	m.Touch(ctx)

	if err := s.ModelRepo.Update(ctx, m); err != nil {
		return nil, err
	}

	s.Logger.Infow("model stage advanced",
		"model_id", m.ID,
		"from", current,
		"to", next,
		"shift_id", sh.ID,
	)
	s.publishEvent(ctx, types.EventModelStageAdvanced, types.EntityTypeModel, m.ID, map[string]any{
		"from":     current,
		"to":       next,
		"shift_id": sh.ID,
	})

	if m.IsSlotLinked() {
		ref := m.Registration.SlotRef
		s.Sentry.AddBreadcrumb("lifecycle", description, map[string]interface{}{
			"model_id": m.ID,
			"slot_id":  ref.ID,
			"from":     string(current),
			"to":       string(next),
		})
		// the stage is not a slot axis; this only repairs earlier vector drift
		s.sync.BestEffort(ctx, "shift.statuses_to_slot",
			s.sync.SyncModelSlotStatuses(ctx, m.ID, ref.ID, ref.Date, m.Vector))
	}

	return &dto.StageChange{
		From:        current,
		To:          next,
		Description: description,
	}, nil
}

func (s *shiftService) DeleteShift(ctx context.Context, modelID, id string) error {
	if err := validateShiftKey(modelID, id); err != nil {
		return err
	}

	if err := s.ShiftRepo.Delete(ctx, modelID, id); err != nil {
		return err
	}

	s.publishEvent(ctx, types.EventShiftDeleted, types.EntityTypeShift, id, map[string]any{"model_id": modelID})
	return nil
}

func (s *shiftService) CheckEligibility(ctx context.Context, modelID, shiftType string) (*dto.ShiftEligibilityResponse, error) {
	if err := validateModelID(modelID); err != nil {
		return nil, err
	}
	if !shift.Type(shiftType).Validate() {
		return nil, ierr.NewErrorf("unknown shift type %q", shiftType).
			WithHint("Shift type must be training or regular").
			Mark(ierr.ErrValidation)
	}

	m, err := s.ModelRepo.Get(ctx, modelID)
	if err != nil {
		return nil, err
	}

	return &dto.ShiftEligibilityResponse{
		Eligibility: s.StatusManager.CanCreateShift(m.Stage(), shift.Type(shiftType)),
		Stage:       m.Stage(),
		Type:        shift.Type(shiftType),
	}, nil
}

func validateShiftKey(modelID, id string) error {
	if err := validateModelID(modelID); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return ierr.NewError("shift id is required").
			WithHint("Shift ID is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}
