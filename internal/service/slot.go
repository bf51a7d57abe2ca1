package service

import (
	"context"
	"strings"

	"github.com/samber/lo"
	"github.com/talentflow/talentflow/internal/api/dto"
	"github.com/talentflow/talentflow/internal/domain/datablock"
	"github.com/talentflow/talentflow/internal/domain/history"
	"github.com/talentflow/talentflow/internal/domain/model"
	"github.com/talentflow/talentflow/internal/domain/slot"
	"github.com/talentflow/talentflow/internal/domain/status"
	ierr "github.com/talentflow/talentflow/internal/errors"
	"github.com/talentflow/talentflow/internal/types"
)

type SlotService interface {
	CreateSlot(ctx context.Context, req dto.CreateSlotRequest) (*dto.SlotResponse, error)
	GetSlot(ctx context.Context, date, id string) (*dto.SlotResponse, error)
	ListSlots(ctx context.Context, filter *types.SlotFilter) (*dto.ListSlotsResponse, error)
	UpdateSlot(ctx context.Context, date, id string, req dto.UpdateSlotRequest) (*dto.SlotResponse, error)
	DeleteSlot(ctx context.Context, date, id string) error
	RegisterModel(ctx context.Context, date, id string, req dto.RegisterModelRequest) (*dto.RegisterModelResponse, error)
	LinkModel(ctx context.Context, date, id string, req dto.LinkModelRequest) (*dto.LinkResponse, error)
	UnlinkModel(ctx context.Context, date, id string) (*dto.LinkResponse, error)
}

type slotService struct {
	ServiceParams
	sync SyncService
}

func NewSlotService(params ServiceParams) SlotService {
	return &slotService{
		ServiceParams: params,
		sync:          NewSyncService(params),
	}
}

func (s *slotService) CreateSlot(ctx context.Context, req dto.CreateSlotRequest) (*dto.SlotResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sl := req.ToSlot(ctx)
	sl.History.Append(history.NewEntry(ctx, history.EntryCreated, "Slot created").
		WithMetadata(map[string]any{
			"date":  sl.Date,
			"start": sl.Start,
			"end":   sl.End,
		}))

	if err := s.SlotRepo.Create(ctx, sl); err != nil {
		return nil, err
	}

	s.Logger.Infow("slot created", "slot_id", sl.ID, "date", sl.Date)
	s.publishEvent(ctx, types.EventSlotCreated, types.EntityTypeSlot, sl.ID, map[string]any{"date": sl.Date})

	return dto.NewSlotResponse(sl), nil
}

func (s *slotService) GetSlot(ctx context.Context, date, id string) (*dto.SlotResponse, error) {
	if err := validateSlotKey(date, id); err != nil {
		return nil, err
	}

	sl, err := s.SlotRepo.Get(ctx, date, id)
	if err != nil {
		return nil, err
	}
	return dto.NewSlotResponse(sl), nil
}

func (s *slotService) ListSlots(ctx context.Context, filter *types.SlotFilter) (*dto.ListSlotsResponse, error) {
	if filter == nil || filter.Date == "" {
		return nil, ierr.NewError("date is required").
			WithHint("Slots are listed per day, pass a date").
			Mark(ierr.ErrValidation)
	}
	if filter.QueryFilter == nil {
		filter.QueryFilter = types.NewDefaultQueryFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invalid slot filter").
			Mark(ierr.ErrValidation)
	}

	slots, err := s.SlotRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.SlotRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := lo.Map(slots, func(sl *slot.Slot, _ int) *dto.SlotResponse {
		return dto.NewSlotResponse(sl)
	})
	response := types.NewListResponse(items, total, filter.GetLimit(), filter.GetOffset())
	return &response, nil
}

func (s *slotService) UpdateSlot(ctx context.Context, date, id string, req dto.UpdateSlotRequest) (*dto.SlotResponse, error) {
	if err := validateSlotKey(date, id); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sl, err := s.SlotRepo.Get(ctx, date, id)
	if err != nil {
		return nil, err
	}

	var statusChanged, titleChanged, scheduleChanged, dataChanged bool

	if !req.StatusFields.IsEmpty() {
		current := sl.Statuses()
		next := req.StatusFields.Apply(current)
		if diff := current.Diff(next); len(diff) > 0 {
			sl.Vector = next
			sl.History.Append(history.NewEntry(ctx, history.EntryStatusChange, "Statuses changed").
				WithDiff(statusHistoryDiff(diff)))
			statusChanged = true
		}
	}

	diff := map[string]history.Change{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title != sl.Title {
			diff["title"] = history.Change{From: sl.Title, To: title}
			sl.Title = title
			titleChanged = true
		}
	}
	if req.Start != nil && *req.Start != sl.Start {
		diff["start"] = history.Change{From: sl.Start, To: *req.Start}
		sl.Start = *req.Start
		scheduleChanged = true
	}
	if req.End != nil && *req.End != sl.End {
		diff["end"] = history.Change{From: sl.End, To: *req.End}
		sl.End = *req.End
		scheduleChanged = true
	}
	if scheduleChanged {
		if err := types.ValidateClockRange(sl.Start, sl.End); err != nil {
			return nil, err
		}
	}
	if req.EmployeeID != nil && lo.FromPtr(sl.EmployeeID) != *req.EmployeeID {
		diff["employee_id"] = history.Change{From: sl.EmployeeID, To: *req.EmployeeID}
		sl.EmployeeID = lo.EmptyableToPtr(*req.EmployeeID)
	}

	var changedFields []string
	if req.DataBlock != nil {
		merged, changes := datablock.Merge(sl.DataBlock, req.DataBlock, datablock.MergeOptions{
			RecordEdit: true,
			EditedBy:   lo.ToPtr(types.GetActorID(ctx)),
		})
		if len(changes) > 0 || !merged.Equal(sl.DataBlock) {
			sl.DataBlock = merged
			changedFields = datablock.ChangedFields(changes)
			dataChanged = true
		}
	}

	if len(diff) > 0 || dataChanged {
		entry := history.NewEntry(ctx, history.EntryUpdated, "Slot updated")
		if len(diff) > 0 {
			entry = entry.WithDiff(diff)
		}
		if dataChanged {
			entry = entry.WithMetadata(map[string]any{"data_fields": changedFields})
		}
		sl.History.Append(entry)
	}

	if !statusChanged && len(diff) == 0 && !dataChanged {
		return dto.NewSlotResponse(sl), nil
	}

	sl.Touch(ctx)
	if err := s.SlotRepo.Update(ctx, sl); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, types.EventSlotUpdated, types.EntityTypeSlot, sl.ID, map[string]any{"date": sl.Date})

	if sl.IsLinked() {
		if statusChanged {
			s.sync.BestEffort(ctx, "slot.statuses_to_model",
				s.sync.SyncSlotModelStatuses(ctx, sl.ID, sl.Date, *sl.ModelID, sl.Vector))
		}
		if titleChanged || scheduleChanged {
			s.sync.BestEffort(ctx, "slot.ref_to_model", s.sync.SyncSlotRef(ctx, sl))
		}
		if dataChanged {
			s.sync.BestEffort(ctx, "slot.data_to_model", s.sync.SyncDataBlockToModel(ctx, sl))
		}
	}

	return dto.NewSlotResponse(sl), nil
}

func (s *slotService) DeleteSlot(ctx context.Context, date, id string) error {
	if err := validateSlotKey(date, id); err != nil {
		return err
	}

	sl, err := s.SlotRepo.Get(ctx, date, id)
	if err != nil {
		return err
	}

	if err := s.SlotRepo.Delete(ctx, date, id); err != nil {
		return err
	}

	s.Logger.Infow("slot deleted", "slot_id", id, "date", date)
	s.publishEvent(ctx, types.EventSlotDeleted, types.EntityTypeSlot, id, map[string]any{"date": date})

	if sl.IsLinked() {
		s.sync.BestEffort(ctx, "slot.delete_unlink_model", s.sync.ClearSlotRef(ctx, *sl.ModelID, sl.ID))
	}
	return nil
}

// RegisterModel creates a model from the slot and links both sides. The model
// is the primary write; linking the slot back is best effort.
func (s *slotService) RegisterModel(ctx context.Context, date, id string, req dto.RegisterModelRequest) (*dto.RegisterModelResponse, error) {
	if err := validateSlotKey(date, id); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sl, err := s.SlotRepo.Get(ctx, date, id)
	if err != nil {
		return nil, err
	}
	if sl.IsLinked() {
		return nil, ierr.NewError("slot already has a registered model").
			WithHint("Unlink the current model before registering a new one").
			WithReportableDetails(map[string]any{
				"slot_id":  sl.ID,
				"model_id": *sl.ModelID,
			}).
			Mark(ierr.ErrAlreadyExists)
	}

	name := strings.TrimSpace(lo.FromPtr(req.Name))
	if name == "" {
		name = sl.Title
	}
	if name == "" {
		return nil, ierr.NewError("name is required").
			WithHint("The slot has no title, pass a model name").
			Mark(ierr.ErrValidation)
	}

	vec := req.Statuses.Apply(sl.Statuses()).Set(status.AxisRegistration, status.Registration)
	snapshot := vec

	m := model.New(ctx, name)
	m.Vector = vec
	m.Contacts.Email = req.Email
	m.Registration.SlotRef = sl.Ref()
	m.Registration.Comment = req.Comment
	m.Registration.Statuses = &snapshot
	m.DataBlock, _ = datablock.Merge(m.DataBlock, sl.DataBlock, datablock.MergeOptions{})
	m.ApplyFields(datablock.ExtractFields(m.DataBlock))
	m.History.Append(history.NewEntry(ctx, history.EntryRegisteredFromSlot, "Registered from slot").
		WithMetadata(map[string]any{
			"slot_id":   sl.ID,
			"slot_date": sl.Date,
		}))

	if err := s.ModelRepo.Create(ctx, m); err != nil {
		return nil, err
	}

	s.Logger.Infow("model registered from slot", "model_id", m.ID, "slot_id", sl.ID)
	s.publishEvent(ctx, types.EventModelRegistered, types.EntityTypeModel, m.ID, map[string]any{"slot_id": sl.ID})

	current := sl.Statuses()
	slotVec := current.Set(status.AxisRegistration, status.Registration)
	entry := history.NewEntry(ctx, history.EntryModelRegistered, "Model registered").
		WithMetadata(map[string]any{
			"model_id": m.ID,
		})
	if diff := current.Diff(slotVec); len(diff) > 0 {
		entry = entry.WithDiff(statusHistoryDiff(diff))
	}
	sl.Vector = slotVec
	sl.ModelID = lo.ToPtr(m.ID)
	sl.History.Append(entry)
	sl.Touch(ctx)

	if err := s.SlotRepo.Update(ctx, sl); err != nil {
		s.sync.BestEffort(ctx, "slot.register_link_slot", err)
	} else {
		s.publishEvent(ctx, types.EventSlotLinked, types.EntityTypeSlot, sl.ID, map[string]any{"model_id": m.ID})
	}

	return &dto.RegisterModelResponse{
		Slot:  dto.NewSlotResponse(sl),
		Model: dto.NewModelResponse(m),
	}, nil
}

// LinkModel links an existing model to the slot. The slot is the primary
// write; the model snapshot, title and statuses follow best effort.
func (s *slotService) LinkModel(ctx context.Context, date, id string, req dto.LinkModelRequest) (*dto.LinkResponse, error) {
	if err := validateSlotKey(date, id); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sl, err := s.SlotRepo.Get(ctx, date, id)
	if err != nil {
		return nil, err
	}
	m, err := s.ModelRepo.Get(ctx, req.ModelID)
	if err != nil {
		return nil, err
	}

	if sl.IsLinked() && *sl.ModelID != m.ID {
		return nil, ierr.NewError("slot is linked to another model").
			WithHint("Unlink the current model first").
			WithReportableDetails(map[string]any{
				"slot_id":  sl.ID,
				"model_id": *sl.ModelID,
			}).
			Mark(ierr.ErrInvalidOperation)
	}
	if m.IsSlotLinked() && m.Registration.SlotRef.ID != sl.ID {
		return nil, ierr.NewError("model is linked to another slot").
			WithHint("Unlink the model from its current slot first").
			WithReportableDetails(map[string]any{
				"model_id": m.ID,
				"slot_id":  m.Registration.SlotRef.ID,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	if !sl.IsLinked() {
		sl.ModelID = lo.ToPtr(m.ID)
		sl.History.Append(history.NewEntry(ctx, history.EntryLinked, "Linked to model").
			WithMetadata(map[string]any{
				"model_id": m.ID,
			}))
		sl.Touch(ctx)
		if err := s.SlotRepo.Update(ctx, sl); err != nil {
			return nil, err
		}
		s.publishEvent(ctx, types.EventSlotLinked, types.EntityTypeSlot, sl.ID, map[string]any{"model_id": m.ID})
	}

	if !m.IsSlotLinked() {
		s.sync.BestEffort(ctx, "slot.link_model", s.sync.LinkModel(ctx, sl, m.ID))
	}
	if req.SyncTitle {
		s.sync.BestEffort(ctx, "slot.title_to_model", s.sync.SyncTitleToModel(ctx, sl, m.ID))
	}
	s.sync.BestEffort(ctx, "slot.statuses_to_model",
		s.sync.SyncSlotModelStatuses(ctx, sl.ID, sl.Date, m.ID, sl.Vector))

	// reread so the response shows what propagation actually stored
	if fresh, err := s.ModelRepo.Get(ctx, m.ID); err == nil {
		m = fresh
	}

	return &dto.LinkResponse{
		Slot:  dto.NewSlotResponse(sl),
		Model: dto.NewModelResponse(m),
	}, nil
}

func (s *slotService) UnlinkModel(ctx context.Context, date, id string) (*dto.LinkResponse, error) {
	if err := validateSlotKey(date, id); err != nil {
		return nil, err
	}

	sl, err := s.SlotRepo.Get(ctx, date, id)
	if err != nil {
		return nil, err
	}
	if !sl.IsLinked() {
		return nil, ierr.NewError("slot is not linked").
			WithHint("The slot has no linked model").
			Mark(ierr.ErrInvalidOperation)
	}

	modelID := *sl.ModelID
	sl.ModelID = nil
	sl.History.Append(history.NewEntry(ctx, history.EntryUnlinked, "Unlinked from model").
		WithMetadata(map[string]any{
			"model_id": modelID,
		}))
	sl.Touch(ctx)

	if err := s.SlotRepo.Update(ctx, sl); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, types.EventSlotUpdated, types.EntityTypeSlot, sl.ID, map[string]any{"unlinked_model_id": modelID})

	s.sync.BestEffort(ctx, "slot.unlink_model", s.sync.ClearSlotRef(ctx, modelID, sl.ID))

	return &dto.LinkResponse{Slot: dto.NewSlotResponse(sl)}, nil
}

func validateSlotKey(date, id string) error {
	if strings.TrimSpace(id) == "" {
		return ierr.NewError("slot id is required").
			WithHint("Slot ID is required").
			Mark(ierr.ErrValidation)
	}
	return types.ValidateDate(date)
}
