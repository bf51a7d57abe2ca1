package service

import (
	"context"
	"strings"

	"github.com/samber/lo"
	"github.com/talentflow/talentflow/internal/api/dto"
	"github.com/talentflow/talentflow/internal/domain/datablock"
	"github.com/talentflow/talentflow/internal/domain/history"
	"github.com/talentflow/talentflow/internal/domain/lifecycle"
	"github.com/talentflow/talentflow/internal/domain/model"
	ierr "github.com/talentflow/talentflow/internal/errors"
	"github.com/talentflow/talentflow/internal/types"
)

type ModelService interface {
	CreateModel(ctx context.Context, req dto.CreateModelRequest) (*dto.ModelResponse, error)
	GetModel(ctx context.Context, id string) (*dto.ModelResponse, error)
	ListModels(ctx context.Context, filter *types.ModelFilter) (*dto.ListModelsResponse, error)
	UpdateModel(ctx context.Context, id string, req dto.UpdateModelRequest) (*dto.ModelResponse, error)
	DeleteModel(ctx context.Context, id string) error
	AddComment(ctx context.Context, id string, req dto.AddCommentRequest) (*dto.ModelResponse, error)
	GetHistory(ctx context.Context, id string) (*dto.HistoryResponse, error)
}

type modelService struct {
	ServiceParams
	sync SyncService
}

func NewModelService(params ServiceParams) ModelService {
	return &modelService{
		ServiceParams: params,
		sync:          NewSyncService(params),
	}
}

func (s *modelService) CreateModel(ctx context.Context, req dto.CreateModelRequest) (*dto.ModelResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	m := req.ToModel(ctx)
	if req.DataBlock != nil {
		m.DataBlock, _ = datablock.Merge(m.DataBlock, req.DataBlock, datablock.MergeOptions{})
		m.ApplyFields(datablock.ExtractFields(m.DataBlock))
	}
	m.History.Append(history.NewEntry(ctx, history.EntryCreated, "Model created").
		WithMetadata(map[string]any{
			"status": m.Status,
		}))

	if err := s.ModelRepo.Create(ctx, m); err != nil {
		return nil, err
	}

	s.Logger.Infow("model created", "model_id", m.ID, "status", m.Status)
	s.publishEvent(ctx, types.EventModelCreated, types.EntityTypeModel, m.ID, nil)

	return dto.NewModelResponse(m), nil
}

func (s *modelService) GetModel(ctx context.Context, id string) (*dto.ModelResponse, error) {
	if err := validateModelID(id); err != nil {
		return nil, err
	}

	m, err := s.ModelRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewModelResponse(m), nil
}

func (s *modelService) ListModels(ctx context.Context, filter *types.ModelFilter) (*dto.ListModelsResponse, error) {
	if filter == nil {
		filter = &types.ModelFilter{}
	}
	if filter.QueryFilter == nil {
		filter.QueryFilter = types.NewDefaultQueryFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invalid model filter").
			Mark(ierr.ErrValidation)
	}
	if filter.Stage != "" && !lifecycle.Stage(filter.Stage).Validate() {
		return nil, ierr.NewErrorf("unknown stage %q", filter.Stage).
			WithHint("Unknown lifecycle stage").
			WithReportableDetails(map[string]any{
				"stage": filter.Stage,
			}).
			Mark(ierr.ErrValidation)
	}

	models, err := s.ModelRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.ModelRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := lo.Map(models, func(m *model.Model, _ int) *dto.ModelResponse {
		return dto.NewModelResponse(m)
	})
	response := types.NewListResponse(items, total, filter.GetLimit(), filter.GetOffset())
	return &response, nil
}

func (s *modelService) UpdateModel(ctx context.Context, id string, req dto.UpdateModelRequest) (*dto.ModelResponse, error) {
	if err := validateModelID(id); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	m, err := s.ModelRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	entriesBefore := m.History.Len()
	var statusChanged, nameChanged, dataChanged bool

	if !req.StatusFields.IsEmpty() {
		current := m.Statuses()
		next := req.StatusFields.Apply(current)
		if diff := current.Diff(next); len(diff) > 0 {
			m.Vector = next
			m.History.Append(history.NewEntry(ctx, history.EntryStatusChange, "Statuses changed").
				WithDiff(statusHistoryDiff(diff)))
			statusChanged = true
		}
	}

	if req.Stage != nil && lifecycle.Stage(*req.Stage) != m.Stage() {
		from, to := m.Stage(), lifecycle.Stage(*req.Stage)
		m.Status = to
		m.History.Append(history.NewEntry(ctx, history.EntryLifecycleTransition,
			"Stage set from "+from.Label()+" to "+to.Label()).
			WithDiff(map[string]history.Change{
				"status": {From: from, To: to},
			}).
			WithMetadata(map[string]any{
				"manual": true,
			}))
	}

	diff := map[string]history.Change{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name != "" && name != m.Name {
			diff["name"] = history.Change{From: m.Name, To: name}
			m.Name = name
			nameChanged = true
		}
	}
	if req.FullName != nil && *req.FullName != m.FullName {
		diff["full_name"] = history.Change{From: m.FullName, To: *req.FullName}
		m.FullName = *req.FullName
	}
	if req.InternshipDate != nil && lo.FromPtr(m.InternshipDate) != *req.InternshipDate {
		diff["internship_date"] = history.Change{From: m.InternshipDate, To: *req.InternshipDate}
		m.InternshipDate = lo.EmptyableToPtr(*req.InternshipDate)
	}
	before := m.Contacts
	if req.ApplyContacts(&m.Contacts) {
		diff["contacts"] = history.Change{From: before, To: m.Contacts}
	}
	registration := m.Registration
	if req.ApplyRegistration(&m.Registration) {
		diff["registration"] = history.Change{
			From: registrationFields(registration),
			To:   registrationFields(m.Registration),
		}
	}

	var dataFields, attributes []string
	if req.DataBlock != nil {
		merged, changes := datablock.Merge(m.DataBlock, req.DataBlock, datablock.MergeOptions{
			RecordEdit: true,
			EditedBy:   lo.ToPtr(types.GetActorID(ctx)),
		})
		if len(changes) > 0 || !merged.Equal(m.DataBlock) {
			m.DataBlock = merged
			dataFields = datablock.ChangedFields(changes)
			attributes = m.ApplyFields(datablock.ExtractFields(merged))
			dataChanged = true
		}
	}

	if len(diff) > 0 || dataChanged {
		entry := history.NewEntry(ctx, history.EntryUpdated, "Model updated")
		if len(diff) > 0 {
			entry = entry.WithDiff(diff)
		}
		if dataChanged {
			entry = entry.WithMetadata(map[string]any{
				"data_fields": dataFields,
				"attributes":  attributes,
			})
		}
		m.History.Append(entry)
	}

	if nameChanged && m.IsSlotLinked() {
		// the slot title follows the name, keep the snapshot in step
		m.Registration.SlotRef.Title = m.Name
	}

	if m.History.Len() > entriesBefore {
		m.Touch(ctx)
		if err := s.ModelRepo.Update(ctx, m); err != nil {
			return nil, err
		}
		s.publishEvent(ctx, types.EventModelUpdated, types.EntityTypeModel, m.ID, nil)
	}

	if m.IsSlotLinked() {
		ref := m.Registration.SlotRef
		if statusChanged {
			s.sync.BestEffort(ctx, "model.statuses_to_slot",
				s.sync.SyncModelSlotStatuses(ctx, m.ID, ref.ID, ref.Date, m.Vector))
		}
		if nameChanged {
			s.sync.BestEffort(ctx, "model.title_to_slot", s.sync.SyncTitleToSlot(ctx, m))
		}
		if req.SyncToSlot {
			s.sync.BestEffort(ctx, "model.data_to_slot", s.sync.SyncDataBlockToSlot(ctx, m))
		}
	}

	return dto.NewModelResponse(m), nil
}

func (s *modelService) DeleteModel(ctx context.Context, id string) error {
	if err := validateModelID(id); err != nil {
		return err
	}

	m, err := s.ModelRepo.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.ModelRepo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.ShiftRepo.DeleteByModel(ctx, id); err != nil {
		s.Logger.Warnw("failed to delete shifts of deleted model",
			"model_id", id,
			"error", err,
		)
	}

	s.Logger.Infow("model deleted", "model_id", id)
	s.publishEvent(ctx, types.EventModelDeleted, types.EntityTypeModel, id, nil)

	if m.IsSlotLinked() {
		ref := m.Registration.SlotRef
		s.sync.BestEffort(ctx, "model.delete_unlink_slot", s.sync.ClearModelLink(ctx, ref.Date, ref.ID, m.ID))
	}
	return nil
}

func (s *modelService) AddComment(ctx context.Context, id string, req dto.AddCommentRequest) (*dto.ModelResponse, error) {
	if err := validateModelID(id); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	m, err := s.ModelRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	comment := req.ToComment(ctx)
	m.Comments = append(m.Comments, comment)
	m.History.Append(history.NewEntry(ctx, history.EntryCommentAdded, "Comment added").
		WithMetadata(map[string]any{
			"comment_id": comment.ID,
		}))
	m.Touch(ctx)

	if err := s.ModelRepo.Update(ctx, m); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, types.EventModelUpdated, types.EntityTypeModel, m.ID, map[string]any{"comment_id": comment.ID})

	return dto.NewModelResponse(m), nil
}

func (s *modelService) GetHistory(ctx context.Context, id string) (*dto.HistoryResponse, error) {
	if err := validateModelID(id); err != nil {
		return nil, err
	}

	m, err := s.ModelRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	entries := m.History.Entries()
	return &dto.HistoryResponse{
		Items: entries,
		Total: len(entries),
	}, nil
}

func registrationFields(r model.Registration) map[string]string {
	return map[string]string{
		"birth_date": r.BirthDate,
		"doc_type":   r.DocType,
		"doc_number": r.DocNumber,
		"comment":    r.Comment,
	}
}

func validateModelID(id string) error {
	if strings.TrimSpace(id) == "" {
		return ierr.NewError("model id is required").
			WithHint("Model ID is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}
