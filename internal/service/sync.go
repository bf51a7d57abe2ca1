package service

import (
	"context"

	"github.com/samber/lo"
	"github.com/talentflow/talentflow/internal/domain/datablock"
	"github.com/talentflow/talentflow/internal/domain/history"
	"github.com/talentflow/talentflow/internal/domain/model"
	"github.com/talentflow/talentflow/internal/domain/slot"
	"github.com/talentflow/talentflow/internal/domain/status"
	ierr "github.com/talentflow/talentflow/internal/errors"
	"github.com/talentflow/talentflow/internal/types"
)

// SyncService keeps a linked slot and model consistent. Every method writes
// the counterpart through its repository directly, so a propagation never
// triggers the reverse propagation. Callers detect real changes before
// calling and route returned errors through BestEffort.
type SyncService interface {
	// SyncSlotModelStatuses copies a slot's status vector onto its model
	SyncSlotModelStatuses(ctx context.Context, slotID, slotDate, modelID string, vec status.Vector) error
	// SyncModelSlotStatuses copies a model's status vector onto its slot
	SyncModelSlotStatuses(ctx context.Context, modelID, slotID, slotDate string, vec status.Vector) error
	// SyncTitleToSlot copies the model name onto the slot title
	SyncTitleToSlot(ctx context.Context, m *model.Model) error
	// SyncTitleToModel copies the slot title onto the model name
	SyncTitleToModel(ctx context.Context, s *slot.Slot, modelID string) error
	// SyncDataBlockToModel merges the slot data block into the model's
	SyncDataBlockToModel(ctx context.Context, s *slot.Slot) error
	// SyncDataBlockToSlot merges the model data block into the slot's
	SyncDataBlockToSlot(ctx context.Context, m *model.Model) error
	// SyncSlotRef refreshes the slot snapshot kept on the model
	SyncSlotRef(ctx context.Context, s *slot.Slot) error
	// LinkModel points the model's slot snapshot at s
	LinkModel(ctx context.Context, s *slot.Slot, modelID string) error
	// ClearSlotRef removes the model's snapshot of slotID
	ClearSlotRef(ctx context.Context, modelID, slotID string) error
	// ClearModelLink removes the slot's back-reference to modelID
	ClearModelLink(ctx context.Context, slotDate, slotID, modelID string) error
	// BestEffort records a failed propagation without surfacing it
	BestEffort(ctx context.Context, op string, err error)
}

type syncService struct {
	ServiceParams
}

func NewSyncService(params ServiceParams) SyncService {
	return &syncService{
		ServiceParams: params,
	}
}

func (s *syncService) enabled() bool {
	return s.Config == nil || s.Config.Sync.Enabled
}

func (s *syncService) SyncSlotModelStatuses(ctx context.Context, slotID, slotDate, modelID string, vec status.Vector) error {
	if !s.enabled() {
		return nil
	}
	if slotID == "" || modelID == "" {
		return ierr.NewError("slot and model ids are required").
			WithHint("Status sync needs both the slot and the model").
			Mark(ierr.ErrValidation)
	}

	m, err := s.linkedModel(ctx, modelID, slotID)
	if err != nil {
		return err
	}

	current := m.Statuses()
	next := status.Normalize(vec)
	diff := current.Diff(next)
	if len(diff) == 0 {
		return nil
	}

	m.Vector = next
	m.History.Append(history.NewEntry(ctx, history.EntryStatusSyncFromSlot, "Statuses synced from slot").
		WithDiff(statusHistoryDiff(diff)).
		WithMetadata(map[string]any{
			"slot_id":   slotID,
			"slot_date": slotDate,
		}))
	m.Touch(ctx)

	return s.ModelRepo.Update(ctx, m)
}

func (s *syncService) SyncModelSlotStatuses(ctx context.Context, modelID, slotID, slotDate string, vec status.Vector) error {
	if !s.enabled() {
		return nil
	}
	if slotID == "" || slotDate == "" || modelID == "" {
		return ierr.NewError("slot and model ids are required").
			WithHint("Status sync needs both the slot and the model").
			Mark(ierr.ErrValidation)
	}

	sl, err := s.linkedSlot(ctx, slotDate, slotID, modelID)
	if err != nil {
		return err
	}

	current := sl.Statuses()
	next := status.Normalize(vec)
	diff := current.Diff(next)
	if len(diff) == 0 {
		return nil
	}

	sl.Vector = next
	sl.History.Append(history.NewEntry(ctx, history.EntryStatusSyncFromModel, "Statuses synced from model").
		WithDiff(statusHistoryDiff(diff)).
		WithMetadata(map[string]any{
			"model_id": modelID,
		}))
	sl.Touch(ctx)

	return s.SlotRepo.Update(ctx, sl)
}

func (s *syncService) SyncTitleToSlot(ctx context.Context, m *model.Model) error {
	if !s.enabled() || !m.IsSlotLinked() {
		return nil
	}

	ref := m.Registration.SlotRef
	sl, err := s.linkedSlot(ctx, ref.Date, ref.ID, m.ID)
	if err != nil {
		return err
	}
	if sl.Title == m.Name {
		return nil
	}

	sl.History.Append(history.NewEntry(ctx, history.EntryTitleSyncFromModel, "Title synced from model name").
		WithDiff(map[string]history.Change{
			"title": {From: sl.Title, To: m.Name},
		}).
		WithMetadata(map[string]any{
			"model_id": m.ID,
		}))
	sl.Title = m.Name
	sl.Touch(ctx)

	return s.SlotRepo.Update(ctx, sl)
}

func (s *syncService) SyncTitleToModel(ctx context.Context, sl *slot.Slot, modelID string) error {
	if !s.enabled() || sl.Title == "" {
		return nil
	}

	m, err := s.ModelRepo.Get(ctx, modelID)
	if err != nil {
		return err
	}
	if m.Name == sl.Title {
		return nil
	}

	m.History.Append(history.NewEntry(ctx, history.EntryTitleSyncFromSlot, "Name synced from slot title").
		WithDiff(map[string]history.Change{
			"name": {From: m.Name, To: sl.Title},
		}).
		WithMetadata(map[string]any{
			"slot_id":   sl.ID,
			"slot_date": sl.Date,
		}))
	m.Name = sl.Title
	if m.IsSlotLinked() && m.Registration.SlotRef.ID == sl.ID {
		m.Registration.SlotRef.Title = sl.Title
	}
	m.Touch(ctx)

	return s.ModelRepo.Update(ctx, m)
}

func (s *syncService) SyncDataBlockToModel(ctx context.Context, sl *slot.Slot) error {
	if !s.enabled() || !sl.IsLinked() {
		return nil
	}

	m, err := s.ModelRepo.Get(ctx, *sl.ModelID)
	if err != nil {
		return err
	}

	merged, changes := datablock.Merge(m.DataBlock, sl.DataBlock, datablock.MergeOptions{
		RecordEdit: true,
		EditedBy:   lo.ToPtr(types.GetActorID(ctx)),
	})
	applied := m.ApplyFields(datablock.ExtractFields(merged))
	if len(changes) == 0 && len(applied) == 0 && merged.Equal(m.DataBlock) {
		return nil
	}

	m.DataBlock = merged
	m.History.Append(history.NewEntry(ctx, history.EntryDataSyncFromSlot, "Data synced from slot").
		WithDiff(dataHistoryDiff(changes)).
		WithMetadata(map[string]any{
			"slot_id":    sl.ID,
			"slot_date":  sl.Date,
			"fields":     datablock.ChangedFields(changes),
			"attributes": applied,
		}))
	m.Touch(ctx)

	return s.ModelRepo.Update(ctx, m)
}

func (s *syncService) SyncDataBlockToSlot(ctx context.Context, m *model.Model) error {
	if !s.enabled() || !m.IsSlotLinked() {
		return nil
	}

	ref := m.Registration.SlotRef
	sl, err := s.linkedSlot(ctx, ref.Date, ref.ID, m.ID)
	if err != nil {
		return err
	}

	merged, changes := datablock.Merge(sl.DataBlock, m.DataBlock, datablock.MergeOptions{
		RecordEdit: true,
		EditedBy:   lo.ToPtr(types.GetActorID(ctx)),
	})
	if len(changes) == 0 && merged.Equal(sl.DataBlock) {
		return nil
	}

	sl.DataBlock = merged
	sl.History.Append(history.NewEntry(ctx, history.EntryDataSyncFromModel, "Data synced from model").
		WithDiff(dataHistoryDiff(changes)).
		WithMetadata(map[string]any{
			"model_id": m.ID,
			"fields":   datablock.ChangedFields(changes),
		}))
	sl.Touch(ctx)

	return s.SlotRepo.Update(ctx, sl)
}

func (s *syncService) SyncSlotRef(ctx context.Context, sl *slot.Slot) error {
	if !s.enabled() || !sl.IsLinked() {
		return nil
	}

	m, err := s.ModelRepo.Get(ctx, *sl.ModelID)
	if err != nil {
		return err
	}
	if m.IsSlotLinked() && m.Registration.SlotRef.ID != sl.ID {
		return staleLinkError(sl.ID, m.ID)
	}

	next := sl.Ref()
	diff := slotRefDiff(m.Registration.SlotRef, next)
	if len(diff) == 0 {
		return nil
	}

	m.Registration.SlotRef = next
	m.History.Append(history.NewEntry(ctx, history.EntrySlotRefSync, "Slot details synced").
		WithDiff(diff).
		WithMetadata(map[string]any{
			"slot_id": sl.ID,
		}))
	m.Touch(ctx)

	return s.ModelRepo.Update(ctx, m)
}

func (s *syncService) LinkModel(ctx context.Context, sl *slot.Slot, modelID string) error {
	m, err := s.ModelRepo.Get(ctx, modelID)
	if err != nil {
		return err
	}

	m.Registration.SlotRef = sl.Ref()
	m.History.Append(history.NewEntry(ctx, history.EntryLinked, "Linked to slot").
		WithMetadata(map[string]any{
			"slot_id":   sl.ID,
			"slot_date": sl.Date,
		}))
	m.Touch(ctx)

	return s.ModelRepo.Update(ctx, m)
}

func (s *syncService) ClearSlotRef(ctx context.Context, modelID, slotID string) error {
	m, err := s.ModelRepo.Get(ctx, modelID)
	if err != nil {
		return err
	}
	// the model may have been linked to another slot since
	if !m.IsSlotLinked() || m.Registration.SlotRef.ID != slotID {
		return nil
	}

	m.Registration.SlotRef = nil
	m.History.Append(history.NewEntry(ctx, history.EntryUnlinked, "Unlinked from slot").
		WithMetadata(map[string]any{
			"slot_id": slotID,
		}))
	m.Touch(ctx)

	return s.ModelRepo.Update(ctx, m)
}

func (s *syncService) ClearModelLink(ctx context.Context, slotDate, slotID, modelID string) error {
	sl, err := s.SlotRepo.Get(ctx, slotDate, slotID)
	if err != nil {
		return err
	}
	if !sl.IsLinked() || *sl.ModelID != modelID {
		return nil
	}

	sl.ModelID = nil
	sl.History.Append(history.NewEntry(ctx, history.EntryUnlinked, "Unlinked from model").
		WithMetadata(map[string]any{
			"model_id": modelID,
		}))
	sl.Touch(ctx)

	return s.SlotRepo.Update(ctx, sl)
}

func (s *syncService) BestEffort(ctx context.Context, op string, err error) {
	if err == nil {
		return
	}

	s.Logger.Warnw("sync propagation failed",
		"op", op,
		"error", err,
		"request_id", types.GetRequestID(ctx),
	)
	s.Sentry.CaptureWithTags(err, map[string]string{
		"op":   op,
		"code": ierr.CodeOf(err),
	})
	s.publishEvent(ctx, types.EventSyncFailed, "", "", map[string]any{
		"op":    op,
		"error": err.Error(),
	})
}

// linkedSlot loads a slot and checks that it still points back at modelID
func (s *syncService) linkedSlot(ctx context.Context, date, id, modelID string) (*slot.Slot, error) {
	sl, err := s.SlotRepo.Get(ctx, date, id)
	if err != nil {
		return nil, err
	}
	if !sl.IsLinked() || *sl.ModelID != modelID {
		return nil, staleLinkError(id, modelID)
	}
	return sl, nil
}

// linkedModel loads a model and checks that its slot snapshot still names slotID
func (s *syncService) linkedModel(ctx context.Context, modelID, slotID string) (*model.Model, error) {
	m, err := s.ModelRepo.Get(ctx, modelID)
	if err != nil {
		return nil, err
	}
	if !m.IsSlotLinked() || m.Registration.SlotRef.ID != slotID {
		return nil, staleLinkError(slotID, modelID)
	}
	return m, nil
}

func staleLinkError(slotID, modelID string) error {
	return ierr.NewErrorf("slot %s is not linked to model %s", slotID, modelID).
		WithHint("The slot is no longer linked to this model").
		WithReportableDetails(map[string]any{
			"slot_id":  slotID,
			"model_id": modelID,
		}).
		Mark(ierr.ErrInvalidOperation)
}

func statusHistoryDiff(diff status.Diff) map[string]history.Change {
	out := make(map[string]history.Change, len(diff))
	for axis, change := range diff {
		out[axis] = history.Change{From: change.From, To: change.To}
	}
	return out
}

func dataHistoryDiff(changes []datablock.Change) map[string]history.Change {
	if len(changes) == 0 {
		return nil
	}
	out := make(map[string]history.Change, len(changes))
	for _, c := range changes {
		out[c.Field] = history.Change{From: c.OldValue, To: c.NewValue}
	}
	return out
}

func slotRefDiff(prev, next *slot.Ref) map[string]history.Change {
	if prev == nil {
		prev = &slot.Ref{}
	}
	diff := map[string]history.Change{}
	add := func(key, from, to string) {
		if from != to {
			diff[key] = history.Change{From: from, To: to}
		}
	}
	add("id", prev.ID, next.ID)
	add("date", prev.Date, next.Date)
	add("start", prev.Start, next.Start)
	add("end", prev.End, next.End)
	add("title", prev.Title, next.Title)
	return diff
}
