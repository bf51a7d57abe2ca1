package kv

import (
	"context"
	"sort"

	"github.com/talentflow/talentflow/internal/domain/shift"
	ierr "github.com/talentflow/talentflow/internal/errors"
	kvstore "github.com/talentflow/talentflow/internal/kv"
	"github.com/talentflow/talentflow/internal/logger"
	"github.com/talentflow/talentflow/internal/types"
)

type shiftRepository struct {
	store kvstore.Store
	docs  documents[shift.Shift]
}

func NewShiftRepository(store kvstore.Store, logger *logger.Logger) shift.Repository {
	return &shiftRepository{
		store: store,
		docs:  newDocuments[shift.Shift](store, logger, "Shift"),
	}
}

func shiftDetails(modelID, id string) map[string]any {
	return map[string]any{"model_id": modelID, "shift_id": id}
}

func (r *shiftRepository) Create(ctx context.Context, s *shift.Shift) error {
	return r.docs.create(ctx, s.Key(), s, shiftDetails(s.ModelID, s.ID))
}

func (r *shiftRepository) Get(ctx context.Context, modelID, id string) (*shift.Shift, error) {
	return r.docs.get(ctx, shift.Key(modelID, id), shiftDetails(modelID, id))
}

func (r *shiftRepository) List(ctx context.Context, modelID string, filter *types.ShiftFilter) ([]*shift.Shift, error) {
	shifts, err := r.docs.list(ctx, shift.ModelPrefix(modelID))
	if err != nil {
		return nil, err
	}
	if filter == nil {
		filter = &types.ShiftFilter{}
	}

	filtered := make([]*shift.Shift, 0, len(shifts))
	for _, s := range shifts {
		if filter.Type != "" && string(s.Type) != filter.Type {
			continue
		}
		if filter.Status != "" && string(s.Status) != filter.Status {
			continue
		}
		filtered = append(filtered, s)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		a, b := filtered[i], filtered[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	return types.Paginate(filtered, filter.GetLimit(), filter.GetOffset()), nil
}

func (r *shiftRepository) Update(ctx context.Context, s *shift.Shift) error {
	return r.docs.update(ctx, s.Key(), s, shiftDetails(s.ModelID, s.ID))
}

func (r *shiftRepository) Delete(ctx context.Context, modelID, id string) error {
	return r.docs.delete(ctx, shift.Key(modelID, id), shiftDetails(modelID, id))
}

func (r *shiftRepository) DeleteByModel(ctx context.Context, modelID string) error {
	entries, err := r.store.List(ctx, shift.ModelPrefix(modelID))
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to list shifts").
			Mark(ierr.ErrDatabase)
	}
	for _, entry := range entries {
		if err := r.store.Delete(ctx, entry.Key); err != nil {
			return ierr.WithError(err).
				WithHint("Failed to delete shift").
				Mark(ierr.ErrDatabase)
		}
	}
	return nil
}
