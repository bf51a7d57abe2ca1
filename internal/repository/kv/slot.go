package kv

import (
	"context"
	"sort"

	"github.com/talentflow/talentflow/internal/domain/slot"
	ierr "github.com/talentflow/talentflow/internal/errors"
	kvstore "github.com/talentflow/talentflow/internal/kv"
	"github.com/talentflow/talentflow/internal/logger"
	"github.com/talentflow/talentflow/internal/types"
)

type slotRepository struct {
	docs documents[slot.Slot]
}

func NewSlotRepository(store kvstore.Store, logger *logger.Logger) slot.Repository {
	return &slotRepository{docs: newDocuments[slot.Slot](store, logger, "Slot")}
}

func slotDetails(date, id string) map[string]any {
	return map[string]any{"slot_id": id, "date": date}
}

func (r *slotRepository) Create(ctx context.Context, s *slot.Slot) error {
	return r.docs.create(ctx, s.Key(), s, slotDetails(s.Date, s.ID))
}

func (r *slotRepository) Get(ctx context.Context, date, id string) (*slot.Slot, error) {
	return r.docs.get(ctx, slot.Key(date, id), slotDetails(date, id))
}

func (r *slotRepository) list(ctx context.Context, filter *types.SlotFilter) ([]*slot.Slot, error) {
	if filter == nil || filter.Date == "" {
		return nil, ierr.NewError("slot listing requires a date").
			WithHint("Date is required to list slots").
			Mark(ierr.ErrValidation)
	}

	slots, err := r.docs.list(ctx, slot.DatePrefix(filter.Date))
	if err != nil {
		return nil, err
	}

	filtered := make([]*slot.Slot, 0, len(slots))
	for _, s := range slots {
		if filter.EmployeeID != "" && (s.EmployeeID == nil || *s.EmployeeID != filter.EmployeeID) {
			continue
		}
		if filter.Linked != nil && s.IsLinked() != *filter.Linked {
			continue
		}
		filtered = append(filtered, s)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].Start != filtered[j].Start {
			return filtered[i].Start < filtered[j].Start
		}
		return filtered[i].ID < filtered[j].ID
	})
	return filtered, nil
}

func (r *slotRepository) List(ctx context.Context, filter *types.SlotFilter) ([]*slot.Slot, error) {
	slots, err := r.list(ctx, filter)
	if err != nil {
		return nil, err
	}
	return types.Paginate(slots, filter.GetLimit(), filter.GetOffset()), nil
}

func (r *slotRepository) Count(ctx context.Context, filter *types.SlotFilter) (int, error) {
	slots, err := r.list(ctx, filter)
	if err != nil {
		return 0, err
	}
	return len(slots), nil
}

func (r *slotRepository) Update(ctx context.Context, s *slot.Slot) error {
	return r.docs.update(ctx, s.Key(), s, slotDetails(s.Date, s.ID))
}

func (r *slotRepository) Delete(ctx context.Context, date, id string) error {
	return r.docs.delete(ctx, slot.Key(date, id), slotDetails(date, id))
}
