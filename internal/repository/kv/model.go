package kv

import (
	"context"
	"sort"

	"github.com/talentflow/talentflow/internal/domain/model"
	kvstore "github.com/talentflow/talentflow/internal/kv"
	"github.com/talentflow/talentflow/internal/logger"
	"github.com/talentflow/talentflow/internal/types"
)

type modelRepository struct {
	docs documents[model.Model]
}

func NewModelRepository(store kvstore.Store, logger *logger.Logger) model.Repository {
	return &modelRepository{docs: newDocuments[model.Model](store, logger, "Model")}
}

func modelDetails(id string) map[string]any {
	return map[string]any{"model_id": id}
}

func (r *modelRepository) Create(ctx context.Context, m *model.Model) error {
	return r.docs.create(ctx, m.Key(), m, modelDetails(m.ID))
}

func (r *modelRepository) Get(ctx context.Context, id string) (*model.Model, error) {
	return r.docs.get(ctx, model.Key(id), modelDetails(id))
}

func (r *modelRepository) list(ctx context.Context, filter *types.ModelFilter) ([]*model.Model, error) {
	models, err := r.docs.list(ctx, model.KeyPrefix)
	if err != nil {
		return nil, err
	}
	if filter == nil {
		filter = &types.ModelFilter{}
	}

	filtered := make([]*model.Model, 0, len(models))
	for _, m := range models {
		if filter.Stage != "" && string(m.Stage()) != filter.Stage {
			continue
		}
		if !m.Matches(filter.Search) {
			continue
		}
		filtered = append(filtered, m)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		if !filtered[i].CreatedAt.Equal(filtered[j].CreatedAt) {
			return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
		}
		return filtered[i].ID > filtered[j].ID
	})
	return filtered, nil
}

func (r *modelRepository) List(ctx context.Context, filter *types.ModelFilter) ([]*model.Model, error) {
	models, err := r.list(ctx, filter)
	if err != nil {
		return nil, err
	}
	if filter == nil {
		return models, nil
	}
	return types.Paginate(models, filter.GetLimit(), filter.GetOffset()), nil
}

func (r *modelRepository) Count(ctx context.Context, filter *types.ModelFilter) (int, error) {
	models, err := r.list(ctx, filter)
	if err != nil {
		return 0, err
	}
	return len(models), nil
}

func (r *modelRepository) Update(ctx context.Context, m *model.Model) error {
	return r.docs.update(ctx, m.Key(), m, modelDetails(m.ID))
}

func (r *modelRepository) Delete(ctx context.Context, id string) error {
	return r.docs.delete(ctx, model.Key(id), modelDetails(id))
}
