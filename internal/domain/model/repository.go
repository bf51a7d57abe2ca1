package model

import (
	"context"

	"github.com/talentflow/talentflow/internal/types"
)

// Repository defines the interface for model persistence
type Repository interface {
	// Create stores a new model, failing if the id is taken
	Create(ctx context.Context, model *Model) error
	// Get retrieves a model by ID
	Get(ctx context.Context, id string) (*Model, error)
	// List retrieves models matching filter, newest first
	List(ctx context.Context, filter *types.ModelFilter) ([]*Model, error)
	// Count counts models matching filter
	Count(ctx context.Context, filter *types.ModelFilter) (int, error)
	// Update replaces the stored model document
	Update(ctx context.Context, model *Model) error
	// Delete removes a model
	Delete(ctx context.Context, id string) error
}
