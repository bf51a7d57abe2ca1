package shift

import (
	"context"

	"github.com/talentflow/talentflow/internal/types"
)

// Repository defines the interface for shift persistence
type Repository interface {
	Create(ctx context.Context, shift *Shift) error
	Get(ctx context.Context, modelID, id string) (*Shift, error)
	// List retrieves the shifts of a model, oldest first
	List(ctx context.Context, modelID string, filter *types.ShiftFilter) ([]*Shift, error)
	Update(ctx context.Context, shift *Shift) error
	Delete(ctx context.Context, modelID, id string) error
	// DeleteByModel removes every shift of a model
	DeleteByModel(ctx context.Context, modelID string) error
}
