package slot

import (
	"context"

	"github.com/talentflow/talentflow/internal/types"
)

// Repository defines the interface for slot persistence
type Repository interface {
	// Create stores a new slot, failing if the key is taken
	Create(ctx context.Context, slot *Slot) error
	// Get retrieves a slot by date and ID
	Get(ctx context.Context, date, id string) (*Slot, error)
	// List retrieves the slots of one day matching filter
	List(ctx context.Context, filter *types.SlotFilter) ([]*Slot, error)
	// Count counts the slots of one day matching filter
	Count(ctx context.Context, filter *types.SlotFilter) (int, error)
	// Update replaces the stored slot document
	Update(ctx context.Context, slot *Slot) error
	// Delete removes a slot
	Delete(ctx context.Context, date, id string) error
}
