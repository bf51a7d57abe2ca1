package service

import (
	"context"

	"github.com/talentflow/talentflow/internal/publisher"
	"github.com/talentflow/talentflow/internal/types"
)

// publishEvent emits a change event after a persisted mutation. Publishing
// failures are logged and never fail the mutation.
func (p ServiceParams) publishEvent(ctx context.Context, name string, entityType types.EntityType, entityID string, payload any) {
	if p.EventPublisher == nil {
		return
	}
	event := publisher.NewChangeEvent(ctx, name, entityType, entityID, payload)
	if err := p.EventPublisher.Publish(ctx, event); err != nil {
		p.Logger.Errorw("failed to publish change event",
			"event_name", name,
			"entity_id", entityID,
			"error", err,
		)
	}
}
