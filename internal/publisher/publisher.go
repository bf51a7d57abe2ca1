package publisher

import (
	"context"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	jsoniter "github.com/json-iterator/go"
	"github.com/talentflow/talentflow/internal/config"
	ierr "github.com/talentflow/talentflow/internal/errors"
	"github.com/talentflow/talentflow/internal/logger"
	"github.com/talentflow/talentflow/internal/pubsub"
	"github.com/talentflow/talentflow/internal/types"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ChangePublisher emits change events after slot, model and shift mutations
type ChangePublisher interface {
	Publish(ctx context.Context, event *types.ChangeEvent) error
}

type changePublisher struct {
	pubsub pubsub.Publisher
	config *config.EventsConfig
	logger *logger.Logger
}

// NewChangePublisher returns a publisher writing to cfg.Events.Topic, or a
// no-op publisher when events are disabled
func NewChangePublisher(cfg *config.Configuration, logger *logger.Logger, ps pubsub.PubSub) ChangePublisher {
	if !cfg.Events.Enabled || ps == nil {
		return NewNopPublisher()
	}
	return &changePublisher{
		pubsub: ps,
		config: &cfg.Events,
		logger: logger,
	}
}

func (p *changePublisher) Publish(ctx context.Context, event *types.ChangeEvent) error {
	if event.ID == "" {
		event.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CHANGE_EVENT)
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to marshal change event").
			Mark(ierr.ErrSystem)
	}

	p.logger.With(
		zap.String("event_id", event.ID),
		zap.String("event_name", event.EventName),
		zap.String("entity_id", event.EntityID),
	).Debug("publishing change event")

	msg := message.NewMessage(event.ID, payload)
	msg.Metadata.Set("event_name", event.EventName)
	msg.Metadata.Set("entity_type", string(event.EntityType))
	if event.RequestID != "" {
		middleware.SetCorrelationID(event.RequestID, msg)
	}

	if err := p.pubsub.Publish(ctx, p.config.Topic, msg); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to publish change event").
			Mark(ierr.ErrSystem)
	}
	return nil
}

type nopPublisher struct{}

// NewNopPublisher returns a publisher that drops every event
func NewNopPublisher() ChangePublisher {
	return nopPublisher{}
}

func (nopPublisher) Publish(context.Context, *types.ChangeEvent) error {
	return nil
}

// NewChangeEvent builds an event attributed to the actor and request in ctx.
// payload is marshalled as-is; a marshalling failure leaves the payload empty.
func NewChangeEvent(ctx context.Context, name string, entityType types.EntityType, entityID string, payload any) *types.ChangeEvent {
	event := &types.ChangeEvent{
		ID:         types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CHANGE_EVENT),
		EventName:  name,
		EntityType: entityType,
		EntityID:   entityID,
		UserID:     types.GetActorID(ctx),
		RequestID:  types.GetRequestID(ctx),
		Timestamp:  time.Now().UTC(),
	}
	if payload != nil {
		if raw, err := json.Marshal(payload); err == nil {
			event.Payload = raw
		}
	}
	return event
}
