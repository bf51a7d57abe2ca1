package publisher

import (
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	ierr "github.com/talentflow/talentflow/internal/errors"
	"github.com/talentflow/talentflow/internal/logger"
	"github.com/talentflow/talentflow/internal/types"
)

// ChangeLogHandler returns a watermill handler writing every consumed change
// event to the structured log. Undecodable messages are dropped with a warning
// so they never block the topic.
func ChangeLogHandler(logger *logger.Logger) func(msg *message.Message) error {
	return func(msg *message.Message) error {
		var event types.ChangeEvent
		if err := json.Unmarshal(msg.Payload, &event); err != nil {
			logger.Warnw("dropping undecodable change event",
				"message_uuid", msg.UUID,
				"error", ierr.WithError(err).Mark(ierr.ErrValidation),
			)
			return nil
		}

		logger.Infow("change event",
			"event_id", event.ID,
			"event_name", event.EventName,
			"entity_type", event.EntityType,
			"entity_id", event.EntityID,
			"user_id", event.UserID,
			"correlation_id", middleware.MessageCorrelationID(msg),
		)
		return nil
	}
}
