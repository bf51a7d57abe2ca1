package publisher

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talentflow/talentflow/internal/config"
	"github.com/talentflow/talentflow/internal/logger"
	"github.com/talentflow/talentflow/internal/pubsub/memory"
	"github.com/talentflow/talentflow/internal/types"
)

func TestPublishDeliversChangeEvent(t *testing.T) {
	cfg := config.GetDefaultConfig()
	ps := memory.NewPubSub(logger.NewNopLogger())
	defer ps.Close()

	ctx := types.SetRequestID(types.SetUserID(context.Background(), "user_1"), "req_1")
	pub := NewChangePublisher(cfg, logger.NewNopLogger(), ps)

	event := NewChangeEvent(ctx, types.EventSlotCreated, types.EntityTypeSlot, "slot_1", map[string]string{"date": "2024-05-01"})
	require.NoError(t, pub.Publish(ctx, event))

	messages, err := ps.Subscribe(ctx, cfg.Events.Topic)
	require.NoError(t, err)

	select {
	case msg := <-messages:
		defer msg.Ack()
		assert.Equal(t, event.ID, msg.UUID)
		assert.Equal(t, types.EventSlotCreated, msg.Metadata.Get("event_name"))
		assert.Equal(t, "req_1", middleware.MessageCorrelationID(msg))

		var got types.ChangeEvent
		require.NoError(t, json.Unmarshal(msg.Payload, &got))
		assert.Equal(t, "slot_1", got.EntityID)
		assert.Equal(t, "user_1", got.UserID)
		assert.JSONEq(t, `{"date":"2024-05-01"}`, string(got.Payload))
	case <-time.After(2 * time.Second):
		t.Fatal("change event was not delivered")
	}

	assert.NoError(t, ChangeLogHandler(logger.NewNopLogger())(message.NewMessage("x", []byte("junk"))))
}

func TestDisabledEventsUseNopPublisher(t *testing.T) {
	cfg := config.GetDefaultConfig()
	cfg.Events.Enabled = false

	pub := NewChangePublisher(cfg, logger.NewNopLogger(), memory.NewPubSub(logger.NewNopLogger()))
	_, ok := pub.(nopPublisher)
	assert.True(t, ok)
	assert.NoError(t, pub.Publish(context.Background(), &types.ChangeEvent{}))
}
