package memory

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talentflow/talentflow/internal/logger"
)

func TestPublishBeforeSubscribeIsDelivered(t *testing.T) {
	ps := NewPubSub(logger.NewNopLogger())
	defer ps.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, ps.Publish(ctx, "changes", message.NewMessage("msg_1", []byte(`{"id":"evt_1"}`))))

	messages, err := ps.Subscribe(ctx, "changes")
	require.NoError(t, err)

	select {
	case msg := <-messages:
		assert.Equal(t, "msg_1", msg.UUID)
		assert.JSONEq(t, `{"id":"evt_1"}`, string(msg.Payload))
		msg.Ack()
	case <-time.After(2 * time.Second):
		t.Fatal("message was not delivered")
	}
}
