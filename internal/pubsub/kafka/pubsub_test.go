package kafka

import (
	"testing"

	"github.com/Shopify/sarama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talentflow/talentflow/internal/config"
	ierr "github.com/talentflow/talentflow/internal/errors"
	"github.com/talentflow/talentflow/internal/logger"
)

func TestNewPubSubRequiresBrokers(t *testing.T) {
	cfg := config.GetDefaultConfig()
	_, err := NewPubSub(cfg, logger.NewNopLogger())
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}

func TestApplySaramaConfig(t *testing.T) {
	cfg := config.GetDefaultConfig()
	cfg.Kafka.TLS = true

	got := applySaramaConfig(cfg, sarama.NewConfig())
	assert.Equal(t, "talentflow", got.ClientID)
	assert.Equal(t, sarama.OffsetOldest, got.Consumer.Offsets.Initial)
	assert.True(t, got.Net.TLS.Enable)
	require.NotNil(t, got.Net.TLS.Config)
}
