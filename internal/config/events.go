package config

import "github.com/talentflow/talentflow/internal/types"

// EventsConfig represents the configuration for change-event publishing
type EventsConfig struct {
	Enabled bool             `mapstructure:"enabled"`
	Topic   string           `mapstructure:"topic"`
	PubSub  types.PubSubType `mapstructure:"pubsub" validate:"omitempty,oneof=memory kafka"`
}
