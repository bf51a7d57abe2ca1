package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/talentflow/talentflow/internal/types"
)

type Configuration struct {
	Deployment DeploymentConfig `validate:"required"`
	Server     ServerConfig     `validate:"required"`
	Logging    LoggingConfig    `validate:"required"`
	Store      StoreConfig      `validate:"required"`
	Lifecycle  LifecycleConfig  `validate:"required"`
	Sync       SyncConfig
	Events     EventsConfig
	Kafka      KafkaConfig
	Sentry     SentryConfig
}

type DeploymentConfig struct {
	Mode types.RunMode `mapstructure:"mode" validate:"required"`
}

type ServerConfig struct {
	Address string `mapstructure:"address" validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `mapstructure:"level" validate:"required"`
}

// LifecycleConfig carries the product decisions the stage rules depend on.
// Two historical code paths disagree on both values, so neither is hard-coded.
type LifecycleConfig struct {
	// TrainingExitStage is the stage a model enters after finishing training:
	// "ready_to_work" or "closed_to_team".
	TrainingExitStage string `mapstructure:"training_exit_stage" validate:"required,oneof=ready_to_work closed_to_team"`
	// TrainingCompleteThreshold is the completed training shifts needed to leave training.
	TrainingCompleteThreshold int `mapstructure:"training_complete_threshold" validate:"min=1"`
	// ReadyToModelThreshold is the completed regular shifts needed to become a model.
	ReadyToModelThreshold int `mapstructure:"ready_to_model_threshold" validate:"min=1"`
}

type SyncConfig struct {
	// Enabled turns slot/model propagation on. Disabled means each side is edited in isolation.
	Enabled bool `mapstructure:"enabled"`
}

type KafkaConfig struct {
	Brokers       []string `mapstructure:"brokers"`
	ClientID      string   `mapstructure:"client_id"`
	ConsumerGroup string   `mapstructure:"consumer_group"`
	TLS           bool     `mapstructure:"tls"`
}

type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

func NewConfig() (*Configuration, error) {
	// .env is optional; real environment variables take precedence
	_ = godotenv.Load()

	v := viper.New()

	// Modify config paths to ensure config.yaml is found
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/talentflow")

	// Set up environment variables support
	v.SetEnvPrefix("TALENTFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file if exists
	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
		fmt.Printf("Config file not found, using defaults and environment\n")
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	d := GetDefaultConfig()
	v.SetDefault("deployment.mode", d.Deployment.Mode)
	v.SetDefault("server.address", d.Server.Address)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("store.backend", d.Store.Backend)
	v.SetDefault("store.sqlite.path", d.Store.SQLite.Path)
	v.SetDefault("store.postgres.host", d.Store.Postgres.Host)
	v.SetDefault("store.postgres.port", d.Store.Postgres.Port)
	v.SetDefault("store.postgres.sslmode", d.Store.Postgres.SSLMode)
	v.SetDefault("store.postgres.table", d.Store.Postgres.Table)
	v.SetDefault("store.dynamodb.table_name", d.Store.DynamoDB.TableName)
	v.SetDefault("store.retry.max_attempts", d.Store.Retry.MaxAttempts)
	v.SetDefault("store.retry.initial_interval_ms", d.Store.Retry.InitialIntervalMs)
	v.SetDefault("lifecycle.training_exit_stage", d.Lifecycle.TrainingExitStage)
	v.SetDefault("lifecycle.training_complete_threshold", d.Lifecycle.TrainingCompleteThreshold)
	v.SetDefault("lifecycle.ready_to_model_threshold", d.Lifecycle.ReadyToModelThreshold)
	v.SetDefault("sync.enabled", d.Sync.Enabled)
	v.SetDefault("events.enabled", d.Events.Enabled)
	v.SetDefault("events.topic", d.Events.Topic)
	v.SetDefault("events.pubsub", d.Events.PubSub)
	v.SetDefault("kafka.client_id", d.Kafka.ClientID)
	v.SetDefault("kafka.consumer_group", d.Kafka.ConsumerGroup)
}

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// GetDefaultConfig returns a default configuration for local development
// This is useful for running scripts or other non-web applications
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Store: StoreConfig{
			Backend: types.StoreBackendMemory,
			SQLite:  SQLiteConfig{Path: "talentflow.db"},
			Postgres: PostgresConfig{
				Host:    "localhost",
				Port:    5432,
				SSLMode: "disable",
				Table:   "kv_documents",
			},
			DynamoDB: DynamoDBConfig{TableName: "talentflow-documents"},
			Retry:    RetryConfig{MaxAttempts: 3, InitialIntervalMs: 50},
		},
		Lifecycle: LifecycleConfig{
			TrainingExitStage:         "ready_to_work",
			TrainingCompleteThreshold: 2,
			ReadyToModelThreshold:     2,
		},
		Sync: SyncConfig{Enabled: true},
		Events: EventsConfig{
			Enabled: true,
			Topic:   "talentflow.changes",
			PubSub:  types.MemoryPubSub,
		},
		Kafka: KafkaConfig{
			ClientID:      "talentflow",
			ConsumerGroup: "talentflow-audit",
		},
	}
}
