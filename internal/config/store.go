package config

import (
	"fmt"

	"github.com/talentflow/talentflow/internal/types"
)

// StoreConfig selects and configures the key-value document store
type StoreConfig struct {
	Backend  types.StoreBackend `mapstructure:"backend" validate:"required,oneof=memory sqlite postgres dynamodb"`
	SQLite   SQLiteConfig       `mapstructure:"sqlite"`
	Postgres PostgresConfig     `mapstructure:"postgres"`
	DynamoDB DynamoDBConfig     `mapstructure:"dynamodb"`
	Retry    RetryConfig        `mapstructure:"retry"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type PostgresConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	DBName       string `mapstructure:"dbname"`
	SSLMode      string `mapstructure:"sslmode"`
	Table        string `mapstructure:"table"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

// DynamoDBConfig holds configuration for DynamoDB
type DynamoDBConfig struct {
	Region    string `mapstructure:"region"`
	TableName string `mapstructure:"table_name"`
	// Endpoint overrides the service endpoint, e.g. for DynamoDB Local
	Endpoint string `mapstructure:"endpoint"`
}

// RetryConfig bounds retries of transient store failures
type RetryConfig struct {
	MaxAttempts       int `mapstructure:"max_attempts"`
	InitialIntervalMs int `mapstructure:"initial_interval_ms"`
}

func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"user=%s password=%s dbname=%s host=%s port=%d sslmode=%s",
		c.User,
		c.Password,
		c.DBName,
		c.Host,
		c.Port,
		c.SSLMode,
	)
}
