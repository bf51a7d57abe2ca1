package repository

import (
	"context"
	"fmt"

	"github.com/talentflow/talentflow/internal/config"
	"github.com/talentflow/talentflow/internal/domain/model"
	"github.com/talentflow/talentflow/internal/domain/shift"
	"github.com/talentflow/talentflow/internal/domain/slot"
	"github.com/talentflow/talentflow/internal/kv"
	"github.com/talentflow/talentflow/internal/kv/dynamodb"
	"github.com/talentflow/talentflow/internal/kv/memory"
	"github.com/talentflow/talentflow/internal/kv/postgres"
	"github.com/talentflow/talentflow/internal/kv/sqlite"
	"github.com/talentflow/talentflow/internal/logger"
	kvRepo "github.com/talentflow/talentflow/internal/repository/kv"
	"github.com/talentflow/talentflow/internal/types"
)

// NewStore opens the configured key-value backend wrapped with retries
func NewStore(cfg *config.Configuration, logger *logger.Logger) (kv.Store, error) {
	ctx := context.Background()

	var (
		store kv.Store
		err   error
	)
	switch cfg.Store.Backend {
	case types.StoreBackendMemory, "":
		store = memory.NewStore()
	case types.StoreBackendSQLite:
		store, err = sqlite.Open(cfg.Store.SQLite.Path)
	case types.StoreBackendPostgres:
		store, err = postgres.NewStore(ctx, cfg.Store.Postgres, logger)
	case types.StoreBackendDynamoDB:
		client, clientErr := dynamodb.NewClient(ctx, cfg.Store.DynamoDB)
		if clientErr != nil {
			return nil, clientErr
		}
		store = dynamodb.NewStore(client, cfg.Store.DynamoDB.TableName, logger)
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", cfg.Store.Backend)
	}
	if err != nil {
		return nil, err
	}

	logger.Infow("key-value store opened", "backend", cfg.Store.Backend)
	return kv.WithRetry(store, cfg.Store.Retry, logger), nil
}

func NewSlotRepository(store kv.Store, logger *logger.Logger) slot.Repository {
	return kvRepo.NewSlotRepository(store, logger)
}

func NewModelRepository(store kv.Store, logger *logger.Logger) model.Repository {
	return kvRepo.NewModelRepository(store, logger)
}

func NewShiftRepository(store kv.Store, logger *logger.Logger) shift.Repository {
	return kvRepo.NewShiftRepository(store, logger)
}
