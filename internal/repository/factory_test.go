package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talentflow/talentflow/internal/config"
	"github.com/talentflow/talentflow/internal/domain/slot"
	"github.com/talentflow/talentflow/internal/logger"
	"github.com/talentflow/talentflow/internal/types"
)

func TestNewStoreBackends(t *testing.T) {
	tests := []struct {
		name    string
		backend types.StoreBackend
	}{
		{"memory", types.StoreBackendMemory},
		{"sqlite", types.StoreBackendSQLite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.GetDefaultConfig()
			cfg.Store.Backend = tt.backend
			cfg.Store.SQLite.Path = filepath.Join(t.TempDir(), "kv.db")

			store, err := NewStore(cfg, logger.NewNopLogger())
			require.NoError(t, err)
			defer store.Close()

			ctx := context.Background()
			slots := NewSlotRepository(store, logger.NewNopLogger())
			s := slot.New(ctx, "2024-05-01")
			require.NoError(t, slots.Create(ctx, s))

			got, err := slots.Get(ctx, s.Date, s.ID)
			require.NoError(t, err)
			assert.Equal(t, s.ID, got.ID)
		})
	}
}

func TestNewStoreRejectsUnknownBackend(t *testing.T) {
	cfg := config.GetDefaultConfig()
	cfg.Store.Backend = "redis"

	_, err := NewStore(cfg, logger.NewNopLogger())
	assert.Error(t, err)
}
