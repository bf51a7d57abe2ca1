package testutil

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/talentflow/talentflow/internal/config"
	"github.com/talentflow/talentflow/internal/domain/model"
	"github.com/talentflow/talentflow/internal/domain/shift"
	"github.com/talentflow/talentflow/internal/domain/slot"
	"github.com/talentflow/talentflow/internal/kv/memory"
	"github.com/talentflow/talentflow/internal/logger"
	kvrepo "github.com/talentflow/talentflow/internal/repository/kv"
	"github.com/talentflow/talentflow/internal/sentry"
	"github.com/talentflow/talentflow/internal/types"
	"github.com/talentflow/talentflow/internal/validator"
)

// Stores holds all the repository interfaces for testing
type Stores struct {
	SlotRepo  slot.Repository
	ModelRepo model.Repository
	ShiftRepo shift.Repository
}

// BaseServiceTestSuite provides common functionality for all service test suites.
// Repositories run over the memory key-value store behind a FailingStore.
type BaseServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	memory    *memory.Store
	kvStore   *FailingStore
	stores    Stores
	publisher *InMemoryChangePublisher
	sentry    *sentry.Service
	logger    *logger.Logger
	config    *config.Configuration
	now       time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	validator.NewValidator()

	cfg := config.GetDefaultConfig()
	cfg.Logging.Level = types.LogLevelError
	s.config = cfg

	var err error
	s.logger, err = logger.NewLogger(cfg)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}
	s.sentry = sentry.NewSentryService(cfg, s.logger)
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.setupContext()
	s.setupStores()
	s.now = time.Now().UTC()
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.clearStores()
}

func (s *BaseServiceTestSuite) setupContext() {
	s.ctx = SetupContext()
}

func (s *BaseServiceTestSuite) setupStores() {
	s.memory = memory.NewStore()
	s.kvStore = NewFailingStore(s.memory)
	s.publisher = NewInMemoryChangePublisher()
	s.stores = Stores{
		SlotRepo:  kvrepo.NewSlotRepository(s.kvStore, s.logger),
		ModelRepo: kvrepo.NewModelRepository(s.kvStore, s.logger),
		ShiftRepo: kvrepo.NewShiftRepository(s.kvStore, s.logger),
	}
}

func (s *BaseServiceTestSuite) clearStores() {
	if s.memory != nil {
		s.memory.Flush()
	}
	if s.kvStore != nil {
		s.kvStore.Reset()
	}
	if s.publisher != nil {
		s.publisher.Clear()
	}
}

// ClearStores wipes every document and recorded event
func (s *BaseServiceTestSuite) ClearStores() {
	s.clearStores()
}

func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetKVStore returns the store the repositories write through
func (s *BaseServiceTestSuite) GetKVStore() *FailingStore {
	return s.kvStore
}

func (s *BaseServiceTestSuite) GetPublisher() *InMemoryChangePublisher {
	return s.publisher
}

func (s *BaseServiceTestSuite) GetSentry() *sentry.Service {
	return s.sentry
}

func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now
}

func (s *BaseServiceTestSuite) GetUUID() string {
	return types.GenerateUUID()
}
