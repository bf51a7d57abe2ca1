package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/talentflow/talentflow/internal/api"
	v1 "github.com/talentflow/talentflow/internal/api/v1"
	"github.com/talentflow/talentflow/internal/config"
	"github.com/talentflow/talentflow/internal/domain/lifecycle"
	"github.com/talentflow/talentflow/internal/kv"
	"github.com/talentflow/talentflow/internal/logger"
	"github.com/talentflow/talentflow/internal/publisher"
	"github.com/talentflow/talentflow/internal/pubsub"
	"github.com/talentflow/talentflow/internal/pubsub/kafka"
	"github.com/talentflow/talentflow/internal/pubsub/memory"
	pubsubRouter "github.com/talentflow/talentflow/internal/pubsub/router"
	"github.com/talentflow/talentflow/internal/repository"
	"github.com/talentflow/talentflow/internal/sentry"
	"github.com/talentflow/talentflow/internal/service"
	"github.com/talentflow/talentflow/internal/types"
	"github.com/talentflow/talentflow/internal/validator"
	"go.uber.org/fx"
)

// @title TalentFlow API
// @version 1.0
// @description Staffing pipeline service: interview slots, models and onboarding shifts
// @BasePath /v1
// @schemes http https

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Key-value store
			repository.NewStore,

			// Change events
			providePubSub,
			publisher.NewChangePublisher,
			pubsubRouter.NewRouter,

			// Repositories
			repository.NewSlotRepository,
			repository.NewModelRepository,
			repository.NewShiftRepository,

			// Lifecycle rules
			service.NewStatusManager,
		),
		fx.Invoke(validator.NewValidator),
		sentry.Module(),
	)

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,

			service.NewSlotService,
			service.NewModelService,
			service.NewShiftService,
		),
	)

	// API
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			api.NewRouter,
		),
		fx.Invoke(
			closeStore,
			startServer,
		),
	)

	app := fx.New(opts...)
	app.Run()
}

func providePubSub(lc fx.Lifecycle, cfg *config.Configuration, log *logger.Logger) (pubsub.PubSub, error) {
	var (
		ps  pubsub.PubSub
		err error
	)
	switch cfg.Events.PubSub {
	case types.KafkaPubSub:
		ps, err = kafka.NewPubSub(cfg, log)
	default:
		ps = memory.NewPubSub(log)
	}
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return ps.Close()
		},
	})
	return ps, nil
}

func provideHandlers(
	cfg *config.Configuration,
	store kv.Store,
	logger *logger.Logger,
	statusManager *lifecycle.StatusManager,
	slotService service.SlotService,
	modelService service.ModelService,
	shiftService service.ShiftService,
) api.Handlers {
	return api.Handlers{
		Health:    v1.NewHealthHandler(store, cfg, logger),
		Slot:      v1.NewSlotHandler(slotService, logger),
		Model:     v1.NewModelHandler(modelService, logger),
		Shift:     v1.NewShiftHandler(shiftService, logger),
		Lifecycle: v1.NewLifecycleHandler(statusManager),
	}
}

func closeStore(lc fx.Lifecycle, store kv.Store, log *logger.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info("closing key-value store")
			return store.Close()
		},
	})
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	ps pubsub.PubSub,
	router *pubsubRouter.Router,
	log *logger.Logger,
) {
	mode := cfg.Deployment.Mode
	if mode == "" {
		mode = types.ModeLocal
	}

	switch mode {
	case types.ModeLocal:
		startAPIServer(lc, r, cfg, log)
		startMessageRouter(lc, router, ps, cfg, log)
	case types.ModeAPI:
		startAPIServer(lc, r, cfg, log)
	default:
		log.Fatalf("Unknown deployment mode: %s", mode)
	}
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	log.Info("Registering API server start hook")
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("Starting API server...", "address", cfg.Server.Address)
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return nil
		},
	})
}

// startMessageRouter consumes the change events in process and writes them to
// the log, so local runs see every change without a broker
func startMessageRouter(
	lc fx.Lifecycle,
	router *pubsubRouter.Router,
	ps pubsub.PubSub,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	if !cfg.Events.Enabled {
		return
	}

	router.AddNoPublishHandler(
		"change_log",
		cfg.Events.Topic,
		ps,
		publisher.ChangeLogHandler(log),
	)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting message router...")
			go func() {
				if err := router.Run(context.Background()); err != nil {
					log.Errorw("message router stopped", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down message router...")
			return router.Close()
		},
	})
}
