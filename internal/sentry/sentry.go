package sentry

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/talentflow/talentflow/internal/config"
	"github.com/talentflow/talentflow/internal/logger"
	"go.uber.org/fx"
)

const flushTimeout = 2 * time.Second

// Service reports propagation and consumer failures. A disabled or nil
// Service drops everything.
type Service struct {
	cfg    *config.Configuration
	logger *logger.Logger
}

func Module() fx.Option {
	return fx.Options(
		fx.Provide(NewSentryService),
		fx.Invoke(RegisterHooks),
	)
}

// RegisterHooks initializes the client on start and flushes on stop
func RegisterHooks(lc fx.Lifecycle, svc *Service) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return svc.init()
		},
		OnStop: func(ctx context.Context) error {
			svc.Flush(uint(flushTimeout / time.Second))
			return nil
		},
	})
}

func NewSentryService(cfg *config.Configuration, logger *logger.Logger) *Service {
	return &Service{
		cfg:    cfg,
		logger: logger,
	}
}

func (s *Service) init() error {
	if !s.Enabled() {
		s.logger.Info("sentry disabled, failures are only logged")
		return nil
	}

	rate := s.cfg.Sentry.SampleRate
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              s.cfg.Sentry.DSN,
		Environment:      s.cfg.Sentry.Environment,
		EnableTracing:    true,
		TracesSampleRate: rate,
		TracesSampler: sentry.TracesSampler(func(ctx sentry.SamplingContext) float64 {
			if ctx.Span.Name == "GET /health" {
				return 0.0
			}
			return rate
		}),
	})
	if err != nil {
		s.logger.Errorw("failed to initialize sentry", "error", err)
		return err
	}

	s.logger.Infow("sentry initialized",
		"environment", s.cfg.Sentry.Environment,
		"sample_rate", rate,
	)
	return nil
}

// Enabled reports whether events are sent
func (s *Service) Enabled() bool {
	return s != nil && s.cfg != nil && s.cfg.Sentry.Enabled
}

func (s *Service) CaptureException(err error) {
	if !s.Enabled() || err == nil {
		return
	}
	sentry.CaptureException(err)
}

// CaptureWithTags captures err on a scope carrying tags. Propagation
// failures are tagged with the sync op and error code so they group per op.
func (s *Service) CaptureWithTags(err error, tags map[string]string) {
	if !s.Enabled() || err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		sentry.CaptureException(err)
	})
}

// AddBreadcrumb records a step on the current scope, e.g. a lifecycle
// transition preceding a failed slot sync.
func (s *Service) AddBreadcrumb(category, message string, data map[string]interface{}) {
	if !s.Enabled() {
		return
	}
	sentry.AddBreadcrumb(&sentry.Breadcrumb{
		Category:  category,
		Message:   message,
		Level:     sentry.LevelInfo,
		Data:      data,
		Timestamp: time.Now().UTC(),
	})
}

// Flush waits up to timeout seconds for queued events
func (s *Service) Flush(timeout uint) bool {
	if !s.Enabled() {
		return true
	}
	s.logger.Debug("flushing sentry events")
	return sentry.Flush(time.Duration(timeout) * time.Second)
}
