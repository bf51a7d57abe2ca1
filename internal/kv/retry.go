package kv

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/talentflow/talentflow/internal/config"
	ierr "github.com/talentflow/talentflow/internal/errors"
	"github.com/talentflow/talentflow/internal/logger"
)

// RetryStore retries transient backend failures with exponential backoff.
// Not-found and validation errors are returned immediately.
type RetryStore struct {
	next            Store
	maxAttempts     int
	initialInterval time.Duration
	logger          *logger.Logger
}

// WithRetry wraps next. A MaxAttempts of one or less disables retries.
func WithRetry(next Store, cfg config.RetryConfig, log *logger.Logger) Store {
	if cfg.MaxAttempts <= 1 {
		return next
	}
	interval := time.Duration(cfg.InitialIntervalMs) * time.Millisecond
	if interval <= 0 {
		interval = 50 * time.Millisecond
	}
	return &RetryStore{
		next:            next,
		maxAttempts:     cfg.MaxAttempts,
		initialInterval: interval,
		logger:          log,
	}
}

func (s *RetryStore) policy(ctx context.Context) backoff.BackOffContext {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.initialInterval
	b.MaxInterval = 20 * s.initialInterval
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(s.maxAttempts-1)), ctx)
}

func shouldRetry(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return !ierr.IsNotFound(err) && !ierr.IsValidation(err)
}

func (s *RetryStore) do(ctx context.Context, op, key string, fn func() error) error {
	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		err := fn()
		if err == nil {
			return nil
		}
		if !shouldRetry(err) {
			return backoff.Permanent(err)
		}
		s.logger.Warnw("kv operation failed, retrying",
			"op", op,
			"key", key,
			"attempt", attempt,
			"error", err,
		)
		return err
	}, s.policy(ctx))
}

func (s *RetryStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.do(ctx, "get", key, func() error {
		var err error
		value, err = s.next.Get(ctx, key)
		return err
	})
	return value, err
}

func (s *RetryStore) Put(ctx context.Context, key string, value []byte) error {
	return s.do(ctx, "put", key, func() error {
		return s.next.Put(ctx, key, value)
	})
}

func (s *RetryStore) Delete(ctx context.Context, key string) error {
	return s.do(ctx, "delete", key, func() error {
		return s.next.Delete(ctx, key)
	})
}

func (s *RetryStore) List(ctx context.Context, prefix string) ([]Entry, error) {
	var entries []Entry
	err := s.do(ctx, "list", prefix, func() error {
		var err error
		entries, err = s.next.List(ctx, prefix)
		return err
	})
	return entries, err
}

func (s *RetryStore) Close() error {
	return s.next.Close()
}
