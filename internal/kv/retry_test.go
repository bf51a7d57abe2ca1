package kv

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talentflow/talentflow/internal/config"
	ierr "github.com/talentflow/talentflow/internal/errors"
	"github.com/talentflow/talentflow/internal/logger"
)

// flakyStore fails the first failures calls of every operation with err
type flakyStore struct {
	failures int
	err      error
	calls    int
}

func (f *flakyStore) fail() error {
	f.calls++
	if f.calls <= f.failures {
		return f.err
	}
	return nil
}

func (f *flakyStore) Get(context.Context, string) ([]byte, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	return []byte(`{}`), nil
}

func (f *flakyStore) Put(context.Context, string, []byte) error { return f.fail() }
func (f *flakyStore) Delete(context.Context, string) error      { return f.fail() }

func (f *flakyStore) List(context.Context, string) ([]Entry, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	return []Entry{{Key: "a"}}, nil
}

func (f *flakyStore) Close() error { return nil }

var retryCfg = config.RetryConfig{MaxAttempts: 3, InitialIntervalMs: 1}

func TestRetryRecoversFromTransientErrors(t *testing.T) {
	flaky := &flakyStore{failures: 2, err: NewStoreError(errors.New("connection reset"), "get", "k")}
	s := WithRetry(flaky, retryCfg, logger.NewNopLogger())

	value, err := s.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(value))
	assert.Equal(t, 3, flaky.calls)
}

func TestRetryGivesUpAfterMaxAttempts(t *testing.T) {
	flaky := &flakyStore{failures: 10, err: NewStoreError(errors.New("timeout"), "put", "k")}
	s := WithRetry(flaky, retryCfg, logger.NewNopLogger())

	err := s.Put(context.Background(), "k", []byte(`{}`))
	require.Error(t, err)
	assert.True(t, ierr.IsDatabase(err))
	assert.Equal(t, 3, flaky.calls)
}

func TestRetrySkipsPermanentErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"not found", NewNotFoundError("k")},
		{"validation", ValidateKey("")},
		{"cancelled", context.Canceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flaky := &flakyStore{failures: 10, err: tt.err}
			s := WithRetry(flaky, retryCfg, logger.NewNopLogger())

			_, err := s.Get(context.Background(), "k")
			require.Error(t, err)
			assert.Equal(t, 1, flaky.calls)
		})
	}
}

func TestWithRetryDisabled(t *testing.T) {
	flaky := &flakyStore{}
	assert.Same(t, Store(flaky), WithRetry(flaky, config.RetryConfig{MaxAttempts: 1}, logger.NewNopLogger()))
}

func TestPrefixUpperBound(t *testing.T) {
	assert.Equal(t, "slot:2024-05-01;", PrefixUpperBound("slot:2024-05-01:"))
	assert.Equal(t, "", PrefixUpperBound(""))
	assert.Equal(t, "b", PrefixUpperBound("a\xff"))
}
