package testutil

import (
	"context"
	"strings"
	"sync"

	ierr "github.com/talentflow/talentflow/internal/errors"
	"github.com/talentflow/talentflow/internal/kv"
)

// FailingStore wraps a kv.Store and fails writes to keys with a given prefix,
// for exercising best-effort propagation
type FailingStore struct {
	kv.Store
	mu       sync.RWMutex
	prefixes []string
}

var _ kv.Store = (*FailingStore)(nil)

func NewFailingStore(next kv.Store) *FailingStore {
	return &FailingStore{Store: next}
}

// FailWrites makes every later Put and Delete under prefix fail
func (s *FailingStore) FailWrites(prefix string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefixes = append(s.prefixes, prefix)
}

// Reset lets every write through again
func (s *FailingStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefixes = nil
}

func (s *FailingStore) fails(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.prefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}

func (s *FailingStore) Put(ctx context.Context, key string, value []byte) error {
	if s.fails(key) {
		return kv.NewStoreError(ierr.NewError("injected write failure").Mark(ierr.ErrDatabase), "put", key)
	}
	return s.Store.Put(ctx, key, value)
}

func (s *FailingStore) Delete(ctx context.Context, key string) error {
	if s.fails(key) {
		return kv.NewStoreError(ierr.NewError("injected write failure").Mark(ierr.ErrDatabase), "delete", key)
	}
	return s.Store.Delete(ctx, key)
}
