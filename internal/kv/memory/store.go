package memory

import (
	"context"
	"sort"
	"strings"

	goCache "github.com/patrickmn/go-cache"
	"github.com/talentflow/talentflow/internal/kv"
)

// Store keeps documents in process memory using go-cache. Items never
// expire, so no janitor goroutine is started.
type Store struct {
	cache *goCache.Cache
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{
		cache: goCache.New(goCache.NoExpiration, 0),
	}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	value, found := s.cache.Get(key)
	if !found {
		return nil, kv.NewNotFoundError(key)
	}
	return clone(value.([]byte)), nil
}

func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := kv.ValidateKey(key); err != nil {
		return err
	}
	s.cache.Set(key, clone(value), goCache.NoExpiration)
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.cache.Delete(key)
	return nil
}

func (s *Store) List(ctx context.Context, prefix string) ([]kv.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries := make([]kv.Entry, 0)
	for key, item := range s.cache.Items() {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		entries = append(entries, kv.Entry{Key: key, Value: clone(item.Object.([]byte))})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})
	return entries, nil
}

// Flush removes every document
func (s *Store) Flush() {
	s.cache.Flush()
}

func (s *Store) Close() error {
	return nil
}

func clone(value []byte) []byte {
	out := make([]byte, len(value))
	copy(out, value)
	return out
}
