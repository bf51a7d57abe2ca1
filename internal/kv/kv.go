package kv

import (
	"context"
	"strings"

	ierr "github.com/talentflow/talentflow/internal/errors"
)

// Store is a key-value store of whole JSON documents with last-write-wins
// semantics. Implementations are safe for concurrent use but offer no
// transactions or compare-and-swap.
type Store interface {
	// Get returns the document stored at key or an error marked ErrNotFound
	Get(ctx context.Context, key string) ([]byte, error)
	// Put stores the document at key, replacing any previous value
	Put(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// List returns every entry whose key starts with prefix, ordered by key
	List(ctx context.Context, prefix string) ([]Entry, error)
	// Close releases the underlying resources
	Close() error
}

// Entry is a single stored document
type Entry struct {
	Key   string
	Value []byte
}

// NewNotFoundError is returned by every backend for a missing key
func NewNotFoundError(key string) error {
	return ierr.NewErrorf("key %s not found", key).
		WithHint("The requested record does not exist").
		WithReportableDetails(map[string]any{
			"key": key,
		}).
		Mark(ierr.ErrNotFound)
}

// NewStoreError wraps a backend failure
func NewStoreError(err error, op, key string) error {
	return ierr.WithError(err).
		WithMessagef("kv %s %s", op, key).
		WithHint("Storage is temporarily unavailable").
		Mark(ierr.ErrDatabase)
}

// ValidateKey rejects empty keys
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ierr.NewError("empty key").
			WithHint("A record key is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// PrefixUpperBound returns the smallest string greater than every string
// starting with prefix, for range scans. An empty result means unbounded.
func PrefixUpperBound(prefix string) string {
	b := []byte(prefix)
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] < 0xff {
			b[i]++
			return string(b[:i+1])
		}
	}
	return ""
}
