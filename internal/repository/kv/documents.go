package kv

import (
	"context"

	jsoniter "github.com/json-iterator/go"
	ierr "github.com/talentflow/talentflow/internal/errors"
	kvstore "github.com/talentflow/talentflow/internal/kv"
	"github.com/talentflow/talentflow/internal/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// documents stores values of T as JSON documents in a kv store
type documents[T any] struct {
	store  kvstore.Store
	logger *logger.Logger
	entity string
}

func newDocuments[T any](store kvstore.Store, log *logger.Logger, entity string) documents[T] {
	return documents[T]{store: store, logger: log, entity: entity}
}

func (d documents[T]) get(ctx context.Context, key string, details map[string]any) (*T, error) {
	raw, err := d.store.Get(ctx, key)
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, ierr.WithError(err).
				WithHintf("%s not found", d.entity).
				WithReportableDetails(details).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHintf("Failed to load %s", d.entity).
			Mark(ierr.ErrDatabase)
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Stored %s is corrupted", d.entity).
			WithReportableDetails(details).
			Mark(ierr.ErrDatabase)
	}
	return &v, nil
}

func (d documents[T]) exists(ctx context.Context, key string) (bool, error) {
	_, err := d.store.Get(ctx, key)
	if err == nil {
		return true, nil
	}
	if ierr.IsNotFound(err) {
		return false, nil
	}
	return false, ierr.WithError(err).
		WithHintf("Failed to load %s", d.entity).
		Mark(ierr.ErrDatabase)
}

func (d documents[T]) put(ctx context.Context, key string, v *T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return ierr.WithError(err).
			WithHintf("Failed to encode %s", d.entity).
			Mark(ierr.ErrSystem)
	}
	if err := d.store.Put(ctx, key, raw); err != nil {
		if ierr.IsValidation(err) {
			return err
		}
		return ierr.WithError(err).
			WithHintf("Failed to save %s", d.entity).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (d documents[T]) create(ctx context.Context, key string, v *T, details map[string]any) error {
	found, err := d.exists(ctx, key)
	if err != nil {
		return err
	}
	if found {
		return ierr.NewErrorf("%s %s already exists", d.entity, key).
			WithHintf("%s already exists", d.entity).
			WithReportableDetails(details).
			Mark(ierr.ErrAlreadyExists)
	}
	return d.put(ctx, key, v)
}

// update refuses to resurrect a document deleted in the meantime
func (d documents[T]) update(ctx context.Context, key string, v *T, details map[string]any) error {
	found, err := d.exists(ctx, key)
	if err != nil {
		return err
	}
	if !found {
		return ierr.NewErrorf("%s %s not found", d.entity, key).
			WithHintf("%s not found", d.entity).
			WithReportableDetails(details).
			Mark(ierr.ErrNotFound)
	}
	return d.put(ctx, key, v)
}

func (d documents[T]) delete(ctx context.Context, key string, details map[string]any) error {
	found, err := d.exists(ctx, key)
	if err != nil {
		return err
	}
	if !found {
		return ierr.NewErrorf("%s %s not found", d.entity, key).
			WithHintf("%s not found", d.entity).
			WithReportableDetails(details).
			Mark(ierr.ErrNotFound)
	}
	if err := d.store.Delete(ctx, key); err != nil {
		return ierr.WithError(err).
			WithHintf("Failed to delete %s", d.entity).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

// list decodes every document under prefix, skipping unreadable ones
func (d documents[T]) list(ctx context.Context, prefix string) ([]*T, error) {
	entries, err := d.store.List(ctx, prefix)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Failed to list %s", d.entity).
			Mark(ierr.ErrDatabase)
	}

	out := make([]*T, 0, len(entries))
	for _, entry := range entries {
		var v T
		if err := json.Unmarshal(entry.Value, &v); err != nil {
			d.logger.Warnw("skipping unreadable document", "key", entry.Key, "error", err)
			continue
		}
		out = append(out, &v)
	}
	return out, nil
}
