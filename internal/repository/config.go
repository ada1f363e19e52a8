package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/aromero/farmagestor/internal/logger"
	"github.com/aromero/farmagestor/internal/store"
)

// ConfigRepository is an uncached key/value view over the config collection.
// Config entries are tiny and read rarely, and the migrator and workers
// write them behind any cache's back, so every read goes to the store.
type ConfigRepository interface {
	Get(ctx context.Context, key string, v any) error
	Set(ctx context.Context, key string, v any) error
	Delete(ctx context.Context, key string) error

	// GetString returns the stored string, or fallback when the key is
	// absent.
	GetString(ctx context.Context, key, fallback string) (string, error)
}

type configRepository struct {
	records store.RecordStore
	logger  *logger.Logger
}

func NewConfigRepository(records store.RecordStore, logger *logger.Logger) ConfigRepository {
	return &configRepository{
		records: records,
		logger:  logger,
	}
}

func (r *configRepository) Get(ctx context.Context, key string, v any) error {
	data, err := r.records.Get(ctx, store.CollectionConfig, key)
	if err != nil {
		return err
	}

	return json.Unmarshal(data, v)
}

func (r *configRepository) Set(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return r.records.Put(ctx, store.CollectionConfig, key, data)
}

func (r *configRepository) Delete(ctx context.Context, key string) error {
	return r.records.Delete(ctx, store.CollectionConfig, key)
}

func (r *configRepository) GetString(ctx context.Context, key, fallback string) (string, error) {
	var value string
	err := r.Get(ctx, key, &value)
	if errors.Is(err, store.ErrRecordNotFound) {
		return fallback, nil
	}
	if err != nil {
		return "", err
	}

	return value, nil
}
