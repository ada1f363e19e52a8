// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package repository provides cached, typed access to the collections of the
// record store. Each repository loads its collection into memory on first
// use and keeps cache and store in sync write-through: the cache is updated
// first for snappy reads, and rolled back if the store write fails.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"dario.cat/mergo"

	"github.com/aromero/farmagestor/internal/logger"
	"github.com/aromero/farmagestor/internal/store"
)

// keyed is implemented by every model persisted through a repository.
type keyed interface {
	Key() string
}

// entityCache is the shared machinery behind the typed repositories: a
// write-through in-memory cache over one record-store collection.
//
// The first read triggers a load of the whole collection; concurrent first
// reads share a single load (single flight). A failed load is not cached:
// the next call retries.
type entityCache[T keyed] struct {
	collection string
	records    store.RecordStore
	logger     *logger.Logger

	mu      sync.Mutex
	loaded  bool
	loading chan struct{}
	loadErr error
	items   map[string]T
}

func newEntityCache[T keyed](collection string, records store.RecordStore, logger *logger.Logger) *entityCache[T] {
	return &entityCache[T]{
		collection: collection,
		records:    records,
		logger:     logger,
	}
}

// ensureLoaded populates the cache from the store on first use. Exactly one
// goroutine performs the load; the rest wait for its outcome.
func (c *entityCache[T]) ensureLoaded(ctx context.Context) error {
	c.mu.Lock()
	if c.loaded {
		c.mu.Unlock()
		return nil
	}

	if c.loading != nil {
		ch := c.loading
		c.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.loaded {
			return nil
		}
		return c.loadErr
	}

	ch := make(chan struct{})
	c.loading = ch
	c.mu.Unlock()

	items, err := c.loadAll(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.loadErr = fmt.Errorf("load collection %s: %w", c.collection, err)
	} else {
		c.items = items
		c.loaded = true
		c.loadErr = nil
	}
	c.loading = nil
	close(ch)

	return c.loadErr
}

func (c *entityCache[T]) loadAll(ctx context.Context) (map[string]T, error) {
	records, err := c.records.GetAll(ctx, c.collection)
	if err != nil {
		return nil, err
	}

	items := make(map[string]T, len(records))
	for _, raw := range records {
		var item T
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
		items[item.Key()] = item
	}

	return items, nil
}

// list returns all cached items ordered by key.
func (c *entityCache[T]) list(ctx context.Context) ([]T, error) {
	if err := c.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, len(c.items))
	for k := range c.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	items := make([]T, 0, len(keys))
	for _, k := range keys {
		items = append(items, c.items[k])
	}

	return items, nil
}

func (c *entityCache[T]) get(ctx context.Context, key string) (T, error) {
	var zero T

	if err := c.ensureLoaded(ctx); err != nil {
		return zero, err
	}

	c.mu.Lock()
	item, ok := c.items[key]
	c.mu.Unlock()

	if !ok {
		return zero, fmt.Errorf("%w: %s/%s", store.ErrRecordNotFound, c.collection, key)
	}

	return item, nil
}

// add inserts a new item. The cache is updated optimistically and rolled
// back if the store insert fails.
func (c *entityCache[T]) add(ctx context.Context, item T) error {
	if err := c.ensureLoaded(ctx); err != nil {
		return err
	}

	key := item.Key()
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	c.mu.Lock()
	if _, exists := c.items[key]; exists {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s/%s", store.ErrKeyConflict, c.collection, key)
	}
	c.items[key] = item
	c.mu.Unlock()

	if err := c.records.Add(ctx, c.collection, key, data); err != nil {
		c.mu.Lock()
		delete(c.items, key)
		c.mu.Unlock()
		return err
	}

	return nil
}

// save stores item under its key, replacing any previous version. On store
// failure the cache is restored to the previous version.
func (c *entityCache[T]) save(ctx context.Context, item T) error {
	if err := c.ensureLoaded(ctx); err != nil {
		return err
	}

	key := item.Key()
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	c.mu.Lock()
	prev, hadPrev := c.items[key]
	c.items[key] = item
	c.mu.Unlock()

	if err := c.records.Put(ctx, c.collection, key, data); err != nil {
		c.mu.Lock()
		if hadPrev {
			c.items[key] = prev
		} else {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return err
	}

	return nil
}

// update merges the non-zero fields of partial onto the stored item and
// saves the result. Zero-valued fields of partial leave the stored value
// untouched; fields that must be set to their zero value (flags going
// false) need a dedicated repository method doing a full save.
func (c *entityCache[T]) update(ctx context.Context, key string, partial T) (T, error) {
	var zero T

	current, err := c.get(ctx, key)
	if err != nil {
		return zero, err
	}

	merged := current
	if err := mergo.Merge(&merged, partial, mergo.WithOverride); err != nil {
		return zero, fmt.Errorf("merge update: %w", err)
	}

	if err := c.save(ctx, merged); err != nil {
		return zero, err
	}

	return merged, nil
}

// remove deletes the item stored under key. Deleting a missing key returns
// [store.ErrRecordNotFound]. On store failure the cached item is restored.
func (c *entityCache[T]) remove(ctx context.Context, key string) error {
	if err := c.ensureLoaded(ctx); err != nil {
		return err
	}

	c.mu.Lock()
	prev, existed := c.items[key]
	if !existed {
		c.mu.Unlock()
		return store.ErrRecordNotFound
	}
	delete(c.items, key)
	c.mu.Unlock()

	if err := c.records.Delete(ctx, c.collection, key); err != nil {
		c.mu.Lock()
		c.items[key] = prev
		c.mu.Unlock()
		return err
	}

	return nil
}

// clear empties the collection. On store failure the cached items are
// restored.
func (c *entityCache[T]) clear(ctx context.Context) error {
	if err := c.ensureLoaded(ctx); err != nil {
		return err
	}

	c.mu.Lock()
	prev := c.items
	c.items = make(map[string]T)
	c.mu.Unlock()

	if err := c.records.Clear(ctx, c.collection); err != nil {
		c.mu.Lock()
		c.items = prev
		c.mu.Unlock()
		return err
	}

	return nil
}

// invalidate drops the cache so the next read reloads from the store. Used
// when another writer (the delivery worker) may have mutated the collection
// behind the cache's back.
func (c *entityCache[T]) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.loaded = false
	c.items = nil
}

func (c *entityCache[T]) count(ctx context.Context) (int, error) {
	if err := c.ensureLoaded(ctx); err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.items), nil
}
