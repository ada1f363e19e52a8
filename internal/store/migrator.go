// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/aromero/farmagestor/internal/logger"
	"github.com/aromero/farmagestor/models"
)

// MigrationState tracks the lifecycle of the record store.
type MigrationState int32

const (
	// StateUnopened means Open has not been called yet.
	StateUnopened MigrationState = iota
	// StateUpgrading means schema migrations or the legacy import are
	// in progress.
	StateUpgrading
	// StateReady means the store is fully migrated and usable.
	StateReady
	// StateFailed means opening the store failed; record operations must
	// be refused.
	StateFailed
)

func (s MigrationState) String() string {
	switch s {
	case StateUnopened:
		return "unopened"
	case StateUpgrading:
		return "upgrading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Migrator brings the record store up to date on application start: it
// applies the versioned schema migrations and imports data left behind by
// the old flat-key storage, exactly once per device.
//
// Open is idempotent: the migration flags stored in the config collection
// guarantee each import step runs at most once, so crashing halfway and
// re-running is safe.
type Migrator struct {
	db         *DB
	records    RecordStore
	legacyPath string
	logger     *logger.Logger

	mu    sync.Mutex
	state MigrationState
}

func NewMigrator(db *DB, records RecordStore, legacyPath string, logger *logger.Logger) *Migrator {
	return &Migrator{
		db:         db,
		records:    records,
		legacyPath: legacyPath,
		logger:     logger,
		state:      StateUnopened,
	}
}

// State returns the current lifecycle state.
func (m *Migrator) State() MigrationState {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state
}

// Open migrates the schema and imports legacy data. Calling Open on an
// already-ready store is a no-op; calling it after a failure retries the
// whole sequence.
func (m *Migrator) Open(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateReady {
		return nil
	}

	m.state = StateUpgrading
	m.logger.Info().Str("func", "Migrator.Open").Msg("opening record store")

	if err := m.db.Migrate(); err != nil {
		m.state = StateFailed
		m.logger.Err(err).Str("func", "Migrator.Open").Msg("schema migration failed")
		return fmt.Errorf("schema migration failed: %w", err)
	}

	if err := m.importLegacy(ctx); err != nil {
		m.state = StateFailed
		m.logger.Err(err).Str("func", "Migrator.Open").Msg("legacy import failed")
		return fmt.Errorf("legacy import failed: %w", err)
	}

	m.state = StateReady
	m.logger.Info().Str("func", "Migrator.Open").Msg("record store ready")

	return nil
}

// importLegacy runs the one-time flat-key imports guarded by the
// migration_v3_done and migration_v4_done flags. Individual collection steps
// are isolated: a step that fails to parse is logged and skipped so one
// corrupt legacy value cannot hold the rest of the data hostage.
func (m *Migrator) importLegacy(ctx context.Context) error {
	v3Done, err := m.flagSet(ctx, models.ConfigMigrationV3Done)
	if err != nil {
		return err
	}
	v4Done, err := m.flagSet(ctx, models.ConfigMigrationV4Done)
	if err != nil {
		return err
	}
	if v3Done && v4Done {
		return nil
	}

	if m.legacyPath == "" {
		// Nothing to import on this device; mark both phases done so later
		// opens skip the file check.
		if err := m.setFlags(ctx, v3Done, v4Done); err != nil {
			return err
		}
		return nil
	}

	legacy, err := readLegacyFile(m.legacyPath)
	if err != nil {
		return err
	}
	if legacy == nil {
		if err := m.setFlags(ctx, v3Done, v4Done); err != nil {
			return err
		}
		return nil
	}

	nowMillis := time.Now().UnixMilli()

	if !v3Done {
		steps := []struct {
			collection string
			parse      func() (map[string]json.RawMessage, error)
		}{
			{CollectionProductos, func() (map[string]json.RawMessage, error) {
				return parseLegacyProductos(legacy[legacyKeyProductos])
			}},
			{CollectionClientes, func() (map[string]json.RawMessage, error) {
				return parseLegacyClientes(legacy[legacyKeyClientes])
			}},
			{CollectionCobros, func() (map[string]json.RawMessage, error) {
				return parseLegacyCobros(legacy[legacyKeyCobros])
			}},
			{CollectionHistorial, func() (map[string]json.RawMessage, error) {
				return parseLegacyHistorial(legacy[legacyKeyHistorialDocs], legacy[legacyKeyHistorial], nowMillis)
			}},
			{CollectionUsuarios, func() (map[string]json.RawMessage, error) {
				return parseLegacyUsuarios(legacy[legacyKeyUsuarios])
			}},
			{CollectionVisitas, func() (map[string]json.RawMessage, error) {
				return parseLegacyVisitas(legacy[legacyKeyVisitas], nowMillis)
			}},
		}

		for _, step := range steps {
			m.importStep(ctx, step.collection, step.parse)
		}

		if err := m.setFlag(ctx, models.ConfigMigrationV3Done); err != nil {
			return err
		}
	}

	if !v4Done {
		m.importStep(ctx, CollectionAgenda, func() (map[string]json.RawMessage, error) {
			return parseLegacyAgenda(legacy[legacyKeyAgenda])
		})
		m.importStep(ctx, CollectionBackups, func() (map[string]json.RawMessage, error) {
			return parseLegacyBackups(legacy[legacyKeyBackups])
		})

		if err := m.setFlag(ctx, models.ConfigMigrationV4Done); err != nil {
			return err
		}
	}

	if err := os.Remove(m.legacyPath); err != nil && !os.IsNotExist(err) {
		// Stale legacy file is harmless: the flags prevent a re-import.
		m.logger.Warn().Err(err).
			Str("func", "Migrator.importLegacy").
			Str("path", m.legacyPath).
			Msg("failed to remove legacy storage file")
	}

	return nil
}

// importStep parses one legacy collection and writes it in a single
// transaction. Records already present in the store keep priority over the
// legacy copy only through the upsert: legacy runs first in the app's life,
// so in practice the collection is empty.
func (m *Migrator) importStep(ctx context.Context, collection string, parse func() (map[string]json.RawMessage, error)) {
	records, err := parse()
	if err != nil {
		m.logger.Err(err).
			Str("func", "Migrator.importStep").
			Str("collection", collection).
			Msg("skipping corrupt legacy collection")
		return
	}
	if len(records) == 0 {
		return
	}

	if err := m.records.BulkPut(ctx, collection, records); err != nil {
		m.logger.Err(err).
			Str("func", "Migrator.importStep").
			Str("collection", collection).
			Msg("failed to persist imported legacy collection")
		return
	}

	m.logger.Info().
		Str("func", "Migrator.importStep").
		Str("collection", collection).
		Int("records", len(records)).
		Msg("imported legacy collection")
}

func (m *Migrator) flagSet(ctx context.Context, flag string) (bool, error) {
	data, err := m.records.Get(ctx, CollectionConfig, flag)
	if errors.Is(err, ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var done bool
	if err := json.Unmarshal(data, &done); err != nil {
		return false, nil
	}

	return done, nil
}

func (m *Migrator) setFlag(ctx context.Context, flag string) error {
	return m.records.Put(ctx, CollectionConfig, flag, json.RawMessage("true"))
}

func (m *Migrator) setFlags(ctx context.Context, v3Done, v4Done bool) error {
	if !v3Done {
		if err := m.setFlag(ctx, models.ConfigMigrationV3Done); err != nil {
			return err
		}
	}
	if !v4Done {
		if err := m.setFlag(ctx, models.ConfigMigrationV4Done); err != nil {
			return err
		}
	}

	return nil
}
