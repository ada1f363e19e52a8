package store

import (
	"context"
	"fmt"

	"github.com/aromero/farmagestor/internal/config"
	"github.com/aromero/farmagestor/internal/logger"
)

// Storages groups the persistence layer into a single value that can be
// passed around the repository and service layers.
type Storages struct {
	// DB is the underlying SQLite handle.
	DB *DB

	// Records is the transactional record store backing every collection.
	Records RecordStore

	// Migrator owns the store lifecycle: schema migrations plus the
	// one-time legacy flat-key import.
	Migrator *Migrator
}

// NewStorages initialises the storage layer using the supplied configuration
// and logger. It performs the following steps:
//  1. Opens an SQLite connection to the file path specified in cfg.DB.DSN,
//     creating the database file if it does not yet exist.
//  2. Runs pending schema migrations and the legacy import via
//     [Migrator.Open].
//  3. Constructs and returns a [Storages] value wired to a fresh
//     [RecordStore].
//
// Returns an error if the database connection cannot be established or if
// migration fails.
func NewStorages(cfg config.Storage, logger *logger.Logger) (*Storages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectSQLite(context.Background(), cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	records := NewRecordStore(db, logger)
	migrator := NewMigrator(db, records, cfg.Legacy.Path, logger)

	if err := migrator.Open(context.Background()); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &Storages{
		DB:       db,
		Records:  records,
		Migrator: migrator,
	}, nil
}
