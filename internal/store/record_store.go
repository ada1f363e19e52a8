// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/mattn/go-sqlite3"

	"github.com/aromero/farmagestor/internal/logger"
)

// Collection names of the record store. Every record operation must name one
// of these; anything else is rejected with [ErrUnknownCollection].
const (
	CollectionProductos     = "productos"
	CollectionClientes      = "clientes"
	CollectionVisitas       = "visitas"
	CollectionCobros        = "cobros"
	CollectionHistorial     = "historial"
	CollectionUsuarios      = "usuarios"
	CollectionAgenda        = "agenda"
	CollectionConfig        = "config"
	CollectionNotifications = "notifications"
	CollectionBackups       = "backups"
)

// Collections lists every collection of the store schema in creation order.
var Collections = []string{
	CollectionProductos,
	CollectionClientes,
	CollectionVisitas,
	CollectionCobros,
	CollectionHistorial,
	CollectionUsuarios,
	CollectionAgenda,
	CollectionConfig,
	CollectionNotifications,
	CollectionBackups,
}

var knownCollections = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Collections))
	for _, c := range Collections {
		m[c] = struct{}{}
	}
	return m
}()

// RecordStore is the transactional key/record persistence layer. Records are
// opaque JSON documents addressed by (collection, key).
type RecordStore interface {
	// GetAll returns every record of the collection ordered by key.
	GetAll(ctx context.Context, collection string) ([]json.RawMessage, error)

	// Get returns the record stored under key, or [ErrRecordNotFound].
	Get(ctx context.Context, collection, key string) (json.RawMessage, error)

	// Put stores data under key, replacing any existing record.
	Put(ctx context.Context, collection, key string, data json.RawMessage) error

	// Add inserts data under key; an existing key yields [ErrKeyConflict].
	Add(ctx context.Context, collection, key string, data json.RawMessage) error

	// Delete removes the record stored under key. Deleting a missing key is
	// not an error.
	Delete(ctx context.Context, collection, key string) error

	// Clear removes every record of the collection.
	Clear(ctx context.Context, collection string) error

	// BulkPut stores all records in a single transaction: either every
	// record lands or none do.
	BulkPut(ctx context.Context, collection string, records map[string]json.RawMessage) error

	// Count returns the number of records in the collection.
	Count(ctx context.Context, collection string) (int64, error)
}

type sqlRecordStore struct {
	*DB
	logger *logger.Logger
}

func NewRecordStore(db *DB, logger *logger.Logger) RecordStore {
	return &sqlRecordStore{
		DB:     db,
		logger: logger,
	}
}

func (s *sqlRecordStore) GetAll(ctx context.Context, collection string) ([]json.RawMessage, error) {
	log := logger.FromContext(ctx)

	if err := checkCollection(collection); err != nil {
		return nil, err
	}

	query, args, err := sq.Select("data").From(collection).OrderBy("key").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "recordStore.GetAll").
			Str("collection", collection).
			Msg("failed to query all records")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var records []json.RawMessage

	for rows.Next() {
		var data string
		if scanErr := rows.Scan(&data); scanErr != nil {
			log.Err(scanErr).
				Str("func", "recordStore.GetAll").
				Str("collection", collection).
				Msg("failed to scan record row")
			return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, scanErr)
		}
		records = append(records, json.RawMessage(data))
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, rowsErr)
	}

	return records, nil
}

func (s *sqlRecordStore) Get(ctx context.Context, collection, key string) (json.RawMessage, error) {
	log := logger.FromContext(ctx)

	if err := checkCollection(collection); err != nil {
		return nil, err
	}

	query, args, err := sq.Select("data").From(collection).Where(sq.Eq{"key": key}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var data string
	scanErr := s.DB.QueryRowContext(ctx, query, args...).Scan(&data)
	if errors.Is(scanErr, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s/%s", ErrRecordNotFound, collection, key)
	}
	if scanErr != nil {
		log.Err(scanErr).
			Str("func", "recordStore.Get").
			Str("collection", collection).
			Str("key", key).
			Msg("failed to query record")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, scanErr)
	}

	return json.RawMessage(data), nil
}

func (s *sqlRecordStore) Put(ctx context.Context, collection, key string, data json.RawMessage) error {
	log := logger.FromContext(ctx)

	if err := checkCollection(collection); err != nil {
		return err
	}

	query, args, err := sq.Insert(collection).
		Columns("key", "data").
		Values(key, string(data)).
		Suffix("ON CONFLICT(key) DO UPDATE SET data = excluded.data").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err := s.DB.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "recordStore.Put").
			Str("collection", collection).
			Str("key", key).
			Msg("failed to upsert record")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

func (s *sqlRecordStore) Add(ctx context.Context, collection, key string, data json.RawMessage) error {
	log := logger.FromContext(ctx)

	if err := checkCollection(collection); err != nil {
		return err
	}

	query, args, err := sq.Insert(collection).
		Columns("key", "data").
		Values(key, string(data)).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err := s.DB.ExecContext(ctx, query, args...); err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("%w: %s/%s", ErrKeyConflict, collection, key)
		}
		log.Err(err).
			Str("func", "recordStore.Add").
			Str("collection", collection).
			Str("key", key).
			Msg("failed to insert record")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

func (s *sqlRecordStore) Delete(ctx context.Context, collection, key string) error {
	if err := checkCollection(collection); err != nil {
		return err
	}

	query, args, err := sq.Delete(collection).Where(sq.Eq{"key": key}).ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err := s.DB.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

func (s *sqlRecordStore) Clear(ctx context.Context, collection string) error {
	if err := checkCollection(collection); err != nil {
		return err
	}

	query, _, err := sq.Delete(collection).ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err := s.DB.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

func (s *sqlRecordStore) BulkPut(ctx context.Context, collection string, records map[string]json.RawMessage) error {
	log := logger.FromContext(ctx)

	if err := checkCollection(collection); err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	for key, data := range records {
		query, args, buildErr := sq.Insert(collection).
			Columns("key", "data").
			Values(key, string(data)).
			Suffix("ON CONFLICT(key) DO UPDATE SET data = excluded.data").
			ToSql()
		if buildErr != nil {
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, buildErr)
		}

		if _, execErr := tx.ExecContext(ctx, query, args...); execErr != nil {
			log.Err(execErr).
				Str("func", "recordStore.BulkPut").
				Str("collection", collection).
				Str("key", key).
				Msg("failed to upsert record in transaction")
			return fmt.Errorf("%w: %w", ErrExecutingQuery, execErr)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

func (s *sqlRecordStore) Count(ctx context.Context, collection string) (int64, error) {
	if err := checkCollection(collection); err != nil {
		return 0, err
	}

	query, _, err := sq.Select("COUNT(*)").From(collection).ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var count int64
	if err := s.DB.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return count, nil
}

func checkCollection(collection string) error {
	if _, ok := knownCollections[collection]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCollection, collection)
	}

	return nil
}

func isConstraintViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint
	}

	return false
}
