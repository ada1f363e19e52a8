package store

import (
	"database/sql"

	"github.com/aromero/farmagestor/internal/logger"
	"github.com/aromero/farmagestor/migrations"
)

type DB struct {
	*sql.DB
	logger *logger.Logger
}

func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB)
}
