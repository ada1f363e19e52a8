package repository

import (
	"context"
	"time"

	"github.com/aromero/farmagestor/internal/logger"
	"github.com/aromero/farmagestor/internal/store"
	"github.com/aromero/farmagestor/models"
)

// BackupRepository manages stored data snapshots.
type BackupRepository interface {
	List(ctx context.Context) ([]models.Backup, error)
	Get(ctx context.Context, id string) (models.Backup, error)
	Add(ctx context.Context, b models.Backup) error
	Delete(ctx context.Context, id string) error

	// Prune removes automatic backups older than the cut-off and returns
	// how many were removed. Manual backups are never pruned.
	Prune(ctx context.Context, cutoff time.Time) (int, error)
}

type backupRepository struct {
	cache *entityCache[models.Backup]
}

func NewBackupRepository(records store.RecordStore, logger *logger.Logger) BackupRepository {
	return &backupRepository{
		cache: newEntityCache[models.Backup](store.CollectionBackups, records, logger),
	}
}

func (r *backupRepository) List(ctx context.Context) ([]models.Backup, error) {
	return r.cache.list(ctx)
}

func (r *backupRepository) Get(ctx context.Context, id string) (models.Backup, error) {
	return r.cache.get(ctx, id)
}

func (r *backupRepository) Add(ctx context.Context, b models.Backup) error {
	return r.cache.add(ctx, b)
}

func (r *backupRepository) Delete(ctx context.Context, id string) error {
	return r.cache.remove(ctx, id)
}

func (r *backupRepository) Prune(ctx context.Context, cutoff time.Time) (int, error) {
	backups, err := r.cache.list(ctx)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, b := range backups {
		if !b.Auto || !b.Date.Before(cutoff) {
			continue
		}
		if err := r.cache.remove(ctx, b.ID); err != nil {
			return removed, err
		}
		removed++
	}

	return removed, nil
}
