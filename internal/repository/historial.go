package repository

import (
	"context"
	"sort"
	"time"

	"github.com/aromero/farmagestor/internal/logger"
	"github.com/aromero/farmagestor/internal/store"
	"github.com/aromero/farmagestor/models"
)

// HistorialRepository manages the append-only sales ledger. There is no
// update or single-record delete: corrections are new documents, and history
// is only cleared wholesale during a restore.
type HistorialRepository interface {
	List(ctx context.Context) ([]models.Documento, error)
	Get(ctx context.Context, id string) (models.Documento, error)
	Add(ctx context.Context, d models.Documento) error
	Clear(ctx context.Context) error

	// ListDesde returns documents dated on or after the cut-off, newest
	// first.
	ListDesde(ctx context.Context, desde time.Time) ([]models.Documento, error)
}

type historialRepository struct {
	cache *entityCache[models.Documento]
}

func NewHistorialRepository(records store.RecordStore, logger *logger.Logger) HistorialRepository {
	return &historialRepository{
		cache: newEntityCache[models.Documento](store.CollectionHistorial, records, logger),
	}
}

func (r *historialRepository) List(ctx context.Context) ([]models.Documento, error) {
	return r.cache.list(ctx)
}

func (r *historialRepository) Get(ctx context.Context, id string) (models.Documento, error) {
	return r.cache.get(ctx, id)
}

func (r *historialRepository) Add(ctx context.Context, d models.Documento) error {
	return r.cache.add(ctx, d)
}

func (r *historialRepository) Clear(ctx context.Context) error {
	return r.cache.clear(ctx)
}

func (r *historialRepository) ListDesde(ctx context.Context, desde time.Time) ([]models.Documento, error) {
	docs, err := r.cache.list(ctx)
	if err != nil {
		return nil, err
	}

	var result []models.Documento
	for _, d := range docs {
		if !d.Fecha.Before(desde) {
			result = append(result, d)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Fecha.After(result[j].Fecha)
	})

	return result, nil
}
