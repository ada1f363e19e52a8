package repository

import (
	"context"
	"time"

	"github.com/aromero/farmagestor/internal/logger"
	"github.com/aromero/farmagestor/internal/store"
	"github.com/aromero/farmagestor/models"
)

// VisitaRepository manages daily client visits.
type VisitaRepository interface {
	List(ctx context.Context) ([]models.Visita, error)
	Get(ctx context.Context, id string) (models.Visita, error)
	Add(ctx context.Context, v models.Visita) error
	Save(ctx context.Context, v models.Visita) error
	Update(ctx context.Context, id string, partial models.Visita) (models.Visita, error)
	Delete(ctx context.Context, id string) error

	// ListDia returns the visits scheduled on the same calendar day as day,
	// in the local time zone.
	ListDia(ctx context.Context, day time.Time) ([]models.Visita, error)
}

type visitaRepository struct {
	cache *entityCache[models.Visita]
}

func NewVisitaRepository(records store.RecordStore, logger *logger.Logger) VisitaRepository {
	return &visitaRepository{
		cache: newEntityCache[models.Visita](store.CollectionVisitas, records, logger),
	}
}

func (r *visitaRepository) List(ctx context.Context) ([]models.Visita, error) {
	return r.cache.list(ctx)
}

func (r *visitaRepository) Get(ctx context.Context, id string) (models.Visita, error) {
	return r.cache.get(ctx, id)
}

func (r *visitaRepository) Add(ctx context.Context, v models.Visita) error {
	return r.cache.add(ctx, v)
}

func (r *visitaRepository) Save(ctx context.Context, v models.Visita) error {
	return r.cache.save(ctx, v)
}

func (r *visitaRepository) Update(ctx context.Context, id string, partial models.Visita) (models.Visita, error) {
	return r.cache.update(ctx, id, partial)
}

func (r *visitaRepository) Delete(ctx context.Context, id string) error {
	return r.cache.remove(ctx, id)
}

func (r *visitaRepository) ListDia(ctx context.Context, day time.Time) ([]models.Visita, error) {
	visitas, err := r.cache.list(ctx)
	if err != nil {
		return nil, err
	}

	y, m, d := day.Date()
	var result []models.Visita
	for _, v := range visitas {
		vy, vm, vd := v.Fecha.In(day.Location()).Date()
		if vy == y && vm == m && vd == d {
			result = append(result, v)
		}
	}

	return result, nil
}
