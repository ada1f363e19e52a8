package repository

import (
	"context"

	"github.com/aromero/farmagestor/internal/logger"
	"github.com/aromero/farmagestor/internal/store"
	"github.com/aromero/farmagestor/models"
)

// CobroRepository manages collection (payment) records.
type CobroRepository interface {
	List(ctx context.Context) ([]models.Cobro, error)
	Get(ctx context.Context, id string) (models.Cobro, error)
	Add(ctx context.Context, c models.Cobro) error
	Save(ctx context.Context, c models.Cobro) error
	Delete(ctx context.Context, id string) error

	// ListByCliente returns the cobros of a client matched by normalized
	// name.
	ListByCliente(ctx context.Context, nombre string) ([]models.Cobro, error)
}

type cobroRepository struct {
	cache *entityCache[models.Cobro]
}

func NewCobroRepository(records store.RecordStore, logger *logger.Logger) CobroRepository {
	return &cobroRepository{
		cache: newEntityCache[models.Cobro](store.CollectionCobros, records, logger),
	}
}

func (r *cobroRepository) List(ctx context.Context) ([]models.Cobro, error) {
	return r.cache.list(ctx)
}

func (r *cobroRepository) Get(ctx context.Context, id string) (models.Cobro, error) {
	return r.cache.get(ctx, id)
}

func (r *cobroRepository) Add(ctx context.Context, c models.Cobro) error {
	return r.cache.add(ctx, c)
}

func (r *cobroRepository) Save(ctx context.Context, c models.Cobro) error {
	return r.cache.save(ctx, c)
}

func (r *cobroRepository) Delete(ctx context.Context, id string) error {
	return r.cache.remove(ctx, id)
}

func (r *cobroRepository) ListByCliente(ctx context.Context, nombre string) ([]models.Cobro, error) {
	cobros, err := r.cache.list(ctx)
	if err != nil {
		return nil, err
	}

	want := NormalizeNombre(nombre)
	var result []models.Cobro
	for _, c := range cobros {
		if NormalizeNombre(c.Cliente) == want {
			result = append(result, c)
		}
	}

	return result, nil
}
