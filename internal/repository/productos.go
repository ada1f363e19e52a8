package repository

import (
	"context"
	"encoding/json"

	"github.com/aromero/farmagestor/internal/logger"
	"github.com/aromero/farmagestor/internal/store"
	"github.com/aromero/farmagestor/models"
)

// ProductoRepository manages the product catalog.
type ProductoRepository interface {
	List(ctx context.Context) ([]models.Producto, error)
	Get(ctx context.Context, id string) (models.Producto, error)
	Add(ctx context.Context, p models.Producto) error
	Save(ctx context.Context, p models.Producto) error
	Update(ctx context.Context, id string, partial models.Producto) (models.Producto, error)
	Delete(ctx context.Context, id string) error

	// ReplaceAll swaps the whole catalog for the given list, as done when a
	// fresh price list is imported.
	ReplaceAll(ctx context.Context, productos []models.Producto) error
}

type productoRepository struct {
	cache   *entityCache[models.Producto]
	records store.RecordStore
}

func NewProductoRepository(records store.RecordStore, logger *logger.Logger) ProductoRepository {
	return &productoRepository{
		cache:   newEntityCache[models.Producto](store.CollectionProductos, records, logger),
		records: records,
	}
}

func (r *productoRepository) List(ctx context.Context) ([]models.Producto, error) {
	return r.cache.list(ctx)
}

func (r *productoRepository) Get(ctx context.Context, id string) (models.Producto, error) {
	return r.cache.get(ctx, id)
}

func (r *productoRepository) Add(ctx context.Context, p models.Producto) error {
	return r.cache.add(ctx, p)
}

func (r *productoRepository) Save(ctx context.Context, p models.Producto) error {
	return r.cache.save(ctx, p)
}

func (r *productoRepository) Update(ctx context.Context, id string, partial models.Producto) (models.Producto, error) {
	return r.cache.update(ctx, id, partial)
}

func (r *productoRepository) Delete(ctx context.Context, id string) error {
	return r.cache.remove(ctx, id)
}

func (r *productoRepository) ReplaceAll(ctx context.Context, productos []models.Producto) error {
	records := make(map[string]json.RawMessage, len(productos))
	for _, p := range productos {
		data, err := json.Marshal(p)
		if err != nil {
			return err
		}
		records[p.Key()] = data
	}

	if err := r.records.Clear(ctx, store.CollectionProductos); err != nil {
		return err
	}
	if err := r.records.BulkPut(ctx, store.CollectionProductos, records); err != nil {
		return err
	}

	r.cache.invalidate()

	return nil
}
