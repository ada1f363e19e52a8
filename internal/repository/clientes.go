package repository

import (
	"context"
	"strings"

	"github.com/aromero/farmagestor/internal/logger"
	"github.com/aromero/farmagestor/internal/store"
	"github.com/aromero/farmagestor/models"
)

// ClienteRepository manages pharmacy client records.
type ClienteRepository interface {
	List(ctx context.Context) ([]models.Cliente, error)
	Get(ctx context.Context, id string) (models.Cliente, error)
	Add(ctx context.Context, c models.Cliente) error
	Save(ctx context.Context, c models.Cliente) error
	Update(ctx context.Context, id string, partial models.Cliente) (models.Cliente, error)
	Delete(ctx context.Context, id string) error

	// FindByNombre matches on the trimmed, case-folded client name. Sales
	// documents and cobros reference clients by free-typed name, so lookups
	// must tolerate case and whitespace drift.
	FindByNombre(ctx context.Context, nombre string) (models.Cliente, error)
}

type clienteRepository struct {
	cache *entityCache[models.Cliente]
}

func NewClienteRepository(records store.RecordStore, logger *logger.Logger) ClienteRepository {
	return &clienteRepository{
		cache: newEntityCache[models.Cliente](store.CollectionClientes, records, logger),
	}
}

func (r *clienteRepository) List(ctx context.Context) ([]models.Cliente, error) {
	return r.cache.list(ctx)
}

func (r *clienteRepository) Get(ctx context.Context, id string) (models.Cliente, error) {
	return r.cache.get(ctx, id)
}

func (r *clienteRepository) Add(ctx context.Context, c models.Cliente) error {
	return r.cache.add(ctx, c)
}

func (r *clienteRepository) Save(ctx context.Context, c models.Cliente) error {
	return r.cache.save(ctx, c)
}

func (r *clienteRepository) Update(ctx context.Context, id string, partial models.Cliente) (models.Cliente, error) {
	return r.cache.update(ctx, id, partial)
}

func (r *clienteRepository) Delete(ctx context.Context, id string) error {
	return r.cache.remove(ctx, id)
}

func (r *clienteRepository) FindByNombre(ctx context.Context, nombre string) (models.Cliente, error) {
	clientes, err := r.cache.list(ctx)
	if err != nil {
		return models.Cliente{}, err
	}

	want := NormalizeNombre(nombre)
	for _, c := range clientes {
		if NormalizeNombre(c.Nombre) == want {
			return c, nil
		}
	}

	return models.Cliente{}, store.ErrRecordNotFound
}

// NormalizeNombre folds a client name for matching: surrounding whitespace is
// dropped and case is ignored.
func NormalizeNombre(nombre string) string {
	return strings.ToLower(strings.TrimSpace(nombre))
}
