package repository

import (
	"context"
	"time"

	"github.com/aromero/farmagestor/internal/logger"
	"github.com/aromero/farmagestor/internal/store"
	"github.com/aromero/farmagestor/models"
)

// AgendaRepository manages calendar events.
type AgendaRepository interface {
	List(ctx context.Context) ([]models.Evento, error)
	Get(ctx context.Context, id string) (models.Evento, error)
	Add(ctx context.Context, e models.Evento) error
	Save(ctx context.Context, e models.Evento) error
	Update(ctx context.Context, id string, partial models.Evento) (models.Evento, error)
	Delete(ctx context.Context, id string) error

	// MarkCompletada sets the completion flag explicitly. A partial update
	// cannot clear a bool, so both directions go through a full save.
	MarkCompletada(ctx context.Context, id string, completada bool) (models.Evento, error)

	// PendientesDia returns the not-yet-completed events of the given
	// calendar day.
	PendientesDia(ctx context.Context, day time.Time) ([]models.Evento, error)
}

type agendaRepository struct {
	cache *entityCache[models.Evento]
}

func NewAgendaRepository(records store.RecordStore, logger *logger.Logger) AgendaRepository {
	return &agendaRepository{
		cache: newEntityCache[models.Evento](store.CollectionAgenda, records, logger),
	}
}

func (r *agendaRepository) List(ctx context.Context) ([]models.Evento, error) {
	return r.cache.list(ctx)
}

func (r *agendaRepository) Get(ctx context.Context, id string) (models.Evento, error) {
	return r.cache.get(ctx, id)
}

func (r *agendaRepository) Add(ctx context.Context, e models.Evento) error {
	return r.cache.add(ctx, e)
}

func (r *agendaRepository) Save(ctx context.Context, e models.Evento) error {
	return r.cache.save(ctx, e)
}

func (r *agendaRepository) Update(ctx context.Context, id string, partial models.Evento) (models.Evento, error) {
	return r.cache.update(ctx, id, partial)
}

func (r *agendaRepository) Delete(ctx context.Context, id string) error {
	return r.cache.remove(ctx, id)
}

func (r *agendaRepository) MarkCompletada(ctx context.Context, id string, completada bool) (models.Evento, error) {
	e, err := r.cache.get(ctx, id)
	if err != nil {
		return models.Evento{}, err
	}

	e.Completada = completada
	if err := r.cache.save(ctx, e); err != nil {
		return models.Evento{}, err
	}

	return e, nil
}

func (r *agendaRepository) PendientesDia(ctx context.Context, day time.Time) ([]models.Evento, error) {
	eventos, err := r.cache.list(ctx)
	if err != nil {
		return nil, err
	}

	y, m, d := day.Date()
	var result []models.Evento
	for _, e := range eventos {
		if e.Completada {
			continue
		}
		ey, em, ed := e.Fecha.In(day.Location()).Date()
		if ey == y && em == m && ed == d {
			result = append(result, e)
		}
	}

	return result, nil
}
