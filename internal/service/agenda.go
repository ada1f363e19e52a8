package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/aromero/farmagestor/internal/logger"
	"github.com/aromero/farmagestor/internal/repository"
	"github.com/aromero/farmagestor/internal/utils"
	"github.com/aromero/farmagestor/models"
)

// AgendaService manages calendar events and their reminders.
type AgendaService interface {
	// CrearEvento persists an event and arms its reminders.
	CrearEvento(ctx context.Context, e models.Evento) (models.Evento, error)

	// CompletarEvento toggles the completion flag. Completing an event
	// cancels its pending reminders.
	CompletarEvento(ctx context.Context, id string, completada bool) (models.Evento, error)

	// EliminarEvento removes an event and cancels its pending reminders.
	EliminarEvento(ctx context.Context, id string) error
}

type agendaService struct {
	agenda    repository.AgendaRepository
	scheduler SchedulerService
	ids       *utils.IDGenerator
	clock     utils.Clock
	logger    *logger.Logger
}

func NewAgendaService(
	agenda repository.AgendaRepository,
	scheduler SchedulerService,
	ids *utils.IDGenerator,
	clock utils.Clock,
	logger *logger.Logger,
) AgendaService {
	return &agendaService{agenda: agenda, scheduler: scheduler, ids: ids, clock: clock, logger: logger}
}

func (s *agendaService) CrearEvento(ctx context.Context, e models.Evento) (models.Evento, error) {
	if strings.TrimSpace(e.Titulo) == "" {
		return models.Evento{}, fmt.Errorf("%w: evento needs a titulo", ErrValidation)
	}
	if e.Fecha.IsZero() {
		return models.Evento{}, fmt.Errorf("%w: evento needs a fecha", ErrValidation)
	}

	if e.ID == "" {
		e.ID = s.ids.Generate("evento")
	}
	e.CreatedAt = s.clock.Now()

	if err := s.agenda.Add(ctx, e); err != nil {
		return models.Evento{}, fmt.Errorf("error recording evento: %w", err)
	}

	// the event is already durable; a denied permission only loses the
	// reminder, not the entry
	if s.scheduler != nil {
		if err := s.scheduler.ScheduleEvento(ctx, e); err != nil {
			s.logger.Warn().
				Str("func", "agendaService.CrearEvento").
				Str("evento_id", e.ID).
				Err(err).
				Msg("could not schedule event reminders")
		}
	}

	return e, nil
}

func (s *agendaService) CompletarEvento(ctx context.Context, id string, completada bool) (models.Evento, error) {
	e, err := s.agenda.MarkCompletada(ctx, id, completada)
	if err != nil {
		return models.Evento{}, err
	}

	if completada {
		s.cancelReminders(ctx, id)
	}

	return e, nil
}

func (s *agendaService) EliminarEvento(ctx context.Context, id string) error {
	if err := s.agenda.Delete(ctx, id); err != nil {
		return err
	}
	s.cancelReminders(ctx, id)
	return nil
}

func (s *agendaService) cancelReminders(ctx context.Context, eventoID string) {
	if s.scheduler == nil {
		return
	}
	for _, notificationID := range []string{"agenda-" + eventoID, "agenda-now-" + eventoID} {
		if err := s.scheduler.Cancel(ctx, notificationID); err != nil {
			s.logger.Err(err).
				Str("func", "agendaService.cancelReminders").
				Str("notification_id", notificationID).
				Msg("failed to cancel reminder")
		}
	}
}
