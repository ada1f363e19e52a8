package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aromero/farmagestor/internal/logger"
	"github.com/aromero/farmagestor/internal/repository"
	"github.com/aromero/farmagestor/internal/utils"
	"github.com/aromero/farmagestor/models"
)

// CobrosService records payments against clients.
type CobrosService interface {
	// RegistrarCobro validates and persists a payment. When the cobro has a
	// due date far enough ahead it also arms a payment reminder.
	RegistrarCobro(ctx context.Context, c models.Cobro) (models.Cobro, error)
}

type cobrosService struct {
	cobros    repository.CobroRepository
	scheduler SchedulerService
	ids       *utils.IDGenerator
	clock     utils.Clock
	logger    *logger.Logger
}

func NewCobrosService(
	cobros repository.CobroRepository,
	scheduler SchedulerService,
	ids *utils.IDGenerator,
	clock utils.Clock,
	logger *logger.Logger,
) CobrosService {
	return &cobrosService{cobros: cobros, scheduler: scheduler, ids: ids, clock: clock, logger: logger}
}

func (s *cobrosService) RegistrarCobro(ctx context.Context, c models.Cobro) (models.Cobro, error) {
	if strings.TrimSpace(c.Cliente) == "" {
		return models.Cobro{}, fmt.Errorf("%w: cobro needs a cliente", ErrValidation)
	}
	if c.Cantidad <= 0 {
		return models.Cobro{}, fmt.Errorf("%w: cantidad must be positive", ErrValidation)
	}
	if c.Tipo != models.CobroAbono && c.Tipo != models.CobroCancelacion {
		return models.Cobro{}, fmt.Errorf("%w: unknown cobro type %q", ErrValidation, c.Tipo)
	}

	now := s.clock.Now()
	if c.ID == "" {
		c.ID = s.ids.Generate("cobro")
	}
	if c.Fecha == "" {
		c.Fecha = now.Format("2006-01-02")
	}
	c.CreatedAt = now

	if err := s.cobros.Add(ctx, c); err != nil {
		return models.Cobro{}, fmt.Errorf("error recording cobro: %w", err)
	}

	s.armReminder(ctx, c)

	return c, nil
}

// armReminder schedules the due-date reminder. A scheduling failure, most
// commonly a denied notification permission, never fails the cobro itself.
func (s *cobrosService) armReminder(ctx context.Context, c models.Cobro) {
	if s.scheduler == nil || c.FechaVencimiento == "" {
		return
	}

	vencimiento, err := time.ParseInLocation("2006-01-02", c.FechaVencimiento, time.Local)
	if err != nil {
		s.logger.Warn().
			Str("func", "cobrosService.armReminder").
			Str("fecha_vencimiento", c.FechaVencimiento).
			Msg("unparseable due date; skipping reminder")
		return
	}

	if err := s.scheduler.ScheduleCobro(ctx, c.Cliente, c.Cantidad, vencimiento); err != nil {
		s.logger.Warn().
			Str("func", "cobrosService.armReminder").
			Str("cobro_id", c.ID).
			Err(err).
			Msg("could not schedule payment reminder")
	}
}
