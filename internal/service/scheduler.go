// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aromero/farmagestor/internal/logger"
	"github.com/aromero/farmagestor/internal/notify"
	"github.com/aromero/farmagestor/internal/repository"
	"github.com/aromero/farmagestor/internal/store"
	"github.com/aromero/farmagestor/internal/utils"
	"github.com/aromero/farmagestor/models"
)

// shortHorizon is the window within which the scheduler additionally arms an
// in-process timer as a fallback next to the worker handoff. Duplicate
// suppression relies on the shared delivered flag, so both paths converge to
// one delivery.
const shortHorizon = 2 * time.Minute

// Reminder lead times of the domain scheduling policies.
const (
	agendaReminderLead = 15 * time.Minute
	cobroReminderLead  = 24 * time.Hour
	cobroMinHorizon    = 36 * time.Hour
	visitaReminderLead = time.Hour
)

// SchedulerService is the foreground notification scheduler: it persists
// reminder records and hands them off to the background delivery worker.
type SchedulerService interface {
	// Schedule persists a notification for later delivery. It requests
	// notification permission first when no decision is recorded yet and
	// returns [ErrPermissionDenied] when refused.
	Schedule(ctx context.Context, n models.Notification) error

	// Cancel removes a pending notification. Cancelling one that was
	// already delivered, or never existed, is a no-op.
	Cancel(ctx context.Context, id string) error

	// ScheduleEvento arms the agenda policy: one reminder 15 minutes before
	// the event and one at the event time. Triggers already in the past are
	// skipped silently.
	ScheduleEvento(ctx context.Context, e models.Evento) error

	// ScheduleCobro arms the due-date policy: one reminder 24 hours before
	// the due date, only when the due date is more than 36 hours away.
	ScheduleCobro(ctx context.Context, cliente string, monto float64, fechaVencimiento time.Time) error

	// ScheduleVisita arms the visit policy: one reminder one hour before
	// the visit, only when the visit is more than an hour away.
	ScheduleVisita(ctx context.Context, v models.Visita) error
}

type schedulerService struct {
	notifications repository.NotificationRepository
	configRepo    repository.ConfigRepository
	permissions   notify.Permissions
	notifier      notify.Notifier
	control       chan<- notify.Message
	clock         utils.Clock
	logger        *logger.Logger
}

func NewSchedulerService(
	notifications repository.NotificationRepository,
	configRepo repository.ConfigRepository,
	permissions notify.Permissions,
	notifier notify.Notifier,
	control chan<- notify.Message,
	clock utils.Clock,
	logger *logger.Logger,
) SchedulerService {
	return &schedulerService{
		notifications: notifications,
		configRepo:    configRepo,
		permissions:   permissions,
		notifier:      notifier,
		control:       control,
		clock:         clock,
		logger:        logger,
	}
}

// ensurePermission resolves the notification permission, prompting only when
// no decision is recorded yet. Granted and denied decisions are persisted;
// a dismissed prompt is not, so the user is asked again next time.
func (s *schedulerService) ensurePermission(ctx context.Context) error {
	stored, err := s.configRepo.GetString(ctx, models.ConfigNotificationsPermission, "")
	if err != nil {
		return err
	}

	switch notify.Permission(stored) {
	case notify.PermissionGranted:
		return nil
	case notify.PermissionDenied:
		return ErrPermissionDenied
	}

	perm, err := s.permissions.Request(ctx)
	if err != nil {
		return fmt.Errorf("permission request failed: %w", err)
	}

	if perm == notify.PermissionGranted || perm == notify.PermissionDenied {
		if err := s.configRepo.Set(ctx, models.ConfigNotificationsPermission, string(perm)); err != nil {
			s.logger.Err(err).
				Str("func", "schedulerService.ensurePermission").
				Msg("failed to persist permission decision")
		}
	}

	if perm != notify.PermissionGranted {
		return ErrPermissionDenied
	}

	return nil
}

func (s *schedulerService) Schedule(ctx context.Context, n models.Notification) error {
	if n.ID == "" || n.Title == "" || n.DeliverAt.IsZero() {
		return fmt.Errorf("%w: notification needs id, title and delivery time", ErrValidation)
	}

	if err := s.ensurePermission(ctx); err != nil {
		return err
	}

	now := s.clock.Now()

	// re-scheduling must not resurrect an already-delivered reminder for
	// the same instant
	existing, err := s.notifications.Get(ctx, n.ID)
	if err == nil && existing.Delivered && existing.DeliverAt.Equal(n.DeliverAt) {
		return nil
	}
	if err != nil && !errors.Is(err, store.ErrRecordNotFound) {
		return err
	}

	n.Delivered = false
	n.DeliveredAt = nil
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}

	if err := s.notifications.Put(ctx, n); err != nil {
		return err
	}

	s.handoff(n.ID)

	if delay := n.DeliverAt.Sub(now); delay > 0 && delay < shortHorizon {
		s.armLocalTimer(n.ID, delay)
	}

	s.logger.Debug().
		Str("func", "schedulerService.Schedule").
		Str("notification_id", n.ID).
		Time("deliver_at", n.DeliverAt).
		Msg("notification scheduled")

	return nil
}

// handoff notifies the delivery worker without blocking: the record is
// already durable, so a full control channel only costs immediacy, never
// correctness.
func (s *schedulerService) handoff(id string) {
	if s.control == nil {
		return
	}

	select {
	case s.control <- notify.Message{Type: notify.MsgScheduleNotification, NotificationID: id}:
	default:
		s.logger.Warn().
			Str("func", "schedulerService.handoff").
			Str("notification_id", id).
			Msg("worker control channel full; next poll cycle picks the record up")
	}
}

// armLocalTimer delivers near-term notifications from this process as a
// fallback. The delivered flag is re-checked right before showing so the
// worker and the timer converge to a single delivery.
func (s *schedulerService) armLocalTimer(id string, delay time.Duration) {
	time.AfterFunc(delay, func() {
		ctx := context.Background()

		n, err := s.notifications.Get(ctx, id)
		if err != nil || n.Delivered {
			return
		}

		if showErr := s.notifier.Show(ctx, n); showErr != nil {
			s.logger.Err(showErr).
				Str("func", "schedulerService.armLocalTimer").
				Str("notification_id", id).
				Msg("local fallback delivery failed")
		}

		deliveredAt := s.clock.Now()
		n.Delivered = true
		n.DeliveredAt = &deliveredAt
		if putErr := s.notifications.Put(ctx, n); putErr != nil {
			s.logger.Err(putErr).
				Str("func", "schedulerService.armLocalTimer").
				Str("notification_id", id).
				Msg("failed to persist delivered flag from local timer")
		}
	})
}

func (s *schedulerService) Cancel(ctx context.Context, id string) error {
	n, err := s.notifications.Get(ctx, id)
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if n.Delivered {
		return nil
	}

	return s.notifications.Delete(ctx, id)
}

func (s *schedulerService) ScheduleEvento(ctx context.Context, e models.Evento) error {
	now := s.clock.Now()

	if reminder := e.Fecha.Add(-agendaReminderLead); reminder.After(now) {
		err := s.Schedule(ctx, models.Notification{
			ID:        "agenda-" + e.ID,
			Title:     "📅 Recordatorio de Evento",
			Body:      fmt.Sprintf("%s - %s", e.Titulo, e.Fecha.Format("02/01/2006 15:04")),
			DeliverAt: reminder,
			Payload:   models.NotificationPayload{Type: models.NotificationAgenda, EventoID: e.ID},
		})
		if err != nil {
			return err
		}
	}

	if e.Fecha.After(now) {
		return s.Schedule(ctx, models.Notification{
			ID:        "agenda-now-" + e.ID,
			Title:     "📅 Evento Ahora",
			Body:      fmt.Sprintf("%s - %s", e.Titulo, e.Descripcion),
			DeliverAt: e.Fecha,
			Payload:   models.NotificationPayload{Type: models.NotificationAgenda, EventoID: e.ID},
		})
	}

	return nil
}

func (s *schedulerService) ScheduleCobro(ctx context.Context, cliente string, monto float64, fechaVencimiento time.Time) error {
	now := s.clock.Now()

	// close due dates get no pre-due reminder: the T-24h trigger would fire
	// almost immediately and only add noise
	if fechaVencimiento.Sub(now) <= cobroMinHorizon {
		return nil
	}

	venc := fechaVencimiento.Format("2006-01-02")

	return s.Schedule(ctx, models.Notification{
		ID:        fmt.Sprintf("cobro-%s-%s", cliente, venc),
		Title:     "💰 Recordatorio de Cobro",
		Body:      fmt.Sprintf("Cobro pendiente: %s - $%.2f", cliente, monto),
		DeliverAt: fechaVencimiento.Add(-cobroReminderLead),
		Payload: models.NotificationPayload{
			Type:             models.NotificationCobro,
			Cliente:          cliente,
			Monto:            monto,
			FechaVencimiento: venc,
		},
	})
}

func (s *schedulerService) ScheduleVisita(ctx context.Context, v models.Visita) error {
	now := s.clock.Now()

	reminder := v.Fecha.Add(-visitaReminderLead)
	if !reminder.After(now) {
		return nil
	}

	cliente := v.Cliente
	if cliente == "" {
		cliente = "Cliente"
	}

	return s.Schedule(ctx, models.Notification{
		ID:        "visita-" + v.ID,
		Title:     "🏥 Recordatorio de Visita",
		Body:      "Visita programada: " + cliente,
		DeliverAt: reminder,
		Payload:   models.NotificationPayload{Type: models.NotificationVisita, VisitaID: v.ID},
	})
}
