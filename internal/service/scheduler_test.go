// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/aromero/farmagestor/internal/logger"
	"github.com/aromero/farmagestor/internal/mock"
	"github.com/aromero/farmagestor/internal/notify"
	"github.com/aromero/farmagestor/internal/repository"
	"github.com/aromero/farmagestor/internal/store"
	"github.com/aromero/farmagestor/models"
)

func newTestScheduler(t *testing.T, repos *repository.Repositories, permissions notify.Permissions, clock *fakeClock) SchedulerService {
	t.Helper()

	ctrl := gomock.NewController(t)
	notifier := mock.NewMockNotifier(ctrl)

	return NewSchedulerService(repos.Notifications, repos.Config, permissions, notifier, nil, clock, logger.Nop())
}

func grantedPermissions(t *testing.T) *mock.MockPermissions {
	t.Helper()

	permissions := mock.NewMockPermissions(gomock.NewController(t))
	permissions.EXPECT().Request(gomock.Any()).Return(notify.PermissionGranted, nil).AnyTimes()
	return permissions
}

func TestScheduler_PermissionPromptedOnceThenPersisted(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	clock := newFakeClock(time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC))

	permissions := mock.NewMockPermissions(gomock.NewController(t))
	permissions.EXPECT().Request(gomock.Any()).Return(notify.PermissionGranted, nil).Times(1)

	s := newTestScheduler(t, repos, permissions, clock)

	require.NoError(t, s.Schedule(ctx, models.Notification{ID: "n1", Title: "t", DeliverAt: clock.Now().Add(time.Hour)}))
	require.NoError(t, s.Schedule(ctx, models.Notification{ID: "n2", Title: "t", DeliverAt: clock.Now().Add(time.Hour)}))

	stored, err := repos.Config.GetString(ctx, models.ConfigNotificationsPermission, "")
	require.NoError(t, err)
	assert.Equal(t, "granted", stored)
}

func TestScheduler_RecordedDenialShortCircuits(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	clock := newFakeClock(time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC))

	require.NoError(t, repos.Config.Set(ctx, models.ConfigNotificationsPermission, "denied"))

	// the prompt must not reappear, so Request has no expected calls
	permissions := mock.NewMockPermissions(gomock.NewController(t))

	s := newTestScheduler(t, repos, permissions, clock)

	err := s.Schedule(ctx, models.Notification{ID: "n1", Title: "t", DeliverAt: clock.Now().Add(time.Hour)})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = repos.Notifications.Get(ctx, "n1")
	assert.ErrorIs(t, err, store.ErrRecordNotFound)
}

func TestScheduler_DismissedPromptIsNotPersisted(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	clock := newFakeClock(time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC))

	permissions := mock.NewMockPermissions(gomock.NewController(t))
	permissions.EXPECT().Request(gomock.Any()).Return(notify.PermissionDefault, nil).Times(2)

	s := newTestScheduler(t, repos, permissions, clock)

	n := models.Notification{ID: "n1", Title: "t", DeliverAt: clock.Now().Add(time.Hour)}
	assert.ErrorIs(t, s.Schedule(ctx, n), ErrPermissionDenied)
	assert.ErrorIs(t, s.Schedule(ctx, n), ErrPermissionDenied)

	stored, err := repos.Config.GetString(ctx, models.ConfigNotificationsPermission, "unset")
	require.NoError(t, err)
	assert.Equal(t, "unset", stored, "a dismissed prompt leaves no decision behind")
}

func TestScheduler_DeliveredRecordIsNotResurrected(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	clock := newFakeClock(time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC))
	deliverAt := clock.Now().Add(-time.Minute)

	deliveredAt := clock.Now()
	require.NoError(t, repos.Notifications.Put(ctx, models.Notification{
		ID: "n1", Title: "t", DeliverAt: deliverAt, Delivered: true, DeliveredAt: &deliveredAt,
	}))

	s := newTestScheduler(t, repos, grantedPermissions(t), clock)
	require.NoError(t, s.Schedule(ctx, models.Notification{ID: "n1", Title: "t", DeliverAt: deliverAt}))

	n, err := repos.Notifications.Get(ctx, "n1")
	require.NoError(t, err)
	assert.True(t, n.Delivered, "re-scheduling the same instant must not clear the delivered flag")
}

func TestScheduler_CancelSemantics(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	clock := newFakeClock(time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC))
	s := newTestScheduler(t, repos, grantedPermissions(t), clock)

	require.NoError(t, s.Cancel(ctx, "missing"), "unknown id is a no-op")

	require.NoError(t, repos.Notifications.Put(ctx, models.Notification{ID: "pending", Title: "t", DeliverAt: clock.Now().Add(time.Hour)}))
	require.NoError(t, s.Cancel(ctx, "pending"))
	_, err := repos.Notifications.Get(ctx, "pending")
	assert.ErrorIs(t, err, store.ErrRecordNotFound)

	require.NoError(t, repos.Notifications.Put(ctx, models.Notification{ID: "done", Title: "t", DeliverAt: clock.Now(), Delivered: true}))
	require.NoError(t, s.Cancel(ctx, "done"))
	n, err := repos.Notifications.Get(ctx, "done")
	require.NoError(t, err)
	assert.True(t, n.Delivered, "cancelling a delivered notification keeps the record")
}

func TestScheduler_ScheduleEventoArmsBothReminders(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	clock := newFakeClock(time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC))
	s := newTestScheduler(t, repos, grantedPermissions(t), clock)

	fecha := clock.Now().Add(time.Hour)
	require.NoError(t, s.ScheduleEvento(ctx, models.Evento{ID: "e1", Titulo: "Reunión", Fecha: fecha}))

	reminder, err := repos.Notifications.Get(ctx, "agenda-e1")
	require.NoError(t, err)
	assert.Equal(t, "📅 Recordatorio de Evento", reminder.Title)
	assert.True(t, reminder.DeliverAt.Equal(fecha.Add(-15*time.Minute)))
	assert.Equal(t, models.NotificationAgenda, reminder.Payload.Type)
	assert.Equal(t, "e1", reminder.Payload.EventoID)

	atEvent, err := repos.Notifications.Get(ctx, "agenda-now-e1")
	require.NoError(t, err)
	assert.Equal(t, "📅 Evento Ahora", atEvent.Title)
	assert.True(t, atEvent.DeliverAt.Equal(fecha))
}

func TestScheduler_ScheduleEventoSkipsPastReminder(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	clock := newFakeClock(time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC))
	s := newTestScheduler(t, repos, grantedPermissions(t), clock)

	// T-15 already passed, only the at-event reminder remains
	require.NoError(t, s.ScheduleEvento(ctx, models.Evento{ID: "e1", Titulo: "Pronto", Fecha: clock.Now().Add(5 * time.Minute)}))

	_, err := repos.Notifications.Get(ctx, "agenda-e1")
	assert.ErrorIs(t, err, store.ErrRecordNotFound)

	_, err = repos.Notifications.Get(ctx, "agenda-now-e1")
	assert.NoError(t, err)
}

func TestScheduler_ScheduleCobroHonorsHorizon(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	clock := newFakeClock(time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC))
	s := newTestScheduler(t, repos, grantedPermissions(t), clock)

	near := clock.Now().Add(12 * time.Hour)
	require.NoError(t, s.ScheduleCobro(ctx, "Ana", 150, near))

	all, err := repos.Notifications.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all, "due dates inside the horizon get no reminder")

	far := clock.Now().Add(48 * time.Hour)
	require.NoError(t, s.ScheduleCobro(ctx, "Ana", 150, far))

	id := "cobro-Ana-" + far.Format("2006-01-02")
	n, err := repos.Notifications.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "💰 Recordatorio de Cobro", n.Title)
	assert.Equal(t, "Cobro pendiente: Ana - $150.00", n.Body)
	assert.True(t, n.DeliverAt.Equal(far.Add(-24*time.Hour)))
}

func TestScheduler_ScheduleVisita(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	clock := newFakeClock(time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC))
	s := newTestScheduler(t, repos, grantedPermissions(t), clock)

	require.NoError(t, s.ScheduleVisita(ctx, models.Visita{ID: "v1", Cliente: "Farmacia Cruz", Fecha: clock.Now().Add(2 * time.Hour)}))

	n, err := repos.Notifications.Get(ctx, "visita-v1")
	require.NoError(t, err)
	assert.Equal(t, "🏥 Recordatorio de Visita", n.Title)
	assert.Equal(t, "Visita programada: Farmacia Cruz", n.Body)
	assert.True(t, n.DeliverAt.Equal(clock.Now().Add(time.Hour)))

	require.NoError(t, s.ScheduleVisita(ctx, models.Visita{ID: "v2", Cliente: "Farmacia Sur", Fecha: clock.Now().Add(30 * time.Minute)}))
	_, err = repos.Notifications.Get(ctx, "visita-v2")
	assert.ErrorIs(t, err, store.ErrRecordNotFound, "visits less than an hour away get no reminder")
}

// TestScheduler_AgendaReminderDeliveredOnce walks the full path: the
// scheduler persists the T-15 reminder and the background worker delivers it
// exactly once when the trigger falls due.
func TestScheduler_AgendaReminderDeliveredOnce(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repos := newTestRepos(t)
	clock := newFakeClock(time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC))

	notifier := mock.NewMockNotifier(ctrl)
	notifier.EXPECT().Show(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, n models.Notification) error {
			assert.Equal(t, "agenda-e1", n.ID)
			return nil
		}).Times(1)

	w := notify.NewWorker(repos.Notifications, repos.Config, notifier, clock, testWorkersConfig(), "v1", logger.Nop())
	workerCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(workerCtx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	s := NewSchedulerService(repos.Notifications, repos.Config, grantedPermissions(t), notifier, w.Control(), clock, logger.Nop())

	// event in 20 minutes: reminder due at +5 minutes, at-event due at +20
	require.NoError(t, s.ScheduleEvento(ctx, models.Evento{ID: "e1", Titulo: "Entrega", Fecha: clock.Now().Add(20 * time.Minute)}))

	checkNow := func() {
		ack := make(chan notify.Ack, 1)
		w.Control() <- notify.Message{Type: notify.MsgCheckNotifications, Ack: ack}
		select {
		case a := <-ack:
			require.True(t, a.Success)
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for worker ack")
		}
	}

	checkNow()
	n, err := repos.Notifications.Get(ctx, "agenda-e1")
	require.NoError(t, err)
	assert.False(t, n.Delivered, "not due yet")

	clock.Advance(6 * time.Minute)
	checkNow()
	n, err = repos.Notifications.Get(ctx, "agenda-e1")
	require.NoError(t, err)
	assert.True(t, n.Delivered)

	// further polls must not deliver again; Show is limited to one call
	checkNow()
}
