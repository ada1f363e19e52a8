// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package notify

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aromero/farmagestor/internal/config"
	"github.com/aromero/farmagestor/internal/logger"
	"github.com/aromero/farmagestor/internal/repository"
	"github.com/aromero/farmagestor/internal/store"
	"github.com/aromero/farmagestor/internal/utils"
)

// WorkerState tracks the delivery worker lifecycle.
type WorkerState int32

const (
	// WorkerInstalled means the worker exists but has not taken over
	// delivery yet.
	WorkerInstalled WorkerState = iota
	// WorkerActivated means the worker has claimed delivery duty and
	// cleared stale state.
	WorkerActivated
	// WorkerPolling is the steady state: fixed-interval polling of the
	// notifications collection.
	WorkerPolling
)

// configWorkerVersion is the config key remembering which worker version
// last claimed the store.
const configWorkerVersion = "worker_cache_version"

// Worker is the background delivery loop. It runs independently of any
// request handling and shares nothing with the repositories' in-memory
// caches: every read and write goes straight to the record store, via an
// uncached notification repository.
//
// Each poll cycle delivers the due pending notifications and then garbage
// collects delivered ones past retention. A notification is marked delivered
// durably even when the platform delivery call fails: forward progress wins
// over delivery guarantees, otherwise one failing notification would retry
// forever.
type Worker struct {
	notifications repository.NotificationRepository
	configRepo    repository.ConfigRepository
	notifier      Notifier
	clock         utils.Clock
	cfg           config.Workers
	version       string
	logger        *logger.Logger

	control chan Message
	state   atomic.Int32

	mu         sync.Mutex
	cancelPoll context.CancelFunc
	wg         sync.WaitGroup

	// pollMu serializes delivery cycles: the ticker goroutine and the
	// control-message path must never run ListDue concurrently, or a due
	// notification could be shown twice before its delivered flag lands.
	pollMu sync.Mutex
}

func NewWorker(
	notifications repository.NotificationRepository,
	configRepo repository.ConfigRepository,
	notifier Notifier,
	clock utils.Clock,
	cfg config.Workers,
	version string,
	logger *logger.Logger,
) *Worker {
	return &Worker{
		notifications: notifications,
		configRepo:    configRepo,
		notifier:      notifier,
		clock:         clock,
		cfg:           cfg,
		version:       version,
		logger:        logger,
		control:       make(chan Message, 16),
	}
}

// State returns the current lifecycle state.
func (w *Worker) State() WorkerState {
	return WorkerState(w.state.Load())
}

// Control returns the channel the foreground sends control messages on.
func (w *Worker) Control() chan<- Message {
	return w.control
}

// Run activates the worker, starts steady-state polling, and then serves
// control messages until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	w.activate(ctx)
	w.startPolling(ctx)

	for {
		select {
		case <-ctx.Done():
			w.stopPolling()
			return
		case msg := <-w.control:
			w.handle(ctx, msg)
		}
	}
}

// activate claims delivery duty: it records the worker version and, when the
// version changed since the last run, drops state left behind by the old
// version. Safe to call more than once.
func (w *Worker) activate(ctx context.Context) {
	if WorkerState(w.state.Load()) >= WorkerActivated {
		return
	}

	previous, err := w.configRepo.GetString(ctx, configWorkerVersion, "")
	if err != nil && !errors.Is(err, store.ErrRecordNotFound) {
		w.logger.Err(err).Str("func", "Worker.activate").Msg("failed to read worker version")
	}

	if previous != w.version {
		w.logger.Info().
			Str("func", "Worker.activate").
			Str("previous", previous).
			Str("current", w.version).
			Msg("clearing state of previous worker version")

		if err := w.configRepo.Set(ctx, configWorkerVersion, w.version); err != nil {
			w.logger.Err(err).Str("func", "Worker.activate").Msg("failed to record worker version")
		}
	}

	w.state.Store(int32(WorkerActivated))
	w.logger.Info().Str("func", "Worker.activate").Msg("delivery worker activated")
}

// handle serves one control message. Every message type is idempotent: the
// sender may retry freely.
func (w *Worker) handle(ctx context.Context, msg Message) {
	var ok bool

	switch msg.Type {
	case MsgSkipWaiting:
		w.activate(ctx)
		ok = true
	case MsgCheckNotifications:
		ok = w.pollOnce(ctx) == nil
	case MsgStartPeriodicCheck:
		w.startPolling(ctx)
		ok = true
	case MsgScheduleNotification:
		// the record is already persisted; a poll cycle picks it up if due
		w.logger.Debug().
			Str("func", "Worker.handle").
			Str("notification_id", msg.NotificationID).
			Msg("notification handoff received")
		ok = w.pollOnce(ctx) == nil
	default:
		w.logger.Warn().
			Str("func", "Worker.handle").
			Str("type", string(msg.Type)).
			Msg("unknown control message")
	}

	if msg.Ack != nil {
		select {
		case msg.Ack <- Ack{Success: ok}:
		default:
		}
	}
}

// startPolling (re)starts the fixed-interval poll loop. A previous loop is
// stopped first, so repeated calls restart the interval instead of stacking
// tickers.
func (w *Worker) startPolling(ctx context.Context) {
	w.stopPolling()

	interval := w.cfg.PollInterval
	if interval <= 0 {
		interval = config.DefaultPollInterval
	}

	w.mu.Lock()
	pollCtx, cancel := context.WithCancel(ctx)
	w.cancelPoll = cancel
	w.wg.Add(1)
	w.mu.Unlock()

	w.state.Store(int32(WorkerPolling))

	go func() {
		defer w.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-pollCtx.Done():
				return
			case <-t.C:
				_ = w.pollOnce(pollCtx)
			}
		}
	}()
}

// stopPolling cancels the poll loop and waits for it to exit. No-op when no
// loop is running.
func (w *Worker) stopPolling() {
	w.mu.Lock()
	cancel := w.cancelPoll
	w.cancelPoll = nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	w.wg.Wait()
}

// pollOnce runs one delivery cycle: deliver everything due within the
// tolerance window, then garbage collect delivered records past retention.
// Cycles are mutually exclusive; a cycle observes every delivered flag the
// previous cycle persisted.
func (w *Worker) pollOnce(ctx context.Context) error {
	w.pollMu.Lock()
	defer w.pollMu.Unlock()

	now := w.clock.Now()

	due, err := w.notifications.ListDue(ctx, now, w.cfg.Tolerance)
	if err != nil {
		w.logger.Err(err).Str("func", "Worker.pollOnce").Msg("failed to load due notifications")
		return err
	}

	for _, n := range due {
		if showErr := w.notifier.Show(ctx, n); showErr != nil {
			// mark delivered anyway: forward progress over retry loops
			w.logger.Err(showErr).
				Str("func", "Worker.pollOnce").
				Str("notification_id", n.ID).
				Msg("platform delivery failed; marking delivered to avoid a retry loop")
		}

		deliveredAt := now
		n.Delivered = true
		n.DeliveredAt = &deliveredAt
		if putErr := w.notifications.Put(ctx, n); putErr != nil {
			// still pending in the store; the next cycle retries it
			w.logger.Err(putErr).
				Str("func", "Worker.pollOnce").
				Str("notification_id", n.ID).
				Msg("failed to persist delivered flag")
			continue
		}

		w.logger.Info().
			Str("func", "Worker.pollOnce").
			Str("notification_id", n.ID).
			Time("deliver_at", n.DeliverAt).
			Msg("notification delivered")
	}

	retention := w.cfg.Retention
	if retention <= 0 {
		retention = config.DefaultRetention
	}

	removed, err := w.notifications.DeleteDeliveredBefore(ctx, now.Add(-retention))
	if err != nil {
		w.logger.Err(err).Str("func", "Worker.pollOnce").Msg("notification gc failed")
		return err
	}
	if removed > 0 {
		w.logger.Debug().
			Str("func", "Worker.pollOnce").
			Int("removed", removed).
			Msg("garbage collected delivered notifications")
	}

	return nil
}
