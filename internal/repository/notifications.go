package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/aromero/farmagestor/internal/logger"
	"github.com/aromero/farmagestor/internal/store"
	"github.com/aromero/farmagestor/models"
)

// NotificationRepository is an uncached view over the notifications
// collection. The foreground scheduler and the background worker both write
// to it, so reads always go to the store.
type NotificationRepository interface {
	List(ctx context.Context) ([]models.Notification, error)
	Get(ctx context.Context, id string) (models.Notification, error)
	Put(ctx context.Context, n models.Notification) error
	Delete(ctx context.Context, id string) error

	// ListDue returns the pending notifications whose delivery timestamp
	// falls within the tolerance window of now, oldest first.
	ListDue(ctx context.Context, now time.Time, tolerance time.Duration) ([]models.Notification, error)

	// DeleteDeliveredBefore removes delivered notifications older than the
	// cut-off and returns how many were removed.
	DeleteDeliveredBefore(ctx context.Context, cutoff time.Time) (int, error)
}

type notificationRepository struct {
	records store.RecordStore
	logger  *logger.Logger
}

func NewNotificationRepository(records store.RecordStore, logger *logger.Logger) NotificationRepository {
	return &notificationRepository{
		records: records,
		logger:  logger,
	}
}

func (r *notificationRepository) List(ctx context.Context) ([]models.Notification, error) {
	raw, err := r.records.GetAll(ctx, store.CollectionNotifications)
	if err != nil {
		return nil, err
	}

	notifications := make([]models.Notification, 0, len(raw))
	for _, data := range raw {
		var n models.Notification
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, fmt.Errorf("decode notification: %w", err)
		}
		notifications = append(notifications, n)
	}

	return notifications, nil
}

func (r *notificationRepository) Get(ctx context.Context, id string) (models.Notification, error) {
	data, err := r.records.Get(ctx, store.CollectionNotifications, id)
	if err != nil {
		return models.Notification{}, err
	}

	var n models.Notification
	if err := json.Unmarshal(data, &n); err != nil {
		return models.Notification{}, fmt.Errorf("decode notification: %w", err)
	}

	return n, nil
}

func (r *notificationRepository) Put(ctx context.Context, n models.Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return err
	}

	return r.records.Put(ctx, store.CollectionNotifications, n.ID, data)
}

func (r *notificationRepository) Delete(ctx context.Context, id string) error {
	return r.records.Delete(ctx, store.CollectionNotifications, id)
}

func (r *notificationRepository) ListDue(ctx context.Context, now time.Time, tolerance time.Duration) ([]models.Notification, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	var due []models.Notification
	for _, n := range all {
		if n.Due(now, tolerance) {
			due = append(due, n)
		}
	}

	sort.Slice(due, func(i, j int) bool {
		return due[i].DeliverAt.Before(due[j].DeliverAt)
	})

	return due, nil
}

func (r *notificationRepository) DeleteDeliveredBefore(ctx context.Context, cutoff time.Time) (int, error) {
	all, err := r.List(ctx)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, n := range all {
		if !n.Delivered || n.DeliverAt.After(cutoff) {
			continue
		}
		if err := r.records.Delete(ctx, store.CollectionNotifications, n.ID); err != nil {
			return removed, err
		}
		removed++
	}

	return removed, nil
}
