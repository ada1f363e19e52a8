package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aromero/farmagestor/internal/logger"
	"github.com/aromero/farmagestor/models"
)

func TestNotificationRepository_ListDue_ToleranceWindow(t *testing.T) {
	ctx := context.Background()
	repo := NewNotificationRepository(newFakeRecordStore(), logger.Nop())

	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	tolerance := 30 * time.Second

	require.NoError(t, repo.Put(ctx, models.Notification{ID: "past", DeliverAt: now.Add(-time.Minute)}))
	require.NoError(t, repo.Put(ctx, models.Notification{ID: "inside", DeliverAt: now.Add(20 * time.Second)}))
	require.NoError(t, repo.Put(ctx, models.Notification{ID: "outside", DeliverAt: now.Add(40 * time.Second)}))
	require.NoError(t, repo.Put(ctx, models.Notification{ID: "already", DeliverAt: now.Add(-time.Hour), Delivered: true}))

	due, err := repo.ListDue(ctx, now, tolerance)
	require.NoError(t, err)

	ids := make([]string, 0, len(due))
	for _, n := range due {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{"past", "inside"}, ids, "oldest first; outside-window and delivered excluded")
}

func TestNotificationRepository_DeleteDeliveredBefore(t *testing.T) {
	ctx := context.Background()
	repo := NewNotificationRepository(newFakeRecordStore(), logger.Nop())

	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	cutoff := now.Add(-7 * 24 * time.Hour)

	require.NoError(t, repo.Put(ctx, models.Notification{ID: "old-delivered", DeliverAt: now.Add(-8 * 24 * time.Hour), Delivered: true}))
	require.NoError(t, repo.Put(ctx, models.Notification{ID: "old-pending", DeliverAt: now.Add(-8 * 24 * time.Hour)}))
	require.NoError(t, repo.Put(ctx, models.Notification{ID: "fresh-delivered", DeliverAt: now.Add(-time.Hour), Delivered: true}))

	removed, err := repo.DeleteDeliveredBefore(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	// undelivered records are never garbage collected, however old
	_, err = repo.Get(ctx, "old-pending")
	assert.NoError(t, err)

	_, err = repo.Get(ctx, "fresh-delivered")
	assert.NoError(t, err)
}
