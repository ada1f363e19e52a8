package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aromero/farmagestor/internal/config"
	"github.com/aromero/farmagestor/internal/logger"
	"github.com/aromero/farmagestor/internal/repository"
	"github.com/aromero/farmagestor/internal/store"
)

// newTestRepos backs the repositories with a real migrated SQLite file so
// service tests exercise the full persistence path.
func newTestRepos(t *testing.T) *repository.Repositories {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := store.NewConnectSQLite(context.Background(), config.DB{DSN: dsn}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Migrate())

	storages := &store.Storages{DB: db, Records: store.NewRecordStore(db, logger.Nop())}
	return repository.NewRepositories(storages, logger.Nop())
}

// fakeClock is a settable Clock shared between the scheduler and the worker
// under test.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func testAppConfig() config.App {
	return config.App{
		TokenSignKey:  "test-sign-key",
		TokenIssuer:   "farmagestor-test",
		TokenDuration: time.Hour,
	}
}

func testWorkersConfig() config.Workers {
	return config.Workers{
		PollInterval:        time.Hour,
		Tolerance:           30 * time.Second,
		Retention:           7 * 24 * time.Hour,
		BackupHour:          19,
		BackupCheckInterval: time.Hour,
		BackupMinInterval:   time.Hour,
	}
}
