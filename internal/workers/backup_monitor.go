// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"

	"github.com/aromero/farmagestor/internal/config"
	"github.com/aromero/farmagestor/internal/logger"
	"github.com/aromero/farmagestor/internal/service"
)

// BackupMonitor periodically evaluates the automatic backup policy. The
// policy itself decides whether a snapshot is due; the monitor only supplies
// the heartbeat.
type BackupMonitor struct {
	backups service.BackupService
	cfg     config.Workers
	logger  *logger.Logger
}

func NewBackupMonitor(backups service.BackupService, cfg config.Workers, logger *logger.Logger) *BackupMonitor {
	return &BackupMonitor{backups: backups, cfg: cfg, logger: logger}
}

func (m *BackupMonitor) Run(ctx context.Context) {
	interval := m.cfg.BackupCheckInterval
	if interval <= 0 {
		interval = time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	m.check(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.check(ctx)
		}
	}
}

func (m *BackupMonitor) check(ctx context.Context) {
	backup, taken, err := m.backups.RunAutoBackup(ctx)
	if err != nil {
		m.logger.Err(err).
			Str("func", "BackupMonitor.check").
			Msg("automatic backup check failed")
		return
	}

	if taken {
		m.logger.Info().
			Str("func", "BackupMonitor.check").
			Str("backup_id", backup.ID).
			Msg("automatic backup created")
	}
}
