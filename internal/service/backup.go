// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aromero/farmagestor/internal/config"
	"github.com/aromero/farmagestor/internal/logger"
	"github.com/aromero/farmagestor/internal/repository"
	"github.com/aromero/farmagestor/internal/utils"
	"github.com/aromero/farmagestor/models"
)

// BackupService snapshots every collection into the backups collection.
type BackupService interface {
	// CrearBackup takes a snapshot now. auto marks it as policy-driven,
	// which makes it subject to retention pruning.
	CrearBackup(ctx context.Context, auto bool) (models.Backup, error)

	// List returns all stored backups, newest first.
	List(ctx context.Context) ([]models.Backup, error)

	// Delete removes one backup by id.
	Delete(ctx context.Context, id string) error

	// RunAutoBackup applies the automatic policy: only after the configured
	// hour, at most once per minimum interval, and only when the data
	// fingerprint changed since the last run. Returns the backup and true
	// when one was taken.
	RunAutoBackup(ctx context.Context) (models.Backup, bool, error)
}

type backupService struct {
	repos  *repository.Repositories
	cfg    config.Workers
	ids    *utils.IDGenerator
	clock  utils.Clock
	logger *logger.Logger
}

func NewBackupService(repos *repository.Repositories, cfg config.Workers, ids *utils.IDGenerator, clock utils.Clock, logger *logger.Logger) BackupService {
	return &backupService{repos: repos, cfg: cfg, ids: ids, clock: clock, logger: logger}
}

func (s *backupService) snapshot(ctx context.Context) (models.BackupData, error) {
	var data models.BackupData
	var err error

	if data.Productos, err = s.repos.Productos.List(ctx); err != nil {
		return models.BackupData{}, fmt.Errorf("error snapshotting productos: %w", err)
	}
	if data.Usuarios, err = s.repos.Usuarios.List(ctx); err != nil {
		return models.BackupData{}, fmt.Errorf("error snapshotting usuarios: %w", err)
	}
	if data.Visitas, err = s.repos.Visitas.List(ctx); err != nil {
		return models.BackupData{}, fmt.Errorf("error snapshotting visitas: %w", err)
	}
	if data.Historial, err = s.repos.Historial.List(ctx); err != nil {
		return models.BackupData{}, fmt.Errorf("error snapshotting historial: %w", err)
	}
	if data.Agenda, err = s.repos.Agenda.List(ctx); err != nil {
		return models.BackupData{}, fmt.Errorf("error snapshotting agenda: %w", err)
	}
	if data.Cobros, err = s.repos.Cobros.List(ctx); err != nil {
		return models.BackupData{}, fmt.Errorf("error snapshotting cobros: %w", err)
	}

	var current models.Usuario
	if err := s.repos.Config.Get(ctx, models.ConfigCurrentUser, &current); err == nil {
		data.CurrentUser = &current
	}

	return data, nil
}

func (s *backupService) CrearBackup(ctx context.Context, auto bool) (models.Backup, error) {
	data, err := s.snapshot(ctx)
	if err != nil {
		return models.Backup{}, err
	}

	now := s.clock.Now()
	userName := ""
	if data.CurrentUser != nil {
		userName = data.CurrentUser.Nombre
	}

	backup := models.Backup{
		ID:        s.ids.Generate("backup"),
		Date:      now,
		Timestamp: now.UnixMilli(),
		UserName:  userName,
		Version:   models.BackupFormatVersion,
		Auto:      auto,
		Stats: models.BackupStats{
			Productos: len(data.Productos),
			Usuarios:  len(data.Usuarios),
			Visitas:   len(data.Visitas),
			Historial: len(data.Historial),
			Eventos:   len(data.Agenda),
			Cobros:    len(data.Cobros),
		},
		Data: data,
	}

	if err := s.repos.Backups.Add(ctx, backup); err != nil {
		return models.Backup{}, fmt.Errorf("error storing backup: %w", err)
	}

	if err := s.repos.Config.Set(ctx, models.ConfigLastBackup, now.Format(time.RFC3339)); err != nil {
		s.logger.Err(err).Str("func", "backupService.CrearBackup").Msg("failed to record last backup time")
	}
	if hash, err := dataHash(data); err == nil {
		if err := s.repos.Config.Set(ctx, models.ConfigDataHash, hash); err != nil {
			s.logger.Err(err).Str("func", "backupService.CrearBackup").Msg("failed to record data hash")
		}
	}

	s.logger.Info().
		Str("func", "backupService.CrearBackup").
		Str("backup_id", backup.ID).
		Bool("auto", auto).
		Msg("backup created")

	return backup, nil
}

func (s *backupService) List(ctx context.Context) ([]models.Backup, error) {
	backups, err := s.repos.Backups.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(backups, func(i, j int) bool { return backups[i].Date.After(backups[j].Date) })
	return backups, nil
}

func (s *backupService) Delete(ctx context.Context, id string) error {
	return s.repos.Backups.Delete(ctx, id)
}

func (s *backupService) RunAutoBackup(ctx context.Context) (models.Backup, bool, error) {
	now := s.clock.Now()

	if now.Hour() < s.cfg.BackupHour {
		return models.Backup{}, false, nil
	}

	last, err := s.repos.Config.GetString(ctx, models.ConfigLastBackup, "")
	if err != nil {
		return models.Backup{}, false, err
	}
	if last != "" {
		lastAt, parseErr := time.Parse(time.RFC3339, last)
		if parseErr == nil && now.Sub(lastAt) < s.cfg.BackupMinInterval {
			return models.Backup{}, false, nil
		}
	}

	data, err := s.snapshot(ctx)
	if err != nil {
		return models.Backup{}, false, err
	}

	hash, err := dataHash(data)
	if err != nil {
		return models.Backup{}, false, fmt.Errorf("error hashing data: %w", err)
	}
	previous, err := s.repos.Config.GetString(ctx, models.ConfigDataHash, "")
	if err != nil {
		return models.Backup{}, false, err
	}
	if previous == hash {
		return models.Backup{}, false, nil
	}

	backup, err := s.CrearBackup(ctx, true)
	if err != nil {
		return models.Backup{}, false, err
	}

	if pruned, pruneErr := s.repos.Backups.Prune(ctx, now.Add(-s.cfg.Retention)); pruneErr != nil {
		s.logger.Err(pruneErr).Str("func", "backupService.RunAutoBackup").Msg("failed to prune old backups")
	} else if pruned > 0 {
		s.logger.Info().
			Str("func", "backupService.RunAutoBackup").
			Int("pruned", pruned).
			Msg("old automatic backups pruned")
	}

	return backup, true, nil
}

// dataHash fingerprints a snapshot. JSON marshalling of the typed snapshot
// is deterministic, so equal data yields an equal hash.
func dataHash(data models.BackupData) (string, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return "", errors.Join(errors.New("error marshalling snapshot"), err)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
