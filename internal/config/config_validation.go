package config

import (
	"fmt"
	"time"
)

// Default values applied when no source provides an explicit setting. The
// worker schedules match the delivery and backup policies the rest of the
// application assumes.
const (
	DefaultDatabaseDSN    = "farmagestor.db"
	DefaultServerAddress  = "localhost:8080"
	DefaultRequestTimeout = 30 * time.Second

	DefaultTokenIssuer   = "farmagestor"
	DefaultTokenDuration = 12 * time.Hour

	DefaultPollInterval        = 60 * time.Second
	DefaultTolerance           = 30 * time.Second
	DefaultRetention           = 7 * 24 * time.Hour
	DefaultBackupHour          = 19
	DefaultBackupCheckInterval = time.Hour
	DefaultBackupMinInterval   = time.Hour
)

// applyDefaults fills zero-valued fields with their defaults.
func (c *Config) applyDefaults() {
	if c.Storage.DB.DSN == "" {
		c.Storage.DB.DSN = DefaultDatabaseDSN
	}
	if c.Server.HTTPAddress == "" {
		c.Server.HTTPAddress = DefaultServerAddress
	}
	if c.Server.RequestTimeout == 0 {
		c.Server.RequestTimeout = DefaultRequestTimeout
	}
	if c.App.TokenIssuer == "" {
		c.App.TokenIssuer = DefaultTokenIssuer
	}
	if c.App.TokenDuration == 0 {
		c.App.TokenDuration = DefaultTokenDuration
	}
	if c.Workers.PollInterval == 0 {
		c.Workers.PollInterval = DefaultPollInterval
	}
	if c.Workers.Tolerance == 0 {
		c.Workers.Tolerance = DefaultTolerance
	}
	if c.Workers.Retention == 0 {
		c.Workers.Retention = DefaultRetention
	}
	if c.Workers.BackupHour == 0 {
		c.Workers.BackupHour = DefaultBackupHour
	}
	if c.Workers.BackupCheckInterval == 0 {
		c.Workers.BackupCheckInterval = DefaultBackupCheckInterval
	}
	if c.Workers.BackupMinInterval == 0 {
		c.Workers.BackupMinInterval = DefaultBackupMinInterval
	}
}

// validate rejects settings the rest of the application cannot work with.
func (c *Config) validate() error {
	if c.App.TokenSignKey == "" {
		return ErrNoTokenSignKey
	}
	if c.Workers.PollInterval <= 0 {
		return fmt.Errorf("%w: poll interval %s", ErrInvalidWorkerSchedule, c.Workers.PollInterval)
	}
	if c.Workers.Tolerance < 0 {
		return fmt.Errorf("%w: tolerance %s", ErrInvalidWorkerSchedule, c.Workers.Tolerance)
	}
	if c.Workers.Retention <= 0 {
		return fmt.Errorf("%w: retention %s", ErrInvalidWorkerSchedule, c.Workers.Retention)
	}
	if c.Workers.BackupHour < 0 || c.Workers.BackupHour > 23 {
		return fmt.Errorf("%w: backup hour %d", ErrInvalidWorkerSchedule, c.Workers.BackupHour)
	}

	return nil
}
