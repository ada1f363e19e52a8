// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"

	"github.com/joho/godotenv"
)

// Config is the top-level configuration container for farmagestor. It is
// populated by merging values from a .env file, environment variables,
// command-line flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type Config struct {
	// App holds application-level settings: session token parameters and
	// the application version.
	App App `envPrefix:"APP_"`

	// Storage holds the record-store file location and the legacy flat-key
	// storage file imported once at boot.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds address and timeout settings for the HTTP surface.
	Server Server `envPrefix:"SERVER_"`

	// Workers holds the schedules of the background delivery and backup
	// workers.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file merged
	// on top of env and flags. Populated via the CONFIG environment variable
	// or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// TokenSignKey is the secret key used to sign and verify session JWTs.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim embedded in every issued token.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenDuration specifies how long a session token remains valid
	// (e.g. "1h", "30m").
	// Env: APP_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`

	// Version is the semantic version string of the running application.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Storage groups the persistence settings.
type Storage struct {
	// DB holds the embedded record-store settings.
	DB DB `envPrefix:"DB_"`

	// Legacy holds the location of the old flat-key storage file.
	Legacy Legacy `envPrefix:"LEGACY_"`
}

// DB holds the embedded record-store connection settings.
type DB struct {
	// DSN is the SQLite file path of the per-device record store
	// (e.g. "farmagestor.db"). ":memory:" is accepted in tests only.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Legacy holds the location of the flat-key JSON file written by the old,
// non-transactional storage mechanism. The file is imported once into the
// record store and then erased.
type Legacy struct {
	// Path to the legacy flat-key file. Empty means no legacy data to
	// import on this device.
	// Env: STORAGE_LEGACY_PATH
	Path string `env:"PATH"`
}

// Server holds network settings for the HTTP read/write contract.
type Server struct {
	// HTTPAddress is the TCP address the HTTP server listens on,
	// "host:port" format.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single inbound
	// request.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Workers holds the background worker schedules.
type Workers struct {
	// PollInterval is the fixed interval between delivery-worker poll
	// cycles against the notifications collection.
	// Env: WORKERS_POLL_INTERVAL
	PollInterval time.Duration `env:"POLL_INTERVAL"`

	// Tolerance is the lookahead window used when deciding a pending
	// notification is due on a poll cycle.
	// Env: WORKERS_TOLERANCE
	Tolerance time.Duration `env:"TOLERANCE"`

	// Retention is how long delivered notifications are kept before the
	// worker garbage-collects them.
	// Env: WORKERS_RETENTION
	Retention time.Duration `env:"RETENTION"`

	// BackupHour is the local hour of day (0-23) after which the auto
	// backup policy may fire.
	// Env: WORKERS_BACKUP_HOUR
	BackupHour int `env:"BACKUP_HOUR"`

	// BackupCheckInterval is how often the backup monitor re-evaluates the
	// auto backup policy.
	// Env: WORKERS_BACKUP_CHECK_INTERVAL
	BackupCheckInterval time.Duration `env:"BACKUP_CHECK_INTERVAL"`

	// BackupMinInterval is the minimum spacing between two auto backups.
	// Env: WORKERS_BACKUP_MIN_INTERVAL
	BackupMinInterval time.Duration `env:"BACKUP_MIN_INTERVAL"`
}

// GetConfig loads, merges, and validates the application configuration from
// all available sources in the following priority order (first non-zero
// value wins):
//  1. Environment variables (after an optional .env bootstrap)
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Missing values fall back to the defaults applied during validation.
func GetConfig() (*Config, error) {
	// .env is optional; absence is not an error.
	_ = godotenv.Load()

	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}
