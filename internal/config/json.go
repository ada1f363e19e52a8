package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// Duration wraps time.Duration to accept JSON values either as a duration
// string ("1h30m") or as a number of nanoseconds.
type Duration struct {
	time.Duration
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
		d.Duration = parsed
		return nil
	default:
		return errors.New("invalid duration: expected string or number")
	}
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// jsonConfig mirrors Config with JSON-friendly field types. Zero fields are
// treated as absent during the merge.
type jsonConfig struct {
	App struct {
		TokenSignKey  string   `json:"token_sign_key"`
		TokenIssuer   string   `json:"token_issuer"`
		TokenDuration Duration `json:"token_duration"`
		Version       string   `json:"version"`
	} `json:"app"`
	Storage struct {
		DatabaseDSN string `json:"database_dsn"`
		LegacyPath  string `json:"legacy_path"`
	} `json:"storage"`
	Server struct {
		Address        string   `json:"address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server"`
	Workers struct {
		PollInterval        Duration `json:"poll_interval"`
		Tolerance           Duration `json:"tolerance"`
		Retention           Duration `json:"retention"`
		BackupHour          int      `json:"backup_hour"`
		BackupCheckInterval Duration `json:"backup_check_interval"`
		BackupMinInterval   Duration `json:"backup_min_interval"`
	} `json:"workers"`
}

// parseJSONFile reads the JSON config at path and converts it into a
// *Config suitable for merging.
func parseJSONFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading json config file %s: %w", path, err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return nil, fmt.Errorf("error parsing json config file %s: %w", path, err)
	}

	return &Config{
		App: App{
			TokenSignKey:  jc.App.TokenSignKey,
			TokenIssuer:   jc.App.TokenIssuer,
			TokenDuration: jc.App.TokenDuration.Duration,
			Version:       jc.App.Version,
		},
		Storage: Storage{
			DB:     DB{DSN: jc.Storage.DatabaseDSN},
			Legacy: Legacy{Path: jc.Storage.LegacyPath},
		},
		Server: Server{
			HTTPAddress:    jc.Server.Address,
			RequestTimeout: jc.Server.RequestTimeout.Duration,
		},
		Workers: Workers{
			PollInterval:        jc.Workers.PollInterval.Duration,
			Tolerance:           jc.Workers.Tolerance.Duration,
			Retention:           jc.Workers.Retention.Duration,
			BackupHour:          jc.Workers.BackupHour,
			BackupCheckInterval: jc.Workers.BackupCheckInterval.Duration,
			BackupMinInterval:   jc.Workers.BackupMinInterval.Duration,
		},
	}, nil
}
