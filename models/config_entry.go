package models

import "encoding/json"

// Well-known keys of the config collection.
const (
	// ConfigMigrationV3Done marks the one-time legacy flat-key import of the
	// core collections as completed. Monotonic: once set, the import never
	// re-runs, even if legacy data is still present.
	ConfigMigrationV3Done = "migration_v3_done"

	// ConfigMigrationV4Done marks the legacy backup import as completed.
	ConfigMigrationV4Done = "migration_v4_done"

	// ConfigNotificationsPermission stores the recorded notification
	// permission decision ("granted"/"denied") so the user is not re-prompted.
	ConfigNotificationsPermission = "notificationsPermission"

	// ConfigCurrentUser stores the active session user (without password).
	ConfigCurrentUser = "currentUser"

	// ConfigLastBackup stores the RFC3339 timestamp of the last backup run.
	ConfigLastBackup = "farmacia_last_backup_date"

	// ConfigDataHash stores the data fingerprint of the last backup, used to
	// skip backups when nothing changed.
	ConfigDataHash = "farmacia_data_hash"
)

// ConfigEntry is a flag or opaque value in the config collection.
type ConfigEntry struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}
