// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// BackupFormatVersion tags every snapshot so future readers can migrate old
// backup shapes. Bump only with a compatible reader in place.
const BackupFormatVersion = "1.0"

// BackupStats summarises the record counts captured in a snapshot.
type BackupStats struct {
	Productos int `json:"productos"`
	Usuarios  int `json:"usuarios"`
	Visitas   int `json:"visitas"`
	Historial int `json:"historial"`
	Eventos   int `json:"eventos"`
	Cobros    int `json:"cobros"`
}

// BackupData is the full point-in-time contents of every collection.
type BackupData struct {
	Productos   []Producto  `json:"productos"`
	Usuarios    []Usuario   `json:"usuarios"`
	Visitas     []Visita    `json:"visitas"`
	Historial   []Documento `json:"historial"`
	Agenda      []Evento    `json:"agenda"`
	Cobros      []Cobro     `json:"cobros"`
	CurrentUser *Usuario    `json:"currentUser,omitempty"`
}

// Backup is one point-in-time export unit. Restore is handled by external
// tooling; the snapshot schema stays forward-compatible via Version.
type Backup struct {
	ID        string      `json:"id"`
	Date      time.Time   `json:"date"`
	Timestamp int64       `json:"timestamp"`
	UserName  string      `json:"userName"`
	Version   string      `json:"version"`
	Auto      bool        `json:"auto"`
	Stats     BackupStats `json:"stats"`
	Data      BackupData  `json:"data"`
}

// Key returns the record-store key of the backup.
func (b Backup) Key() string { return b.ID }
