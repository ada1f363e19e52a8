package models

import "time"

// Visita is one entry of the daily visit log. The log is append-mostly;
// entries reference a client loosely by display name and, when available,
// by client id.
type Visita struct {
	ID        string    `json:"id"`
	Fecha     time.Time `json:"fecha"`
	Cliente   string    `json:"cliente"`
	ClienteID string    `json:"clienteId,omitempty"`
	Lugar     string    `json:"lugar"`
	Notas     string    `json:"notas"`
}

// Key returns the record-store key of the visit.
func (v Visita) Key() string { return v.ID }
