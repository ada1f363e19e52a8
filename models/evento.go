package models

import "time"

// Evento is a calendar (agenda) entry. Agenda entries are the source of
// agenda-reminder notifications: one at T-15min and one at the event time.
type Evento struct {
	ID          string    `json:"id"`
	Fecha       time.Time `json:"fecha"`
	Titulo      string    `json:"titulo"`
	Descripcion string    `json:"descripcion,omitempty"`
	Completada  bool      `json:"completada"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Key returns the record-store key of the event.
func (e Evento) Key() string { return e.ID }
