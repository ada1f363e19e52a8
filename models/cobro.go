package models

import "time"

// Collection record types. The taxonomy drives the statistics split and the
// outstanding-balance computation.
const (
	CobroAbono       = "Abono"
	CobroCancelacion = "Cancelación"
)

// Cobro is a collection (payment) record against a client.
type Cobro struct {
	ID string `json:"id"`

	// Fecha is the calendar date of the payment, "YYYY-MM-DD".
	Fecha string `json:"fecha"`

	// Cliente is the client display name. Historical writers did not attach
	// a stable client id, so balance computations match on this free-text
	// name, case-insensitive and trimmed.
	Cliente string `json:"cliente"`

	Cantidad float64 `json:"cantidad"`
	Tipo     string  `json:"tipo"`

	// FechaVencimiento is the due date used for payment reminders,
	// "YYYY-MM-DD". Empty when the cobro has no due date.
	FechaVencimiento string `json:"fechaVencimiento,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// Key returns the record-store key of the cobro.
func (c Cobro) Key() string { return c.ID }
