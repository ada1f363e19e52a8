package models

import "time"

// Notification payload type tags. The background worker maps them to view
// paths when a notification is clicked.
const (
	NotificationAgenda = "agenda"
	NotificationVisita = "visita"
	NotificationCobro  = "cobro"
)

// NotificationPayload carries the domain context of a reminder so a click
// can be routed back to the originating view.
type NotificationPayload struct {
	Type             string  `json:"type"`
	EventoID         string  `json:"eventoId,omitempty"`
	VisitaID         string  `json:"visitaId,omitempty"`
	Cliente          string  `json:"cliente,omitempty"`
	Monto            float64 `json:"monto,omitempty"`
	FechaVencimiento string  `json:"fechaVencimiento,omitempty"`
}

// Notification is a persisted reminder. The foreground scheduler writes it
// with Delivered=false; the background worker flips Delivered to true
// durably, exactly once, when the delivery timestamp falls due. The flag
// never reverts to false for the lifetime of the record.
type Notification struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Body        string              `json:"body"`
	DeliverAt   time.Time           `json:"timestamp"`
	Payload     NotificationPayload `json:"data"`
	Delivered   bool                `json:"delivered"`
	CreatedAt   time.Time           `json:"createdAt"`
	DeliveredAt *time.Time          `json:"deliveredAt,omitempty"`
}

// Key returns the record-store key of the notification.
func (n Notification) Key() string { return n.ID }

// Due reports whether the notification should be delivered on a poll cycle
// running at now with the given lookahead tolerance.
func (n Notification) Due(now time.Time, tolerance time.Duration) bool {
	return !n.Delivered && !n.DeliverAt.After(now.Add(tolerance))
}
