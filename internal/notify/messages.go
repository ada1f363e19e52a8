package notify

// MessageType tags a cross-context control message sent from the foreground
// to the delivery worker.
type MessageType string

const (
	// MsgSkipWaiting asks a freshly installed worker to activate
	// immediately instead of waiting for the previous one to wind down.
	MsgSkipWaiting MessageType = "SKIP_WAITING"

	// MsgCheckNotifications asks the worker to run one poll cycle now.
	MsgCheckNotifications MessageType = "CHECK_NOTIFICATIONS"

	// MsgStartPeriodicCheck asks the worker to (re)start its fixed-interval
	// polling. Sending it repeatedly restarts the same interval; intervals
	// never stack.
	MsgStartPeriodicCheck MessageType = "START_PERIODIC_CHECK"

	// MsgScheduleNotification hands off a freshly persisted notification so
	// the worker picks it up without waiting for the next interval tick.
	MsgScheduleNotification MessageType = "SCHEDULE_NOTIFICATION"
)

// Ack is the optional reply to a control message.
type Ack struct {
	Success bool `json:"success"`
}

// Message is one control message. Ack, when non-nil, receives exactly one
// reply; the worker never blocks on a full ack channel, so senders should
// buffer it.
type Message struct {
	Type           MessageType `json:"type"`
	NotificationID string      `json:"notificationId,omitempty"`
	Ack            chan Ack    `json:"-"`
}
