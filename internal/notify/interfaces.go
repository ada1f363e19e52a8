// Package notify holds the notification delivery machinery: the platform
// boundary interfaces, the cross-context control messages, the background
// delivery worker, and click routing back into the application views.
package notify

//go:generate mockgen -source=interfaces.go -destination=../mock/notify_mock.go -package=mock

import (
	"context"

	"github.com/aromero/farmagestor/models"
)

// Permission is the decision returned by the platform permission prompt.
type Permission string

const (
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
	PermissionDefault Permission = "default"
)

// Permissions is the platform permission-request boundary. Request may
// prompt the user and therefore suspend until a decision is made.
type Permissions interface {
	Request(ctx context.Context) (Permission, error)
}

// Notifier is the platform delivery boundary for persistent notifications.
type Notifier interface {
	// Show displays the notification. Failures are reported but the caller
	// decides whether they are fatal.
	Show(ctx context.Context, n models.Notification) error

	// Close dismisses a previously shown notification. Unknown ids are
	// ignored.
	Close(ctx context.Context, id string)
}

// Window is one open application window.
type Window interface {
	// Path returns the view path the window currently shows.
	Path() string

	Focus(ctx context.Context) error

	// PostMessage forwards a notification payload to the window.
	PostMessage(ctx context.Context, payload models.NotificationPayload) error
}

// WindowClients is the platform boundary for enumerating and opening
// application windows, used by click routing.
type WindowClients interface {
	List(ctx context.Context) ([]Window, error)
	OpenWindow(ctx context.Context, path string) (Window, error)
}
