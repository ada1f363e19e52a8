package notify

import (
	"context"

	"github.com/aromero/farmagestor/internal/logger"
	"github.com/aromero/farmagestor/models"
)

// LogNotifier is the default Notifier: it emits each delivery as a log
// entry. Deployments with a real push channel substitute their own Notifier
// at wiring time.
type LogNotifier struct {
	logger *logger.Logger
}

func NewLogNotifier(logger *logger.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Show(_ context.Context, notification models.Notification) error {
	n.logger.Info().
		Str("notification_id", notification.ID).
		Str("title", notification.Title).
		Str("body", notification.Body).
		Msg("notification delivered")
	return nil
}

func (n *LogNotifier) Close(_ context.Context, id string) {
	n.logger.Debug().
		Str("notification_id", id).
		Msg("notification closed")
}

// StaticPermissions resolves every permission request with a fixed decision,
// used where no interactive prompt exists.
type StaticPermissions struct {
	Decision Permission
}

func (p StaticPermissions) Request(context.Context) (Permission, error) {
	return p.Decision, nil
}
