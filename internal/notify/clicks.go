package notify

import (
	"context"

	"github.com/aromero/farmagestor/internal/logger"
	"github.com/aromero/farmagestor/models"
)

// View paths notifications route to when clicked.
const (
	PathAgenda  = "/agenda"
	PathVisitas = "/visitas"
	PathCobros  = "/cobros"
	PathHome    = "/"
)

// ViewPathFor maps a notification payload type to its target view path.
// Unknown types land on the home view.
func ViewPathFor(payloadType string) string {
	switch payloadType {
	case models.NotificationAgenda:
		return PathAgenda
	case models.NotificationVisita:
		return PathVisitas
	case models.NotificationCobro:
		return PathCobros
	default:
		return PathHome
	}
}

// ClickRouter reacts to notification clicks: it dismisses the notification,
// focuses an already-open window showing the target view (or opens a new
// one), and forwards the payload to that window.
type ClickRouter struct {
	notifier Notifier
	clients  WindowClients
	logger   *logger.Logger
}

func NewClickRouter(notifier Notifier, clients WindowClients, logger *logger.Logger) *ClickRouter {
	return &ClickRouter{
		notifier: notifier,
		clients:  clients,
		logger:   logger,
	}
}

func (r *ClickRouter) HandleClick(ctx context.Context, n models.Notification) error {
	r.notifier.Close(ctx, n.ID)

	path := ViewPathFor(n.Payload.Type)

	windows, err := r.clients.List(ctx)
	if err != nil {
		r.logger.Err(err).Str("func", "ClickRouter.HandleClick").Msg("failed to list windows")
		return err
	}

	for _, w := range windows {
		if w.Path() != path {
			continue
		}
		if err := w.Focus(ctx); err != nil {
			r.logger.Err(err).
				Str("func", "ClickRouter.HandleClick").
				Str("path", path).
				Msg("failed to focus window")
			break
		}
		return w.PostMessage(ctx, n.Payload)
	}

	w, err := r.clients.OpenWindow(ctx, path)
	if err != nil {
		r.logger.Err(err).
			Str("func", "ClickRouter.HandleClick").
			Str("path", path).
			Msg("failed to open window")
		return err
	}

	return w.PostMessage(ctx, n.Payload)
}
