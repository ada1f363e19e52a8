// Package service implements the application use cases on top of the typed
// repositories: authentication, sales and collections, the agenda, reports,
// backups and the foreground notification scheduler.
package service

import (
	"github.com/aromero/farmagestor/internal/config"
	"github.com/aromero/farmagestor/internal/logger"
	"github.com/aromero/farmagestor/internal/notify"
	"github.com/aromero/farmagestor/internal/repository"
	"github.com/aromero/farmagestor/internal/utils"
)

// Services groups every application service behind one value.
type Services struct {
	Auth         AuthService
	Ventas       VentasService
	Cobros       CobrosService
	Agenda       AgendaService
	Estadisticas EstadisticasService
	Backup       BackupService
	Scheduler    SchedulerService
}

// Deps are the external collaborators the service layer is wired with.
type Deps struct {
	Repos       *repository.Repositories
	Config      *config.Config
	Permissions notify.Permissions
	Notifier    notify.Notifier

	// WorkerControl is the delivery worker's control channel. May be nil;
	// scheduling then relies on the worker's poll cycle alone.
	WorkerControl chan<- notify.Message

	Clock  utils.Clock
	Logger *logger.Logger
}

// NewServices wires the full service layer.
func NewServices(d Deps) *Services {
	ids := utils.NewIDGenerator()

	scheduler := NewSchedulerService(
		d.Repos.Notifications,
		d.Repos.Config,
		d.Permissions,
		d.Notifier,
		d.WorkerControl,
		d.Clock,
		d.Logger,
	)

	return &Services{
		Auth:         NewAuthService(d.Repos.Usuarios, d.Repos.Config, d.Config.App, d.Logger),
		Ventas:       NewVentasService(d.Repos.Historial, d.Repos.Cobros, d.Repos.Clientes, ids, d.Clock, d.Logger),
		Cobros:       NewCobrosService(d.Repos.Cobros, scheduler, ids, d.Clock, d.Logger),
		Agenda:       NewAgendaService(d.Repos.Agenda, scheduler, ids, d.Clock, d.Logger),
		Estadisticas: NewEstadisticasService(d.Repos.Historial, d.Repos.Cobros, d.Repos.Visitas, d.Clock, d.Logger),
		Backup:       NewBackupService(d.Repos, d.Config.Workers, ids, d.Clock, d.Logger),
		Scheduler:    scheduler,
	}
}
