package repository

import (
	"github.com/aromero/farmagestor/internal/logger"
	"github.com/aromero/farmagestor/internal/store"
)

// Repositories groups all typed repositories into a single value that can be
// passed around the service layer.
type Repositories struct {
	Productos     ProductoRepository
	Clientes      ClienteRepository
	Visitas       VisitaRepository
	Cobros        CobroRepository
	Agenda        AgendaRepository
	Historial     HistorialRepository
	Usuarios      UsuarioRepository
	Backups       BackupRepository
	Notifications NotificationRepository
	Config        ConfigRepository
}

// NewRepositories wires every repository to the shared record store.
func NewRepositories(storages *store.Storages, logger *logger.Logger) *Repositories {
	records := storages.Records

	return &Repositories{
		Productos:     NewProductoRepository(records, logger),
		Clientes:      NewClienteRepository(records, logger),
		Visitas:       NewVisitaRepository(records, logger),
		Cobros:        NewCobroRepository(records, logger),
		Agenda:        NewAgendaRepository(records, logger),
		Historial:     NewHistorialRepository(records, logger),
		Usuarios:      NewUsuarioRepository(records, logger),
		Backups:       NewBackupRepository(records, logger),
		Notifications: NewNotificationRepository(records, logger),
		Config:        NewConfigRepository(records, logger),
	}
}
