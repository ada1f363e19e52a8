package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withLogging)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/user/login", h.login)
		r.Get("/api/version", h.version)
	})

	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Post("/api/user/logout", h.logout)
		r.Get("/api/user/current", h.currentUser)

		r.Route("/api/productos", func(r chi.Router) {
			r.Get("/", h.listProductos)
			r.Post("/", h.addProducto)
			r.Put("/", h.replaceProductos)
			r.Get("/{id}", h.getProducto)
			r.Patch("/{id}", h.updateProducto)
			r.Delete("/{id}", h.deleteProducto)
		})

		r.Route("/api/clientes", func(r chi.Router) {
			r.Get("/", h.listClientes)
			r.Post("/", h.addCliente)
			r.Get("/{id}", h.getCliente)
			r.Patch("/{id}", h.updateCliente)
			r.Delete("/{id}", h.deleteCliente)
		})

		r.Route("/api/visitas", func(r chi.Router) {
			r.Get("/", h.listVisitas)
			r.Post("/", h.addVisita)
			r.Patch("/{id}", h.updateVisita)
			r.Delete("/{id}", h.deleteVisita)
		})

		r.Route("/api/agenda", func(r chi.Router) {
			r.Get("/", h.listEventos)
			r.Post("/", h.addEvento)
			r.Post("/{id}/completar", h.completarEvento)
			r.Delete("/{id}", h.deleteEvento)
		})

		r.Route("/api/cobros", func(r chi.Router) {
			r.Get("/", h.listCobros)
			r.Post("/", h.addCobro)
		})

		r.Route("/api/historial", func(r chi.Router) {
			r.Get("/", h.listHistorial)
			r.Post("/", h.addDocumento)
		})

		r.Get("/api/saldos", h.saldosPendientes)
		r.Get("/api/estadisticas", h.estadisticas)

		r.Route("/api/backups", func(r chi.Router) {
			r.Get("/", h.listBackups)
			r.Post("/", h.createBackup)
			r.Delete("/{id}", h.deleteBackup)
		})
	})

	return router
}
