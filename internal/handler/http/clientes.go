package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aromero/farmagestor/internal/logger"
	"github.com/aromero/farmagestor/internal/utils"
	"github.com/aromero/farmagestor/models"
)

func (h *Handler) listClientes(w http.ResponseWriter, r *http.Request) {
	clientes, err := h.repos.Clientes.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, clientes, http.StatusOK)
}

func (h *Handler) getCliente(w http.ResponseWriter, r *http.Request) {
	cliente, err := h.repos.Clientes.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, cliente, http.StatusOK)
}

func (h *Handler) addCliente(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var cliente models.Cliente
	if err := json.NewDecoder(r.Body).Decode(&cliente); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if cliente.Nombre == "" {
		http.Error(w, "cliente needs a nombre", http.StatusBadRequest)
		return
	}

	if cliente.ID == "" {
		cliente.ID = h.ids.Generate("cliente")
	}
	if cliente.Clasificacion == "" {
		cliente.Clasificacion = models.ClasificacionC
	}

	if err := h.repos.Clientes.Add(r.Context(), cliente); err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, cliente, http.StatusCreated)
}

func (h *Handler) updateCliente(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var partial models.Cliente
	if err := json.NewDecoder(r.Body).Decode(&partial); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	cliente, err := h.repos.Clientes.Update(r.Context(), chi.URLParam(r, "id"), partial)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, cliente, http.StatusOK)
}

func (h *Handler) deleteCliente(w http.ResponseWriter, r *http.Request) {
	if err := h.repos.Clientes.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
