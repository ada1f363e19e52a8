package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aromero/farmagestor/internal/logger"
	"github.com/aromero/farmagestor/internal/utils"
	"github.com/aromero/farmagestor/models"
)

func (h *Handler) listEventos(w http.ResponseWriter, r *http.Request) {
	eventos, err := h.repos.Agenda.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, eventos, http.StatusOK)
}

func (h *Handler) addEvento(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var evento models.Evento
	if err := json.NewDecoder(r.Body).Decode(&evento); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	created, err := h.services.Agenda.CrearEvento(r.Context(), evento)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, created, http.StatusCreated)
}

type completarRequest struct {
	Completada bool `json:"completada"`
}

func (h *Handler) completarEvento(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	req := completarRequest{Completada: true}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Err(err).Msg("Invalid JSON was passed")
			http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
			return
		}
	}

	evento, err := h.services.Agenda.CompletarEvento(r.Context(), chi.URLParam(r, "id"), req.Completada)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, evento, http.StatusOK)
}

func (h *Handler) deleteEvento(w http.ResponseWriter, r *http.Request) {
	if err := h.services.Agenda.EliminarEvento(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
