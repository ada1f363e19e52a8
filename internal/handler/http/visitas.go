package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/aromero/farmagestor/internal/logger"
	"github.com/aromero/farmagestor/internal/utils"
	"github.com/aromero/farmagestor/models"
)

// listVisitas returns the whole log, or a single calendar day when the
// "dia" query parameter (YYYY-MM-DD) is present.
func (h *Handler) listVisitas(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if dia := r.URL.Query().Get("dia"); dia != "" {
		day, err := time.ParseInLocation("2006-01-02", dia, time.Local)
		if err != nil {
			http.Error(w, "invalid dia, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		visitas, err := h.repos.Visitas.ListDia(ctx, day)
		if err != nil {
			writeError(w, r, err)
			return
		}
		utils.WriteJSON(w, visitas, http.StatusOK)
		return
	}

	visitas, err := h.repos.Visitas.List(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, visitas, http.StatusOK)
}

func (h *Handler) addVisita(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var visita models.Visita
	if err := json.NewDecoder(r.Body).Decode(&visita); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if visita.ID == "" {
		visita.ID = h.ids.Generate("visita")
	}
	if visita.Fecha.IsZero() {
		visita.Fecha = h.clock.Now()
	}

	if err := h.repos.Visitas.Add(r.Context(), visita); err != nil {
		writeError(w, r, err)
		return
	}

	// visit reminders are best effort, the visit itself is already stored
	if err := h.services.Scheduler.ScheduleVisita(r.Context(), visita); err != nil {
		log.Warn().Err(err).Str("visita_id", visita.ID).Msg("could not schedule visit reminder")
	}

	utils.WriteJSON(w, visita, http.StatusCreated)
}

func (h *Handler) updateVisita(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var partial models.Visita
	if err := json.NewDecoder(r.Body).Decode(&partial); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	visita, err := h.repos.Visitas.Update(r.Context(), chi.URLParam(r, "id"), partial)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, visita, http.StatusOK)
}

func (h *Handler) deleteVisita(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.repos.Visitas.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.services.Scheduler.Cancel(r.Context(), "visita-"+id); err != nil {
		logger.FromRequest(r).Err(err).Str("visita_id", id).Msg("failed to cancel visit reminder")
	}

	w.WriteHeader(http.StatusNoContent)
}
