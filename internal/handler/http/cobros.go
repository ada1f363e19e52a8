package http

import (
	"encoding/json"
	"net/http"

	"github.com/aromero/farmagestor/internal/logger"
	"github.com/aromero/farmagestor/internal/utils"
	"github.com/aromero/farmagestor/models"
)

func (h *Handler) listCobros(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if cliente := r.URL.Query().Get("cliente"); cliente != "" {
		cobros, err := h.repos.Cobros.ListByCliente(ctx, cliente)
		if err != nil {
			writeError(w, r, err)
			return
		}
		utils.WriteJSON(w, cobros, http.StatusOK)
		return
	}

	cobros, err := h.repos.Cobros.List(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, cobros, http.StatusOK)
}

func (h *Handler) addCobro(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var cobro models.Cobro
	if err := json.NewDecoder(r.Body).Decode(&cobro); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	created, err := h.services.Cobros.RegistrarCobro(r.Context(), cobro)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, created, http.StatusCreated)
}
