package http

import (
	"encoding/json"
	"net/http"

	"github.com/aromero/farmagestor/internal/logger"
	"github.com/aromero/farmagestor/internal/utils"
	"github.com/aromero/farmagestor/models"
)

func (h *Handler) listHistorial(w http.ResponseWriter, r *http.Request) {
	documentos, err := h.repos.Historial.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, documentos, http.StatusOK)
}

func (h *Handler) addDocumento(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var documento models.Documento
	if err := json.NewDecoder(r.Body).Decode(&documento); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	created, err := h.services.Ventas.CrearDocumento(r.Context(), documento)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, created, http.StatusCreated)
}

func (h *Handler) saldosPendientes(w http.ResponseWriter, r *http.Request) {
	saldos, err := h.services.Ventas.GetSaldosPendientes(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, saldos, http.StatusOK)
}
