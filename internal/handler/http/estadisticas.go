package http

import (
	"net/http"

	"github.com/aromero/farmagestor/internal/service"
	"github.com/aromero/farmagestor/internal/utils"
)

func (h *Handler) estadisticas(w http.ResponseWriter, r *http.Request) {
	periodo := r.URL.Query().Get("periodo")
	if periodo == "" {
		periodo = service.PeriodoMes
	}

	stats, err := h.services.Estadisticas.GetEstadisticas(r.Context(), periodo)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, stats, http.StatusOK)
}
