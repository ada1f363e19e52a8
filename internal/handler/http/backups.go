package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aromero/farmagestor/internal/utils"
)

func (h *Handler) listBackups(w http.ResponseWriter, r *http.Request) {
	backups, err := h.services.Backup.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, backups, http.StatusOK)
}

func (h *Handler) createBackup(w http.ResponseWriter, r *http.Request) {
	backup, err := h.services.Backup.CrearBackup(r.Context(), false)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, backup, http.StatusCreated)
}

func (h *Handler) deleteBackup(w http.ResponseWriter, r *http.Request) {
	if err := h.services.Backup.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
