package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aromero/farmagestor/internal/logger"
	"github.com/aromero/farmagestor/internal/utils"
	"github.com/aromero/farmagestor/models"
)

func (h *Handler) listProductos(w http.ResponseWriter, r *http.Request) {
	productos, err := h.repos.Productos.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, productos, http.StatusOK)
}

func (h *Handler) getProducto(w http.ResponseWriter, r *http.Request) {
	producto, err := h.repos.Productos.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, producto, http.StatusOK)
}

func (h *Handler) addProducto(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var producto models.Producto
	if err := json.NewDecoder(r.Body).Decode(&producto); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if producto.ID == "" {
		producto.ID = h.ids.Generate("producto")
	}

	if err := h.repos.Productos.Add(r.Context(), producto); err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, producto, http.StatusCreated)
}

// replaceProductos swaps the whole catalog in one call, the import path for
// distributor price lists.
func (h *Handler) replaceProductos(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var productos []models.Producto
	if err := json.NewDecoder(r.Body).Decode(&productos); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if err := h.repos.Productos.ReplaceAll(r.Context(), productos); err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, map[string]int{"imported": len(productos)}, http.StatusOK)
}

func (h *Handler) updateProducto(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var partial models.Producto
	if err := json.NewDecoder(r.Body).Decode(&partial); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	producto, err := h.repos.Productos.Update(r.Context(), chi.URLParam(r, "id"), partial)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, producto, http.StatusOK)
}

func (h *Handler) deleteProducto(w http.ResponseWriter, r *http.Request) {
	if err := h.repos.Productos.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
