package http

import (
	"errors"
	"net/http"

	"github.com/aromero/farmagestor/internal/logger"
	"github.com/aromero/farmagestor/internal/service"
	"github.com/aromero/farmagestor/internal/store"
)

// writeError maps service and store errors to HTTP status codes and writes
// the response. Unexpected errors are logged and masked as 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromRequest(r)

	switch {
	case errors.Is(err, service.ErrValidation):
		log.Err(err).Msg("invalid data provided")
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrUserInactive),
		errors.Is(err, service.ErrNoSession):
		log.Err(err).Msg("authentication failed")
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, service.ErrPermissionDenied):
		log.Err(err).Msg("notification permission denied")
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, store.ErrRecordNotFound):
		log.Err(err).Msg("record not found")
		http.Error(w, "record not found", http.StatusNotFound)
	case errors.Is(err, store.ErrKeyConflict):
		log.Err(err).Msg("key already exists")
		http.Error(w, "record already exists", http.StatusConflict)
	default:
		log.Err(err).Msg("unexpected error")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
