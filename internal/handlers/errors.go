package handlers

import (
	"errors"
	"net/http"

	"github.com/BradenHooton/egaming/internal/models"
	pkghttp "github.com/BradenHooton/egaming/pkg/http"
)

// writeServiceError maps a service error to its HTTP response. Only messages
// carried by *models.Error reach the client.
func writeServiceError(w http.ResponseWriter, err error) {
	var e *models.Error
	if !errors.As(err, &e) {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	switch {
	case errors.Is(err, models.ErrBadRequest):
		pkghttp.WriteBadRequest(w, e.Message)
	case errors.Is(err, models.ErrAccountLocked) && e.LockedUntil != nil:
		pkghttp.WriteAccountLocked(w, e.Message, *e.LockedUntil)
	case errors.Is(err, models.ErrUnauthorized),
		errors.Is(err, models.ErrAccountDisabled),
		errors.Is(err, models.ErrAccountLocked):
		pkghttp.WriteUnauthorized(w, e.Message)
	case errors.Is(err, models.ErrForbidden):
		pkghttp.WriteForbidden(w, e.Message)
	case errors.Is(err, models.ErrNotFound):
		pkghttp.WriteNotFound(w, e.Message)
	case errors.Is(err, models.ErrConflict):
		pkghttp.WriteConflict(w, e.Message)
	default:
		pkghttp.WriteInternalError(w, "Internal server error")
	}
}
