package handlers

import (
	"context"
	"net/http"

	"github.com/BradenHooton/egaming/internal/auth"
	"github.com/BradenHooton/egaming/internal/models"
	"github.com/BradenHooton/egaming/internal/services"
	pkghttp "github.com/BradenHooton/egaming/pkg/http"
	"github.com/go-chi/chi/v5"
)

// UserService defines the interface for user administration
type UserService interface {
	ListUsers(ctx context.Context) ([]services.UserListItem, error)
	UpdateRole(ctx context.Context, actorID, targetID string, role models.Role) (*services.UserSummary, error)
	ListAuthLogs(ctx context.Context, userID string) ([]services.AuthLogResponse, error)
}

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	service UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(service UserService) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

// UpdateRoleRequest represents the request body for a role change
type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=USER ADMIN"`
}

// ListUsers returns every account with its auth log count
// @Security BearerAuth
// @Router /users [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, users)
}

// UpdateRole changes the role of the user in the path
// @Security BearerAuth
// @Router /users/{id}/role [patch]
func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	if identity == nil {
		pkghttp.WriteUnauthorized(w, "Unauthorized")
		return
	}

	var req UpdateRoleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.service.UpdateRole(r.Context(), identity.UserID, chi.URLParam(r, "id"), models.Role(req.Role))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, user)
}

// ListAuthLogs returns the latest auth logs of all users
// @Security BearerAuth
// @Router /users/auth-logs [get]
func (h *UserHandler) ListAuthLogs(w http.ResponseWriter, r *http.Request) {
	h.writeAuthLogs(w, r, "")
}

// ListUserAuthLogs returns the latest auth logs of the user in the path
// @Security BearerAuth
// @Router /users/{id}/auth-logs [get]
func (h *UserHandler) ListUserAuthLogs(w http.ResponseWriter, r *http.Request) {
	h.writeAuthLogs(w, r, chi.URLParam(r, "id"))
}

func (h *UserHandler) writeAuthLogs(w http.ResponseWriter, r *http.Request, userID string) {
	logs, err := h.service.ListAuthLogs(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, logs)
}
