package handlers

import (
	"context"
	"net/http"

	"github.com/BradenHooton/egaming/internal/models"
	"github.com/BradenHooton/egaming/internal/services"
	pkghttp "github.com/BradenHooton/egaming/pkg/http"
	"github.com/go-chi/chi/v5"
)

// GameService defines the interface for the game catalog
type GameService interface {
	ListActive(ctx context.Context) ([]services.PublicGame, error)
	ListAll(ctx context.Context) ([]*services.GameResponse, error)
	Get(ctx context.Context, id string) (*services.GameResponse, error)
	Create(ctx context.Context, in services.CreateGameInput) (*services.GameResponse, error)
	Update(ctx context.Context, id string, upd models.GameUpdate) (*services.GameResponse, error)
	Delete(ctx context.Context, id string) (*services.GameResponse, error)
}

// GameHandler handles catalog HTTP requests
type GameHandler struct {
	service GameService
}

func NewGameHandler(service GameService) *GameHandler {
	return &GameHandler{service: service}
}

// CreateGameRequest represents the request body for adding a game
type CreateGameRequest struct {
	Title        string  `json:"title" validate:"required,min=1,max=200"`
	Description  *string `json:"description,omitempty"`
	ThumbnailURL *string `json:"thumbnailUrl,omitempty" validate:"omitempty,url"`
	VideoURL     *string `json:"videoUrl,omitempty" validate:"omitempty,url"`
	GameLink     string  `json:"gameLink" validate:"required,url"`
	SortOrder    *int    `json:"sortOrder,omitempty" validate:"omitempty,min=0"`
	IsActive     *bool   `json:"isActive,omitempty"`
}

// UpdateGameRequest carries any subset of the game fields
type UpdateGameRequest struct {
	Title        *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description  *string `json:"description,omitempty"`
	ThumbnailURL *string `json:"thumbnailUrl,omitempty" validate:"omitempty,url"`
	VideoURL     *string `json:"videoUrl,omitempty" validate:"omitempty,url"`
	GameLink     *string `json:"gameLink,omitempty" validate:"omitempty,url"`
	SortOrder    *int    `json:"sortOrder,omitempty" validate:"omitempty,min=0"`
	IsActive     *bool   `json:"isActive,omitempty"`
}

// ListActive returns the public catalog
// @Router /games [get]
func (h *GameHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	games, err := h.service.ListActive(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, games)
}

// ListAll returns every game including inactive ones
// @Security BearerAuth
// @Router /games/admin [get]
func (h *GameHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	games, err := h.service.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, games)
}

// @Security BearerAuth
// @Router /games/{id} [get]
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	game, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, game)
}

// @Security BearerAuth
// @Router /games [post]
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateGameRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	game, err := h.service.Create(r.Context(), services.CreateGameInput{
		Title:        req.Title,
		Description:  req.Description,
		ThumbnailURL: req.ThumbnailURL,
		VideoURL:     req.VideoURL,
		GameLink:     req.GameLink,
		SortOrder:    req.SortOrder,
		IsActive:     req.IsActive,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusCreated, game)
}

// @Security BearerAuth
// @Router /games/{id} [patch]
func (h *GameHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateGameRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	game, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), models.GameUpdate{
		Title:        req.Title,
		Description:  req.Description,
		ThumbnailURL: req.ThumbnailURL,
		VideoURL:     req.VideoURL,
		GameLink:     req.GameLink,
		SortOrder:    req.SortOrder,
		IsActive:     req.IsActive,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, game)
}

// @Security BearerAuth
// @Router /games/{id} [delete]
func (h *GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	game, err := h.service.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, game)
}
