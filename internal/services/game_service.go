package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/BradenHooton/egaming/internal/models"
)

const msgGameNotFound = "Game not found"

type CreateGameInput struct {
	Title        string
	Description  *string
	ThumbnailURL *string
	VideoURL     *string
	GameLink     string
	SortOrder    *int
	IsActive     *bool
}

// GameService manages the game catalog
type GameService struct {
	repo   GameRepository
	logger *slog.Logger
}

func NewGameService(repo GameRepository, logger *slog.Logger) *GameService {
	return &GameService{repo: repo, logger: logger}
}

// ListActive returns the public catalog by ascending sort order
func (s *GameService) ListActive(ctx context.Context) ([]PublicGame, error) {
	games, err := s.repo.List(ctx, true)
	if err != nil {
		s.logger.Error("failed to list active games", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	out := make([]PublicGame, 0, len(games))
	for _, g := range games {
		out = append(out, PublicGame{
			ID:           g.ID,
			Title:        g.Title,
			Description:  g.Description,
			ThumbnailURL: g.ThumbnailURL,
			VideoURL:     g.VideoURL,
			GameLink:     g.GameLink,
			SortOrder:    g.SortOrder,
		})
	}
	return out, nil
}

// ListAll returns every game including inactive ones
func (s *GameService) ListAll(ctx context.Context) ([]*GameResponse, error) {
	games, err := s.repo.List(ctx, false)
	if err != nil {
		s.logger.Error("failed to list games", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	out := make([]*GameResponse, 0, len(games))
	for _, g := range games {
		out = append(out, newGameResponse(g))
	}
	return out, nil
}

func (s *GameService) Get(ctx context.Context, id string) (*GameResponse, error) {
	game, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapError("failed to get game", id, err)
	}
	return newGameResponse(game), nil
}

func (s *GameService) Create(ctx context.Context, in CreateGameInput) (*GameResponse, error) {
	game := &models.Game{
		Title:        in.Title,
		Description:  in.Description,
		ThumbnailURL: in.ThumbnailURL,
		VideoURL:     in.VideoURL,
		GameLink:     in.GameLink,
		IsActive:     true,
	}
	if in.SortOrder != nil {
		game.SortOrder = *in.SortOrder
	}
	if in.IsActive != nil {
		game.IsActive = *in.IsActive
	}
	if game.SortOrder < 0 {
		return nil, models.NewError(models.ErrBadRequest, "sortOrder must be at least 0")
	}

	created, err := s.repo.Create(ctx, game)
	if err != nil {
		s.logger.Error("failed to create game", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("game created", slog.String("game_id", created.ID))
	return newGameResponse(created), nil
}

func (s *GameService) Update(ctx context.Context, id string, upd models.GameUpdate) (*GameResponse, error) {
	if upd.SortOrder != nil && *upd.SortOrder < 0 {
		return nil, models.NewError(models.ErrBadRequest, "sortOrder must be at least 0")
	}

	game, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		return nil, s.mapError("failed to update game", id, err)
	}

	s.logger.Info("game updated", slog.String("game_id", game.ID))
	return newGameResponse(game), nil
}

func (s *GameService) Delete(ctx context.Context, id string) (*GameResponse, error) {
	game, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, s.mapError("failed to delete game", id, err)
	}

	s.logger.Info("game deleted", slog.String("game_id", game.ID))
	return newGameResponse(game), nil
}

func (s *GameService) mapError(msg, id string, err error) error {
	if errors.Is(err, models.ErrNotFound) {
		return models.NewError(models.ErrNotFound, msgGameNotFound)
	}
	s.logger.Error(msg, slog.String("game_id", id), slog.Any("error", err))
	return models.ErrInternalServer
}

// SeedCatalog inserts games only when the catalog is empty and returns how many were added
func (s *GameService) SeedCatalog(ctx context.Context, games []CreateGameInput) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	for _, in := range games {
		if _, err := s.Create(ctx, in); err != nil {
			return 0, err
		}
	}
	return len(games), nil
}
