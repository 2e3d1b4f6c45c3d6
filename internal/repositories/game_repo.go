package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/BradenHooton/egaming/internal/database"
	"github.com/BradenHooton/egaming/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const gameColumns = `id, title, description, thumbnail_url, video_url, game_link, sort_order, is_active, created_at, updated_at`

type GameRepository struct {
	q database.Querier
}

func NewGameRepository(q database.Querier) *GameRepository {
	return &GameRepository{q: q}
}

func scanGameRow(row rowScanner) (*models.Game, error) {
	var g models.Game

	err := row.Scan(
		&g.ID, &g.Title, &g.Description, &g.ThumbnailURL, &g.VideoURL,
		&g.GameLink, &g.SortOrder, &g.IsActive, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &g, nil
}

func scanGameRows(rows pgx.Rows) ([]*models.Game, error) {
	defer rows.Close()

	games := make([]*models.Game, 0)

	for rows.Next() {
		g, err := scanGameRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating game rows: %w", err)
	}

	return games, nil
}

// List returns games by ascending sort order, optionally only active ones
func (r *GameRepository) List(ctx context.Context, activeOnly bool) ([]*models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE ($1 = FALSE OR is_active = TRUE)
		ORDER BY sort_order ASC, created_at ASC
	`

	rows, err := r.q.Query(ctx, query, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to query games: %w", err)
	}

	return scanGameRows(rows)
}

func (r *GameRepository) GetByID(ctx context.Context, id string) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = $1`

	return scanGameRow(r.q.QueryRow(ctx, query, id))
}

func (r *GameRepository) Create(ctx context.Context, game *models.Game) (*models.Game, error) {
	if game.ID == "" {
		game.ID = uuid.New().String()
	}

	query := `
		INSERT INTO games (id, title, description, thumbnail_url, video_url, game_link, sort_order, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + gameColumns

	return scanGameRow(r.q.QueryRow(ctx, query,
		game.ID, game.Title, game.Description, game.ThumbnailURL, game.VideoURL,
		game.GameLink, game.SortOrder, game.IsActive,
	))
}

// Update applies the non-nil fields of upd; an empty update returns the game unchanged
func (r *GameRepository) Update(ctx context.Context, id string, upd models.GameUpdate) (*models.Game, error) {
	sets := make([]string, 0, 8)
	args := []any{id}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.Title != nil {
		add("title", *upd.Title)
	}
	if upd.Description != nil {
		add("description", *upd.Description)
	}
	if upd.ThumbnailURL != nil {
		add("thumbnail_url", *upd.ThumbnailURL)
	}
	if upd.VideoURL != nil {
		add("video_url", *upd.VideoURL)
	}
	if upd.GameLink != nil {
		add("game_link", *upd.GameLink)
	}
	if upd.SortOrder != nil {
		add("sort_order", *upd.SortOrder)
	}
	if upd.IsActive != nil {
		add("is_active", *upd.IsActive)
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}
	sets = append(sets, "updated_at = NOW()")

	query := `UPDATE games SET ` + strings.Join(sets, ", ") + ` WHERE id = $1 RETURNING ` + gameColumns

	return scanGameRow(r.q.QueryRow(ctx, query, args...))
}

// Delete removes a game and returns the deleted row
func (r *GameRepository) Delete(ctx context.Context, id string) (*models.Game, error) {
	query := `DELETE FROM games WHERE id = $1 RETURNING ` + gameColumns

	return scanGameRow(r.q.QueryRow(ctx, query, id))
}

func (r *GameRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM games`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count games: %w", err)
	}
	return n, nil
}
