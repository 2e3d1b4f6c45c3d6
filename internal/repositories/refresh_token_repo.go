package repositories

import (
	"context"
	"time"

	"github.com/BradenHooton/egaming/internal/database"
	"github.com/BradenHooton/egaming/internal/models"
	"github.com/google/uuid"
)

const refreshTokenColumns = `id, user_id, token_hash, expires_at, revoked_at, created_at`

type RefreshTokenRepository struct {
	q database.Querier
}

func NewRefreshTokenRepository(q database.Querier) *RefreshTokenRepository {
	return &RefreshTokenRepository{q: q}
}

func scanRefreshTokenRow(row rowScanner) (*models.RefreshToken, error) {
	var t models.RefreshToken

	if err := row.Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &t.RevokedAt, &t.CreatedAt); err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &t, nil
}

func (r *RefreshTokenRepository) Create(ctx context.Context, token *models.RefreshToken) (*models.RefreshToken, error) {
	if token.ID == "" {
		token.ID = uuid.New().String()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + refreshTokenColumns

	return scanRefreshTokenRow(r.q.QueryRow(ctx, query,
		token.ID, token.UserID, token.TokenHash, token.ExpiresAt, token.CreatedAt,
	))
}

// Revoke atomically revokes the live token with the given digest and returns it.
// A revoked, expired or unknown digest yields ErrNotFound, so a secret can be
// redeemed once even under concurrent replays.
func (r *RefreshTokenRepository) Revoke(ctx context.Context, tokenHash string, now time.Time) (*models.RefreshToken, error) {
	query := `
		UPDATE refresh_tokens
		SET revoked_at = $2
		WHERE token_hash = $1 AND revoked_at IS NULL AND expires_at > $2
		RETURNING ` + refreshTokenColumns

	return scanRefreshTokenRow(r.q.QueryRow(ctx, query, tokenHash, now))
}
