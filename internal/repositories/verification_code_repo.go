package repositories

import (
	"context"
	"time"

	"github.com/BradenHooton/egaming/internal/database"
	"github.com/BradenHooton/egaming/internal/models"
	"github.com/google/uuid"
)

const codeColumns = `id, email, code, type, user_id, expires_at, used_at, created_at`

// VerificationCodeRepository stores one-time codes. Codes are marked used, never deleted.
type VerificationCodeRepository struct {
	q database.Querier
}

func NewVerificationCodeRepository(q database.Querier) *VerificationCodeRepository {
	return &VerificationCodeRepository{q: q}
}

func scanCodeRow(row rowScanner) (*models.VerificationCode, error) {
	var c models.VerificationCode
	var codeType string

	err := row.Scan(&c.ID, &c.Email, &c.Code, &codeType, &c.UserID, &c.ExpiresAt, &c.UsedAt, &c.CreatedAt)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	c.Type = models.CodeType(codeType)

	return &c, nil
}

func (r *VerificationCodeRepository) Create(ctx context.Context, code *models.VerificationCode) (*models.VerificationCode, error) {
	if code.ID == "" {
		code.ID = uuid.New().String()
	}
	if code.CreatedAt.IsZero() {
		code.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO verification_codes (id, email, code, type, user_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + codeColumns

	return scanCodeRow(r.q.QueryRow(ctx, query,
		code.ID, code.Email, code.Code, string(code.Type), code.UserID, code.ExpiresAt, code.CreatedAt,
	))
}

// FindLatestUnused returns the most recently created unused code matching
// (email, code, type) exactly, expired or not
func (r *VerificationCodeRepository) FindLatestUnused(ctx context.Context, email, code string, codeType models.CodeType) (*models.VerificationCode, error) {
	query := `
		SELECT ` + codeColumns + `
		FROM verification_codes
		WHERE email = $1 AND code = $2 AND type = $3 AND used_at IS NULL
		ORDER BY created_at DESC
		LIMIT 1
	`

	return scanCodeRow(r.q.QueryRow(ctx, query, email, code, string(codeType)))
}

// MarkUsed consumes a code. It only succeeds while used_at is still null, so
// of two concurrent redemptions exactly one sees a row; the other gets ErrNotFound.
func (r *VerificationCodeRepository) MarkUsed(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE verification_codes SET used_at = $2 WHERE id = $1 AND used_at IS NULL`

	result, err := r.q.Exec(ctx, query, id, at)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
