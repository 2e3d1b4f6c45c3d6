package services

import (
	"context"
	"time"

	"github.com/BradenHooton/egaming/internal/models"
)

// UserRepository defines the user data access the services need
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	RecordFailedLogin(ctx context.Context, id string, limit int, lockUntil time.Time) (int, *time.Time, error)
	RecordLogin(ctx context.Context, id string, at time.Time) error
	MarkEmailVerified(ctx context.Context, id string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateRole(ctx context.Context, id string, role models.Role) (*models.User, error)
	ListWithStats(ctx context.Context) ([]*models.UserWithStats, error)
}

type VerificationCodeRepository interface {
	Create(ctx context.Context, code *models.VerificationCode) (*models.VerificationCode, error)
	FindLatestUnused(ctx context.Context, email, code string, codeType models.CodeType) (*models.VerificationCode, error)
	MarkUsed(ctx context.Context, id string, at time.Time) error
}

type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) (*models.RefreshToken, error)
	Revoke(ctx context.Context, tokenHash string, now time.Time) (*models.RefreshToken, error)
}

type AuthLogRepository interface {
	Create(ctx context.Context, log *models.AuthLog) error
	List(ctx context.Context, userID string, limit int) ([]*models.AuthLogEntry, error)
}

type GameRepository interface {
	List(ctx context.Context, activeOnly bool) ([]*models.Game, error)
	GetByID(ctx context.Context, id string) (*models.Game, error)
	Create(ctx context.Context, game *models.Game) (*models.Game, error)
	Update(ctx context.Context, id string, upd models.GameUpdate) (*models.Game, error)
	Delete(ctx context.Context, id string) (*models.Game, error)
	Count(ctx context.Context) (int64, error)
}

// Repos is the set of credential repositories bound to one connection or transaction
type Repos struct {
	Users         UserRepository
	Codes         VerificationCodeRepository
	RefreshTokens RefreshTokenRepository
	AuthLogs      AuthLogRepository
}

// Store hands out repositories and runs units of work.
// WithinTx commits when fn returns nil and rolls back otherwise.
type Store interface {
	Repos() Repos
	WithinTx(ctx context.Context, fn func(Repos) error) error
}
