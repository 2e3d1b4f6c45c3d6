package store

import (
	"context"

	"github.com/BradenHooton/egaming/internal/database"
	"github.com/BradenHooton/egaming/internal/repositories"
	"github.com/BradenHooton/egaming/internal/services"
	"github.com/jackc/pgx/v5"
)

// Store binds the credential repositories to the pool or to a transaction
type Store struct {
	db *database.DB
}

func New(db *database.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Repos() services.Repos {
	return reposFor(s.db.Pool)
}

func (s *Store) WithinTx(ctx context.Context, fn func(services.Repos) error) error {
	return s.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		return fn(reposFor(tx))
	})
}

func reposFor(q database.Querier) services.Repos {
	return services.Repos{
		Users:         repositories.NewUserRepository(q),
		Codes:         repositories.NewVerificationCodeRepository(q),
		RefreshTokens: repositories.NewRefreshTokenRepository(q),
		AuthLogs:      repositories.NewAuthLogRepository(q),
	}
}
