package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/BradenHooton/egaming/internal/database"
	"github.com/BradenHooton/egaming/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, email, password_hash, name, phone, role, email_verified, is_active,
	failed_login_attempts, locked_until, last_login_at, created_at, updated_at`

type UserRepository struct {
	q database.Querier
}

func NewUserRepository(q database.Querier) *UserRepository {
	return &UserRepository{q: q}
}

// rowScanner is satisfied by pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUserRow(scanner rowScanner) (*models.User, error) {
	var user models.User
	var role string

	err := scanner.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Name, &user.Phone,
		&role, &user.EmailVerified, &user.IsActive,
		&user.FailedLoginAttempts, &user.LockedUntil, &user.LastLoginAt,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	user.Role = models.Role(role)

	return &user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	return scanUserRow(r.q.QueryRow(ctx, query, id))
}

// GetByEmail expects an already normalized (lowercase) address
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	return scanUserRow(r.q.QueryRow(ctx, query, email))
}

// Create inserts a user; a duplicate email maps to models.ErrConflict
func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}

	now := time.Now().UTC()
	query := `
		INSERT INTO users (id, email, password_hash, name, phone, role, email_verified, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		RETURNING ` + userColumns

	return scanUserRow(r.q.QueryRow(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.Name, user.Phone,
		string(user.Role), user.EmailVerified, user.IsActive, now,
	))
}

// RecordFailedLogin atomically increments the failure counter and arms the
// lock once the counter reaches limit. The lock is cleared while below limit.
func (r *UserRepository) RecordFailedLogin(ctx context.Context, id string, limit int, lockUntil time.Time) (int, *time.Time, error) {
	query := `
		UPDATE users
		SET failed_login_attempts = failed_login_attempts + 1,
		    locked_until = CASE WHEN failed_login_attempts + 1 >= $2 THEN $3::timestamptz ELSE NULL END,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING failed_login_attempts, locked_until
	`

	var attempts int
	var lockedUntil *time.Time
	if err := r.q.QueryRow(ctx, query, id, limit, lockUntil).Scan(&attempts, &lockedUntil); err != nil {
		return 0, nil, database.MapPostgresError(err)
	}

	return attempts, lockedUntil, nil
}

// RecordLogin stamps last_login_at and clears the failure counter and lock
func (r *UserRepository) RecordLogin(ctx context.Context, id string, at time.Time) error {
	query := `
		UPDATE users
		SET last_login_at = $2, failed_login_attempts = 0, locked_until = NULL, updated_at = NOW()
		WHERE id = $1
	`

	return r.execOne(ctx, query, id, at)
}

func (r *UserRepository) MarkEmailVerified(ctx context.Context, id string) error {
	query := `UPDATE users SET email_verified = TRUE, updated_at = NOW() WHERE id = $1`

	return r.execOne(ctx, query, id)
}

// UpdatePassword replaces the hash and clears the failure counter and lock
func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	query := `
		UPDATE users
		SET password_hash = $2, failed_login_attempts = 0, locked_until = NULL, updated_at = NOW()
		WHERE id = $1
	`

	return r.execOne(ctx, query, id, passwordHash)
}

func (r *UserRepository) UpdateRole(ctx context.Context, id string, role models.Role) (*models.User, error) {
	query := `UPDATE users SET role = $2, updated_at = NOW() WHERE id = $1 RETURNING ` + userColumns

	return scanUserRow(r.q.QueryRow(ctx, query, id, string(role)))
}

// ListWithStats returns every user, newest first, with its auth log count
func (r *UserRepository) ListWithStats(ctx context.Context) ([]*models.UserWithStats, error) {
	query := `
		SELECT u.id, u.email, u.password_hash, u.name, u.phone, u.role, u.email_verified, u.is_active,
		       u.failed_login_attempts, u.locked_until, u.last_login_at, u.created_at, u.updated_at,
		       (SELECT COUNT(*) FROM auth_logs l WHERE l.user_id = u.id) AS auth_log_count
		FROM users u
		ORDER BY u.created_at DESC
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}

	return scanUserStatsRows(rows)
}

func scanUserStatsRows(rows pgx.Rows) ([]*models.UserWithStats, error) {
	defer rows.Close()

	users := make([]*models.UserWithStats, 0)

	for rows.Next() {
		var u models.UserWithStats
		var role string
		err := rows.Scan(
			&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Phone,
			&role, &u.EmailVerified, &u.IsActive,
			&u.FailedLoginAttempts, &u.LockedUntil, &u.LastLoginAt,
			&u.CreatedAt, &u.UpdatedAt, &u.AuthLogCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		u.Role = models.Role(role)
		users = append(users, &u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return users, nil
}

func (r *UserRepository) execOne(ctx context.Context, query string, args ...any) error {
	result, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
