package repositories

import (
	"context"
	"fmt"

	"github.com/BradenHooton/egaming/internal/database"
	"github.com/BradenHooton/egaming/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AuthLogRepository is the append-only sign-up/sign-in log
type AuthLogRepository struct {
	q database.Querier
}

func NewAuthLogRepository(q database.Querier) *AuthLogRepository {
	return &AuthLogRepository{q: q}
}

func (r *AuthLogRepository) Create(ctx context.Context, log *models.AuthLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}

	query := `
		INSERT INTO auth_logs (id, user_id, action, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := r.q.QueryRow(ctx, query, log.ID, log.UserID, string(log.Action), log.IPAddress, log.UserAgent).
		Scan(&log.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create auth log: %w", database.MapPostgresError(err))
	}

	return nil
}

// List returns the newest logs first with their user summary. An empty
// userID lists logs for all users.
func (r *AuthLogRepository) List(ctx context.Context, userID string, limit int) ([]*models.AuthLogEntry, error) {
	query := `
		SELECT l.id, l.user_id, l.action, l.ip_address, l.user_agent, l.created_at,
		       u.email, u.name, u.phone
		FROM auth_logs l
		JOIN users u ON u.id = l.user_id
		WHERE ($1 = '' OR l.user_id::text = $1)
		ORDER BY l.created_at DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query auth logs: %w", err)
	}

	return scanAuthLogRows(rows)
}

func scanAuthLogRows(rows pgx.Rows) ([]*models.AuthLogEntry, error) {
	defer rows.Close()

	entries := make([]*models.AuthLogEntry, 0)

	for rows.Next() {
		var e models.AuthLogEntry
		var action string
		err := rows.Scan(
			&e.ID, &e.UserID, &action, &e.IPAddress, &e.UserAgent, &e.CreatedAt,
			&e.UserEmail, &e.UserName, &e.UserPhone,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan auth log: %w", err)
		}
		e.Action = models.AuthAction(action)
		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating auth log rows: %w", err)
	}

	return entries, nil
}
