package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/BradenHooton/egaming/internal/models"
	pkgauth "github.com/BradenHooton/egaming/pkg/auth"
	pkglogger "github.com/BradenHooton/egaming/pkg/logger"
)

const authLogLimit = 100

// UserService handles the admin side of user accounts
type UserService struct {
	store       Store
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
}

func NewUserService(store Store, logger *slog.Logger, auditLogger *pkglogger.AuditLogger) *UserService {
	return &UserService{
		store:       store,
		logger:      logger,
		auditLogger: auditLogger,
	}
}

// ListUsers returns every user, newest first, with its auth log count
func (s *UserService) ListUsers(ctx context.Context) ([]UserListItem, error) {
	users, err := s.store.Repos().Users.ListWithStats(ctx)
	if err != nil {
		s.logger.Error("failed to list users", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	items := make([]UserListItem, 0, len(users))
	for _, u := range users {
		items = append(items, UserListItem{
			ID:            u.ID,
			Email:         u.Email,
			Phone:         u.Phone,
			Name:          u.Name,
			Role:          u.Role,
			EmailVerified: u.EmailVerified,
			IsActive:      u.IsActive,
			CreatedAt:     u.CreatedAt,
			LastLoginAt:   u.LastLoginAt,
			AuthLogCount:  u.AuthLogCount,
		})
	}

	return items, nil
}

// UpdateRole changes targetID's role. An admin may not demote themselves.
func (s *UserService) UpdateRole(ctx context.Context, actorID, targetID string, role models.Role) (*UserSummary, error) {
	if !role.Valid() {
		return nil, models.NewError(models.ErrBadRequest, "Role must be USER or ADMIN")
	}
	if actorID == targetID && role != models.RoleAdmin {
		s.logger.Warn("admin attempted self-demotion", slog.String("user_id", actorID))
		return nil, models.NewError(models.ErrForbidden, "You cannot remove your own admin role")
	}

	user, err := s.store.Repos().Users.UpdateRole(ctx, targetID, role)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.NewError(models.ErrNotFound, "User not found")
		}
		s.logger.Error("failed to update role", slog.String("user_id", targetID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("user role updated",
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)),
		slog.String("actor_id", actorID))
	s.auditLogger.LogAccountAction(pkglogger.EventRoleChange, actorID, user.ID, map[string]string{
		"role": string(user.Role),
	})

	summary := newUserSummary(user)
	return &summary, nil
}

// ListAuthLogs returns the latest sign-up/sign-in events, for one user when
// userID is set
func (s *UserService) ListAuthLogs(ctx context.Context, userID string) ([]AuthLogResponse, error) {
	entries, err := s.store.Repos().AuthLogs.List(ctx, userID, authLogLimit)
	if err != nil {
		s.logger.Error("failed to list auth logs", slog.String("user_id", userID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	logs := make([]AuthLogResponse, 0, len(entries))
	for _, e := range entries {
		logs = append(logs, AuthLogResponse{
			ID:        e.ID,
			UserID:    e.UserID,
			Action:    e.Action,
			IPAddress: e.IPAddress,
			UserAgent: e.UserAgent,
			CreatedAt: e.CreatedAt,
			User: AuthLogUser{
				ID:    e.UserID,
				Email: e.UserEmail,
				Phone: e.UserPhone,
				Name:  e.UserName,
			},
		})
	}

	return logs, nil
}

// EnsureAdmin creates a verified admin account for email when none exists.
// An existing account is marked verified and left otherwise untouched.
// It reports whether an account was created.
func (s *UserService) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	email = normalizeEmail(email)
	users := s.store.Repos().Users

	existing, err := users.GetByEmail(ctx, email)
	if err == nil {
		if !existing.EmailVerified {
			if err := users.MarkEmailVerified(ctx, existing.ID); err != nil {
				return false, err
			}
		}
		return false, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return false, err
	}

	if err := pkgauth.ValidatePassword(password); err != nil {
		return false, err
	}
	hash, err := pkgauth.HashPassword(password)
	if err != nil {
		return false, err
	}

	name := "Admin"
	admin, err := users.Create(ctx, &models.User{
		Email:         email,
		PasswordHash:  hash,
		Name:          &name,
		Role:          models.RoleAdmin,
		EmailVerified: true,
		IsActive:      true,
	})
	if err != nil {
		return false, err
	}

	s.logger.Info("admin user created", slog.String("user_id", admin.ID))
	return true, nil
}
