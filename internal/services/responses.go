package services

import (
	"time"

	"github.com/BradenHooton/egaming/internal/models"
)

// UserSummary is the public view of a user embedded in token responses
type UserSummary struct {
	ID    string      `json:"id"`
	Email string      `json:"email"`
	Name  *string     `json:"name"`
	Phone *string     `json:"phone"`
	Role  models.Role `json:"role"`
}

func newUserSummary(u *models.User) UserSummary {
	return UserSummary{ID: u.ID, Email: u.Email, Name: u.Name, Phone: u.Phone, Role: u.Role}
}

// AuthResponse is returned whenever a token pair is issued
type AuthResponse struct {
	User         UserSummary `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	ExpiresIn    int         `json:"expiresIn"`
}

type RegisteredUser struct {
	ID            string      `json:"id"`
	Email         string      `json:"email"`
	Name          *string     `json:"name"`
	Phone         *string     `json:"phone"`
	Role          models.Role `json:"role"`
	EmailVerified bool        `json:"emailVerified"`
	CreatedAt     time.Time   `json:"createdAt"`
}

type RegisterResponse struct {
	User                 RegisteredUser `json:"user"`
	RequiresVerification bool           `json:"requiresVerification"`
	Message              string         `json:"message"`
}

// VerificationRequired is the login answer for an account whose email is not verified yet
type VerificationRequired struct {
	RequiresVerification bool   `json:"requiresVerification"`
	Email                string `json:"email"`
	Message              string `json:"message"`
}

// LoginResult holds exactly one of Tokens or Verification
type LoginResult struct {
	Tokens       *AuthResponse
	Verification *VerificationRequired
}

type MessageResponse struct {
	Message string `json:"message"`
}

// Profile is the caller's own account as returned by /auth/me
type Profile struct {
	ID            string      `json:"id"`
	Email         string      `json:"email"`
	Name          *string     `json:"name"`
	Phone         *string     `json:"phone"`
	Role          models.Role `json:"role"`
	EmailVerified bool        `json:"emailVerified"`
	LastLoginAt   *time.Time  `json:"lastLoginAt"`
}

// UserListItem is a row of the admin user listing
type UserListItem struct {
	ID            string      `json:"id"`
	Email         string      `json:"email"`
	Phone         *string     `json:"phone"`
	Name          *string     `json:"name"`
	Role          models.Role `json:"role"`
	EmailVerified bool        `json:"emailVerified"`
	IsActive      bool        `json:"isActive"`
	CreatedAt     time.Time   `json:"createdAt"`
	LastLoginAt   *time.Time  `json:"lastLoginAt"`
	AuthLogCount  int64       `json:"authLogCount"`
}

type AuthLogUser struct {
	ID    string  `json:"id"`
	Email string  `json:"email"`
	Phone *string `json:"phone"`
	Name  *string `json:"name"`
}

type AuthLogResponse struct {
	ID        string            `json:"id"`
	UserID    string            `json:"userId"`
	Action    models.AuthAction `json:"action"`
	IPAddress *string           `json:"ipAddress"`
	UserAgent *string           `json:"userAgent"`
	CreatedAt time.Time         `json:"createdAt"`
	User      AuthLogUser       `json:"user"`
}

// GameResponse is the full admin view of a game
type GameResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  *string   `json:"description"`
	ThumbnailURL *string   `json:"thumbnailUrl"`
	VideoURL     *string   `json:"videoUrl"`
	GameLink     string    `json:"gameLink"`
	SortOrder    int       `json:"sortOrder"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PublicGame is a catalog entry shown on the landing page
type PublicGame struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Description  *string `json:"description"`
	ThumbnailURL *string `json:"thumbnailUrl"`
	VideoURL     *string `json:"videoUrl"`
	GameLink     string  `json:"gameLink"`
	SortOrder    int     `json:"sortOrder"`
}

func newGameResponse(g *models.Game) *GameResponse {
	return &GameResponse{
		ID:           g.ID,
		Title:        g.Title,
		Description:  g.Description,
		ThumbnailURL: g.ThumbnailURL,
		VideoURL:     g.VideoURL,
		GameLink:     g.GameLink,
		SortOrder:    g.SortOrder,
		IsActive:     g.IsActive,
		CreatedAt:    g.CreatedAt,
		UpdatedAt:    g.UpdatedAt,
	}
}
