package models

import (
	"time"
)

// Role is the authorization tier of a user account
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type User struct {
	ID                  string
	Email               string // always lowercase
	PasswordHash        string
	Name                *string
	Phone               *string
	Role                Role
	EmailVerified       bool
	IsActive            bool
	FailedLoginAttempts int
	LockedUntil         *time.Time // Temporary account lock expiration
	LastLoginAt         *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// IsLocked reports whether the account is inside its lock window at now
func (u *User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && now.Before(*u.LockedUntil)
}

// UserWithStats is a user row joined with its auth log count (admin listing)
type UserWithStats struct {
	User
	AuthLogCount int64
}
