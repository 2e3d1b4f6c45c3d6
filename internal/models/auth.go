package models

import (
	"github.com/golang-jwt/jwt/v5"
)

const TokenTypeAccess = "access"

// TokenClaims are the claims carried by a signed access token.
// The subject (sub) is the user id.
type TokenClaims struct {
	Type  string `json:"type"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
	jwt.RegisteredClaims
}

// Identity is the caller resolved by the access guard
type Identity struct {
	UserID string
	Email  string
	Role   Role
}
