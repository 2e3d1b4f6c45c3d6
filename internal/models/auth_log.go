package models

import "time"

// AuthAction is the kind of event recorded in the auth log
type AuthAction string

const (
	AuthActionSignUp AuthAction = "SIGNUP"
	AuthActionSignIn AuthAction = "SIGNIN"
)

type AuthLog struct {
	ID        string
	UserID    string
	Action    AuthAction
	IPAddress *string
	UserAgent *string
	CreatedAt time.Time
}

// AuthLogEntry is an auth log joined with a summary of its user
type AuthLogEntry struct {
	AuthLog
	UserEmail string
	UserName  *string
	UserPhone *string
}
