package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the signed-in viewer. It only lives inside a Session.
type User struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	LoggedIn bool   `json:"isLoggedIn"`
}

// Session is created at login and cleared at logout. It is never written to
// the document store.
type Session struct {
	ID        uuid.UUID `json:"id"`
	User      User      `json:"user"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthTokens struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	User        User   `json:"user"`
}
