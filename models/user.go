package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account in the auth subsystem
type User struct {
	ID                 uuid.UUID  `json:"id"`
	Email              string     `json:"email"`
	PasswordHash       string     `json:"-"` // Never serialize password hash
	EmailConfirmedAt   *time.Time `json:"email_confirmed_at,omitempty"`
	ConfirmationToken  *string    `json:"-"`
	ConfirmationSentAt *time.Time `json:"-"`
	CreatedAt          time.Time  `json:"created_at"`
}

// Confirmed reports whether the account email has been confirmed
func (u *User) Confirmed() bool {
	return u.EmailConfirmedAt != nil
}

// Session is the authenticated-user handle handed out by the auth gateway
type Session struct {
	ID          uuid.UUID  `json:"id"`
	AccessToken string     `json:"access_token,omitempty"`
	TokenType   string     `json:"token_type"`
	ExpiresAt   time.Time  `json:"expires_at"`
	RevokedAt   *time.Time `json:"revoked_at,omitempty"`
	User        User       `json:"user"`
}

// AuthSession is the persisted server-side record behind a Session
type AuthSession struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt time.Time  `json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}

// Active reports whether the session is neither revoked nor expired at now
func (s *AuthSession) Active(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}
