package service

import (
	"errors"
	"fmt"

	"deltajournal-backend/models"
)

var (
	// ErrNotAuthenticated is returned by remote operations attempted without a session
	ErrNotAuthenticated = errors.New("user not authenticated, please sign in again")
	// ErrNotConfigured is returned by remote-only operations when no backend is configured
	ErrNotConfigured = errors.New("remote backend is not configured")
	// ErrNotFound is returned when an update targets a missing record
	ErrNotFound = errors.New("not found")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrEmailNotConfirmed  = errors.New("email not confirmed")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInvalidEmail       = errors.New("a valid email address is required")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrAINotConfigured    = errors.New("AI service is not configured: GEMINI_API_KEY not set")
)

// GenerationError annotates an AI failure with the report that failed
type GenerationError struct {
	Report models.ReportKind
	Err    error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate %s: %v", e.Report, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
