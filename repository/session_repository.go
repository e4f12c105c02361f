package repository

import (
	"context"
	"time"

	"deltajournal-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SessionRepository persists issued auth sessions so they can be revoked
type SessionRepository struct {
	db *pgxpool.Pool
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create records a newly issued session
func (r *SessionRepository) Create(ctx context.Context, s *models.AuthSession) error {
	query := `
		INSERT INTO auth_sessions (id, user_id, expires_at)
		VALUES ($1, $2, $3)
		RETURNING created_at`

	err := r.db.QueryRow(ctx, query, s.ID, s.UserID, s.ExpiresAt).Scan(&s.CreatedAt)
	return ClassifyError(TableAuthSessions, err)
}

// GetByID retrieves a session
func (r *SessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AuthSession, error) {
	s := &models.AuthSession{}
	query := `
		SELECT id, user_id, created_at, expires_at, revoked_at
		FROM auth_sessions
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(&s.ID, &s.UserID, &s.CreatedAt, &s.ExpiresAt, &s.RevokedAt)
	if err != nil {
		return nil, ClassifyError(TableAuthSessions, err)
	}
	return s, nil
}

// Revoke marks the session revoked. Revoking twice keeps the first timestamp.
func (r *SessionRepository) Revoke(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `UPDATE auth_sessions SET revoked_at = COALESCE(revoked_at, $2) WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id, at)
	return ClassifyError(TableAuthSessions, err)
}
