package repository

import (
	"context"

	"deltajournal-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProfileRepository handles database operations for user profiles
type ProfileRepository struct {
	db *pgxpool.Pool
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// GetByUserID retrieves the profile keyed by userID. Returns ErrNotFound if absent.
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	profile := &models.UserProfile{}
	query := `
		SELECT name, alias, picture, journal_purpose
		FROM profiles
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.Name,
		&profile.Alias,
		&profile.Picture,
		&profile.JournalPurpose,
	)
	if err != nil {
		return nil, ClassifyError(TableProfiles, err)
	}

	return profile, nil
}

// Upsert writes the whole profile for userID and returns the stored row
func (r *ProfileRepository) Upsert(ctx context.Context, userID uuid.UUID, profile models.UserProfile) (*models.UserProfile, error) {
	saved := &models.UserProfile{}
	query := `
		INSERT INTO profiles (id, name, alias, picture, journal_purpose, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			alias = EXCLUDED.alias,
			picture = EXCLUDED.picture,
			journal_purpose = EXCLUDED.journal_purpose,
			updated_at = NOW()
		RETURNING name, alias, picture, journal_purpose`

	err := r.db.QueryRow(
		ctx, query,
		userID,
		profile.Name,
		profile.Alias,
		profile.Picture,
		profile.JournalPurpose,
	).Scan(&saved.Name, &saved.Alias, &saved.Picture, &saved.JournalPurpose)
	if err != nil {
		return nil, ClassifyError(TableProfiles, err)
	}

	return saved, nil
}
