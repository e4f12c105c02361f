package repository

import (
	"context"
	"time"

	"deltajournal-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository handles database operations for accounts
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, password_hash, email_confirmed_at, confirmation_token, confirmation_sent_at, created_at`

// Create inserts a new account and fills its id and creation time
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, password_hash, email_confirmed_at, confirmation_token, confirmation_sent_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRow(
		ctx, query,
		user.Email,
		user.PasswordHash,
		user.EmailConfirmedAt,
		user.ConfirmationToken,
		user.ConfirmationSentAt,
	).Scan(&user.ID, &user.CreatedAt)

	return ClassifyError(TableUsers, err)
}

// GetByID retrieves an account by id
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetByEmail retrieves an account by email, case-insensitively
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	return r.getOne(ctx, query, email)
}

// GetByConfirmationToken retrieves the account awaiting confirmation with token
func (r *UserRepository) GetByConfirmationToken(ctx context.Context, token string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE confirmation_token = $1`
	return r.getOne(ctx, query, token)
}

// SetConfirmationToken replaces the pending confirmation token
func (r *UserRepository) SetConfirmationToken(ctx context.Context, id uuid.UUID, token string, sentAt time.Time) error {
	query := `UPDATE users SET confirmation_token = $2, confirmation_sent_at = $3 WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id, token, sentAt)
	if err != nil {
		return ClassifyError(TableUsers, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkConfirmed stamps the email as confirmed and clears the token
func (r *UserRepository) MarkConfirmed(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `
		UPDATE users SET email_confirmed_at = $2, confirmation_token = NULL
		WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id, at)
	if err != nil {
		return ClassifyError(TableUsers, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		return nil, ClassifyError(TableUsers, err)
	}
	return user, nil
}

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.EmailConfirmedAt,
		&user.ConfirmationToken,
		&user.ConfirmationSentAt,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}
