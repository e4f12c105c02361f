package repository

import (
	"context"

	"deltajournal-backend/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// LeadRepository handles inserts of captured emails
type LeadRepository struct {
	db *pgxpool.Pool
}

// NewLeadRepository creates a new lead repository
func NewLeadRepository(db *pgxpool.Pool) *LeadRepository {
	return &LeadRepository{db: db}
}

// Create appends a lead
func (r *LeadRepository) Create(ctx context.Context, email string) (*models.Lead, error) {
	lead := &models.Lead{Email: email}
	query := `INSERT INTO leads (email) VALUES ($1) RETURNING id, created_at`

	if err := r.db.QueryRow(ctx, query, email).Scan(&lead.ID, &lead.CreatedAt); err != nil {
		return nil, ClassifyError(TableLeads, err)
	}
	return lead, nil
}
