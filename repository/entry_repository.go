package repository

import (
	"context"
	"fmt"

	"deltajournal-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// EntryRepository handles database operations for journal entries
type EntryRepository struct {
	db *pgxpool.Pool
}

// NewEntryRepository creates a new entry repository
func NewEntryRepository(db *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{db: db}
}

const entryColumns = `to_char(date, 'YYYY-MM-DD'), emotion, intensity, notes, image_url, pnl::text, trading_data`

// ListByUser retrieves every entry owned by userID, oldest first
func (r *EntryRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.EmotionEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM entries
		WHERE user_id = $1
		ORDER BY date ASC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, ClassifyError(TableEntries, err)
	}
	defer rows.Close()

	var entries []models.EmotionEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, ClassifyError(TableEntries, err)
		}
		entries = append(entries, *entry)
	}

	if err := rows.Err(); err != nil {
		return nil, ClassifyError(TableEntries, err)
	}

	return entries, nil
}

// Upsert inserts the entry or overwrites the one already stored for (userID, date)
func (r *EntryRepository) Upsert(ctx context.Context, userID uuid.UUID, entry models.EmotionEntry) (*models.EmotionEntry, error) {
	query := `
		INSERT INTO entries (
			user_id, date, emotion, intensity, notes, image_url, pnl, trading_data
		) VALUES (
			$1, $2::text::date, $3, $4, $5, $6, $7::text::numeric, $8
		)
		ON CONFLICT (user_id, date) DO UPDATE SET
			emotion = EXCLUDED.emotion,
			intensity = EXCLUDED.intensity,
			notes = EXCLUDED.notes,
			image_url = EXCLUDED.image_url,
			pnl = EXCLUDED.pnl,
			trading_data = EXCLUDED.trading_data,
			updated_at = NOW()
		RETURNING ` + entryColumns

	row := r.db.QueryRow(
		ctx, query,
		userID,
		entry.Date,
		string(entry.Emotion),
		entry.Intensity,
		entry.Notes,
		entry.ImageURL,
		decimalText(entry.PnL),
		entry.TradingData,
	)

	saved, err := scanEntry(row)
	if err != nil {
		return nil, ClassifyError(TableEntries, err)
	}
	return saved, nil
}

// Delete removes the entry for (userID, date). Missing rows are not an error.
func (r *EntryRepository) Delete(ctx context.Context, userID uuid.UUID, date string) error {
	query := `DELETE FROM entries WHERE user_id = $1 AND date = $2::text::date`
	_, err := r.db.Exec(ctx, query, userID, date)
	return ClassifyError(TableEntries, err)
}

func scanEntry(row pgx.Row) (*models.EmotionEntry, error) {
	entry := &models.EmotionEntry{}
	var emotion string
	var pnl *string

	err := row.Scan(
		&entry.Date,
		&emotion,
		&entry.Intensity,
		&entry.Notes,
		&entry.ImageURL,
		&pnl,
		&entry.TradingData,
	)
	if err != nil {
		return nil, err
	}

	entry.Emotion = models.EmotionType(emotion)
	if pnl != nil {
		d, err := decimal.NewFromString(*pnl)
		if err != nil {
			return nil, fmt.Errorf("parse pnl %q: %w", *pnl, err)
		}
		entry.PnL = &d
	}
	return entry, nil
}

func decimalText(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}
