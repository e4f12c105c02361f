package repository

import (
	"context"

	"deltajournal-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// QuestRepository handles database operations for quests. Every statement is
// scoped by the owning user id.
type QuestRepository struct {
	db *pgxpool.Pool
}

// NewQuestRepository creates a new quest repository
func NewQuestRepository(db *pgxpool.Pool) *QuestRepository {
	return &QuestRepository{db: db}
}

// ListByUser retrieves the user's quests in creation order
func (r *QuestRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Quest, error) {
	query := `
		SELECT id, text, completed, created_at
		FROM quests
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, ClassifyError(TableQuests, err)
	}
	defer rows.Close()

	var quests []models.Quest
	for rows.Next() {
		quest, err := scanQuest(rows)
		if err != nil {
			return nil, ClassifyError(TableQuests, err)
		}
		quests = append(quests, *quest)
	}

	if err := rows.Err(); err != nil {
		return nil, ClassifyError(TableQuests, err)
	}

	return quests, nil
}

// Create inserts a new incomplete quest
func (r *QuestRepository) Create(ctx context.Context, userID uuid.UUID, text string) (*models.Quest, error) {
	query := `
		INSERT INTO quests (user_id, text, completed)
		VALUES ($1, $2, false)
		RETURNING id, text, completed, created_at`

	quest, err := scanQuest(r.db.QueryRow(ctx, query, userID, text))
	if err != nil {
		return nil, ClassifyError(TableQuests, err)
	}
	return quest, nil
}

// UpdateStatus sets the completed flag. Returns ErrNotFound if the user owns no such quest.
func (r *QuestRepository) UpdateStatus(ctx context.Context, userID, id uuid.UUID, completed bool) (*models.Quest, error) {
	query := `
		UPDATE quests SET completed = $3
		WHERE id = $1 AND user_id = $2
		RETURNING id, text, completed, created_at`

	quest, err := scanQuest(r.db.QueryRow(ctx, query, id, userID, completed))
	if err != nil {
		return nil, ClassifyError(TableQuests, err)
	}
	return quest, nil
}

// Delete removes the quest if the user owns it. Missing rows are not an error.
func (r *QuestRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query := `DELETE FROM quests WHERE id = $1 AND user_id = $2`
	_, err := r.db.Exec(ctx, query, id, userID)
	return ClassifyError(TableQuests, err)
}

func scanQuest(row pgx.Row) (*models.Quest, error) {
	quest := &models.Quest{}
	var id uuid.UUID
	if err := row.Scan(&id, &quest.Text, &quest.Completed, &quest.CreatedAt); err != nil {
		return nil, err
	}
	quest.ID = id.String()
	return quest, nil
}
