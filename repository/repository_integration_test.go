package repository

import (
	"context"
	"os"
	"testing"

	"deltajournal-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, CreateSchema(ctx, pool))
	return pool
}

func testUser(t *testing.T, pool *pgxpool.Pool) uuid.UUID {
	t.Helper()
	users := NewUserRepository(pool)
	user := &models.User{Email: uuid.NewString() + "@example.com", PasswordHash: "x"}
	require.NoError(t, users.Create(context.Background(), user))
	t.Cleanup(func() {
		pool.Exec(context.Background(), "DELETE FROM users WHERE id = $1", user.ID)
	})
	return user.ID
}

func TestEntryUpsertIsIdempotent(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := NewEntryRepository(pool)
	userID := testUser(t, pool)

	notes := "first"
	_, err := repo.Upsert(ctx, userID, models.EmotionEntry{Date: "2024-03-05", Emotion: models.EmotionSad, Intensity: 3, Notes: &notes})
	require.NoError(t, err)

	pnl := decimal.RequireFromString("-12.50")
	saved, err := repo.Upsert(ctx, userID, models.EmotionEntry{
		Date: "2024-03-05", Emotion: models.EmotionHappy, Intensity: 8, PnL: &pnl,
		TradingData: &models.TradingData{Trades: []models.Trade{{ID: "t1", Type: models.TradeLong, Symbol: "AAPL"}}},
	})
	require.NoError(t, err)
	assert.Equal(t, models.EmotionHappy, saved.Emotion)
	assert.Nil(t, saved.Notes)
	require.NotNil(t, saved.PnL)
	assert.True(t, pnl.Equal(*saved.PnL))

	entries, err := repo.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 8, entries[0].Intensity)
	require.NotNil(t, entries[0].TradingData)
	assert.Equal(t, "AAPL", entries[0].TradingData.Trades[0].Symbol)

	require.NoError(t, repo.Delete(ctx, userID, "2024-03-05"))
	require.NoError(t, repo.Delete(ctx, userID, "2024-03-05"))
	entries, err = repo.ListByUser(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestQuestScopedByUser(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := NewQuestRepository(pool)
	alice := testUser(t, pool)
	bob := testUser(t, pool)

	quest, err := repo.Create(ctx, alice, "Write journal")
	require.NoError(t, err)
	id := uuid.MustParse(quest.ID)

	_, err = repo.UpdateStatus(ctx, bob, id, true)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, repo.Delete(ctx, bob, id))

	quests, err := repo.ListByUser(ctx, alice)
	require.NoError(t, err)
	require.Len(t, quests, 1)
	assert.False(t, quests[0].Completed)
}

func TestProfileMissingIsNotFound(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := NewProfileRepository(pool)
	userID := testUser(t, pool)

	_, err := repo.GetByUserID(ctx, userID)
	assert.ErrorIs(t, err, ErrNotFound)

	saved, err := repo.Upsert(ctx, userID, models.UserProfile{Name: "Ada", Alias: "ada@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Ada", saved.Name)
}
