package service

import (
	"context"
	"errors"
	"testing"

	"deltajournal-backend/models"
	"deltajournal-backend/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type remoteFixture struct {
	svc      *RemoteDataService
	entries  *fakeEntryStore
	profiles *fakeProfileStore
	quests   *fakeQuestStore
	leads    *fakeLeadStore
}

func newRemoteFixture() *remoteFixture {
	f := &remoteFixture{
		entries:  newFakeEntryStore(),
		profiles: newFakeProfileStore(),
		quests:   newFakeQuestStore(),
		leads:    &fakeLeadStore{},
	}
	f.svc = NewRemoteDataService(RemoteStores{
		Entries:  f.entries,
		Profiles: f.profiles,
		Quests:   f.quests,
		Leads:    f.leads,
	})
	return f
}

func TestRemoteRequiresSession(t *testing.T) {
	f := newRemoteFixture()
	ctx := context.Background()

	_, err := f.svc.GetEntries(ctx)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	_, err = f.svc.SaveEntry(ctx, models.EmotionEntry{Date: "2024-03-05"})
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.ErrorIs(t, f.svc.DeleteEntry(ctx, "2024-03-05"), ErrNotAuthenticated)
	_, err = f.svc.GetProfile(ctx)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	_, err = f.svc.SaveProfile(ctx, models.UserProfile{})
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	_, err = f.svc.GetQuests(ctx)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	_, err = f.svc.AddQuest(ctx, "x")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	_, err = f.svc.UpdateQuestStatus(ctx, uuid.NewString(), true)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.ErrorIs(t, f.svc.DeleteQuest(ctx, uuid.NewString()), ErrNotAuthenticated)

	assert.Zero(t, f.entries.count())

	// leads are captured before sign-in
	require.NoError(t, f.svc.AddLead(ctx, "lead@example.com"))
	assert.Equal(t, []string{"lead@example.com"}, f.leads.leads)
}

func TestRemoteUpsertIdempotent(t *testing.T) {
	f := newRemoteFixture()
	ctx, _ := sessionContext("ada@example.com")

	_, err := f.svc.SaveEntry(ctx, models.EmotionEntry{Date: "2024-03-05", Emotion: models.EmotionSad, Intensity: 2})
	require.NoError(t, err)
	pnl := decimal.RequireFromString("150.25")
	_, err = f.svc.SaveEntry(ctx, models.EmotionEntry{Date: "2024-03-05", Emotion: models.EmotionHappy, Intensity: 8, PnL: &pnl})
	require.NoError(t, err)

	entries, err := f.svc.GetEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	got := entries["2024-03-05"]
	assert.Equal(t, models.EmotionHappy, got.Emotion)
	require.NotNil(t, got.PnL)
	assert.True(t, pnl.Equal(*got.PnL))
}

func TestRemoteDeleteMissingEntry(t *testing.T) {
	f := newRemoteFixture()
	ctx, _ := sessionContext("ada@example.com")

	_, err := f.svc.SaveEntry(ctx, models.EmotionEntry{Date: "2024-03-04", Emotion: models.EmotionCalm, Intensity: 5})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteEntry(ctx, "2024-03-05"))
	entries, err := f.svc.GetEntries(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRemoteScopesByUser(t *testing.T) {
	f := newRemoteFixture()
	ctxA, userA := sessionContext("a@example.com")
	ctxB, userB := sessionContext("b@example.com")

	_, err := f.svc.SaveEntry(ctxA, models.EmotionEntry{Date: "2024-03-05", Emotion: models.EmotionHappy, Intensity: 7})
	require.NoError(t, err)
	_, err = f.svc.SaveEntry(ctxB, models.EmotionEntry{Date: "2024-03-05", Emotion: models.EmotionAngry, Intensity: 9})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteEntry(ctxB, "2024-03-05"))
	entriesA, err := f.svc.GetEntries(ctxA)
	require.NoError(t, err)
	assert.Equal(t, models.EmotionHappy, entriesA["2024-03-05"].Emotion)

	// same quest id owned by both users
	shared := uuid.New()
	f.quests.seed(userA, shared, "A's quest")
	f.quests.seed(userB, shared, "B's quest")

	updated, err := f.svc.UpdateQuestStatus(ctxB, shared.String(), true)
	require.NoError(t, err)
	assert.Equal(t, "B's quest", updated.Text)

	questsA, err := f.svc.GetQuests(ctxA)
	require.NoError(t, err)
	require.Len(t, questsA, 1)
	assert.False(t, questsA[0].Completed)

	require.NoError(t, f.svc.DeleteQuest(ctxB, shared.String()))
	questsA, err = f.svc.GetQuests(ctxA)
	require.NoError(t, err)
	assert.Len(t, questsA, 1)

	// A cannot touch a quest only B owns
	onlyB := uuid.New()
	f.quests.seed(userB, onlyB, "private")
	_, err = f.svc.UpdateQuestStatus(ctxA, onlyB.String(), true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemoteProfileSelfHeals(t *testing.T) {
	f := newRemoteFixture()
	ctx, userID := sessionContext("ada@example.com")

	first, err := f.svc.GetProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ada", first.Name)
	assert.Equal(t, "ada@example.com", first.Alias)
	require.NotNil(t, first.JournalPurpose)
	assert.Equal(t, defaultRemotePurpose, *first.JournalPurpose)
	assert.Contains(t, f.profiles.rows, userID)

	second, err := f.svc.GetProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, f.profiles.upserts)
}

func TestRemoteProfileNullPurpose(t *testing.T) {
	f := newRemoteFixture()
	ctx, userID := sessionContext("ada@example.com")
	f.profiles.rows[userID] = models.UserProfile{Name: "Ada", Alias: "ada"}

	profile, err := f.svc.GetProfile(ctx)
	require.NoError(t, err)
	require.NotNil(t, profile.JournalPurpose)
	assert.Equal(t, unsetRemotePurpose, *profile.JournalPurpose)
}

func TestRemoteProfileErrorPropagates(t *testing.T) {
	f := newRemoteFixture()
	ctx, _ := sessionContext("ada@example.com")
	f.profiles.err = errors.New("connection reset")

	_, err := f.svc.GetProfile(ctx)
	assert.ErrorContains(t, err, "connection reset")
	assert.Zero(t, f.profiles.upserts)
}

func TestDefaultRemoteProfile(t *testing.T) {
	p := DefaultRemoteProfile("")
	assert.Equal(t, defaultRemoteName, p.Name)
	assert.Equal(t, defaultRemoteAlias, p.Alias)
}

func TestRemoteSchemaErrorIsClassified(t *testing.T) {
	f := newRemoteFixture()
	ctx, _ := sessionContext("ada@example.com")
	f.entries.err = errors.New(`ERROR: relation "public.entries" does not exist (SQLSTATE 42P01)`)

	_, err := f.svc.GetEntries(ctx)
	require.Error(t, err)

	se, ok := repository.AsSchemaError(err)
	require.True(t, ok)
	assert.Equal(t, repository.ProblemTableMissing, se.Problem)
	assert.Equal(t, repository.TableEntries, se.Table)

	f.entries.err = errors.New("there is no unique or exclusion constraint matching the ON CONFLICT specification")
	_, err = f.svc.SaveEntry(ctx, models.EmotionEntry{Date: "2024-03-05"})
	se, ok = repository.AsSchemaError(err)
	require.True(t, ok)
	assert.Equal(t, repository.ProblemConstraintMissing, se.Problem)
	assert.Contains(t, err.Error(), "save entry 2024-03-05")
}

func TestRemoteGenericErrorIsWrapped(t *testing.T) {
	f := newRemoteFixture()
	ctx, _ := sessionContext("ada@example.com")
	cause := errors.New("network unreachable")
	f.entries.err = cause

	err := f.svc.DeleteEntry(ctx, "2024-03-05")
	assert.ErrorIs(t, err, cause)
	_, ok := repository.AsSchemaError(err)
	assert.False(t, ok)
	assert.Contains(t, err.Error(), "delete entry 2024-03-05")
}

func TestRemoteQuestLifecycle(t *testing.T) {
	f := newRemoteFixture()
	ctx, _ := sessionContext("ada@example.com")

	quest, err := f.svc.AddQuest(ctx, "Write journal")
	require.NoError(t, err)
	assert.False(t, quest.Completed)

	updated, err := f.svc.UpdateQuestStatus(ctx, quest.ID, true)
	require.NoError(t, err)
	assert.Equal(t, quest.ID, updated.ID)
	assert.True(t, updated.Completed)

	require.NoError(t, f.svc.DeleteQuest(ctx, quest.ID))
	quests, err := f.svc.GetQuests(ctx)
	require.NoError(t, err)
	assert.Empty(t, quests)

	_, err = f.svc.UpdateQuestStatus(ctx, "not-a-uuid", true)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, f.svc.DeleteQuest(ctx, "not-a-uuid"))
}

func TestRemoteQuestsOrdered(t *testing.T) {
	f := newRemoteFixture()
	ctx, userID := sessionContext("ada@example.com")
	for _, text := range []string{"one", "two", "three"} {
		f.quests.seed(userID, uuid.New(), text)
	}

	quests, err := f.svc.GetQuests(ctx)
	require.NoError(t, err)
	require.Len(t, quests, 3)
	for i := 1; i < len(quests); i++ {
		assert.True(t, quests[i-1].CreatedAt.Before(quests[i].CreatedAt))
	}
}
