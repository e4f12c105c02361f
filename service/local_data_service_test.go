package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"deltajournal-backend/models"
	"deltajournal-backend/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocal(t *testing.T) (*LocalDataService, storage.Storage) {
	t.Helper()
	blobs, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	clock := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	now := func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return NewLocalDataService(blobs, now, nil), blobs
}

func TestLocalEntryRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestLocal(t)

	entry := models.EmotionEntry{Date: "2024-03-05", Emotion: models.EmotionHappy, Intensity: 7, Notes: strPtr("Good day")}
	saved, err := svc.SaveEntry(ctx, entry)
	require.NoError(t, err)
	assert.Equal(t, entry, *saved)

	entries, err := svc.GetEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]models.EmotionEntry{"2024-03-05": entry}, entries)

	require.NoError(t, svc.DeleteEntry(ctx, "2024-03-05"))
	entries, err = svc.GetEntries(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NotNil(t, entries)
}

func TestLocalGetEntriesWithoutBlob(t *testing.T) {
	svc, _ := newTestLocal(t)
	entries, err := svc.GetEntries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]models.EmotionEntry{}, entries)
}

func TestLocalSaveEntryOverwritesSameDate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestLocal(t)

	_, err := svc.SaveEntry(ctx, models.EmotionEntry{Date: "2024-03-05", Emotion: models.EmotionSad, Intensity: 2})
	require.NoError(t, err)
	_, err = svc.SaveEntry(ctx, models.EmotionEntry{Date: "2024-03-05", Emotion: models.EmotionCalm, Intensity: 9})
	require.NoError(t, err)

	entries, err := svc.GetEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.EmotionCalm, entries["2024-03-05"].Emotion)
	assert.Equal(t, 9, entries["2024-03-05"].Intensity)
}

func TestLocalSaveEntryDoesNotValidate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestLocal(t)

	_, err := svc.SaveEntry(ctx, models.EmotionEntry{Date: "2024-03-05", Emotion: "bored", Intensity: 42})
	require.NoError(t, err)

	entries, err := svc.GetEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, 42, entries["2024-03-05"].Intensity)
}

func TestLocalDeleteMissingEntry(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestLocal(t)

	_, err := svc.SaveEntry(ctx, models.EmotionEntry{Date: "2024-03-04", Emotion: models.EmotionCalm, Intensity: 5})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteEntry(ctx, "2024-03-05"))
	entries, err := svc.GetEntries(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLocalProfileDefaults(t *testing.T) {
	svc, _ := newTestLocal(t)
	profile, err := svc.GetProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultLocalProfile(), *profile)
}

func TestLocalProfileMigrationLeavesBlobUntouched(t *testing.T) {
	ctx := context.Background()
	svc, blobs := newTestLocal(t)

	legacy := `{"name":"Old Friend"}`
	require.NoError(t, blobs.Put(ctx, KeyProfile, strings.NewReader(legacy)))

	profile, err := svc.GetProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Old Friend", profile.Name)
	assert.Equal(t, defaultLocalAlias, profile.Alias)
	require.NotNil(t, profile.JournalPurpose)
	assert.Equal(t, defaultLocalPurpose, *profile.JournalPurpose)

	raw, err := storage.ReadAll(ctx, blobs, KeyProfile)
	require.NoError(t, err)
	assert.Equal(t, legacy, string(raw))

	_, err = svc.SaveProfile(ctx, *profile)
	require.NoError(t, err)
	raw, err = storage.ReadAll(ctx, blobs, KeyProfile)
	require.NoError(t, err)
	assert.Contains(t, string(raw), defaultLocalAlias)
}

func TestLocalProfileKeepsEmptyPurpose(t *testing.T) {
	ctx := context.Background()
	svc, blobs := newTestLocal(t)
	require.NoError(t, blobs.Put(ctx, KeyProfile, strings.NewReader(`{"name":"A","alias":"B","journalPurpose":""}`)))

	profile, err := svc.GetProfile(ctx)
	require.NoError(t, err)
	require.NotNil(t, profile.JournalPurpose)
	assert.Equal(t, "", *profile.JournalPurpose)
	assert.Equal(t, "B", profile.Alias)
}

func TestLocalQuestLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestLocal(t)

	quest, err := svc.AddQuest(ctx, "Write journal")
	require.NoError(t, err)
	assert.False(t, quest.Completed)
	assert.NotEmpty(t, quest.ID)

	updated, err := svc.UpdateQuestStatus(ctx, quest.ID, true)
	require.NoError(t, err)
	assert.Equal(t, quest.ID, updated.ID)
	assert.True(t, updated.Completed)

	require.NoError(t, svc.DeleteQuest(ctx, quest.ID))
	quests, err := svc.GetQuests(ctx)
	require.NoError(t, err)
	for _, q := range quests {
		assert.NotEqual(t, quest.ID, q.ID)
	}
}

func TestLocalQuestMissing(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestLocal(t)

	_, err := svc.UpdateQuestStatus(ctx, "nope", true)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, svc.DeleteQuest(ctx, "nope"))
}

func TestLocalQuestsSortedByCreatedAt(t *testing.T) {
	ctx := context.Background()
	svc, blobs := newTestLocal(t)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	fixture := []models.Quest{
		{ID: "c", Text: "third", CreatedAt: base.Add(3 * time.Hour)},
		{ID: "a", Text: "first", CreatedAt: base.Add(1 * time.Hour)},
		{ID: "b", Text: "second", CreatedAt: base.Add(2 * time.Hour)},
	}
	data, err := json.Marshal(fixture)
	require.NoError(t, err)
	require.NoError(t, blobs.Put(ctx, KeyQuests, strings.NewReader(string(data))))

	quests, err := svc.GetQuests(ctx)
	require.NoError(t, err)
	require.Len(t, quests, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{quests[0].ID, quests[1].ID, quests[2].ID})
}

func TestLocalAddLeadAppends(t *testing.T) {
	ctx := context.Background()
	svc, blobs := newTestLocal(t)

	require.NoError(t, svc.AddLead(ctx, "one@example.com"))
	require.NoError(t, svc.AddLead(ctx, "two@example.com"))

	raw, err := storage.ReadAll(ctx, blobs, KeyLeads)
	require.NoError(t, err)
	var leads []models.Lead
	require.NoError(t, json.Unmarshal(raw, &leads))
	require.Len(t, leads, 2)
	assert.Equal(t, "two@example.com", leads[1].Email)
}

func TestLocalCorruptBlobPropagates(t *testing.T) {
	ctx := context.Background()
	svc, blobs := newTestLocal(t)
	require.NoError(t, blobs.Put(ctx, KeyEntries, strings.NewReader("{not json")))

	_, err := svc.GetEntries(ctx)
	assert.Error(t, err)
}

func TestLocalConcurrentSaves(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestLocal(t)

	done := make(chan error, 10)
	for i := 1; i <= 10; i++ {
		go func(day int) {
			_, err := svc.SaveEntry(ctx, models.EmotionEntry{
				Date: fmt.Sprintf("2024-03-%02d", day), Emotion: models.EmotionCalm, Intensity: 5,
			})
			done <- err
		}(i)
	}
	for i := 0; i < 10; i++ {
		require.NoError(t, <-done)
	}

	entries, err := svc.GetEntries(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 10)
}
