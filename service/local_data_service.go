package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"deltajournal-backend/logger"
	"deltajournal-backend/models"
	"deltajournal-backend/storage"

	"github.com/google/uuid"
)

// Fixed blob keys, one JSON document each
const (
	KeyEntries = "emotion-journal-entries"
	KeyProfile = "emotion-journal-profile"
	KeyQuests  = "emotion-journal-quests"
	KeyLeads   = "emotion-journal-leads"
)

const (
	defaultLocalName    = "Welcome!"
	defaultLocalAlias   = "Journal is stored locally"
	defaultLocalPurpose = "This diary I fill it on the mornings so represent the way I wake up"
)

// DefaultLocalProfile is returned before any profile has been saved
func DefaultLocalProfile() models.UserProfile {
	purpose := defaultLocalPurpose
	return models.UserProfile{
		Name:           defaultLocalName,
		Alias:          defaultLocalAlias,
		JournalPurpose: &purpose,
	}
}

// LocalDataService keeps the journal in a blob store. It performs no validation.
type LocalDataService struct {
	mu    sync.Mutex
	blobs storage.Storage
	now   func() time.Time
	newID func() string
}

// NewLocalDataService creates a local adapter over blobs. Nil now/newID use defaults.
func NewLocalDataService(blobs storage.Storage, now func() time.Time, newID func() string) *LocalDataService {
	if now == nil {
		now = time.Now
	}
	if newID == nil {
		newID = uuid.NewString
	}
	return &LocalDataService{blobs: blobs, now: now, newID: newID}
}

func (s *LocalDataService) IsRemote() bool { return false }

// load decodes the blob at key into dst. found is false when the key is absent.
func (s *LocalDataService) load(ctx context.Context, key string, dst any) (found bool, err error) {
	if s.blobs == nil {
		return false, errors.New("local storage not set")
	}
	data, err := storage.ReadAll(ctx, s.blobs, key)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (s *LocalDataService) store(ctx context.Context, key string, v any) error {
	if s.blobs == nil {
		return errors.New("local storage not set")
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.blobs.Put(ctx, key, bytes.NewReader(data))
}

func (s *LocalDataService) entries(ctx context.Context) (map[string]models.EmotionEntry, error) {
	entries := map[string]models.EmotionEntry{}
	if _, err := s.load(ctx, KeyEntries, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = map[string]models.EmotionEntry{}
	}
	return entries, nil
}

func (s *LocalDataService) GetEntries(ctx context.Context) (map[string]models.EmotionEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.entries(ctx)
	if err != nil {
		logger.Error("local: failed to load entries", "error", err)
		return nil, err
	}
	return entries, nil
}

func (s *LocalDataService) SaveEntry(ctx context.Context, entry models.EmotionEntry) (*models.EmotionEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.entries(ctx)
	if err != nil {
		logger.Error("local: failed to load entries", "date", entry.Date, "error", err)
		return nil, err
	}
	entries[entry.Date] = entry
	if err := s.store(ctx, KeyEntries, entries); err != nil {
		logger.Error("local: failed to save entry", "date", entry.Date, "error", err)
		return nil, err
	}
	return &entry, nil
}

func (s *LocalDataService) DeleteEntry(ctx context.Context, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.entries(ctx)
	if err != nil {
		logger.Error("local: failed to load entries", "date", date, "error", err)
		return err
	}
	if _, ok := entries[date]; !ok {
		return nil
	}
	delete(entries, date)
	if err := s.store(ctx, KeyEntries, entries); err != nil {
		logger.Error("local: failed to delete entry", "date", date, "error", err)
		return err
	}
	return nil
}

// GetProfile returns the stored profile with missing fields filled from the
// defaults. The stored blob is left as is until the next SaveProfile.
func (s *LocalDataService) GetProfile(ctx context.Context) (*models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var profile models.UserProfile
	found, err := s.load(ctx, KeyProfile, &profile)
	if err != nil {
		logger.Error("local: failed to load profile", "error", err)
		return nil, err
	}
	if !found {
		p := DefaultLocalProfile()
		return &p, nil
	}

	if profile.Alias == "" {
		profile.Alias = defaultLocalAlias
	}
	// An empty purpose is a deliberate choice; only an absent one is migrated.
	if profile.JournalPurpose == nil {
		purpose := defaultLocalPurpose
		profile.JournalPurpose = &purpose
	}
	return &profile, nil
}

func (s *LocalDataService) SaveProfile(ctx context.Context, profile models.UserProfile) (*models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store(ctx, KeyProfile, profile); err != nil {
		logger.Error("local: failed to save profile", "error", err)
		return nil, err
	}
	return &profile, nil
}

func (s *LocalDataService) quests(ctx context.Context) ([]models.Quest, error) {
	var quests []models.Quest
	if _, err := s.load(ctx, KeyQuests, &quests); err != nil {
		return nil, err
	}
	sort.SliceStable(quests, func(i, j int) bool {
		return quests[i].CreatedAt.Before(quests[j].CreatedAt)
	})
	return quests, nil
}

func (s *LocalDataService) GetQuests(ctx context.Context) ([]models.Quest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	quests, err := s.quests(ctx)
	if err != nil {
		logger.Error("local: failed to load quests", "error", err)
		return nil, err
	}
	if quests == nil {
		quests = []models.Quest{}
	}
	return quests, nil
}

func (s *LocalDataService) AddQuest(ctx context.Context, text string) (*models.Quest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	quests, err := s.quests(ctx)
	if err != nil {
		logger.Error("local: failed to load quests", "error", err)
		return nil, err
	}
	quest := models.Quest{
		ID:        s.newID(),
		Text:      text,
		Completed: false,
		CreatedAt: s.now().UTC(),
	}
	quests = append(quests, quest)
	if err := s.store(ctx, KeyQuests, quests); err != nil {
		logger.Error("local: failed to add quest", "error", err)
		return nil, err
	}
	return &quest, nil
}

func (s *LocalDataService) UpdateQuestStatus(ctx context.Context, id string, completed bool) (*models.Quest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	quests, err := s.quests(ctx)
	if err != nil {
		logger.Error("local: failed to load quests", "quest_id", id, "error", err)
		return nil, err
	}
	for i := range quests {
		if quests[i].ID != id {
			continue
		}
		quests[i].Completed = completed
		if err := s.store(ctx, KeyQuests, quests); err != nil {
			logger.Error("local: failed to update quest", "quest_id", id, "error", err)
			return nil, err
		}
		updated := quests[i]
		return &updated, nil
	}

	err = fmt.Errorf("quest %s: %w", id, ErrNotFound)
	logger.Error("local: failed to update quest", "quest_id", id, "error", err)
	return nil, err
}

func (s *LocalDataService) DeleteQuest(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	quests, err := s.quests(ctx)
	if err != nil {
		logger.Error("local: failed to load quests", "quest_id", id, "error", err)
		return err
	}
	kept := quests[:0]
	for _, q := range quests {
		if q.ID != id {
			kept = append(kept, q)
		}
	}
	if len(kept) == len(quests) {
		return nil
	}
	if err := s.store(ctx, KeyQuests, kept); err != nil {
		logger.Error("local: failed to delete quest", "quest_id", id, "error", err)
		return err
	}
	return nil
}

// AddLead appends to the lead list. Best-effort: failures are logged and returned.
func (s *LocalDataService) AddLead(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var leads []models.Lead
	if _, err := s.load(ctx, KeyLeads, &leads); err != nil {
		logger.Warn("local: failed to load leads", "error", err)
		return err
	}
	leads = append(leads, models.Lead{ID: uuid.New(), Email: email, CreatedAt: s.now().UTC()})
	if err := s.store(ctx, KeyLeads, leads); err != nil {
		logger.Warn("local: failed to add lead", "error", err)
		return err
	}
	return nil
}
