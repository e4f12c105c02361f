package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"deltajournal-backend/logger"
	"deltajournal-backend/models"
	"deltajournal-backend/repository"

	"github.com/google/uuid"
)

const (
	defaultRemoteName    = "New User"
	defaultRemoteAlias   = "No email"
	defaultRemotePurpose = "This is my new emotion journal!"
	unsetRemotePurpose   = "Click the 'Edit' button in the sidebar to set a purpose!"
)

// EntryStore persists entries scoped by user
type EntryStore interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.EmotionEntry, error)
	Upsert(ctx context.Context, userID uuid.UUID, entry models.EmotionEntry) (*models.EmotionEntry, error)
	Delete(ctx context.Context, userID uuid.UUID, date string) error
}

// ProfileStore persists one profile per user
type ProfileStore interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error)
	Upsert(ctx context.Context, userID uuid.UUID, profile models.UserProfile) (*models.UserProfile, error)
}

// QuestStore persists quests scoped by user
type QuestStore interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Quest, error)
	Create(ctx context.Context, userID uuid.UUID, text string) (*models.Quest, error)
	UpdateStatus(ctx context.Context, userID, id uuid.UUID, completed bool) (*models.Quest, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// LeadStore appends captured emails
type LeadStore interface {
	Create(ctx context.Context, email string) (*models.Lead, error)
}

// RemoteStores groups the table stores used by RemoteDataService
type RemoteStores struct {
	Entries  EntryStore
	Profiles ProfileStore
	Quests   QuestStore
	Leads    LeadStore
}

// NewPostgresStores wires the pgx repositories as remote stores
func NewPostgresStores(entries *repository.EntryRepository, profiles *repository.ProfileRepository,
	quests *repository.QuestRepository, leads *repository.LeadRepository) RemoteStores {
	return RemoteStores{Entries: entries, Profiles: profiles, Quests: quests, Leads: leads}
}

// RemoteDataService keeps the journal in the hosted database. Every call except
// AddLead requires a session in the context and is scoped to its user.
type RemoteDataService struct {
	stores RemoteStores
}

// NewRemoteDataService creates a remote adapter over stores
func NewRemoteDataService(stores RemoteStores) *RemoteDataService {
	return &RemoteDataService{stores: stores}
}

func (s *RemoteDataService) IsRemote() bool { return true }

func (s *RemoteDataService) user(ctx context.Context) (*models.User, error) {
	session, ok := SessionFromContext(ctx)
	if !ok || session.User.ID == uuid.Nil {
		return nil, ErrNotAuthenticated
	}
	return &session.User, nil
}

// fail classifies err against table, logs it, and wraps it with the operation name
func fail(op, table string, err error) error {
	err = repository.ClassifyError(table, err)
	if errors.Is(err, repository.ErrNotFound) {
		err = ErrNotFound
	}
	logger.Error("remote: "+op+" failed", "table", table, "error", err)
	return fmt.Errorf("%s: %w", op, err)
}

func (s *RemoteDataService) GetEntries(ctx context.Context) (map[string]models.EmotionEntry, error) {
	user, err := s.user(ctx)
	if err != nil {
		return nil, err
	}
	if s.stores.Entries == nil {
		return nil, errors.New("entry store not set")
	}

	rows, err := s.stores.Entries.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, fail("fetch entries", repository.TableEntries, err)
	}

	entries := make(map[string]models.EmotionEntry, len(rows))
	for _, e := range rows {
		entries[e.Date] = e
	}
	return entries, nil
}

func (s *RemoteDataService) SaveEntry(ctx context.Context, entry models.EmotionEntry) (*models.EmotionEntry, error) {
	user, err := s.user(ctx)
	if err != nil {
		return nil, err
	}
	if s.stores.Entries == nil {
		return nil, errors.New("entry store not set")
	}

	saved, err := s.stores.Entries.Upsert(ctx, user.ID, entry)
	if err != nil {
		return nil, fail("save entry "+entry.Date, repository.TableEntries, err)
	}
	if saved == nil {
		return nil, fmt.Errorf("save entry %s: no row returned", entry.Date)
	}
	return saved, nil
}

func (s *RemoteDataService) DeleteEntry(ctx context.Context, date string) error {
	user, err := s.user(ctx)
	if err != nil {
		return err
	}
	if s.stores.Entries == nil {
		return errors.New("entry store not set")
	}

	if err := s.stores.Entries.Delete(ctx, user.ID, date); err != nil {
		return fail("delete entry "+date, repository.TableEntries, err)
	}
	return nil
}

// GetProfile returns the user's profile, creating one from the account email
// the first time it is read.
func (s *RemoteDataService) GetProfile(ctx context.Context) (*models.UserProfile, error) {
	user, err := s.user(ctx)
	if err != nil {
		return nil, err
	}
	if s.stores.Profiles == nil {
		return nil, errors.New("profile store not set")
	}

	profile, err := s.stores.Profiles.GetByUserID(ctx, user.ID)
	if err == nil {
		if profile.JournalPurpose == nil {
			purpose := unsetRemotePurpose
			profile.JournalPurpose = &purpose
		}
		return profile, nil
	}
	if !errors.Is(repository.ClassifyError(repository.TableProfiles, err), repository.ErrNotFound) {
		return nil, fail("fetch profile", repository.TableProfiles, err)
	}

	logger.Info("remote: creating default profile", "user_id", user.ID)
	return s.SaveProfile(ctx, DefaultRemoteProfile(user.Email))
}

// DefaultRemoteProfile derives a first profile from an account email
func DefaultRemoteProfile(email string) models.UserProfile {
	name := defaultRemoteName
	if local, _, _ := strings.Cut(email, "@"); local != "" {
		name = local
	}
	alias := defaultRemoteAlias
	if email != "" {
		alias = email
	}
	purpose := defaultRemotePurpose
	return models.UserProfile{Name: name, Alias: alias, JournalPurpose: &purpose}
}

func (s *RemoteDataService) SaveProfile(ctx context.Context, profile models.UserProfile) (*models.UserProfile, error) {
	user, err := s.user(ctx)
	if err != nil {
		return nil, err
	}
	if s.stores.Profiles == nil {
		return nil, errors.New("profile store not set")
	}

	saved, err := s.stores.Profiles.Upsert(ctx, user.ID, profile)
	if err != nil {
		return nil, fail("save profile", repository.TableProfiles, err)
	}
	if saved == nil {
		return nil, errors.New("save profile: no row returned")
	}
	return saved, nil
}

func (s *RemoteDataService) GetQuests(ctx context.Context) ([]models.Quest, error) {
	user, err := s.user(ctx)
	if err != nil {
		return nil, err
	}
	if s.stores.Quests == nil {
		return nil, errors.New("quest store not set")
	}

	quests, err := s.stores.Quests.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, fail("fetch quests", repository.TableQuests, err)
	}
	if quests == nil {
		quests = []models.Quest{}
	}
	return quests, nil
}

func (s *RemoteDataService) AddQuest(ctx context.Context, text string) (*models.Quest, error) {
	user, err := s.user(ctx)
	if err != nil {
		return nil, err
	}
	if s.stores.Quests == nil {
		return nil, errors.New("quest store not set")
	}

	quest, err := s.stores.Quests.Create(ctx, user.ID, text)
	if err != nil {
		return nil, fail("add quest", repository.TableQuests, err)
	}
	return quest, nil
}

func (s *RemoteDataService) UpdateQuestStatus(ctx context.Context, id string, completed bool) (*models.Quest, error) {
	user, err := s.user(ctx)
	if err != nil {
		return nil, err
	}
	if s.stores.Quests == nil {
		return nil, errors.New("quest store not set")
	}

	questID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("update quest %s: %w", id, ErrNotFound)
	}
	quest, err := s.stores.Quests.UpdateStatus(ctx, user.ID, questID, completed)
	if err != nil {
		return nil, fail("update quest "+id, repository.TableQuests, err)
	}
	return quest, nil
}

func (s *RemoteDataService) DeleteQuest(ctx context.Context, id string) error {
	user, err := s.user(ctx)
	if err != nil {
		return err
	}
	if s.stores.Quests == nil {
		return errors.New("quest store not set")
	}

	questID, err := uuid.Parse(id)
	if err != nil {
		// no quest can have a malformed id
		return nil
	}
	if err := s.stores.Quests.Delete(ctx, user.ID, questID); err != nil {
		return fail("delete quest "+id, repository.TableQuests, err)
	}
	return nil
}

// AddLead does not require a session
func (s *RemoteDataService) AddLead(ctx context.Context, email string) error {
	if s.stores.Leads == nil {
		return errors.New("lead store not set")
	}
	if _, err := s.stores.Leads.Create(ctx, email); err != nil {
		return fail("add lead", repository.TableLeads, err)
	}
	return nil
}
