package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"deltajournal-backend/models"
	"deltajournal-backend/repository"

	"github.com/google/uuid"
)

type fakeEntryStore struct {
	mu   sync.Mutex
	rows map[uuid.UUID]map[string]models.EmotionEntry
	err  error
}

func newFakeEntryStore() *fakeEntryStore {
	return &fakeEntryStore{rows: map[uuid.UUID]map[string]models.EmotionEntry{}}
}

func (f *fakeEntryStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.EmotionEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []models.EmotionEntry
	for _, e := range f.rows[userID] {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeEntryStore) Upsert(ctx context.Context, userID uuid.UUID, entry models.EmotionEntry) (*models.EmotionEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.rows[userID] == nil {
		f.rows[userID] = map[string]models.EmotionEntry{}
	}
	f.rows[userID][entry.Date] = entry
	return &entry, nil
}

func (f *fakeEntryStore) Delete(ctx context.Context, userID uuid.UUID, date string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	delete(f.rows[userID], date)
	return nil
}

func (f *fakeEntryStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, rows := range f.rows {
		n += len(rows)
	}
	return n
}

type fakeProfileStore struct {
	mu      sync.Mutex
	rows    map[uuid.UUID]models.UserProfile
	upserts int
	err     error
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{rows: map[uuid.UUID]models.UserProfile{}}
}

func (f *fakeProfileStore) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.rows[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (f *fakeProfileStore) Upsert(ctx context.Context, userID uuid.UUID, profile models.UserProfile) (*models.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.upserts++
	f.rows[userID] = profile
	return &profile, nil
}

type questKey struct {
	user uuid.UUID
	id   uuid.UUID
}

type fakeQuestStore struct {
	mu   sync.Mutex
	rows map[questKey]models.Quest
	now  time.Time
}

func newFakeQuestStore() *fakeQuestStore {
	return &fakeQuestStore{
		rows: map[questKey]models.Quest{},
		now:  time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

// seed stores a quest with a caller-chosen id, so ids can collide across users
func (f *fakeQuestStore) seed(user, id uuid.UUID, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(time.Minute)
	f.rows[questKey{user, id}] = models.Quest{ID: id.String(), Text: text, CreatedAt: f.now}
}

func (f *fakeQuestStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Quest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Quest
	for k, q := range f.rows {
		if k.user == userID {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeQuestStore) Create(ctx context.Context, userID uuid.UUID, text string) (*models.Quest, error) {
	id := uuid.New()
	f.seed(userID, id, text)
	f.mu.Lock()
	defer f.mu.Unlock()
	q := f.rows[questKey{userID, id}]
	return &q, nil
}

func (f *fakeQuestStore) UpdateStatus(ctx context.Context, userID, id uuid.UUID, completed bool) (*models.Quest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.rows[questKey{userID, id}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	q.Completed = completed
	f.rows[questKey{userID, id}] = q
	return &q, nil
}

func (f *fakeQuestStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, questKey{userID, id})
	return nil
}

type fakeLeadStore struct {
	mu    sync.Mutex
	leads []string
}

func (f *fakeLeadStore) Create(ctx context.Context, email string) (*models.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.leads = append(f.leads, email)
	return &models.Lead{ID: uuid.New(), Email: email}, nil
}

type fakeUserStore struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{rows: map[uuid.UUID]*models.User{}}
}

func (f *fakeUserStore) Create(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	cp := *user
	f.rows[user.ID] = &cp
	return nil
}

func (f *fakeUserStore) find(match func(*models.User) bool) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.rows {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.ID == id })
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return strings.EqualFold(u.Email, email) })
}

func (f *fakeUserStore) GetByConfirmationToken(ctx context.Context, token string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.ConfirmationToken != nil && *u.ConfirmationToken == token })
}

func (f *fakeUserStore) SetConfirmationToken(ctx context.Context, id uuid.UUID, token string, sentAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.ConfirmationToken = &token
	u.ConfirmationSentAt = &sentAt
	return nil
}

func (f *fakeUserStore) MarkConfirmed(ctx context.Context, id uuid.UUID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.EmailConfirmedAt = &at
	u.ConfirmationToken = nil
	return nil
}

type fakeSessionStore struct {
	mu   sync.Mutex
	rows map[uuid.UUID]models.AuthSession
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{rows: map[uuid.UUID]models.AuthSession{}}
}

func (f *fakeSessionStore) Create(ctx context.Context, s *models.AuthSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s.CreatedAt = time.Now()
	f.rows[s.ID] = *s
	return nil
}

func (f *fakeSessionStore) GetByID(ctx context.Context, id uuid.UUID) (*models.AuthSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (f *fakeSessionStore) Revoke(ctx context.Context, id uuid.UUID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.rows[id]
	if ok && s.RevokedAt == nil {
		s.RevokedAt = &at
		f.rows[id] = s
	}
	return nil
}

// spyGenerator counts calls and returns a fixed response
type spyGenerator struct {
	mu       sync.Mutex
	calls    int
	requests []GenerationRequest
	response string
	err      error
}

func (s *spyGenerator) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.requests = append(s.requests, req)
	return s.response, s.err
}

func strPtr(s string) *string { return &s }

func sessionContext(email string) (context.Context, uuid.UUID) {
	id := uuid.New()
	ctx := ContextWithSession(context.Background(), &models.Session{
		ID:   uuid.New(),
		User: models.User{ID: id, Email: email},
	})
	return ctx, id
}
