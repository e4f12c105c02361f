package handlers

import (
	"context"
	"sync"
	"time"

	"deltajournal-backend/models"
	"deltajournal-backend/repository"

	"github.com/google/uuid"
)

type memoryUsers struct {
	mu   sync.Mutex
	rows map[uuid.UUID]models.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{rows: map[uuid.UUID]models.User{}}
}

func (m *memoryUsers) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	m.rows[user.ID] = *user
	return nil
}

func (m *memoryUsers) first(match func(models.User) bool) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.rows {
		if match(u) {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memoryUsers) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return m.first(func(u models.User) bool { return u.ID == id })
}

func (m *memoryUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.first(func(u models.User) bool { return u.Email == email })
}

func (m *memoryUsers) GetByConfirmationToken(ctx context.Context, token string) (*models.User, error) {
	return m.first(func(u models.User) bool { return u.ConfirmationToken != nil && *u.ConfirmationToken == token })
}

func (m *memoryUsers) SetConfirmationToken(ctx context.Context, id uuid.UUID, token string, sentAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.ConfirmationToken = &token
	u.ConfirmationSentAt = &sentAt
	m.rows[id] = u
	return nil
}

func (m *memoryUsers) MarkConfirmed(ctx context.Context, id uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.EmailConfirmedAt = &at
	u.ConfirmationToken = nil
	m.rows[id] = u
	return nil
}

// memorySessions fails every lookup with lookupErr when it is set
type memorySessions struct {
	mu        sync.Mutex
	rows      map[uuid.UUID]models.AuthSession
	lookupErr error
}

func newMemorySessions() *memorySessions {
	return &memorySessions{rows: map[uuid.UUID]models.AuthSession{}}
}

func (m *memorySessions) Create(ctx context.Context, s *models.AuthSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	m.rows[s.ID] = *s
	return nil
}

func (m *memorySessions) GetByID(ctx context.Context, id uuid.UUID) (*models.AuthSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	s, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (m *memorySessions) Revoke(ctx context.Context, id uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.RevokedAt = &at
	m.rows[id] = s
	return nil
}
