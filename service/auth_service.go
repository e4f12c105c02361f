package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"deltajournal-backend/config"
	"deltajournal-backend/logger"
	"deltajournal-backend/models"
	"deltajournal-backend/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthEvent names a session state transition
type AuthEvent string

const (
	EventSignedIn  AuthEvent = "SIGNED_IN"
	EventSignedOut AuthEvent = "SIGNED_OUT"
)

const minPasswordLength = 6

// AuthResponse carries the outcome of an auth call. Session is nil when the
// account still needs email confirmation or the backend is unconfigured.
type AuthResponse struct {
	User    *models.User    `json:"user"`
	Session *models.Session `json:"session"`
}

// AuthStateCallback receives session transitions. For EventSignedOut the
// session is the one that just ended.
type AuthStateCallback func(event AuthEvent, session *models.Session)

// UserStore persists accounts
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByConfirmationToken(ctx context.Context, token string) (*models.User, error)
	SetConfirmationToken(ctx context.Context, id uuid.UUID, token string, sentAt time.Time) error
	MarkConfirmed(ctx context.Context, id uuid.UUID, at time.Time) error
}

// SessionStore persists issued sessions
type SessionStore interface {
	Create(ctx context.Context, s *models.AuthSession) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.AuthSession, error)
	Revoke(ctx context.Context, id uuid.UUID, at time.Time) error
}

type sessionClaims struct {
	Email     string `json:"email"`
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

type subscriber struct {
	id int
	cb AuthStateCallback
}

// AuthService is the account gateway of the remote backend. When the backend is
// unconfigured every call returns an empty result and ErrNotConfigured.
type AuthService struct {
	configured          bool
	users               UserStore
	sessions            SessionStore
	mailer              Mailer
	secret              []byte
	ttl                 time.Duration
	requireConfirmation bool
	confirmURL          string
	now                 func() time.Time

	mu          sync.RWMutex
	subscribers []subscriber
	nextID      int
}

// AuthServiceOption is a functional option for AuthService
type AuthServiceOption func(*AuthService)

// WithUserStore sets the account store
func WithUserStore(store UserStore) AuthServiceOption {
	return func(s *AuthService) {
		s.users = store
	}
}

// WithSessionStore sets the session store
func WithSessionStore(store SessionStore) AuthServiceOption {
	return func(s *AuthService) {
		s.sessions = store
	}
}

// WithMailer sets how confirmation emails are delivered
func WithMailer(m Mailer) AuthServiceOption {
	return func(s *AuthService) {
		s.mailer = m
	}
}

// WithAuthClock overrides the time source
func WithAuthClock(now func() time.Time) AuthServiceOption {
	return func(s *AuthService) {
		s.now = now
	}
}

// NewAuthService creates the auth gateway from the remote backend configuration
func NewAuthService(cfg config.RemoteConfig, opts ...AuthServiceOption) *AuthService {
	s := &AuthService{
		configured:          cfg.Configured(),
		secret:              []byte(cfg.AccessKey),
		ttl:                 cfg.SessionTTL,
		requireConfirmation: cfg.RequireEmailConfirmation,
		confirmURL:          cfg.ConfirmURL,
		mailer:              LogMailer{},
		now:                 time.Now,
	}
	if s.ttl <= 0 {
		s.ttl = 7 * 24 * time.Hour
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Configured reports whether the gateway talks to a backend
func (s *AuthService) Configured() bool { return s.configured }

func (s *AuthService) ready() error {
	if !s.configured {
		return ErrNotConfigured
	}
	if s.users == nil || s.sessions == nil {
		return errors.New("auth stores not set")
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp creates an account. With email confirmation required the response
// carries the user but no session.
func (s *AuthService) SignUp(ctx context.Context, email, password string) (*AuthResponse, error) {
	if err := s.ready(); err != nil {
		return &AuthResponse{}, err
	}

	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return &AuthResponse{}, ErrInvalidEmail
	}
	if len(password) < minPasswordLength {
		return &AuthResponse{}, ErrWeakPassword
	}

	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return &AuthResponse{}, ErrEmailTaken
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return &AuthResponse{}, fmt.Errorf("sign up: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return &AuthResponse{}, fmt.Errorf("sign up: hash password: %w", err)
	}

	now := s.now().UTC()
	user := &models.User{Email: email, PasswordHash: string(hash)}
	if s.requireConfirmation {
		token := uuid.NewString()
		user.ConfirmationToken = &token
		user.ConfirmationSentAt = &now
	} else {
		user.EmailConfirmedAt = &now
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return &AuthResponse{}, ErrEmailTaken
		}
		return &AuthResponse{}, fmt.Errorf("sign up: %w", err)
	}
	logger.Info("auth: account created", "user_id", user.ID, "confirmation_required", s.requireConfirmation)

	if s.requireConfirmation {
		if err := s.mailer.SendConfirmation(ctx, email, s.confirmLink(*user.ConfirmationToken)); err != nil {
			logger.Warn("auth: failed to send confirmation", "user_id", user.ID, "error", err)
		}
		return &AuthResponse{User: user}, nil
	}

	session, err := s.issueSession(ctx, user)
	if err != nil {
		return &AuthResponse{User: user}, err
	}
	s.emit(EventSignedIn, session)
	return &AuthResponse{User: user, Session: session}, nil
}

// SignInWithPassword authenticates an account and opens a session
func (s *AuthService) SignInWithPassword(ctx context.Context, email, password string) (*AuthResponse, error) {
	if err := s.ready(); err != nil {
		return &AuthResponse{}, err
	}

	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return &AuthResponse{}, ErrInvalidCredentials
	}
	if err != nil {
		return &AuthResponse{}, fmt.Errorf("sign in: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return &AuthResponse{}, ErrInvalidCredentials
	}
	if s.requireConfirmation && !user.Confirmed() {
		return &AuthResponse{User: user}, ErrEmailNotConfirmed
	}

	session, err := s.issueSession(ctx, user)
	if err != nil {
		return &AuthResponse{User: user}, err
	}
	s.emit(EventSignedIn, session)
	return &AuthResponse{User: user, Session: session}, nil
}

// SignOut revokes the session carried by ctx. Without one it does nothing.
func (s *AuthService) SignOut(ctx context.Context) error {
	if err := s.ready(); err != nil {
		return err
	}

	session, ok := SessionFromContext(ctx)
	if !ok {
		return nil
	}
	if err := s.sessions.Revoke(ctx, session.ID, s.now().UTC()); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	logger.Info("auth: signed out", "user_id", session.User.ID)
	s.emit(EventSignedOut, session)
	return nil
}

// GetSession resolves an access token. An empty token yields an empty response.
func (s *AuthService) GetSession(ctx context.Context, accessToken string) (*AuthResponse, error) {
	if err := s.ready(); err != nil {
		return &AuthResponse{}, err
	}
	if accessToken == "" {
		return &AuthResponse{}, nil
	}

	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(accessToken, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return &AuthResponse{}, ErrInvalidToken
	}

	sid, err := uuid.Parse(claims.SessionID)
	if err != nil {
		return &AuthResponse{}, ErrInvalidToken
	}
	stored, err := s.sessions.GetByID(ctx, sid)
	if errors.Is(err, repository.ErrNotFound) {
		return &AuthResponse{}, ErrInvalidToken
	}
	if err != nil {
		return &AuthResponse{}, fmt.Errorf("get session: %w", err)
	}
	if !stored.Active(s.now()) {
		return &AuthResponse{}, ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, stored.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return &AuthResponse{}, ErrInvalidToken
	}
	if err != nil {
		return &AuthResponse{}, fmt.Errorf("get session: %w", err)
	}

	session := &models.Session{
		ID:          stored.ID,
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresAt:   stored.ExpiresAt,
		User:        *user,
	}
	return &AuthResponse{User: user, Session: session}, nil
}

// ResendConfirmation issues a fresh confirmation link. Unknown or already
// confirmed addresses are ignored so callers cannot probe for accounts.
func (s *AuthService) ResendConfirmation(ctx context.Context, email string) error {
	if err := s.ready(); err != nil {
		return err
	}

	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("resend confirmation: %w", err)
	}
	if user.Confirmed() {
		return nil
	}

	token := uuid.NewString()
	if err := s.users.SetConfirmationToken(ctx, user.ID, token, s.now().UTC()); err != nil {
		return fmt.Errorf("resend confirmation: %w", err)
	}
	return s.mailer.SendConfirmation(ctx, user.Email, s.confirmLink(token))
}

// ConfirmEmail consumes a confirmation token and signs the account in
func (s *AuthService) ConfirmEmail(ctx context.Context, token string) (*AuthResponse, error) {
	if err := s.ready(); err != nil {
		return &AuthResponse{}, err
	}
	if token == "" {
		return &AuthResponse{}, ErrInvalidToken
	}

	user, err := s.users.GetByConfirmationToken(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		return &AuthResponse{}, ErrInvalidToken
	}
	if err != nil {
		return &AuthResponse{}, fmt.Errorf("confirm email: %w", err)
	}

	now := s.now().UTC()
	if err := s.users.MarkConfirmed(ctx, user.ID, now); err != nil {
		return &AuthResponse{}, fmt.Errorf("confirm email: %w", err)
	}
	user.EmailConfirmedAt = &now
	user.ConfirmationToken = nil

	session, err := s.issueSession(ctx, user)
	if err != nil {
		return &AuthResponse{User: user}, err
	}
	s.emit(EventSignedIn, session)
	return &AuthResponse{User: user, Session: session}, nil
}

// OnAuthStateChange registers cb for session transitions and returns a
// function that removes it. Callbacks run synchronously in registration order.
func (s *AuthService) OnAuthStateChange(cb AuthStateCallback) (unsubscribe func()) {
	if !s.configured || cb == nil {
		return func() {}
	}

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subscribers = append(s.subscribers, subscriber{id: id, cb: cb})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.subscribers {
				if sub.id == id {
					s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
					return
				}
			}
		})
	}
}

func (s *AuthService) emit(event AuthEvent, session *models.Session) {
	s.mu.RLock()
	subs := make([]subscriber, len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.RUnlock()

	for _, sub := range subs {
		sub.cb(event, session)
	}
}

func (s *AuthService) issueSession(ctx context.Context, user *models.User) (*models.Session, error) {
	now := s.now().UTC()
	stored := &models.AuthSession{
		ID:        uuid.New(),
		UserID:    user.ID,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessions.Create(ctx, stored); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	claims := sessionClaims{
		Email:     user.Email,
		SessionID: stored.ID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(stored.ExpiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign session: %w", err)
	}

	return &models.Session{
		ID:          stored.ID,
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   stored.ExpiresAt,
		User:        *user,
	}, nil
}

func (s *AuthService) confirmLink(token string) string {
	return s.confirmURL + "?token=" + url.QueryEscape(token)
}
