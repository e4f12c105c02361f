package service

import (
	"context"

	"deltajournal-backend/models"
)

type sessionKey struct{}

// ContextWithSession returns a copy of ctx carrying the authenticated session
func ContextWithSession(ctx context.Context, s *models.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFromContext returns the session stored by ContextWithSession
func SessionFromContext(ctx context.Context) (*models.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*models.Session)
	return s, ok && s != nil
}
