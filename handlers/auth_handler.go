package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"deltajournal-backend/middleware"
	"deltajournal-backend/models"
	"deltajournal-backend/service"

	"github.com/gin-gonic/gin"
)

const authKeepAlive = 25 * time.Second

// AuthHandler handles HTTP requests for the account gateway
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// CredentialsRequest represents the request body for sign-up and sign-in
type CredentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// EmailRequest represents the request body for resending a confirmation
type EmailRequest struct {
	Email string `json:"email" binding:"required"`
}

// ConfirmRequest represents the request body for confirming an email
type ConfirmRequest struct {
	Token string `json:"token" binding:"required"`
}

// SignUp handles POST /api/auth/signup
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	resp, err := h.auth.SignUp(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, gin.H{
		"user":                  resp.User,
		"session":               resp.Session,
		"confirmation_required": resp.Session == nil,
	})
}

// SignIn handles POST /api/auth/signin
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	resp, err := h.auth.SignInWithPassword(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, resp)
}

// Resend handles POST /api/auth/resend
func (h *AuthHandler) Resend(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	if err := h.auth.ResendConfirmation(c.Request.Context(), req.Email); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, nil)
}

// Confirm handles GET /api/auth/confirm?token= and POST /api/auth/confirm
func (h *AuthHandler) Confirm(c *gin.Context) {
	token := c.Query("token")
	if c.Request.Method == http.MethodPost {
		var req ConfirmRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondInvalid(c, err)
			return
		}
		token = req.Token
	}
	if token == "" {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "confirmation token is required")
		return
	}

	resp, err := h.auth.ConfirmEmail(c.Request.Context(), token)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, resp)
}

// Session handles GET /api/auth/session. A missing token, or a journal with no
// remote backend, yields an empty session.
func (h *AuthHandler) Session(c *gin.Context) {
	resp, err := h.auth.GetSession(c.Request.Context(), middleware.BearerToken(c))
	if errors.Is(err, service.ErrNotConfigured) {
		respondOK(c, http.StatusOK, &service.AuthResponse{})
		return
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, resp)
}

// SignOut handles POST /api/auth/signout
func (h *AuthHandler) SignOut(c *gin.Context) {
	if err := h.auth.SignOut(c.Request.Context()); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, nil)
}

type authStateMessage struct {
	Event   service.AuthEvent `json:"event"`
	Session *models.Session   `json:"session"`
}

// Events handles GET /api/auth/events, streaming the caller's session
// transitions as server-sent events until the client disconnects.
func (h *AuthHandler) Events(c *gin.Context) {
	current, ok := service.SessionFromContext(c.Request.Context())
	if !ok {
		respondServiceError(c, service.ErrNotAuthenticated)
		return
	}

	events := make(chan authStateMessage, 8)
	unsubscribe := h.auth.OnAuthStateChange(func(event service.AuthEvent, s *models.Session) {
		msg, ok := eventFor(current, event, s)
		if !ok {
			return
		}
		select {
		case events <- msg:
		default:
		}
	})
	defer unsubscribe()

	ticker := time.NewTicker(authKeepAlive)
	defer ticker.Stop()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case msg := <-events:
			c.SSEvent(string(msg.Event), msg)
			return msg.Event != service.EventSignedOut || msg.Session.ID != current.ID
		case <-ticker.C:
			c.SSEvent("keepalive", gin.H{"at": time.Now().UTC()})
			return true
		}
	})
}

// eventFor selects the transitions of the subscriber's own account. Sessions
// other than the subscriber's are sent without their access token.
func eventFor(current *models.Session, event service.AuthEvent, s *models.Session) (authStateMessage, bool) {
	if s == nil || s.User.ID != current.User.ID {
		return authStateMessage{}, false
	}
	if s.ID != current.ID {
		redacted := *s
		redacted.AccessToken = ""
		s = &redacted
	}
	return authStateMessage{Event: event, Session: s}, true
}
