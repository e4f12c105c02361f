package middleware

import (
	"errors"
	"net/http"
	"strings"

	"deltajournal-backend/service"

	"github.com/gin-gonic/gin"
)

// BearerToken extracts the access token from the Authorization header, or from
// the access_token query parameter for EventSource clients that cannot set headers.
func BearerToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return c.Query("access_token")
}

// RequireSession resolves the bearer token into a session and stores it in the
// request context. With remote disabled the request passes through untouched.
// Lookup failures other than a rejected token are attached with c.Error and the
// request is aborted for an error-rendering middleware to answer.
func RequireSession(auth *service.AuthService, remote bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !remote {
			c.Next()
			return
		}

		token := BearerToken(c)
		if token == "" {
			abortUnauthorized(c, "NOT_AUTHENTICATED", service.ErrNotAuthenticated.Error())
			return
		}

		resp, err := auth.GetSession(c.Request.Context(), token)
		switch {
		case errors.Is(err, service.ErrInvalidToken):
			abortUnauthorized(c, "INVALID_TOKEN", service.ErrInvalidToken.Error())
			return
		case err != nil:
			_ = c.Error(err)
			c.Abort()
			return
		case resp.Session == nil:
			abortUnauthorized(c, "INVALID_TOKEN", service.ErrInvalidToken.Error())
			return
		}

		c.Request = c.Request.WithContext(service.ContextWithSession(c.Request.Context(), resp.Session))
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
