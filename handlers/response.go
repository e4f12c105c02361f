package handlers

import (
	"errors"
	"net/http"

	"deltajournal-backend/logger"
	"deltajournal-backend/repository"
	"deltajournal-backend/service"

	"github.com/gin-gonic/gin"
)

func respondOK(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// respondServiceError maps a service or repository error onto the HTTP envelope
func respondServiceError(c *gin.Context, err error) {
	if se, ok := repository.AsSchemaError(err); ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SCHEMA_MISMATCH",
				"message": err.Error(),
				"details": gin.H{
					"problem": se.Problem,
					"table":   se.Table,
					"column":  se.Column,
					"remedy":  se.Remedy,
				},
			},
		})
		return
	}

	var genErr *service.GenerationError
	switch {
	case errors.Is(err, service.ErrNotAuthenticated):
		respondError(c, http.StatusUnauthorized, "NOT_AUTHENTICATED", err.Error())
	case errors.Is(err, service.ErrInvalidToken):
		respondError(c, http.StatusUnauthorized, "INVALID_TOKEN", err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", err.Error())
	case errors.Is(err, service.ErrEmailNotConfirmed):
		respondError(c, http.StatusForbidden, "EMAIL_NOT_CONFIRMED", err.Error())
	case errors.Is(err, service.ErrEmailTaken):
		respondError(c, http.StatusConflict, "EMAIL_TAKEN", err.Error())
	case errors.Is(err, service.ErrInvalidEmail), errors.Is(err, service.ErrWeakPassword):
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
	case errors.Is(err, service.ErrNotConfigured):
		respondError(c, http.StatusServiceUnavailable, "NOT_CONFIGURED", err.Error())
	case errors.Is(err, service.ErrAINotConfigured):
		respondError(c, http.StatusServiceUnavailable, "AI_NOT_CONFIGURED", err.Error())
	case errors.Is(err, service.ErrNotFound):
		respondError(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.As(err, &genErr):
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "GENERATION_FAILED",
				"message": err.Error(),
				"details": gin.H{"report": genErr.Report},
			},
		})
	default:
		logger.Error("unhandled error", "path", c.FullPath(), "error", err)
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	}
}

func respondInvalid(c *gin.Context, err error) {
	respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
}

// RenderErrors answers requests that a middleware aborted with c.Error and no
// response, using the same mapping as the handlers.
func RenderErrors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		respondServiceError(c, c.Errors.Last().Err)
	}
}
