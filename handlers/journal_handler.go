package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"deltajournal-backend/models"
	"deltajournal-backend/service"

	"github.com/gin-gonic/gin"
)

// JournalHandler handles HTTP requests for entries, profile, quests, and leads
type JournalHandler struct {
	data service.DataService
}

// NewJournalHandler creates a new journal handler
func NewJournalHandler(data service.DataService) *JournalHandler {
	return &JournalHandler{data: data}
}

// Backend handles GET /api/backend
func (h *JournalHandler) Backend(c *gin.Context) {
	respondOK(c, http.StatusOK, gin.H{"remote": h.data.IsRemote()})
}

// Bootstrap handles GET /api/bootstrap
func (h *JournalHandler) Bootstrap(c *gin.Context) {
	snap, err := service.LoadSnapshot(c.Request.Context(), h.data)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, snap)
}

// ListEntries handles GET /api/entries
func (h *JournalHandler) ListEntries(c *gin.Context) {
	entries, err := h.data.GetEntries(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, entries)
}

// SaveEntry handles PUT /api/entries/:date
func (h *JournalHandler) SaveEntry(c *gin.Context) {
	var entry models.EmotionEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		respondInvalid(c, err)
		return
	}

	date := c.Param("date")
	if entry.Date == "" {
		entry.Date = date
	}
	if entry.Date != date {
		respondInvalid(c, errors.New("entry date does not match the URL"))
		return
	}
	if err := entry.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		return
	}

	saved, err := h.data.SaveEntry(c.Request.Context(), entry)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, saved)
}

// DeleteEntry handles DELETE /api/entries/:date
func (h *JournalHandler) DeleteEntry(c *gin.Context) {
	date := c.Param("date")
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_FAILED", "date must be YYYY-MM-DD")
		return
	}

	if err := h.data.DeleteEntry(c.Request.Context(), date); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, nil)
}

// GetProfile handles GET /api/profile
func (h *JournalHandler) GetProfile(c *gin.Context) {
	profile, err := h.data.GetProfile(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, profile)
}

// SaveProfile handles PUT /api/profile
func (h *JournalHandler) SaveProfile(c *gin.Context) {
	var profile models.UserProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		respondInvalid(c, err)
		return
	}
	if strings.TrimSpace(profile.Name) == "" || strings.TrimSpace(profile.Alias) == "" {
		respondError(c, http.StatusBadRequest, "VALIDATION_FAILED", "name and alias are required")
		return
	}

	saved, err := h.data.SaveProfile(c.Request.Context(), profile)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, saved)
}

// ListQuests handles GET /api/quests
func (h *JournalHandler) ListQuests(c *gin.Context) {
	quests, err := h.data.GetQuests(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, quests)
}

// AddQuestRequest represents the request body for creating a quest
type AddQuestRequest struct {
	Text string `json:"text" binding:"required"`
}

// AddQuest handles POST /api/quests
func (h *JournalHandler) AddQuest(c *gin.Context) {
	var req AddQuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		respondError(c, http.StatusBadRequest, "VALIDATION_FAILED", "quest text is required")
		return
	}

	quest, err := h.data.AddQuest(c.Request.Context(), text)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, quest)
}

// UpdateQuestRequest represents the request body for toggling a quest
type UpdateQuestRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}

// UpdateQuest handles PATCH /api/quests/:id
func (h *JournalHandler) UpdateQuest(c *gin.Context) {
	var req UpdateQuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	quest, err := h.data.UpdateQuestStatus(c.Request.Context(), c.Param("id"), *req.Completed)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, quest)
}

// DeleteQuest handles DELETE /api/quests/:id
func (h *JournalHandler) DeleteQuest(c *gin.Context) {
	if err := h.data.DeleteQuest(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, nil)
}

// AddLeadRequest represents the request body for email capture
type AddLeadRequest struct {
	Email string `json:"email" binding:"required"`
}

// AddLead handles POST /api/leads
func (h *JournalHandler) AddLead(c *gin.Context) {
	var req AddLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}
	email := strings.TrimSpace(req.Email)
	if !strings.Contains(email, "@") {
		respondError(c, http.StatusBadRequest, "VALIDATION_FAILED", "a valid email address is required")
		return
	}

	if err := h.data.AddLead(c.Request.Context(), email); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, nil)
}
