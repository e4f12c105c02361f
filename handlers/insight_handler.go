package handlers

import (
	"errors"
	"net/http"
	"time"

	"deltajournal-backend/models"
	"deltajournal-backend/service"

	"github.com/gin-gonic/gin"
)

const monthLayout = "2006-01"

// InsightHandler handles HTTP requests for AI narration
type InsightHandler struct {
	data     service.DataService
	insights *service.InsightService
	now      func() time.Time
}

// NewInsightHandler creates a new insight handler
func NewInsightHandler(data service.DataService, insights *service.InsightService, now func() time.Time) *InsightHandler {
	if now == nil {
		now = time.Now
	}
	return &InsightHandler{data: data, insights: insights, now: now}
}

// EntryInsightRequest names a stored entry by date or carries one inline
type EntryInsightRequest struct {
	Date  string               `json:"date"`
	Entry *models.EmotionEntry `json:"entry"`
}

// EntryInsight handles POST /api/insights/entry
func (h *InsightHandler) EntryInsight(c *gin.Context) {
	var req EntryInsightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	var entry models.EmotionEntry
	switch {
	case req.Entry != nil:
		entry = *req.Entry
	case req.Date != "":
		entries, err := h.data.GetEntries(c.Request.Context())
		if err != nil {
			respondServiceError(c, err)
			return
		}
		stored, ok := entries[req.Date]
		if !ok {
			respondServiceError(c, service.ErrNotFound)
			return
		}
		entry = stored
	default:
		respondInvalid(c, errors.New("either date or entry is required"))
		return
	}

	text, err := h.insights.EntryInsight(c.Request.Context(), entry)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"date": entry.Date, "insight": text})
}

// TrendsRequest selects the month to summarize as YYYY-MM
type TrendsRequest struct {
	Month string `json:"month"`
}

// Trends handles POST /api/insights/trends. The month defaults to the current one.
func (h *InsightHandler) Trends(c *gin.Context) {
	var req TrendsRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondInvalid(c, err)
			return
		}
	}

	month := h.now()
	if req.Month != "" {
		parsed, err := time.Parse(monthLayout, req.Month)
		if err != nil {
			respondInvalid(c, errors.New("month must be formatted as YYYY-MM"))
			return
		}
		month = parsed
	}

	entries, err := h.data.GetEntries(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	text, err := h.insights.TrendsSummary(c.Request.Context(),
		service.MonthEntries(entries, month.Year(), int(month.Month())))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"month": month.Format(monthLayout), "summary": text})
}

// ReportRequest bounds the report range, inclusive
type ReportRequest struct {
	Start string `json:"start" binding:"required"`
	End   string `json:"end" binding:"required"`
}

// Report handles POST /api/insights/report
func (h *InsightHandler) Report(c *gin.Context) {
	var req ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}
	if err := validateRange(req.Start, req.End); err != nil {
		respondInvalid(c, err)
		return
	}

	entries, err := h.data.GetEntries(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	report, err := h.insights.ReportAnalysis(c.Request.Context(),
		service.RangeEntries(entries, req.Start, req.End), req.Start, req.End)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, report)
}

func validateRange(start, end string) error {
	s, err := time.Parse(models.DateLayout, start)
	if err != nil {
		return errors.New("start must be formatted as YYYY-MM-DD")
	}
	e, err := time.Parse(models.DateLayout, end)
	if err != nil {
		return errors.New("end must be formatted as YYYY-MM-DD")
	}
	if e.Before(s) {
		return errors.New("end must not be before start")
	}
	return nil
}
