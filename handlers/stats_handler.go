package handlers

import (
	"errors"
	"net/http"
	"time"

	"deltajournal-backend/models"
	"deltajournal-backend/service"

	"github.com/gin-gonic/gin"
)

// StatsHandler handles HTTP requests for journal statistics
type StatsHandler struct {
	data service.DataService
	now  func() time.Time
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(data service.DataService, now func() time.Time) *StatsHandler {
	if now == nil {
		now = time.Now
	}
	return &StatsHandler{data: data, now: now}
}

// Monthly handles GET /api/stats/monthly. With ?month=YYYY-MM only that month
// is summarized; otherwise every past month is returned, newest first.
func (h *StatsHandler) Monthly(c *gin.Context) {
	entries, err := h.data.GetEntries(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if m := c.Query("month"); m != "" {
		month, err := time.Parse(monthLayout, m)
		if err != nil {
			respondInvalid(c, errors.New("month must be formatted as YYYY-MM"))
			return
		}
		respondOK(c, http.StatusOK, service.MonthSummary(entries, month.Year(), int(month.Month())))
		return
	}

	respondOK(c, http.StatusOK, service.MonthlySummaries(entries, h.now()))
}

// PNL handles GET /api/stats/pnl with optional ?start= and ?end= bounds
func (h *StatsHandler) PNL(c *gin.Context) {
	entries, err := h.data.GetEntries(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	start, end := c.Query("start"), c.Query("end")
	if start != "" || end != "" {
		if start == "" {
			start = "0000-01-01"
		}
		if end == "" {
			end = "9999-12-31"
		}
		if err := validateRange(start, end); err != nil {
			respondInvalid(c, err)
			return
		}
		filtered := service.RangeEntries(entries, start, end)
		entries = make(map[string]models.EmotionEntry, len(filtered))
		for _, e := range filtered {
			entries[e.Date] = e
		}
	}

	respondOK(c, http.StatusOK, service.PNLStatistics(entries))
}
