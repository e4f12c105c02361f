package service

import (
	"testing"
	"time"

	"deltajournal-backend/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entryMap(entries ...models.EmotionEntry) map[string]models.EmotionEntry {
	m := make(map[string]models.EmotionEntry, len(entries))
	for _, e := range entries {
		m[e.Date] = e
	}
	return m
}

func TestMonthlySummaries(t *testing.T) {
	entries := entryMap(
		models.EmotionEntry{Date: "2024-01-03", Emotion: models.EmotionSad, Intensity: 4},
		models.EmotionEntry{Date: "2024-01-04", Emotion: models.EmotionSad, Intensity: 5},
		models.EmotionEntry{Date: "2024-01-05", Emotion: models.EmotionHappy, Intensity: 8},
		models.EmotionEntry{Date: "2023-12-31", Emotion: models.EmotionCalm, Intensity: 6},
		models.EmotionEntry{Date: "2024-02-10", Emotion: models.EmotionAngry, Intensity: 9},
	)
	now := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)

	summaries := MonthlySummaries(entries, now)
	require.Len(t, summaries, 2, "current month is excluded")

	jan := summaries[0]
	assert.Equal(t, 2024, jan.Year)
	assert.Equal(t, 1, jan.Month)
	assert.Equal(t, 3, jan.TotalEntries)
	assert.Equal(t, string(models.EmotionSad), jan.MostFrequent)
	assert.Equal(t, 5.7, jan.AvgIntensity)
	assert.Equal(t, 2, jan.EmotionCounts[models.EmotionSad])
	assert.Equal(t, 0, jan.EmotionCounts[models.EmotionAnxious])
	assert.Len(t, jan.EmotionCounts, len(models.Emotions))

	assert.Equal(t, 2023, summaries[1].Year)
	assert.Equal(t, 12, summaries[1].Month)
}

func TestMonthSummaryEmpty(t *testing.T) {
	s := MonthSummary(map[string]models.EmotionEntry{}, 2024, 3)
	assert.Equal(t, models.NotApplicable, s.MostFrequent)
	assert.Zero(t, s.AvgIntensity)
	assert.Zero(t, s.TotalEntries)
}

func TestMonthSummaryTieGoesToDisplayOrder(t *testing.T) {
	entries := entryMap(
		models.EmotionEntry{Date: "2024-03-01", Emotion: models.EmotionAngry, Intensity: 3},
		models.EmotionEntry{Date: "2024-03-02", Emotion: models.EmotionCalm, Intensity: 3},
	)
	s := MonthSummary(entries, 2024, 3)
	assert.Equal(t, string(models.EmotionCalm), s.MostFrequent)
}

func TestPNLStatistics(t *testing.T) {
	d := decimal.RequireFromString
	p := func(s string) *decimal.Decimal { v := d(s); return &v }

	entries := entryMap(
		models.EmotionEntry{Date: "2024-03-01", Emotion: models.EmotionHappy, Intensity: 7, PnL: p("100.50"),
			TradingData: &models.TradingData{Trades: []models.Trade{{ID: "1", Type: models.TradeLong}, {ID: "2", Type: models.TradePut}}}},
		models.EmotionEntry{Date: "2024-03-02", Emotion: models.EmotionAnxious, Intensity: 8, PnL: p("-40")},
		models.EmotionEntry{Date: "2024-03-03", Emotion: models.EmotionHappy, Intensity: 6, PnL: p("0")},
		models.EmotionEntry{Date: "2024-03-04", Emotion: models.EmotionCalm, Intensity: 5},
	)

	stats := PNLStatistics(entries)
	assert.Equal(t, 3, stats.Days)
	assert.True(t, d("60.5").Equal(stats.TotalPNL), stats.TotalPNL.String())
	assert.True(t, d("20.17").Equal(stats.AvgPNL), stats.AvgPNL.String())
	assert.Equal(t, 33, stats.WinRate)
	assert.Equal(t, 1, stats.WinDays)
	assert.Equal(t, 1, stats.LossDays)
	assert.Equal(t, 2, stats.TotalTrades)
	assert.True(t, d("50.25").Equal(stats.AvgPNLByEmotion[models.EmotionHappy]))
	assert.True(t, d("-40").Equal(stats.AvgPNLByEmotion[models.EmotionAnxious]))

	require.Len(t, stats.EquityCurve, 3)
	assert.Equal(t, "2024-03-01", stats.EquityCurve[0].Date)
	assert.True(t, d("60.5").Equal(stats.EquityCurve[2].Total))
}

func TestPNLStatisticsEmpty(t *testing.T) {
	stats := PNLStatistics(nil)
	assert.Zero(t, stats.Days)
	assert.True(t, stats.TotalPNL.IsZero())
	assert.Zero(t, stats.WinRate)
	assert.Empty(t, stats.EquityCurve)
}

func TestRangeAndMonthEntries(t *testing.T) {
	entries := entryMap(
		models.EmotionEntry{Date: "2024-02-29"},
		models.EmotionEntry{Date: "2024-03-05"},
		models.EmotionEntry{Date: "2024-03-01"},
		models.EmotionEntry{Date: "2024-04-01"},
	)

	march := MonthEntries(entries, 2024, 3)
	require.Len(t, march, 2)
	assert.Equal(t, "2024-03-01", march[0].Date)

	ranged := RangeEntries(entries, "2024-02-29", "2024-03-05")
	require.Len(t, ranged, 3)
	assert.Equal(t, "2024-02-29", ranged[0].Date)
	assert.Equal(t, "2024-03-05", ranged[2].Date)
}
