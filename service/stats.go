package service

import (
	"math"
	"sort"
	"time"

	"deltajournal-backend/models"

	"github.com/shopspring/decimal"
)

// MonthSummary aggregates the entries dated in year/month
func MonthSummary(entries map[string]models.EmotionEntry, year, month int) models.MonthlySummary {
	return summarize(year, month, MonthEntries(entries, year, month))
}

// MonthlySummaries aggregates every past month that has entries, newest first.
// The month containing now is still in progress and is left out.
func MonthlySummaries(entries map[string]models.EmotionEntry, now time.Time) []models.MonthlySummary {
	current := now.Format("2006-01")
	grouped := map[string][]models.EmotionEntry{}
	for date, e := range entries {
		if len(date) < 7 || date[:7] == current {
			continue
		}
		grouped[date[:7]] = append(grouped[date[:7]], e)
	}

	summaries := make([]models.MonthlySummary, 0, len(grouped))
	for key, monthEntries := range grouped {
		t, err := time.Parse("2006-01", key)
		if err != nil {
			continue
		}
		sortByDate(monthEntries)
		summaries = append(summaries, summarize(t.Year(), int(t.Month()), monthEntries))
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Year != summaries[j].Year {
			return summaries[i].Year > summaries[j].Year
		}
		return summaries[i].Month > summaries[j].Month
	})
	return summaries
}

func summarize(year, month int, entries []models.EmotionEntry) models.MonthlySummary {
	counts := make(map[models.EmotionType]int, len(models.Emotions))
	for _, e := range models.Emotions {
		counts[e] = 0
	}

	total := 0
	for _, e := range entries {
		counts[e.Emotion]++
		total += e.Intensity
	}

	// ties go to the earlier emotion in display order
	mostFrequent := models.NotApplicable
	best := 0
	for _, e := range models.Emotions {
		if counts[e] > best {
			best = counts[e]
			mostFrequent = string(e)
		}
	}

	avg := 0.0
	if len(entries) > 0 {
		avg = math.Round(float64(total)/float64(len(entries))*10) / 10
	}

	return models.MonthlySummary{
		Year:          year,
		Month:         month,
		TotalEntries:  len(entries),
		MostFrequent:  mostFrequent,
		AvgIntensity:  avg,
		EmotionCounts: counts,
	}
}

// PNLStatistics correlates daily P&L with emotions over the entries that carry a pnl
func PNLStatistics(entries map[string]models.EmotionEntry) models.PNLStats {
	var withPNL []models.EmotionEntry
	for _, e := range entries {
		if e.PnL != nil {
			withPNL = append(withPNL, e)
		}
	}
	sortByDate(withPNL)

	stats := models.PNLStats{
		Days:            len(withPNL),
		TotalPNL:        decimal.Zero,
		AvgPNL:          decimal.Zero,
		AvgPNLByEmotion: map[models.EmotionType]decimal.Decimal{},
		EquityCurve:     make([]models.EquityPoint, 0, len(withPNL)),
	}

	sums := map[models.EmotionType]decimal.Decimal{}
	days := map[models.EmotionType]int{}
	for _, e := range withPNL {
		pnl := *e.PnL
		stats.TotalPNL = stats.TotalPNL.Add(pnl)
		switch pnl.Sign() {
		case 1:
			stats.WinDays++
		case -1:
			stats.LossDays++
		}
		if e.TradingData != nil {
			stats.TotalTrades += len(e.TradingData.Trades)
		}
		sums[e.Emotion] = sums[e.Emotion].Add(pnl)
		days[e.Emotion]++
		stats.EquityCurve = append(stats.EquityCurve, models.EquityPoint{Date: e.Date, Total: stats.TotalPNL})
	}

	if stats.Days > 0 {
		stats.AvgPNL = stats.TotalPNL.Div(decimal.NewFromInt(int64(stats.Days))).Round(2)
		stats.WinRate = int(math.Round(float64(stats.WinDays) / float64(stats.Days) * 100))
	}
	for emotion, sum := range sums {
		stats.AvgPNLByEmotion[emotion] = sum.Div(decimal.NewFromInt(int64(days[emotion]))).Round(2)
	}
	return stats
}
