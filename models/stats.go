package models

import "github.com/shopspring/decimal"

// NotApplicable marks a statistic with no data behind it
const NotApplicable = "N/A"

// MonthlySummary aggregates one calendar month of entries
type MonthlySummary struct {
	Year          int                 `json:"year"`
	Month         int                 `json:"month"` // 1-12
	TotalEntries  int                 `json:"totalEntries"`
	MostFrequent  string              `json:"mostFrequent"` // emotion or N/A
	AvgIntensity  float64             `json:"avgIntensity"`
	EmotionCounts map[EmotionType]int `json:"emotionCounts"`
}

// EquityPoint is one step of the running P&L total
type EquityPoint struct {
	Date  string          `json:"date"`
	Total decimal.Decimal `json:"total"`
}

// PNLStats correlates daily profit/loss with logged emotions
type PNLStats struct {
	Days            int                             `json:"days"`
	TotalPNL        decimal.Decimal                 `json:"totalPnl"`
	AvgPNL          decimal.Decimal                 `json:"avgPnl"`
	WinRate         int                             `json:"winRate"` // percent of days with pnl > 0
	WinDays         int                             `json:"winDays"`
	LossDays        int                             `json:"lossDays"`
	TotalTrades     int                             `json:"totalTrades"`
	AvgPNLByEmotion map[EmotionType]decimal.Decimal `json:"avgPnlByEmotion"`
	EquityCurve     []EquityPoint                   `json:"equityCurve"`
}

// JournalSnapshot is everything the client needs to render after sign-in
type JournalSnapshot struct {
	Entries map[string]EmotionEntry `json:"entries"`
	Profile *UserProfile            `json:"profile"`
	Quests  []Quest                 `json:"quests"`
	Remote  bool                    `json:"remote"`
}
