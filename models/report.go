package models

// ReportKind identifies one of the AI narration outputs
type ReportKind string

const (
	ReportEntryInsight  ReportKind = "entry_insight"
	ReportTrendsSummary ReportKind = "trends_summary"
	ReportRangeAnalysis ReportKind = "range_report"
)

// ReportAnalysis is the structured wellness report for a date range
type ReportAnalysis struct {
	Summary          string `json:"summary"`
	EmotionFrequency string `json:"emotionFrequency"`
	IntensityTrend   string `json:"intensityTrend"`
	Insights         string `json:"insights"`
}

// MissingFields lists the report fields that came back empty
func (r ReportAnalysis) MissingFields() []string {
	var missing []string
	if r.Summary == "" {
		missing = append(missing, "summary")
	}
	if r.EmotionFrequency == "" {
		missing = append(missing, "emotionFrequency")
	}
	if r.IntensityTrend == "" {
		missing = append(missing, "intensityTrend")
	}
	if r.Insights == "" {
		missing = append(missing, "insights")
	}
	return missing
}
