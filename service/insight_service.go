package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"deltajournal-backend/models"

	"github.com/google/generative-ai-go/genai"
)

// Canned results returned without calling the model
const (
	NoTrendsMessage = "Not enough data to generate a summary. Start by logging your emotions daily!"
)

// EmptyReport is returned for a date range without entries
func EmptyReport() models.ReportAnalysis {
	return models.ReportAnalysis{
		Summary:          "No entries found in the selected date range.",
		EmotionFrequency: "Not applicable.",
		IntensityTrend:   "Not applicable.",
		Insights:         "Log some entries in this period to generate a report.",
	}
}

var reportSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"summary": {
			Type:        genai.TypeString,
			Description: "A brief, high-level overview of the user's emotional state during this period. (2-3 sentences)",
		},
		"emotionFrequency": {
			Type:        genai.TypeString,
			Description: "Identify the most common emotions and their counts or percentages. Describe this pattern. (2-3 sentences)",
		},
		"intensityTrend": {
			Type:        genai.TypeString,
			Description: "Analyze the average emotional intensity. Was it high or low? Were there any noticeable spikes? (2-3 sentences)",
		},
		"insights": {
			Type:        genai.TypeString,
			Description: "Offer 2-3 thoughtful, actionable insights or reflective questions based on the data, speaking in a supportive and encouraging tone. (3-4 sentences)",
		},
	},
	Required: []string{"summary", "emotionFrequency", "intensityTrend", "insights"},
}

// InsightService turns journal entries into model-written reflections.
// Nothing is cached; every call is a full round trip.
type InsightService struct {
	gen TextGenerator
}

// InsightServiceOption is a functional option for InsightService
type InsightServiceOption func(*InsightService)

// WithTextGenerator sets the model backend
func WithTextGenerator(gen TextGenerator) InsightServiceOption {
	return func(s *InsightService) {
		s.gen = gen
	}
}

// NewInsightService creates a new insight service
func NewInsightService(opts ...InsightServiceOption) *InsightService {
	s := &InsightService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InsightService) generate(ctx context.Context, kind models.ReportKind, req GenerationRequest) (string, error) {
	if s.gen == nil {
		return "", &GenerationError{Report: kind, Err: ErrAINotConfigured}
	}
	text, err := s.gen.Generate(ctx, req)
	if err != nil {
		return "", &GenerationError{Report: kind, Err: err}
	}
	return text, nil
}

// EntryInsight returns a short supportive reflection on one entry
func (s *InsightService) EntryInsight(ctx context.Context, entry models.EmotionEntry) (string, error) {
	prompt := fmt.Sprintf(`You are an empathetic and insightful AI companion for Deltajournal.
A user has logged the following entry:
- Emotion: %s
- Intensity (1-10): %d
- Notes: "%s"

Based on this, provide a short (2-3 sentences), constructive, and supportive reflection.
Speak like a wise and caring friend. Do not use markdown or lists. Just provide a gentle paragraph of text.
If the notes are empty, reflect on the emotion and intensity itself.`,
		entry.Emotion, entry.Intensity, entry.NotesOr("No notes were provided."))

	text, err := s.generate(ctx, models.ReportEntryInsight, GenerationRequest{
		Prompt:      prompt,
		Temperature: 0.7,
		TopP:        1,
		TopK:        32,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// TrendsSummary narrates the emotional trends across entries. An empty list
// returns NoTrendsMessage without calling the model.
func (s *InsightService) TrendsSummary(ctx context.Context, entries []models.EmotionEntry) (string, error) {
	if len(entries) == 0 {
		return NoTrendsMessage, nil
	}

	prompt := fmt.Sprintf(`You are an expert mental wellness and data analyst AI. You are analyzing a user's Deltajournal entries for the past month.
Here is the data:
%s

Please provide a concise, high-level summary of the user's emotional trends. Your response should be structured in a friendly and encouraging tone.
- Start with a general observation about their overall emotional landscape.
- Identify the most frequently logged emotions.
- Point out any potential patterns or connections you notice (e.g., "It seems that feelings of anxiety often came up on weekdays...").
- Conclude with a positive and encouraging note.

Keep the entire response to about 4-5 sentences. Do not use markdown, just a single paragraph of text.`,
		summarizeEntries(entries))

	text, err := s.generate(ctx, models.ReportTrendsSummary, GenerationRequest{
		Prompt:      prompt,
		Temperature: 0.8,
		TopP:        1,
		TopK:        40,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// ReportAnalysis produces the four-field wellness report for [start, end]. An
// empty list returns EmptyReport without calling the model.
func (s *InsightService) ReportAnalysis(ctx context.Context, entries []models.EmotionEntry, start, end string) (*models.ReportAnalysis, error) {
	if len(entries) == 0 {
		report := EmptyReport()
		return &report, nil
	}

	prompt := fmt.Sprintf(`Analyze the following Deltajournal entries from %s to %s and generate a wellness report.
Data:
%s`, start, end, summarizeEntries(entries))

	text, err := s.generate(ctx, models.ReportRangeAnalysis, GenerationRequest{
		Prompt:      prompt,
		Temperature: 0.7,
		Schema:      reportSchema,
	})
	if err != nil {
		return nil, err
	}

	report, err := parseReport(text)
	if err != nil {
		return nil, &GenerationError{Report: models.ReportRangeAnalysis, Err: err}
	}
	return report, nil
}

func summarizeEntries(entries []models.EmotionEntry) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf(`- On %s, felt %s (Intensity: %d/10). Notes: "%s"`,
			e.Date, e.Emotion, e.Intensity, e.NotesOr("No notes.")))
	}
	return strings.Join(lines, "\n")
}

func parseReport(text string) (*models.ReportAnalysis, error) {
	var report models.ReportAnalysis
	if err := json.Unmarshal([]byte(stripCodeFence(strings.TrimSpace(text))), &report); err != nil {
		return nil, fmt.Errorf("parse report: %w", err)
	}
	if missing := report.MissingFields(); len(missing) > 0 {
		return nil, errors.New("report is missing fields: " + strings.Join(missing, ", "))
	}
	return &report, nil
}

// stripCodeFence removes a ```json ... ``` wrapper some models add
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	// Remove first line (```json or ```)
	if len(lines) > 0 {
		lines = lines[1:]
	}
	// Remove last line if it's a closing fence
	if len(lines) > 0 && strings.HasPrefix(strings.TrimSpace(lines[len(lines)-1]), "```") {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

// MonthEntries returns the entries dated in year/month, ordered by date
func MonthEntries(entries map[string]models.EmotionEntry, year, month int) []models.EmotionEntry {
	prefix := fmt.Sprintf("%04d-%02d-", year, month)
	var out []models.EmotionEntry
	for date, e := range entries {
		if strings.HasPrefix(date, prefix) {
			out = append(out, e)
		}
	}
	sortByDate(out)
	return out
}

// RangeEntries returns the entries dated within [start, end] inclusive, ordered by date
func RangeEntries(entries map[string]models.EmotionEntry, start, end string) []models.EmotionEntry {
	var out []models.EmotionEntry
	for date, e := range entries {
		if date >= start && date <= end {
			out = append(out, e)
		}
	}
	sortByDate(out)
	return out
}

func sortByDate(entries []models.EmotionEntry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Date < entries[j].Date })
}
