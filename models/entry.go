package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the ISO calendar date format used as the entry natural key
const DateLayout = "2006-01-02"

// MaxImageBytes is the largest embedded image accepted at input time
const MaxImageBytes = 2 * 1024 * 1024

// EmotionType represents one of the fixed journal emotions
type EmotionType string

const (
	EmotionHappy   EmotionType = "happy"
	EmotionCalm    EmotionType = "calm"
	EmotionAnxious EmotionType = "anxious"
	EmotionSad     EmotionType = "sad"
	EmotionAngry   EmotionType = "angry"
)

// Emotions lists every emotion in display order
var Emotions = []EmotionType{EmotionHappy, EmotionCalm, EmotionAnxious, EmotionSad, EmotionAngry}

// Valid reports whether e is one of the known emotions
func (e EmotionType) Valid() bool {
	for _, known := range Emotions {
		if e == known {
			return true
		}
	}
	return false
}

// Label returns the capitalized display label
func (e EmotionType) Label() string {
	if e == "" {
		return ""
	}
	return strings.ToUpper(string(e[:1])) + string(e[1:])
}

// TradeType represents the direction of a trade record
type TradeType string

const (
	TradeLong  TradeType = "long"
	TradeShort TradeType = "short"
	TradeCall  TradeType = "call"
	TradePut   TradeType = "put"
)

// Valid reports whether t is one of the known trade directions
func (t TradeType) Valid() bool {
	switch t {
	case TradeLong, TradeShort, TradeCall, TradePut:
		return true
	}
	return false
}

// Trade is a single trade logged alongside an entry
type Trade struct {
	ID     string           `json:"id"`
	Type   TradeType        `json:"type"`
	Symbol string           `json:"symbol"`
	PnL    *decimal.Decimal `json:"pnl,omitempty"`
	Notes  *string          `json:"notes,omitempty"`
}

// TradingData holds the ordered trades of one day
type TradingData struct {
	Trades []Trade `json:"trades"`
}

// Value implements driver.Valuer for JSONB
func (t TradingData) Value() (driver.Value, error) {
	if t.Trades == nil {
		t.Trades = []Trade{}
	}
	return json.Marshal(t)
}

// Scan implements sql.Scanner for JSONB
func (t *TradingData) Scan(value interface{}) error {
	if value == nil {
		*t = TradingData{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported trading data type %T", value)
	}

	if len(bytes) == 0 {
		*t = TradingData{}
		return nil
	}

	return json.Unmarshal(bytes, t)
}

// EmotionEntry is one day's journal record
type EmotionEntry struct {
	Date        string           `json:"date"`
	Emotion     EmotionType      `json:"emotion"`
	Intensity   int              `json:"intensity"`
	Notes       *string          `json:"notes"`
	ImageURL    *string          `json:"imageUrl,omitempty"`
	PnL         *decimal.Decimal `json:"pnl,omitempty"`
	TradingData *TradingData     `json:"tradingData,omitempty"`
}

// NotesOr returns the notes text, or fallback when there are none
func (e EmotionEntry) NotesOr(fallback string) string {
	if e.Notes == nil || *e.Notes == "" {
		return fallback
	}
	return *e.Notes
}

// Time parses the entry date
func (e EmotionEntry) Time() (time.Time, error) {
	return time.Parse(DateLayout, e.Date)
}

var dataURIPattern = regexp.MustCompile(`^data:image/[a-zA-Z0-9.+-]+;base64,`)

// Validate checks the caller-side invariants of an entry. Storage adapters never
// call this; it is the input boundary's job.
func (e EmotionEntry) Validate() error {
	if _, err := time.Parse(DateLayout, e.Date); err != nil {
		return fmt.Errorf("date must be YYYY-MM-DD, got %q", e.Date)
	}
	if !e.Emotion.Valid() {
		return fmt.Errorf("unknown emotion %q", e.Emotion)
	}
	if e.Intensity < 1 || e.Intensity > 10 {
		return fmt.Errorf("intensity must be between 1 and 10, got %d", e.Intensity)
	}
	if e.ImageURL != nil && *e.ImageURL != "" {
		if !dataURIPattern.MatchString(*e.ImageURL) {
			return fmt.Errorf("image must be a base64 data URI")
		}
		if len(*e.ImageURL) > dataURIBudget(MaxImageBytes) {
			return fmt.Errorf("image exceeds %d bytes", MaxImageBytes)
		}
	}
	if e.TradingData != nil {
		seen := make(map[string]bool, len(e.TradingData.Trades))
		for _, trade := range e.TradingData.Trades {
			if trade.ID == "" {
				return fmt.Errorf("trade id is required")
			}
			if seen[trade.ID] {
				return fmt.Errorf("duplicate trade id %q", trade.ID)
			}
			seen[trade.ID] = true
			if !trade.Type.Valid() {
				return fmt.Errorf("unknown trade type %q", trade.Type)
			}
		}
	}
	return nil
}

// dataURIBudget is the encoded length of n raw bytes plus room for the header
func dataURIBudget(n int) int {
	return (n+2)/3*4 + 64
}
