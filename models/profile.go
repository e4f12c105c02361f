package models

// UserProfile represents the single profile owned by a user
type UserProfile struct {
	Name           string  `json:"name"`
	Alias          string  `json:"alias"`
	Picture        *string `json:"picture,omitempty"`
	JournalPurpose *string `json:"journalPurpose,omitempty"`
}
