package models

import (
	"time"

	"github.com/google/uuid"
)

// Lead is an append-only email capture record
type Lead struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
