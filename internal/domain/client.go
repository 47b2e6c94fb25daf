package domain

import (
	"time"

	"github.com/google/uuid"
)

// Client is a person coached by a trainer. Clients are owner-exclusive:
// only TrainerID can read or mutate them.
type Client struct {
	ID          uuid.UUID `json:"id"`
	TrainerID   uuid.UUID `json:"-"`
	Name        string    `json:"name"`
	Email       string    `json:"email,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	InjuryFlags []string  `json:"injuryFlags,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
