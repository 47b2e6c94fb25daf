package domain

import (
	"time"

	"github.com/google/uuid"
)

// Trainer is the authenticated principal. Identity is issued externally;
// Subject is the stable identifier taken from the verified token.
type Trainer struct {
	ID        uuid.UUID `json:"id"`
	Subject   string    `json:"-"`
	Email     string    `json:"email,omitempty"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
