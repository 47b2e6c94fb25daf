// internal/domain/exercise.go
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Exercise is a single movement in the catalog.
// A nil TrainerID marks a global exercise: visible to every trainer, mutable by none.
type Exercise struct {
	ID              uuid.UUID  `json:"id"`
	TrainerID       *uuid.UUID `json:"-"`
	Name            string     `json:"name"`
	PrimaryMuscle   string     `json:"primaryMuscle"`
	MovementPattern string     `json:"movementPattern,omitempty"`
	Equipment       string     `json:"equipment,omitempty"`
	SkillLevel      string     `json:"skillLevel,omitempty"`
	Unilateral      bool       `json:"unilateral"`
	IsActive        bool       `json:"isActive"`
	Notes           string     `json:"notes,omitempty"`
	Tags            []string   `json:"tags,omitempty"`
	MediaKey        string     `json:"-"` // object key of the demo video, if any
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// IsGlobal reports whether the exercise belongs to the shared catalog.
func (e *Exercise) IsGlobal() bool {
	return e.TrainerID == nil
}

// IsOwnedBy reports whether trainerID owns the exercise. Global exercises are owned by nobody.
func (e *Exercise) IsOwnedBy(trainerID uuid.UUID) bool {
	return e.TrainerID != nil && *e.TrainerID == trainerID
}

// NameKey is the normalized name used for duplicate detection within an owner scope.
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Scope returns the uniqueness scope of an exercise name: "global" or the owner id.
func (e *Exercise) Scope() string {
	if e.TrainerID == nil {
		return GlobalScope
	}
	return e.TrainerID.String()
}

// GlobalScope is the Scope value shared by every global exercise.
const GlobalScope = "global"
