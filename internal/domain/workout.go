package domain

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

// WorkoutStatus tracks a workout through its lifecycle.
type WorkoutStatus string

const (
	StatusDraft      WorkoutStatus = "draft"
	StatusPlanned    WorkoutStatus = "planned"
	StatusInProgress WorkoutStatus = "in_progress"
	StatusCompleted  WorkoutStatus = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s WorkoutStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPlanned, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// BlockType is an open set; these are the values the product knows how to render.
type BlockType string

const (
	BlockStraight BlockType = "straight"
	BlockSuperset BlockType = "superset"
	BlockCircuit  BlockType = "circuit"
	BlockTriset   BlockType = "triset"
	BlockWarmup   BlockType = "warmup"
	BlockFinisher BlockType = "finisher"
)

var blockTypePattern = regexp.MustCompile(`^[a-z][a-z_]{0,31}$`)

// Valid accepts any short lowercase token.
func (t BlockType) Valid() bool {
	return blockTypePattern.MatchString(string(t))
}

// Known reports whether t is one of the predefined block types.
func (t BlockType) Known() bool {
	switch t {
	case BlockStraight, BlockSuperset, BlockCircuit, BlockTriset, BlockWarmup, BlockFinisher:
		return true
	}
	return false
}

// Workout is a single planned or logged session. Blocks are ordered by SequenceIndex.
type Workout struct {
	ID          uuid.UUID     `json:"id"`
	TrainerID   uuid.UUID     `json:"-"`
	ClientID    *uuid.UUID    `json:"clientId,omitempty"`
	Title       string        `json:"title"`
	Date        time.Time     `json:"date"`
	Status      WorkoutStatus `json:"status"`
	Notes       string        `json:"notes,omitempty"`
	FreeformLog string        `json:"freeformLog,omitempty"`
	Version     int           `json:"version"`
	Blocks      []Block       `json:"blocks"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// Block groups sets within a workout. It has no owner of its own;
// ownership is inherited from the parent workout.
type Block struct {
	ID            uuid.UUID `json:"id"`
	WorkoutID     uuid.UUID `json:"-"`
	BlockType     BlockType `json:"blockType"`
	SequenceIndex int       `json:"sequenceIndex"`
	Notes         string    `json:"notes,omitempty"`
	Sets          []Set     `json:"sets"`
}

// Set is one prescribed set of an exercise. Nil numeric targets mean
// "nothing prescribed", which is distinct from a zero target.
type Set struct {
	ID                    uuid.UUID `json:"id"`
	BlockID               uuid.UUID `json:"-"`
	ExerciseID            uuid.UUID `json:"exerciseId"`
	SetIndex              int       `json:"setIndex"`
	TargetRepsMin         *int      `json:"targetRepsMin,omitempty"`
	TargetRepsMax         *int      `json:"targetRepsMax,omitempty"`
	TargetDurationSeconds *int      `json:"targetDurationSeconds,omitempty"`
	TargetLoadValue       *float64  `json:"targetLoadValue,omitempty"`
	RestSeconds           *int      `json:"restSeconds,omitempty"`
	Tempo                 string    `json:"tempo,omitempty"`
	IsWarmup              bool      `json:"isWarmup"`
	Notes                 string    `json:"notes,omitempty"`
	PrescriptionText      string    `json:"prescriptionText,omitempty"`
}
