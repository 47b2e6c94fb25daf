package domain

import (
	"time"

	"github.com/google/uuid"
)

// WorkoutDraft is the create payload of the plan mutation engine.
// It is produced by hand-built requests and by the proposal transformer alike.
type WorkoutDraft struct {
	Title       string
	Date        time.Time
	Status      WorkoutStatus
	Notes       string
	FreeformLog string
	ClientID    *uuid.UUID
	Blocks      []BlockDraft
}

// BlockDraft is a block as submitted by a caller. SequenceIndex is advisory;
// the engine assigns positions from array order.
type BlockDraft struct {
	BlockType     BlockType
	SequenceIndex int
	Notes         string
	Sets          []SetDraft
}

// SetDraft is a set as submitted by a caller. SetIndex is advisory.
type SetDraft struct {
	ExerciseID            uuid.UUID
	SetIndex              int
	TargetRepsMin         *int
	TargetRepsMax         *int
	TargetDurationSeconds *int
	TargetLoadValue       *float64
	RestSeconds           *int
	Tempo                 string
	IsWarmup              bool
	Notes                 string
	PrescriptionText      string
}

// ExerciseIDsOfDrafts returns the distinct exercise ids referenced by the drafts, in encounter order.
func ExerciseIDsOfDrafts(blocks []BlockDraft) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID
	for _, b := range blocks {
		for _, s := range b.Sets {
			if _, ok := seen[s.ExerciseID]; ok {
				continue
			}
			seen[s.ExerciseID] = struct{}{}
			ids = append(ids, s.ExerciseID)
		}
	}
	return ids
}

// BuildBlocks materializes drafts into blocks with fresh identities.
// Positions are taken from array order: blocks[i].SequenceIndex == i and
// sets[j].SetIndex == j, regardless of the indices the caller supplied.
func BuildBlocks(workoutID uuid.UUID, drafts []BlockDraft) []Block {
	blocks := make([]Block, 0, len(drafts))
	for i, bd := range drafts {
		block := Block{
			ID:            uuid.New(),
			WorkoutID:     workoutID,
			BlockType:     bd.BlockType,
			SequenceIndex: i,
			Notes:         bd.Notes,
			Sets:          make([]Set, 0, len(bd.Sets)),
		}
		for j, sd := range bd.Sets {
			block.Sets = append(block.Sets, Set{
				ID:                    uuid.New(),
				BlockID:               block.ID,
				ExerciseID:            sd.ExerciseID,
				SetIndex:              j,
				TargetRepsMin:         sd.TargetRepsMin,
				TargetRepsMax:         sd.TargetRepsMax,
				TargetDurationSeconds: sd.TargetDurationSeconds,
				TargetLoadValue:       sd.TargetLoadValue,
				RestSeconds:           sd.RestSeconds,
				Tempo:                 sd.Tempo,
				IsWarmup:              sd.IsWarmup,
				Notes:                 sd.Notes,
				PrescriptionText:      sd.PrescriptionText,
			})
		}
		blocks = append(blocks, block)
	}
	return blocks
}
