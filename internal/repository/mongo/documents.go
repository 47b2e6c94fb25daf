package mongo

import (
	"alcyxob/trainer-planner/internal/domain"
	"alcyxob/trainer-planner/internal/repository"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

// Documents store uuids as their canonical string form so ids stay
// readable in the shell and identical to the SQL backend's.

type trainerDocument struct {
	ID        string    `bson:"_id"`
	Subject   string    `bson:"subject"`
	Email     string    `bson:"email,omitempty"`
	Name      string    `bson:"name,omitempty"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

type clientDocument struct {
	ID          string    `bson:"_id"`
	TrainerID   string    `bson:"trainerId"`
	Name        string    `bson:"name"`
	Email       string    `bson:"email,omitempty"`
	Notes       string    `bson:"notes,omitempty"`
	InjuryFlags []string  `bson:"injuryFlags,omitempty"`
	CreatedAt   time.Time `bson:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}

type exerciseDocument struct {
	ID              string    `bson:"_id"`
	TrainerID       *string   `bson:"trainerId,omitempty"`
	Scope           string    `bson:"scope"`
	NameKey         string    `bson:"nameKey"`
	Name            string    `bson:"name"`
	PrimaryMuscle   string    `bson:"primaryMuscle,omitempty"`
	MovementPattern string    `bson:"movementPattern,omitempty"`
	Equipment       string    `bson:"equipment,omitempty"`
	SkillLevel      string    `bson:"skillLevel,omitempty"`
	Unilateral      bool      `bson:"unilateral"`
	IsActive        bool      `bson:"isActive"`
	Notes           string    `bson:"notes,omitempty"`
	Tags            []string  `bson:"tags,omitempty"`
	MediaKey        string    `bson:"mediaKey,omitempty"`
	CreatedAt       time.Time `bson:"createdAt"`
	UpdatedAt       time.Time `bson:"updatedAt"`
}

// workoutDocument embeds its blocks and sets, so every write to the
// subtree is a single-document write.
type workoutDocument struct {
	ID          string          `bson:"_id"`
	TrainerID   string          `bson:"trainerId"`
	ClientID    *string         `bson:"clientId"`
	Title       string          `bson:"title"`
	Date        time.Time       `bson:"date"`
	Status      string          `bson:"status"`
	Notes       string          `bson:"notes,omitempty"`
	FreeformLog string          `bson:"freeformLog,omitempty"`
	Version     int             `bson:"version"`
	Blocks      []blockDocument `bson:"blocks"`
	CreatedAt   time.Time       `bson:"createdAt"`
	UpdatedAt   time.Time       `bson:"updatedAt"`
}

type blockDocument struct {
	ID            string        `bson:"id"`
	BlockType     string        `bson:"blockType"`
	SequenceIndex int           `bson:"sequenceIndex"`
	Notes         string        `bson:"notes,omitempty"`
	Sets          []setDocument `bson:"sets"`
}

type setDocument struct {
	ID                    string   `bson:"id"`
	ExerciseID            string   `bson:"exerciseId"`
	SetIndex              int      `bson:"setIndex"`
	TargetRepsMin         *int     `bson:"targetRepsMin,omitempty"`
	TargetRepsMax         *int     `bson:"targetRepsMax,omitempty"`
	TargetDurationSeconds *int     `bson:"targetDurationSeconds,omitempty"`
	TargetLoadValue       *float64 `bson:"targetLoadValue,omitempty"`
	RestSeconds           *int     `bson:"restSeconds,omitempty"`
	Tempo                 string   `bson:"tempo,omitempty"`
	IsWarmup              bool     `bson:"isWarmup"`
	Notes                 string   `bson:"notes,omitempty"`
	PrescriptionText      string   `bson:"prescriptionText,omitempty"`
}

func parseID(s string) uuid.UUID {
	id, _ := uuid.Parse(s)
	return id
}

func parseOptionalID(s *string) *uuid.UUID {
	if s == nil {
		return nil
	}
	id := parseID(*s)
	return &id
}

func optionalIDString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

// translate maps driver errors onto repository errors.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repository.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return repository.ErrDuplicate
	default:
		return err
	}
}

func (d *trainerDocument) toDomain() *domain.Trainer {
	return &domain.Trainer{
		ID:        parseID(d.ID),
		Subject:   d.Subject,
		Email:     d.Email,
		Name:      d.Name,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func toClientDocument(c *domain.Client) *clientDocument {
	return &clientDocument{
		ID:          c.ID.String(),
		TrainerID:   c.TrainerID.String(),
		Name:        c.Name,
		Email:       c.Email,
		Notes:       c.Notes,
		InjuryFlags: c.InjuryFlags,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func (d *clientDocument) toDomain() domain.Client {
	return domain.Client{
		ID:          parseID(d.ID),
		TrainerID:   parseID(d.TrainerID),
		Name:        d.Name,
		Email:       d.Email,
		Notes:       d.Notes,
		InjuryFlags: d.InjuryFlags,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func toExerciseDocument(e *domain.Exercise) *exerciseDocument {
	return &exerciseDocument{
		ID:              e.ID.String(),
		TrainerID:       optionalIDString(e.TrainerID),
		Scope:           e.Scope(),
		NameKey:         domain.NameKey(e.Name),
		Name:            e.Name,
		PrimaryMuscle:   e.PrimaryMuscle,
		MovementPattern: e.MovementPattern,
		Equipment:       e.Equipment,
		SkillLevel:      e.SkillLevel,
		Unilateral:      e.Unilateral,
		IsActive:        e.IsActive,
		Notes:           e.Notes,
		Tags:            e.Tags,
		MediaKey:        e.MediaKey,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

func (d *exerciseDocument) toDomain() domain.Exercise {
	return domain.Exercise{
		ID:              parseID(d.ID),
		TrainerID:       parseOptionalID(d.TrainerID),
		Name:            d.Name,
		PrimaryMuscle:   d.PrimaryMuscle,
		MovementPattern: d.MovementPattern,
		Equipment:       d.Equipment,
		SkillLevel:      d.SkillLevel,
		Unilateral:      d.Unilateral,
		IsActive:        d.IsActive,
		Notes:           d.Notes,
		Tags:            d.Tags,
		MediaKey:        d.MediaKey,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

func toBlockDocuments(blocks []domain.Block) []blockDocument {
	docs := make([]blockDocument, 0, len(blocks))
	for _, b := range blocks {
		bd := blockDocument{
			ID:            b.ID.String(),
			BlockType:     string(b.BlockType),
			SequenceIndex: b.SequenceIndex,
			Notes:         b.Notes,
			Sets:          make([]setDocument, 0, len(b.Sets)),
		}
		for _, s := range b.Sets {
			bd.Sets = append(bd.Sets, setDocument{
				ID:                    s.ID.String(),
				ExerciseID:            s.ExerciseID.String(),
				SetIndex:              s.SetIndex,
				TargetRepsMin:         s.TargetRepsMin,
				TargetRepsMax:         s.TargetRepsMax,
				TargetDurationSeconds: s.TargetDurationSeconds,
				TargetLoadValue:       s.TargetLoadValue,
				RestSeconds:           s.RestSeconds,
				Tempo:                 s.Tempo,
				IsWarmup:              s.IsWarmup,
				Notes:                 s.Notes,
				PrescriptionText:      s.PrescriptionText,
			})
		}
		docs = append(docs, bd)
	}
	return docs
}

func toWorkoutDocument(w *domain.Workout) *workoutDocument {
	return &workoutDocument{
		ID:          w.ID.String(),
		TrainerID:   w.TrainerID.String(),
		ClientID:    optionalIDString(w.ClientID),
		Title:       w.Title,
		Date:        w.Date,
		Status:      string(w.Status),
		Notes:       w.Notes,
		FreeformLog: w.FreeformLog,
		Version:     w.Version,
		Blocks:      toBlockDocuments(w.Blocks),
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}

func (d *workoutDocument) toDomain() domain.Workout {
	w := domain.Workout{
		ID:          parseID(d.ID),
		TrainerID:   parseID(d.TrainerID),
		ClientID:    parseOptionalID(d.ClientID),
		Title:       d.Title,
		Date:        d.Date.UTC(),
		Status:      domain.WorkoutStatus(d.Status),
		Notes:       d.Notes,
		FreeformLog: d.FreeformLog,
		Version:     d.Version,
		Blocks:      make([]domain.Block, 0, len(d.Blocks)),
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
	for _, bd := range d.Blocks {
		b := domain.Block{
			ID:            parseID(bd.ID),
			WorkoutID:     w.ID,
			BlockType:     domain.BlockType(bd.BlockType),
			SequenceIndex: bd.SequenceIndex,
			Notes:         bd.Notes,
			Sets:          make([]domain.Set, 0, len(bd.Sets)),
		}
		for _, sd := range bd.Sets {
			b.Sets = append(b.Sets, domain.Set{
				ID:                    parseID(sd.ID),
				BlockID:               b.ID,
				ExerciseID:            parseID(sd.ExerciseID),
				SetIndex:              sd.SetIndex,
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
		w.Blocks = append(w.Blocks, b)
	}
	return w
}
