package sqldb

import (
	"alcyxob/trainer-planner/internal/domain"
	"time"

	"github.com/google/uuid"
)

type trainerModel struct {
	ID        string `gorm:"primaryKey;size:36"`
	Subject   string `gorm:"size:255;not null;uniqueIndex"`
	Email     string `gorm:"size:255"`
	Name      string `gorm:"size:255"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (trainerModel) TableName() string { return "trainers" }

type clientModel struct {
	ID          string   `gorm:"primaryKey;size:36"`
	TrainerID   string   `gorm:"size:36;not null;index"`
	Name        string   `gorm:"size:255;not null"`
	Email       string   `gorm:"size:255"`
	Notes       string   `gorm:"type:text"`
	InjuryFlags []string `gorm:"type:text;serializer:json"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (clientModel) TableName() string { return "clients" }

type exerciseModel struct {
	ID              string  `gorm:"primaryKey;size:36"`
	TrainerID       *string `gorm:"size:36;index"`
	Scope           string  `gorm:"size:36;not null;uniqueIndex:uq_exercises_scope_name_key"`
	NameKey         string  `gorm:"size:255;not null;uniqueIndex:uq_exercises_scope_name_key"`
	Name            string  `gorm:"size:255;not null"`
	PrimaryMuscle   string  `gorm:"size:64;index"`
	MovementPattern string  `gorm:"size:64"`
	Equipment       string  `gorm:"size:64"`
	SkillLevel      string  `gorm:"size:32"`
	Unilateral      bool
	IsActive        bool
	Notes           string   `gorm:"type:text"`
	Tags            []string `gorm:"type:text;serializer:json"`
	MediaKey        string   `gorm:"size:512"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (exerciseModel) TableName() string { return "exercises" }

type workoutModel struct {
	ID          string    `gorm:"primaryKey;size:36"`
	TrainerID   string    `gorm:"size:36;not null;index:idx_workouts_trainer_date"`
	ClientID    *string   `gorm:"size:36;index"`
	Title       string    `gorm:"size:255;not null"`
	Date        time.Time `gorm:"index:idx_workouts_trainer_date"`
	Status      string    `gorm:"size:32;not null"`
	Notes       string    `gorm:"type:text"`
	FreeformLog string    `gorm:"type:text"`
	Version     int       `gorm:"not null"`
	Blocks      []blockModel `gorm:"foreignKey:WorkoutID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (workoutModel) TableName() string { return "workouts" }

type blockModel struct {
	ID            string     `gorm:"primaryKey;size:36"`
	WorkoutID     string     `gorm:"size:36;not null;index"`
	BlockType     string     `gorm:"size:32;not null"`
	SequenceIndex int        `gorm:"not null"`
	Notes         string     `gorm:"type:text"`
	Sets          []setModel `gorm:"foreignKey:BlockID"`
}

func (blockModel) TableName() string { return "workout_blocks" }

type setModel struct {
	ID                    string `gorm:"primaryKey;size:36"`
	BlockID               string `gorm:"size:36;not null;index"`
	ExerciseID            string `gorm:"size:36;not null;index"`
	SetIndex              int    `gorm:"not null"`
	TargetRepsMin         *int
	TargetRepsMax         *int
	TargetDurationSeconds *int
	TargetLoadValue       *float64
	RestSeconds           *int
	Tempo                 string `gorm:"size:32"`
	IsWarmup              bool
	Notes                 string `gorm:"type:text"`
	PrescriptionText      string `gorm:"size:255"`
}

func (setModel) TableName() string { return "workout_sets" }

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

func toTrainerModel(t *domain.Trainer) *trainerModel {
	return &trainerModel{
		ID:        t.ID.String(),
		Subject:   t.Subject,
		Email:     t.Email,
		Name:      t.Name,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func (m *trainerModel) toDomain() *domain.Trainer {
	return &domain.Trainer{
		ID:        parseID(m.ID),
		Subject:   m.Subject,
		Email:     m.Email,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toClientModel(c *domain.Client) *clientModel {
	return &clientModel{
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

func (m *clientModel) toDomain() domain.Client {
	return domain.Client{
		ID:          parseID(m.ID),
		TrainerID:   parseID(m.TrainerID),
		Name:        m.Name,
		Email:       m.Email,
		Notes:       m.Notes,
		InjuryFlags: m.InjuryFlags,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toExerciseModel(e *domain.Exercise) *exerciseModel {
	return &exerciseModel{
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

func (m *exerciseModel) toDomain() domain.Exercise {
	return domain.Exercise{
		ID:              parseID(m.ID),
		TrainerID:       parseOptionalID(m.TrainerID),
		Name:            m.Name,
		PrimaryMuscle:   m.PrimaryMuscle,
		MovementPattern: m.MovementPattern,
		Equipment:       m.Equipment,
		SkillLevel:      m.SkillLevel,
		Unilateral:      m.Unilateral,
		IsActive:        m.IsActive,
		Notes:           m.Notes,
		Tags:            m.Tags,
		MediaKey:        m.MediaKey,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func toWorkoutModel(w *domain.Workout) *workoutModel {
	return &workoutModel{
		ID:          w.ID.String(),
		TrainerID:   w.TrainerID.String(),
		ClientID:    optionalIDString(w.ClientID),
		Title:       w.Title,
		Date:        w.Date,
		Status:      string(w.Status),
		Notes:       w.Notes,
		FreeformLog: w.FreeformLog,
		Version:     w.Version,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}

func (m *workoutModel) toDomain() domain.Workout {
	w := domain.Workout{
		ID:          parseID(m.ID),
		TrainerID:   parseID(m.TrainerID),
		ClientID:    parseOptionalID(m.ClientID),
		Title:       m.Title,
		Date:        m.Date,
		Status:      domain.WorkoutStatus(m.Status),
		Notes:       m.Notes,
		FreeformLog: m.FreeformLog,
		Version:     m.Version,
		Blocks:      make([]domain.Block, 0, len(m.Blocks)),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	for i := range m.Blocks {
		w.Blocks = append(w.Blocks, m.Blocks[i].toDomain())
	}
	return w
}

// toBlockModels flattens blocks into rows. Sets are returned separately so
// they can be inserted without gorm's association upserts.
func toBlockModels(workoutID uuid.UUID, blocks []domain.Block) ([]blockModel, []setModel) {
	blockRows := make([]blockModel, 0, len(blocks))
	var setRows []setModel
	for _, b := range blocks {
		blockRows = append(blockRows, blockModel{
			ID:            b.ID.String(),
			WorkoutID:     workoutID.String(),
			BlockType:     string(b.BlockType),
			SequenceIndex: b.SequenceIndex,
			Notes:         b.Notes,
		})
		for _, s := range b.Sets {
			setRows = append(setRows, setModel{
				ID:                    s.ID.String(),
				BlockID:               b.ID.String(),
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
	}
	return blockRows, setRows
}

func (m *blockModel) toDomain() domain.Block {
	b := domain.Block{
		ID:            parseID(m.ID),
		WorkoutID:     parseID(m.WorkoutID),
		BlockType:     domain.BlockType(m.BlockType),
		SequenceIndex: m.SequenceIndex,
		Notes:         m.Notes,
		Sets:          make([]domain.Set, 0, len(m.Sets)),
	}
	for _, s := range m.Sets {
		b.Sets = append(b.Sets, domain.Set{
			ID:                    parseID(s.ID),
			BlockID:               b.ID,
			ExerciseID:            parseID(s.ExerciseID),
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
	return b
}
