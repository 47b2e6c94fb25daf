package repository

import (
	"alcyxob/trainer-planner/internal/domain"
	"context"

	"github.com/google/uuid"
)

// Error constants for the repository layer.
var (
	ErrNotFound        = RepositoryError("not found")
	ErrDuplicate       = RepositoryError("duplicate key")
	ErrVersionMismatch = RepositoryError("version mismatch")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// Transactor runs fn inside a single store transaction. Repository calls made
// with the ctx passed to fn join that transaction. Nested calls reuse the outer one.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// TrainerRepository stores principals resolved from verified tokens.
type TrainerRepository interface {
	// GetOrCreateBySubject returns the trainer for subject, provisioning it on first sight.
	GetOrCreateBySubject(ctx context.Context, subject, email, name string) (*domain.Trainer, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Trainer, error)
}

// ClientRepository stores owner-exclusive client records.
// Every lookup is keyed by the owning trainer.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	GetOwned(ctx context.Context, id, trainerID uuid.UUID) (*domain.Client, error)
	ListByTrainer(ctx context.Context, trainerID uuid.UUID) ([]domain.Client, error)
	Update(ctx context.Context, client *domain.Client) error
	Delete(ctx context.Context, id, trainerID uuid.UUID) error
}

// ExerciseFilter narrows ListVisible. Empty fields are ignored.
type ExerciseFilter struct {
	Query           string // case-insensitive name substring
	PrimaryMuscle   string
	MovementPattern string
	Equipment       string
}

// ExerciseRepository stores the exercise catalog, global and trainer-owned.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Exercise, error)
	// GetByIDForUpdate is GetByID holding a row lock until the surrounding
	// transaction ends, on backends that support one.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Exercise, error)
	// ListVisible returns global exercises plus those owned by trainerID, ordered by name then id.
	ListVisible(ctx context.Context, trainerID uuid.UUID, filter ExerciseFilter) ([]domain.Exercise, error)
	// VisibleIDs returns the subset of ids that are global or owned by trainerID.
	VisibleIDs(ctx context.Context, trainerID uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, error)
	ListGlobalNames(ctx context.Context) ([]string, error)
	// Update modifies an exercise owned by exercise.TrainerID. Global rows never match.
	Update(ctx context.Context, exercise *domain.Exercise) error
	Delete(ctx context.Context, id, trainerID uuid.UUID) error
}

// WorkoutFilter narrows ListByTrainer. Empty fields are ignored.
type WorkoutFilter struct {
	Query    string // case-insensitive title substring
	ClientID *uuid.UUID
	Status   domain.WorkoutStatus
}

// WorkoutRepository stores workouts with their block/set subtree.
type WorkoutRepository interface {
	// Create persists the workout and its whole subtree as one unit.
	Create(ctx context.Context, workout *domain.Workout) error
	GetOwned(ctx context.Context, id, trainerID uuid.UUID) (*domain.Workout, error)
	ListByTrainer(ctx context.Context, trainerID uuid.UUID, filter WorkoutFilter) ([]domain.Workout, error)
	// UpdateMetadata writes title, date, status, notes, freeform log and client.
	UpdateMetadata(ctx context.Context, workout *domain.Workout) error
	// ReplaceBlocks discards the existing subtree and stores blocks in its place,
	// bumping the version. A non-nil expectedVersion must match the stored one.
	ReplaceBlocks(ctx context.Context, workoutID, trainerID uuid.UUID, blocks []domain.Block, expectedVersion *int) (int, error)
	Delete(ctx context.Context, id, trainerID uuid.UUID) error
	// DetachClient clears the client reference on every workout of trainerID that points at clientID.
	DetachClient(ctx context.Context, trainerID, clientID uuid.UUID) error
	// CountSetsByExercise counts persisted sets referencing the exercise, across all trainers.
	CountSetsByExercise(ctx context.Context, exerciseID uuid.UUID) (int64, error)
}

// Store bundles every repository of one backend.
type Store struct {
	Transactor Transactor
	Trainers   TrainerRepository
	Clients    ClientRepository
	Exercises  ExerciseRepository
	Workouts   WorkoutRepository
}
