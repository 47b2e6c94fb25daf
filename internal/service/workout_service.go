package service

import (
	"alcyxob/trainer-planner/internal/domain"
	"alcyxob/trainer-planner/internal/logger"
	"alcyxob/trainer-planner/internal/repository"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PlanOptions tunes plan validation for a single call.
type PlanOptions struct {
	// RequireSets rejects blocks without sets. Empty blocks are accepted otherwise.
	RequireSets bool
	// ExpectedVersion, when set, makes ReplacePlan fail with ErrConflict
	// if the stored workout has moved on.
	ExpectedVersion *int
}

// WorkoutPatch is a partial metadata update. Nil fields are left alone.
type WorkoutPatch struct {
	Title       *string
	Date        *time.Time
	Status      *domain.WorkoutStatus
	Notes       *string
	FreeformLog *string
	ClientID    *uuid.UUID
	ClearClient bool
}

// WorkoutService is the plan mutation engine plus the workout read paths.
type WorkoutService interface {
	CreateWorkout(ctx context.Context, trainerID uuid.UUID, draft domain.WorkoutDraft, opts PlanOptions) (*domain.Workout, error)
	// ReplacePlan discards the workout's block/set subtree and stores blocks in its place.
	ReplacePlan(ctx context.Context, trainerID, workoutID uuid.UUID, blocks []domain.BlockDraft, opts PlanOptions) (*domain.Workout, error)
	GetWorkout(ctx context.Context, trainerID, workoutID uuid.UUID) (*domain.Workout, error)
	ListWorkouts(ctx context.Context, trainerID uuid.UUID, filter repository.WorkoutFilter) ([]domain.Workout, error)
	UpdateWorkout(ctx context.Context, trainerID, workoutID uuid.UUID, patch WorkoutPatch) (*domain.Workout, error)
	DeleteWorkout(ctx context.Context, trainerID, workoutID uuid.UUID) error
}

type workoutService struct {
	store    repository.Store
	resolver Resolver
	log      *logger.Logger
}

func NewWorkoutService(store repository.Store, resolver Resolver, log *logger.Logger) WorkoutService {
	return &workoutService{store: store, resolver: resolver, log: log}
}

func (s *workoutService) CreateWorkout(ctx context.Context, trainerID uuid.UUID, draft domain.WorkoutDraft, opts PlanOptions) (*domain.Workout, error) {
	title := strings.TrimSpace(draft.Title)
	if title == "" {
		return nil, invalid("title", "is required")
	}
	status := draft.Status
	if status == "" {
		status = domain.StatusDraft
	}
	if !status.Valid() {
		return nil, invalid("status", "unknown status %q", status)
	}
	if err := validateBlocks(draft.Blocks, opts); err != nil {
		return nil, err
	}
	date := draft.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	workout := &domain.Workout{
		ID:          uuid.New(),
		TrainerID:   trainerID,
		ClientID:    draft.ClientID,
		Title:       title,
		Date:        date,
		Status:      status,
		Notes:       draft.Notes,
		FreeformLog: draft.FreeformLog,
		Version:     1,
	}
	workout.Blocks = domain.BuildBlocks(workout.ID, draft.Blocks)

	err := s.store.Transactor.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.checkClient(ctx, trainerID, workout.ClientID); err != nil {
			return err
		}
		if err := s.checkVisible(ctx, trainerID, domain.ExerciseIDsOfDrafts(draft.Blocks)); err != nil {
			return err
		}
		return s.store.Workouts.Create(ctx, workout)
	})
	if err != nil {
		return nil, mapRepoErr(err)
	}
	s.log.Info("Workout created", "workoutID", workout.ID, "trainerID", trainerID, "blocks", len(workout.Blocks))
	return workout, nil
}

func (s *workoutService) ReplacePlan(ctx context.Context, trainerID, workoutID uuid.UUID, blocks []domain.BlockDraft, opts PlanOptions) (*domain.Workout, error) {
	if err := validateBlocks(blocks, opts); err != nil {
		return nil, err
	}
	built := domain.BuildBlocks(workoutID, blocks)

	var workout *domain.Workout
	err := s.store.Transactor.WithTransaction(ctx, func(ctx context.Context) error {
		if _, ok, err := s.resolver.GetOwnedWorkout(ctx, trainerID, workoutID); err != nil {
			return err
		} else if !ok {
			return ErrNotFound
		}
		if err := s.checkVisible(ctx, trainerID, domain.ExerciseIDsOfDrafts(blocks)); err != nil {
			return err
		}
		if _, err := s.store.Workouts.ReplaceBlocks(ctx, workoutID, trainerID, built, opts.ExpectedVersion); err != nil {
			return err
		}
		var err error
		workout, err = s.store.Workouts.GetOwned(ctx, workoutID, trainerID)
		return err
	})
	if err != nil {
		return nil, mapRepoErr(err)
	}
	s.log.Info("Workout plan replaced", "workoutID", workoutID, "trainerID", trainerID, "version", workout.Version)
	return workout, nil
}

func (s *workoutService) GetWorkout(ctx context.Context, trainerID, workoutID uuid.UUID) (*domain.Workout, error) {
	w, ok, err := s.resolver.GetOwnedWorkout(ctx, trainerID, workoutID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return w, nil
}

func (s *workoutService) ListWorkouts(ctx context.Context, trainerID uuid.UUID, filter repository.WorkoutFilter) ([]domain.Workout, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, invalid("status", "unknown status %q", filter.Status)
	}
	return s.store.Workouts.ListByTrainer(ctx, trainerID, filter)
}

func (s *workoutService) UpdateWorkout(ctx context.Context, trainerID, workoutID uuid.UUID, patch WorkoutPatch) (*domain.Workout, error) {
	var workout *domain.Workout
	err := s.store.Transactor.WithTransaction(ctx, func(ctx context.Context) error {
		w, ok, err := s.resolver.GetOwnedWorkout(ctx, trainerID, workoutID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotFound
		}
		if err := applyPatch(w, patch); err != nil {
			return err
		}
		if patch.ClientID != nil {
			if err := s.checkClient(ctx, trainerID, w.ClientID); err != nil {
				return err
			}
		}
		if err := s.store.Workouts.UpdateMetadata(ctx, w); err != nil {
			return err
		}
		workout = w
		return nil
	})
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return workout, nil
}

func (s *workoutService) DeleteWorkout(ctx context.Context, trainerID, workoutID uuid.UUID) error {
	if err := s.store.Workouts.Delete(ctx, workoutID, trainerID); err != nil {
		return mapRepoErr(err)
	}
	s.log.Info("Workout deleted", "workoutID", workoutID, "trainerID", trainerID)
	return nil
}

// --- Validation ---

func validateBlocks(blocks []domain.BlockDraft, opts PlanOptions) error {
	for i, b := range blocks {
		if b.BlockType == "" {
			return invalid(fmt.Sprintf("blocks[%d].block_type", i), "is required")
		}
		if !b.BlockType.Valid() {
			return invalid(fmt.Sprintf("blocks[%d].block_type", i), "%q is not a valid block type", b.BlockType)
		}
		if opts.RequireSets && len(b.Sets) == 0 {
			return invalid(fmt.Sprintf("blocks[%d].sets", i), "must contain at least one set")
		}
		for j, set := range b.Sets {
			if err := validateSet(set, fmt.Sprintf("blocks[%d].sets[%d]", i, j)); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateSet(set domain.SetDraft, path string) error {
	if set.ExerciseID == uuid.Nil {
		return invalid(path+".exercise_id", "is required")
	}
	for _, f := range []struct {
		name string
		v    *int
	}{
		{"target_reps_min", set.TargetRepsMin},
		{"target_reps_max", set.TargetRepsMax},
		{"target_duration_seconds", set.TargetDurationSeconds},
		{"rest_seconds", set.RestSeconds},
	} {
		if f.v != nil && *f.v < 0 {
			return invalid(path+"."+f.name, "cannot be negative")
		}
	}
	if set.TargetLoadValue != nil && *set.TargetLoadValue < 0 {
		return invalid(path+".target_load_value", "cannot be negative")
	}
	if set.TargetRepsMin != nil && set.TargetRepsMax != nil && *set.TargetRepsMin > *set.TargetRepsMax {
		return invalid(path+".target_reps_max", "must not be less than target_reps_min")
	}
	return nil
}

// checkVisible fails with a ValidationError naming the first exercise the
// trainer cannot reference. It runs inside the write transaction.
func (s *workoutService) checkVisible(ctx context.Context, trainerID uuid.UUID, ids []uuid.UUID) error {
	missing, err := s.resolver.InvisibleExercises(ctx, trainerID, ids)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return invalid("exercise_id", "exercise %s is not available", missing[0])
	}
	return nil
}

func (s *workoutService) checkClient(ctx context.Context, trainerID uuid.UUID, clientID *uuid.UUID) error {
	if clientID == nil {
		return nil
	}
	_, ok, err := s.resolver.GetOwnedClient(ctx, trainerID, *clientID)
	if err != nil {
		return err
	}
	if !ok {
		return invalid("client_id", "client %s is not available", *clientID)
	}
	return nil
}

func applyPatch(w *domain.Workout, p WorkoutPatch) error {
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return invalid("title", "cannot be empty")
		}
		w.Title = title
	}
	if p.Date != nil {
		w.Date = *p.Date
	}
	if p.Status != nil {
		if !p.Status.Valid() {
			return invalid("status", "unknown status %q", *p.Status)
		}
		w.Status = *p.Status
	}
	if p.Notes != nil {
		w.Notes = *p.Notes
	}
	if p.FreeformLog != nil {
		w.FreeformLog = *p.FreeformLog
	}
	switch {
	case p.ClearClient:
		w.ClientID = nil
	case p.ClientID != nil:
		id := *p.ClientID
		w.ClientID = &id
	}
	return nil
}
