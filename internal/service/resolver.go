package service

import (
	"alcyxob/trainer-planner/internal/domain"
	"alcyxob/trainer-planner/internal/repository"
	"context"
	"errors"

	"github.com/google/uuid"
)

// Resolver answers "can this trainer read or mutate this record".
// Lookups report absence with ok=false and never fail for it; err is
// reserved for store failures. Callers decide what absence means.
type Resolver interface {
	ListVisibleExercises(ctx context.Context, trainerID uuid.UUID, filter repository.ExerciseFilter) ([]domain.Exercise, error)
	// GetVisibleExercise resolves global exercises and those owned by trainerID.
	GetVisibleExercise(ctx context.Context, trainerID, id uuid.UUID) (*domain.Exercise, bool, error)
	// GetOwnedExercise resolves only exercises owned by trainerID. Global ones are absent.
	GetOwnedExercise(ctx context.Context, trainerID, id uuid.UUID) (*domain.Exercise, bool, error)
	// LockOwnedExercise is GetOwnedExercise that also row-locks the exercise when
	// called inside a transaction, so a concurrent plan write cannot reference it.
	LockOwnedExercise(ctx context.Context, trainerID, id uuid.UUID) (*domain.Exercise, bool, error)
	GetOwnedWorkout(ctx context.Context, trainerID, id uuid.UUID) (*domain.Workout, bool, error)
	GetOwnedClient(ctx context.Context, trainerID, id uuid.UUID) (*domain.Client, bool, error)
	// InvisibleExercises returns the ids in ids that trainerID may not reference, in input order.
	InvisibleExercises(ctx context.Context, trainerID uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, error)
}

type resolver struct {
	store repository.Store
}

func NewResolver(store repository.Store) Resolver {
	return &resolver{store: store}
}

func (r *resolver) ListVisibleExercises(ctx context.Context, trainerID uuid.UUID, filter repository.ExerciseFilter) ([]domain.Exercise, error) {
	return r.store.Exercises.ListVisible(ctx, trainerID, filter)
}

func (r *resolver) GetVisibleExercise(ctx context.Context, trainerID, id uuid.UUID) (*domain.Exercise, bool, error) {
	e, err := r.store.Exercises.GetByID(ctx, id)
	if err != nil {
		return absent[domain.Exercise](err)
	}
	if !e.IsGlobal() && !e.IsOwnedBy(trainerID) {
		return nil, false, nil
	}
	return e, true, nil
}

func (r *resolver) GetOwnedExercise(ctx context.Context, trainerID, id uuid.UUID) (*domain.Exercise, bool, error) {
	return ownedExercise(ctx, trainerID, id, r.store.Exercises.GetByID)
}

func (r *resolver) LockOwnedExercise(ctx context.Context, trainerID, id uuid.UUID) (*domain.Exercise, bool, error) {
	return ownedExercise(ctx, trainerID, id, r.store.Exercises.GetByIDForUpdate)
}

func ownedExercise(ctx context.Context, trainerID, id uuid.UUID, fetch func(context.Context, uuid.UUID) (*domain.Exercise, error)) (*domain.Exercise, bool, error) {
	e, err := fetch(ctx, id)
	if err != nil {
		return absent[domain.Exercise](err)
	}
	if !e.IsOwnedBy(trainerID) {
		return nil, false, nil
	}
	return e, true, nil
}

func (r *resolver) GetOwnedWorkout(ctx context.Context, trainerID, id uuid.UUID) (*domain.Workout, bool, error) {
	w, err := r.store.Workouts.GetOwned(ctx, id, trainerID)
	if err != nil {
		return absent[domain.Workout](err)
	}
	return w, true, nil
}

func (r *resolver) GetOwnedClient(ctx context.Context, trainerID, id uuid.UUID) (*domain.Client, bool, error) {
	c, err := r.store.Clients.GetOwned(ctx, id, trainerID)
	if err != nil {
		return absent[domain.Client](err)
	}
	return c, true, nil
}

func (r *resolver) InvisibleExercises(ctx context.Context, trainerID uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	found, err := r.store.Exercises.VisibleIDs(ctx, trainerID, ids)
	if err != nil {
		return nil, err
	}
	visible := make(map[uuid.UUID]struct{}, len(found))
	for _, id := range found {
		visible[id] = struct{}{}
	}
	var missing []uuid.UUID
	for _, id := range ids {
		if _, ok := visible[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func absent[T any](err error) (*T, bool, error) {
	if errors.Is(err, repository.ErrNotFound) {
		return nil, false, nil
	}
	return nil, false, err
}
