package service

import (
	"alcyxob/trainer-planner/internal/domain"
	"alcyxob/trainer-planner/internal/logger"
	"alcyxob/trainer-planner/internal/repository"
	"alcyxob/trainer-planner/internal/repository/sqldb"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	store     repository.Store
	resolver  Resolver
	workouts  WorkoutService
	exercises ExerciseService
	clients   ClientService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := sqldb.OpenMemory(logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	store := sqldb.NewStore(db)
	resolver := NewResolver(store)
	return &testEnv{
		store:     store,
		resolver:  resolver,
		workouts:  NewWorkoutService(store, resolver, logger.Nop()),
		exercises: NewExerciseService(store, resolver, &fakeStorage{}, logger.Nop()),
		clients:   NewClientService(store, resolver, logger.Nop()),
	}
}

func (e *testEnv) globalExercise(t *testing.T, name string) *domain.Exercise {
	t.Helper()
	ex := &domain.Exercise{Name: name, PrimaryMuscle: "full body", IsActive: true}
	require.NoError(t, e.store.Exercises.Create(context.Background(), ex))
	return ex
}

func (e *testEnv) ownedExercise(t *testing.T, owner uuid.UUID, name string) *domain.Exercise {
	t.Helper()
	ex, err := e.exercises.CreateExercise(context.Background(), owner, ExerciseInput{Name: name, PrimaryMuscle: "back"})
	require.NoError(t, err)
	return ex
}

func straight(ids ...uuid.UUID) domain.BlockDraft {
	b := domain.BlockDraft{BlockType: domain.BlockStraight}
	for _, id := range ids {
		b.Sets = append(b.Sets, domain.SetDraft{ExerciseID: id, TargetRepsMin: intp(8), TargetRepsMax: intp(10)})
	}
	return b
}

func requireIndexed(t *testing.T, w *domain.Workout) {
	t.Helper()
	for i, b := range w.Blocks {
		require.Equal(t, i, b.SequenceIndex, "block %d", i)
		for j, s := range b.Sets {
			require.Equal(t, j, s.SetIndex, "block %d set %d", i, j)
		}
	}
}

func nopLogger() *logger.Logger { return logger.Nop() }

func intp(v int) *int { return &v }
func strp(v string) *string { return &v }

func draftTitled(title string) domain.WorkoutDraft {
	return domain.WorkoutDraft{Title: title}
}
