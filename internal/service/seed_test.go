package service

import (
	"alcyxob/trainer-planner/internal/catalog"
	"alcyxob/trainer-planner/internal/repository"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanGlobalSeed(t *testing.T) {
	desired := []catalog.Entry{
		{Name: "Back Squat", PrimaryMuscle: "quads"},
		{Name: " bench press ", PrimaryMuscle: "chest"},
		{Name: "BACK SQUAT", PrimaryMuscle: "quads"},
		{Name: "Mystery Move"},
		{Name: "  ", PrimaryMuscle: "core"},
		{Name: "Plank", PrimaryMuscle: "core", Tags: []string{"isometric"}},
	}

	rows := PlanGlobalSeed([]string{"Plank"}, desired)
	require.Len(t, rows, 2)
	assert.Equal(t, "Back Squat", rows[0].Name)
	assert.Equal(t, "bench press", rows[1].Name)
	for _, r := range rows {
		assert.True(t, r.IsGlobal())
		assert.True(t, r.IsActive)
	}

	assert.Empty(t, PlanGlobalSeed([]string{"back squat", "Bench Press", "plank"}, desired))
}

func TestSeedGlobalExercises_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	desired, err := catalog.Global()
	require.NoError(t, err)

	first, err := SeedGlobalExercises(ctx, env.store.Exercises, desired, nopLogger())
	require.NoError(t, err)
	assert.Equal(t, len(desired), first.Created)
	assert.Zero(t, first.Skipped)

	trainer := uuid.New()
	before, err := env.exercises.ListExercises(ctx, trainer, repository.ExerciseFilter{})
	require.NoError(t, err)

	second, err := SeedGlobalExercises(ctx, env.store.Exercises, desired, nopLogger())
	require.NoError(t, err)
	assert.Zero(t, second.Created)
	assert.Equal(t, len(desired), second.Skipped)

	after, err := env.exercises.ListExercises(ctx, trainer, repository.ExerciseFilter{})
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestSeedGlobalExercises_LeavesExistingRowsAlone(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	existing := env.globalExercise(t, "Back Squat")

	result, err := SeedGlobalExercises(ctx, env.store.Exercises, []catalog.Entry{
		{Name: "back squat", PrimaryMuscle: "quads", Equipment: "barbell"},
		{Name: "Farmer Carry", PrimaryMuscle: "grip"},
	}, nopLogger())
	require.NoError(t, err)
	assert.Equal(t, SeedResult{Created: 1, Skipped: 1}, result)

	got, err := env.store.Exercises.GetByID(ctx, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, "full body", got.PrimaryMuscle)
	assert.Empty(t, got.Equipment)
}
