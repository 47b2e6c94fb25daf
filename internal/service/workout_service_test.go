package service

import (
	"alcyxob/trainer-planner/internal/domain"
	"alcyxob/trainer-planner/internal/repository"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateWorkout_ReindexesFromArrayOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	trainer := uuid.New()
	squat := env.globalExercise(t, "Back Squat")
	row := env.ownedExercise(t, trainer, "Chest Supported Row")

	first := straight(squat.ID, squat.ID)
	first.SequenceIndex = 5
	first.Sets[0].SetIndex = 3
	first.Sets[1].SetIndex = 3
	second := straight(row.ID)
	second.BlockType = domain.BlockSuperset
	second.SequenceIndex = 5

	w, err := env.workouts.CreateWorkout(ctx, trainer, domain.WorkoutDraft{
		Title:  "Lower A",
		Blocks: []domain.BlockDraft{first, second},
	}, PlanOptions{})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, w.Status)
	assert.Equal(t, 1, w.Version)
	requireIndexed(t, w)

	got, err := env.workouts.GetWorkout(ctx, trainer, w.ID)
	require.NoError(t, err)
	require.Len(t, got.Blocks, 2)
	requireIndexed(t, got)
	assert.Equal(t, domain.BlockStraight, got.Blocks[0].BlockType)
	assert.Equal(t, row.ID, got.Blocks[1].Sets[0].ExerciseID)
}

func TestCreateWorkout_RejectsInvisibleExercise(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()
	bobs := env.ownedExercise(t, bob, "Bob Curl")

	for name, id := range map[string]uuid.UUID{"other trainer": bobs.ID, "unknown": uuid.New()} {
		t.Run(name, func(t *testing.T) {
			_, err := env.workouts.CreateWorkout(ctx, alice, domain.WorkoutDraft{
				Title:  "Arms",
				Blocks: []domain.BlockDraft{straight(id)},
			}, PlanOptions{})
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, "exercise_id", verr.Field)
		})
	}

	list, err := env.workouts.ListWorkouts(ctx, alice, repository.WorkoutFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreateWorkout_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	trainer := uuid.New()
	squat := env.globalExercise(t, "Back Squat")

	tests := []struct {
		name  string
		draft domain.WorkoutDraft
		opts  PlanOptions
		field string
	}{
		{"missing title", domain.WorkoutDraft{}, PlanOptions{}, "title"},
		{"bad status", domain.WorkoutDraft{Title: "x", Status: "archived"}, PlanOptions{}, "status"},
		{"missing block type", domain.WorkoutDraft{Title: "x", Blocks: []domain.BlockDraft{{}}}, PlanOptions{}, "blocks[0].block_type"},
		{"bad block type", domain.WorkoutDraft{Title: "x", Blocks: []domain.BlockDraft{{BlockType: "Drop Set"}}}, PlanOptions{}, "blocks[0].block_type"},
		{"strict empty block", domain.WorkoutDraft{Title: "x", Blocks: []domain.BlockDraft{{BlockType: domain.BlockCircuit}}}, PlanOptions{RequireSets: true}, "blocks[0].sets"},
		{"missing exercise", domain.WorkoutDraft{Title: "x", Blocks: []domain.BlockDraft{{BlockType: domain.BlockStraight, Sets: []domain.SetDraft{{}}}}}, PlanOptions{}, "blocks[0].sets[0].exercise_id"},
		{"inverted reps", domain.WorkoutDraft{Title: "x", Blocks: []domain.BlockDraft{{BlockType: domain.BlockStraight, Sets: []domain.SetDraft{
			{ExerciseID: squat.ID, TargetRepsMin: intp(12), TargetRepsMax: intp(8)},
		}}}}, PlanOptions{}, "blocks[0].sets[0].target_reps_max"},
		{"negative rest", domain.WorkoutDraft{Title: "x", Blocks: []domain.BlockDraft{{BlockType: domain.BlockStraight, Sets: []domain.SetDraft{
			{ExerciseID: squat.ID, RestSeconds: intp(-1)},
		}}}}, PlanOptions{}, "blocks[0].sets[0].rest_seconds"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.workouts.CreateWorkout(ctx, trainer, tt.draft, tt.opts)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestCreateWorkout_EmptyBlockAllowedWithoutStrictMode(t *testing.T) {
	env := newTestEnv(t)
	w, err := env.workouts.CreateWorkout(context.Background(), uuid.New(), domain.WorkoutDraft{
		Title:  "Skeleton",
		Blocks: []domain.BlockDraft{{BlockType: domain.BlockFinisher}},
	}, PlanOptions{})
	require.NoError(t, err)
	require.Len(t, w.Blocks, 1)
	assert.Empty(t, w.Blocks[0].Sets)
}

func TestCreateWorkout_ClientMustBeOwned(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()
	bobsClient, err := env.clients.CreateClient(ctx, bob, ClientInput{Name: "Dana"})
	require.NoError(t, err)

	_, err = env.workouts.CreateWorkout(ctx, alice, domain.WorkoutDraft{Title: "x", ClientID: &bobsClient.ID}, PlanOptions{})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "client_id", verr.Field)

	mine, err := env.clients.CreateClient(ctx, alice, ClientInput{Name: "Eli"})
	require.NoError(t, err)
	w, err := env.workouts.CreateWorkout(ctx, alice, domain.WorkoutDraft{Title: "x", ClientID: &mine.ID}, PlanOptions{})
	require.NoError(t, err)
	assert.Equal(t, mine.ID, *w.ClientID)
}

func TestReplacePlan_FullReplaceAndReindex(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	trainer := uuid.New()
	squat := env.globalExercise(t, "Back Squat")
	bench := env.globalExercise(t, "Bench Press")

	w, err := env.workouts.CreateWorkout(ctx, trainer, domain.WorkoutDraft{
		Title:  "Full Body",
		Blocks: []domain.BlockDraft{straight(squat.ID), straight(bench.ID)},
	}, PlanOptions{})
	require.NoError(t, err)
	oldBlockID := w.Blocks[0].ID

	moved := straight(bench.ID, squat.ID, bench.ID)
	moved.SequenceIndex = 9
	replaced, err := env.workouts.ReplacePlan(ctx, trainer, w.ID, []domain.BlockDraft{moved}, PlanOptions{})
	require.NoError(t, err)

	assert.Equal(t, w.ID, replaced.ID)
	assert.Equal(t, 2, replaced.Version)
	require.Len(t, replaced.Blocks, 1)
	requireIndexed(t, replaced)
	assert.NotEqual(t, oldBlockID, replaced.Blocks[0].ID)
	var order []uuid.UUID
	for _, s := range replaced.Blocks[0].Sets {
		order = append(order, s.ExerciseID)
	}
	assert.Equal(t, []uuid.UUID{bench.ID, squat.ID, bench.ID}, order)
	assert.Equal(t, w.CreatedAt.Unix(), replaced.CreatedAt.Unix())
}

func TestReplacePlan_Errors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()
	squat := env.globalExercise(t, "Back Squat")
	bobs := env.ownedExercise(t, bob, "Bob Curl")

	w, err := env.workouts.CreateWorkout(ctx, alice, domain.WorkoutDraft{
		Title: "Lower", Blocks: []domain.BlockDraft{straight(squat.ID)},
	}, PlanOptions{})
	require.NoError(t, err)

	t.Run("not owner", func(t *testing.T) {
		_, err := env.workouts.ReplacePlan(ctx, bob, w.ID, []domain.BlockDraft{straight(squat.ID)}, PlanOptions{})
		assert.ErrorIs(t, err, ErrNotFound)
	})
	t.Run("missing workout", func(t *testing.T) {
		_, err := env.workouts.ReplacePlan(ctx, alice, uuid.New(), nil, PlanOptions{})
		assert.ErrorIs(t, err, ErrNotFound)
	})
	t.Run("invisible exercise", func(t *testing.T) {
		_, err := env.workouts.ReplacePlan(ctx, alice, w.ID, []domain.BlockDraft{straight(bobs.ID)}, PlanOptions{})
		assert.ErrorIs(t, err, ErrValidation)
	})
	t.Run("stale version", func(t *testing.T) {
		_, err := env.workouts.ReplacePlan(ctx, alice, w.ID, []domain.BlockDraft{straight(squat.ID)}, PlanOptions{ExpectedVersion: intp(7)})
		assert.ErrorIs(t, err, ErrConflict)
	})

	got, err := env.workouts.GetWorkout(ctx, alice, w.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Version)
	assert.Equal(t, w.Blocks[0].ID, got.Blocks[0].ID)

	replaced, err := env.workouts.ReplacePlan(ctx, alice, w.ID, nil, PlanOptions{ExpectedVersion: intp(1)})
	require.NoError(t, err)
	assert.Equal(t, 2, replaced.Version)
	assert.Empty(t, replaced.Blocks)
}

func TestReplacePlan_ConcurrentWritersLastOneWins(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	trainer := uuid.New()
	squat := env.globalExercise(t, "Back Squat")
	bench := env.globalExercise(t, "Bench Press")

	w, err := env.workouts.CreateWorkout(ctx, trainer, domain.WorkoutDraft{Title: "Race"}, PlanOptions{})
	require.NoError(t, err)

	submissions := [][]domain.BlockDraft{
		{straight(squat.ID, squat.ID, squat.ID)},
		{straight(bench.ID), straight(bench.ID)},
	}
	var wg sync.WaitGroup
	errs := make([]error, len(submissions))
	for i, blocks := range submissions {
		wg.Add(1)
		go func(i int, blocks []domain.BlockDraft) {
			defer wg.Done()
			_, errs[i] = env.workouts.ReplacePlan(ctx, trainer, w.ID, blocks, PlanOptions{})
		}(i, blocks)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	got, err := env.workouts.GetWorkout(ctx, trainer, w.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Version)
	requireIndexed(t, got)

	shape := func(blocks []domain.Block) [][]uuid.UUID {
		var out [][]uuid.UUID
		for _, b := range blocks {
			var ids []uuid.UUID
			for _, s := range b.Sets {
				ids = append(ids, s.ExerciseID)
			}
			out = append(out, ids)
		}
		return out
	}
	squats := [][]uuid.UUID{{squat.ID, squat.ID, squat.ID}}
	benches := [][]uuid.UUID{{bench.ID}, {bench.ID}}
	assert.Contains(t, [][][]uuid.UUID{squats, benches}, shape(got.Blocks))
}

func TestWorkout_OwnerExclusive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()

	w, err := env.workouts.CreateWorkout(ctx, alice, domain.WorkoutDraft{Title: "Private"}, PlanOptions{})
	require.NoError(t, err)

	_, err = env.workouts.GetWorkout(ctx, bob, w.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = env.workouts.UpdateWorkout(ctx, bob, w.ID, WorkoutPatch{Title: strp("Mine now")})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, env.workouts.DeleteWorkout(ctx, bob, w.ID), ErrNotFound)

	list, err := env.workouts.ListWorkouts(ctx, bob, repository.WorkoutFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)

	got, err := env.workouts.GetWorkout(ctx, alice, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "Private", got.Title)
}

func TestUpdateWorkout_Patch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	trainer := uuid.New()
	client, err := env.clients.CreateClient(ctx, trainer, ClientInput{Name: "Dana"})
	require.NoError(t, err)

	w, err := env.workouts.CreateWorkout(ctx, trainer, domain.WorkoutDraft{Title: "Draft", Notes: "keep"}, PlanOptions{})
	require.NoError(t, err)

	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	planned := domain.StatusPlanned
	updated, err := env.workouts.UpdateWorkout(ctx, trainer, w.ID, WorkoutPatch{
		Title:    strp("  Monday  "),
		Date:     &date,
		Status:   &planned,
		ClientID: &client.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Monday", updated.Title)
	assert.Equal(t, "keep", updated.Notes)

	got, err := env.workouts.GetWorkout(ctx, trainer, w.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPlanned, got.Status)
	assert.True(t, date.Equal(got.Date))
	require.NotNil(t, got.ClientID)
	assert.Equal(t, client.ID, *got.ClientID)

	cleared, err := env.workouts.UpdateWorkout(ctx, trainer, w.ID, WorkoutPatch{ClearClient: true})
	require.NoError(t, err)
	assert.Nil(t, cleared.ClientID)

	bad := domain.WorkoutStatus("archived")
	_, err = env.workouts.UpdateWorkout(ctx, trainer, w.ID, WorkoutPatch{Status: &bad})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = env.workouts.UpdateWorkout(ctx, trainer, w.ID, WorkoutPatch{ClientID: ptrUUID(uuid.New())})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDeleteWorkout_Cascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	trainer := uuid.New()
	squat := env.globalExercise(t, "Back Squat")

	w, err := env.workouts.CreateWorkout(ctx, trainer, domain.WorkoutDraft{
		Title: "Gone", Blocks: []domain.BlockDraft{straight(squat.ID, squat.ID)},
	}, PlanOptions{})
	require.NoError(t, err)
	require.NoError(t, env.workouts.DeleteWorkout(ctx, trainer, w.ID))

	_, err = env.workouts.GetWorkout(ctx, trainer, w.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	n, err := env.store.Workouts.CountSetsByExercise(ctx, squat.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestListWorkouts_Filters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	trainer := uuid.New()
	client, err := env.clients.CreateClient(ctx, trainer, ClientInput{Name: "Dana"})
	require.NoError(t, err)

	older := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := older.AddDate(0, 0, 7)
	_, err = env.workouts.CreateWorkout(ctx, trainer, domain.WorkoutDraft{Title: "Upper Push", Date: older}, PlanOptions{})
	require.NoError(t, err)
	_, err = env.workouts.CreateWorkout(ctx, trainer, domain.WorkoutDraft{Title: "Lower", Date: newer, ClientID: &client.ID, Status: domain.StatusPlanned}, PlanOptions{})
	require.NoError(t, err)

	all, err := env.workouts.ListWorkouts(ctx, trainer, repository.WorkoutFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Lower", all[0].Title)

	byClient, err := env.workouts.ListWorkouts(ctx, trainer, repository.WorkoutFilter{ClientID: &client.ID})
	require.NoError(t, err)
	require.Len(t, byClient, 1)

	byQuery, err := env.workouts.ListWorkouts(ctx, trainer, repository.WorkoutFilter{Query: "push"})
	require.NoError(t, err)
	require.Len(t, byQuery, 1)
	assert.Equal(t, "Upper Push", byQuery[0].Title)

	_, err = env.workouts.ListWorkouts(ctx, trainer, repository.WorkoutFilter{Status: "nope"})
	assert.ErrorIs(t, err, ErrValidation)
}

func ptrUUID(id uuid.UUID) *uuid.UUID { return &id }
