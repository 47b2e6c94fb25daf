package sqldb

import (
	"alcyxob/trainer-planner/internal/domain"
	"alcyxob/trainer-planner/internal/logger"
	"alcyxob/trainer-planner/internal/repository"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) repository.Store {
	t.Helper()
	db, err := OpenMemory(logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return NewStore(db)
}

func intp(v int) *int { return &v }

func TestTrainerRepository_GetOrCreateBySubject(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.Trainers.GetOrCreateBySubject(ctx, "auth0|abc", "coach@example.com", "Coach")
	require.NoError(t, err)
	second, err := store.Trainers.GetOrCreateBySubject(ctx, "auth0|abc", "", "")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "coach@example.com", second.Email)

	got, err := store.Trainers.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "auth0|abc", got.Subject)

	_, err = store.Trainers.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestExerciseRepository_Visibility(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()

	global := &domain.Exercise{Name: "Back Squat", PrimaryMuscle: "quads", IsActive: true}
	mine := &domain.Exercise{Name: "Alice Row", PrimaryMuscle: "back", TrainerID: &alice, Tags: []string{"pull"}}
	theirs := &domain.Exercise{Name: "Bob Press", PrimaryMuscle: "chest", TrainerID: &bob}
	for _, e := range []*domain.Exercise{global, mine, theirs} {
		require.NoError(t, store.Exercises.Create(ctx, e))
	}

	visible, err := store.Exercises.ListVisible(ctx, alice, repository.ExerciseFilter{})
	require.NoError(t, err)
	require.Len(t, visible, 2)
	assert.Equal(t, "Alice Row", visible[0].Name)
	assert.Equal(t, []string{"pull"}, visible[0].Tags)
	assert.Equal(t, "Back Squat", visible[1].Name)
	assert.Nil(t, visible[1].TrainerID)

	filtered, err := store.Exercises.ListVisible(ctx, alice, repository.ExerciseFilter{Query: "SQU"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, global.ID, filtered[0].ID)

	ids, err := store.Exercises.VisibleIDs(ctx, alice, []uuid.UUID{global.ID, mine.ID, theirs.ID, uuid.New()})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{global.ID, mine.ID}, ids)

	names, err := store.Exercises.ListGlobalNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Back Squat"}, names)
}

func TestExerciseRepository_DuplicateNamePerScope(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()

	require.NoError(t, store.Exercises.Create(ctx, &domain.Exercise{Name: "Goblet Squat"}))
	err := store.Exercises.Create(ctx, &domain.Exercise{Name: " goblet squat"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	require.NoError(t, store.Exercises.Create(ctx, &domain.Exercise{Name: "Goblet Squat", TrainerID: &alice}))
	require.NoError(t, store.Exercises.Create(ctx, &domain.Exercise{Name: "Goblet Squat", TrainerID: &bob}))
	err = store.Exercises.Create(ctx, &domain.Exercise{Name: "GOBLET SQUAT", TrainerID: &alice})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestExerciseRepository_UpdateAndDeleteRequireOwner(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()

	global := &domain.Exercise{Name: "Plank"}
	require.NoError(t, store.Exercises.Create(ctx, global))
	mine := &domain.Exercise{Name: "Curl", TrainerID: &alice}
	require.NoError(t, store.Exercises.Create(ctx, mine))

	assert.ErrorIs(t, store.Exercises.Update(ctx, global), repository.ErrNotFound)

	stolen := *mine
	stolen.TrainerID = &bob
	stolen.Name = "Hijacked"
	assert.ErrorIs(t, store.Exercises.Update(ctx, &stolen), repository.ErrNotFound)

	mine.Name = "Hammer Curl"
	require.NoError(t, store.Exercises.Update(ctx, mine))
	got, err := store.Exercises.GetByID(ctx, mine.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hammer Curl", got.Name)

	assert.ErrorIs(t, store.Exercises.Delete(ctx, global.ID, alice), repository.ErrNotFound)
	assert.ErrorIs(t, store.Exercises.Delete(ctx, mine.ID, bob), repository.ErrNotFound)
	require.NoError(t, store.Exercises.Delete(ctx, mine.ID, alice))
	_, err = store.Exercises.GetByID(ctx, mine.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func sampleWorkout(trainerID, exerciseID uuid.UUID) *domain.Workout {
	w := &domain.Workout{
		ID:        uuid.New(),
		TrainerID: trainerID,
		Title:     "Lower A",
		Date:      time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		Status:    domain.StatusPlanned,
	}
	w.Blocks = domain.BuildBlocks(w.ID, []domain.BlockDraft{
		{BlockType: domain.BlockStraight, Sets: []domain.SetDraft{
			{ExerciseID: exerciseID, TargetRepsMin: intp(5), TargetRepsMax: intp(5)},
			{ExerciseID: exerciseID, TargetRepsMin: intp(5), TargetRepsMax: intp(5)},
		}},
		{BlockType: domain.BlockFinisher, Sets: []domain.SetDraft{
			{ExerciseID: exerciseID, TargetDurationSeconds: intp(60)},
		}},
	})
	return w
}

func TestWorkoutRepository_CreateAndGetOwned(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	alice := uuid.New()
	exerciseID := uuid.New()

	w := sampleWorkout(alice, exerciseID)
	require.NoError(t, store.Workouts.Create(ctx, w))
	assert.Equal(t, 1, w.Version)

	got, err := store.Workouts.GetOwned(ctx, w.ID, alice)
	require.NoError(t, err)
	require.Len(t, got.Blocks, 2)
	assert.Equal(t, domain.BlockStraight, got.Blocks[0].BlockType)
	assert.Equal(t, 0, got.Blocks[0].SequenceIndex)
	require.Len(t, got.Blocks[0].Sets, 2)
	assert.Equal(t, 1, got.Blocks[0].Sets[1].SetIndex)
	assert.Equal(t, 5, *got.Blocks[0].Sets[1].TargetRepsMax)
	assert.Nil(t, got.Blocks[0].Sets[1].TargetDurationSeconds)
	assert.Equal(t, 60, *got.Blocks[1].Sets[0].TargetDurationSeconds)

	_, err = store.Workouts.GetOwned(ctx, w.ID, uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestWorkoutRepository_ReplaceBlocks(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	alice := uuid.New()
	exerciseID, otherID := uuid.New(), uuid.New()

	w := sampleWorkout(alice, exerciseID)
	require.NoError(t, store.Workouts.Create(ctx, w))

	replacement := domain.BuildBlocks(w.ID, []domain.BlockDraft{
		{BlockType: domain.BlockCircuit, Sets: []domain.SetDraft{{ExerciseID: otherID}}},
	})
	version, err := store.Workouts.ReplaceBlocks(ctx, w.ID, alice, replacement, intp(1))
	require.NoError(t, err)
	assert.Equal(t, 2, version)

	got, err := store.Workouts.GetOwned(ctx, w.ID, alice)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Version)
	require.Len(t, got.Blocks, 1)
	assert.Equal(t, domain.BlockCircuit, got.Blocks[0].BlockType)
	assert.Equal(t, otherID, got.Blocks[0].Sets[0].ExerciseID)

	n, err := store.Workouts.CountSetsByExercise(ctx, exerciseID)
	require.NoError(t, err)
	assert.Zero(t, n, "old sets must not survive a replace")

	_, err = store.Workouts.ReplaceBlocks(ctx, w.ID, alice, nil, intp(1))
	assert.ErrorIs(t, err, repository.ErrVersionMismatch)

	_, err = store.Workouts.ReplaceBlocks(ctx, w.ID, uuid.New(), nil, nil)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	version, err = store.Workouts.ReplaceBlocks(ctx, w.ID, alice, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, version)
	got, err = store.Workouts.GetOwned(ctx, w.ID, alice)
	require.NoError(t, err)
	assert.Empty(t, got.Blocks)
}

func TestWorkoutRepository_ReplaceBlocksRollsBack(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	alice := uuid.New()
	exerciseID := uuid.New()

	w := sampleWorkout(alice, exerciseID)
	require.NoError(t, store.Workouts.Create(ctx, w))

	// Two sets sharing an id fail the insert after the old tree was deleted.
	bad := domain.BuildBlocks(w.ID, []domain.BlockDraft{
		{BlockType: domain.BlockStraight, Sets: []domain.SetDraft{{ExerciseID: exerciseID}, {ExerciseID: exerciseID}}},
	})
	bad[0].Sets[1].ID = bad[0].Sets[0].ID

	_, err := store.Workouts.ReplaceBlocks(ctx, w.ID, alice, bad, nil)
	require.Error(t, err)

	got, err := store.Workouts.GetOwned(ctx, w.ID, alice)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Version)
	assert.Len(t, got.Blocks, 2)
}

func TestWorkoutRepository_ListFilterAndOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	alice := uuid.New()
	client := &domain.Client{TrainerID: alice, Name: "Dana"}
	require.NoError(t, store.Clients.Create(ctx, client))

	older := sampleWorkout(alice, uuid.New())
	older.Date = time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	older.Title = "Upper B"
	newer := sampleWorkout(alice, uuid.New())
	newer.ClientID = &client.ID
	foreign := sampleWorkout(uuid.New(), uuid.New())
	for _, w := range []*domain.Workout{older, newer, foreign} {
		require.NoError(t, store.Workouts.Create(ctx, w))
	}

	all, err := store.Workouts.ListByTrainer(ctx, alice, repository.WorkoutFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, newer.ID, all[0].ID)
	assert.Equal(t, older.ID, all[1].ID)

	byClient, err := store.Workouts.ListByTrainer(ctx, alice, repository.WorkoutFilter{ClientID: &client.ID})
	require.NoError(t, err)
	require.Len(t, byClient, 1)
	assert.Equal(t, newer.ID, byClient[0].ID)

	byTitle, err := store.Workouts.ListByTrainer(ctx, alice, repository.WorkoutFilter{Query: "upper"})
	require.NoError(t, err)
	require.Len(t, byTitle, 1)
	assert.Equal(t, older.ID, byTitle[0].ID)

	require.NoError(t, store.Workouts.DetachClient(ctx, alice, client.ID))
	got, err := store.Workouts.GetOwned(ctx, newer.ID, alice)
	require.NoError(t, err)
	assert.Nil(t, got.ClientID)
}

func TestWorkoutRepository_DeleteCascades(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	alice := uuid.New()
	exerciseID := uuid.New()

	w := sampleWorkout(alice, exerciseID)
	require.NoError(t, store.Workouts.Create(ctx, w))

	assert.ErrorIs(t, store.Workouts.Delete(ctx, w.ID, uuid.New()), repository.ErrNotFound)
	require.NoError(t, store.Workouts.Delete(ctx, w.ID, alice))

	n, err := store.Workouts.CountSetsByExercise(ctx, exerciseID)
	require.NoError(t, err)
	assert.Zero(t, n)
	_, err = store.Workouts.GetOwned(ctx, w.ID, alice)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestClientRepository_OwnerScoped(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()

	c := &domain.Client{TrainerID: alice, Name: "Sam", InjuryFlags: []string{"knee"}}
	require.NoError(t, store.Clients.Create(ctx, c))

	_, err := store.Clients.GetOwned(ctx, c.ID, bob)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	got, err := store.Clients.GetOwned(ctx, c.ID, alice)
	require.NoError(t, err)
	assert.Equal(t, []string{"knee"}, got.InjuryFlags)

	got.Notes = "prefers mornings"
	require.NoError(t, store.Clients.Update(ctx, got))
	list, err := store.Clients.ListByTrainer(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "prefers mornings", list[0].Notes)

	assert.ErrorIs(t, store.Clients.Delete(ctx, c.ID, bob), repository.ErrNotFound)
	require.NoError(t, store.Clients.Delete(ctx, c.ID, alice))
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	alice := uuid.New()

	err := store.Transactor.WithTransaction(ctx, func(ctx context.Context) error {
		if err := store.Exercises.Create(ctx, &domain.Exercise{Name: "Temp", TrainerID: &alice}); err != nil {
			return err
		}
		return repository.ErrDuplicate
	})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	list, err := store.Exercises.ListVisible(ctx, alice, repository.ExerciseFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}
