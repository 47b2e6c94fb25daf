package proposal

import (
	"alcyxob/trainer-planner/internal/domain"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	squatID = uuid.MustParse("6f1c2a8e-0000-4000-8000-000000000001")
	benchID = uuid.MustParse("6f1c2a8e-0000-4000-8000-000000000002")
	plankID = uuid.MustParse("6f1c2a8e-0000-4000-8000-000000000003")
)

func visible() VisibleSet {
	return VisibleSet{squatID: {}, benchID: {}, plankID: {}}
}

func TestTransform_RepsAndWeight(t *testing.T) {
	raw := fmt.Sprintf(`{
		"name": "Heavy Lower",
		"focus_subsets": ["lower"],
		"muscles_targeted": ["quads", "glutes"],
		"blocks": [{
			"block_type": "straight",
			"rest_seconds": 120,
			"exercises": [{"exercise_id": %q, "sets": [{"reps": 10, "weight": 135}]}]
		}]
	}`, squatID)

	draft, err := Transform([]byte(raw), visible(), DefaultLimits(), Options{})
	require.NoError(t, err)

	assert.Equal(t, "Heavy Lower", draft.Title)
	assert.Equal(t, domain.StatusDraft, draft.Status)
	assert.Equal(t, "Focus: lower. Muscles: quads, glutes", draft.Notes)
	require.Len(t, draft.Blocks, 1)
	require.Len(t, draft.Blocks[0].Sets, 1)

	set := draft.Blocks[0].Sets[0]
	assert.Equal(t, squatID, set.ExerciseID)
	assert.Equal(t, 10, *set.TargetRepsMin)
	assert.Equal(t, 10, *set.TargetRepsMax)
	assert.Equal(t, 135.0, *set.TargetLoadValue)
	assert.Equal(t, 120, *set.RestSeconds)
	assert.Nil(t, set.TargetDurationSeconds)
	assert.Equal(t, "10 reps @ 135", set.PrescriptionText)
}

func TestTransform_SetNormalization(t *testing.T) {
	tests := []struct {
		name     string
		set      string
		min, max *int
		seconds  *int
		load     *float64
		text     string
	}{
		{"reps range text", `{"reps_text": "8-10"}`, intp(8), intp(10), nil, nil, "8-10 reps"},
		{"single reps text", `{"reps_text": "12"}`, intp(12), intp(12), nil, nil, "12 reps"},
		{"quoted reps", `{"reps": "6"}`, intp(6), intp(6), nil, nil, "6 reps"},
		{"range in reps", `{"reps": "8-12", "weight": "60"}`, intp(8), intp(12), nil, floatp(60), "8-12 reps @ 60"},
		{"free text", `{"reps_text": "AMRAP"}`, nil, nil, nil, nil, "AMRAP"},
		{"reps with unit", `{"reps": "12 reps", "weight": 135}`, intp(12), intp(12), nil, floatp(135), "12 reps @ 135"},
		{"range with unit", `{"reps": "8-10 reps"}`, intp(8), intp(10), nil, nil, "8-10 reps"},
		{"spaced range with unit", `{"reps_text": "8 - 10 Reps"}`, intp(8), intp(10), nil, nil, "8-10 reps"},
		{"free text with count", `{"reps_text": "12 per side"}`, nil, nil, nil, nil, "12 per side"},
		{"timed", `{"seconds": 45}`, nil, nil, intp(45), nil, "45 sec"},
		{"timed string", `{"seconds": "30s"}`, nil, nil, intp(30), nil, "30 sec"},
		{"text weight", `{"reps": 15, "weight": "bodyweight"}`, intp(15), intp(15), nil, nil, "15 reps @ bodyweight"},
		{"no weight", `{"reps": 15, "weight": "no weight"}`, intp(15), intp(15), nil, nil, "15 reps"},
		{"fractional weight", `{"reps": 5, "weight": 102.5}`, intp(5), intp(5), nil, floatp(102.5), "5 reps @ 102.5"},
		{"zero weight", `{"reps": 5, "weight": 0}`, intp(5), intp(5), nil, floatp(0), "5 reps @ 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := fmt.Sprintf(`{"name": "T", "blocks": [{"block_type": "circuit",
				"exercises": [{"exercise_id": %q, "sets": [%s]}]}]}`, plankID, tt.set)

			draft, err := Transform([]byte(raw), visible(), DefaultLimits(), Options{})
			require.NoError(t, err)
			set := draft.Blocks[0].Sets[0]

			assert.Equal(t, tt.min, set.TargetRepsMin)
			assert.Equal(t, tt.max, set.TargetRepsMax)
			assert.Equal(t, tt.seconds, set.TargetDurationSeconds)
			assert.Equal(t, tt.load, set.TargetLoadValue)
			assert.Nil(t, set.RestSeconds)
			assert.Equal(t, tt.text, set.PrescriptionText)
		})
	}
}

func TestTransform_PreservesProposalOrder(t *testing.T) {
	raw := fmt.Sprintf(`{"name": "Push", "blocks": [
		{"block_type": "warmup", "rest_seconds": 30, "exercises": [
			{"exercise_id": %[3]q, "sets": [{"seconds": 30}]}
		]},
		{"block_type": "superset", "rest_seconds": 90, "exercises": [
			{"exercise_id": %[2]q, "sets": [{"reps": 8}, {"reps": 8}]},
			{"exercise_id": %[1]q, "sets": [{"reps": 12}]}
		]}
	]}`, squatID, benchID, plankID)

	draft, err := Transform([]byte(raw), visible(), DefaultLimits(), Options{})
	require.NoError(t, err)
	require.Len(t, draft.Blocks, 2)

	assert.Equal(t, domain.BlockWarmup, draft.Blocks[0].BlockType)
	assert.True(t, draft.Blocks[0].Sets[0].IsWarmup)

	sets := draft.Blocks[1].Sets
	require.Len(t, sets, 3)
	assert.Equal(t, []uuid.UUID{benchID, benchID, squatID}, []uuid.UUID{sets[0].ExerciseID, sets[1].ExerciseID, sets[2].ExerciseID})
	for j, s := range sets {
		assert.Equal(t, j, s.SetIndex)
		assert.Equal(t, 90, *s.RestSeconds)
		assert.False(t, s.IsWarmup)
	}
	assert.Equal(t, 1, draft.Blocks[1].SequenceIndex)
}

func TestTransform_Options(t *testing.T) {
	client := uuid.New()
	date := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	raw := fmt.Sprintf(`{"plan": {"name": "Wrapped", "focus_tags": ["strength"], "blocks": [{"block_type": "straight",
		"exercises": [{"exercise_id": %q, "sets": [{"reps": 3}]}]}]}}`, squatID)

	draft, err := Transform([]byte(raw), visible(), DefaultLimits(), Options{Date: date, ClientID: &client, Status: domain.StatusPlanned})
	require.NoError(t, err)
	assert.Equal(t, "Wrapped", draft.Title)
	assert.Equal(t, date, draft.Date)
	assert.Equal(t, &client, draft.ClientID)
	assert.Equal(t, domain.StatusPlanned, draft.Status)
	assert.Equal(t, "Focus: strength", draft.Notes)
}

func TestTransform_Malformed(t *testing.T) {
	valid := fmt.Sprintf("%q", squatID)
	tests := []struct {
		name string
		raw  string
		path string
	}{
		{"invalid json", `{"name": "x", "blocks": [`, ""},
		{"not an object", `[1, 2]`, ""},
		{"empty body", `  `, ""},
		{"missing name", `{"blocks": []}`, "name"},
		{"missing blocks", `{"name": "x"}`, "blocks"},
		{"blocks wrong type", `{"name": "x", "blocks": "lots"}`, "blocks"},
		{"bad subset", `{"name": "x", "focus_subsets": ["arms"], "blocks": []}`, "focus_subsets[0]"},
		{"missing block type", `{"name": "x", "blocks": [{"exercises": []}]}`, "blocks[0].block_type"},
		{"bad block type", `{"name": "x", "blocks": [{"block_type": "drop set", "exercises": []}]}`, "blocks[0].block_type"},
		{"rest as text", `{"name": "x", "blocks": [{"block_type": "straight", "rest_seconds": "long", "exercises": []}]}`, "blocks[0].rest_seconds"},
		{"missing exercise id", `{"name": "x", "blocks": [{"block_type": "straight", "exercises": [{"sets": []}]}]}`, "blocks[0].exercises[0].exercise_id"},
		{"fractional reps", `{"name": "x", "blocks": [{"block_type": "straight", "exercises": [{"exercise_id": ` + valid + `, "sets": [{"reps": 8.5}]}]}]}`, "blocks[0].exercises[0].sets[0].reps"},
		{"reps as object", `{"name": "x", "blocks": [{"block_type": "straight", "exercises": [{"exercise_id": ` + valid + `, "sets": [{"reps": {"n": 8}}]}]}]}`, "blocks[0].exercises[0].sets[0].reps"},
		{"empty set", `{"name": "x", "blocks": [{"block_type": "straight", "exercises": [{"exercise_id": ` + valid + `, "sets": [{"weight": 20}]}]}]}`, "blocks[0].exercises[0].sets[0]"},
		{"bad seconds", `{"name": "x", "blocks": [{"block_type": "straight", "exercises": [{"exercise_id": ` + valid + `, "sets": [{"seconds": "a while"}]}]}]}`, "blocks[0].exercises[0].sets[0].seconds"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Transform([]byte(tt.raw), visible(), DefaultLimits(), Options{})
			var mErr *MalformedPlanError
			require.True(t, errors.As(err, &mErr), "got %v", err)
			assert.Equal(t, tt.path, mErr.Path)
			assert.Equal(t, CodeMalformedPlan, mErr.Code())
			assert.True(t, mErr.Retryable())
		})
	}
}

func TestTransform_UnknownExercise(t *testing.T) {
	ghost := uuid.New()
	raw := fmt.Sprintf(`{"name": "x", "blocks": [
		{"block_type": "straight", "exercises": [
			{"exercise_id": %q, "sets": [{"reps": 5}]},
			{"exercise_id": %q, "sets": [{"reps": 5}]},
			{"exercise_id": "bench_press_barbell", "sets": [{"reps": 5}]},
			{"exercise_id": %q, "sets": [{"reps": 5}]}
		]}
	]}`, squatID, ghost, ghost)

	_, err := Transform([]byte(raw), visible(), DefaultLimits(), Options{})
	var uErr *UnknownExerciseError
	require.True(t, errors.As(err, &uErr), "got %v", err)
	assert.Equal(t, []string{ghost.String(), "bench_press_barbell"}, uErr.IDs)
	assert.Equal(t, CodeUnknownExercise, uErr.Code())
	assert.True(t, uErr.Retryable())

	_, err = Transform([]byte(raw), VisibleSet{}, DefaultLimits(), Options{})
	require.True(t, errors.As(err, &uErr))
	assert.False(t, uErr.Retryable())
}

func TestTransform_ReferencesCheckedBeforeSafety(t *testing.T) {
	raw := fmt.Sprintf(`{"name": "x", "blocks": [{"block_type": "straight", "exercises": [
		{"exercise_id": %q, "sets": [{"reps": 500}]}
	]}]}`, uuid.New())

	_, err := Transform([]byte(raw), visible(), DefaultLimits(), Options{})
	var uErr *UnknownExerciseError
	assert.True(t, errors.As(err, &uErr), "got %v", err)
}

func TestTransform_Safety(t *testing.T) {
	ex := func(sets string) string {
		return fmt.Sprintf(`{"exercise_id": %q, "sets": [%s]}`, benchID, sets)
	}
	tests := []struct {
		name string
		raw  string
		path string
	}{
		{"no blocks", `{"name": "x", "blocks": []}`, "blocks"},
		{"block without exercises", `{"name": "x", "blocks": [{"block_type": "straight", "exercises": []}]}`, "blocks[0].exercises"},
		{"exercise without sets", `{"name": "x", "blocks": [{"block_type": "straight", "exercises": [` + ex("") + `]}]}`, "blocks[0].exercises[0].sets"},
		{"reps too high", `{"name": "x", "blocks": [{"block_type": "straight", "exercises": [` + ex(`{"reps": 101}`) + `]}]}`, "blocks[0].exercises[0].sets[0].reps"},
		{"reps zero", `{"name": "x", "blocks": [{"block_type": "straight", "exercises": [` + ex(`{"reps": 0}`) + `]}]}`, "blocks[0].exercises[0].sets[0].reps"},
		{"range too high", `{"name": "x", "blocks": [{"block_type": "straight", "exercises": [` + ex(`{"reps_text": "90-120"}`) + `]}]}`, "blocks[0].exercises[0].sets[0].reps_text"},
		{"reps with unit too high", `{"name": "x", "blocks": [{"block_type": "straight", "exercises": [` + ex(`{"reps": "500 reps"}`) + `]}]}`, "blocks[0].exercises[0].sets[0].reps"},
		{"range with unit too high", `{"name": "x", "blocks": [{"block_type": "straight", "exercises": [` + ex(`{"reps": "90-120 reps"}`) + `]}]}`, "blocks[0].exercises[0].sets[0].reps_text"},
		{"negative quoted reps", `{"name": "x", "blocks": [{"block_type": "straight", "exercises": [` + ex(`{"reps": "-5"}`) + `]}]}`, "blocks[0].exercises[0].sets[0].reps_text"},
		{"free text count too high", `{"name": "x", "blocks": [{"block_type": "straight", "exercises": [` + ex(`{"reps_text": "500 per side"}`) + `]}]}`, "blocks[0].exercises[0].sets[0].reps_text"},
		{"inverted range", `{"name": "x", "blocks": [{"block_type": "straight", "exercises": [` + ex(`{"reps_text": "12-8"}`) + `]}]}`, "blocks[0].exercises[0].sets[0].reps_text"},
		{"seconds too long", `{"name": "x", "blocks": [{"block_type": "straight", "exercises": [` + ex(`{"seconds": 3601}`) + `]}]}`, "blocks[0].exercises[0].sets[0].seconds"},
		{"negative weight", `{"name": "x", "blocks": [{"block_type": "straight", "exercises": [` + ex(`{"reps": 5, "weight": -10}`) + `]}]}`, "blocks[0].exercises[0].sets[0].weight"},
		{"rest too long", `{"name": "x", "blocks": [{"block_type": "straight", "rest_seconds": 900, "exercises": [` + ex(`{"reps": 5}`) + `]}]}`, "blocks[0].rest_seconds"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Transform([]byte(tt.raw), visible(), DefaultLimits(), Options{})
			var sErr *SafetyRuleError
			require.True(t, errors.As(err, &sErr), "got %v", err)
			assert.Equal(t, tt.path, sErr.Path)
			assert.Equal(t, CodeSafetyRule, sErr.Code())
		})
	}
}

func TestTransform_ConfigurableLimits(t *testing.T) {
	raw := fmt.Sprintf(`{"name": "x", "blocks": [{"block_type": "straight", "exercises": [
		{"exercise_id": %q, "sets": [{"reps": 30}]}
	]}]}`, squatID)

	_, err := Transform([]byte(raw), visible(), DefaultLimits(), Options{})
	require.NoError(t, err)

	strict := DefaultLimits()
	strict.MaxReps = 20
	_, err = Transform([]byte(raw), visible(), strict, Options{})
	var sErr *SafetyRuleError
	assert.True(t, errors.As(err, &sErr))
}

func intp(v int) *int { return &v }
func floatp(v float64) *float64 { return &v }
