package proposal

import (
	"alcyxob/trainer-planner/internal/domain"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Options carries the workout fields a proposal does not describe.
type Options struct {
	Date     time.Time // zero means today, UTC
	ClientID *uuid.UUID
	Status   domain.WorkoutStatus // empty means draft
}

// Transform parses, validates and converts a raw proposal. Validation runs
// structural, then referential, then safety checks and the first failing
// class is returned. Nothing is persisted.
func Transform(raw []byte, visible VisibleSet, limits Limits, opts Options) (*domain.WorkoutDraft, error) {
	plan, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	if err := CheckReferences(plan, visible); err != nil {
		return nil, err
	}
	if err := CheckSafety(plan, limits); err != nil {
		return nil, err
	}
	return plan.Draft(opts), nil
}

// Draft converts a validated plan. Block order and set order across
// exercises are preserved as submitted.
func (p *Plan) Draft(opts Options) *domain.WorkoutDraft {
	date := opts.Date
	if date.IsZero() {
		date = time.Now().UTC().Truncate(24 * time.Hour)
	}
	status := opts.Status
	if status == "" {
		status = domain.StatusDraft
	}

	draft := &domain.WorkoutDraft{
		Title:    p.Name,
		Date:     date,
		Status:   status,
		Notes:    p.summary(),
		ClientID: opts.ClientID,
		Blocks:   make([]domain.BlockDraft, 0, len(p.Blocks)),
	}
	for i, b := range p.Blocks {
		bd := domain.BlockDraft{BlockType: b.BlockType, SequenceIndex: i}
		for _, e := range b.Exercises {
			// Unresolvable ids become uuid.Nil, which the engine rejects.
			exerciseID, _ := uuid.Parse(e.ExerciseID)
			for _, pr := range e.Sets {
				sd := pr.setDraft(exerciseID, b.RestSeconds)
				sd.SetIndex = len(bd.Sets)
				sd.IsWarmup = b.BlockType == domain.BlockWarmup
				bd.Sets = append(bd.Sets, sd)
			}
		}
		draft.Blocks = append(draft.Blocks, bd)
	}
	return draft
}

func (p *Plan) summary() string {
	var parts []string
	if focus := append(append([]string{}, p.FocusSubsets...), p.FocusTags...); len(focus) > 0 {
		parts = append(parts, "Focus: "+strings.Join(focus, ", "))
	}
	if len(p.MusclesTargeted) > 0 {
		parts = append(parts, "Muscles: "+strings.Join(p.MusclesTargeted, ", "))
	}
	return strings.Join(parts, ". ")
}

func (pr Prescription) setDraft(exerciseID uuid.UUID, rest *int) domain.SetDraft {
	sd := domain.SetDraft{
		ExerciseID:      exerciseID,
		TargetLoadValue: copyFloat(pr.Weight),
		RestSeconds:     copyInt(rest),
		Notes:           pr.Notes,
	}

	var text []string
	switch {
	case pr.Reps != nil:
		sd.TargetRepsMin = copyInt(pr.Reps)
		sd.TargetRepsMax = copyInt(pr.Reps)
		text = append(text, strconv.Itoa(*pr.Reps)+" reps")
	case pr.RepsText != "":
		if min, max, ok := repsBounds(pr.RepsText); ok {
			sd.TargetRepsMin = &min
			sd.TargetRepsMax = &max
			text = append(text, pr.RepsText+" reps")
		} else {
			text = append(text, pr.RepsText)
		}
	}
	if pr.Seconds != nil {
		sd.TargetDurationSeconds = copyInt(pr.Seconds)
		text = append(text, strconv.Itoa(*pr.Seconds)+" sec")
	}

	sd.PrescriptionText = strings.Join(text, ", ")
	switch {
	case pr.Weight != nil:
		sd.PrescriptionText += " @ " + strconv.FormatFloat(*pr.Weight, 'f', -1, 64)
	case pr.WeightText != "":
		sd.PrescriptionText += " @ " + pr.WeightText
	}
	return sd
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
