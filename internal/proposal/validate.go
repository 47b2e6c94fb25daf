package proposal

import (
	"alcyxob/trainer-planner/internal/config"
	"alcyxob/trainer-planner/internal/domain"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Limits bounds the numbers a proposal may carry.
type Limits struct {
	MinReps        int
	MaxReps        int
	MinSeconds     int
	MaxSeconds     int
	MaxRestSeconds int
}

func DefaultLimits() Limits {
	return Limits{MinReps: 1, MaxReps: 100, MinSeconds: 1, MaxSeconds: 3600, MaxRestSeconds: 600}
}

func LimitsFromConfig(cfg config.SafetyConfig) Limits {
	return Limits{
		MinReps:        cfg.MinReps,
		MaxReps:        cfg.MaxReps,
		MinSeconds:     cfg.MinSeconds,
		MaxSeconds:     cfg.MaxSeconds,
		MaxRestSeconds: cfg.MaxRestSeconds,
	}
}

// VisibleSet is the set of exercise ids a trainer may reference.
type VisibleSet map[uuid.UUID]struct{}

func NewVisibleSet(exercises []domain.Exercise) VisibleSet {
	set := make(VisibleSet, len(exercises))
	for _, e := range exercises {
		set[e.ID] = struct{}{}
	}
	return set
}

func (s VisibleSet) Contains(id uuid.UUID) bool {
	_, ok := s[id]
	return ok
}

// CheckReferences returns an *UnknownExerciseError naming every exercise id
// that does not resolve in visible. Ids that are not uuids are unknown too.
func CheckReferences(plan *Plan, visible VisibleSet) error {
	seen := make(map[string]struct{})
	var unknown []string
	for _, b := range plan.Blocks {
		for _, e := range b.Exercises {
			id, err := uuid.Parse(e.ExerciseID)
			if err == nil && visible.Contains(id) {
				continue
			}
			if _, dup := seen[e.ExerciseID]; dup {
				continue
			}
			seen[e.ExerciseID] = struct{}{}
			unknown = append(unknown, e.ExerciseID)
		}
	}
	if len(unknown) > 0 {
		return &UnknownExerciseError{IDs: unknown, CatalogSize: len(visible)}
	}
	return nil
}

var (
	repsPattern     = regexp.MustCompile(`(?i)^(\d+)(?:\s*-\s*(\d+))?\s*(?:reps?)?$`)
	firstIntPattern = regexp.MustCompile(`-?\d+`)
)

// repsBounds extracts a numeric rep target: "12", "8-10", "12 reps", "8 - 10 reps".
// Text such as "AMRAP" has no bounds.
func repsBounds(text string) (min, max int, ok bool) {
	m := repsPattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return 0, 0, false
	}
	min, _ = strconv.Atoi(m[1])
	max = min
	if m[2] != "" {
		max, _ = strconv.Atoi(m[2])
	}
	return min, max, true
}

// firstInt returns the first integer embedded in free text ("500 reps per side" is 500).
func firstInt(text string) (int, bool) {
	m := firstIntPattern.FindString(text)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	return n, err == nil
}

// CheckSafety rejects empty structures and numbers outside limits.
func CheckSafety(plan *Plan, limits Limits) error {
	if len(plan.Blocks) == 0 {
		return unsafe("blocks", "plan has no blocks")
	}
	for i, b := range plan.Blocks {
		path := fmt.Sprintf("blocks[%d]", i)
		if len(b.Exercises) == 0 {
			return unsafe(path+".exercises", "block has no exercises")
		}
		if b.RestSeconds != nil && (*b.RestSeconds < 0 || *b.RestSeconds > limits.MaxRestSeconds) {
			return unsafe(path+".rest_seconds", "%d is outside [0, %d]", *b.RestSeconds, limits.MaxRestSeconds)
		}
		for j, e := range b.Exercises {
			epath := fmt.Sprintf("%s.exercises[%d]", path, j)
			if len(e.Sets) == 0 {
				return unsafe(epath+".sets", "exercise has no sets")
			}
			for k, p := range e.Sets {
				if err := checkPrescription(p, limits, fmt.Sprintf("%s.sets[%d]", epath, k)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func checkPrescription(p Prescription, limits Limits, path string) error {
	if p.Reps != nil && !within(*p.Reps, limits.MinReps, limits.MaxReps) {
		return unsafe(path+".reps", "%d is outside [%d, %d]", *p.Reps, limits.MinReps, limits.MaxReps)
	}
	if p.RepsText != "" {
		if min, max, ok := repsBounds(p.RepsText); ok {
			if min > max {
				return unsafe(path+".reps_text", "range %q is inverted", p.RepsText)
			}
			if !within(min, limits.MinReps, limits.MaxReps) || !within(max, limits.MinReps, limits.MaxReps) {
				return unsafe(path+".reps_text", "%q is outside [%d, %d]", p.RepsText, limits.MinReps, limits.MaxReps)
			}
		} else if n, ok := firstInt(p.RepsText); ok && !within(n, limits.MinReps, limits.MaxReps) {
			return unsafe(path+".reps_text", "%q is outside [%d, %d]", p.RepsText, limits.MinReps, limits.MaxReps)
		}
	}
	if p.Seconds != nil && !within(*p.Seconds, limits.MinSeconds, limits.MaxSeconds) {
		return unsafe(path+".seconds", "%d is outside [%d, %d]", *p.Seconds, limits.MinSeconds, limits.MaxSeconds)
	}
	if p.Weight != nil && *p.Weight < 0 {
		return unsafe(path+".weight", "weight cannot be negative")
	}
	return nil
}

func within(v, lo, hi int) bool {
	return v >= lo && v <= hi
}
