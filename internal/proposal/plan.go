// Package proposal turns workout plans produced by an external generator
// into create payloads for the plan engine, or rejects them.
package proposal

import (
	"alcyxob/trainer-planner/internal/domain"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Subsets accepted in focus_subsets.
var Subsets = []string{"upper", "lower", "core", "full_body", "conditioning"}

// Plan is a structurally valid proposal. Ids are kept as submitted;
// they are resolved against the visible catalog later.
type Plan struct {
	Name            string
	FocusSubsets    []string
	FocusTags       []string
	MusclesTargeted []string
	Blocks          []Block
}

type Block struct {
	BlockType   domain.BlockType
	RestSeconds *int
	Exercises   []Entry
}

// Entry is one exercise within a block with its prescribed sets.
type Entry struct {
	ExerciseID string
	Sets       []Prescription
}

// Prescription is one set as the generator described it.
// At least one of Reps, RepsText or Seconds is present.
type Prescription struct {
	Reps       *int
	RepsText   string
	Seconds    *int
	Weight     *float64
	WeightText string // non-numeric weight such as "bodyweight"
	Notes      string
}

type wirePlan struct {
	Name            *string          `json:"name"`
	FocusSubsets    []string         `json:"focus_subsets"`
	FocusTags       []string         `json:"focus_tags"`
	MusclesTargeted []string         `json:"muscles_targeted"`
	Blocks          *[]wireBlock     `json:"blocks"`
	Plan            *json.RawMessage `json:"plan"`
}

type wireBlock struct {
	BlockType   *string         `json:"block_type"`
	RestSeconds json.RawMessage `json:"rest_seconds"`
	Exercises   *[]wireExercise `json:"exercises"`
}

type wireExercise struct {
	ExerciseID *string    `json:"exercise_id"`
	Sets       *[]wireSet `json:"sets"`
}

type wireSet struct {
	Reps     json.RawMessage `json:"reps"`
	Seconds  json.RawMessage `json:"seconds"`
	RepsText *string         `json:"reps_text"`
	Weight   json.RawMessage `json:"weight"`
	Notes    *string         `json:"notes"`
}

var secondsPattern = regexp.MustCompile(`^(\d+)\s*(s|sec|secs|second|seconds)?$`)

// Parse performs structural validation. Any failure is a *MalformedPlanError.
// A top-level {"plan": {...}} envelope is unwrapped.
func Parse(raw []byte) (*Plan, error) {
	var w wirePlan
	if err := decodeDocument(raw, &w); err != nil {
		return nil, err
	}
	if w.Blocks == nil && w.Plan != nil {
		inner := *w.Plan
		w = wirePlan{}
		if err := decodeDocument(inner, &w); err != nil {
			return nil, err
		}
	}
	return w.toPlan()
}

// decodeDocument unmarshals the plan, ignoring unknown keys, and reports decode
// failures as malformed-plan errors with the offending path.
func decodeDocument(raw []byte, v any) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return malformed("", "empty document")
	}
	err := json.Unmarshal(raw, v)
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &syntaxErr):
		return malformed("", "invalid JSON at offset %d: %v", syntaxErr.Offset, syntaxErr)
	case errors.As(err, &typeErr):
		return malformed(typeErr.Field, "expected %s, got %s", typeErr.Type, typeErr.Value)
	default:
		return malformed("", "%v", err)
	}
}

func (w *wirePlan) toPlan() (*Plan, error) {
	if w.Name == nil || strings.TrimSpace(*w.Name) == "" {
		return nil, malformed("name", "is required")
	}
	if w.Blocks == nil {
		return nil, malformed("blocks", "is required")
	}

	plan := &Plan{
		Name:            strings.TrimSpace(*w.Name),
		FocusTags:       trimAll(w.FocusTags),
		MusclesTargeted: trimAll(w.MusclesTargeted),
		Blocks:          make([]Block, 0, len(*w.Blocks)),
	}
	for i, s := range w.FocusSubsets {
		s = strings.ToLower(strings.TrimSpace(s))
		if !isSubset(s) {
			return nil, malformed(fmt.Sprintf("focus_subsets[%d]", i), "%q is not one of %s", s, strings.Join(Subsets, ", "))
		}
		plan.FocusSubsets = append(plan.FocusSubsets, s)
	}

	for i, wb := range *w.Blocks {
		path := fmt.Sprintf("blocks[%d]", i)
		block, err := wb.toBlock(path)
		if err != nil {
			return nil, err
		}
		plan.Blocks = append(plan.Blocks, block)
	}
	return plan, nil
}

func (wb *wireBlock) toBlock(path string) (Block, error) {
	var block Block
	if wb.BlockType == nil {
		return block, malformed(path+".block_type", "is required")
	}
	block.BlockType = domain.BlockType(strings.ToLower(strings.TrimSpace(*wb.BlockType)))
	if !block.BlockType.Valid() {
		return block, malformed(path+".block_type", "%q is not a block type", *wb.BlockType)
	}

	rest, err := optionalInt(wb.RestSeconds, path+".rest_seconds")
	if err != nil {
		return block, err
	}
	block.RestSeconds = rest

	if wb.Exercises == nil {
		return block, malformed(path+".exercises", "is required")
	}
	block.Exercises = make([]Entry, 0, len(*wb.Exercises))
	for j, we := range *wb.Exercises {
		epath := fmt.Sprintf("%s.exercises[%d]", path, j)
		if we.ExerciseID == nil || strings.TrimSpace(*we.ExerciseID) == "" {
			return block, malformed(epath+".exercise_id", "is required")
		}
		if we.Sets == nil {
			return block, malformed(epath+".sets", "is required")
		}
		entry := Entry{
			ExerciseID: strings.TrimSpace(*we.ExerciseID),
			Sets:       make([]Prescription, 0, len(*we.Sets)),
		}
		for k, ws := range *we.Sets {
			p, err := ws.toPrescription(fmt.Sprintf("%s.sets[%d]", epath, k))
			if err != nil {
				return block, err
			}
			entry.Sets = append(entry.Sets, p)
		}
		block.Exercises = append(block.Exercises, entry)
	}
	return block, nil
}

func (ws *wireSet) toPrescription(path string) (Prescription, error) {
	var p Prescription

	reps, err := decodeScalar(ws.Reps)
	if err != nil {
		return p, malformed(path+".reps", "%v", err)
	}
	switch v := reps.(type) {
	case nil:
	case json.Number:
		n, err := integral(v)
		if err != nil {
			return p, malformed(path+".reps", "%v", err)
		}
		p.Reps = &n
	case string:
		// Generators often quote numbers, send ranges or append "reps".
		if min, max, ok := repsBounds(v); ok && min == max {
			p.Reps = &min
		} else {
			p.RepsText = normalizeRepsText(v)
		}
	default:
		return p, malformed(path+".reps", "expected number or string")
	}

	if ws.RepsText != nil {
		if s := normalizeRepsText(*ws.RepsText); s != "" {
			p.RepsText = s
		}
	}

	secs, err := decodeScalar(ws.Seconds)
	if err != nil {
		return p, malformed(path+".seconds", "%v", err)
	}
	switch v := secs.(type) {
	case nil:
	case json.Number:
		n, err := integral(v)
		if err != nil {
			return p, malformed(path+".seconds", "%v", err)
		}
		p.Seconds = &n
	case string:
		m := secondsPattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(v)))
		if m == nil {
			return p, malformed(path+".seconds", "%q is not a duration in seconds", v)
		}
		n, _ := strconv.Atoi(m[1])
		p.Seconds = &n
	default:
		return p, malformed(path+".seconds", "expected number or string")
	}

	weight, err := decodeScalar(ws.Weight)
	if err != nil {
		return p, malformed(path+".weight", "%v", err)
	}
	switch v := weight.(type) {
	case nil:
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return p, malformed(path+".weight", "%v", err)
		}
		p.Weight = &f
	case string:
		s := strings.TrimSpace(v)
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			p.Weight = &f
		} else if !isNoWeight(s) {
			p.WeightText = s
		}
	default:
		return p, malformed(path+".weight", "expected number or string")
	}

	if ws.Notes != nil {
		p.Notes = strings.TrimSpace(*ws.Notes)
	}

	if p.Reps == nil && p.RepsText == "" && p.Seconds == nil {
		return p, malformed(path, "a set needs reps, reps_text or seconds")
	}
	return p, nil
}

// normalizeRepsText reduces "8-10 reps" to "8-10" and "12 reps" to "12".
// Free text is kept as sent.
func normalizeRepsText(text string) string {
	s := strings.TrimSpace(text)
	min, max, ok := repsBounds(s)
	switch {
	case !ok:
		return s
	case min == max:
		return strconv.Itoa(min)
	default:
		return strconv.Itoa(min) + "-" + strconv.Itoa(max)
	}
}

// decodeScalar returns nil, json.Number or string. Anything else is an error.
func decodeScalar(raw json.RawMessage) (any, error) {
	if len(raw) == 0 || string(bytes.TrimSpace(raw)) == "null" {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	switch v.(type) {
	case json.Number, string:
		return v, nil
	default:
		return nil, fmt.Errorf("expected number or string, got %s", string(raw))
	}
}

func optionalInt(raw json.RawMessage, path string) (*int, error) {
	v, err := decodeScalar(raw)
	if err != nil {
		return nil, malformed(path, "%v", err)
	}
	switch v := v.(type) {
	case nil:
		return nil, nil
	case json.Number:
		n, err := integral(v)
		if err != nil {
			return nil, malformed(path, "%v", err)
		}
		return &n, nil
	default:
		return nil, malformed(path, "expected integer")
	}
}

// integral accepts 12 and 12.0 but not 12.5.
func integral(n json.Number) (int, error) {
	if i, err := n.Int64(); err == nil {
		if i > math.MaxInt32 || i < math.MinInt32 {
			return 0, fmt.Errorf("%s is out of range", n.String())
		}
		return int(i), nil
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, fmt.Errorf("%s is not an integer", n.String())
	}
	return int(f), nil
}

func isSubset(s string) bool {
	for _, known := range Subsets {
		if s == known {
			return true
		}
	}
	return false
}

func isNoWeight(s string) bool {
	switch strings.ToLower(s) {
	case "", "none", "no weight", "n/a":
		return true
	}
	return false
}

func trimAll(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
