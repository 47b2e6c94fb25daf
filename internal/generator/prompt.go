package generator

import (
	"alcyxob/trainer-planner/internal/domain"
	"encoding/json"
	"fmt"
	"strings"
)

// Request describes the workout the trainer asked for.
type Request struct {
	FocusSubsets         []string
	SessionLengthMinutes int
	EquipmentAvailable   []string
	Notes                string
	Client               *domain.Client
}

const systemPrompt = `You are a strength and conditioning coach drafting one workout session.
Answer with a single JSON object and nothing else, matching:
{"name": string, "focus_subsets": [string], "muscles_targeted": [string],
 "blocks": [{"block_type": "straight"|"superset"|"circuit"|"triset"|"warmup"|"finisher",
             "rest_seconds": integer,
             "exercises": [{"exercise_id": string,
                            "sets": [{"reps": integer, "reps_text": string, "seconds": integer,
                                      "weight": number|string, "notes": string}]}]}]}
Rules:
- exercise_id MUST be copied from the catalog below. Never invent ids.
- Every set has reps, reps_text (for ranges like "8-10" or "AMRAP") or seconds.
- Every block has at least one exercise and every exercise at least one set.`

type catalogEntry struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	PrimaryMuscle   string `json:"primary_muscle,omitempty"`
	MovementPattern string `json:"movement_pattern,omitempty"`
	Equipment       string `json:"equipment,omitempty"`
}

// BuildMessages renders the generation conversation. Only active exercises
// are offered; the client's injury flags are passed as constraints.
func BuildMessages(req Request, exercises []domain.Exercise) []Message {
	catalog := make([]catalogEntry, 0, len(exercises))
	for _, e := range exercises {
		if !e.IsActive {
			continue
		}
		catalog = append(catalog, catalogEntry{
			ID:              e.ID.String(),
			Name:            e.Name,
			PrimaryMuscle:   e.PrimaryMuscle,
			MovementPattern: e.MovementPattern,
			Equipment:       e.Equipment,
		})
	}
	catalogJSON, _ := json.Marshal(catalog)

	var b strings.Builder
	if len(req.FocusSubsets) > 0 {
		fmt.Fprintf(&b, "Focus: %s\n", strings.Join(req.FocusSubsets, ", "))
	}
	if req.SessionLengthMinutes > 0 {
		fmt.Fprintf(&b, "Session length: about %d minutes\n", req.SessionLengthMinutes)
	}
	if len(req.EquipmentAvailable) > 0 {
		fmt.Fprintf(&b, "Equipment available: %s\n", strings.Join(req.EquipmentAvailable, ", "))
	}
	if req.Client != nil {
		if len(req.Client.InjuryFlags) > 0 {
			fmt.Fprintf(&b, "Client injuries to work around: %s\n", strings.Join(req.Client.InjuryFlags, ", "))
		}
		if req.Client.Notes != "" {
			fmt.Fprintf(&b, "Client notes: %s\n", req.Client.Notes)
		}
	}
	if req.Notes != "" {
		fmt.Fprintf(&b, "Trainer notes: %s\n", req.Notes)
	}
	fmt.Fprintf(&b, "Exercise catalog: %s", catalogJSON)

	return []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: b.String()},
	}
}

// CorrectionMessages extends a conversation with the rejected answer and the
// reason, asking for a fixed plan.
func CorrectionMessages(messages []Message, rejected []byte, reason error) []Message {
	out := make([]Message, 0, len(messages)+2)
	out = append(out, messages...)
	return append(out,
		Message{Role: "assistant", Content: string(rejected)},
		Message{Role: "user", Content: fmt.Sprintf("That plan was rejected: %v. Return a corrected JSON plan that fixes this.", reason)},
	)
}
