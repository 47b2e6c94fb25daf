package api

import (
	"alcyxob/trainer-planner/internal/domain"
	"alcyxob/trainer-planner/internal/logger"
	"alcyxob/trainer-planner/internal/repository"
	"alcyxob/trainer-planner/internal/service"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type WorkoutHandler struct {
	workoutService service.WorkoutService
	log            *logger.Logger
}

func NewWorkoutHandler(workoutService service.WorkoutService, log *logger.Logger) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService, log: log}
}

// --- DTOs ---

// SetDTO is a set as read and written by the API. Index fields are ignored on write.
type SetDTO struct {
	ID                    string   `json:"id,omitempty"`
	ExerciseID            string   `json:"exercise_id"`
	SetIndex              int      `json:"set_index"`
	TargetRepsMin         *int     `json:"target_reps_min,omitempty"`
	TargetRepsMax         *int     `json:"target_reps_max,omitempty"`
	TargetDurationSeconds *int     `json:"target_duration_seconds,omitempty"`
	TargetLoadValue       *float64 `json:"target_load_value,omitempty"`
	RestSeconds           *int     `json:"rest_seconds,omitempty"`
	Tempo                 string   `json:"tempo,omitempty"`
	IsWarmup              bool     `json:"is_warmup"`
	Notes                 string   `json:"notes,omitempty"`
	PrescriptionText      string   `json:"prescription_text,omitempty"`
}

type BlockDTO struct {
	ID            string   `json:"id,omitempty"`
	BlockType     string   `json:"block_type"`
	SequenceIndex int      `json:"sequence_index"`
	Notes         string   `json:"notes,omitempty"`
	Sets          []SetDTO `json:"sets"`
}

type CreateWorkoutRequest struct {
	Title       string     `json:"title" binding:"required,max=200"`
	Date        string     `json:"date"`
	Status      string     `json:"status"`
	Notes       string     `json:"notes"`
	FreeformLog string     `json:"freeform_log"`
	ClientID    string     `json:"client_id"`
	Blocks      []BlockDTO `json:"blocks"`
}

// UpdateWorkoutRequest is a metadata patch. An empty client_id detaches the client.
type UpdateWorkoutRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=200"`
	Date        *string `json:"date"`
	Status      *string `json:"status"`
	Notes       *string `json:"notes"`
	FreeformLog *string `json:"freeform_log"`
	ClientID    *string `json:"client_id"`
}

// ReplacePlanRequest replaces the whole block/set tree.
type ReplacePlanRequest struct {
	Blocks          []BlockDTO `json:"blocks" binding:"required"`
	ExpectedVersion *int       `json:"expected_version"`
}

type WorkoutResponse struct {
	ID          string     `json:"id"`
	ClientID    *string    `json:"client_id"`
	Title       string     `json:"title"`
	Date        string     `json:"date"`
	Status      string     `json:"status"`
	Notes       string     `json:"notes,omitempty"`
	FreeformLog string     `json:"freeform_log,omitempty"`
	Version     int        `json:"version"`
	Blocks      []BlockDTO `json:"blocks"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// DraftResponse is an unsaved workout, shaped like a create request.
type DraftResponse struct {
	Title    string     `json:"title"`
	Date     string     `json:"date"`
	Status   string     `json:"status"`
	Notes    string     `json:"notes,omitempty"`
	ClientID *string    `json:"client_id"`
	Blocks   []BlockDTO `json:"blocks"`
}

func MapWorkoutToResponse(w *domain.Workout) WorkoutResponse {
	blocks := make([]BlockDTO, len(w.Blocks))
	for i, b := range w.Blocks {
		sets := make([]SetDTO, len(b.Sets))
		for j, s := range b.Sets {
			sets[j] = setToDTO(s.ID.String(), s.SetIndex, domain.SetDraft{
				ExerciseID:            s.ExerciseID,
				TargetRepsMin:         s.TargetRepsMin,
				TargetRepsMax:         s.TargetRepsMax,
				TargetDurationSeconds: s.TargetDurationSeconds,
				TargetLoadValue:       s.TargetLoadValue,
				RestSeconds:           s.RestSeconds,
				Tempo:                 s.Tempo,
				IsWarmup:              s.IsWarmup,
				Notes:                 s.Notes,
				PrescriptionText:      s.PrescriptionText,
			})
		}
		blocks[i] = BlockDTO{
			ID:            b.ID.String(),
			BlockType:     string(b.BlockType),
			SequenceIndex: b.SequenceIndex,
			Notes:         b.Notes,
			Sets:          sets,
		}
	}
	return WorkoutResponse{
		ID:          w.ID.String(),
		ClientID:    optionalID(w.ClientID),
		Title:       w.Title,
		Date:        w.Date.UTC().Format(dateLayout),
		Status:      string(w.Status),
		Notes:       w.Notes,
		FreeformLog: w.FreeformLog,
		Version:     w.Version,
		Blocks:      blocks,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}

// MapDraftToResponse renders a draft with positions taken from array order,
// which is how the engine will store it.
func MapDraftToResponse(d *domain.WorkoutDraft) DraftResponse {
	blocks := make([]BlockDTO, len(d.Blocks))
	for i, b := range d.Blocks {
		sets := make([]SetDTO, len(b.Sets))
		for j, s := range b.Sets {
			sets[j] = setToDTO("", j, s)
		}
		blocks[i] = BlockDTO{BlockType: string(b.BlockType), SequenceIndex: i, Notes: b.Notes, Sets: sets}
	}
	return DraftResponse{
		Title:    d.Title,
		Date:     d.Date.UTC().Format(dateLayout),
		Status:   string(d.Status),
		Notes:    d.Notes,
		ClientID: optionalID(d.ClientID),
		Blocks:   blocks,
	}
}

func setToDTO(id string, index int, s domain.SetDraft) SetDTO {
	return SetDTO{
		ID:                    id,
		ExerciseID:            s.ExerciseID.String(),
		SetIndex:              index,
		TargetRepsMin:         s.TargetRepsMin,
		TargetRepsMax:         s.TargetRepsMax,
		TargetDurationSeconds: s.TargetDurationSeconds,
		TargetLoadValue:       s.TargetLoadValue,
		RestSeconds:           s.RestSeconds,
		Tempo:                 s.Tempo,
		IsWarmup:              s.IsWarmup,
		Notes:                 s.Notes,
		PrescriptionText:      s.PrescriptionText,
	}
}

// blocksFromDTO converts request blocks. Malformed exercise ids are reported
// with their path; visibility is checked by the engine.
func blocksFromDTO(in []BlockDTO) ([]domain.BlockDraft, error) {
	out := make([]domain.BlockDraft, 0, len(in))
	for i, b := range in {
		block := domain.BlockDraft{
			BlockType:     domain.BlockType(strings.TrimSpace(b.BlockType)),
			SequenceIndex: b.SequenceIndex,
			Notes:         b.Notes,
			Sets:          make([]domain.SetDraft, 0, len(b.Sets)),
		}
		for j, s := range b.Sets {
			exerciseID, err := uuid.Parse(s.ExerciseID)
			if err != nil {
				return nil, &service.ValidationError{
					Field:  fmt.Sprintf("blocks[%d].sets[%d].exercise_id", i, j),
					Reason: "must be a uuid",
				}
			}
			block.Sets = append(block.Sets, domain.SetDraft{
				ExerciseID:            exerciseID,
				SetIndex:              s.SetIndex,
				TargetRepsMin:         s.TargetRepsMin,
				TargetRepsMax:         s.TargetRepsMax,
				TargetDurationSeconds: s.TargetDurationSeconds,
				TargetLoadValue:       s.TargetLoadValue,
				RestSeconds:           s.RestSeconds,
				Tempo:                 s.Tempo,
				IsWarmup:              s.IsWarmup,
				Notes:                 s.Notes,
				PrescriptionText:      s.PrescriptionText,
			})
		}
		out = append(out, block)
	}
	return out, nil
}

func optionalID(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

// parseDate accepts a calendar date or an RFC 3339 timestamp. Empty yields the zero time.
func parseDate(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, &service.ValidationError{Field: field, Reason: "must be YYYY-MM-DD or RFC 3339"}
	}
	return t.UTC(), nil
}

func parseOptionalUUID(field, s string) (*uuid.UUID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, &service.ValidationError{Field: field, Reason: "must be a uuid"}
	}
	return &id, nil
}

func strictMode(c *gin.Context) service.PlanOptions {
	strict, _ := strconv.ParseBool(c.Query("strict"))
	return service.PlanOptions{RequireSets: strict}
}

// --- Handler Methods ---

// CreateWorkout godoc
// @Summary Create a workout
// @Description Creates a workout with its blocks and sets in one step. Block and set
// @Description positions are assigned from array order.
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param strict query bool false "Reject blocks without sets"
// @Param workout body CreateWorkoutRequest true "Workout"
// @Success 201 {object} WorkoutResponse
// @Failure 422 {object} gin.H "Invalid workout or unavailable exercise"
// @Router /workouts [post]
func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	trainerID, ok := requireTrainerID(c)
	if !ok {
		return
	}
	var req CreateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	clientID, err := parseOptionalUUID("client_id", req.ClientID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	blocks, err := blocksFromDTO(req.Blocks)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	workout, err := h.workoutService.CreateWorkout(c.Request.Context(), trainerID, domain.WorkoutDraft{
		Title:       req.Title,
		Date:        date,
		Status:      domain.WorkoutStatus(req.Status),
		Notes:       req.Notes,
		FreeformLog: req.FreeformLog,
		ClientID:    clientID,
		Blocks:      blocks,
	}, strictMode(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, MapWorkoutToResponse(workout))
}

// ListWorkouts godoc
// @Summary List the trainer's workouts
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param q query string false "Title contains"
// @Param client_id query string false "Client ID"
// @Param status query string false "draft, planned, in_progress or completed"
// @Success 200 {array} WorkoutResponse
// @Router /workouts [get]
func (h *WorkoutHandler) ListWorkouts(c *gin.Context) {
	trainerID, ok := requireTrainerID(c)
	if !ok {
		return
	}
	clientID, err := parseOptionalUUID("client_id", c.Query("client_id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	workouts, err := h.workoutService.ListWorkouts(c.Request.Context(), trainerID, repository.WorkoutFilter{
		Query:    c.Query("q"),
		ClientID: clientID,
		Status:   domain.WorkoutStatus(c.Query("status")),
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	resp := make([]WorkoutResponse, len(workouts))
	for i := range workouts {
		resp[i] = MapWorkoutToResponse(&workouts[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *WorkoutHandler) GetWorkout(c *gin.Context) {
	trainerID, ok := requireTrainerID(c)
	if !ok {
		return
	}
	workoutID, ok := pathID(c, "id")
	if !ok {
		return
	}
	workout, err := h.workoutService.GetWorkout(c.Request.Context(), trainerID, workoutID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}

func (h *WorkoutHandler) UpdateWorkout(c *gin.Context) {
	trainerID, ok := requireTrainerID(c)
	if !ok {
		return
	}
	workoutID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	patch := service.WorkoutPatch{
		Title:       req.Title,
		Notes:       req.Notes,
		FreeformLog: req.FreeformLog,
	}
	if req.Date != nil {
		date, err := parseDate("date", *req.Date)
		if err != nil || date.IsZero() {
			respondError(c, h.log, &service.ValidationError{Field: "date", Reason: "must be YYYY-MM-DD or RFC 3339"})
			return
		}
		patch.Date = &date
	}
	if req.Status != nil {
		status := domain.WorkoutStatus(*req.Status)
		patch.Status = &status
	}
	if req.ClientID != nil {
		clientID, err := parseOptionalUUID("client_id", *req.ClientID)
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		patch.ClientID = clientID
		patch.ClearClient = clientID == nil
	}

	workout, err := h.workoutService.UpdateWorkout(c.Request.Context(), trainerID, workoutID, patch)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}

// ReplacePlan godoc
// @Summary Replace a workout's plan
// @Description Discards every block and set of the workout and stores the submitted ones.
// @Description Supplying expected_version turns a concurrent edit into a 409.
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Param strict query bool false "Reject blocks without sets"
// @Param plan body ReplacePlanRequest true "New plan"
// @Success 200 {object} WorkoutResponse
// @Failure 404 {object} gin.H "Not found or not owned"
// @Failure 409 {object} gin.H "Version conflict"
// @Failure 422 {object} gin.H "Invalid plan or unavailable exercise"
// @Router /workouts/{id}/plan [put]
func (h *WorkoutHandler) ReplacePlan(c *gin.Context) {
	trainerID, ok := requireTrainerID(c)
	if !ok {
		return
	}
	workoutID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req ReplacePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}
	blocks, err := blocksFromDTO(req.Blocks)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	opts := strictMode(c)
	opts.ExpectedVersion = req.ExpectedVersion
	workout, err := h.workoutService.ReplacePlan(c.Request.Context(), trainerID, workoutID, blocks, opts)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}

func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	trainerID, ok := requireTrainerID(c)
	if !ok {
		return
	}
	workoutID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.workoutService.DeleteWorkout(c.Request.Context(), trainerID, workoutID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
