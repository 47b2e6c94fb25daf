package api

import (
	"alcyxob/trainer-planner/internal/logger"
	"alcyxob/trainer-planner/internal/proposal"
	"alcyxob/trainer-planner/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// maxProposalBytes bounds a proposal body.
const maxProposalBytes = 1 << 20

type ProposalHandler struct {
	generationService service.GenerationService
	log               *logger.Logger
}

func NewProposalHandler(generationService service.GenerationService, log *logger.Logger) *ProposalHandler {
	return &ProposalHandler{generationService: generationService, log: log}
}

type GenerateWorkoutRequest struct {
	FocusSubsets         []string `json:"focus_subsets" binding:"omitempty,dive,oneof=upper lower core full_body conditioning"`
	SessionLengthMinutes int      `json:"session_length_minutes" binding:"omitempty,min=10,max=240"`
	EquipmentAvailable   []string `json:"equipment_available"`
	Notes                string   `json:"notes" binding:"max=2000"`
	ClientID             string   `json:"client_id"`
	Date                 string   `json:"date"`
}

// AcceptProposal godoc
// @Summary Create a workout from a generated proposal
// @Description The body is the proposal JSON itself. It is validated against the
// @Description trainer's visible exercises before anything is stored.
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param date query string false "Workout date, YYYY-MM-DD"
// @Param client_id query string false "Client ID"
// @Param strict query bool false "Reject blocks without sets"
// @Success 201 {object} WorkoutResponse
// @Failure 422 {object} gin.H "malformed_plan, unknown_exercise or safety_rule"
// @Router /workouts/proposals [post]
func (h *ProposalHandler) AcceptProposal(c *gin.Context) {
	trainerID, ok := requireTrainerID(c)
	if !ok {
		return
	}
	date, err := parseDate("date", c.Query("date"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	clientID, err := parseOptionalUUID("client_id", c.Query("client_id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxProposalBytes)
	raw, err := c.GetRawData()
	if err != nil {
		invalidBody(c, err)
		return
	}

	workout, err := h.generationService.AcceptProposal(c.Request.Context(), trainerID, raw,
		proposal.Options{Date: date, ClientID: clientID}, strictMode(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, MapWorkoutToResponse(workout))
}

// GenerateWorkout godoc
// @Summary Generate a workout draft
// @Description Asks the external generator for a plan built from the trainer's visible
// @Description exercises. The validated draft is returned and not stored.
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body GenerateWorkoutRequest true "What to generate"
// @Success 200 {object} DraftResponse
// @Failure 422 {object} gin.H "Generator output rejected"
// @Failure 502 {object} gin.H "Generator failed"
// @Failure 503 {object} gin.H "Generation not configured"
// @Router /workouts/generate [post]
func (h *ProposalHandler) GenerateWorkout(c *gin.Context) {
	trainerID, ok := requireTrainerID(c)
	if !ok {
		return
	}
	var req GenerateWorkoutRequest
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

	draft, err := h.generationService.GenerateWorkout(c.Request.Context(), trainerID, service.GenerateRequest{
		FocusSubsets:         req.FocusSubsets,
		SessionLengthMinutes: req.SessionLengthMinutes,
		EquipmentAvailable:   req.EquipmentAvailable,
		Notes:                req.Notes,
		ClientID:             clientID,
		Date:                 date,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, MapDraftToResponse(draft))
}
