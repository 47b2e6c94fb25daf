package api

import (
	"alcyxob/trainer-planner/internal/domain"
	"alcyxob/trainer-planner/internal/logger"
	"alcyxob/trainer-planner/internal/repository"
	"alcyxob/trainer-planner/internal/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ExerciseHandler holds the exercise service dependency.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
	log             *logger.Logger
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService, log *logger.Logger) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService, log: log}
}

// --- DTOs for API (Data Transfer Objects) ---

// CreateExerciseRequest defines the expected JSON for creating an exercise.
type CreateExerciseRequest struct {
	Name            string   `json:"name" binding:"required,max=120"`
	PrimaryMuscle   string   `json:"primary_muscle" binding:"max=60"`
	MovementPattern string   `json:"movement_pattern" binding:"max=60"`
	Equipment       string   `json:"equipment" binding:"max=60"`
	SkillLevel      string   `json:"skill_level" binding:"omitempty,oneof=beginner intermediate advanced"`
	Unilateral      bool     `json:"unilateral"`
	Notes           string   `json:"notes"`
	Tags            []string `json:"tags"`
}

// UpdateExerciseRequest is a partial update; omitted fields are unchanged.
type UpdateExerciseRequest struct {
	Name            *string  `json:"name" binding:"omitempty,max=120"`
	PrimaryMuscle   *string  `json:"primary_muscle" binding:"omitempty,max=60"`
	MovementPattern *string  `json:"movement_pattern" binding:"omitempty,max=60"`
	Equipment       *string  `json:"equipment" binding:"omitempty,max=60"`
	SkillLevel      *string  `json:"skill_level" binding:"omitempty,oneof=beginner intermediate advanced"`
	Unilateral      *bool    `json:"unilateral"`
	IsActive        *bool    `json:"is_active"`
	Notes           *string  `json:"notes"`
	Tags            []string `json:"tags"`
}

type MediaUploadRequest struct {
	FileName    string `json:"file_name" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

// ExerciseResponse is the DTO for returning exercise details.
// Ownership is exposed only as IsMine; owner ids never leave the server.
type ExerciseResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	PrimaryMuscle   string    `json:"primary_muscle,omitempty"`
	MovementPattern string    `json:"movement_pattern,omitempty"`
	Equipment       string    `json:"equipment,omitempty"`
	SkillLevel      string    `json:"skill_level,omitempty"`
	Unilateral      bool      `json:"unilateral"`
	IsActive        bool      `json:"is_active"`
	Notes           string    `json:"notes,omitempty"`
	Tags            []string  `json:"tags"`
	HasMedia        bool      `json:"has_media"`
	IsMine          bool      `json:"is_mine"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// MapExerciseToResponse converts a domain.Exercise to ExerciseResponse DTO for the given viewer.
func MapExerciseToResponse(ex *domain.Exercise, viewer uuid.UUID) ExerciseResponse {
	if ex == nil {
		return ExerciseResponse{}
	}
	tags := ex.Tags
	if tags == nil {
		tags = []string{}
	}
	return ExerciseResponse{
		ID:              ex.ID.String(),
		Name:            ex.Name,
		PrimaryMuscle:   ex.PrimaryMuscle,
		MovementPattern: ex.MovementPattern,
		Equipment:       ex.Equipment,
		SkillLevel:      ex.SkillLevel,
		Unilateral:      ex.Unilateral,
		IsActive:        ex.IsActive,
		Notes:           ex.Notes,
		Tags:            tags,
		HasMedia:        ex.MediaKey != "",
		IsMine:          ex.IsOwnedBy(viewer),
		CreatedAt:       ex.CreatedAt,
		UpdatedAt:       ex.UpdatedAt,
	}
}

// MapExercisesToResponse converts a slice of domain.Exercise to a slice of ExerciseResponse DTO.
func MapExercisesToResponse(exercises []domain.Exercise, viewer uuid.UUID) []ExerciseResponse {
	responses := make([]ExerciseResponse, len(exercises))
	for i := range exercises {
		responses[i] = MapExerciseToResponse(&exercises[i], viewer)
	}
	return responses
}

// --- Handler Methods ---

// CreateExercise godoc
// @Summary Create a new exercise
// @Description Creates an exercise owned by the authenticated trainer.
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param exercise body CreateExerciseRequest true "Exercise details"
// @Success 201 {object} ExerciseResponse "Exercise created successfully"
// @Failure 409 {object} gin.H "Name already used by this trainer"
// @Failure 422 {object} gin.H "Invalid input"
// @Router /exercises [post]
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	trainerID, ok := requireTrainerID(c)
	if !ok {
		return
	}
	var req CreateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	exercise, err := h.exerciseService.CreateExercise(c.Request.Context(), trainerID, service.ExerciseInput{
		Name:            req.Name,
		PrimaryMuscle:   req.PrimaryMuscle,
		MovementPattern: req.MovementPattern,
		Equipment:       req.Equipment,
		SkillLevel:      req.SkillLevel,
		Unilateral:      req.Unilateral,
		Notes:           req.Notes,
		Tags:            req.Tags,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, MapExerciseToResponse(exercise, trainerID))
}

// ListExercises godoc
// @Summary List visible exercises
// @Description Global exercises plus the trainer's own, ordered by name.
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param q query string false "Name contains"
// @Param primary_muscle query string false "Primary muscle"
// @Param movement_pattern query string false "Movement pattern"
// @Param equipment query string false "Equipment"
// @Success 200 {array} ExerciseResponse
// @Router /exercises [get]
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	trainerID, ok := requireTrainerID(c)
	if !ok {
		return
	}
	exercises, err := h.exerciseService.ListExercises(c.Request.Context(), trainerID, repository.ExerciseFilter{
		Query:           c.Query("q"),
		PrimaryMuscle:   c.Query("primary_muscle"),
		MovementPattern: c.Query("movement_pattern"),
		Equipment:       c.Query("equipment"),
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, MapExercisesToResponse(exercises, trainerID))
}

func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	trainerID, ok := requireTrainerID(c)
	if !ok {
		return
	}
	exerciseID, ok := pathID(c, "id")
	if !ok {
		return
	}
	exercise, err := h.exerciseService.GetExercise(c.Request.Context(), trainerID, exerciseID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, MapExerciseToResponse(exercise, trainerID))
}

// UpdateExercise godoc
// @Summary Update an owned exercise
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exercise ID"
// @Param exercise body UpdateExerciseRequest true "Fields to change"
// @Success 200 {object} ExerciseResponse
// @Failure 404 {object} gin.H "Not found or not owned (global exercises included)"
// @Router /exercises/{id} [put]
func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	trainerID, ok := requireTrainerID(c)
	if !ok {
		return
	}
	exerciseID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	exercise, err := h.exerciseService.UpdateExercise(c.Request.Context(), trainerID, exerciseID, service.ExercisePatch{
		Name:            req.Name,
		PrimaryMuscle:   req.PrimaryMuscle,
		MovementPattern: req.MovementPattern,
		Equipment:       req.Equipment,
		SkillLevel:      req.SkillLevel,
		Unilateral:      req.Unilateral,
		IsActive:        req.IsActive,
		Notes:           req.Notes,
		Tags:            req.Tags,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, MapExerciseToResponse(exercise, trainerID))
}

// DeleteExercise godoc
// @Summary Delete an owned exercise
// @Tags Exercises
// @Security BearerAuth
// @Param id path string true "Exercise ID"
// @Success 204 "Deleted"
// @Failure 404 {object} gin.H "Not found or not owned"
// @Failure 409 {object} gin.H "Exercise is used by workout sets"
// @Router /exercises/{id} [delete]
func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	trainerID, ok := requireTrainerID(c)
	if !ok {
		return
	}
	exerciseID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.exerciseService.DeleteExercise(c.Request.Context(), trainerID, exerciseID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RequestMediaUploadURL returns a presigned PUT URL for the exercise demo file.
func (h *ExerciseHandler) RequestMediaUploadURL(c *gin.Context) {
	trainerID, ok := requireTrainerID(c)
	if !ok {
		return
	}
	exerciseID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req MediaUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}
	upload, err := h.exerciseService.RequestMediaUpload(c.Request.Context(), trainerID, exerciseID, req.FileName, req.ContentType)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"upload_url": upload.UploadURL, "object_key": upload.ObjectKey})
}

func (h *ExerciseHandler) GetMediaURL(c *gin.Context) {
	trainerID, ok := requireTrainerID(c)
	if !ok {
		return
	}
	exerciseID, ok := pathID(c, "id")
	if !ok {
		return
	}
	url, err := h.exerciseService.MediaURL(c.Request.Context(), trainerID, exerciseID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
