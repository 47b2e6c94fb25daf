package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// TrainerHandler serves the authenticated trainer's own profile.
type TrainerHandler struct{}

func NewTrainerHandler() *TrainerHandler {
	return &TrainerHandler{}
}

type TrainerResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email,omitempty"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// GetMe godoc
// @Summary Current trainer
// @Description Returns the trainer resolved from the bearer token, provisioning it on first call.
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Success 200 {object} TrainerResponse
// @Failure 401 {object} gin.H "Unauthorized"
// @Router /me [get]
func (h *TrainerHandler) GetMe(c *gin.Context) {
	trainer, err := getTrainerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify trainer from token.")
		return
	}
	c.JSON(http.StatusOK, TrainerResponse{
		ID:        trainer.ID.String(),
		Email:     trainer.Email,
		Name:      trainer.Name,
		CreatedAt: trainer.CreatedAt,
	})
}
