// internal/api/client_handler.go
package api

import (
	"alcyxob/trainer-planner/internal/domain"
	"alcyxob/trainer-planner/internal/logger"
	"alcyxob/trainer-planner/internal/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type ClientHandler struct {
	clientService service.ClientService
	log           *logger.Logger
}

func NewClientHandler(clientService service.ClientService, log *logger.Logger) *ClientHandler {
	return &ClientHandler{clientService: clientService, log: log}
}

// --- DTOs ---

type CreateClientRequest struct {
	Name        string   `json:"name" binding:"required,max=120"`
	Email       string   `json:"email" binding:"omitempty,email"`
	Notes       string   `json:"notes"`
	InjuryFlags []string `json:"injury_flags"`
}

type UpdateClientRequest struct {
	Name        *string  `json:"name" binding:"omitempty,max=120"`
	Email       *string  `json:"email"`
	Notes       *string  `json:"notes"`
	InjuryFlags []string `json:"injury_flags"`
}

type ClientResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	InjuryFlags []string  `json:"injury_flags"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func MapClientToResponse(cl *domain.Client) ClientResponse {
	flags := cl.InjuryFlags
	if flags == nil {
		flags = []string{}
	}
	return ClientResponse{
		ID:          cl.ID.String(),
		Name:        cl.Name,
		Email:       cl.Email,
		Notes:       cl.Notes,
		InjuryFlags: flags,
		CreatedAt:   cl.CreatedAt,
		UpdatedAt:   cl.UpdatedAt,
	}
}

// --- Handler Methods ---

// CreateClient godoc
// @Summary Add a client record
// @Tags Clients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param client body CreateClientRequest true "Client details"
// @Success 201 {object} ClientResponse
// @Failure 422 {object} gin.H "Invalid input"
// @Router /clients [post]
func (h *ClientHandler) CreateClient(c *gin.Context) {
	trainerID, ok := requireTrainerID(c)
	if !ok {
		return
	}
	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}
	client, err := h.clientService.CreateClient(c.Request.Context(), trainerID, service.ClientInput{
		Name:        req.Name,
		Email:       req.Email,
		Notes:       req.Notes,
		InjuryFlags: req.InjuryFlags,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, MapClientToResponse(client))
}

func (h *ClientHandler) ListClients(c *gin.Context) {
	trainerID, ok := requireTrainerID(c)
	if !ok {
		return
	}
	clients, err := h.clientService.ListClients(c.Request.Context(), trainerID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	resp := make([]ClientResponse, len(clients))
	for i := range clients {
		resp[i] = MapClientToResponse(&clients[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ClientHandler) GetClient(c *gin.Context) {
	trainerID, ok := requireTrainerID(c)
	if !ok {
		return
	}
	clientID, ok := pathID(c, "id")
	if !ok {
		return
	}
	client, err := h.clientService.GetClient(c.Request.Context(), trainerID, clientID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, MapClientToResponse(client))
}

func (h *ClientHandler) UpdateClient(c *gin.Context) {
	trainerID, ok := requireTrainerID(c)
	if !ok {
		return
	}
	clientID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}
	client, err := h.clientService.UpdateClient(c.Request.Context(), trainerID, clientID, service.ClientPatch{
		Name:        req.Name,
		Email:       req.Email,
		Notes:       req.Notes,
		InjuryFlags: req.InjuryFlags,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, MapClientToResponse(client))
}

// DeleteClient godoc
// @Summary Delete a client record
// @Description Workouts that referenced the client are kept and detached.
// @Tags Clients
// @Security BearerAuth
// @Param id path string true "Client ID"
// @Success 204 "Deleted"
// @Failure 404 {object} gin.H "Not found or not owned"
// @Router /clients/{id} [delete]
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	trainerID, ok := requireTrainerID(c)
	if !ok {
		return
	}
	clientID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.clientService.DeleteClient(c.Request.Context(), trainerID, clientID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
