package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/mediafire-dl-go/internal/domain"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// HealthHandler handles health check requests
type HealthHandler struct {
	repo domain.RunRepository
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(repo domain.RunRepository) *HealthHandler {
	return &HealthHandler{
		repo: repo,
	}
}

// HealthResponse represents a health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	History struct {
		Available bool `json:"available"`
	} `json:"history"`
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	response := HealthResponse{
		Status:  "ok",
		Version: Version,
	}
	if _, err := h.repo.GetStats(); err == nil {
		response.History.Available = true
	}

	c.JSON(http.StatusOK, response)
}
