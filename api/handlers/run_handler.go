package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/mediafire-dl-go/internal/domain"
	"go.uber.org/zap"
)

const (
	defaultRunLimit = 20
	maxRunLimit     = 500
)

// RunHandler serves the run history
type RunHandler struct {
	repo   domain.RunRepository
	logger *zap.Logger
}

// NewRunHandler creates a new run handler
func NewRunHandler(repo domain.RunRepository, logger *zap.Logger) *RunHandler {
	return &RunHandler{
		repo:   repo,
		logger: logger,
	}
}

// ListRuns handles GET /api/v1/runs
func (h *RunHandler) ListRuns(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultRunLimit)))
	if err != nil || limit < 1 {
		limit = defaultRunLimit
	}
	if limit > maxRunLimit {
		limit = maxRunLimit
	}

	runs, err := h.repo.FindRuns(limit)
	if err != nil {
		h.logger.Error("Failed to list runs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"runs":  runs,
		"count": len(runs),
	})
}

// GetRun handles GET /api/v1/runs/:id
func (h *RunHandler) GetRun(c *gin.Context) {
	run, ok := h.findRun(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, run)
}

// ListJobs handles GET /api/v1/runs/:id/jobs
func (h *RunHandler) ListJobs(c *gin.Context) {
	run, ok := h.findRun(c)
	if !ok {
		return
	}

	status := domain.JobStatus(c.Query("status"))
	if status != "" && !domain.ValidateJobStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	jobs, err := h.repo.FindJobs(run.ID, status)
	if err != nil {
		h.logger.Error("Failed to list jobs", zap.String("run_id", run.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"run_id": run.ID,
		"jobs":   jobs,
		"count":  len(jobs),
	})
}

// GetStats handles GET /api/v1/stats
func (h *RunHandler) GetStats(c *gin.Context) {
	stats, err := h.repo.GetStats()
	if err != nil {
		h.logger.Error("Failed to get stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *RunHandler) findRun(c *gin.Context) (*domain.Run, bool) {
	id := c.Param("id")

	run, err := h.repo.FindRunByID(id)
	if err != nil {
		h.logger.Error("Failed to get run", zap.String("run_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return nil, false
	}
	return run, true
}
