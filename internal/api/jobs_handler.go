// Package api provides HTTP handlers for the page generation service.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/unicornmarketers/pageforge/internal/database"
	"github.com/unicornmarketers/pageforge/internal/domain"
	"github.com/unicornmarketers/pageforge/internal/pipeline"
)

// JobRunner defines the pipeline operations needed by the handler.
type JobRunner interface {
	CreateJob(ctx context.Context, req *pipeline.CreateJobRequest) (*pipeline.CreateJobResponse, error)
	Advance(ctx context.Context, jobID string, step domain.Step, input *pipeline.AdvanceInput) (*pipeline.AdvanceResponse, error)
	Status(ctx context.Context, jobID string) (*pipeline.StatusResponse, error)
}

// JobsHandler handles generation job HTTP requests.
type JobsHandler struct {
	svc JobRunner
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(svc JobRunner) *JobsHandler {
	return &JobsHandler{svc: svc}
}

// CreateJob handles POST /api/v1/generate.
func (h *JobsHandler) CreateJob(c *gin.Context) {
	var req pipeline.CreateJobRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErr.Error()})
		return
	}

	response, createErr := h.svc.CreateJob(c.Request.Context(), &req)
	if createErr != nil {
		respondError(c, createErr)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// RunStep handles POST /api/v1/generate/:jobID/step/:stepName.
func (h *JobsHandler) RunStep(c *gin.Context) {
	jobID := c.Param("jobID")
	step := domain.Step(c.Param("stepName"))

	// The body is optional; every step runs without overrides.
	var input pipeline.AdvanceInput
	if c.Request.Body != nil && c.Request.ContentLength > 0 {
		if bindErr := c.ShouldBindJSON(&input); bindErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": bindErr.Error()})
			return
		}
	}

	response, advanceErr := h.svc.Advance(c.Request.Context(), jobID, step, &input)
	if advanceErr != nil {
		respondError(c, advanceErr)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetStatus handles GET /api/v1/generate/:jobID/status.
func (h *JobsHandler) GetStatus(c *gin.Context) {
	response, statusErr := h.svc.Status(c.Request.Context(), c.Param("jobID"))
	if statusErr != nil {
		respondError(c, statusErr)
		return
	}

	c.JSON(http.StatusOK, response)
}

// respondError maps service errors onto HTTP status codes.
func respondError(c *gin.Context, serviceErr error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(serviceErr, database.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(serviceErr, pipeline.ErrValidation),
		errors.Is(serviceErr, pipeline.ErrInvalidStep):
		status = http.StatusBadRequest
	case errors.Is(serviceErr, pipeline.ErrAlreadyTerminal):
		status = http.StatusConflict
	case errors.Is(serviceErr, pipeline.ErrUpstream),
		errors.Is(serviceErr, pipeline.ErrFetch):
		status = http.StatusBadGateway
	}

	c.JSON(status, gin.H{"error": serviceErr.Error()})
}
