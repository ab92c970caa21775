// internal/handlers/job/job_handler.go
package job

import (
	"errors"
	"net/http"
	"strconv"

	"jobmatch-service/internal/domain/job"
	"jobmatch-service/internal/middleware"
	xerrors "jobmatch-service/internal/pkg/errors"
	"jobmatch-service/internal/pkg/response"
	service "jobmatch-service/internal/service/job"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	jobService *service.JobService
}

func NewJobHandler(jobService *service.JobService) *JobHandler {
	return &JobHandler{
		jobService: jobService,
	}
}

// ListJobs retrieves open jobs scored against the caller's skills
func (h *JobHandler) ListJobs(c *gin.Context) {
	claims := middleware.MustGetClaims(c)

	var filters job.ListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid filters", err)
		return
	}

	result, err := h.jobService.ListJobs(c.Request.Context(), claims.UserID, &filters)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list jobs", err)
		return
	}

	response.Success(c, http.StatusOK, "jobs retrieved", result)
}

// GetJob retrieves one job with the caller's match score
func (h *JobHandler) GetJob(c *gin.Context) {
	claims := middleware.MustGetClaims(c)

	jobID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid job ID", err)
		return
	}

	result, err := h.jobService.GetJob(c.Request.Context(), claims.UserID, jobID)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "job not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to retrieve job", err)
		return
	}

	response.Success(c, http.StatusOK, "job retrieved", result)
}

// CreateJob creates a job posting (admin)
func (h *JobHandler) CreateJob(c *gin.Context) {
	var req job.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.jobService.CreateJob(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, xerrors.ErrInvalidInput) {
			response.Error(c, http.StatusBadRequest, "invalid job posting", err)
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to create job", err)
		return
	}

	response.Success(c, http.StatusCreated, "job created", result)
}
