// internal/handlers/application/application_handler.go
package application

import (
	"errors"
	"net/http"
	"strconv"

	"jobmatch-service/internal/domain/application"
	"jobmatch-service/internal/middleware"
	xerrors "jobmatch-service/internal/pkg/errors"
	"jobmatch-service/internal/pkg/response"
	service "jobmatch-service/internal/service/application"

	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	applicationService *service.ApplicationService
}

func NewApplicationHandler(applicationService *service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		applicationService: applicationService,
	}
}

// Apply submits an application to an open job
func (h *ApplicationHandler) Apply(c *gin.Context) {
	claims := middleware.MustGetClaims(c)

	var req application.ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.applicationService.Apply(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		switch {
		case errors.Is(err, xerrors.ErrNotFound):
			response.NotFound(c, "job not found")
		case errors.Is(err, xerrors.ErrDuplicateEntry):
			response.Error(c, http.StatusConflict, "already applied to this job", err)
		case errors.Is(err, xerrors.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "job is not accepting applications", err)
		default:
			response.Error(c, http.StatusInternalServerError, "failed to apply", err)
		}
		return
	}

	response.Success(c, http.StatusCreated, "application submitted", result)
}

// ListApplications retrieves the caller's applications
func (h *ApplicationHandler) ListApplications(c *gin.Context) {
	claims := middleware.MustGetClaims(c)

	var filters application.ListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid filters", err)
		return
	}

	result, err := h.applicationService.ListOwn(c.Request.Context(), claims.UserID, &filters)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list applications", err)
		return
	}

	response.Success(c, http.StatusOK, "applications retrieved", result)
}

// GetStats retrieves the caller's application counts by status
func (h *ApplicationHandler) GetStats(c *gin.Context) {
	claims := middleware.MustGetClaims(c)

	stats, err := h.applicationService.Stats(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to load stats", err)
		return
	}

	response.Success(c, http.StatusOK, "stats retrieved", stats)
}

// Withdraw withdraws one of the caller's applications
func (h *ApplicationHandler) Withdraw(c *gin.Context) {
	claims := middleware.MustGetClaims(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid application ID", err)
		return
	}

	result, err := h.applicationService.Withdraw(c.Request.Context(), claims.UserID, id)
	if err != nil {
		switch {
		case errors.Is(err, xerrors.ErrNotFound):
			response.NotFound(c, "application not found")
		case errors.Is(err, xerrors.ErrForbidden):
			response.Forbidden(c, "not your application")
		case errors.Is(err, xerrors.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "application cannot be withdrawn", err)
		default:
			response.Error(c, http.StatusInternalServerError, "failed to withdraw", err)
		}
		return
	}

	response.Success(c, http.StatusOK, "application withdrawn", result)
}

// SetStatus updates an application's status (admin)
func (h *ApplicationHandler) SetStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid application ID", err)
		return
	}

	var req struct {
		Status application.Status `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.applicationService.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, xerrors.ErrNotFound):
			response.NotFound(c, "application not found")
		case errors.Is(err, xerrors.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "invalid status", err)
		default:
			response.Error(c, http.StatusInternalServerError, "failed to update status", err)
		}
		return
	}

	response.Success(c, http.StatusOK, "status updated", result)
}
