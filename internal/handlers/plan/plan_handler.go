// internal/handlers/plan/plan_handler.go
package plan

import (
	"errors"
	"net/http"

	xerrors "jobmatch-service/internal/pkg/errors"
	"jobmatch-service/internal/pkg/response"
	service "jobmatch-service/internal/service/plan"

	"github.com/gin-gonic/gin"
)

type PlanHandler struct {
	planService *service.PlanService
}

func NewPlanHandler(planService *service.PlanService) *PlanHandler {
	return &PlanHandler{
		planService: planService,
	}
}

// ListPlans retrieves the active pricing plans in display order
func (h *PlanHandler) ListPlans(c *gin.Context) {
	plans, err := h.planService.ListPlans(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list plans", err)
		return
	}

	response.Success(c, http.StatusOK, "plans retrieved", plans)
}

// GetPlan retrieves one plan by its code
func (h *PlanHandler) GetPlan(c *gin.Context) {
	planCode := c.Param("code")
	if planCode == "" {
		response.Error(c, http.StatusBadRequest, "plan code is required", nil)
		return
	}

	result, err := h.planService.GetPlanByCode(c.Request.Context(), planCode)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "plan not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to retrieve plan", err)
		return
	}

	response.Success(c, http.StatusOK, "plan retrieved", result)
}
