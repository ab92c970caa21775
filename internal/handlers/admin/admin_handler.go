// internal/handlers/admin/admin_handler.go
package admin

import (
	"errors"
	"net/http"

	"jobmatch-service/internal/domain/user"
	xerrors "jobmatch-service/internal/pkg/errors"
	"jobmatch-service/internal/pkg/response"
	service "jobmatch-service/internal/service/auth"

	"github.com/gin-gonic/gin"
)

// AdminHandler exposes the out-of-band approval path. Every route here is
// mounted behind the admin key middleware; there is no self-service approval.
type AdminHandler struct {
	authService *service.AuthService
}

func NewAdminHandler(authService *service.AuthService) *AdminHandler {
	return &AdminHandler{
		authService: authService,
	}
}

// ListUsers retrieves users for the approval review screen
func (h *AdminHandler) ListUsers(c *gin.Context) {
	var filters user.ListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid filters", err)
		return
	}

	result, err := h.authService.ListUsers(c.Request.Context(), &filters)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list users", err)
		return
	}

	response.Success(c, http.StatusOK, "users retrieved", result)
}

// ApproveUser sets a user's approval flag
func (h *AdminHandler) ApproveUser(c *gin.Context) {
	h.setApproval(c, true)
}

// RevokeUser clears a user's approval flag
func (h *AdminHandler) RevokeUser(c *gin.Context) {
	h.setApproval(c, false)
}

func (h *AdminHandler) setApproval(c *gin.Context, approved bool) {
	userID := c.Param("id")
	if userID == "" {
		response.Error(c, http.StatusBadRequest, "user ID is required", nil)
		return
	}

	u, err := h.authService.SetApproval(c.Request.Context(), userID, approved)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to update approval", err)
		return
	}

	response.Success(c, http.StatusOK, "approval updated", u)
}
