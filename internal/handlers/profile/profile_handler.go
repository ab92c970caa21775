// internal/handlers/profile/profile_handler.go
package profile

import (
	"errors"
	"net/http"

	"jobmatch-service/internal/domain/user"
	"jobmatch-service/internal/middleware"
	xerrors "jobmatch-service/internal/pkg/errors"
	"jobmatch-service/internal/pkg/response"
	service "jobmatch-service/internal/service/profile"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileService *service.ProfileService
}

func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

// GetProfile retrieves the caller's profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	claims := middleware.MustGetClaims(c)

	u, err := h.profileService.GetProfile(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "profile not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to load profile", err)
		return
	}

	response.Success(c, http.StatusOK, "profile retrieved", u)
}

// UpdateProfile replaces the caller's headline, skills and rate
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	claims := middleware.MustGetClaims(c)

	var req user.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	u, err := h.profileService.UpdateProfile(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "profile not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to update profile", err)
		return
	}

	response.Success(c, http.StatusOK, "profile updated", u)
}
