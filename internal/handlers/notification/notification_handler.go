// internal/handlers/notification/notification_handler.go
package notification

import (
	"errors"
	"net/http"
	"strconv"

	"jobmatch-service/internal/domain/notification"
	"jobmatch-service/internal/middleware"
	xerrors "jobmatch-service/internal/pkg/errors"
	"jobmatch-service/internal/pkg/response"
	service "jobmatch-service/internal/service/notification"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationService *service.NotificationService
}

func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// ListNotifications retrieves the caller's notifications
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	claims := middleware.MustGetClaims(c)

	var filters notification.ListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid filters", err)
		return
	}

	result, err := h.notificationService.List(c.Request.Context(), claims.UserID, &filters)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list notifications", err)
		return
	}

	response.Success(c, http.StatusOK, "notifications retrieved", result)
}

// GetSummary retrieves total and unread counts
func (h *NotificationHandler) GetSummary(c *gin.Context) {
	claims := middleware.MustGetClaims(c)

	summary, err := h.notificationService.Summary(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to load summary", err)
		return
	}

	response.Success(c, http.StatusOK, "summary retrieved", summary)
}

// MarkRead marks one notification as read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	claims := middleware.MustGetClaims(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid notification ID", err)
		return
	}

	result, err := h.notificationService.MarkRead(c.Request.Context(), claims.UserID, id)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "notification not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to mark as read", err)
		return
	}

	response.Success(c, http.StatusOK, "notification marked as read", result)
}

// MarkAllRead marks every unread notification as read
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	claims := middleware.MustGetClaims(c)

	count, err := h.notificationService.MarkAllRead(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to mark all as read", err)
		return
	}

	response.Success(c, http.StatusOK, "notifications marked as read", gin.H{"updated": count})
}

// DeleteNotification removes one of the caller's notifications
func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	claims := middleware.MustGetClaims(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid notification ID", err)
		return
	}

	if err := h.notificationService.Delete(c.Request.Context(), claims.UserID, id); err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "notification not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to delete notification", err)
		return
	}

	response.Success(c, http.StatusOK, "notification deleted", nil)
}

// Broadcast sends a notification to every approved user (admin)
func (h *NotificationHandler) Broadcast(c *gin.Context) {
	var req notification.BroadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	count, err := h.notificationService.Broadcast(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to broadcast", err)
		return
	}

	response.Success(c, http.StatusCreated, "broadcast sent", gin.H{"recipients": count})
}
