// internal/domain/notification/entity.go
package notification

import (
	"database/sql"
	"time"
)

type NotificationType string

const (
	TypeSystem   NotificationType = "system"
	TypeJobMatch NotificationType = "job_match"
	TypeApproval NotificationType = "approval"
	TypeInfo     NotificationType = "info"
)

type Notification struct {
	ID        int64            `json:"id" db:"id"`
	UserID    string           `json:"user_id" db:"user_id"`
	Title     string           `json:"title" db:"title"`
	Message   string           `json:"message" db:"message"`
	Type      NotificationType `json:"type" db:"type"`
	IsRead    bool             `json:"is_read" db:"is_read"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
	ReadAt    sql.NullTime     `json:"read_at,omitempty" db:"read_at"`
}

// DTOs

type CreateNotificationRequest struct {
	UserID  string           `json:"user_id" binding:"required"`
	Title   string           `json:"title" binding:"required,max=255"`
	Message string           `json:"message" binding:"required"`
	Type    NotificationType `json:"type"`
}

type BroadcastRequest struct {
	Title   string           `json:"title" binding:"required,max=255"`
	Message string           `json:"message" binding:"required"`
	Type    NotificationType `json:"type"`
}

type ListFilters struct {
	IsRead   *bool             `form:"is_read"`
	Type     *NotificationType `form:"type"`
	Page     int               `form:"page"`
	PageSize int               `form:"page_size"`
}

type Summary struct {
	TotalUnread int64 `json:"total_unread"`
	TotalRead   int64 `json:"total_read"`
	Total       int64 `json:"total"`
}

type ListResponse struct {
	Notifications []Notification `json:"notifications"`
	Total         int64          `json:"total"`
	Page          int            `json:"page"`
	PageSize      int            `json:"page_size"`
	TotalPages    int            `json:"total_pages"`
}
