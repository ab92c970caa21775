// internal/domain/application/entity.go
package application

import (
	"database/sql"
	"time"
)

type Status string

const (
	StatusApplied   Status = "applied"
	StatusMatched   Status = "matched"
	StatusRejected  Status = "rejected"
	StatusWithdrawn Status = "withdrawn"
)

// Valid reports whether s is a known application status.
func (s Status) Valid() bool {
	switch s {
	case StatusApplied, StatusMatched, StatusRejected, StatusWithdrawn:
		return true
	}
	return false
}

// Application tracks one user's pursuit of one job posting. At most one row
// exists per (user, job) pair.
type Application struct {
	ID        int64          `json:"id" db:"id"`
	UserID    string         `json:"user_id" db:"user_id"`
	JobID     int64          `json:"job_id" db:"job_id"`
	Status    Status         `json:"status" db:"status"`
	CoverNote sql.NullString `json:"cover_note,omitempty" db:"cover_note"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" db:"updated_at"`
}

type ApplyRequest struct {
	JobID     int64  `json:"job_id" binding:"required"`
	CoverNote string `json:"cover_note" binding:"max=2000"`
}

type ListFilters struct {
	Status   *Status `form:"status"`
	Page     int     `form:"page"`
	PageSize int     `form:"page_size"`
}

type ListResponse struct {
	Applications []Application `json:"applications"`
	Total        int64         `json:"total"`
	Page         int           `json:"page"`
	PageSize     int           `json:"page_size"`
	TotalPages   int           `json:"total_pages"`
}

// Stats summarizes a user's applications by status.
type Stats struct {
	Applied   int64 `json:"applied"`
	Matched   int64 `json:"matched"`
	Rejected  int64 `json:"rejected"`
	Withdrawn int64 `json:"withdrawn"`
	Total     int64 `json:"total"`
}
