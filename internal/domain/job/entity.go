// internal/domain/job/entity.go
package job

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type JobStatus string

const (
	StatusOpen   JobStatus = "open"
	StatusClosed JobStatus = "closed"
	StatusFilled JobStatus = "filled"
)

// JobPosting is one listing on the dashboard.
type JobPosting struct {
	ID          int64           `json:"id" db:"id"`
	Title       string          `json:"title" db:"title"`
	Description string          `json:"description" db:"description"`
	Client      string          `json:"client" db:"client"`
	Category    string          `json:"category" db:"category"`
	Skills      pq.StringArray  `json:"skills" db:"skills"`
	BudgetMin   sql.NullFloat64 `json:"budget_min,omitempty" db:"budget_min"`
	BudgetMax   sql.NullFloat64 `json:"budget_max,omitempty" db:"budget_max"`
	Status      JobStatus       `json:"status" db:"status"`
	PostedAt    time.Time       `json:"posted_at" db:"posted_at"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// MatchedJob is a posting decorated for one viewer: the computed match score
// and the viewer's own application status for it.
type MatchedJob struct {
	JobPosting
	MatchScore        int    `json:"match_score"`
	ApplicationStatus string `json:"application_status"`
}

type CreateJobRequest struct {
	Title       string   `json:"title" binding:"required,max=255"`
	Description string   `json:"description" binding:"required"`
	Client      string   `json:"client" binding:"required,max=255"`
	Category    string   `json:"category" binding:"max=100"`
	Skills      []string `json:"skills" binding:"max=50"`
	BudgetMin   *float64 `json:"budget_min"`
	BudgetMax   *float64 `json:"budget_max"`
}

type ListFilters struct {
	Search   string     `form:"search"`
	Category string     `form:"category"`
	Status   *JobStatus `form:"status"`
	MinScore int        `form:"min_score" binding:"min=0,max=100"`
	Page     int        `form:"page"`
	PageSize int        `form:"page_size"`
}

type ListResponse struct {
	Jobs       []MatchedJob `json:"jobs"`
	Total      int64        `json:"total"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalPages int          `json:"total_pages"`
}
