// internal/domain/plan/entity.go
package plan

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// PricingPlan is one subscription tier shown on the pricing page.
type PricingPlan struct {
	ID          int64          `json:"id" db:"id"`
	PlanCode    string         `json:"plan_code" db:"plan_code"`
	Name        string         `json:"name" db:"name"`
	Description sql.NullString `json:"description,omitempty" db:"description"`
	Price       float64        `json:"price" db:"price"`
	Currency    string         `json:"currency" db:"currency"`
	Period      string         `json:"period" db:"period"`
	Features    pq.StringArray `json:"features" db:"features"`
	IsPopular   bool           `json:"is_popular" db:"is_popular"`
	Status      Status         `json:"status" db:"status"`
	SortOrder   int            `json:"sort_order" db:"sort_order"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}
