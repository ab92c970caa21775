// internal/domain/user/entity.go
package user

import (
	"time"

	"github.com/lib/pq"
)

// User is one authenticated person. MicrosoftID is the sole correlation key
// between successive logins and is immutable once set. IsApproved defaults to
// false and is only ever flipped by an admin action, never by the login path.
type User struct {
	ID          string         `json:"id" db:"id"`
	MicrosoftID string         `json:"microsoft_id" db:"microsoft_id"`
	Email       string         `json:"email" db:"email"`
	Name        string         `json:"name" db:"name"`
	IsApproved  bool           `json:"is_approved" db:"is_approved"`
	Headline    string         `json:"headline" db:"headline"`
	Skills      pq.StringArray `json:"skills" db:"skills"`
	HourlyRate  float64        `json:"hourly_rate" db:"hourly_rate"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}

// View is the public shape returned by the auth endpoints.
type View struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	IsApproved bool   `json:"isApproved"`
}

func (u *User) View() View {
	return View{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		IsApproved: u.IsApproved,
	}
}

// Profile is the editable part of the user record.
type Profile struct {
	Headline   string   `json:"headline"`
	Skills     []string `json:"skills"`
	HourlyRate float64  `json:"hourly_rate"`
}

// UpdateProfileRequest carries profile edits from the client.
type UpdateProfileRequest struct {
	Headline   string   `json:"headline" binding:"max=255"`
	Skills     []string `json:"skills" binding:"max=50"`
	HourlyRate float64  `json:"hourly_rate" binding:"min=0"`
}

// ListFilters narrows the admin user listing.
type ListFilters struct {
	Approved *bool  `form:"approved"`
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// ListResponse is a paginated user listing.
type ListResponse struct {
	Users      []User `json:"users"`
	Total      int64  `json:"total"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
	TotalPages int    `json:"total_pages"`
}
