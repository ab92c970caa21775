// internal/pkg/token/claims.go
package token

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the session credential payload carried by the auth cookie.
// IsApproved is a snapshot taken at mint time; it is only refreshed by a
// new login, not by an admin flipping the user record mid-session.
type Claims struct {
	UserID     string `json:"userId"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	IsApproved bool   `json:"isApproved"`
	jwt.RegisteredClaims
}

// View is the claims shape returned to API callers.
type View struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	IsApproved bool   `json:"isApproved"`
}

// View converts claims to the public user view.
func (c *Claims) View() View {
	return View{
		ID:         c.UserID,
		Email:      c.Email,
		Name:       c.Name,
		IsApproved: c.IsApproved,
	}
}
