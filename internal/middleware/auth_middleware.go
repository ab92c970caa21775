// internal/middleware/auth_middleware.go
package middleware

import (
	"net/http"

	"jobmatch-service/internal/pkg/response"
	"jobmatch-service/internal/pkg/token"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

const ctxClaims = "session_claims"

// AuthMiddleware guards the JSON API routes. Unlike the page gate it answers
// with status codes, not redirects.
type AuthMiddleware struct {
	codec        *token.Codec
	adminKeyHash []byte
}

func NewAuthMiddleware(codec *token.Codec, adminKeyHash string) *AuthMiddleware {
	return &AuthMiddleware{
		codec:        codec,
		adminKeyHash: []byte(adminKeyHash),
	}
}

// RequireSession admits any request carrying a valid session cookie.
func (m *AuthMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := m.codec.Resolve(c.Request)
		if claims == nil {
			response.Unauthorized(c, "authentication required")
			return
		}

		c.Set(ctxClaims, claims)
		c.Next()
	}
}

// RequireApproved admits only sessions whose approval snapshot is set.
// MUST be used after RequireSession.
func (m *AuthMiddleware) RequireApproved() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := GetClaims(c)
		if !ok {
			response.Unauthorized(c, "authentication required")
			return
		}
		if !claims.IsApproved {
			response.Forbidden(c, "account awaiting approval")
			return
		}
		c.Next()
	}
}

// RequireAdminKey guards the admin approval endpoints with the X-Admin-Key
// header, compared against a bcrypt hash from configuration.
func (m *AuthMiddleware) RequireAdminKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(m.adminKeyHash) == 0 {
			response.Error(c, http.StatusServiceUnavailable, "admin access is not configured", nil)
			return
		}

		key := c.GetHeader("X-Admin-Key")
		if key == "" {
			response.Unauthorized(c, "missing admin key")
			return
		}

		if err := bcrypt.CompareHashAndPassword(m.adminKeyHash, []byte(key)); err != nil {
			response.Forbidden(c, "invalid admin key")
			return
		}

		c.Next()
	}
}

// GetClaims returns the session claims set by RequireSession or the gate.
func GetClaims(c *gin.Context) (*token.Claims, bool) {
	v, exists := c.Get(ctxClaims)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*token.Claims)
	return claims, ok
}

// MustGetClaims returns the session claims or panics; only for handlers
// mounted behind RequireSession.
func MustGetClaims(c *gin.Context) *token.Claims {
	claims, ok := GetClaims(c)
	if !ok {
		panic("session claims not found in context")
	}
	return claims
}
