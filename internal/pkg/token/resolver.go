// internal/pkg/token/resolver.go
package token

import (
	"net/http"
	"time"
)

// CookieName is the session credential cookie.
const CookieName = "auth-token"

// CookieMaxAge matches the credential TTL.
const CookieMaxAge = 7 * 24 * time.Hour

// Resolve bridges an inbound request's cookie store to a validated claims
// set. A missing cookie and an invalid credential both return nil; the two
// cases are indistinguishable to callers. Read-only, no side effects.
func (c *Codec) Resolve(r *http.Request) *Claims {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	claims, err := c.Verify(cookie.Value)
	if err != nil {
		return nil
	}
	return claims
}
