// internal/middleware/gate.go
package middleware

import (
	"net/http"
	"net/url"

	"jobmatch-service/internal/pkg/token"

	"github.com/gin-gonic/gin"
)

const (
	loginPath         = "/login"
	pendingPath       = "/pending-approval"
	statusNotApproved = "not_approved"
)

// RouteGate is the admission-control policy for page routes. Every request
// terminates in exactly one of: passthrough, redirect to /login, or redirect
// to /login?status=not_approved. The decision is re-evaluated fresh on every
// request and the gate itself never errors.
type RouteGate struct {
	codec  *token.Codec
	policy *PolicyTable
}

func NewRouteGate(codec *token.Codec, policy *PolicyTable) *RouteGate {
	if policy == nil {
		policy = DefaultPolicy()
	}
	return &RouteGate{codec: codec, policy: policy}
}

// Gate returns the gin middleware evaluating the policy table.
func (g *RouteGate) Gate() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		if g.policy.Required(path) == AccessPublic {
			c.Next()
			return
		}

		claims := g.codec.Resolve(c.Request)
		if claims == nil {
			// Missing and invalid credentials are indistinguishable here.
			redirectToLogin(c, "")
			return
		}
		c.Set(ctxClaims, claims)

		// The pending page always bounces back to login with the status
		// indicator so the login screen can explain the wait.
		if path == pendingPath {
			redirectToLogin(c, statusNotApproved)
			return
		}

		if g.policy.Required(path) == AccessApproved && !claims.IsApproved {
			redirectToLogin(c, statusNotApproved)
			return
		}

		c.Next()
	}
}

func redirectToLogin(c *gin.Context, status string) {
	target := loginPath
	if status != "" {
		target += "?status=" + url.QueryEscape(status)
	}
	c.Redirect(http.StatusTemporaryRedirect, target)
	c.Abort()
}
