// internal/handlers/auth/auth_handler.go
package auth

import (
	"errors"
	"net/http"
	"net/url"

	"jobmatch-service/internal/identity"
	xerrors "jobmatch-service/internal/pkg/errors"
	"jobmatch-service/internal/pkg/token"
	authService "jobmatch-service/internal/service/auth"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// AuthHandler owns the /api/auth surface. The callback and session
// endpoints speak the exact JSON contract the frontend expects:
// {success, user} on success and {error} on failure.
type AuthHandler struct {
	authService *authService.AuthService
	provider    identity.Provider
	secureCooki bool
	serverFlow  bool
	logger      *zap.Logger
}

type Config struct {
	// SecureCookies marks the session cookie Secure (production).
	SecureCookies bool
	// ServerFlow completes the code exchange server-side instead of
	// bouncing the code to the browser's auth library.
	ServerFlow bool
}

func NewAuthHandler(svc *authService.AuthService, provider identity.Provider, cfg Config, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: svc,
		provider:    provider,
		secureCooki: cfg.SecureCookies,
		serverFlow:  cfg.ServerFlow,
		logger:      logger,
	}
}

// Login redirects the browser to the identity provider.
func (h *AuthHandler) Login(c *gin.Context) {
	state := ulid.Make().String()
	c.Redirect(http.StatusTemporaryRedirect, h.provider.LoginURL(state))
}

// Callback handles the GET redirect back from the identity provider.
func (h *AuthHandler) Callback(c *gin.Context) {
	if errParam := c.Query("error"); errParam != "" {
		h.logger.Warn("identity provider returned an error", zap.String("error", errParam))
		c.Redirect(http.StatusTemporaryRedirect, "/login?error=auth_failed")
		return
	}

	code := c.Query("code")
	if code == "" {
		c.Redirect(http.StatusTemporaryRedirect, "/login?error=no_code")
		return
	}

	if !h.serverFlow {
		// Client-assisted flow: hand the code to the browser-side handler,
		// which finishes the exchange and POSTs the access token back.
		target := "/auth-redirect?code=" + url.QueryEscape(code)
		if state := c.Query("state"); state != "" {
			target += "&state=" + url.QueryEscape(state)
		}
		c.Redirect(http.StatusTemporaryRedirect, target)
		return
	}

	accessToken, err := h.provider.ExchangeCode(c.Request.Context(), code)
	if err != nil {
		h.logger.Warn("code exchange failed", zap.Error(err))
		c.Redirect(http.StatusTemporaryRedirect, "/login?error=auth_failed")
		return
	}

	result, err := h.authService.Exchange(c.Request.Context(), accessToken, c.ClientIP())
	if err != nil {
		h.logger.Error("identity exchange failed", zap.Error(err))
		c.Redirect(http.StatusTemporaryRedirect, "/login?error=server_error")
		return
	}

	h.setSessionCookie(c, result.Token)
	if result.User.IsApproved {
		c.Redirect(http.StatusTemporaryRedirect, "/dashboard")
	} else {
		c.Redirect(http.StatusTemporaryRedirect, "/login?status=not_approved")
	}
}

type exchangeRequest struct {
	AccessToken string `json:"accessToken"`
}

// Exchange handles POST /api/auth/callback: access token in, session cookie
// and user view out.
func (h *AuthHandler) Exchange(c *gin.Context) {
	var req exchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.AccessToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No access token provided"})
		return
	}

	result, err := h.authService.Exchange(c.Request.Context(), req.AccessToken, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, xerrors.ErrRateLimited):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many login attempts"})
		case errors.Is(err, xerrors.ErrIncompleteProfile):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user data from Microsoft"})
		case errors.Is(err, xerrors.ErrUpstreamAuth):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to get user info from Microsoft"})
		default:
			h.logger.Error("identity exchange failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Authentication failed"})
		}
		return
	}

	h.setSessionCookie(c, result.Token)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    result.User,
	})
}

// Me handles GET /api/auth/me: the current-session query.
func (h *AuthHandler) Me(c *gin.Context) {
	claims := h.authService.ResolveSession(c.Request)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": claims.View()})
}

// Logout expires the session cookie. The credential itself stays valid
// until its expiry; only the browser's copy is destroyed.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(token.CookieName, "", -1, "/", "", h.secureCooki, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, signed string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(token.CookieName, signed, int(token.CookieMaxAge.Seconds()), "/", "", h.secureCooki, true)
}
