package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jobmatch-service/internal/pkg/token"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGateRouter(t *testing.T) (*gin.Engine, *token.Codec) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	codec, err := token.NewCodec("test-secret", "jobmatch", "jobmatch-users", 7*24*time.Hour)
	require.NoError(t, err)

	r := gin.New()
	r.Use(NewRouteGate(codec, nil).Gate())
	ok := func(c *gin.Context) { c.String(http.StatusOK, "ok") }
	for _, path := range []string{"/login", "/dashboard", "/welcome", "/pending-approval", "/settings"} {
		r.GET(path, ok)
	}
	return r, codec
}

func mintCookie(t *testing.T, codec *token.Codec, approved bool) *http.Cookie {
	t.Helper()
	signed, err := codec.Mint("user-1", "a@b.com", "A B", approved)
	require.NoError(t, err)
	return &http.Cookie{Name: token.CookieName, Value: signed}
}

func get(r *gin.Engine, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func Test_Gate_NoCookieRedirectsToLogin(t *testing.T) {
	r, _ := newGateRouter(t)

	w := get(r, "/dashboard", nil)
	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func Test_Gate_UnapprovedRedirectsWithStatus(t *testing.T) {
	r, codec := newGateRouter(t)

	w := get(r, "/dashboard", mintCookie(t, codec, false))
	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "/login?status=not_approved", w.Header().Get("Location"))
}

func Test_Gate_ApprovedPassesThrough(t *testing.T) {
	r, codec := newGateRouter(t)

	w := get(r, "/dashboard", mintCookie(t, codec, true))
	assert.Equal(t, http.StatusOK, w.Code)
}

func Test_Gate_PublicRouteAlwaysPasses(t *testing.T) {
	r, codec := newGateRouter(t)

	for name, cookie := range map[string]*http.Cookie{
		"no cookie":       nil,
		"valid approved":  mintCookie(t, codec, true),
		"valid unapproved": mintCookie(t, codec, false),
		"garbage cookie":  {Name: token.CookieName, Value: "garbage"},
	} {
		w := get(r, "/login", cookie)
		assert.Equal(t, http.StatusOK, w.Code, name)
	}
}

func Test_Gate_InvalidCookieTreatedAsUnauthenticated(t *testing.T) {
	r, _ := newGateRouter(t)

	w := get(r, "/dashboard", &http.Cookie{Name: token.CookieName, Value: "tampered"})
	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func Test_Gate_PendingApprovalAlwaysBounces(t *testing.T) {
	r, codec := newGateRouter(t)

	w := get(r, "/pending-approval", mintCookie(t, codec, true))
	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "/login?status=not_approved", w.Header().Get("Location"))
}

func Test_Gate_AuthenticatedOnlyRouteAdmitsUnapproved(t *testing.T) {
	r, codec := newGateRouter(t)

	// /settings is not in the approval-gated set; a session is enough.
	w := get(r, "/settings", mintCookie(t, codec, false))
	assert.Equal(t, http.StatusOK, w.Code)
}

func Test_Gate_DashboardSubpathsGated(t *testing.T) {
	r, codec := newGateRouter(t)
	r.GET("/dashboard/jobs", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	w := get(r, "/dashboard/jobs", mintCookie(t, codec, false))
	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "/login?status=not_approved", w.Header().Get("Location"))
}

func Test_PolicyTable_Required(t *testing.T) {
	policy := DefaultPolicy()

	assert.Equal(t, AccessPublic, policy.Required("/login"))
	assert.Equal(t, AccessPublic, policy.Required("/static/app.js"))
	assert.Equal(t, AccessApproved, policy.Required("/dashboard"))
	assert.Equal(t, AccessApproved, policy.Required("/dashboard/jobs/42"))
	assert.Equal(t, AccessApproved, policy.Required("/pricing"))
	assert.Equal(t, AccessAuthenticated, policy.Required("/settings"))
}
