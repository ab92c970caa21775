package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jobmatch-service/internal/domain/user"
	"jobmatch-service/internal/identity"
	xerrors "jobmatch-service/internal/pkg/errors"
	"jobmatch-service/internal/pkg/token"
	authService "jobmatch-service/internal/service/auth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeProvider struct {
	profile *identity.Profile
	err     error
}

func (p *fakeProvider) LoginURL(state string) string {
	return "https://login.example.com/authorize?state=" + state
}

func (p *fakeProvider) ExchangeCode(ctx context.Context, code string) (string, error) {
	if code == "good-code" {
		return "provider-token", nil
	}
	return "", xerrors.ErrUpstreamAuth
}

func (p *fakeProvider) FetchProfile(ctx context.Context, accessToken string) (*identity.Profile, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.profile, nil
}

type memoryStore struct {
	byMicrosoftID map[string]*user.User
	failCreate    bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{byMicrosoftID: make(map[string]*user.User)}
}

func (s *memoryStore) FindByMicrosoftID(ctx context.Context, microsoftID string) (*user.User, error) {
	u, ok := s.byMicrosoftID[microsoftID]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *memoryStore) FindByID(ctx context.Context, id string) (*user.User, error) {
	for _, u := range s.byMicrosoftID {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (s *memoryStore) Create(ctx context.Context, u *user.User) error {
	if s.failCreate {
		return fmt.Errorf("insert failed")
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	s.byMicrosoftID[u.MicrosoftID] = &cp
	return nil
}

func (s *memoryStore) RefreshLogin(ctx context.Context, microsoftID, email, name string) (*user.User, error) {
	u, ok := s.byMicrosoftID[microsoftID]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	u.Email = email
	u.Name = name
	u.UpdatedAt = time.Now()
	cp := *u
	return &cp, nil
}

func (s *memoryStore) SetApproval(ctx context.Context, id string, approved bool) (*user.User, error) {
	for _, u := range s.byMicrosoftID {
		if u.ID == id {
			u.IsApproved = approved
			cp := *u
			return &cp, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (s *memoryStore) List(ctx context.Context, filters *user.ListFilters) ([]user.User, int64, error) {
	var out []user.User
	for _, u := range s.byMicrosoftID {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func newTestHandler(t *testing.T, store *memoryStore, provider identity.Provider) (*AuthHandler, *token.Codec) {
	t.Helper()

	codec, err := token.NewCodec("test-secret", "jobmatch", "jobmatch-web", 7*24*time.Hour)
	require.NoError(t, err)

	svc := authService.NewAuthService(store, provider, codec, nil, nil, zap.NewNop())
	h := NewAuthHandler(svc, provider, Config{SecureCookies: false}, zap.NewNop())
	return h, codec
}

func newRouter(h *AuthHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/auth/login", h.Login)
	r.GET("/api/auth/callback", h.Callback)
	r.POST("/api/auth/callback", h.Exchange)
	r.GET("/api/auth/me", h.Me)
	r.POST("/api/auth/logout", h.Logout)
	return r
}

func postExchange(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/callback", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func Test_Exchange_FirstLogin(t *testing.T) {
	store := newMemoryStore()
	h, _ := newTestHandler(t, store, &fakeProvider{
		profile: &identity.Profile{ID: "ms-1", Email: "ada@example.com", Name: "Ada Lovelace"},
	})
	r := newRouter(h)

	w := postExchange(r, `{"accessToken":"provider-token"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool `json:"success"`
		User    struct {
			ID         string `json:"id"`
			Email      string `json:"email"`
			Name       string `json:"name"`
			IsApproved bool   `json:"isApproved"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "ada@example.com", body.User.Email)
	assert.Equal(t, "Ada Lovelace", body.User.Name)
	assert.False(t, body.User.IsApproved, "a first login must never come out approved")
	assert.NotEmpty(t, body.User.ID)
}

func Test_Exchange_SetsSessionCookie(t *testing.T) {
	store := newMemoryStore()
	h, codec := newTestHandler(t, store, &fakeProvider{
		profile: &identity.Profile{ID: "ms-1", Email: "ada@example.com", Name: "Ada Lovelace"},
	})
	r := newRouter(h)

	w := postExchange(r, `{"accessToken":"provider-token"}`)
	require.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, token.CookieName, c.Name)
	assert.True(t, c.HttpOnly)
	assert.False(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Equal(t, int(token.CookieMaxAge.Seconds()), c.MaxAge)
	assert.Equal(t, "/", c.Path)

	claims, err := codec.Verify(c.Value)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.False(t, claims.IsApproved)
}

func Test_Exchange_MissingToken(t *testing.T) {
	h, _ := newTestHandler(t, newMemoryStore(), &fakeProvider{})
	r := newRouter(h)

	for _, body := range []string{`{}`, `{"accessToken":""}`, `not json`} {
		w := postExchange(r, body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"No access token provided"}`, w.Body.String())
	}
}

func Test_Exchange_UpstreamRejected(t *testing.T) {
	h, _ := newTestHandler(t, newMemoryStore(), &fakeProvider{err: xerrors.ErrUpstreamAuth})
	r := newRouter(h)

	w := postExchange(r, `{"accessToken":"bad-token"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Failed to get user info from Microsoft"}`, w.Body.String())
}

func Test_Exchange_IncompleteProfile(t *testing.T) {
	h, _ := newTestHandler(t, newMemoryStore(), &fakeProvider{err: xerrors.ErrIncompleteProfile})
	r := newRouter(h)

	w := postExchange(r, `{"accessToken":"provider-token"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid user data from Microsoft"}`, w.Body.String())
}

func Test_Exchange_PersistenceFailure(t *testing.T) {
	store := newMemoryStore()
	store.failCreate = true
	h, _ := newTestHandler(t, store, &fakeProvider{
		profile: &identity.Profile{ID: "ms-1", Email: "ada@example.com", Name: "Ada Lovelace"},
	})
	r := newRouter(h)

	w := postExchange(r, `{"accessToken":"provider-token"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Authentication failed"}`, w.Body.String())

	cookies := w.Result().Cookies()
	assert.Empty(t, cookies, "no session may be issued when the upsert fails")
}

func Test_Me_WithSession(t *testing.T) {
	store := newMemoryStore()
	h, codec := newTestHandler(t, store, &fakeProvider{})
	r := newRouter(h)

	signed, err := codec.Mint("user-1", "ada@example.com", "Ada Lovelace", true)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: token.CookieName, Value: signed})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		User struct {
			ID         string `json:"id"`
			Email      string `json:"email"`
			IsApproved bool   `json:"isApproved"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "user-1", body.User.ID)
	assert.True(t, body.User.IsApproved)
}

func Test_Me_NoSession(t *testing.T) {
	h, _ := newTestHandler(t, newMemoryStore(), &fakeProvider{})
	r := newRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Not authenticated"}`, w.Body.String())
}

func Test_Me_GarbageCookie(t *testing.T) {
	h, _ := newTestHandler(t, newMemoryStore(), &fakeProvider{})
	r := newRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: token.CookieName, Value: "not-a-jwt"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Not authenticated"}`, w.Body.String())
}

func Test_Logout_ExpiresCookie(t *testing.T) {
	h, _ := newTestHandler(t, newMemoryStore(), &fakeProvider{})
	r := newRouter(h)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, token.CookieName, cookies[0].Name)
	assert.Less(t, cookies[0].MaxAge, 0)
	assert.Empty(t, cookies[0].Value)
}

func Test_Callback_BouncesCodeToApp(t *testing.T) {
	h, _ := newTestHandler(t, newMemoryStore(), &fakeProvider{})
	r := newRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/callback?code=abc123&state=xyz", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "/auth-redirect?code=abc123&state=xyz", w.Header().Get("Location"))
}

func Test_Callback_ProviderError(t *testing.T) {
	h, _ := newTestHandler(t, newMemoryStore(), &fakeProvider{})
	r := newRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/callback?error=access_denied", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "/login?error=auth_failed", w.Header().Get("Location"))
}

func Test_Callback_MissingCode(t *testing.T) {
	h, _ := newTestHandler(t, newMemoryStore(), &fakeProvider{})
	r := newRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/callback", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "/login?error=no_code", w.Header().Get("Location"))
}
