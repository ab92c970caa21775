package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	xerrors "jobmatch-service/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(profileHandler http.HandlerFunc) (*MicrosoftProvider, *httptest.Server) {
	srv := httptest.NewServer(profileHandler)
	p := NewMicrosoftProvider(MicrosoftConfig{
		TenantID:     "common",
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost/api/auth/callback",
		ProfileURL:   srv.URL,
		TokenURL:     srv.URL,
	})
	return p, srv
}

func Test_FetchProfile_OK(t *testing.T) {
	p, srv := newTestProvider(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer graph-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"ms-123","mail":"a@b.com","displayName":"A B"}`))
	})
	defer srv.Close()

	profile, err := p.FetchProfile(context.Background(), "graph-token")
	require.NoError(t, err)
	assert.Equal(t, "ms-123", profile.ID)
	assert.Equal(t, "a@b.com", profile.Email)
	assert.Equal(t, "A B", profile.Name)
}

func Test_FetchProfile_UserPrincipalNameFallback(t *testing.T) {
	p, srv := newTestProvider(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"ms-123","mail":"","userPrincipalName":"a@b.com","displayName":"A B"}`))
	})
	defer srv.Close()

	profile, err := p.FetchProfile(context.Background(), "graph-token")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", profile.Email)
}

func Test_FetchProfile_RejectedToken(t *testing.T) {
	p, srv := newTestProvider(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	defer srv.Close()

	_, err := p.FetchProfile(context.Background(), "bad-token")
	require.ErrorIs(t, err, xerrors.ErrUpstreamAuth)
}

func Test_FetchProfile_IncompleteProfile(t *testing.T) {
	p, srv := newTestProvider(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"ms-123","displayName":""}`))
	})
	defer srv.Close()

	_, err := p.FetchProfile(context.Background(), "graph-token")
	require.ErrorIs(t, err, xerrors.ErrIncompleteProfile)
}

func Test_ExchangeCode_OK(t *testing.T) {
	p, srv := newTestProvider(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		assert.Equal(t, "the-code", r.PostForm.Get("code"))
		w.Write([]byte(`{"access_token":"graph-token","token_type":"Bearer","expires_in":3600}`))
	})
	defer srv.Close()

	token, err := p.ExchangeCode(context.Background(), "the-code")
	require.NoError(t, err)
	assert.Equal(t, "graph-token", token)
}

func Test_ExchangeCode_Rejected(t *testing.T) {
	p, srv := newTestProvider(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant"}`))
	})
	defer srv.Close()

	_, err := p.ExchangeCode(context.Background(), "stale-code")
	require.ErrorIs(t, err, xerrors.ErrUpstreamAuth)
}

func Test_LoginURL(t *testing.T) {
	p := NewMicrosoftProvider(MicrosoftConfig{
		TenantID:    "my-tenant",
		ClientID:    "client-id",
		RedirectURL: "http://localhost/api/auth/callback",
	})

	loginURL := p.LoginURL("xyz")
	assert.Contains(t, loginURL, "login.microsoftonline.com/my-tenant")
	assert.Contains(t, loginURL, "state=xyz")
	assert.Contains(t, loginURL, "client_id=client-id")
	assert.Contains(t, loginURL, "response_type=code")
}
