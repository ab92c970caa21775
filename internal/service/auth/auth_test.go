package auth

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"jobmatch-service/internal/domain/user"
	"jobmatch-service/internal/identity"
	xerrors "jobmatch-service/internal/pkg/errors"
	"jobmatch-service/internal/pkg/token"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeProvider returns a canned profile or error.
type fakeProvider struct {
	profile *identity.Profile
	err     error
}

func (f *fakeProvider) LoginURL(state string) string { return "https://login.example/?state=" + state }
func (f *fakeProvider) ExchangeCode(ctx context.Context, code string) (string, error) {
	return "access-token", nil
}
func (f *fakeProvider) FetchProfile(ctx context.Context, accessToken string) (*identity.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.profile, nil
}

// memoryUserStore is an in-memory UserStore keyed by microsoft_id.
type memoryUserStore struct {
	mu    sync.Mutex
	users map[string]*user.User // microsoft_id -> user
}

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{users: make(map[string]*user.User)}
}

func (m *memoryUserStore) FindByMicrosoftID(ctx context.Context, microsoftID string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[microsoftID]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memoryUserStore) FindByID(ctx context.Context, id string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (m *memoryUserStore) Create(ctx context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.MicrosoftID]; ok {
		// Mirrors the unique constraint on microsoft_id.
		return xerrors.ErrDuplicateEntry
	}
	u.ID = uuid.NewString()
	u.IsApproved = false
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	cp := *u
	m.users[u.MicrosoftID] = &cp
	return nil
}

func (m *memoryUserStore) RefreshLogin(ctx context.Context, microsoftID, email, name string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[microsoftID]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	u.Email = email
	u.Name = name
	u.UpdatedAt = u.UpdatedAt.Add(time.Millisecond) // strictly increasing
	cp := *u
	return &cp, nil
}

func (m *memoryUserStore) SetApproval(ctx context.Context, id string, approved bool) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			u.IsApproved = approved
			u.UpdatedAt = u.UpdatedAt.Add(time.Millisecond)
			cp := *u
			return &cp, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (m *memoryUserStore) List(ctx context.Context, filters *user.ListFilters) ([]user.User, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []user.User
	for _, u := range m.users {
		if filters.Approved != nil && u.IsApproved != *filters.Approved {
			continue
		}
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (m *memoryUserStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

func newTestService(t *testing.T, provider identity.Provider, store UserStore) *AuthService {
	t.Helper()
	codec, err := token.NewCodec("test-secret", "jobmatch", "jobmatch-users", 7*24*time.Hour)
	require.NoError(t, err)
	return NewAuthService(store, provider, codec, nil, nil, zap.NewNop())
}

var testProfile = &identity.Profile{ID: "ms-123", Email: "a@b.com", Name: "A B"}

func Test_Exchange_FirstLoginCreatesUnapprovedUser(t *testing.T) {
	store := newMemoryUserStore()
	svc := newTestService(t, &fakeProvider{profile: testProfile}, store)

	result, err := svc.Exchange(context.Background(), "access-token", "")
	require.NoError(t, err)

	assert.Equal(t, "a@b.com", result.User.Email)
	assert.Equal(t, "A B", result.User.Name)
	assert.False(t, result.User.IsApproved)
	assert.Equal(t, 1, store.count())

	// Minted credential snapshots the unapproved state.
	claims, err := svc.ValidateToken(result.Token)
	require.NoError(t, err)
	assert.False(t, claims.IsApproved)
	assert.Equal(t, result.User.ID, claims.UserID)
}

func Test_Exchange_IdempotentUpsert(t *testing.T) {
	store := newMemoryUserStore()
	svc := newTestService(t, &fakeProvider{profile: testProfile}, store)

	first, err := svc.Exchange(context.Background(), "access-token", "")
	require.NoError(t, err)

	u1, err := store.FindByMicrosoftID(context.Background(), "ms-123")
	require.NoError(t, err)

	second, err := svc.Exchange(context.Background(), "access-token", "")
	require.NoError(t, err)

	u2, err := store.FindByMicrosoftID(context.Background(), "ms-123")
	require.NoError(t, err)

	assert.Equal(t, 1, store.count())
	assert.Equal(t, first.User.ID, second.User.ID)
	assert.True(t, u2.UpdatedAt.After(u1.UpdatedAt), "updated_at must strictly increase")
	assert.Equal(t, u1.IsApproved, u2.IsApproved)
}

func Test_Exchange_ApprovalNonRegression(t *testing.T) {
	store := newMemoryUserStore()
	svc := newTestService(t, &fakeProvider{profile: testProfile}, store)

	first, err := svc.Exchange(context.Background(), "access-token", "")
	require.NoError(t, err)

	_, err = svc.SetApproval(context.Background(), first.User.ID, true)
	require.NoError(t, err)

	// A later login must not reset approval, whatever the upstream profile says.
	second, err := svc.Exchange(context.Background(), "access-token", "")
	require.NoError(t, err)
	assert.True(t, second.User.IsApproved)

	claims, err := svc.ValidateToken(second.Token)
	require.NoError(t, err)
	assert.True(t, claims.IsApproved)
}

func Test_Exchange_RefreshesProfileFields(t *testing.T) {
	store := newMemoryUserStore()
	provider := &fakeProvider{profile: testProfile}
	svc := newTestService(t, provider, store)

	_, err := svc.Exchange(context.Background(), "access-token", "")
	require.NoError(t, err)

	provider.profile = &identity.Profile{ID: "ms-123", Email: "renamed@b.com", Name: "A Renamed"}
	result, err := svc.Exchange(context.Background(), "access-token", "")
	require.NoError(t, err)

	assert.Equal(t, "renamed@b.com", result.User.Email)
	assert.Equal(t, "A Renamed", result.User.Name)
	assert.Equal(t, 1, store.count())
}

func Test_Exchange_UpstreamRejection(t *testing.T) {
	store := newMemoryUserStore()
	svc := newTestService(t, &fakeProvider{err: xerrors.ErrUpstreamAuth}, store)

	_, err := svc.Exchange(context.Background(), "bad-token", "")
	require.ErrorIs(t, err, xerrors.ErrUpstreamAuth)
	assert.Equal(t, 0, store.count())
}

func Test_Exchange_IncompleteProfile(t *testing.T) {
	store := newMemoryUserStore()
	svc := newTestService(t, &fakeProvider{err: xerrors.ErrIncompleteProfile}, store)

	_, err := svc.Exchange(context.Background(), "access-token", "")
	require.ErrorIs(t, err, xerrors.ErrIncompleteProfile)
}

// duplicateRaceStore simulates two concurrent first logins: the lookup misses
// but the insert hits the unique constraint because the other request won.
type duplicateRaceStore struct {
	memoryUserStore
	raced bool
}

func (d *duplicateRaceStore) FindByMicrosoftID(ctx context.Context, microsoftID string) (*user.User, error) {
	if !d.raced {
		return nil, xerrors.ErrNotFound
	}
	return d.memoryUserStore.FindByMicrosoftID(ctx, microsoftID)
}

func (d *duplicateRaceStore) Create(ctx context.Context, u *user.User) error {
	if err := d.memoryUserStore.Create(ctx, u); err != nil {
		return err
	}
	d.raced = true
	return nil
}

func Test_Exchange_DuplicateInsertRaceSurfacesAsError(t *testing.T) {
	store := &duplicateRaceStore{memoryUserStore: *newMemoryUserStore()}
	svc := newTestService(t, &fakeProvider{profile: testProfile}, store)

	_, err := svc.Exchange(context.Background(), "access-token", "")
	require.NoError(t, err)

	store.raced = false // second tab: lookup misses, insert collides
	_, err = svc.Exchange(context.Background(), "access-token", "")
	require.Error(t, err)
	require.ErrorIs(t, err, xerrors.ErrDuplicateEntry)
	assert.Equal(t, 1, store.count(), "the race must not create a second row")
}

// stubLimiter counts calls and can deny.
type stubLimiter struct {
	allow  bool
	checks int
	resets int
}

func (s *stubLimiter) CheckLoginAttempt(ctx context.Context, ip string) (bool, int64, error) {
	s.checks++
	return s.allow, 0, nil
}

func (s *stubLimiter) ResetLoginAttempts(ctx context.Context, ip string) error {
	s.resets++
	return nil
}

func Test_Exchange_RateLimited(t *testing.T) {
	store := newMemoryUserStore()
	codec, err := token.NewCodec("test-secret", "jobmatch", "jobmatch-users", time.Hour)
	require.NoError(t, err)

	limiter := &stubLimiter{allow: false}
	svc := NewAuthService(store, &fakeProvider{profile: testProfile}, codec, limiter, nil, zap.NewNop())

	_, err = svc.Exchange(context.Background(), "access-token", "203.0.113.9")
	require.ErrorIs(t, err, xerrors.ErrRateLimited)
	assert.Equal(t, 1, limiter.checks)
	assert.Equal(t, 0, store.count())

	limiter.allow = true
	_, err = svc.Exchange(context.Background(), "access-token", "203.0.113.9")
	require.NoError(t, err)
	assert.Equal(t, 1, limiter.resets)
}

func Test_SetApproval_NotifiesUser(t *testing.T) {
	store := newMemoryUserStore()
	provider := &fakeProvider{profile: testProfile}
	codec, err := token.NewCodec("test-secret", "jobmatch", "jobmatch-users", time.Hour)
	require.NoError(t, err)

	var notified []string
	notifier := notifierFunc(func(ctx context.Context, userID, title, message string) error {
		notified = append(notified, fmt.Sprintf("%s:%s", userID, title))
		return nil
	})

	svc := NewAuthService(store, provider, codec, nil, notifier, zap.NewNop())

	result, err := svc.Exchange(context.Background(), "access-token", "")
	require.NoError(t, err)

	_, err = svc.SetApproval(context.Background(), result.User.ID, true)
	require.NoError(t, err)
	require.Len(t, notified, 1)
	assert.Contains(t, notified[0], result.User.ID)

	// Revoking does not notify.
	_, err = svc.SetApproval(context.Background(), result.User.ID, false)
	require.NoError(t, err)
	assert.Len(t, notified, 1)
}

type notifierFunc func(ctx context.Context, userID, title, message string) error

func (f notifierFunc) Notify(ctx context.Context, userID, title, message string) error {
	return f(ctx, userID, title, message)
}
