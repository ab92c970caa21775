// internal/service/auth/auth.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"jobmatch-service/internal/domain/user"
	"jobmatch-service/internal/identity"
	xerrors "jobmatch-service/internal/pkg/errors"
	"jobmatch-service/internal/pkg/token"

	"go.uber.org/zap"
)

// UserStore is the persistence surface the auth service needs. The postgres
// UserRepository implements it; tests use an in-memory fake.
type UserStore interface {
	FindByMicrosoftID(ctx context.Context, microsoftID string) (*user.User, error)
	FindByID(ctx context.Context, id string) (*user.User, error)
	Create(ctx context.Context, u *user.User) error
	RefreshLogin(ctx context.Context, microsoftID, email, name string) (*user.User, error)
	SetApproval(ctx context.Context, id string, approved bool) (*user.User, error)
	List(ctx context.Context, filters *user.ListFilters) ([]user.User, int64, error)
}

// LoginLimiter throttles exchange attempts per client IP. A nil limiter
// disables throttling.
type LoginLimiter interface {
	CheckLoginAttempt(ctx context.Context, ip string) (bool, int64, error)
	ResetLoginAttempts(ctx context.Context, ip string) error
}

// Notifier delivers a notification to one user. Used for the approval
// notice; failures are logged, never surfaced.
type Notifier interface {
	Notify(ctx context.Context, userID, title, message string) error
}

type AuthService struct {
	users    UserStore
	provider identity.Provider
	codec    *token.Codec
	limiter  LoginLimiter
	notifier Notifier
	logger   *zap.Logger
}

func NewAuthService(
	users UserStore,
	provider identity.Provider,
	codec *token.Codec,
	limiter LoginLimiter,
	notifier Notifier,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		provider: provider,
		codec:    codec,
		limiter:  limiter,
		notifier: notifier,
		logger:   logger,
	}
}

// ExchangeResult is what a successful identity exchange yields: a signed
// session credential and the user view to display immediately.
type ExchangeResult struct {
	Token string
	User  user.View
}

// Exchange converts a provider-issued access token into a local session.
//
// The upsert is strictly ordered before the credential mint, so the minted
// approval flag always snapshots the just-written row. A login never touches
// is_approved: an existing row keeps whatever the admin set, a new row starts
// unapproved. Concurrent first logins for the same external identifier are
// resolved by the unique constraint alone; the loser sees a retryable error.
func (s *AuthService) Exchange(ctx context.Context, accessToken, clientIP string) (*ExchangeResult, error) {
	if s.limiter != nil && clientIP != "" {
		allowed, remaining, err := s.limiter.CheckLoginAttempt(ctx, clientIP)
		if err != nil {
			// Redis being down must not lock everyone out.
			s.logger.Warn("login rate limiter unavailable", zap.Error(err))
		} else if !allowed {
			s.logger.Warn("login rate limited",
				zap.String("ip", clientIP),
				zap.Int64("remaining", remaining),
			)
			return nil, xerrors.ErrRateLimited
		}
	}

	profile, err := s.provider.FetchProfile(ctx, accessToken)
	if err != nil {
		if errors.Is(err, xerrors.ErrUpstreamAuth) || errors.Is(err, xerrors.ErrIncompleteProfile) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", xerrors.ErrUpstreamAuth, err)
	}

	u, err := s.upsert(ctx, profile)
	if err != nil {
		return nil, err
	}

	signed, err := s.codec.Mint(u.ID, u.Email, u.Name, u.IsApproved)
	if err != nil {
		return nil, fmt.Errorf("failed to mint session credential: %w", err)
	}

	if s.limiter != nil && clientIP != "" {
		if err := s.limiter.ResetLoginAttempts(ctx, clientIP); err != nil {
			s.logger.Warn("failed to reset login attempts", zap.Error(err))
		}
	}

	s.logger.Info("identity exchange completed",
		zap.String("user_id", u.ID),
		zap.Bool("is_approved", u.IsApproved),
	)

	return &ExchangeResult{Token: signed, User: u.View()}, nil
}

func (s *AuthService) upsert(ctx context.Context, profile *identity.Profile) (*user.User, error) {
	_, err := s.users.FindByMicrosoftID(ctx, profile.ID)
	switch {
	case err == nil:
		updated, err := s.users.RefreshLogin(ctx, profile.ID, profile.Email, profile.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to update user on login: %w", err)
		}
		return updated, nil

	case errors.Is(err, xerrors.ErrNotFound):
		u := &user.User{
			MicrosoftID: profile.ID,
			Email:       profile.Email,
			Name:        profile.Name,
		}
		if err := s.users.Create(ctx, u); err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		s.logger.Info("new user created, awaiting approval",
			zap.String("user_id", u.ID),
			zap.String("email", u.Email),
		)
		return u, nil

	default:
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
}

// ValidateToken verifies a session credential and returns its claims.
func (s *AuthService) ValidateToken(tokenString string) (*token.Claims, error) {
	return s.codec.Verify(tokenString)
}

// ResolveSession reads the session cookie off a request and verifies it.
// Returns nil when the request carries no usable session.
func (s *AuthService) ResolveSession(r *http.Request) *token.Claims {
	return s.codec.Resolve(r)
}

// ========== Admin actions (the out-of-band approval path) ==========

// ListUsers retrieves users for the admin review screen.
func (s *AuthService) ListUsers(ctx context.Context, filters *user.ListFilters) (*user.ListResponse, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}
	if filters.PageSize > 100 {
		filters.PageSize = 100
	}

	users, total, err := s.users.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	totalPages := int(total) / filters.PageSize
	if int(total)%filters.PageSize > 0 {
		totalPages++
	}

	return &user.ListResponse{
		Users:      users,
		Total:      total,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
		TotalPages: totalPages,
	}, nil
}

// SetApproval flips a user's approval flag. The change only reaches the
// user's session credential on their next login; a mid-session approval does
// not upgrade an existing cookie.
func (s *AuthService) SetApproval(ctx context.Context, userID string, approved bool) (*user.User, error) {
	u, err := s.users.SetApproval(ctx, userID, approved)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user approval changed",
		zap.String("user_id", u.ID),
		zap.Bool("is_approved", u.IsApproved),
	)

	if approved && s.notifier != nil {
		if err := s.notifier.Notify(ctx, u.ID,
			"Account approved",
			"Your account has been approved. Sign in again to access the dashboard.",
		); err != nil {
			s.logger.Error("failed to send approval notification", zap.Error(err))
		}
	}

	return u, nil
}
