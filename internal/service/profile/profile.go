// internal/service/profile/profile.go
package profile

import (
	"context"
	"fmt"

	"jobmatch-service/internal/domain/user"

	"go.uber.org/zap"
)

type UserStore interface {
	FindByID(ctx context.Context, id string) (*user.User, error)
	UpdateProfile(ctx context.Context, id string, p *user.Profile) (*user.User, error)
}

// ProfileService reads and edits the freelancer profile attached to a user.
// The skills it stores feed the job match scoring.
type ProfileService struct {
	users  UserStore
	logger *zap.Logger
}

func NewProfileService(users UserStore, logger *zap.Logger) *ProfileService {
	return &ProfileService{users: users, logger: logger}
}

func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*user.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return u, nil
}

func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, req *user.UpdateProfileRequest) (*user.User, error) {
	u, err := s.users.UpdateProfile(ctx, userID, &user.Profile{
		Headline:   req.Headline,
		Skills:     req.Skills,
		HourlyRate: req.HourlyRate,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	s.logger.Info("profile updated",
		zap.String("user_id", userID),
		zap.Int("skills", len(u.Skills)),
	)
	return u, nil
}
