// internal/service/application/application.go
package application

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"jobmatch-service/internal/domain/application"
	"jobmatch-service/internal/domain/job"
	xerrors "jobmatch-service/internal/pkg/errors"

	"go.uber.org/zap"
)

type ApplicationStore interface {
	Create(ctx context.Context, a *application.Application) error
	FindByID(ctx context.Context, id int64) (*application.Application, error)
	UpdateStatus(ctx context.Context, id int64, status application.Status) (*application.Application, error)
	ListByUser(ctx context.Context, userID string, filters *application.ListFilters) ([]application.Application, int64, error)
	StatsByUser(ctx context.Context, userID string) (*application.Stats, error)
}

type JobStore interface {
	FindByID(ctx context.Context, id int64) (*job.JobPosting, error)
}

type ApplicationService struct {
	applications ApplicationStore
	jobs         JobStore
	logger       *zap.Logger
}

func NewApplicationService(applications ApplicationStore, jobs JobStore, logger *zap.Logger) *ApplicationService {
	return &ApplicationService{
		applications: applications,
		jobs:         jobs,
		logger:       logger,
	}
}

// Apply files an application for an open job. A second application for the
// same job surfaces as ErrDuplicateEntry.
func (s *ApplicationService) Apply(ctx context.Context, userID string, req *application.ApplyRequest) (*application.Application, error) {
	j, err := s.jobs.FindByID(ctx, req.JobID)
	if err != nil {
		return nil, err
	}
	if j.Status != job.StatusOpen {
		return nil, fmt.Errorf("%w: job is %s", xerrors.ErrInvalidInput, j.Status)
	}

	a := &application.Application{
		UserID:    userID,
		JobID:     req.JobID,
		Status:    application.StatusApplied,
		CoverNote: sql.NullString{String: req.CoverNote, Valid: req.CoverNote != ""},
	}

	if err := s.applications.Create(ctx, a); err != nil {
		if errors.Is(err, xerrors.ErrDuplicateEntry) {
			return nil, xerrors.ErrDuplicateEntry
		}
		s.logger.Error("failed to create application", zap.Error(err))
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	s.logger.Info("application filed",
		zap.String("user_id", userID),
		zap.Int64("job_id", req.JobID),
	)

	return a, nil
}

// Withdraw moves the caller's own application to withdrawn.
func (s *ApplicationService) Withdraw(ctx context.Context, userID string, id int64) (*application.Application, error) {
	a, err := s.applications.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.UserID != userID {
		return nil, xerrors.ErrForbidden
	}
	if a.Status == application.StatusWithdrawn {
		return a, nil
	}
	if a.Status == application.StatusRejected {
		return nil, fmt.Errorf("%w: cannot withdraw a rejected application", xerrors.ErrInvalidInput)
	}

	return s.applications.UpdateStatus(ctx, id, application.StatusWithdrawn)
}

// SetStatus is the admin path for matched/rejected decisions.
func (s *ApplicationService) SetStatus(ctx context.Context, id int64, status application.Status) (*application.Application, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", xerrors.ErrInvalidInput, status)
	}
	return s.applications.UpdateStatus(ctx, id, status)
}

// ListOwn retrieves the caller's applications.
func (s *ApplicationService) ListOwn(ctx context.Context, userID string, filters *application.ListFilters) (*application.ListResponse, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}
	if filters.PageSize > 100 {
		filters.PageSize = 100
	}

	apps, total, err := s.applications.ListByUser(ctx, userID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}

	totalPages := int(total) / filters.PageSize
	if int(total)%filters.PageSize > 0 {
		totalPages++
	}

	return &application.ListResponse{
		Applications: apps,
		Total:        total,
		Page:         filters.Page,
		PageSize:     filters.PageSize,
		TotalPages:   totalPages,
	}, nil
}

// Stats summarizes the caller's applications by status.
func (s *ApplicationService) Stats(ctx context.Context, userID string) (*application.Stats, error) {
	return s.applications.StatsByUser(ctx, userID)
}
