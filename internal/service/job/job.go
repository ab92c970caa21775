// internal/service/job/job.go
package job

import (
	"context"
	"fmt"
	"strings"

	"jobmatch-service/internal/domain/job"
	"jobmatch-service/internal/domain/user"

	"go.uber.org/zap"
)

// JobStore is the persistence surface for postings.
type JobStore interface {
	Create(ctx context.Context, j *job.JobPosting) error
	FindByID(ctx context.Context, id int64) (*job.JobPosting, error)
	ListForUser(ctx context.Context, userID string, filters *job.ListFilters) ([]job.MatchedJob, int64, error)
}

// UserStore is the slice of the user repository the job service needs to
// score postings against the viewer's profile.
type UserStore interface {
	FindByID(ctx context.Context, id string) (*user.User, error)
}

type JobService struct {
	jobs   JobStore
	users  UserStore
	logger *zap.Logger
}

func NewJobService(jobs JobStore, users UserStore, logger *zap.Logger) *JobService {
	return &JobService{
		jobs:   jobs,
		users:  users,
		logger: logger,
	}
}

// CreateJob creates a new posting (admin path).
func (s *JobService) CreateJob(ctx context.Context, req *job.CreateJobRequest) (*job.JobPosting, error) {
	j := &job.JobPosting{
		Title:       req.Title,
		Description: req.Description,
		Client:      req.Client,
		Category:    req.Category,
		Skills:      req.Skills,
		Status:      job.StatusOpen,
	}
	if req.BudgetMin != nil {
		j.BudgetMin.Float64 = *req.BudgetMin
		j.BudgetMin.Valid = true
	}
	if req.BudgetMax != nil {
		j.BudgetMax.Float64 = *req.BudgetMax
		j.BudgetMax.Valid = true
	}

	if err := s.jobs.Create(ctx, j); err != nil {
		s.logger.Error("failed to create job", zap.Error(err))
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	s.logger.Info("job posting created",
		zap.Int64("job_id", j.ID),
		zap.String("title", j.Title),
	)

	return j, nil
}

// GetJob retrieves one posting scored for the viewing user.
func (s *JobService) GetJob(ctx context.Context, userID string, id int64) (*job.MatchedJob, error) {
	j, err := s.jobs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	viewer, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load viewer profile: %w", err)
	}

	return &job.MatchedJob{
		JobPosting: *j,
		MatchScore: MatchScore(viewer.Skills, j.Skills),
	}, nil
}

// ListJobs retrieves postings for the dashboard, each carrying the viewer's
// match score and application status. MinScore filters after scoring.
func (s *JobService) ListJobs(ctx context.Context, userID string, filters *job.ListFilters) (*job.ListResponse, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}
	if filters.PageSize > 100 {
		filters.PageSize = 100
	}

	viewer, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load viewer profile: %w", err)
	}

	jobs, total, err := s.jobs.ListForUser(ctx, userID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	scored := jobs[:0]
	for _, mj := range jobs {
		mj.MatchScore = MatchScore(viewer.Skills, mj.Skills)
		if mj.MatchScore < filters.MinScore {
			continue
		}
		scored = append(scored, mj)
	}

	totalPages := int(total) / filters.PageSize
	if int(total)%filters.PageSize > 0 {
		totalPages++
	}

	return &job.ListResponse{
		Jobs:       scored,
		Total:      total,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
		TotalPages: totalPages,
	}, nil
}

// MatchScore is the percentage of the job's required skills present in the
// freelancer's profile, case-insensitively. A job with no listed skills
// cannot be scored and counts as no match.
func MatchScore(userSkills, jobSkills []string) int {
	if len(jobSkills) == 0 || len(userSkills) == 0 {
		return 0
	}

	have := make(map[string]bool, len(userSkills))
	for _, s := range userSkills {
		have[strings.ToLower(strings.TrimSpace(s))] = true
	}

	matched := 0
	for _, s := range jobSkills {
		if have[strings.ToLower(strings.TrimSpace(s))] {
			matched++
		}
	}

	return matched * 100 / len(jobSkills)
}
