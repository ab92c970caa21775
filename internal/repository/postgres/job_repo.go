// internal/repository/postgres/job_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"jobmatch-service/internal/domain/job"
	xerrors "jobmatch-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type JobRepository struct {
	db *pgxpool.Pool
}

func NewJobRepository(db *pgxpool.Pool) *JobRepository {
	return &JobRepository{db: db}
}

// Create inserts a new job posting.
func (r *JobRepository) Create(ctx context.Context, j *job.JobPosting) error {
	query := `
		INSERT INTO jobs (title, description, client, category, skills, budget_min, budget_max, status, posted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
		RETURNING id, posted_at, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		j.Title, j.Description, j.Client, j.Category, j.Skills,
		j.BudgetMin, j.BudgetMax, j.Status,
	).Scan(&j.ID, &j.PostedAt, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	return nil
}

// FindByID retrieves a single posting.
func (r *JobRepository) FindByID(ctx context.Context, id int64) (*job.JobPosting, error) {
	query := `
		SELECT id, title, description, client, category, skills, budget_min, budget_max,
		       status, posted_at, created_at, updated_at
		FROM jobs
		WHERE id = $1
	`

	var j job.JobPosting
	err := r.db.QueryRow(ctx, query, id).Scan(
		&j.ID, &j.Title, &j.Description, &j.Client, &j.Category, &j.Skills,
		&j.BudgetMin, &j.BudgetMax, &j.Status, &j.PostedAt, &j.CreatedAt, &j.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find job: %w", err)
	}

	return &j, nil
}

// ListForUser retrieves postings newest first, each joined with the viewing
// user's application status (empty string when they have not applied).
func (r *JobRepository) ListForUser(ctx context.Context, userID string, filters *job.ListFilters) ([]job.MatchedJob, int64, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argPos := 1

	if filters.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(j.title ILIKE $%d OR j.description ILIKE $%d)", argPos, argPos))
		args = append(args, "%"+filters.Search+"%")
		argPos++
	}
	if filters.Category != "" {
		conditions = append(conditions, fmt.Sprintf("j.category = $%d", argPos))
		args = append(args, filters.Category)
		argPos++
	}
	if filters.Status != nil {
		conditions = append(conditions, fmt.Sprintf("j.status = $%d", argPos))
		args = append(args, *filters.Status)
		argPos++
	}

	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM jobs j WHERE ` + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count jobs: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT j.id, j.title, j.description, j.client, j.category, j.skills,
		       j.budget_min, j.budget_max, j.status, j.posted_at, j.created_at, j.updated_at,
		       COALESCE(a.status, '')
		FROM jobs j
		LEFT JOIN applications a ON a.job_id = j.id AND a.user_id = $%d
		WHERE %s
		ORDER BY j.posted_at DESC
		LIMIT $%d OFFSET $%d
	`, argPos, where, argPos+1, argPos+2)
	args = append(args, userID, filters.PageSize, (filters.Page-1)*filters.PageSize)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []job.MatchedJob
	for rows.Next() {
		var mj job.MatchedJob
		if err := rows.Scan(
			&mj.ID, &mj.Title, &mj.Description, &mj.Client, &mj.Category, &mj.Skills,
			&mj.BudgetMin, &mj.BudgetMax, &mj.Status, &mj.PostedAt, &mj.CreatedAt, &mj.UpdatedAt,
			&mj.ApplicationStatus,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan job row: %w", err)
		}
		jobs = append(jobs, mj)
	}

	return jobs, total, rows.Err()
}
