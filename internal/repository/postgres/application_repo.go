// internal/repository/postgres/application_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"jobmatch-service/internal/domain/application"
	xerrors "jobmatch-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ApplicationRepository struct {
	db *pgxpool.Pool
}

func NewApplicationRepository(db *pgxpool.Pool) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// Create inserts a new application. The unique constraint on (user_id,
// job_id) rejects duplicates; the violation surfaces as ErrDuplicateEntry.
func (r *ApplicationRepository) Create(ctx context.Context, a *application.Application) error {
	query := `
		INSERT INTO applications (user_id, job_id, status, cover_note)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query, a.UserID, a.JobID, a.Status, a.CoverNote).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return xerrors.ErrDuplicateEntry
		}
		return fmt.Errorf("failed to create application: %w", err)
	}

	return nil
}

// FindByID retrieves one application.
func (r *ApplicationRepository) FindByID(ctx context.Context, id int64) (*application.Application, error) {
	query := `
		SELECT id, user_id, job_id, status, cover_note, created_at, updated_at
		FROM applications
		WHERE id = $1
	`

	var a application.Application
	err := r.db.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.UserID, &a.JobID, &a.Status, &a.CoverNote, &a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find application: %w", err)
	}

	return &a, nil
}

// UpdateStatus moves an application to a new status.
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id int64, status application.Status) (*application.Application, error) {
	query := `
		UPDATE applications
		SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING id, user_id, job_id, status, cover_note, created_at, updated_at
	`

	var a application.Application
	err := r.db.QueryRow(ctx, query, id, status).Scan(
		&a.ID, &a.UserID, &a.JobID, &a.Status, &a.CoverNote, &a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update application status: %w", err)
	}

	return &a, nil
}

// ListByUser retrieves a user's applications, newest first.
func (r *ApplicationRepository) ListByUser(ctx context.Context, userID string, filters *application.ListFilters) ([]application.Application, int64, error) {
	conditions := []string{"user_id = $1"}
	args := []interface{}{userID}
	argPos := 2

	if filters.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *filters.Status)
		argPos++
	}

	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM applications WHERE ` + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count applications: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, user_id, job_id, status, cover_note, created_at, updated_at
		FROM applications
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, argPos, argPos+1)
	args = append(args, filters.PageSize, (filters.Page-1)*filters.PageSize)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var apps []application.Application
	for rows.Next() {
		var a application.Application
		if err := rows.Scan(&a.ID, &a.UserID, &a.JobID, &a.Status, &a.CoverNote, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan application row: %w", err)
		}
		apps = append(apps, a)
	}

	return apps, total, rows.Err()
}

// StatsByUser aggregates a user's applications by status.
func (r *ApplicationRepository) StatsByUser(ctx context.Context, userID string) (*application.Stats, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'applied'),
			COUNT(*) FILTER (WHERE status = 'matched'),
			COUNT(*) FILTER (WHERE status = 'rejected'),
			COUNT(*) FILTER (WHERE status = 'withdrawn'),
			COUNT(*)
		FROM applications
		WHERE user_id = $1
	`

	var stats application.Stats
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&stats.Applied, &stats.Matched, &stats.Rejected, &stats.Withdrawn, &stats.Total,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate application stats: %w", err)
	}

	return &stats, nil
}
