// internal/repository/postgres/user_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"jobmatch-service/internal/domain/user"
	xerrors "jobmatch-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, microsoft_id, email, name, is_approved, headline, skills, hourly_rate, created_at, updated_at`

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row pgx.Row) (*user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID, &u.MicrosoftID, &u.Email, &u.Name, &u.IsApproved,
		&u.Headline, &u.Skills, &u.HourlyRate, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &u, nil
}

// FindByMicrosoftID retrieves a user by the external identity provider key.
func (r *UserRepository) FindByMicrosoftID(ctx context.Context, microsoftID string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE microsoft_id = $1`
	return scanUser(r.db.QueryRow(ctx, query, microsoftID))
}

// FindByID retrieves a user by internal ID.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

// Create inserts a new user with is_approved forced to false. There is no
// application-level locking for concurrent first logins: the unique
// constraint on microsoft_id is the sole enforcement mechanism, and a
// violated constraint surfaces as ErrDuplicateEntry.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (microsoft_id, email, name, is_approved)
		VALUES ($1, $2, $3, false)
		RETURNING id, is_approved, headline, skills, hourly_rate, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query, u.MicrosoftID, u.Email, u.Name).Scan(
		&u.ID, &u.IsApproved, &u.Headline, &u.Skills, &u.HourlyRate, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return xerrors.ErrDuplicateEntry
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// RefreshLogin updates email, name and updated_at for an existing user.
// is_approved is deliberately not touched by the login path.
func (r *UserRepository) RefreshLogin(ctx context.Context, microsoftID, email, name string) (*user.User, error) {
	query := `
		UPDATE users
		SET email = $2, name = $3, updated_at = now()
		WHERE microsoft_id = $1
		RETURNING ` + userColumns

	return scanUser(r.db.QueryRow(ctx, query, microsoftID, email, name))
}

// SetApproval flips the approval flag. This is the out-of-band admin action;
// the login path never calls it.
func (r *UserRepository) SetApproval(ctx context.Context, id string, approved bool) (*user.User, error) {
	query := `
		UPDATE users
		SET is_approved = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + userColumns

	return scanUser(r.db.QueryRow(ctx, query, id, approved))
}

// UpdateProfile updates the editable profile fields.
func (r *UserRepository) UpdateProfile(ctx context.Context, id string, p *user.Profile) (*user.User, error) {
	query := `
		UPDATE users
		SET headline = $2, skills = $3, hourly_rate = $4, updated_at = now()
		WHERE id = $1
		RETURNING ` + userColumns

	return scanUser(r.db.QueryRow(ctx, query, id, p.Headline, p.Skills, p.HourlyRate))
}

// List retrieves users with filters, newest first.
func (r *UserRepository) List(ctx context.Context, filters *user.ListFilters) ([]user.User, int64, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argPos := 1

	if filters.Approved != nil {
		conditions = append(conditions, fmt.Sprintf("is_approved = $%d", argPos))
		args = append(args, *filters.Approved)
		argPos++
	}
	if filters.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(email ILIKE $%d OR name ILIKE $%d)", argPos, argPos))
		args = append(args, "%"+filters.Search+"%")
		argPos++
	}

	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM users WHERE ` + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT `+userColumns+` FROM users WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, argPos, argPos+1,
	)
	args = append(args, filters.PageSize, (filters.Page-1)*filters.PageSize)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		var u user.User
		if err := rows.Scan(
			&u.ID, &u.MicrosoftID, &u.Email, &u.Name, &u.IsApproved,
			&u.Headline, &u.Skills, &u.HourlyRate, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, u)
	}

	return users, total, rows.Err()
}
