// internal/repository/postgres/plan_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"jobmatch-service/internal/domain/plan"
	xerrors "jobmatch-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PlanRepository struct {
	db *pgxpool.Pool
}

func NewPlanRepository(db *pgxpool.Pool) *PlanRepository {
	return &PlanRepository{db: db}
}

// ListActive retrieves active pricing tiers in display order.
func (r *PlanRepository) ListActive(ctx context.Context) ([]plan.PricingPlan, error) {
	query := `
		SELECT id, plan_code, name, description, price, currency, period,
		       features, is_popular, status, sort_order, created_at, updated_at
		FROM plans
		WHERE status = 'active'
		ORDER BY sort_order
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	defer rows.Close()

	var plans []plan.PricingPlan
	for rows.Next() {
		var p plan.PricingPlan
		if err := rows.Scan(
			&p.ID, &p.PlanCode, &p.Name, &p.Description, &p.Price, &p.Currency, &p.Period,
			&p.Features, &p.IsPopular, &p.Status, &p.SortOrder, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan plan row: %w", err)
		}
		plans = append(plans, p)
	}

	return plans, rows.Err()
}

// FindByCode retrieves one tier by its plan code.
func (r *PlanRepository) FindByCode(ctx context.Context, planCode string) (*plan.PricingPlan, error) {
	query := `
		SELECT id, plan_code, name, description, price, currency, period,
		       features, is_popular, status, sort_order, created_at, updated_at
		FROM plans
		WHERE plan_code = $1
	`

	var p plan.PricingPlan
	err := r.db.QueryRow(ctx, query, planCode).Scan(
		&p.ID, &p.PlanCode, &p.Name, &p.Description, &p.Price, &p.Currency, &p.Period,
		&p.Features, &p.IsPopular, &p.Status, &p.SortOrder, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find plan: %w", err)
	}

	return &p, nil
}
