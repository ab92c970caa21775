// internal/service/plan/plan.go
package plan

import (
	"context"
	"fmt"

	"jobmatch-service/internal/domain/plan"

	"go.uber.org/zap"
)

type PlanStore interface {
	ListActive(ctx context.Context) ([]plan.PricingPlan, error)
	FindByCode(ctx context.Context, planCode string) (*plan.PricingPlan, error)
}

// PlanService serves the read-only pricing tiers. Plans are seeded by
// migration and edited out of band; there is no write path here.
type PlanService struct {
	plans  PlanStore
	logger *zap.Logger
}

func NewPlanService(plans PlanStore, logger *zap.Logger) *PlanService {
	return &PlanService{plans: plans, logger: logger}
}

func (s *PlanService) ListPlans(ctx context.Context) ([]plan.PricingPlan, error) {
	plans, err := s.plans.ListActive(ctx)
	if err != nil {
		s.logger.Error("failed to list plans", zap.Error(err))
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	return plans, nil
}

func (s *PlanService) GetPlanByCode(ctx context.Context, planCode string) (*plan.PricingPlan, error) {
	return s.plans.FindByCode(ctx, planCode)
}
