package planner

import (
	"context"
	"errors"
	"hiroonarita/practice-planner/internal/domain"
	"hiroonarita/practice-planner/internal/service"
)

// LocalGateway talks to an in-process PlanService, e.g. one backed by the
// memory repositories. It maps service errors onto the gateway taxonomy.
type LocalGateway struct {
	plans service.PlanService
}

func NewLocalGateway(plans service.PlanService) *LocalGateway {
	return &LocalGateway{plans: plans}
}

func (g *LocalGateway) FetchAll(ctx context.Context) ([]domain.PlanRecord, error) {
	plans, err := g.plans.ListPlans(ctx, false)
	if err != nil {
		return nil, &NetworkError{Op: "fetch", Err: err}
	}
	return normalizePlans(plans), nil
}

func (g *LocalGateway) Upsert(ctx context.Context, plan *domain.PlanRecord) (*domain.PlanRecord, error) {
	in := *plan
	in.PlanContent = plan.PlanContent.Clone()

	var (
		saved *domain.PlanRecord
		err   error
	)
	if plan.IsPublished() {
		saved, err = g.plans.Publish(ctx, &in)
	} else {
		saved, err = g.plans.SaveDraft(ctx, &in)
	}
	if err == nil {
		return saved, nil
	}

	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		return nil, &ValidationError{Fields: vErr.Fields}
	case errors.Is(err, service.ErrPlanPublished):
		return nil, &ConstraintError{Key: plan.PlanKey, Err: err}
	}
	return nil, &NetworkError{Op: "upsert", Key: plan.PlanKey, Err: err}
}
