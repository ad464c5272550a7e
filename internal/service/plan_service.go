package service

import (
	"context"
	"errors"
	"hiroonarita/practice-planner/internal/domain"
	"hiroonarita/practice-planner/internal/repository"
	"hiroonarita/practice-planner/internal/validation"
	"log"
)

// --- Error Definitions ---
var (
	ErrPlanNotFound     = errors.New("plan not found")
	ErrPlanPublished    = errors.New("plan is already published; re-publish to change it")
	ErrAmbiguousPlan    = domain.ErrAmbiguousPlan
	ErrPlanStoreFailure = errors.New("plan store is unavailable")
)

// ValidationError carries per-field messages back to the caller.
type ValidationError struct {
	Fields validation.Errors
}

func (e *ValidationError) Error() string {
	return e.Fields.Error()
}

// PlanService is the backend side of plan synchronization: fetch-all,
// upsert by natural key and the draft/published transitions.
type PlanService interface {
	ListPlans(ctx context.Context, publishedOnly bool) ([]domain.PlanRecord, error)
	Lookup(ctx context.Context, key domain.PlanKey, publishedOnly bool) (*domain.PlanRecord, error)
	LookupYesterday(ctx context.Context, key domain.PlanKey) (*domain.PlanRecord, error)
	SaveDraft(ctx context.Context, plan *domain.PlanRecord) (*domain.PlanRecord, error)
	Publish(ctx context.Context, plan *domain.PlanRecord) (*domain.PlanRecord, error)
}

type planService struct {
	planRepo repository.PlanRepository
}

// NewPlanService creates a new instance of planService.
func NewPlanService(planRepo repository.PlanRepository) PlanService {
	return &planService{planRepo: planRepo}
}

// ListPlans returns every plan, or only published ones for player callers.
func (s *planService) ListPlans(ctx context.Context, publishedOnly bool) ([]domain.PlanRecord, error) {
	plans, err := s.planRepo.List(ctx, publishedOnly)
	if err != nil {
		log.Printf("ERROR: list plans (publishedOnly=%t): %v", publishedOnly, err)
		return nil, ErrPlanStoreFailure
	}
	return plans, nil
}

// Lookup resolves the plan for key from the full collection, the same way a
// client resolves it locally.
func (s *planService) Lookup(ctx context.Context, key domain.PlanKey, publishedOnly bool) (*domain.PlanRecord, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	plans, err := s.ListPlans(ctx, publishedOnly)
	if err != nil {
		return nil, err
	}
	plan, err := domain.FindPlan(plans, key)
	if err != nil {
		log.Printf("ERROR: lookup plan %s: %v", key, err)
		return nil, err
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}
	return plan, nil
}

// LookupYesterday returns the published plan of the previous calendar day.
func (s *planService) LookupYesterday(ctx context.Context, key domain.PlanKey) (*domain.PlanRecord, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	plans, err := s.ListPlans(ctx, true)
	if err != nil {
		return nil, err
	}
	plan, err := domain.FindYesterdayPlan(plans, key)
	if err != nil {
		log.Printf("ERROR: lookup yesterday's plan for %s: %v", key, err)
		return nil, err
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}
	return plan, nil
}

// SaveDraft upserts plan as a draft. A published plan is never demoted.
func (s *planService) SaveDraft(ctx context.Context, plan *domain.PlanRecord) (*domain.PlanRecord, error) {
	if err := plan.PlanKey.Validate(); err != nil {
		return nil, err
	}
	plan.PlanContent = plan.PlanContent.Normalize()

	saved, err := s.planRepo.UpsertDraft(ctx, plan)
	if err != nil {
		if errors.Is(err, repository.ErrPublishedPlan) {
			log.Printf("WARN: save draft %s refused: already published", plan.PlanKey)
			return nil, ErrPlanPublished
		}
		if errors.Is(err, repository.ErrDuplicateKey) {
			log.Printf("WARN: save draft %s: concurrent first writes, client should retry", plan.PlanKey)
			return nil, ErrPlanStoreFailure
		}
		log.Printf("ERROR: save draft %s: %v", plan.PlanKey, err)
		return nil, ErrPlanStoreFailure
	}
	return saved, nil
}

// Publish validates plan and upserts it with status published. It covers both
// the first publish and re-publishing; confirming a re-publish is the
// client's job.
func (s *planService) Publish(ctx context.Context, plan *domain.PlanRecord) (*domain.PlanRecord, error) {
	if err := plan.PlanKey.Validate(); err != nil {
		return nil, err
	}
	if errs := validation.ValidateForPublish(plan.PlanContent); errs != nil {
		return nil, &ValidationError{Fields: errs}
	}
	plan.PlanContent = plan.PlanContent.Normalize()

	saved, err := s.planRepo.UpsertPublished(ctx, plan)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			log.Printf("WARN: publish %s: concurrent first writes, client should retry", plan.PlanKey)
			return nil, ErrPlanStoreFailure
		}
		log.Printf("ERROR: publish %s: %v", plan.PlanKey, err)
		return nil, ErrPlanStoreFailure
	}
	log.Printf("INFO: published plan %s (id %s)", saved.PlanKey, saved.ID)
	return saved, nil
}
