package service

import (
	"context"
	"errors"
	"hiroonarita/practice-planner/internal/domain"
	"hiroonarita/practice-planner/internal/repository"
	"hiroonarita/practice-planner/internal/validation"
	"log"
)

var (
	ErrPlanNotPublished = errors.New("reflections can only be submitted for a published plan")
)

// ReflectionService accepts player reflections and lists them for coaches.
type ReflectionService interface {
	Submit(ctx context.Context, reflection *domain.Reflection) (*domain.Reflection, error)
	ListForPlan(ctx context.Context, key domain.PlanKey) ([]domain.Reflection, error)
}

type reflectionService struct {
	reflectionRepo repository.ReflectionRepository
	planRepo       repository.PlanRepository
}

// NewReflectionService creates a new instance of reflectionService.
func NewReflectionService(reflectionRepo repository.ReflectionRepository, planRepo repository.PlanRepository) ReflectionService {
	return &reflectionService{
		reflectionRepo: reflectionRepo,
		planRepo:       planRepo,
	}
}

// Submit validates and stores a reflection for a published plan.
func (s *reflectionService) Submit(ctx context.Context, reflection *domain.Reflection) (*domain.Reflection, error) {
	if errs := validation.ValidateReflection(reflection); errs != nil {
		return nil, &ValidationError{Fields: errs}
	}

	plan, err := s.planRepo.GetByKey(ctx, reflection.PlanKey)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		log.Printf("ERROR: load plan %s for reflection: %v", reflection.PlanKey, err)
		return nil, ErrPlanStoreFailure
	}
	if !plan.IsPublished() {
		return nil, ErrPlanNotPublished
	}

	id, err := s.reflectionRepo.Create(ctx, reflection)
	if err != nil {
		log.Printf("ERROR: store reflection for %s: %v", reflection.PlanKey, err)
		return nil, ErrPlanStoreFailure
	}
	// Refetch to return server-assigned fields.
	return s.reflectionRepo.GetByID(ctx, id)
}

// ListForPlan returns the reflections submitted for a plan.
func (s *reflectionService) ListForPlan(ctx context.Context, key domain.PlanKey) ([]domain.Reflection, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	reflections, err := s.reflectionRepo.ListByPlan(ctx, key)
	if err != nil {
		log.Printf("ERROR: list reflections for %s: %v", key, err)
		return nil, ErrPlanStoreFailure
	}
	return reflections, nil
}
