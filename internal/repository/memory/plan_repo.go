package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"hiroonarita/practice-planner/internal/domain"
	"hiroonarita/practice-planner/internal/repository"
)

type planRepository struct {
	db *DB
}

// NewPlanRepository creates a PlanRepository backed by db.
func NewPlanRepository(db *DB) repository.PlanRepository {
	return &planRepository{db: db}
}

func (r *planRepository) List(ctx context.Context, publishedOnly bool) ([]domain.PlanRecord, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	plans := make([]domain.PlanRecord, 0, len(r.db.plans))
	for _, p := range r.db.plans {
		if publishedOnly && !p.IsPublished() {
			continue
		}
		plans = append(plans, copyPlan(p))
	}
	sort.Slice(plans, func(i, j int) bool {
		if plans[i].Date != plans[j].Date {
			return plans[i].Date > plans[j].Date
		}
		return plans[i].PlanKey.String() < plans[j].PlanKey.String()
	})
	return plans, nil
}

func (r *planRepository) GetByKey(ctx context.Context, key domain.PlanKey) (*domain.PlanRecord, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	p, ok := r.db.plans[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	plan := copyPlan(p)
	return &plan, nil
}

func (r *planRepository) UpsertDraft(ctx context.Context, plan *domain.PlanRecord) (*domain.PlanRecord, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if existing, ok := r.db.plans[plan.PlanKey]; ok && existing.IsPublished() {
		return nil, repository.ErrPublishedPlan
	}
	return r.upsert(plan, domain.StatusDraft), nil
}

func (r *planRepository) UpsertPublished(ctx context.Context, plan *domain.PlanRecord) (*domain.PlanRecord, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	return r.upsert(plan, domain.StatusPublished), nil
}

// upsert must be called with the write lock held.
func (r *planRepository) upsert(plan *domain.PlanRecord, status domain.PlanStatus) *domain.PlanRecord {
	stored := copyPlan(plan)
	stored.Status = status
	stored.UpdatedAt = r.db.Now()
	if existing, ok := r.db.plans[plan.PlanKey]; ok {
		stored.ID = existing.ID
	} else {
		stored.ID = uuid.NewString()
	}
	r.db.plans[plan.PlanKey] = &stored

	out := copyPlan(&stored)
	return &out
}

func copyPlan(p *domain.PlanRecord) domain.PlanRecord {
	out := *p
	out.PlanContent = p.PlanContent.Clone()
	return out
}
