package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"hiroonarita/practice-planner/internal/domain"
	"hiroonarita/practice-planner/internal/repository"
)

type reflectionRepository struct {
	db *DB
}

// NewReflectionRepository creates a ReflectionRepository backed by db.
func NewReflectionRepository(db *DB) repository.ReflectionRepository {
	return &reflectionRepository{db: db}
}

func (r *reflectionRepository) Create(ctx context.Context, reflection *domain.Reflection) (string, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	stored := *reflection
	stored.ID = uuid.NewString()
	stored.SubmittedAt = r.db.Now()
	r.db.reflections[stored.ID] = &stored
	return stored.ID, nil
}

func (r *reflectionRepository) GetByID(ctx context.Context, id string) (*domain.Reflection, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	ref, ok := r.db.reflections[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *ref
	return &out, nil
}

func (r *reflectionRepository) ListByPlan(ctx context.Context, key domain.PlanKey) ([]domain.Reflection, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var out []domain.Reflection
	for _, ref := range r.db.reflections {
		if ref.PlanKey == key {
			out = append(out, *ref)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.Before(out[j].SubmittedAt) })
	return out, nil
}
