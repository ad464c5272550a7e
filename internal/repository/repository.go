package repository

import (
	"context"
	"hiroonarita/practice-planner/internal/domain"
)

// Error constants for repository layer
var (
	ErrNotFound      = RepositoryError("not found")
	ErrDuplicateKey  = RepositoryError("duplicate natural key")
	ErrPublishedPlan = RepositoryError("plan is already published") // Draft writes may not demote a published plan
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// PlanRepository persists practice plans keyed by (teamId, date, gradeGroup).
type PlanRepository interface {
	// List returns every stored plan, newest date first.
	List(ctx context.Context, publishedOnly bool) ([]domain.PlanRecord, error)
	GetByKey(ctx context.Context, key domain.PlanKey) (*domain.PlanRecord, error)

	// UpsertDraft writes plan with status draft. It returns ErrPublishedPlan
	// when the stored record for the key is already published.
	UpsertDraft(ctx context.Context, plan *domain.PlanRecord) (*domain.PlanRecord, error)

	// UpsertPublished writes plan with status published, inserting or replacing.
	UpsertPublished(ctx context.Context, plan *domain.PlanRecord) (*domain.PlanRecord, error)
}

// ReflectionRepository stores player reflections.
type ReflectionRepository interface {
	Create(ctx context.Context, reflection *domain.Reflection) (string, error)
	GetByID(ctx context.Context, id string) (*domain.Reflection, error)
	ListByPlan(ctx context.Context, key domain.PlanKey) ([]domain.Reflection, error)
}

// VoiceClipRepository stores metadata for uploaded voice clips.
type VoiceClipRepository interface {
	Create(ctx context.Context, clip *domain.VoiceClip) (string, error)
	GetByID(ctx context.Context, id string) (*domain.VoiceClip, error)
	Delete(ctx context.Context, id string) error
}
