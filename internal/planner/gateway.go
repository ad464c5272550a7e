// Package planner is the client side of plan synchronization. It keeps the
// fetched plan collection, resolves the plan for the current selection, and
// reconciles a locally edited draft with the store through a debounced
// autosave and an explicit, confirmed publish.
package planner

import (
	"context"
	"hiroonarita/practice-planner/internal/domain"
)

// Gateway is the remote plan store.
//
// Upsert writes plan under its natural key with plan.Status, draft or
// published, and returns the stored record. Repeating an identical upsert
// must not create a second record. Failures are *NetworkError,
// *ConstraintError or *ValidationError.
type Gateway interface {
	FetchAll(ctx context.Context) ([]domain.PlanRecord, error)
	Upsert(ctx context.Context, plan *domain.PlanRecord) (*domain.PlanRecord, error)
}

// normalizePlans brings fetched records into the in-memory shape: tag sets
// de-duplicated and never nil.
func normalizePlans(plans []domain.PlanRecord) []domain.PlanRecord {
	for i := range plans {
		plans[i].PlanContent = plans[i].PlanContent.Normalize()
	}
	return plans
}
