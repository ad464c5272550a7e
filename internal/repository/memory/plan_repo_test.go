package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hiroonarita/practice-planner/internal/domain"
	"hiroonarita/practice-planner/internal/repository"
)

func newPlan(date string) *domain.PlanRecord {
	tpl, _ := domain.FindTemplate("template-1")
	return &domain.PlanRecord{
		PlanKey:            domain.PlanKey{TeamID: "team-1", Date: date, GradeGroup: domain.Grade34},
		PlanContent:        tpl.PlanContent.Clone(),
		CreatedByCoachName: "Coach Tanaka",
	}
}

func TestUpsertDraftRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := Open()
	stamp := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	db.Now = func() time.Time { return stamp }
	repo := NewPlanRepository(db)

	in := newPlan("2024-03-01")
	saved, err := repo.UpsertDraft(ctx, in)
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, domain.StatusDraft, saved.Status)
	assert.Equal(t, stamp, saved.UpdatedAt)

	all, err := repo.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, in.PlanKey, all[0].PlanKey)
	assert.Equal(t, in.PlanContent, all[0].PlanContent)
	assert.Equal(t, in.CreatedByCoachName, all[0].CreatedByCoachName)
}

func TestUpsertIsIdempotentPerKey(t *testing.T) {
	ctx := context.Background()
	repo := NewPlanRepository(Open())

	first, err := repo.UpsertDraft(ctx, newPlan("2024-03-01"))
	require.NoError(t, err)
	second, err := repo.UpsertDraft(ctx, newPlan("2024-03-01"))
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	all, err := repo.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUpsertDraftNeverDemotesPublished(t *testing.T) {
	ctx := context.Background()
	repo := NewPlanRepository(Open())

	_, err := repo.UpsertPublished(ctx, newPlan("2024-03-01"))
	require.NoError(t, err)

	_, err = repo.UpsertDraft(ctx, newPlan("2024-03-01"))
	assert.ErrorIs(t, err, repository.ErrPublishedPlan)

	stored, err := repo.GetByKey(ctx, newPlan("2024-03-01").PlanKey)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPublished, stored.Status)

	republished, err := repo.UpsertPublished(ctx, newPlan("2024-03-01"))
	require.NoError(t, err)
	assert.Equal(t, stored.ID, republished.ID)
}

func TestListOrderAndPublishedFilter(t *testing.T) {
	ctx := context.Background()
	repo := NewPlanRepository(Open())

	_, err := repo.UpsertDraft(ctx, newPlan("2024-03-01"))
	require.NoError(t, err)
	_, err = repo.UpsertPublished(ctx, newPlan("2024-03-02"))
	require.NoError(t, err)

	all, err := repo.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "2024-03-02", all[0].Date)

	published, err := repo.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, "2024-03-02", published[0].Date)
}

func TestStoredPlanIsIsolatedFromCaller(t *testing.T) {
	ctx := context.Background()
	repo := NewPlanRepository(Open())

	in := newPlan("2024-03-01")
	_, err := repo.UpsertDraft(ctx, in)
	require.NoError(t, err)
	in.Warmup.FocusTags[0] = "mutated"

	stored, err := repo.GetByKey(ctx, in.PlanKey)
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", stored.Warmup.FocusTags[0])
}

func TestGetByKeyNotFound(t *testing.T) {
	repo := NewPlanRepository(Open())
	_, err := repo.GetByKey(context.Background(), newPlan("2024-03-01").PlanKey)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
