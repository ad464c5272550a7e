package planner

import (
	"context"
	"errors"
	"hiroonarita/practice-planner/internal/domain"
	"sync"
	"time"
)

// fakeGateway is an in-memory Gateway that records every upsert.
type fakeGateway struct {
	mu        sync.Mutex
	plans     []domain.PlanRecord
	upserts   []domain.PlanRecord
	fetchErr  error
	upsertErr error
	release   chan struct{} // when set, Upsert blocks until it is closed or receives
	started   chan struct{} // signalled when an Upsert begins
}

func newFakeGateway(plans ...domain.PlanRecord) *fakeGateway {
	return &fakeGateway{plans: plans}
}

func (f *fakeGateway) FetchAll(ctx context.Context) ([]domain.PlanRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, &NetworkError{Op: "fetch", Err: f.fetchErr}
	}
	out := make([]domain.PlanRecord, len(f.plans))
	for i, p := range f.plans {
		p.PlanContent = p.PlanContent.Clone()
		out[i] = p
	}
	return out, nil
}

func (f *fakeGateway) Upsert(ctx context.Context, plan *domain.PlanRecord) (*domain.PlanRecord, error) {
	f.mu.Lock()
	started, release := f.started, f.release
	f.mu.Unlock()
	if started != nil {
		started <- struct{}{}
	}
	if release != nil {
		<-release
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	rec := *plan
	rec.PlanContent = plan.PlanContent.Clone()
	f.upserts = append(f.upserts, rec)
	if f.upsertErr != nil {
		return nil, &NetworkError{Op: "upsert", Key: plan.PlanKey, Err: f.upsertErr}
	}
	for i := range f.plans {
		if f.plans[i].PlanKey != plan.PlanKey {
			continue
		}
		if f.plans[i].IsPublished() && !plan.IsPublished() {
			return nil, &ConstraintError{Key: plan.PlanKey, Err: errors.New("already published")}
		}
		rec.ID = f.plans[i].ID
		rec.UpdatedAt = time.Now()
		f.plans[i] = rec
		out := rec
		return &out, nil
	}
	rec.ID = "id-" + plan.PlanKey.String()
	rec.UpdatedAt = time.Now()
	f.plans = append(f.plans, rec)
	out := rec
	return &out, nil
}

func (f *fakeGateway) Upserts() []domain.PlanRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.PlanRecord(nil), f.upserts...)
}

func (f *fakeGateway) setUpsertErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upsertErr = err
}

// put stores rec as another session would, without recording an upsert.
func (f *fakeGateway) put(rec domain.PlanRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.plans {
		if f.plans[i].PlanKey == rec.PlanKey {
			f.plans[i] = rec
			return
		}
	}
	f.plans = append(f.plans, rec)
}

func (f *fakeGateway) setFetchErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchErr = err
}
