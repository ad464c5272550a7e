package planner

import (
	"context"
	"hiroonarita/practice-planner/internal/domain"
	"log"
	"sync"
)

// Store is the client-side state container: the current selection and the
// last fetched plan collection. Views read and write it only through its
// methods.
type Store struct {
	gateway Gateway
	logger  *log.Logger

	mu         sync.RWMutex
	selection  domain.PlanKey
	plans      []domain.PlanRecord
	loaded     bool
	loadFailed bool
}

// NewStore creates an empty store. A nil logger uses log.Default().
func NewStore(gateway Gateway, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	return &Store{gateway: gateway, logger: logger}
}

// Refresh re-fetches the whole collection. On failure the previous
// collection is kept, LoadFailed reports true and the error is returned.
// Nothing retries automatically.
func (s *Store) Refresh(ctx context.Context) error {
	plans, err := s.gateway.FetchAll(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.loadFailed = true
		s.logger.Printf("ERROR: fetch plans: %v", err)
		return err
	}
	s.plans = plans
	s.loaded = true
	s.loadFailed = false
	return nil
}

// Loaded reports whether at least one fetch has succeeded.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// LoadFailed reports whether the most recent fetch failed.
func (s *Store) LoadFailed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadFailed
}

func (s *Store) Select(key domain.PlanKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = key
}

func (s *Store) Selection() domain.PlanKey {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selection
}

// Plans returns a copy of the collection.
func (s *Store) Plans() []domain.PlanRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.PlanRecord, len(s.plans))
	for i, p := range s.plans {
		p.PlanContent = p.PlanContent.Clone()
		out[i] = p
	}
	return out
}

// CurrentPlan resolves the plan for the current selection. A nil plan with a
// nil error means there is no plan for that day.
func (s *Store) CurrentPlan() (*domain.PlanRecord, error) {
	return s.PlanFor(s.Selection())
}

// PlanFor resolves the plan for key.
func (s *Store) PlanFor(key domain.PlanKey) (*domain.PlanRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	plan, err := domain.FindPlan(s.plans, key)
	if err != nil || plan == nil {
		return nil, err
	}
	out := *plan
	out.PlanContent = plan.PlanContent.Clone()
	return &out, nil
}

// YesterdayPlan resolves the published plan of the day before the selection.
func (s *Store) YesterdayPlan() (*domain.PlanRecord, error) {
	return s.YesterdayPlanFor(s.Selection())
}

// YesterdayPlanFor resolves the published plan of the day before key.Date.
func (s *Store) YesterdayPlanFor(key domain.PlanKey) (*domain.PlanRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	plan, err := domain.FindYesterdayPlan(s.plans, key)
	if err != nil || plan == nil {
		return nil, err
	}
	out := *plan
	out.PlanContent = plan.PlanContent.Clone()
	return &out, nil
}

// Upsert writes plan through the gateway and merges the stored record into
// the collection.
func (s *Store) Upsert(ctx context.Context, plan *domain.PlanRecord) (*domain.PlanRecord, error) {
	saved, err := s.gateway.Upsert(ctx, plan)
	if err != nil {
		s.logger.Printf("ERROR: upsert %s plan %s: %v", plan.Status, plan.PlanKey, err)
		return nil, err
	}
	s.Merge(*saved)
	return saved, nil
}

// Merge replaces the record stored at plan's key, or appends it.
func (s *Store) Merge(plan domain.PlanRecord) {
	plan.PlanContent = plan.PlanContent.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.plans {
		if s.plans[i].PlanKey == plan.PlanKey {
			s.plans[i] = plan
			return
		}
	}
	s.plans = append(s.plans, plan)
}
