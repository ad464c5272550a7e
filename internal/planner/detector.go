package planner

import (
	"hiroonarita/practice-planner/internal/domain"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// Snapshot is the editable part of a plan: what the change detector compares.
type Snapshot struct {
	Content   domain.PlanContent
	CoachName string
}

// SnapshotOf extracts the editable part of a stored plan.
func SnapshotOf(p *domain.PlanRecord) Snapshot {
	if p == nil {
		return EmptySnapshot()
	}
	return Snapshot{Content: p.PlanContent.Clone(), CoachName: p.CreatedByCoachName}
}

// EmptySnapshot is the pristine form shown when no plan exists for a key.
func EmptySnapshot() Snapshot {
	return Snapshot{Content: domain.EmptyContent()}
}

func (s Snapshot) Clone() Snapshot {
	s.Content = s.Content.Clone()
	return s
}

// Record builds a plan for key from the snapshot.
func (s Snapshot) Record(key domain.PlanKey, status domain.PlanStatus) *domain.PlanRecord {
	return &domain.PlanRecord{
		PlanKey:            key,
		PlanContent:        s.Content.Clone(),
		Status:             status,
		CreatedByCoachName: s.CoachName,
	}
}

// IsPristine reports whether nothing that makes a plan worth saving has been
// entered: every drill title and the coach name are empty.
func IsPristine(s Snapshot) bool {
	if s.CoachName != "" {
		return false
	}
	for _, slot := range domain.Slots {
		d, _ := s.Content.Drill(slot)
		if d.Title != "" {
			return false
		}
	}
	return true
}

// Focus tags are a set: order and nil-versus-empty do not matter.
var snapshotCompare = []cmp.Option{
	cmpopts.EquateEmpty(),
	cmpopts.SortSlices(func(a, b string) bool { return a < b }),
}

// Equal compares every drill field, the key factor and the coach name by value.
func Equal(a, b Snapshot) bool {
	return cmp.Equal(a, b, snapshotCompare...)
}

// Diff describes how a differs from b, for logs. Empty when equal.
func Diff(a, b Snapshot) string {
	return cmp.Diff(b, a, snapshotCompare...)
}

// ShouldSave is the autosave gate: never a pristine form, never a state
// equal to the last saved or loaded baseline.
func ShouldSave(current, baseline Snapshot) bool {
	return !IsPristine(current) && !Equal(current, baseline)
}
