package domain

import (
	"errors"
	"fmt"
)

// ErrAmbiguousPlan means the collection holds more than one record for a key.
// Upsert-by-key should make this impossible; seeing it points at a store bug.
var ErrAmbiguousPlan = errors.New("more than one plan stored for the same key")

// FindPlan returns the unique record matching key, or nil when there is none.
// Absence is a valid "no plan for this day" answer, not an error.
func FindPlan(plans []PlanRecord, key PlanKey) (*PlanRecord, error) {
	var found *PlanRecord
	for i := range plans {
		if plans[i].PlanKey != key {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("%w: %s", ErrAmbiguousPlan, key)
		}
		found = &plans[i]
	}
	return found, nil
}

// FindYesterdayPlan returns the published plan for the calendar day before
// key.Date. Drafts are never returned: only what players already saw counts.
func FindYesterdayPlan(plans []PlanRecord, key PlanKey) (*PlanRecord, error) {
	prev, err := key.PreviousDay()
	if err != nil {
		return nil, err
	}
	plan, err := FindPlan(plans, prev)
	if err != nil || plan == nil {
		return nil, err
	}
	if !plan.IsPublished() {
		return nil, nil
	}
	return plan, nil
}

// FilterPublished keeps only the records players may see.
func FilterPublished(plans []PlanRecord) []PlanRecord {
	out := make([]PlanRecord, 0, len(plans))
	for _, p := range plans {
		if p.IsPublished() {
			out = append(out, p)
		}
	}
	return out
}
