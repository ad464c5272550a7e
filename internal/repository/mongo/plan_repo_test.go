package mongo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"hiroonarita/practice-planner/internal/domain"
	"hiroonarita/practice-planner/internal/repository"
)

var errDuplicate = mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key error"}}}

// writes returns a write func that yields results in order.
func writes(results ...error) (func() (*domain.PlanRecord, error), *int) {
	calls := 0
	return func() (*domain.PlanRecord, error) {
		err := results[calls]
		calls++
		if err != nil {
			return nil, err
		}
		return &domain.PlanRecord{Status: domain.StatusDraft}, nil
	}, &calls
}

func TestRetryOnDuplicateRetriesLostInsertRace(t *testing.T) {
	write, calls := writes(errDuplicate, nil)
	checked := false

	saved, err := retryOnDuplicate(write, func() error { checked = true; return nil })
	require.NoError(t, err)
	assert.NotNil(t, saved)
	assert.True(t, checked)
	assert.Equal(t, 2, *calls)
}

func TestRetryOnDuplicateStopsOnPublishedPlan(t *testing.T) {
	write, calls := writes(errDuplicate, nil)

	_, err := retryOnDuplicate(write, func() error { return repository.ErrPublishedPlan })
	assert.ErrorIs(t, err, repository.ErrPublishedPlan)
	assert.Equal(t, 1, *calls)
}

func TestRetryOnDuplicateGivesUpAfterOneRetry(t *testing.T) {
	write, calls := writes(errDuplicate, errDuplicate)

	_, err := retryOnDuplicate(write, nil)
	assert.ErrorIs(t, err, repository.ErrDuplicateKey)
	assert.Equal(t, 2, *calls)
}

func TestRetryOnDuplicatePassesOtherErrors(t *testing.T) {
	boom := errors.New("connection reset")
	write, calls := writes(boom)

	_, err := retryOnDuplicate(write, func() error {
		t.Fatal("check runs only after a duplicate key error")
		return nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, *calls)
}
