package usecase

import (
	"context"
	"errors"
	"testing"

	"ReconFlow/internal/domain/models"
	domrepo "ReconFlow/internal/domain/repository"

	"github.com/stretchr/testify/assert"
)

var errStoreDown = errors.New("store unavailable")

func TestAggregatorReturnsStoreFigures(t *testing.T) {
	intake := &stubIntakeStore{
		count: func(domrepo.IntakeFilter) (int64, error) { return 42, nil },
		sum:   func(domrepo.IntakeFilter) (float64, error) { return 1234.56, nil },
	}
	agg := NewAggregator(intake, &stubClearingStore{}, &stubSettlementStore{}, newStubMetrics(), nil)

	got := agg.Intake(context.Background(), models.Today(), domrepo.IntakeFilter{})
	assert.Equal(t, models.StageAggregate{Count: 42, Amount: 1234.56}, got)
}

func TestAggregatorFailsToZeroOnCountError(t *testing.T) {
	m := newStubMetrics()
	intake := &stubIntakeStore{
		count: func(domrepo.IntakeFilter) (int64, error) { return 0, errStoreDown },
	}
	agg := NewAggregator(intake, &stubClearingStore{}, &stubSettlementStore{}, m, nil)

	got := agg.Intake(context.Background(), models.Today(), domrepo.IntakeFilter{})
	assert.Equal(t, models.ZeroAggregate, got)
	assert.Equal(t, 1, m.storeErrors["intake"])
}

func TestAggregatorFailsToZeroOnSumError(t *testing.T) {
	m := newStubMetrics()
	clearing := &stubClearingStore{
		count: func(domrepo.ClearingFilter) (int64, error) { return 7, nil },
		sum:   func(domrepo.ClearingFilter) (float64, error) { return 0, errStoreDown },
	}
	agg := NewAggregator(&stubIntakeStore{}, clearing, &stubSettlementStore{}, m, nil)

	// A failing sum zeroes the whole aggregate, not just the amount.
	got := agg.Clearing(context.Background(), models.Today(), domrepo.ClearingFilter{})
	assert.Equal(t, models.ZeroAggregate, got)
	assert.Equal(t, 1, m.storeErrors["clearing"])
}

func TestAggregatorCountOnlyHelpers(t *testing.T) {
	m := newStubMetrics()
	settlement := &stubSettlementStore{
		count: func(domrepo.SettlementFilter) (int64, error) { return 0, errStoreDown },
	}
	agg := NewAggregator(&stubIntakeStore{}, &stubClearingStore{}, settlement, m, nil)

	assert.Zero(t, agg.CountSettlement(context.Background(), models.Today(), domrepo.SettlementFilter{}))
	assert.Equal(t, 1, m.storeErrors["settlement"])
}
