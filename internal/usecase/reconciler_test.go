package usecase

import (
	"context"
	"sync"
	"testing"

	"ReconFlow/internal/domain/models"
	domrepo "ReconFlow/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileBalancedWindow(t *testing.T) {
	m := newStubMetrics()
	r := NewReconciler(NewAggregator(
		&stubIntakeStore{
			count: func(domrepo.IntakeFilter) (int64, error) { return 50, nil },
			sum:   func(domrepo.IntakeFilter) (float64, error) { return 1000.00, nil },
		},
		&stubClearingStore{
			count: func(domrepo.ClearingFilter) (int64, error) { return 30, nil },
			sum:   func(domrepo.ClearingFilter) (float64, error) { return 500.00, nil },
		},
		&stubSettlementStore{
			count: func(domrepo.SettlementFilter) (int64, error) { return 80, nil },
			sum:   func(domrepo.SettlementFilter) (float64, error) { return 1500.00, nil },
		},
		m, nil,
	), m, nil)

	res := r.Reconcile(context.Background(), models.Today())

	assert.Equal(t, models.StatusBalanced, res.Status())
	assert.Equal(t, int64(80), res.CombinedCount())
	assert.InDelta(t, 1500.00, res.CombinedAmount(), 1e-9)
	assert.Equal(t, 1, m.reconciliations[string(models.StatusBalanced)])
}

func TestReconcileAppliesStagePredicates(t *testing.T) {
	var (
		mu              sync.Mutex
		intakeFilters   []domrepo.IntakeFilter
		clearingFilters []domrepo.ClearingFilter
	)
	r := NewReconciler(NewAggregator(
		&stubIntakeStore{
			count: func(f domrepo.IntakeFilter) (int64, error) {
				mu.Lock()
				intakeFilters = append(intakeFilters, f)
				mu.Unlock()
				return 0, nil
			},
		},
		&stubClearingStore{
			count: func(f domrepo.ClearingFilter) (int64, error) {
				mu.Lock()
				clearingFilters = append(clearingFilters, f)
				mu.Unlock()
				return 0, nil
			},
		},
		&stubSettlementStore{},
		nil, nil,
	), nil, nil)

	r.Reconcile(context.Background(), models.Today())

	require.Len(t, intakeFilters, 1)
	require.NotNil(t, intakeFilters[0].Generated)
	require.NotNil(t, intakeFilters[0].Validated)
	assert.True(t, *intakeFilters[0].Generated)
	assert.True(t, *intakeFilters[0].Validated)

	require.Len(t, clearingFilters, 1)
	require.NotNil(t, clearingFilters[0].Status)
	assert.Equal(t, models.ClearingProcessed, *clearingFilters[0].Status)
}

func TestReconcileFailedStoreDegradesToZeroTerm(t *testing.T) {
	m := newStubMetrics()
	r := NewReconciler(NewAggregator(
		&stubIntakeStore{
			count: func(domrepo.IntakeFilter) (int64, error) { return 0, errStoreDown },
		},
		&stubClearingStore{
			count: func(domrepo.ClearingFilter) (int64, error) { return 10, nil },
			sum:   func(domrepo.ClearingFilter) (float64, error) { return 100, nil },
		},
		&stubSettlementStore{
			count: func(domrepo.SettlementFilter) (int64, error) { return 10, nil },
			sum:   func(domrepo.SettlementFilter) (float64, error) { return 100, nil },
		},
		m, nil,
	), m, nil)

	res := r.Reconcile(context.Background(), models.Today())

	// Intake term is zero, the comparison still ran.
	assert.Zero(t, res.CountIntake)
	assert.Equal(t, models.StatusBalanced, res.Status())
	assert.Equal(t, 1, m.storeErrors["intake"])
}

func TestReconcilePanickingStoreDegradesToZeroTerm(t *testing.T) {
	m := newStubMetrics()
	r := NewReconciler(NewAggregator(
		&stubIntakeStore{
			count: func(domrepo.IntakeFilter) (int64, error) { panic("store corrupted") },
		},
		&stubClearingStore{
			count: func(domrepo.ClearingFilter) (int64, error) { return 10, nil },
			sum:   func(domrepo.ClearingFilter) (float64, error) { return 100, nil },
		},
		&stubSettlementStore{
			count: func(domrepo.SettlementFilter) (int64, error) { return 10, nil },
			sum:   func(domrepo.SettlementFilter) (float64, error) { return 100, nil },
		},
		m, nil,
	), m, nil)

	var res models.EquilibrageResult
	require.NotPanics(t, func() {
		res = r.Reconcile(context.Background(), models.Today())
	})

	// Same contract as a failing store: the stage contributes zeros.
	assert.Zero(t, res.CountIntake)
	assert.Zero(t, res.AmountIntake)
	assert.Equal(t, models.StatusBalanced, res.Status())
	assert.Equal(t, 1, m.storeErrors["intake"])
}
