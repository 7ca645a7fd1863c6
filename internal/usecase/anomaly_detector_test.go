package usecase

import (
	"context"
	"testing"

	"ReconFlow/internal/domain/models"
	domrepo "ReconFlow/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// detectorFixture wires a detector over stores describing a thoroughly
// broken window: count and amount imbalance, 30 files never received,
// a verify backlog of 15, 3 duplicate remises and 4 stuck images.
func detectorFixture(m *stubMetrics) *AnomalyDetector {
	intake := &stubIntakeStore{
		count: func(f domrepo.IntakeFilter) (int64, error) {
			switch {
			case f.Generated != nil && f.Validated != nil:
				return 10, nil
			case f.Generated != nil:
				return 50, nil
			}
			return 0, nil
		},
		sum: func(f domrepo.IntakeFilter) (float64, error) { return 100, nil },
	}
	clearing := &stubClearingStore{
		count: func(f domrepo.ClearingFilter) (int64, error) {
			switch {
			case f.Status != nil:
				return 5, nil
			case f.Direction != nil:
				return 20, nil
			case f.NeedsVerify != nil:
				return 15, nil
			case f.ImageStatus != nil:
				return 4, nil
			}
			return 0, nil
		},
		sum: func(f domrepo.ClearingFilter) (float64, error) { return 50, nil },
	}
	settlement := &stubSettlementStore{
		count: func(f domrepo.SettlementFilter) (int64, error) {
			if f.Duplicate != nil {
				return 3, nil
			}
			return 8, nil
		},
		sum: func(f domrepo.SettlementFilter) (float64, error) { return 120, nil },
	}
	agg := NewAggregator(intake, clearing, settlement, m, nil)
	return NewAnomalyDetector(agg, NewReconciler(agg, m, nil), m, nil)
}

func anomalyCodes(anomalies []models.Anomaly) []models.AnomalyCode {
	codes := make([]models.AnomalyCode, len(anomalies))
	for i, a := range anomalies {
		codes[i] = a.Code
	}
	return codes
}

func TestDetectQuietWindowHasNoAnomalies(t *testing.T) {
	agg := NewAggregator(&stubIntakeStore{}, &stubClearingStore{}, &stubSettlementStore{}, nil, nil)
	d := NewAnomalyDetector(agg, NewReconciler(agg, nil, nil), nil, nil)

	assert.Empty(t, d.Detect(context.Background(), models.Today()))
	assert.Empty(t, d.DetectSession(context.Background(), models.Today()))
}

func TestDetectOrdersMostSevereFirst(t *testing.T) {
	m := newStubMetrics()
	d := detectorFixture(m)

	anomalies := d.Detect(context.Background(), models.Today())

	assert.Equal(t, []models.AnomalyCode{
		models.CodeCountImbalance,
		models.CodeAmountImbalance,
		models.CodeRecordsNotReceived,
		models.CodeVerifyBacklog,
	}, anomalyCodes(anomalies))
	assert.Equal(t, models.SeverityCritical, anomalies[0].Severity)
	assert.Equal(t, 1, m.anomalies[string(models.CodeCountImbalance)])
}

func TestDetectSessionAddsSessionChecks(t *testing.T) {
	d := detectorFixture(newStubMetrics())

	anomalies := d.DetectSession(context.Background(), models.Today())

	// Ties keep detection order within each severity.
	assert.Equal(t, []models.AnomalyCode{
		models.CodeCountImbalance,
		models.CodeAmountImbalance,
		models.CodeRecordsNotReceived,
		models.CodeDuplicateRemises,
		models.CodeVerifyBacklog,
		models.CodeStuckImages,
	}, anomalyCodes(anomalies))
}

func TestDetectIsIdempotent(t *testing.T) {
	d := detectorFixture(newStubMetrics())
	w := models.Today()

	first := d.Detect(context.Background(), w)
	second := d.Detect(context.Background(), w)
	assert.Equal(t, anomalyCodes(first), anomalyCodes(second))
}

func TestVerifyBacklogThreshold(t *testing.T) {
	backlog := int64(VerifyBacklogThreshold)
	clearing := &stubClearingStore{
		count: func(f domrepo.ClearingFilter) (int64, error) {
			if f.NeedsVerify != nil {
				return backlog, nil
			}
			return 0, nil
		},
	}
	agg := NewAggregator(&stubIntakeStore{}, clearing, &stubSettlementStore{}, nil, nil)
	d := NewAnomalyDetector(agg, NewReconciler(agg, nil, nil), nil, nil)

	// Exactly at the threshold is acceptable.
	assert.Empty(t, d.Detect(context.Background(), models.Today()))

	backlog = VerifyBacklogThreshold + 1
	anomalies := d.Detect(context.Background(), models.Today())
	require.Len(t, anomalies, 1)
	assert.Equal(t, models.CodeVerifyBacklog, anomalies[0].Code)
	assert.Equal(t, models.SeverityAttention, anomalies[0].Severity)
}

func TestDetectConvertsPanicIntoSystemError(t *testing.T) {
	intake := &stubIntakeStore{
		count: func(f domrepo.IntakeFilter) (int64, error) {
			if f.Generated != nil && f.Validated == nil {
				return 5, nil
			}
			return 0, nil
		},
	}
	clearing := &stubClearingStore{
		count: func(f domrepo.ClearingFilter) (int64, error) {
			if f.NeedsVerify != nil {
				panic("corrupted aggregate")
			}
			return 0, nil
		},
	}
	agg := NewAggregator(intake, clearing, &stubSettlementStore{}, nil, nil)
	d := NewAnomalyDetector(agg, NewReconciler(agg, nil, nil), nil, nil)

	var anomalies []models.Anomaly
	require.NotPanics(t, func() {
		anomalies = d.Detect(context.Background(), models.Today())
	})

	// The checks that ran before the failure are kept, the failure itself
	// becomes a single CRITICAL anomaly and sorts first.
	require.Len(t, anomalies, 2)
	assert.Equal(t, models.CodeSystemError, anomalies[0].Code)
	assert.Equal(t, models.SeverityCritical, anomalies[0].Severity)
	assert.Equal(t, models.CodeRecordsNotReceived, anomalies[1].Code)
}

func TestDetectSurvivesStorePanicDuringReconcile(t *testing.T) {
	// The balance check fans its aggregations out to goroutines, so this
	// panic fires off the caller's stack. It must not take the process
	// down; the intake term degrades to zero and the remaining checks run.
	intake := &stubIntakeStore{
		count: func(f domrepo.IntakeFilter) (int64, error) {
			if f.Validated != nil {
				panic("store corrupted")
			}
			return 5, nil
		},
	}
	m := newStubMetrics()
	agg := NewAggregator(intake, &stubClearingStore{}, &stubSettlementStore{}, m, nil)
	d := NewAnomalyDetector(agg, NewReconciler(agg, m, nil), m, nil)

	var anomalies []models.Anomaly
	require.NotPanics(t, func() {
		anomalies = d.Detect(context.Background(), models.Today())
	})

	require.Len(t, anomalies, 1)
	assert.Equal(t, models.CodeRecordsNotReceived, anomalies[0].Code)
	assert.Equal(t, 1, m.storeErrors["intake"])
}
