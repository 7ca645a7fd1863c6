package usecase

import (
	"context"
	"testing"

	"ReconFlow/internal/domain/models"
	domrepo "ReconFlow/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// monitorFixture builds a monitor over a window with a persistent
// duplicate-remises condition.
func monitorFixture(p *stubPublisher) *AnomalyMonitor {
	settlement := &stubSettlementStore{
		count: func(f domrepo.SettlementFilter) (int64, error) {
			if f.Duplicate != nil {
				return 2, nil
			}
			return 0, nil
		},
	}
	agg := NewAggregator(&stubIntakeStore{}, &stubClearingStore{}, settlement, nil, nil)
	detector := NewAnomalyDetector(agg, NewReconciler(agg, nil, nil), nil, nil)
	return NewAnomalyMonitor(detector, p, 0, nil)
}

func TestMonitorPublishesFreshAnomaliesOnce(t *testing.T) {
	p := &stubPublisher{}
	m := monitorFixture(p)

	m.sweep(context.Background())
	require.Len(t, p.batches, 1)
	require.Len(t, p.batches[0], 1)
	assert.Equal(t, models.CodeDuplicateRemises, p.batches[0][0].Code)

	// Still present next sweep, already notified: nothing new goes out.
	m.sweep(context.Background())
	assert.Len(t, p.batches, 1)
}

func TestMonitorRetriesAfterPublishFailure(t *testing.T) {
	p := &stubPublisher{failures: 1}
	m := monitorFixture(p)

	m.sweep(context.Background())
	assert.Empty(t, p.batches)

	// The failed code was not marked published, so the next sweep retries.
	m.sweep(context.Background())
	require.Len(t, p.batches, 1)
	assert.Equal(t, models.CodeDuplicateRemises, p.batches[0][0].Code)
}

func TestMonitorDefaultsInterval(t *testing.T) {
	m := monitorFixture(&stubPublisher{})
	assert.Positive(t, m.interval)
}
