package usecase

import (
	"context"
	"testing"
	"time"

	"ReconFlow/internal/domain/models"
	domrepo "ReconFlow/internal/domain/repository"

	"github.com/stretchr/testify/assert"
)

func TestCalculatePerformanceReport(t *testing.T) {
	intake := &stubIntakeStore{
		count: func(f domrepo.IntakeFilter) (int64, error) {
			if f.Validated != nil {
				return 90, nil
			}
			return 100, nil
		},
		sum: func(domrepo.IntakeFilter) (float64, error) { return 5000, nil },
	}
	clearing := &stubClearingStore{
		count: func(f domrepo.ClearingFilter) (int64, error) {
			switch {
			case f.Status != nil:
				return 150, nil
			case f.NeedsVerify != nil:
				return 20, nil
			}
			return 200, nil
		},
		sum: func(domrepo.ClearingFilter) (float64, error) { return 30000, nil },
	}
	settlement := &stubSettlementStore{
		count: func(f domrepo.SettlementFilter) (int64, error) { return 80, nil },
	}
	p := NewPerformanceCalculator(NewAggregator(intake, clearing, settlement, nil, nil), nil)

	start := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	w := models.NewWindow(start, start.Add(10*time.Hour))

	report := p.Calculate(context.Background(), w)

	assert.Equal(t, int64(90), report.IntakeProcessed)
	assert.Equal(t, int64(150), report.ClearingProcessed)
	assert.Equal(t, int64(80), report.SettlementProcessed)
	assert.InDelta(t, 10.0, report.ErrorRate, 1e-9)
	assert.InDelta(t, 30000.0, report.TotalAmount, 1e-9)
	assert.InDelta(t, 50.0, report.AvgIntakeAmount, 1e-9)
	assert.InDelta(t, 150.0, report.AvgClearingAmount, 1e-9)
	assert.InDelta(t, 10.0, report.IntakePerHour, 1e-9)
	assert.InDelta(t, 20.0, report.ClearingPerHour, 1e-9)
	assert.InDelta(t, 90.0, report.GlobalScore, 1e-9)
	assert.Equal(t, models.HealthExcellent, report.ScoreLabel())
	assert.Equal(t, w.Start, report.PeriodStart)
}

func TestCalculateEmptyWindow(t *testing.T) {
	p := NewPerformanceCalculator(
		NewAggregator(&stubIntakeStore{}, &stubClearingStore{}, &stubSettlementStore{}, nil, nil), nil)

	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	report := p.Calculate(context.Background(), models.NewWindow(start, start.Add(time.Minute)))

	// No activity and a sub-hour window: no division by zero anywhere and
	// a clean score.
	assert.Zero(t, report.ErrorRate)
	assert.Zero(t, report.AvgIntakeAmount)
	assert.Zero(t, report.IntakePerHour)
	assert.InDelta(t, 100.0, report.GlobalScore, 1e-9)
}

func TestGlobalScoreClampedAtZero(t *testing.T) {
	clearing := &stubClearingStore{
		count: func(f domrepo.ClearingFilter) (int64, error) {
			if f.NeedsVerify != nil {
				return 300, nil
			}
			return 100, nil
		},
	}
	p := NewPerformanceCalculator(
		NewAggregator(&stubIntakeStore{}, clearing, &stubSettlementStore{}, nil, nil), nil)

	report := p.Calculate(context.Background(), models.Today())

	// Error rate above 100 percent still floors the score at zero.
	assert.InDelta(t, 300.0, report.ErrorRate, 1e-9)
	assert.Zero(t, report.GlobalScore)
	assert.Equal(t, models.HealthCritical, report.ScoreLabel())
}
