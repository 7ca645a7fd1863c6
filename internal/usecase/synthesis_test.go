package usecase

import (
	"context"
	"testing"

	"ReconFlow/internal/domain/models"
	domrepo "ReconFlow/internal/domain/repository"

	"github.com/stretchr/testify/assert"
)

func synthesizerFixture(m *stubMetrics) *Synthesizer {
	intake := &stubIntakeStore{
		count: func(f domrepo.IntakeFilter) (int64, error) {
			switch {
			case f.Validated != nil:
				return 95, nil
			case f.Origin != nil:
				return 40, nil
			case f.Status != nil:
				return 5, nil
			}
			return 100, nil
		},
		sum: func(domrepo.IntakeFilter) (float64, error) { return 10000, nil },
	}
	clearing := &stubClearingStore{
		count: func(f domrepo.ClearingFilter) (int64, error) {
			switch {
			case f.Status != nil:
				return 160, nil
			case f.NeedsVerify != nil:
				return 10, nil
			case f.FileType != nil && *f.FileType == models.FileElectronic:
				return 150, nil
			case f.FileType != nil:
				return 50, nil
			}
			return 200, nil
		},
		sum: func(domrepo.ClearingFilter) (float64, error) { return 20000, nil },
	}
	settlement := &stubSettlementStore{
		count: func(f domrepo.SettlementFilter) (int64, error) {
			switch {
			case f.Balanced != nil:
				return 120, nil
			case f.Duplicate != nil:
				return 2, nil
			case f.NotReceived != nil:
				return 1, nil
			}
			return 120, nil
		},
		sum: func(domrepo.SettlementFilter) (float64, error) { return 15000, nil },
	}
	return NewSynthesizer(intake, clearing, settlement, m, nil)
}

func TestSynthesizeDerivesRates(t *testing.T) {
	s := synthesizerFixture(newStubMetrics())

	res := s.Synthesize(context.Background(), models.Today())

	assert.Equal(t, int64(100), res.TotalIntake)
	assert.Equal(t, int64(95), res.IntakeValidated)
	assert.Equal(t, int64(160), res.ClearingProcessed)
	assert.Equal(t, int64(120), res.SettlementBalanced)
	assert.InDelta(t, 95.0, res.IntakeValidationRate, 1e-9)
	assert.InDelta(t, 80.0, res.ClearingProcessingRate, 1e-9)
	assert.InDelta(t, 100.0, res.SettlementBalancedRate, 1e-9)
	assert.InDelta(t, (95.0+80.0+100.0)/3.0, res.OverallRate, 1e-9)
	assert.Equal(t, models.HealthGood, res.Health())
	assert.Equal(t, models.BottleneckClearingProcessing, res.Bottleneck())
	assert.InDelta(t, 10000.0, res.AmountIntake, 1e-9)
}

func TestSynthesizeZeroesResultOnAnyStoreError(t *testing.T) {
	m := newStubMetrics()
	s := synthesizerFixture(m)

	// Break one mid-sequence settlement query; everything fetched before it
	// must not leak into the result.
	s.settlement = &stubSettlementStore{
		count: func(f domrepo.SettlementFilter) (int64, error) {
			if f.Balanced != nil {
				return 0, errStoreDown
			}
			return 120, nil
		},
	}

	res := s.Synthesize(context.Background(), models.Today())

	assert.Equal(t, models.SyntheseResult{}, res)
	assert.Zero(t, res.OverallRate)
	assert.Equal(t, models.HealthCritical, res.Health())
	assert.Equal(t, 1, m.storeErrors["synthesis"])
}
