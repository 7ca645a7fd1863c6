package usecase

import (
	"context"
	"fmt"
	"time"

	"ReconFlow/internal/domain/models"
	domrepo "ReconFlow/internal/domain/repository"
	applogger "ReconFlow/pkg/logger"
)

// Synthesizer derives per-stage success ratios and an overall health view
// for a window. Unlike the Aggregator it fails as a unit: the ratios are
// meaningless if any one input silently became zero, so the first store
// error zeroes the whole result.
type Synthesizer struct {
	intake     domrepo.IntakeStore
	clearing   domrepo.ClearingStore
	settlement domrepo.SettlementStore
	metrics    domrepo.Metrics
	l          *applogger.Logger
}

func NewSynthesizer(
	intake domrepo.IntakeStore,
	clearing domrepo.ClearingStore,
	settlement domrepo.SettlementStore,
	metrics domrepo.Metrics,
	l *applogger.Logger,
) *Synthesizer {
	return &Synthesizer{
		intake:     intake,
		clearing:   clearing,
		settlement: settlement,
		metrics:    metrics,
		l:          l,
	}
}

// Synthesize builds the synthesis for w. Always returns a value; on any
// fetch failure the result is fully zeroed (rates 0, health CRITIQUE).
func (s *Synthesizer) Synthesize(ctx context.Context, w models.Window) models.SyntheseResult {
	start := time.Now()
	res, err := s.collect(ctx, w)
	if err != nil {
		if s.l != nil {
			s.l.Error("synthesis fetch failed, returning zeroed result", applogger.Error(err))
		}
		if s.metrics != nil {
			s.metrics.RecordStoreError("synthesis")
		}
		res = models.SyntheseResult{}
	}
	res.ComputeRates()
	if s.metrics != nil {
		s.metrics.RecordLatency("synthesize", time.Since(start).Seconds())
	}
	return res
}

func (s *Synthesizer) collect(ctx context.Context, w models.Window) (models.SyntheseResult, error) {
	var (
		res models.SyntheseResult
		err error
	)

	// Intake side.
	if res.TotalIntake, err = s.intake.Count(ctx, w, domrepo.IntakeFilter{}); err != nil {
		return res, fmt.Errorf("intake total: %w", err)
	}
	if res.IntakeValidated, err = s.intake.Count(ctx, w, domrepo.IntakeFilter{Validated: domrepo.BoolPtr(true)}); err != nil {
		return res, fmt.Errorf("intake validated: %w", err)
	}
	if res.IntakeWeb, err = s.intake.Count(ctx, w, domrepo.IntakeFilter{Origin: domrepo.OriginPtr(models.OriginWeb)}); err != nil {
		return res, fmt.Errorf("intake web: %w", err)
	}
	if res.IntakeInFlight, err = s.intake.Count(ctx, w, domrepo.IntakeFilter{Status: domrepo.RemiseStatusPtr(models.RemiseInProgress)}); err != nil {
		return res, fmt.Errorf("intake in flight: %w", err)
	}

	// Clearing side.
	if res.TotalClearing, err = s.clearing.Count(ctx, w, domrepo.ClearingFilter{}); err != nil {
		return res, fmt.Errorf("clearing total: %w", err)
	}
	if res.ClearingProcessed, err = s.clearing.Count(ctx, w, domrepo.ClearingFilter{Status: domrepo.ClearingStatusPtr(models.ClearingProcessed)}); err != nil {
		return res, fmt.Errorf("clearing processed: %w", err)
	}
	if res.ClearingToVerify, err = s.clearing.Count(ctx, w, domrepo.ClearingFilter{NeedsVerify: domrepo.BoolPtr(true)}); err != nil {
		return res, fmt.Errorf("clearing to verify: %w", err)
	}
	if res.ClearingElectronic, err = s.clearing.Count(ctx, w, domrepo.ClearingFilter{FileType: domrepo.FileTypePtr(models.FileElectronic)}); err != nil {
		return res, fmt.Errorf("clearing electronic: %w", err)
	}
	if res.ClearingManual, err = s.clearing.Count(ctx, w, domrepo.ClearingFilter{FileType: domrepo.FileTypePtr(models.FileManual)}); err != nil {
		return res, fmt.Errorf("clearing manual: %w", err)
	}

	// Settlement side.
	if res.TotalSettlement, err = s.settlement.Count(ctx, w, domrepo.SettlementFilter{}); err != nil {
		return res, fmt.Errorf("settlement total: %w", err)
	}
	if res.SettlementBalanced, err = s.settlement.Count(ctx, w, domrepo.SettlementFilter{Balanced: domrepo.BoolPtr(true)}); err != nil {
		return res, fmt.Errorf("settlement balanced: %w", err)
	}
	if res.SettlementDuplicates, err = s.settlement.Count(ctx, w, domrepo.SettlementFilter{Duplicate: domrepo.BoolPtr(true)}); err != nil {
		return res, fmt.Errorf("settlement duplicates: %w", err)
	}
	if res.SettlementNotReceived, err = s.settlement.Count(ctx, w, domrepo.SettlementFilter{NotReceived: domrepo.BoolPtr(true)}); err != nil {
		return res, fmt.Errorf("settlement not received: %w", err)
	}

	// Amounts.
	if res.AmountIntake, err = s.intake.SumAmount(ctx, w, domrepo.IntakeFilter{}); err != nil {
		return res, fmt.Errorf("intake amount: %w", err)
	}
	if res.AmountClearing, err = s.clearing.SumAmount(ctx, w, domrepo.ClearingFilter{}); err != nil {
		return res, fmt.Errorf("clearing amount: %w", err)
	}
	if res.AmountSettlement, err = s.settlement.SumAmount(ctx, w, domrepo.SettlementFilter{}); err != nil {
		return res, fmt.Errorf("settlement amount: %w", err)
	}

	return res, nil
}
