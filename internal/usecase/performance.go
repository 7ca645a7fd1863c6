package usecase

import (
	"context"
	"time"

	"ReconFlow/internal/domain/models"
	domrepo "ReconFlow/internal/domain/repository"
	applogger "ReconFlow/pkg/logger"
)

// PerformanceCalculator derives volume, quality and throughput figures for
// a window. Built on the fail-to-zero Aggregator; a broken store degrades
// individual figures rather than the report.
type PerformanceCalculator struct {
	agg *Aggregator
	l   *applogger.Logger
}

func NewPerformanceCalculator(agg *Aggregator, l *applogger.Logger) *PerformanceCalculator {
	return &PerformanceCalculator{agg: agg, l: l}
}

// Calculate builds the report for w.
func (p *PerformanceCalculator) Calculate(ctx context.Context, w models.Window) models.PerformanceReport {
	start := time.Now()
	report := models.PerformanceReport{
		PeriodStart: w.Start,
		PeriodEnd:   w.End,
	}

	intakeAll := p.agg.Intake(ctx, w, domrepo.IntakeFilter{})
	clearingAll := p.agg.Clearing(ctx, w, domrepo.ClearingFilter{})

	report.IntakeProcessed = p.agg.CountIntake(ctx, w, domrepo.IntakeFilter{
		Validated: domrepo.BoolPtr(true),
	})
	report.ClearingProcessed = p.agg.CountClearing(ctx, w, domrepo.ClearingFilter{
		Status: domrepo.ClearingStatusPtr(models.ClearingProcessed),
	})
	report.SettlementProcessed = p.agg.CountSettlement(ctx, w, domrepo.SettlementFilter{
		Balanced: domrepo.BoolPtr(true),
	})

	toVerify := p.agg.CountClearing(ctx, w, domrepo.ClearingFilter{
		NeedsVerify: domrepo.BoolPtr(true),
	})
	if clearingAll.Count > 0 {
		report.ErrorRate = float64(toVerify) * 100.0 / float64(clearingAll.Count)
	}

	report.TotalAmount = clearingAll.Amount
	if intakeAll.Count > 0 {
		report.AvgIntakeAmount = intakeAll.Amount / float64(intakeAll.Count)
	}
	if clearingAll.Count > 0 {
		report.AvgClearingAmount = clearingAll.Amount / float64(clearingAll.Count)
	}

	if hours := w.Hours(); hours > 0 {
		report.IntakePerHour = float64(intakeAll.Count) / float64(hours)
		report.ClearingPerHour = float64(clearingAll.Count) / float64(hours)
	}

	// Global score: processing quality penalized by the error rate.
	report.GlobalScore = 100.0 - report.ErrorRate
	if report.GlobalScore < 0 {
		report.GlobalScore = 0
	}

	if p.l != nil {
		p.l.Debug("performance report built",
			applogger.Int64("intake", intakeAll.Count),
			applogger.Int64("clearing", clearingAll.Count),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return report
}
