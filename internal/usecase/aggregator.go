package usecase

import (
	"context"
	"time"

	"ReconFlow/internal/domain/models"
	domrepo "ReconFlow/internal/domain/repository"
	applogger "ReconFlow/pkg/logger"
)

// Aggregator pulls count/sum pairs from the stage stores and normalizes
// them into StageAggregate values. Every call fails to zero: the dashboard
// is rendered from dozens of aggregations and one broken query must degrade
// its own number, not blank the page. Failures are logged and counted.
type Aggregator struct {
	intake     domrepo.IntakeStore
	clearing   domrepo.ClearingStore
	settlement domrepo.SettlementStore
	metrics    domrepo.Metrics
	l          *applogger.Logger
}

func NewAggregator(
	intake domrepo.IntakeStore,
	clearing domrepo.ClearingStore,
	settlement domrepo.SettlementStore,
	metrics domrepo.Metrics,
	l *applogger.Logger,
) *Aggregator {
	return &Aggregator{
		intake:     intake,
		clearing:   clearing,
		settlement: settlement,
		metrics:    metrics,
		l:          l,
	}
}

// Intake aggregates the intake stage under f. Returns zeros on store failure.
func (a *Aggregator) Intake(ctx context.Context, w models.Window, f domrepo.IntakeFilter) models.StageAggregate {
	start := time.Now()
	count, err := a.intake.Count(ctx, w, f)
	if err != nil {
		a.failSoft("intake", "count", err)
		return models.ZeroAggregate
	}
	sum, err := a.intake.SumAmount(ctx, w, f)
	if err != nil {
		a.failSoft("intake", "sum", err)
		return models.ZeroAggregate
	}
	if a.metrics != nil {
		a.metrics.RecordLatency("aggregate_intake", time.Since(start).Seconds())
	}
	return models.StageAggregate{Count: count, Amount: sum}
}

// Clearing aggregates the clearing stage under f. Returns zeros on store failure.
func (a *Aggregator) Clearing(ctx context.Context, w models.Window, f domrepo.ClearingFilter) models.StageAggregate {
	start := time.Now()
	count, err := a.clearing.Count(ctx, w, f)
	if err != nil {
		a.failSoft("clearing", "count", err)
		return models.ZeroAggregate
	}
	sum, err := a.clearing.SumAmount(ctx, w, f)
	if err != nil {
		a.failSoft("clearing", "sum", err)
		return models.ZeroAggregate
	}
	if a.metrics != nil {
		a.metrics.RecordLatency("aggregate_clearing", time.Since(start).Seconds())
	}
	return models.StageAggregate{Count: count, Amount: sum}
}

// Settlement aggregates the settlement stage under f. Returns zeros on store failure.
func (a *Aggregator) Settlement(ctx context.Context, w models.Window, f domrepo.SettlementFilter) models.StageAggregate {
	start := time.Now()
	count, err := a.settlement.Count(ctx, w, f)
	if err != nil {
		a.failSoft("settlement", "count", err)
		return models.ZeroAggregate
	}
	sum, err := a.settlement.SumAmount(ctx, w, f)
	if err != nil {
		a.failSoft("settlement", "sum", err)
		return models.ZeroAggregate
	}
	if a.metrics != nil {
		a.metrics.RecordLatency("aggregate_settlement", time.Since(start).Seconds())
	}
	return models.StageAggregate{Count: count, Amount: sum}
}

// CountIntake returns only the count side of an intake aggregation, zero on failure.
func (a *Aggregator) CountIntake(ctx context.Context, w models.Window, f domrepo.IntakeFilter) int64 {
	count, err := a.intake.Count(ctx, w, f)
	if err != nil {
		a.failSoft("intake", "count", err)
		return 0
	}
	return count
}

// CountClearing returns only the count side of a clearing aggregation, zero on failure.
func (a *Aggregator) CountClearing(ctx context.Context, w models.Window, f domrepo.ClearingFilter) int64 {
	count, err := a.clearing.Count(ctx, w, f)
	if err != nil {
		a.failSoft("clearing", "count", err)
		return 0
	}
	return count
}

// CountSettlement returns only the count side of a settlement aggregation, zero on failure.
func (a *Aggregator) CountSettlement(ctx context.Context, w models.Window, f domrepo.SettlementFilter) int64 {
	count, err := a.settlement.Count(ctx, w, f)
	if err != nil {
		a.failSoft("settlement", "count", err)
		return 0
	}
	return count
}

func (a *Aggregator) failSoft(stage, op string, err error) {
	if a.l != nil {
		a.l.Warn("store aggregation failed, substituting zero",
			applogger.String("stage", stage),
			applogger.String("op", op),
			applogger.Error(err),
		)
	}
	if a.metrics != nil {
		a.metrics.RecordStoreError(stage)
	}
}
