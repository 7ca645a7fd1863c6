package usecase

import (
	"context"
	"sync"
	"time"

	"ReconFlow/internal/domain/models"
	domrepo "ReconFlow/internal/domain/repository"
	applogger "ReconFlow/pkg/logger"
)

// Reconciler computes the combined intake+clearing view for a window and
// compares it against settlement. Stateless; safe for concurrent use.
type Reconciler struct {
	agg     *Aggregator
	metrics domrepo.Metrics
	l       *applogger.Logger
}

func NewReconciler(agg *Aggregator, metrics domrepo.Metrics, l *applogger.Logger) *Reconciler {
	return &Reconciler{agg: agg, metrics: metrics, l: l}
}

// Reconcile aggregates the three stages and derives the comparison. The
// three aggregations are independent, so they fan out concurrently and
// join before the derived fields are computed. Always returns a value;
// store failures surface as zeroed terms (see Aggregator).
//
// Stage predicates:
//   - intake: records both generated and back-office validated
//   - clearing: records with status TRAITE
//   - settlement: every record in the window (settlement rows are
//     completed round-trips by definition)
func (r *Reconciler) Reconcile(ctx context.Context, w models.Window) models.EquilibrageResult {
	start := time.Now()

	var (
		intake, clearing, settlement models.StageAggregate
		wg                           sync.WaitGroup
	)
	// Each stage runs in its own goroutine, so a recover here is the only
	// one that can catch a store panic; deferred recovers in the callers
	// never see it. A panicking stage leaves its aggregate at zero, same
	// as a failing one.
	fetch := func(stage string, dst *models.StageAggregate, aggregate func() models.StageAggregate) {
		defer wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				*dst = models.ZeroAggregate
				if r.l != nil {
					r.l.Error("stage aggregation panicked, substituting zero",
						applogger.String("stage", stage),
						applogger.Any("panic", rec),
					)
				}
				if r.metrics != nil {
					r.metrics.RecordStoreError(stage)
				}
			}
		}()
		*dst = aggregate()
	}
	wg.Add(3)
	go fetch("intake", &intake, func() models.StageAggregate {
		return r.agg.Intake(ctx, w, domrepo.IntakeFilter{
			Generated: domrepo.BoolPtr(true),
			Validated: domrepo.BoolPtr(true),
		})
	})
	go fetch("clearing", &clearing, func() models.StageAggregate {
		return r.agg.Clearing(ctx, w, domrepo.ClearingFilter{
			Status: domrepo.ClearingStatusPtr(models.ClearingProcessed),
		})
	})
	go fetch("settlement", &settlement, func() models.StageAggregate {
		return r.agg.Settlement(ctx, w, domrepo.SettlementFilter{})
	})
	wg.Wait()

	res := models.NewEquilibrageResult(intake, clearing, settlement)

	if r.metrics != nil {
		r.metrics.RecordReconciliation(string(res.Status()))
		r.metrics.RecordLatency("reconcile", time.Since(start).Seconds())
	}
	if r.l != nil && res.Status() != models.StatusBalanced {
		r.l.Warn("reconciliation mismatch",
			applogger.String("status", string(res.Status())),
			applogger.Int64("combined_count", res.CombinedCount()),
			applogger.Int64("count_settlement", res.CountSettlement),
			applogger.Any("amount_difference", res.AmountDifference),
		)
	}
	return res
}
