package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"ReconFlow/internal/domain/models"
	domrepo "ReconFlow/internal/domain/repository"
	applogger "ReconFlow/pkg/logger"
)

// VerifyBacklogThreshold is the number of clearing records flagged for
// manual verification above which the backlog becomes an anomaly.
const VerifyBacklogThreshold = 10

// AnomalyDetector inspects a window for rule violations and risk
// conditions. Detect never returns an error: an unexpected failure inside
// a run is converted into a single CRITICAL SYSTEM_ERROR anomaly so the
// checks already computed are still reported.
type AnomalyDetector struct {
	agg        *Aggregator
	reconciler *Reconciler
	metrics    domrepo.Metrics
	l          *applogger.Logger
}

func NewAnomalyDetector(agg *Aggregator, reconciler *Reconciler, metrics domrepo.Metrics, l *applogger.Logger) *AnomalyDetector {
	return &AnomalyDetector{agg: agg, reconciler: reconciler, metrics: metrics, l: l}
}

// Detect runs the dashboard-level checks and returns anomalies ordered
// most severe first. Ties keep detection order.
func (d *AnomalyDetector) Detect(ctx context.Context, w models.Window) []models.Anomaly {
	return d.run(ctx, w, false)
}

// DetectSession runs the dashboard checks plus the session-level ones:
// duplicate settlement submissions and clearing images stuck in status 3.
func (d *AnomalyDetector) DetectSession(ctx context.Context, w models.Window) []models.Anomaly {
	return d.run(ctx, w, true)
}

func (d *AnomalyDetector) run(ctx context.Context, w models.Window, session bool) (anomalies []models.Anomaly) {
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			if d.l != nil {
				d.l.Error("anomaly detection run failed", applogger.Any("panic", rec))
			}
			anomalies = append(anomalies, models.NewAnomaly(
				models.CodeSystemError,
				fmt.Sprintf("Erreur lors de la detection d'anomalies: %v", rec),
				models.SeverityCritical,
			))
			sortBySeverity(anomalies)
		}
		if d.metrics != nil {
			for _, a := range anomalies {
				d.metrics.RecordAnomaly(string(a.Code), string(a.Severity))
			}
			d.metrics.RecordLatency("detect", time.Since(start).Seconds())
		}
	}()

	anomalies = append(anomalies, d.checkBalance(ctx, w)...)
	anomalies = append(anomalies, d.checkNotReceived(ctx, w)...)
	anomalies = append(anomalies, d.checkVerifyBacklog(ctx, w)...)
	if session {
		anomalies = append(anomalies, d.checkDuplicates(ctx, w)...)
		anomalies = append(anomalies, d.checkStuckImages(ctx, w)...)
	}

	sortBySeverity(anomalies)
	return anomalies
}

// checkBalance raises one CRITICAL anomaly per failed comparison.
func (d *AnomalyDetector) checkBalance(ctx context.Context, w models.Window) []models.Anomaly {
	res := d.reconciler.Reconcile(ctx, w)

	var out []models.Anomaly
	if !res.CountMatches {
		diff := res.CombinedCount() - res.CountSettlement
		out = append(out, models.NewAnomaly(
			models.CodeCountImbalance,
			fmt.Sprintf("Desequilibre detecte: %d vs %d (Difference: %d)",
				res.CombinedCount(), res.CountSettlement, diff),
			models.SeverityCritical,
		))
	}
	if !res.AmountMatches {
		out = append(out, models.NewAnomaly(
			models.CodeAmountImbalance,
			fmt.Sprintf("Desequilibre montant: %.2f", res.AmountDifference),
			models.SeverityCritical,
		))
	}
	return out
}

// checkNotReceived flags intake records generated upstream that never
// showed up as inbound clearing records.
func (d *AnomalyDetector) checkNotReceived(ctx context.Context, w models.Window) []models.Anomaly {
	generated := d.agg.CountIntake(ctx, w, domrepo.IntakeFilter{
		Generated: domrepo.BoolPtr(true),
	})
	received := d.agg.CountClearing(ctx, w, domrepo.ClearingFilter{
		Direction: domrepo.DirectionPtr(models.DirectionInbound),
	})
	missing := generated - received
	if missing <= 0 {
		return nil
	}
	return []models.Anomaly{models.NewAnomaly(
		models.CodeRecordsNotReceived,
		fmt.Sprintf("%d fichiers generes non parvenus au clearing", missing),
		models.SeverityAlert,
	)}
}

func (d *AnomalyDetector) checkVerifyBacklog(ctx context.Context, w models.Window) []models.Anomaly {
	backlog := d.agg.CountClearing(ctx, w, domrepo.ClearingFilter{
		NeedsVerify: domrepo.BoolPtr(true),
	})
	if backlog <= VerifyBacklogThreshold {
		return nil
	}
	return []models.Anomaly{models.NewAnomaly(
		models.CodeVerifyBacklog,
		fmt.Sprintf("%d cheques necessitent une verification", backlog),
		models.SeverityAttention,
	)}
}

func (d *AnomalyDetector) checkDuplicates(ctx context.Context, w models.Window) []models.Anomaly {
	dups := d.agg.CountSettlement(ctx, w, domrepo.SettlementFilter{
		Duplicate: domrepo.BoolPtr(true),
	})
	if dups <= 0 {
		return nil
	}
	return []models.Anomaly{models.NewAnomaly(
		models.CodeDuplicateRemises,
		fmt.Sprintf("%d remises soumises en double", dups),
		models.SeverityAlert,
	)}
}

func (d *AnomalyDetector) checkStuckImages(ctx context.Context, w models.Window) []models.Anomaly {
	stuck := d.agg.CountClearing(ctx, w, domrepo.ClearingFilter{
		ImageStatus: domrepo.IntPtr(models.ImageStuck),
	})
	if stuck <= 0 {
		return nil
	}
	return []models.Anomaly{models.NewAnomaly(
		models.CodeStuckImages,
		fmt.Sprintf("%d images bloquees en statut %d", stuck, models.ImageStuck),
		models.SeverityAttention,
	)}
}

// sortBySeverity orders most severe first, keeping detection order on ties.
func sortBySeverity(anomalies []models.Anomaly) {
	sort.SliceStable(anomalies, func(i, j int) bool {
		return anomalies[i].Priority() < anomalies[j].Priority()
	})
}
