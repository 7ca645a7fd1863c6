package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"ReconFlow/internal/domain/models"
	domrepo "ReconFlow/internal/domain/repository"
	applogger "ReconFlow/pkg/logger"
)

// DashboardBuilder assembles the stat-card layout for one window. Pure
// formatting over Aggregator and Reconciler output; a failing store shows
// up as degraded zeros in the affected card, never as a missing page.
type DashboardBuilder struct {
	agg        *Aggregator
	reconciler *Reconciler
	l          *applogger.Logger
}

func NewDashboardBuilder(agg *Aggregator, reconciler *Reconciler, l *applogger.Logger) *DashboardBuilder {
	return &DashboardBuilder{agg: agg, reconciler: reconciler, l: l}
}

// Build assembles all cards for w.
func (b *DashboardBuilder) Build(ctx context.Context, w models.Window) models.DashboardResponse {
	start := time.Now()
	resp := models.DashboardResponse{
		Window: w,
		Cards: []models.StatCard{
			b.intakeCard(ctx, w),
			b.generatedCard(ctx, w),
			b.clearingCard(ctx, w),
			b.beforeSettlementCard(ctx, w),
			b.settlementCard(ctx, w),
			b.controlsCard(ctx, w),
		},
	}
	if b.l != nil {
		b.l.Debug("dashboard built",
			applogger.Int("cards", len(resp.Cards)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return resp
}

// intakeCard shows validated intake files and created remises.
func (b *DashboardBuilder) intakeCard(ctx context.Context, w models.Window) models.StatCard {
	validated := b.agg.Intake(ctx, w, domrepo.IntakeFilter{
		Validated: domrepo.BoolPtr(true),
	})
	remises := b.agg.Intake(ctx, w, domrepo.IntakeFilter{
		Nature: domrepo.NaturePtr(models.NatureRemise),
	})
	return models.StatCard{
		Title: "Encaisse valeur",
		Icon:  "fas fa-globe",
		Type:  "success",
		Data: []models.DataRow{
			row("Fichiers valides", validated, models.RowSuccess),
			row("Remises creees", remises, ""),
		},
	}
}

// generatedCard shows what the intake stage generated downstream.
func (b *DashboardBuilder) generatedCard(ctx context.Context, w models.Window) models.StatCard {
	remises := b.agg.Intake(ctx, w, domrepo.IntakeFilter{
		Nature:    domrepo.NaturePtr(models.NatureRemise),
		Generated: domrepo.BoolPtr(true),
		Validated: domrepo.BoolPtr(true),
	})
	files := b.agg.Intake(ctx, w, domrepo.IntakeFilter{
		Generated: domrepo.BoolPtr(true),
		Validated: domrepo.BoolPtr(true),
	})
	return models.StatCard{
		Title: "Fichiers generes par encaisse",
		Icon:  "fas fa-cogs",
		Type:  "default",
		Data: []models.DataRow{
			row("Remises generees validees", remises, models.RowSuccess),
			row("Fichiers generes et valides", files, models.RowSuccess),
		},
	}
}

// clearingCard shows processed and consumed clearing records.
func (b *DashboardBuilder) clearingCard(ctx context.Context, w models.Window) models.StatCard {
	processed := b.agg.Clearing(ctx, w, domrepo.ClearingFilter{
		Status: domrepo.ClearingStatusPtr(models.ClearingProcessed),
	})
	inbound := b.agg.Clearing(ctx, w, domrepo.ClearingFilter{
		Direction: domrepo.DirectionPtr(models.DirectionInbound),
	})
	toSettlement := b.agg.Clearing(ctx, w, domrepo.ClearingFilter{
		SentToSettlement: domrepo.BoolPtr(true),
		Status:           domrepo.ClearingStatusPtr(models.ClearingProcessed),
	})
	return models.StatCard{
		Title: "Fichiers clearing",
		Icon:  "fas fa-server",
		Type:  "default",
		Data: []models.DataRow{
			row("Fichiers traites", processed, models.RowSuccess),
			row("Total consommes", inbound, ""),
			row("Generes vers settlement valides", toSettlement, models.RowSuccess),
		},
	}
}

// beforeSettlementCard shows clearing records waiting on settlement.
func (b *DashboardBuilder) beforeSettlementCard(ctx context.Context, w models.Window) models.StatCard {
	remises := b.agg.Clearing(ctx, w, domrepo.ClearingFilter{
		BeforeSettlement: domrepo.BoolPtr(true),
		FileType:         domrepo.FileTypePtr(models.FileElectronic),
	})
	manual := b.agg.Clearing(ctx, w, domrepo.ClearingFilter{
		BeforeSettlement: domrepo.BoolPtr(true),
		FileType:         domrepo.FileTypePtr(models.FileManual),
	})
	return models.StatCard{
		Title: "Clearing avant settlement",
		Icon:  "fas fa-exchange-alt",
		Type:  "warning",
		Data: []models.DataRow{
			row("Electroniques en attente", remises, ""),
			row("Manuels en attente", manual, ""),
		},
	}
}

// settlementCard shows the settlement stage totals.
func (b *DashboardBuilder) settlementCard(ctx context.Context, w models.Window) models.StatCard {
	all := b.agg.Settlement(ctx, w, domrepo.SettlementFilter{})
	balanced := b.agg.Settlement(ctx, w, domrepo.SettlementFilter{
		Balanced: domrepo.BoolPtr(true),
	})
	afterIntake := b.agg.Intake(ctx, w, domrepo.IntakeFilter{
		Nature:    domrepo.NaturePtr(models.NatureRemise),
		ValueCode: domrepo.ValueCodePtr(models.AfterSettlementCode),
	})
	return models.StatCard{
		Title: "Settlement",
		Icon:  "fas fa-copy",
		Type:  "default",
		Data: []models.DataRow{
			row("Total settlement", all, ""),
			row("Equilibres", balanced, models.RowSuccess),
			row("Remises traitees", afterIntake, ""),
		},
	}
}

// controlsCard carries the reconciliation verdict and its terms.
func (b *DashboardBuilder) controlsCard(ctx context.Context, w models.Window) models.StatCard {
	res := b.reconciler.Reconcile(ctx, w)
	diff := res.CombinedCount() - res.CountSettlement

	verdict := models.DataRow{Label: "Equilibrage intake+clearing / settlement"}
	if res.Status() == models.StatusBalanced {
		verdict.Value = fmt.Sprintf("Equilibre (%d = %d)", res.CombinedCount(), res.CountSettlement)
		verdict.Status = models.RowSuccess
	} else {
		verdict.Value = fmt.Sprintf("Desequilibre (%d vs %d)", res.CombinedCount(), res.CountSettlement)
		verdict.Status = models.RowWarning
	}
	verdict.Detail = fmt.Sprintf("Difference: %d", diff)

	data := []models.DataRow{
		verdict,
		row("Fichiers generes", models.StageAggregate{Count: res.CountIntake, Amount: res.AmountIntake}, ""),
		row("Clearing traites", models.StageAggregate{Count: res.CountClearing, Amount: res.AmountClearing}, ""),
		row("Total settlement", models.StageAggregate{Count: res.CountSettlement, Amount: res.AmountSettlement}, ""),
	}
	if diff > 0 {
		data = append(data, models.DataRow{
			Label:  "Fichiers non parvenus au settlement",
			Value:  strconv.FormatInt(diff, 10),
			Status: models.RowWarning,
		})
	} else if diff < 0 {
		data = append(data, models.DataRow{
			Label:  "Elements settlement en exces",
			Value:  strconv.FormatInt(-diff, 10),
			Status: models.RowWarning,
		})
	}

	return models.StatCard{
		Title: "Actions et controles",
		Icon:  "fas fa-tools",
		Type:  "default",
		Data:  data,
	}
}

func row(label string, agg models.StageAggregate, status models.RowStatus) models.DataRow {
	return models.DataRow{
		Label:  label,
		Value:  strconv.FormatInt(agg.Count, 10),
		Detail: formatAmount(agg.Amount),
		Status: status,
	}
}

// formatAmount renders a currency amount in dinars.
func formatAmount(v float64) string {
	if v == 0 {
		return "0 DT"
	}
	return fmt.Sprintf("%.2f DT", v)
}
