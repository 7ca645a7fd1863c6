package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"ReconFlow/internal/domain/models"
	domrepo "ReconFlow/internal/domain/repository"
	pkgch "ReconFlow/pkg/clickhouse"
	applogger "ReconFlow/pkg/logger"
)

// Table names for the three stages.
const (
	IntakeTable     = "reconflow.intake_records"
	ClearingTable   = "reconflow.clearing_records"
	SettlementTable = "reconflow.settlement_records"
)

// CHIntakeStore implements IntakeStore backed by ClickHouse.
type CHIntakeStore struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewCHIntakeStore(ch *pkgch.Client) *CHIntakeStore {
	return &CHIntakeStore{db: ch.DB()}
}

// SetLogger injects a structured logger.
func (s *CHIntakeStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHIntakeStore) Count(ctx context.Context, w models.Window, f domrepo.IntakeFilter) (int64, error) {
	where, args := intakeWhere(w, f)
	return queryCount(ctx, s.db, s.l, IntakeTable, where, args)
}

func (s *CHIntakeStore) SumAmount(ctx context.Context, w models.Window, f domrepo.IntakeFilter) (float64, error) {
	where, args := intakeWhere(w, f)
	return querySum(ctx, s.db, s.l, IntakeTable, where, args)
}

// CHClearingStore implements ClearingStore backed by ClickHouse.
type CHClearingStore struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewCHClearingStore(ch *pkgch.Client) *CHClearingStore {
	return &CHClearingStore{db: ch.DB()}
}

func (s *CHClearingStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHClearingStore) Count(ctx context.Context, w models.Window, f domrepo.ClearingFilter) (int64, error) {
	where, args := clearingWhere(w, f)
	return queryCount(ctx, s.db, s.l, ClearingTable, where, args)
}

func (s *CHClearingStore) SumAmount(ctx context.Context, w models.Window, f domrepo.ClearingFilter) (float64, error) {
	where, args := clearingWhere(w, f)
	return querySum(ctx, s.db, s.l, ClearingTable, where, args)
}

// CHSettlementStore implements SettlementStore backed by ClickHouse.
type CHSettlementStore struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewCHSettlementStore(ch *pkgch.Client) *CHSettlementStore {
	return &CHSettlementStore{db: ch.DB()}
}

func (s *CHSettlementStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHSettlementStore) Count(ctx context.Context, w models.Window, f domrepo.SettlementFilter) (int64, error) {
	where, args := settlementWhere(w, f)
	return queryCount(ctx, s.db, s.l, SettlementTable, where, args)
}

func (s *CHSettlementStore) SumAmount(ctx context.Context, w models.Window, f domrepo.SettlementFilter) (float64, error) {
	where, args := settlementWhere(w, f)
	return querySum(ctx, s.db, s.l, SettlementTable, where, args)
}

// Filter to WHERE translation. Window bounds are inclusive on both ends.

func intakeWhere(w models.Window, f domrepo.IntakeFilter) (string, []interface{}) {
	conds := []string{"created_at >= ?", "created_at <= ?"}
	args := []interface{}{w.Start, w.End}
	if f.Nature != nil {
		conds = append(conds, "nature = ?")
		args = append(args, string(*f.Nature))
	}
	if f.Origin != nil {
		conds = append(conds, "origin = ?")
		args = append(args, string(*f.Origin))
	}
	if f.Status != nil {
		conds = append(conds, "status = ?")
		args = append(args, string(*f.Status))
	}
	if f.ValueCode != nil {
		conds = append(conds, "value_code = ?")
		args = append(args, string(*f.ValueCode))
	}
	if f.Validated != nil {
		conds = append(conds, "validated = ?")
		args = append(args, boolArg(*f.Validated))
	}
	if f.Generated != nil {
		conds = append(conds, "generated = ?")
		args = append(args, boolArg(*f.Generated))
	}
	return strings.Join(conds, " AND "), args
}

func clearingWhere(w models.Window, f domrepo.ClearingFilter) (string, []interface{}) {
	conds := []string{"created_at >= ?", "created_at <= ?"}
	args := []interface{}{w.Start, w.End}
	if f.Status != nil {
		conds = append(conds, "status = ?")
		args = append(args, string(*f.Status))
	}
	if f.Direction != nil {
		conds = append(conds, "direction = ?")
		args = append(args, string(*f.Direction))
	}
	if f.FileType != nil {
		conds = append(conds, "file_type = ?")
		args = append(args, string(*f.FileType))
	}
	if f.NeedsVerify != nil {
		conds = append(conds, "needs_verify = ?")
		args = append(args, boolArg(*f.NeedsVerify))
	}
	if f.SentToSettlement != nil {
		conds = append(conds, "sent_to_settlement = ?")
		args = append(args, boolArg(*f.SentToSettlement))
	}
	if f.BeforeSettlement != nil {
		conds = append(conds, "before_settlement = ?")
		args = append(args, boolArg(*f.BeforeSettlement))
	}
	if f.ImageStatus != nil {
		conds = append(conds, "image_status = ?")
		args = append(args, *f.ImageStatus)
	}
	return strings.Join(conds, " AND "), args
}

func settlementWhere(w models.Window, f domrepo.SettlementFilter) (string, []interface{}) {
	conds := []string{"created_at >= ?", "created_at <= ?"}
	args := []interface{}{w.Start, w.End}
	if f.Balanced != nil {
		conds = append(conds, "balanced = ?")
		args = append(args, boolArg(*f.Balanced))
	}
	if f.Duplicate != nil {
		conds = append(conds, "duplicate = ?")
		args = append(args, boolArg(*f.Duplicate))
	}
	if f.NotReceived != nil {
		conds = append(conds, "not_received = ?")
		args = append(args, boolArg(*f.NotReceived))
	}
	return strings.Join(conds, " AND "), args
}

func queryCount(ctx context.Context, db *sql.DB, l *applogger.Logger, table, where string, args []interface{}) (int64, error) {
	start := time.Now()
	q := fmt.Sprintf("SELECT count() FROM %s WHERE %s", table, where)
	var n int64
	if err := db.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		if l != nil {
			l.Error("clickhouse count query error",
				applogger.String("table", table),
				applogger.Error(err),
			)
		}
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	if l != nil {
		l.Debug("clickhouse count ok",
			applogger.String("table", table),
			applogger.Int64("count", n),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return n, nil
}

func querySum(ctx context.Context, db *sql.DB, l *applogger.Logger, table, where string, args []interface{}) (float64, error) {
	start := time.Now()
	// ifNull guards the empty result set; amounts themselves are non-null
	// by schema but legacy imports carried nulls.
	q := fmt.Sprintf("SELECT ifNull(sum(amount), 0) FROM %s WHERE %s", table, where)
	var sum sql.NullFloat64
	if err := db.QueryRowContext(ctx, q, args...).Scan(&sum); err != nil {
		if l != nil {
			l.Error("clickhouse sum query error",
				applogger.String("table", table),
				applogger.Error(err),
			)
		}
		return 0, fmt.Errorf("sum %s: %w", table, err)
	}
	if l != nil {
		l.Debug("clickhouse sum ok",
			applogger.String("table", table),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	if !sum.Valid {
		return 0, nil
	}
	return sum.Float64, nil
}

func boolArg(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
