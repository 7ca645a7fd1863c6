package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"ReconFlow/internal/domain/models"
	"ReconFlow/internal/domain/repository"
)

// ClickHouseRecordWriter implements RecordWriter with multi-row VALUES
// inserts, chunked to bound statement size.
type ClickHouseRecordWriter struct {
	db *sql.DB
}

const writerChunkSize = 2000

func NewClickHouseRecordWriter(db *sql.DB) repository.RecordWriter {
	return &ClickHouseRecordWriter{db: db}
}

func (w *ClickHouseRecordWriter) StoreIntakeBatch(ctx context.Context, records []*models.IntakeRecord) error {
	if len(records) == 0 {
		return nil
	}
	for start := 0; start < len(records); start += writerChunkSize {
		end := min(start+writerChunkSize, len(records))
		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*9)
		for _, r := range records[start:end] {
			if r == nil || r.Reference == "" {
				continue
			}
			values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?)")
			args = append(args,
				r.Reference,
				string(r.Nature),
				string(r.Origin),
				string(r.Status),
				string(r.ValueCode),
				boolArg(r.Validated),
				boolArg(r.Generated),
				r.Amount,
				r.CreatedAt,
			)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf(
			"INSERT INTO %s (reference, nature, origin, status, value_code, validated, generated, amount, created_at) VALUES %s",
			IntakeTable, strings.Join(values, ","))
		if _, err := w.db.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("insert intake records: %w", err)
		}
	}
	return nil
}

func (w *ClickHouseRecordWriter) StoreClearingBatch(ctx context.Context, records []*models.ClearingRecord) error {
	if len(records) == 0 {
		return nil
	}
	for start := 0; start < len(records); start += writerChunkSize {
		end := min(start+writerChunkSize, len(records))
		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*10)
		for _, r := range records[start:end] {
			if r == nil || r.Reference == "" {
				continue
			}
			values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
			args = append(args,
				r.Reference,
				string(r.Status),
				string(r.Direction),
				string(r.FileType),
				boolArg(r.NeedsVerify),
				boolArg(r.SentToSettlement),
				boolArg(r.BeforeSettlement),
				uint8(r.ImageStatus),
				r.Amount,
				r.CreatedAt,
			)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf(
			"INSERT INTO %s (reference, status, direction, file_type, needs_verify, sent_to_settlement, before_settlement, image_status, amount, created_at) VALUES %s",
			ClearingTable, strings.Join(values, ","))
		if _, err := w.db.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("insert clearing records: %w", err)
		}
	}
	return nil
}

func (w *ClickHouseRecordWriter) StoreSettlementBatch(ctx context.Context, records []*models.SettlementRecord) error {
	if len(records) == 0 {
		return nil
	}
	for start := 0; start < len(records); start += writerChunkSize {
		end := min(start+writerChunkSize, len(records))
		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*6)
		for _, r := range records[start:end] {
			if r == nil || r.Reference == "" {
				continue
			}
			values = append(values, "(?, ?, ?, ?, ?, ?)")
			args = append(args,
				r.Reference,
				boolArg(r.Balanced),
				boolArg(r.Duplicate),
				boolArg(r.NotReceived),
				r.Amount,
				r.CreatedAt,
			)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf(
			"INSERT INTO %s (reference, balanced, duplicate, not_received, amount, created_at) VALUES %s",
			SettlementTable, strings.Join(values, ","))
		if _, err := w.db.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("insert settlement records: %w", err)
		}
	}
	return nil
}

func (w *ClickHouseRecordWriter) Health(ctx context.Context) error {
	return w.db.PingContext(ctx)
}
