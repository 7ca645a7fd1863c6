package repository

import (
	"context"

	"ReconFlow/internal/domain/models"
)

// Typed filters per stage. A nil field means the attribute is not
// constrained; set fields combine as a conjunction of equality tests.
// The engines never need range or pattern predicates.

// IntakeFilter constrains intake-stage aggregations.
type IntakeFilter struct {
	Nature    *models.IntakeNature
	Origin    *models.IntakeOrigin
	Status    *models.RemiseStatus
	ValueCode *models.ValueCode
	Validated *bool
	Generated *bool
}

// ClearingFilter constrains clearing-stage aggregations.
type ClearingFilter struct {
	Status           *models.ClearingStatus
	Direction        *models.Direction
	FileType         *models.FileType
	NeedsVerify      *bool
	SentToSettlement *bool
	BeforeSettlement *bool
	ImageStatus      *int
}

// SettlementFilter constrains settlement-stage aggregations.
type SettlementFilter struct {
	Balanced    *bool
	Duplicate   *bool
	NotReceived *bool
}

// IntakeStore aggregates over intake records by window and filter.
type IntakeStore interface {
	Count(ctx context.Context, w models.Window, f IntakeFilter) (int64, error)
	SumAmount(ctx context.Context, w models.Window, f IntakeFilter) (float64, error)
}

// ClearingStore aggregates over clearing records by window and filter.
type ClearingStore interface {
	Count(ctx context.Context, w models.Window, f ClearingFilter) (int64, error)
	SumAmount(ctx context.Context, w models.Window, f ClearingFilter) (float64, error)
}

// SettlementStore aggregates over settlement records by window and filter.
type SettlementStore interface {
	Count(ctx context.Context, w models.Window, f SettlementFilter) (int64, error)
	SumAmount(ctx context.Context, w models.Window, f SettlementFilter) (float64, error)
}

// Bool and enum pointer helpers for filter literals.

func BoolPtr(b bool) *bool { return &b }

func IntPtr(i int) *int { return &i }

func NaturePtr(n models.IntakeNature) *models.IntakeNature { return &n }

func OriginPtr(o models.IntakeOrigin) *models.IntakeOrigin { return &o }

func RemiseStatusPtr(s models.RemiseStatus) *models.RemiseStatus { return &s }

func ValueCodePtr(v models.ValueCode) *models.ValueCode { return &v }

func ClearingStatusPtr(s models.ClearingStatus) *models.ClearingStatus { return &s }

func DirectionPtr(d models.Direction) *models.Direction { return &d }

func FileTypePtr(t models.FileType) *models.FileType { return &t }
