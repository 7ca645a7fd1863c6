package repository

import (
	"testing"
	"time"

	"ReconFlow/internal/domain/models"
	domrepo "ReconFlow/internal/domain/repository"

	"github.com/stretchr/testify/assert"
)

func testWindow() models.Window {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	return models.NewWindow(start, start.Add(24*time.Hour))
}

func TestIntakeWhereWindowOnly(t *testing.T) {
	w := testWindow()
	where, args := intakeWhere(w, domrepo.IntakeFilter{})

	assert.Equal(t, "created_at >= ? AND created_at <= ?", where)
	assert.Equal(t, []interface{}{w.Start, w.End}, args)
}

func TestIntakeWhereConjunction(t *testing.T) {
	w := testWindow()
	where, args := intakeWhere(w, domrepo.IntakeFilter{
		Nature:    domrepo.NaturePtr(models.NatureRemise),
		Validated: domrepo.BoolPtr(true),
		Generated: domrepo.BoolPtr(false),
	})

	assert.Equal(t,
		"created_at >= ? AND created_at <= ? AND nature = ? AND validated = ? AND generated = ?",
		where)
	assert.Equal(t, []interface{}{w.Start, w.End, "REMISE", uint8(1), uint8(0)}, args)
}

func TestClearingWhereConjunction(t *testing.T) {
	w := testWindow()
	where, args := clearingWhere(w, domrepo.ClearingFilter{
		Status:      domrepo.ClearingStatusPtr(models.ClearingProcessed),
		ImageStatus: domrepo.IntPtr(models.ImageStuck),
	})

	assert.Equal(t,
		"created_at >= ? AND created_at <= ? AND status = ? AND image_status = ?",
		where)
	assert.Equal(t, []interface{}{w.Start, w.End, "TRAITE", 3}, args)
}

func TestSettlementWhereConjunction(t *testing.T) {
	w := testWindow()
	where, args := settlementWhere(w, domrepo.SettlementFilter{
		Balanced:  domrepo.BoolPtr(true),
		Duplicate: domrepo.BoolPtr(true),
	})

	assert.Equal(t,
		"created_at >= ? AND created_at <= ? AND balanced = ? AND duplicate = ?",
		where)
	assert.Equal(t, []interface{}{w.Start, w.End, uint8(1), uint8(1)}, args)
}

func TestBoolArg(t *testing.T) {
	assert.Equal(t, uint8(1), boolArg(true))
	assert.Equal(t, uint8(0), boolArg(false))
}
