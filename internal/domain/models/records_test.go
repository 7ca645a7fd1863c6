package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntakeRecordValidate(t *testing.T) {
	r := IntakeRecord{
		Reference: "R-1",
		Nature:    NatureRemise,
		Origin:    OriginWeb,
		Status:    RemiseValidated,
		ValueCode: BeforeSettlementCode,
		Amount:    120.50,
	}
	assert.NoError(t, r.Validate())

	r.Nature = "UNKNOWN"
	assert.Error(t, r.Validate())

	r.Nature = NatureFichier
	r.Amount = -1
	assert.Error(t, r.Validate())
}

func TestIntakeRecordValidateAllowsUnsetEnums(t *testing.T) {
	r := IntakeRecord{Reference: "R-2", Amount: 10}
	assert.NoError(t, r.Validate())
}

func TestClearingRecordValidate(t *testing.T) {
	r := ClearingRecord{
		Reference:   "C-1",
		Status:      ClearingProcessed,
		Direction:   DirectionInbound,
		FileType:    FileElectronic,
		ImageStatus: ImageProcessed,
		Amount:      45,
	}
	assert.NoError(t, r.Validate())

	r.ImageStatus = ImageStuck + 1
	assert.Error(t, r.Validate())

	r.ImageStatus = ImageStuck
	r.Direction = "LATERAL"
	assert.Error(t, r.Validate())
}

func TestSettlementRecordValidate(t *testing.T) {
	r := SettlementRecord{Reference: "S-1", Balanced: true, Amount: 99.9}
	assert.NoError(t, r.Validate())

	r.Amount = -0.01
	assert.Error(t, r.Validate())
}
