package models

import "math"

// AmountTolerance is the fixed absolute allowance for amount comparison.
// Amounts within strictly less than one centime of each other are equal;
// this absorbs float rounding across the three stores.
const AmountTolerance = 0.01

// BalanceStatus classifies a reconciliation result.
type BalanceStatus string

const (
	StatusBalanced        BalanceStatus = "BALANCED"
	StatusAmountMismatch  BalanceStatus = "COUNT_OK_AMOUNT_MISMATCH"
	StatusCountMismatch   BalanceStatus = "AMOUNT_OK_COUNT_MISMATCH"
	StatusFullyUnbalanced BalanceStatus = "FULLY_UNBALANCED"
)

// EquilibrageResult is the outcome of comparing combined upstream totals
// (intake + clearing) against the settlement stage for one window.
// It is derived per query and never mutated.
type EquilibrageResult struct {
	CountIntake      int64   `json:"count_intake"`
	AmountIntake     float64 `json:"amount_intake"`
	CountClearing    int64   `json:"count_clearing"`
	AmountClearing   float64 `json:"amount_clearing"`
	CountSettlement  int64   `json:"count_settlement"`
	AmountSettlement float64 `json:"amount_settlement"`

	CountMatches     bool    `json:"count_matches"`
	AmountMatches    bool    `json:"amount_matches"`
	AmountDifference float64 `json:"amount_difference"`
}

// NewEquilibrageResult derives the comparison fields from the six raw totals.
func NewEquilibrageResult(intake, clearing, settlement StageAggregate) EquilibrageResult {
	combinedCount := intake.Count + clearing.Count
	combinedAmount := intake.Amount + clearing.Amount
	diff := combinedAmount - settlement.Amount
	return EquilibrageResult{
		CountIntake:      intake.Count,
		AmountIntake:     intake.Amount,
		CountClearing:    clearing.Count,
		AmountClearing:   clearing.Amount,
		CountSettlement:  settlement.Count,
		AmountSettlement: settlement.Amount,
		CountMatches:     combinedCount == settlement.Count,
		AmountMatches:    math.Abs(diff) < AmountTolerance,
		AmountDifference: diff,
	}
}

// CombinedCount is the upstream total compared against settlement.
func (r EquilibrageResult) CombinedCount() int64 {
	return r.CountIntake + r.CountClearing
}

// CombinedAmount is the upstream amount compared against settlement.
func (r EquilibrageResult) CombinedAmount() float64 {
	return r.AmountIntake + r.AmountClearing
}

// Status is a pure function of the two match booleans. A window with no
// activity anywhere matches trivially and is BALANCED; no activity is not
// an error.
func (r EquilibrageResult) Status() BalanceStatus {
	switch {
	case r.CountMatches && r.AmountMatches:
		return StatusBalanced
	case r.CountMatches:
		return StatusAmountMismatch
	case r.AmountMatches:
		return StatusCountMismatch
	default:
		return StatusFullyUnbalanced
	}
}
