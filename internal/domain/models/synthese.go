package models

// Health labels for the overall success ratio, evaluated high to low.
type HealthLabel string

const (
	HealthExcellent HealthLabel = "EXCELLENT"
	HealthGood      HealthLabel = "BON"
	HealthAverage   HealthLabel = "MOYEN"
	HealthCritical  HealthLabel = "CRITIQUE"
)

// Bands for the overall ratio.
const (
	healthExcellentMin = 95
	healthGoodMin      = 80
	healthAverageMin   = 60
)

// Bottleneck names the stage with the lowest success ratio.
type Bottleneck string

const (
	BottleneckIntakeValidation   Bottleneck = "VALIDATION_REMISES"
	BottleneckClearingProcessing Bottleneck = "TRAITEMENT_CHEQUES"
	BottleneckSettlementBalance  Bottleneck = "EQUILIBRAGE_CTR"
)

// SyntheseResult carries per-stage totals, validated sub-counts and the
// derived success ratios for one window.
type SyntheseResult struct {
	TotalIntake     int64 `json:"total_intake"`
	IntakeValidated int64 `json:"intake_validated"`
	IntakeWeb       int64 `json:"intake_web"`
	IntakeInFlight  int64 `json:"intake_in_flight"`

	TotalClearing      int64 `json:"total_clearing"`
	ClearingProcessed  int64 `json:"clearing_processed"`
	ClearingToVerify   int64 `json:"clearing_to_verify"`
	ClearingElectronic int64 `json:"clearing_electronic"`
	ClearingManual     int64 `json:"clearing_manual"`

	TotalSettlement       int64 `json:"total_settlement"`
	SettlementBalanced    int64 `json:"settlement_balanced"`
	SettlementDuplicates  int64 `json:"settlement_duplicates"`
	SettlementNotReceived int64 `json:"settlement_not_received"`

	AmountIntake     float64 `json:"amount_intake"`
	AmountClearing   float64 `json:"amount_clearing"`
	AmountSettlement float64 `json:"amount_settlement"`

	IntakeValidationRate   float64 `json:"intake_validation_rate"`
	ClearingProcessingRate float64 `json:"clearing_processing_rate"`
	SettlementBalancedRate float64 `json:"settlement_balanced_rate"`
	OverallRate            float64 `json:"overall_rate"`
}

// ComputeRates derives the three stage ratios and their mean. A stage with
// zero records rates 0, never a division by zero.
func (s *SyntheseResult) ComputeRates() {
	s.IntakeValidationRate = rate(s.IntakeValidated, s.TotalIntake)
	s.ClearingProcessingRate = rate(s.ClearingProcessed, s.TotalClearing)
	s.SettlementBalancedRate = rate(s.SettlementBalanced, s.TotalSettlement)
	s.OverallRate = (s.IntakeValidationRate + s.ClearingProcessingRate + s.SettlementBalancedRate) / 3.0
}

// Health buckets the overall ratio; first matching band wins.
func (s *SyntheseResult) Health() HealthLabel {
	switch {
	case s.OverallRate >= healthExcellentMin:
		return HealthExcellent
	case s.OverallRate >= healthGoodMin:
		return HealthGood
	case s.OverallRate >= healthAverageMin:
		return HealthAverage
	default:
		return HealthCritical
	}
}

// Bottleneck returns the stage with the lowest ratio. Ties resolve in
// pipeline order: intake validation, then clearing, then settlement.
func (s *SyntheseResult) Bottleneck() Bottleneck {
	best := BottleneckIntakeValidation
	bestRate := s.IntakeValidationRate
	if s.ClearingProcessingRate < bestRate {
		best, bestRate = BottleneckClearingProcessing, s.ClearingProcessingRate
	}
	if s.SettlementBalancedRate < bestRate {
		best = BottleneckSettlementBalance
	}
	return best
}

func rate(part, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return float64(part) * 100.0 / float64(total)
}
