package models

import "time"

// Display card DTOs consumed by the dashboard frontend. Formatting only;
// the numbers come from the same aggregations the engines use.

// RowStatus tints a card row.
type RowStatus string

const (
	RowSuccess RowStatus = "success"
	RowWarning RowStatus = "warning"
	RowDanger  RowStatus = "danger"
)

// DataRow is one labeled figure inside a card.
type DataRow struct {
	Label  string    `json:"label"`
	Value  string    `json:"value"`
	Detail string    `json:"detail,omitempty"`
	Status RowStatus `json:"status,omitempty"`
}

// StatCard groups related figures under a title.
type StatCard struct {
	Title string    `json:"title"`
	Icon  string    `json:"icon"`
	Type  string    `json:"type"`
	Data  []DataRow `json:"data"`
}

// DashboardResponse is the full card layout for one window.
type DashboardResponse struct {
	Window Window     `json:"window"`
	Cards  []StatCard `json:"cards"`
}

// PerformanceReport carries volume, quality and throughput figures for one
// window.
type PerformanceReport struct {
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`

	IntakeProcessed     int64 `json:"intake_processed"`
	ClearingProcessed   int64 `json:"clearing_processed"`
	SettlementProcessed int64 `json:"settlement_processed"`

	ErrorRate         float64 `json:"error_rate"`
	TotalAmount       float64 `json:"total_amount"`
	AvgIntakeAmount   float64 `json:"avg_intake_amount"`
	AvgClearingAmount float64 `json:"avg_clearing_amount"`
	IntakePerHour     float64 `json:"intake_per_hour"`
	ClearingPerHour   float64 `json:"clearing_per_hour"`
	GlobalScore       float64 `json:"global_score"`
}

// Score bands for the performance report, distinct from the synthesis bands.
const (
	scoreExcellentMin = 90
	scoreGoodMin      = 75
	scoreAverageMin   = 60
)

// ScoreLabel buckets the global score.
func (p *PerformanceReport) ScoreLabel() HealthLabel {
	switch {
	case p.GlobalScore >= scoreExcellentMin:
		return HealthExcellent
	case p.GlobalScore >= scoreGoodMin:
		return HealthGood
	case p.GlobalScore >= scoreAverageMin:
		return HealthAverage
	default:
		return HealthCritical
	}
}
