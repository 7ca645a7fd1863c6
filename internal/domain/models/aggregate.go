package models

// StageAggregate summarizes one stage under a filter over a window.
// Both fields are guaranteed non-null: the aggregator normalizes empty
// result sets and store failures to zeros before anything downstream
// computes with them.
type StageAggregate struct {
	Count  int64   `json:"count"`
	Amount float64 `json:"amount"`
}

// ZeroAggregate is the degraded value substituted on store failure.
var ZeroAggregate = StageAggregate{}
