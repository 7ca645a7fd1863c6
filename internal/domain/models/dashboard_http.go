package models

// Requests for dashboard HTTP endpoints. Defined in domain for consistency and reuse.

// WindowRequest scopes an engine call. From/To accept RFC3339 or unix
// seconds; both empty means the current day.
type WindowRequest struct {
	From string `query:"from" json:"from" validate:"omitempty,max=64"`
	To   string `query:"to" json:"to" validate:"omitempty,max=64"`
}

// AnomaliesRequest selects between the dashboard and session detector runs.
type AnomaliesRequest struct {
	From    string `query:"from" json:"from" validate:"omitempty,max=64"`
	To      string `query:"to" json:"to" validate:"omitempty,max=64"`
	Session bool   `query:"session" json:"session"`
}
