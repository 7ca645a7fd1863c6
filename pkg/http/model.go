package http

// APIResponse is the uniform envelope every endpoint writes. Status
// mirrors the HTTP code so polling clients can inspect the body alone.
type APIResponse struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ValidationError describes one rejected request field.
type ValidationError struct {
	Code    string                 `json:"code,omitempty"`
	Field   string                 `json:"field,omitempty"`
	Message string                 `json:"message,omitempty"`
	Params  map[string]interface{} `json:"params,omitempty"`
}

// ListDataResponse wraps list payloads with the pre-truncation total.
type ListDataResponse struct {
	Rows  interface{} `json:"rows"`
	Total int64       `json:"total"`
}
