package api

// ErrorResponse carries a client-visible error, optionally with upstream
// details when an ingestion run failed against the order source.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// StatusResponse is the generic acknowledgment body.
type StatusResponse struct {
	Status string `json:"status"`
}

// HealthResponse reports process liveness.
type HealthResponse struct {
	Status string `json:"status"`
}

// IngestResponse reports the outcome of an ingestion run.
type IngestResponse struct {
	Status      string `json:"status"`
	OrdersCount int    `json:"orders_count"`
}

func NewErrorResponse(msg string) ErrorResponse {
	return ErrorResponse{Error: msg}
}

func NewStatusResponse(status string) StatusResponse {
	return StatusResponse{Status: status}
}

func NewHealthResponse(status string) HealthResponse {
	return HealthResponse{Status: status}
}

func NewIngestResponse(status string, count int) IngestResponse {
	return IngestResponse{Status: status, OrdersCount: count}
}
