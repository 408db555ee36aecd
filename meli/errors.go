package meli

import "fmt"

// UpstreamError is a non-success response from the order source.
// It aborts the ingestion run and surfaces the upstream status and body.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("order source returned status %d: %s", e.StatusCode, e.Body)
}
