package ingestion

import (
	"errors"
	"fmt"
)

var (
	// ErrOrderSourceRequired is returned when an order source is not provided.
	ErrOrderSourceRequired = errors.New("order source required")

	// ErrDocumentRepositoryRequired is returned when a document repository is not provided.
	ErrDocumentRepositoryRequired = errors.New("document repository required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrAccessTokenRequired is returned when an ingestion run is started
	// without an access token for the order source.
	ErrAccessTokenRequired = errors.New("access token required")
)

// ProcessingError is an unexpected failure while transforming or storing an
// order. It aborts the ingestion run; documents already appended stay in
// the index.
type ProcessingError struct {
	Err error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("order processing failed: %v", e.Err)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}
