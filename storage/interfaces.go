package storage

import (
	"context"

	"github.com/Pxeba/GptMeliWhatsapp/core"
)

// DocumentRepository provides operations for the order document index.
// Implementations must be thread-safe: the response pipeline reads while
// an ingestion run writes, and a query during an in-flight run may observe
// a partially updated view.
type DocumentRepository interface {
	// AddDocuments adds one or more documents to storage.
	// Writes are upserts keyed by the document ID: re-adding a document
	// with the same ID replaces its contents and vector, preserving
	// InsertedAt. Returns the documents with timestamps populated.
	AddDocuments(ctx context.Context, documents ...*core.Document) ([]*core.Document, error)

	// GetDocument retrieves a single document by ID.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, id core.ID) (*core.Document, error)

	// GetDocuments retrieves multiple documents by their IDs.
	// Returns only the documents that exist (no error for missing documents).
	GetDocuments(ctx context.Context, ids ...core.ID) ([]*core.Document, error)

	// CountDocuments returns the number of documents in the index.
	CountDocuments(ctx context.Context) (int, error)

	// FindSimilar finds documents similar to the given vector.
	// Returns up to limit results, ordered by similarity score (highest first).
	FindSimilar(ctx context.Context, vector []float32, limit int) ([]*core.SearchResult, error)

	// Sync flushes pending writes to durable storage. Ingestion calls this
	// once at the end of a run rather than per document.
	Sync(ctx context.Context) error

	// Close closes the storage backend and releases resources.
	Close() error
}
