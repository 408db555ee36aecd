package badger

import (
	"context"
	"errors"
	"time"

	"github.com/Pxeba/GptMeliWhatsapp/core"
	"github.com/Pxeba/GptMeliWhatsapp/storage"
	"github.com/dgraph-io/badger/v4"
)

// DocumentRepository implements storage.DocumentRepository for BadgerDB.
type DocumentRepository struct {
	backend *Backend
}

var _ storage.DocumentRepository = (*DocumentRepository)(nil)

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(backend *Backend) (*DocumentRepository, error) {
	if backend == nil {
		return nil, errors.New("backend required")
	}
	return &DocumentRepository{backend: backend}, nil
}

// AddDocuments adds one or more documents to storage.
// Writes are upserts keyed by the document ID. A document whose ID already
// exists is replaced in place, keeping the original InsertedAt so repeated
// ingestion of an overlapping window never duplicates entries.
func (r *DocumentRepository) AddDocuments(ctx context.Context, documents ...*core.Document) ([]*core.Document, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, document := range documents {
			if err := core.ValidateDocument(document); err != nil {
				return err
			}
			if document.Id == 0 {
				document.Id = core.IDFromContent(document.Contents)
			}

			key := makeDocumentKey(document.Id)

			now := time.Now().UTC()
			old, err := r.readDocument(tx, key)
			if err != nil {
				return err
			}
			if old != nil {
				document.InsertedAt = old.InsertedAt
			} else {
				document.InsertedAt = now
			}
			document.UpdatedAt = now

			value, err := storage.MarshalDocument(document)
			if err != nil {
				return err
			}
			if err := tx.Set(key, value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	if err != nil {
		return nil, err
	}
	return documents, nil
}

// GetDocument retrieves a single document by ID.
func (r *DocumentRepository) GetDocument(ctx context.Context, id core.ID) (*core.Document, error) {
	var document *core.Document

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		document, err = r.readDocument(tx, makeDocumentKey(id))
		return err
	}, false)

	if err != nil {
		return nil, err
	}
	if document == nil {
		return nil, storage.ErrNotFound
	}
	return document, nil
}

// GetDocuments retrieves multiple documents by their IDs.
// Missing documents are skipped without error.
func (r *DocumentRepository) GetDocuments(ctx context.Context, ids ...core.ID) ([]*core.Document, error) {
	documents := make([]*core.Document, 0, len(ids))

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			document, err := r.readDocument(tx, makeDocumentKey(id))
			if err != nil {
				return err
			}
			if document != nil {
				documents = append(documents, document)
			}
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return documents, nil
}

// CountDocuments returns the number of documents in the index.
func (r *DocumentRepository) CountDocuments(ctx context.Context) (int, error) {
	count := 0

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(documentPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)

	if err != nil {
		return 0, err
	}
	return count, nil
}

// FindSimilar delegates to the backend.
func (r *DocumentRepository) FindSimilar(ctx context.Context, vector []float32, limit int) ([]*core.SearchResult, error) {
	return r.backend.FindSimilar(ctx, vector, limit)
}

// Sync delegates to the backend.
func (r *DocumentRepository) Sync(ctx context.Context) error {
	return r.backend.Sync()
}

// Close is a no-op; the backend owns the database lifecycle.
func (r *DocumentRepository) Close() error {
	return nil
}

// readDocument reads and deserializes a document by key.
// Returns nil (no error) if the key does not exist.
func (r *DocumentRepository) readDocument(tx *badger.Txn, key []byte) (*core.Document, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var document *core.Document
	err = item.Value(func(val []byte) error {
		var err error
		document, err = storage.UnmarshalDocument(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return document, nil
}
