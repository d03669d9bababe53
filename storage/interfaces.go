package storage

import (
	"context"

	"github.com/campusloop/unibot/core"
)

// DocumentRepository provides append-only storage and similarity search over
// documents. Implementations must be thread-safe: insertions are serialized
// per physical store while searches may run concurrently, and a search never
// observes a partially written record.
type DocumentRepository interface {
	// AddDocuments appends one or more documents to the index.
	// IDs are derived from each document's identity key and InsertedAt is
	// populated. There is no deduplication by URL: repeated scrapes of one
	// URL accumulate distinct records.
	// The first insertion pins the index's vector dimensionality; a later
	// insertion with a different dimension rebuilds the index from scratch.
	AddDocuments(ctx context.Context, docs ...*core.Document) ([]*core.Document, error)

	// GetDocument retrieves a single document by ID.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, id core.ID) (*core.Document, error)

	// GetDocuments retrieves multiple documents by their IDs.
	// Returns only the documents that exist (no error for missing documents).
	GetDocuments(ctx context.Context, ids ...core.ID) ([]*core.Document, error)

	// AllDocuments returns every document in the index, in unspecified
	// order. Intended for maintenance operations like re-embedding, not
	// for serving queries.
	AllDocuments(ctx context.Context) ([]*core.Document, error)

	// CountDocuments returns the number of documents in the index.
	CountDocuments(ctx context.Context) (int, error)

	// Dimension returns the pinned vector dimensionality, or 0 when the
	// index is empty.
	Dimension(ctx context.Context) (int, error)

	// FindSimilar finds documents similar to the given vector.
	// Returns documents with cosine similarity >= minScore, up to limit
	// results, ordered by descending score with ties broken by more-recent
	// retrieval timestamp. A non-nil topic restricts results to documents
	// carrying that topic. An empty index returns an empty list, not an
	// error.
	FindSimilar(ctx context.Context, vector []float32, minScore float32, limit int, topic *core.Topic) ([]*core.SearchResult, error)

	// Clear removes all documents and resets the pinned dimensionality.
	Clear(ctx context.Context) error

	// Close closes the storage backend and releases resources.
	Close() error
}
