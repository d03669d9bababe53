package badger

import (
	"context"
	"time"

	"github.com/campusloop/unibot/core"
	"github.com/campusloop/unibot/storage"
	"github.com/dgraph-io/badger/v4"
	"github.com/mus-format/mus-go/varint"
)

// DocumentRepository implements storage.DocumentRepository for BadgerDB.
type DocumentRepository struct {
	backend *Backend
}

var _ storage.DocumentRepository = (*DocumentRepository)(nil)

// NewDocumentRepository creates a new DocumentRepository.
//
// Returns storage.DocumentRepository interface to enforce abstraction.
func NewDocumentRepository(backend *Backend) (storage.DocumentRepository, error) {
	if backend == nil {
		return nil, storage.ErrStorageClosed
	}
	return &DocumentRepository{backend: backend}, nil
}

// Close is a no-op; the backend owns the database lifecycle.
func (r *DocumentRepository) Close() error {
	return nil
}

// AddDocuments appends one or more documents to the index.
func (r *DocumentRepository) AddDocuments(ctx context.Context, docs ...*core.Document) ([]*core.Document, error) {
	if len(docs) == 0 {
		return nil, nil
	}

	for _, doc := range docs {
		if err := core.ValidateDocument(doc); err != nil {
			return nil, err
		}
		if len(doc.Vector) == 0 {
			return nil, storage.ErrEmptyVector
		}
	}

	// Dimension is pinned by the first insertion. A different dimension
	// means the embedding model changed: the index is rebuilt from scratch
	// because no mixed-dimension state is permitted.
	if err := r.reconcileDimension(len(docs[0].Vector)); err != nil {
		return nil, err
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		dim := len(docs[0].Vector)
		for _, doc := range docs {
			if len(doc.Vector) != dim {
				return storage.ErrDimensionMismatch
			}

			doc.Id = core.IDFromContent(doc.IdentityKey())
			doc.InsertedAt = time.Now().UTC()

			key := makeDocumentKey(doc.Id)
			value := storage.MarshalDocument(doc)
			if err := tx.Set(key, value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return docs, err
}

// GetDocument retrieves a single document by ID.
func (r *DocumentRepository) GetDocument(ctx context.Context, id core.ID) (*core.Document, error) {
	var doc *core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		doc, err = r.readDocument(tx, makeDocumentKey(id))
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, storage.ErrNotFound
	}
	return doc, nil
}

// GetDocuments retrieves multiple documents by their IDs.
// Missing documents are silently omitted.
func (r *DocumentRepository) GetDocuments(ctx context.Context, ids ...core.ID) ([]*core.Document, error) {
	docs := make([]*core.Document, 0, len(ids))
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			doc, err := r.readDocument(tx, makeDocumentKey(id))
			if err != nil {
				return err
			}
			if doc != nil {
				docs = append(docs, doc)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// AllDocuments returns every document in the index.
func (r *DocumentRepository) AllDocuments(ctx context.Context) ([]*core.Document, error) {
	var docs []*core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(documentPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				doc, err := storage.UnmarshalDocument(val)
				if err != nil {
					return err
				}
				docs = append(docs, doc)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return docs, nil
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

// Dimension returns the pinned vector dimensionality, or 0 when unset.
func (r *DocumentRepository) Dimension(ctx context.Context) (int, error) {
	return r.readDimension()
}

// FindSimilar delegates to the backend.
func (r *DocumentRepository) FindSimilar(ctx context.Context, vector []float32, minScore float32, limit int, topic *core.Topic) ([]*core.SearchResult, error) {
	return r.backend.FindSimilar(ctx, vector, minScore, limit, topic)
}

// Clear removes all documents and resets the pinned dimensionality.
func (r *DocumentRepository) Clear(ctx context.Context) error {
	return r.backend.DropAll()
}

func (r *DocumentRepository) readDocument(tx *badger.Txn, key []byte) (*core.Document, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var doc *core.Document
	err = item.Value(func(val []byte) error {
		var err error
		doc, err = storage.UnmarshalDocument(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *DocumentRepository) readDimension() (int, error) {
	dim := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(dimensionMetaKey))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}
		return item.Value(func(val []byte) error {
			d, _, err := varint.Int.Unmarshal(val)
			if err != nil {
				return err
			}
			dim = d
			return nil
		})
	}, false)
	return dim, err
}

func (r *DocumentRepository) writeDimension(dim int) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		buf := make([]byte, varint.Int.Size(dim))
		varint.Int.Marshal(dim, buf)
		if err := tx.Set([]byte(dimensionMetaKey), buf); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// reconcileDimension pins dim on first use and rebuilds the store when the
// incoming dimension differs from the pinned one.
func (r *DocumentRepository) reconcileDimension(dim int) error {
	stored, err := r.readDimension()
	if err != nil {
		return err
	}
	if stored == dim {
		return nil
	}
	if stored != 0 {
		r.backend.logger.Warn("embedding dimension changed, rebuilding semantic index",
			"stored", stored, "incoming", dim)
		if err := r.backend.DropAll(); err != nil {
			return err
		}
	}
	return r.writeDimension(dim)
}
