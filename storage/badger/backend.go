package badger

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"slices"

	"github.com/campusloop/unibot/core"
	"github.com/campusloop/unibot/storage"
	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
)

// Backend wraps a BadgerDB instance and provides low-level operations.
type Backend struct {
	db     *badger.DB
	logger *slog.Logger
}

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// OpenBackend opens a BadgerDB database at the specified path.
// Creates the directory if it doesn't exist. A store that cannot be opened
// is treated as corrupt: it is removed and recreated empty rather than
// failing startup.
func OpenBackend(filePath string, inMemory bool) (*Backend, error) {
	opts, err := buildOptions(filePath, inMemory)
	if err != nil {
		return nil, err
	}

	db, err := badger.Open(opts)
	if err != nil {
		if inMemory {
			return nil, err
		}
		slog.Warn("reinitializing semantic index store",
			"path", filePath, "reason", err, "err", core.ErrIndexCorrupt)
		if rmErr := os.RemoveAll(filePath); rmErr != nil {
			return nil, fmt.Errorf("%w: %w", core.ErrIndexCorrupt, rmErr)
		}
		opts, err = buildOptions(filePath, false)
		if err != nil {
			return nil, err
		}
		db, err = badger.Open(opts)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", core.ErrIndexCorrupt, err)
		}
	}

	return &Backend{
		db:     db,
		logger: slog.Default(),
	}, nil
}

func buildOptions(filePath string, inMemory bool) (badger.Options, error) {
	var opts badger.Options

	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		// Ensure directory exists
		info, err := os.Stat(filePath)
		if err != nil {
			if os.IsNotExist(err) {
				if err := os.MkdirAll(filePath, 0755); err != nil {
					return opts, err
				}
				info, err = os.Stat(filePath)
				if err != nil {
					return opts, err
				}
			} else {
				return opts, err
			}
		}
		if !info.IsDir() {
			return opts, fmt.Errorf("%s is not a directory", filePath)
		}
		opts = badger.DefaultOptions(filePath)
	}

	opts.Logger = &badgerLoggerAdapter{logger: slog.Default()}
	opts.Compression = options.None
	return opts, nil
}

// Close closes the BadgerDB database.
func (b *Backend) Close() error {
	return b.db.Close()
}

// IsClosed returns true if the database is closed.
func (b *Backend) IsClosed() bool {
	return b.db.IsClosed()
}

// WithTx executes a function within a BadgerDB transaction.
// If isWrite is true, creates a read-write transaction.
// The transaction is automatically discarded if fn returns an error.
func (b *Backend) WithTx(fn func(tx *badger.Txn) error, isWrite bool) error {
	tx := b.db.NewTransaction(isWrite)
	defer tx.Discard()
	return fn(tx)
}

// DropAll removes every key from the store.
func (b *Backend) DropAll() error {
	return b.db.DropAll()
}

// FindSimilar finds documents similar to the given vector.
func (b *Backend) FindSimilar(ctx context.Context, vector []float32, minScore float32, limit int, topic *core.Topic) ([]*core.SearchResult, error) {
	var results []*core.SearchResult

	err := b.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(documentPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()

			var doc *core.Document
			err := item.Value(func(val []byte) error {
				var err error
				doc, err = storage.UnmarshalDocument(val)
				return err
			})
			if err != nil {
				// An unreadable record is skipped rather than failing the
				// whole search; it will disappear on the next rebuild.
				b.logger.Warn("skipping unreadable index record",
					"key", string(item.Key()), "err", err)
				continue
			}
			if doc == nil || len(doc.Vector) == 0 {
				continue
			}

			if topic != nil && doc.Topic != *topic {
				continue
			}

			score := cosineSimilarity(vector, doc.Vector)
			if score >= minScore {
				results = append(results, &core.SearchResult{
					Document: doc,
					Score:    score,
				})
			}
		}

		return nil
	}, false)

	if err != nil {
		return nil, err
	}

	// Sort by score descending, ties broken by more recent retrieval
	slices.SortFunc(results, func(a, b *core.SearchResult) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		if a.Document.Retrieved.After(b.Document.Retrieved) {
			return -1
		}
		if a.Document.Retrieved.Before(b.Document.Retrieved) {
			return 1
		}
		return 0
	})

	if len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

// cosineSimilarity calculates the cosine similarity of two vectors.
// Vectors of mismatched length are compared over their common prefix.
func cosineSimilarity(a, b []float32) float32 {
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < minLen; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
