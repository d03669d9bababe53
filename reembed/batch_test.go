package reembed

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusloop/unibot/ai/mock"
	"github.com/campusloop/unibot/core"
	"github.com/campusloop/unibot/storage/badger"
)

func TestBatchProcessor_Process(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer func() { repo.Close(); backend.Close() }()

	ctx := context.Background()
	seedDocuments(t, repo, 3)
	docs, err := repo.AllDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 3)

	embedder := &mock.MockEmbedder{
		EmbedTextsFunc: func(ctx context.Context, texts []string) ([][]float32, error) {
			vectors := make([][]float32, len(texts))
			for i := range texts {
				vectors[i] = []float32{3, 4, 0}
			}
			return vectors, nil
		},
	}

	bp := NewBatchProcessor(repo, embedder, 3, time.Millisecond)
	require.NoError(t, bp.Process(ctx, docs))

	// Vectors are normalized to unit length before storage.
	stored, err := repo.AllDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 3)
	for _, doc := range stored {
		require.Len(t, doc.Vector, 3)
		var magnitude float64
		for _, v := range doc.Vector {
			magnitude += float64(v) * float64(v)
		}
		assert.InDelta(t, 1.0, math.Sqrt(magnitude), 1e-5)
	}
}

func TestBatchProcessor_EmptyBatch(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer func() { repo.Close(); backend.Close() }()

	embedder := mock.NewMockEmbedder()
	bp := NewBatchProcessor(repo, embedder, 3, time.Millisecond)
	assert.NoError(t, bp.Process(context.Background(), nil))
	assert.Equal(t, 0, embedder.CallCount(), "empty batch should not call the embedder")
}

func TestBatchProcessor_RetriesThenSucceeds(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer func() { repo.Close(); backend.Close() }()

	ctx := context.Background()
	seedDocuments(t, repo, 2)
	docs, err := repo.AllDocuments(ctx)
	require.NoError(t, err)

	attempts := 0
	embedder := &mock.MockEmbedder{
		EmbedTextsFunc: func(ctx context.Context, texts []string) ([][]float32, error) {
			attempts++
			if attempts < 3 {
				return nil, errors.New("transient failure")
			}
			vectors := make([][]float32, len(texts))
			for i := range texts {
				vectors[i] = []float32{0, 1, 0}
			}
			return vectors, nil
		},
	}

	bp := NewBatchProcessor(repo, embedder, 3, time.Millisecond)
	require.NoError(t, bp.Process(ctx, docs))
	assert.Equal(t, 3, attempts)
}

func TestBatchProcessor_ExhaustsRetries(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer func() { repo.Close(); backend.Close() }()

	ctx := context.Background()
	seedDocuments(t, repo, 1)
	docs, err := repo.AllDocuments(ctx)
	require.NoError(t, err)

	wantErr := errors.New("embedding service down")
	embedder := &mock.MockEmbedder{
		EmbedTextsFunc: func(ctx context.Context, texts []string) ([][]float32, error) {
			return nil, wantErr
		},
	}

	bp := NewBatchProcessor(repo, embedder, 2, time.Millisecond)
	err = bp.Process(ctx, docs)
	assert.ErrorIs(t, err, wantErr)
}

func TestBatchProcessor_CountMismatch(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer func() { repo.Close(); backend.Close() }()

	ctx := context.Background()
	seedDocuments(t, repo, 2)
	docs, err := repo.AllDocuments(ctx)
	require.NoError(t, err)

	embedder := &mock.MockEmbedder{
		EmbedTextsFunc: func(ctx context.Context, texts []string) ([][]float32, error) {
			return [][]float32{{1, 0}}, nil
		},
	}

	bp := NewBatchProcessor(repo, embedder, 1, time.Millisecond)
	err = bp.Process(ctx, docs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mismatch")
}

func TestBatchProcessor_StableIDs(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer func() { repo.Close(); backend.Close() }()

	ctx := context.Background()
	seedDocuments(t, repo, 2)
	before, err := repo.AllDocuments(ctx)
	require.NoError(t, err)

	beforeIDs := map[core.ID]bool{}
	for _, doc := range before {
		beforeIDs[doc.Id] = true
	}

	embedder := &mock.MockEmbedder{
		EmbedTextsFunc: func(ctx context.Context, texts []string) ([][]float32, error) {
			vectors := make([][]float32, len(texts))
			for i := range texts {
				vectors[i] = []float32{1, 1, 1}
			}
			return vectors, nil
		},
	}

	bp := NewBatchProcessor(repo, embedder, 1, time.Millisecond)
	require.NoError(t, bp.Process(ctx, before))

	count, err := repo.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count, "re-embedding must replace, not duplicate")

	after, err := repo.AllDocuments(ctx)
	require.NoError(t, err)
	for _, doc := range after {
		assert.True(t, beforeIDs[doc.Id], "IDs must survive re-embedding")
	}
}
