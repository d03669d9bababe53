package badger

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/campusloop/unibot/core"
)

func TestFindSimilar_EmptyIndex(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { repo.Close(); backend.Close() }()

	results, err := repo.FindSimilar(context.Background(), []float32{1, 0}, 0, 10, nil)
	if err != nil {
		t.Fatalf("Expected empty result, got error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("Expected no results from empty index, got %d", len(results))
	}
}

func TestFindSimilar_OrdersByScore(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { repo.Close(); backend.Close() }()

	ctx := context.Background()

	closest := testDocument("https://duet.ac.bd/close", core.TopicGeneral, []float32{1, 0.1})
	far := testDocument("https://duet.ac.bd/far", core.TopicGeneral, []float32{0.1, 1})
	if _, err := repo.AddDocuments(ctx, far, closest); err != nil {
		t.Fatalf("Failed to add documents: %v", err)
	}

	results, err := repo.FindSimilar(ctx, []float32{1, 0}, 0, 10, nil)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].Document.URL != "https://duet.ac.bd/close" {
		t.Fatalf("Expected closest document first, got %q", results[0].Document.URL)
	}
	if results[0].Score <= results[1].Score {
		t.Fatalf("Expected descending scores, got %f then %f", results[0].Score, results[1].Score)
	}
}

func TestFindSimilar_MinScoreFilters(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { repo.Close(); backend.Close() }()

	ctx := context.Background()

	aligned := testDocument("https://duet.ac.bd/aligned", core.TopicGeneral, []float32{1, 0})
	orthogonal := testDocument("https://duet.ac.bd/orthogonal", core.TopicGeneral, []float32{0, 1})
	if _, err := repo.AddDocuments(ctx, aligned, orthogonal); err != nil {
		t.Fatalf("Failed to add documents: %v", err)
	}

	results, err := repo.FindSimilar(ctx, []float32{1, 0}, 0.5, 10, nil)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Expected orthogonal vector filtered out, got %d results", len(results))
	}
	if results[0].Document.URL != "https://duet.ac.bd/aligned" {
		t.Fatalf("Expected aligned document, got %q", results[0].Document.URL)
	}
}

func TestFindSimilar_TopicFilter(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { repo.Close(); backend.Close() }()

	ctx := context.Background()

	notice := testDocument("https://duet.ac.bd/notice", core.TopicNotice, []float32{1, 0})
	library := testDocument("https://duet.ac.bd/library", core.TopicLibrary, []float32{1, 0})
	if _, err := repo.AddDocuments(ctx, notice, library); err != nil {
		t.Fatalf("Failed to add documents: %v", err)
	}

	topic := core.TopicNotice
	results, err := repo.FindSimilar(ctx, []float32{1, 0}, 0, 10, &topic)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Expected only notice documents, got %d results", len(results))
	}
	if results[0].Document.Topic != core.TopicNotice {
		t.Fatalf("Expected notice topic, got %v", results[0].Document.Topic)
	}

	// A nil topic searches across all topics.
	results, err = repo.FindSimilar(ctx, []float32{1, 0}, 0, 10, nil)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected unfiltered search to see both documents, got %d", len(results))
	}
}

func TestFindSimilar_RecencyBreaksTies(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { repo.Close(); backend.Close() }()

	ctx := context.Background()

	older := testDocument("https://duet.ac.bd/older", core.TopicGeneral, []float32{1, 0})
	older.Retrieved = time.Now().UTC().Add(-2 * time.Hour)
	newer := testDocument("https://duet.ac.bd/newer", core.TopicGeneral, []float32{1, 0})

	if _, err := repo.AddDocuments(ctx, older, newer); err != nil {
		t.Fatalf("Failed to add documents: %v", err)
	}

	results, err := repo.FindSimilar(ctx, []float32{1, 0}, 0, 10, nil)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].Document.URL != "https://duet.ac.bd/newer" {
		t.Fatalf("Expected more recent document first on tie, got %q", results[0].Document.URL)
	}
}

func TestFindSimilar_RespectsLimit(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { repo.Close(); backend.Close() }()

	ctx := context.Background()

	docs := []*core.Document{
		testDocument("https://duet.ac.bd/1", core.TopicGeneral, []float32{1, 0}),
		testDocument("https://duet.ac.bd/2", core.TopicGeneral, []float32{0.9, 0.1}),
		testDocument("https://duet.ac.bd/3", core.TopicGeneral, []float32{0.8, 0.2}),
	}
	if _, err := repo.AddDocuments(ctx, docs...); err != nil {
		t.Fatalf("Failed to add documents: %v", err)
	}

	results, err := repo.FindSimilar(ctx, []float32{1, 0}, 0, 2, nil)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected limit of 2, got %d results", len(results))
	}
}

func TestCosineSimilarity(t *testing.T) {
	cases := []struct {
		name string
		a, b []float32
		want float32
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0},
		{"scaled", []float32{1, 1}, []float32{5, 5}, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := cosineSimilarity(tc.a, tc.b)
			if math.Abs(float64(got-tc.want)) > 1e-6 {
				t.Fatalf("cosineSimilarity(%v, %v) = %f, want %f", tc.a, tc.b, got, tc.want)
			}
		})
	}
}
