package search

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/campusloop/unibot/ai"
	"github.com/campusloop/unibot/core"
	"github.com/campusloop/unibot/storage"
)

// Policy holds the ranking and cache-hit thresholds for semantic search.
type Policy struct {
	// MinScore is the similarity floor below which documents are not
	// considered at all.
	MinScore float32

	// TopK is the number of results returned.
	TopK int

	// HitThreshold is the similarity a top match must strictly exceed for
	// the cached answer path. A score exactly at the threshold is a miss.
	HitThreshold float32

	// MaxAge is the freshness ceiling. A top match retrieved exactly MaxAge
	// ago (or earlier) is a miss.
	MaxAge time.Duration
}

// DefaultPolicy returns the standard search policy.
func DefaultPolicy() Policy {
	return Policy{
		MinScore:     0.5,
		TopK:         3,
		HitThreshold: 0.80,
		MaxAge:       24 * time.Hour,
	}
}

// Searcher runs semantic search over the document index.
type Searcher struct {
	repository storage.DocumentRepository
	embedder   ai.Embedder
	policy     Policy
	logger     *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithPolicy overrides the default search policy.
func WithPolicy(policy Policy) Option {
	return func(s *Searcher) error {
		if policy.TopK < 1 {
			return ErrInvalidPolicy
		}
		if policy.MaxAge <= 0 {
			return ErrInvalidPolicy
		}
		s.policy = policy
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(
	repository storage.DocumentRepository,
	embedder ai.Embedder,
	opts ...Option,
) (*Searcher, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	s := &Searcher{
		repository: repository,
		embedder:   embedder,
		policy:     DefaultPolicy(),
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Policy returns the searcher's active policy.
func (s *Searcher) Policy() Policy {
	return s.policy
}

// FindSimilar searches the index for documents similar to the query.
// A non-nil topic first restricts the search to that topic; if the
// restricted search comes back empty, an unrestricted search runs so a
// misclassified query can still reach relevant documents.
func (s *Searcher) FindSimilar(ctx context.Context, query string, topic *core.Topic) ([]*core.SearchResult, error) {
	return s.FindSimilarWithMonitor(ctx, query, topic, nil)
}

// FindSimilarWithMonitor searches with monitoring callbacks at each stage.
func (s *Searcher) FindSimilarWithMonitor(ctx context.Context, query string, topic *core.Topic, monitor Monitor) ([]*core.SearchResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	monitor.Start(query)

	embedding, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, err
	}
	monitor.AfterEmbedding(embedding)

	results, err := s.repository.FindSimilar(ctx, embedding, s.policy.MinScore, s.policy.TopK, topic)
	if err != nil {
		s.logger.Error("error querying for similar documents", "err", err)
		return nil, err
	}

	// A topic-restricted search that finds nothing retries unrestricted:
	// the classifier is keyword-based and misfiles queries.
	if len(results) == 0 && topic != nil {
		s.logger.Debug("topic-restricted search empty, retrying unrestricted",
			"topic", topic.String())
		results, err = s.repository.FindSimilar(ctx, embedding, s.policy.MinScore, s.policy.TopK, nil)
		if err != nil {
			return nil, err
		}
	}
	monitor.AfterIndexSearch(results)

	// Verbatim keyword boost: documents containing every meaningful query
	// word outrank pure vector neighbors.
	boosted := false
	for _, result := range results {
		if containsAllQueryWords(result.Document.Contents, query) {
			result.Score += 0.3
			boosted = true
			monitor.VerbatimHit(result.Document)
		}
	}
	if boosted {
		sort.Slice(results, func(i, j int) bool {
			return results[i].Score > results[j].Score
		})
	}

	monitor.Finish(results)
	return results, nil
}

// IsCacheHit reports whether the top result answers the query from the
// index alone: its score must strictly exceed the hit threshold and its
// document must be strictly younger than the freshness ceiling.
func (s *Searcher) IsCacheHit(results []*core.SearchResult) bool {
	return s.IsCacheHitAt(results, time.Now().UTC())
}

// IsCacheHitAt is IsCacheHit evaluated against an explicit clock.
func (s *Searcher) IsCacheHitAt(results []*core.SearchResult, now time.Time) bool {
	if len(results) == 0 {
		return false
	}

	top := results[0]
	if top.Score <= s.policy.HitThreshold {
		return false
	}
	return top.Document.Age(now) < s.policy.MaxAge
}
