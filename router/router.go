// Copyright 2025 Campusloop
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package router

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/campusloop/unibot/ai"
	"github.com/campusloop/unibot/core"
	"github.com/campusloop/unibot/storage"
	"github.com/campusloop/unibot/urlfilter"
	"github.com/campusloop/unibot/websearch"
)

const (
	// DefaultDeadline bounds one query end to end, web search and
	// scraping included.
	DefaultDeadline = 180 * time.Second

	// DefaultMaxScrapeURLs caps how many filtered URLs are fetched per
	// query.
	DefaultMaxScrapeURLs = 5

	// DefaultSearchLimit is how many results are requested from the web
	// search chain.
	DefaultSearchLimit = 10
)

// Searcher is the semantic index lookup the router depends on.
type Searcher interface {
	FindSimilar(ctx context.Context, query string, topic *core.Topic) ([]*core.SearchResult, error)
	IsCacheHit(results []*core.SearchResult) bool
}

// WebSearcher is the external search chain the router depends on.
type WebSearcher interface {
	Search(ctx context.Context, query, siteRestrict string, limit int) ([]websearch.Result, error)
}

// Scraper fetches page content for a set of URLs.
type Scraper interface {
	Scrape(ctx context.Context, urls []string) []*core.Document
}

// Router answers university questions. A query is classified, checked
// against the semantic cache, and on a miss routed through web search,
// URL filtering, scraping and indexing before the model generates the
// final answer. Every path produces a localized answer, degraded ones
// included.
type Router struct {
	searcher   Searcher
	repository storage.DocumentRepository
	provider   ai.AIProvider
	webSearch  WebSearcher
	filter     *urlfilter.Filter
	scraper    Scraper

	universityDomain string
	universityName   string

	deadline      time.Duration
	maxScrapeURLs int
	searchLimit   int

	logger *slog.Logger
}

// Option configures a Router.
type Option func(*Router) error

// WithUniversityName overrides the display name used in search queries
// and fallback prompts. Default is the university domain.
func WithUniversityName(name string) Option {
	return func(r *Router) error {
		if name != "" {
			r.universityName = name
		}
		return nil
	}
}

// WithDeadline overrides the aggregate per-query deadline.
func WithDeadline(deadline time.Duration) Option {
	return func(r *Router) error {
		if deadline <= 0 {
			return ErrInvalidDeadline
		}
		r.deadline = deadline
		return nil
	}
}

// WithMaxScrapeURLs caps how many filtered URLs are scraped per query.
func WithMaxScrapeURLs(n int) Option {
	return func(r *Router) error {
		if n < 1 {
			return ErrInvalidScrapeLimit
		}
		r.maxScrapeURLs = n
		return nil
	}
}

// WithSearchLimit sets the result count requested from the search chain.
func WithSearchLimit(n int) Option {
	return func(r *Router) error {
		if n < 1 {
			return ErrInvalidSearchLimit
		}
		r.searchLimit = n
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// New creates a router over the given pipeline stages.
func New(
	searcher Searcher,
	repository storage.DocumentRepository,
	provider ai.AIProvider,
	webSearch WebSearcher,
	filter *urlfilter.Filter,
	scraper Scraper,
	universityDomain string,
	opts ...Option,
) (*Router, error) {
	if searcher == nil {
		return nil, ErrSearcherRequired
	}
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}
	if webSearch == nil {
		return nil, ErrWebSearchRequired
	}
	if filter == nil {
		return nil, ErrFilterRequired
	}
	if scraper == nil {
		return nil, ErrScraperRequired
	}
	if universityDomain == "" {
		return nil, ErrDomainRequired
	}

	r := &Router{
		searcher:         searcher,
		repository:       repository,
		provider:         provider,
		webSearch:        webSearch,
		filter:           filter,
		scraper:          scraper,
		universityDomain: universityDomain,
		universityName:   universityDomain,
		deadline:         DefaultDeadline,
		maxScrapeURLs:    DefaultMaxScrapeURLs,
		searchLimit:      DefaultSearchLimit,
		logger:           slog.Default().With("component", "router"),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Answer runs the full pipeline for one query and always returns a
// result. Failures degrade to localized messages rather than errors.
func (r *Router) Answer(ctx context.Context, query string, language Language) *Result {
	started := time.Now()
	ctx, cancel := context.WithTimeout(ctx, r.deadline)
	defer cancel()

	logger := r.logger.With("request_id", uuid.NewString())

	lang := resolveLanguage(language, query)
	topic := core.ClassifyTopic(query)
	logger.Info("query received", "topic", topic, "language", lang)

	result := r.answer(ctx, logger, query, topic, lang)
	result.Topic = topic
	result.ElapsedMS = time.Since(started).Milliseconds()
	result.Outcome = OutcomeOK
	if ctx.Err() != nil {
		result.Outcome = OutcomeTimeout
	}
	logger.Info("query answered",
		"source", result.Source, "outcome", result.Outcome, "elapsed_ms", result.ElapsedMS)
	return result
}

func (r *Router) answer(
	ctx context.Context,
	logger *slog.Logger,
	query string,
	topic core.Topic,
	lang Language,
) *Result {
	cached, err := r.searcher.FindSimilar(ctx, query, &topic)
	if err != nil {
		logger.Warn("semantic search failed", "error", err)
	}
	if r.searcher.IsCacheHit(cached) {
		logger.Info("cache hit", "score", cached[0].Score, "url", cached[0].Document.URL)
		return r.generate(ctx, logger, query, lang, formatContext(cached), SourceCache, matches(cached))
	}

	enhanced := enhanceQuery(r.universityName, query, topic)
	webResults, err := r.webSearch.Search(ctx, enhanced, r.universityDomain, r.searchLimit)
	if err != nil {
		logger.Warn("web search failed", "error", err)
	}
	if len(webResults) == 0 {
		// Some providers index little under a site: restriction. Retry
		// without it; the URL filter still enforces official domains.
		logger.Info("restricted search empty, retrying unrestricted")
		webResults, err = r.webSearch.Search(ctx, enhanced, "", r.searchLimit)
		if err != nil {
			logger.Warn("unrestricted web search failed", "error", err)
		}
	}
	if len(webResults) == 0 {
		logger.Info("no web results, answering from model knowledge")
		return r.llmFallback(ctx, logger, query, topic, lang)
	}

	filtered := r.filter.Apply(webResults)
	if len(filtered) == 0 {
		logger.Info("no official URLs after filtering", "candidates", len(webResults))
		return failure(noOfficialSourcesMessage(lang))
	}

	urls := make([]string, 0, r.maxScrapeURLs)
	for _, res := range filtered {
		if len(urls) == r.maxScrapeURLs {
			break
		}
		urls = append(urls, res.URL)
	}

	docs := r.scraper.Scrape(ctx, urls)
	if len(docs) == 0 {
		logger.Warn("scraping produced no documents", "urls", len(urls))
		return failure(scrapingFailedMessage(lang))
	}

	r.indexDocuments(ctx, logger, docs, topic)

	fresh, err := r.searcher.FindSimilar(ctx, query, &topic)
	if err != nil {
		logger.Warn("post-scrape search failed", "error", err)
	}
	if len(fresh) == 0 {
		// The scraped pages may not clear the similarity floor. Answer
		// from them directly rather than discarding the fetch.
		fresh = scrapedResults(docs)
	}
	return r.generate(ctx, logger, query, lang, formatContext(fresh), SourceFresh, matches(fresh))
}

// indexDocuments embeds and stores scraped documents. Failures are
// logged and swallowed so the answer path is never blocked on storage.
func (r *Router) indexDocuments(ctx context.Context, logger *slog.Logger, docs []*core.Document, topic core.Topic) {
	texts := make([]string, len(docs))
	for i, doc := range docs {
		doc.Topic = topic
		texts[i] = doc.Contents
	}

	vectors, err := r.provider.Embedder().EmbedTexts(ctx, texts)
	if err != nil {
		logger.Warn("embedding scraped documents failed", "error", err)
		return
	}
	if len(vectors) != len(docs) {
		logger.Warn("embedding count mismatch", "documents", len(docs), "vectors", len(vectors))
		return
	}
	for i, doc := range docs {
		doc.Vector = vectors[i]
	}

	if _, err := r.repository.AddDocuments(ctx, docs...); err != nil {
		logger.Warn("indexing scraped documents failed", "error", err)
		return
	}
	logger.Info("documents indexed", "count", len(docs))
}

// llmFallback answers from the model's own knowledge when no documents
// could be found at all.
func (r *Router) llmFallback(
	ctx context.Context,
	logger *slog.Logger,
	query string,
	topic core.Topic,
	lang Language,
) *Result {
	promptContext := fallbackContext(query, topic, r.universityName)
	answer, err := r.provider.Generator().GenerateAnswer(ctx, buildSystemPrompt(lang, promptContext), query)
	if err != nil || answer == "" {
		logger.Warn("fallback generation failed", "error", err)
		return failure(noResultsMessage(lang))
	}
	return &Result{
		Success: true,
		Answer:  answer,
		Source:  SourceLLMFallback,
	}
}

func (r *Router) generate(
	ctx context.Context,
	logger *slog.Logger,
	query string,
	lang Language,
	promptContext string,
	source Source,
	matches []core.Match,
) *Result {
	answer, err := r.provider.Generator().GenerateAnswer(ctx, buildSystemPrompt(lang, promptContext), query)
	if err != nil || answer == "" {
		logger.Warn("answer generation failed", "error", err)
		// The retrieved context is still valid; keep the matches and the
		// real source so callers can show where an answer would have
		// come from.
		return &Result{
			Success: false,
			Answer:  generalErrorMessage(lang),
			Source:  source,
			Matches: matches,
		}
	}
	return &Result{
		Success: true,
		Answer:  answer,
		Source:  source,
		Matches: matches,
	}
}

func failure(message string) *Result {
	return &Result{
		Success: false,
		Answer:  message,
		Source:  SourceNone,
	}
}

// enhanceQuery widens a bare user query with the university name and the
// topic's search keywords so generic queries land on the right pages.
func enhanceQuery(universityName, query string, topic core.Topic) string {
	parts := []string{universityName, query}
	if hint := topic.SearchHint(); hint != "" {
		parts = append(parts, hint)
	}
	return strings.Join(parts, " ")
}

func matches(results []*core.SearchResult) []core.Match {
	if len(results) == 0 {
		return nil
	}
	out := make([]core.Match, len(results))
	for i, res := range results {
		out[i] = core.Match{
			URL:   res.Document.URL,
			Title: res.Document.Title,
			Score: res.Score,
		}
	}
	return out
}

// scrapedResults wraps freshly scraped documents as search results so
// they can feed the prompt context when the index search comes up empty.
func scrapedResults(docs []*core.Document) []*core.SearchResult {
	out := make([]*core.SearchResult, len(docs))
	for i, doc := range docs {
		out[i] = &core.SearchResult{Document: doc}
	}
	return out
}
