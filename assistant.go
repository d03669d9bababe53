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

package unibot

import (
	"context"
	"io"
	"log/slog"

	"github.com/campusloop/unibot/ai"
	"github.com/campusloop/unibot/ai/openai"
	"github.com/campusloop/unibot/config"
	"github.com/campusloop/unibot/ingestion"
	"github.com/campusloop/unibot/reembed"
	"github.com/campusloop/unibot/router"
	"github.com/campusloop/unibot/scrape"
	"github.com/campusloop/unibot/search"
	"github.com/campusloop/unibot/storage"
	"github.com/campusloop/unibot/storage/badger"
	"github.com/campusloop/unibot/urlfilter"
	"github.com/campusloop/unibot/websearch"
)

// Assistant bundles the document index, the AI backend, and the query
// pipeline behind one handle.
type Assistant struct {
	backend    *badger.Backend
	repository storage.DocumentRepository
	provider   ai.AIProvider
	router     *router.Router
	logger     *slog.Logger
}

// AssistantOption configures an Assistant.
type AssistantOption func(*assistantOptions)

type assistantOptions struct {
	provider ai.AIProvider
	inMemory bool
}

// WithAIProvider injects a pre-built AI provider instead of dialing the
// configured backend. Used by tests and embedders of the library.
func WithAIProvider(provider ai.AIProvider) AssistantOption {
	return func(o *assistantOptions) {
		o.provider = provider
	}
}

// WithInMemoryStore keeps the document index in memory instead of at
// the configured store path.
func WithInMemoryStore() AssistantOption {
	return func(o *assistantOptions) {
		o.inMemory = true
	}
}

// NewAssistant wires an assistant from configuration.
func NewAssistant(cfg *config.Config, opts ...AssistantOption) (*Assistant, error) {
	options := &assistantOptions{}
	for _, opt := range opts {
		opt(options)
	}

	storePath := cfg.StorePath
	if options.inMemory {
		storePath = ""
	}
	backend, err := badger.OpenBackend(storePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	repository, err := badger.NewDocumentRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(ai.NewConfig(
			ai.WithHost(cfg.AIHost),
			ai.WithEmbeddingModel(cfg.EmbeddingModel),
			ai.WithGeneratorModel(cfg.GeneratorModel),
			ai.WithAPIKey(cfg.AIAPIKey),
		))
		if err != nil {
			backend.Close()
			return nil, err
		}
	}

	searcher, err := search.NewSearcher(repository, provider.Embedder(),
		search.WithPolicy(search.Policy{
			MinScore:     cfg.SimilarityThreshold,
			TopK:         cfg.TopKResults,
			HitThreshold: search.DefaultPolicy().HitThreshold,
			MaxAge:       cfg.CacheExpiry,
		}))
	if err != nil {
		provider.Close()
		backend.Close()
		return nil, err
	}

	scraper, err := scrape.NewScraper(
		scrape.WithPerURLTimeout(cfg.ScrapeTimeout),
		scrape.WithMaxContentLength(cfg.MaxContentLength),
	)
	if err != nil {
		provider.Close()
		backend.Close()
		return nil, err
	}

	qr, err := router.New(
		searcher,
		repository,
		provider,
		searchChain(cfg),
		urlfilter.New(cfg.OfficialDomains()),
		scraper,
		cfg.UniversityDomain,
		router.WithUniversityName(cfg.UniversityName),
		router.WithDeadline(cfg.QueryTimeout),
		router.WithMaxScrapeURLs(cfg.MaxScrapeURLs),
		router.WithSearchLimit(cfg.MaxSearchResults),
	)
	if err != nil {
		provider.Close()
		backend.Close()
		return nil, err
	}

	return &Assistant{
		backend:    backend,
		repository: repository,
		provider:   provider,
		router:     qr,
		logger:     slog.Default(),
	}, nil
}

// searchChain builds the provider chain in preference order. Providers
// without credentials report themselves unavailable and are skipped;
// DuckDuckGo needs none and is the terminal fallback.
func searchChain(cfg *config.Config) *websearch.Chain {
	providers := []websearch.Provider{
		websearch.NewSerperProvider(cfg.SerperAPIKey, nil),
		websearch.NewGoogleCSEProvider(cfg.GoogleSearchAPIKey, cfg.GoogleSearchEngineID, nil),
		websearch.NewDuckDuckGoProvider(nil),
	}
	return websearch.NewChain(providers)
}

// Answer runs one query through the full pipeline.
func (a *Assistant) Answer(ctx context.Context, query string, language router.Language) *router.Result {
	return a.router.Answer(ctx, query, language)
}

// Repository exposes the document index.
func (a *Assistant) Repository() storage.DocumentRepository {
	return a.repository
}

// NewSeedPipeline creates a pipeline that pre-populates the index from
// official URLs.
func (a *Assistant) NewSeedPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	scraper, err := scrape.NewScraper()
	if err != nil {
		return nil, err
	}
	return ingestion.NewPipeline(a.repository, a.provider, scraper, opts...)
}

// NewReembedder creates a tool that rebuilds every document's vector
// with the current embedding model.
func (a *Assistant) NewReembedder(config *reembed.Config, progress io.Writer) *reembed.Reembedder {
	return reembed.NewReembedder(a.repository, a.provider.Embedder(), config, progress)
}

// Clear wipes the document index.
func (a *Assistant) Clear(ctx context.Context) error {
	return a.repository.Clear(ctx)
}

func (a *Assistant) Close() error {
	if err := a.provider.Close(); err != nil {
		a.logger.Error("error closing AI provider", "err", err)
	}
	if err := a.repository.Close(); err != nil {
		a.logger.Error("error closing document repository", "err", err)
		return err
	}
	if err := a.backend.Close(); err != nil {
		a.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}
