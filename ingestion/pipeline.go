package ingestion

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/campusloop/unibot/ai"
	"github.com/campusloop/unibot/core"
	"github.com/campusloop/unibot/storage"
)

// DefaultChunkSize is the number of URLs handed to each worker.
const DefaultChunkSize = 4

// Scraper fetches page content for a set of URLs.
type Scraper interface {
	Scrape(ctx context.Context, urls []string) []*core.Document
}

// Pipeline seeds the document index from a list of URLs. Scraping and
// embedding run concurrently per URL chunk on a worker pool.
type Pipeline struct {
	repository storage.DocumentRepository
	embedder   ai.Embedder
	scraper    Scraper
	pool       *ants.Pool
	chunkSize  int
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithChunkSize sets how many URLs each worker processes at a time.
func WithChunkSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		p.chunkSize = size
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new seeding pipeline.
func NewPipeline(
	repository storage.DocumentRepository,
	provider ai.AIProvider,
	scraper Scraper,
	opts ...Option,
) (*Pipeline, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}
	if scraper == nil {
		return nil, ErrScraperRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		repository: repository,
		embedder:   provider.Embedder(),
		scraper:    scraper,
		pool:       pool,
		chunkSize:  DefaultChunkSize,
		logger:     slog.Default().With("component", "ingestion"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Stats summarizes a seeding run.
type Stats struct {
	// Requested is the number of URLs submitted.
	Requested int

	// Scraped is the number of pages that yielded usable content.
	Scraped int

	// Indexed is the number of documents stored with embeddings.
	Indexed int
}

// Seed scrapes the given URLs and indexes the resulting documents.
// Each document's topic is classified from its title and content. Batch
// failures are logged and reflected in the stats; only pool submission
// errors abort the run.
func (p *Pipeline) Seed(ctx context.Context, urls []string) (*Stats, error) {
	stats := &Stats{Requested: len(urls)}
	if len(urls) == 0 {
		return stats, nil
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	for start := 0; start < len(urls); start += p.chunkSize {
		end := start + p.chunkSize
		if end > len(urls) {
			end = len(urls)
		}
		chunk := urls[start:end]

		wg.Add(1)
		err := p.pool.Submit(func() {
			defer wg.Done()

			scraped, indexed := p.processChunk(ctx, chunk)
			mu.Lock()
			stats.Scraped += scraped
			stats.Indexed += indexed
			mu.Unlock()
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return stats, err
		}
	}

	wg.Wait()
	return stats, nil
}

// processChunk scrapes one URL chunk and indexes the documents.
func (p *Pipeline) processChunk(ctx context.Context, urls []string) (scraped, indexed int) {
	docs := p.scraper.Scrape(ctx, urls)
	if len(docs) == 0 {
		p.logger.Warn("no content scraped from chunk", "urls", len(urls))
		return 0, 0
	}
	scraped = len(docs)

	texts := make([]string, len(docs))
	for i, doc := range docs {
		doc.Topic = classifyDocument(doc)
		texts[i] = doc.Contents
	}

	vectors, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		p.logger.Error("error generating embeddings", "err", err)
		return scraped, 0
	}
	if len(vectors) != len(docs) {
		p.logger.Error("embedding result mismatch", "expected", len(docs), "received", len(vectors))
		return scraped, 0
	}
	for i := range docs {
		docs[i].Vector = vectors[i]
	}

	added, err := p.repository.AddDocuments(ctx, docs...)
	if err != nil {
		p.logger.Error("error storing documents", "err", err)
		return scraped, 0
	}
	return scraped, len(added)
}

// classifyDocument assigns a topic from the document's own text, since
// there is no user query to classify during seeding.
func classifyDocument(doc *core.Document) core.Topic {
	return core.ClassifyTopic(doc.Title + " " + doc.Contents)
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
