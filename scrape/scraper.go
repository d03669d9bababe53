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


// Package scrape fetches university pages and reduces them to clean text.
//
// Scraping is best-effort and time-boxed: every URL gets its own fetch
// budget, the whole batch gets a global one, and whatever completed when a
// budget expires is returned. A page that cannot be fetched or yields no
// meaningful text is skipped, never fatal.
package scrape

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/campusloop/unibot/core"
	"github.com/panjf2000/ants/v2"
)

const (
	// DefaultPerURLTimeout bounds a single page fetch.
	DefaultPerURLTimeout = 10 * time.Second

	// DefaultGlobalTimeout bounds a whole Scrape call.
	DefaultGlobalTimeout = 30 * time.Second

	// DefaultMaxConcurrent is the fetch worker pool ceiling.
	DefaultMaxConcurrent = 3

	// DefaultMaxContentLength caps extracted body text, in runes.
	DefaultMaxContentLength = 5000

	// minContentLength is the shortest extracted text considered meaningful.
	minContentLength = 50

	// maxBodyBytes guards against pathological page sizes.
	maxBodyBytes = 2 << 20
)

// Browser-like headers; some university servers reject obvious bots.
const (
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	acceptHeader   = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	acceptLanguage = "en-US,en;q=0.9,bn;q=0.8"
)

// Scraper fetches pages concurrently and extracts their text.
type Scraper struct {
	client           *http.Client
	perURLTimeout    time.Duration
	globalTimeout    time.Duration
	maxConcurrent    int
	maxContentLength int
	logger           *slog.Logger
}

// Option configures a Scraper.
type Option func(*Scraper) error

// WithClient sets the HTTP client used for fetches.
func WithClient(client *http.Client) Option {
	return func(s *Scraper) error {
		if client == nil {
			return fmt.Errorf("scrape: client must not be nil")
		}
		s.client = client
		return nil
	}
}

// WithPerURLTimeout bounds each page fetch.
func WithPerURLTimeout(d time.Duration) Option {
	return func(s *Scraper) error {
		if d <= 0 {
			return fmt.Errorf("scrape: per-url timeout must be positive")
		}
		s.perURLTimeout = d
		return nil
	}
}

// WithGlobalTimeout bounds a whole Scrape call.
func WithGlobalTimeout(d time.Duration) Option {
	return func(s *Scraper) error {
		if d <= 0 {
			return fmt.Errorf("scrape: global timeout must be positive")
		}
		s.globalTimeout = d
		return nil
	}
}

// WithMaxConcurrent sets the fetch worker pool ceiling.
func WithMaxConcurrent(n int) Option {
	return func(s *Scraper) error {
		if n < 1 {
			n = 1
		}
		s.maxConcurrent = n
		return nil
	}
}

// WithMaxContentLength caps extracted body text, in runes.
func WithMaxContentLength(n int) Option {
	return func(s *Scraper) error {
		if n < minContentLength {
			return fmt.Errorf("scrape: max content length must be at least %d", minContentLength)
		}
		s.maxContentLength = n
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scraper) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewScraper creates a scraper with default budgets.
func NewScraper(opts ...Option) (*Scraper, error) {
	s := &Scraper{
		client:           &http.Client{},
		perURLTimeout:    DefaultPerURLTimeout,
		globalTimeout:    DefaultGlobalTimeout,
		maxConcurrent:    DefaultMaxConcurrent,
		maxContentLength: DefaultMaxContentLength,
		logger:           slog.Default().With("component", "scraper"),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Scrape fetches the given URLs concurrently and returns documents for the
// pages that yielded meaningful text, in input order. Documents carry URL,
// title, cleaned contents and retrieval time; topic and embedding are
// assigned downstream. Partial results are valid: fetches that fail or miss
// the global budget are simply absent.
func (s *Scraper) Scrape(ctx context.Context, urls []string) []*core.Document {
	if len(urls) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.globalTimeout)
	defer cancel()

	poolSize := s.maxConcurrent
	if len(urls) < poolSize {
		poolSize = len(urls)
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		s.logger.Error("failed to create scrape pool", "err", err)
		return nil
	}
	defer pool.Release()

	docs := make([]*core.Document, len(urls))
	var wg sync.WaitGroup

	for i, pageURL := range urls {
		// No new fetch starts once the global budget is spent.
		if ctx.Err() != nil {
			s.logger.Warn("scrape budget exhausted, skipping remaining urls",
				"remaining", len(urls)-i)
			break
		}

		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}

			doc, err := s.fetch(ctx, pageURL)
			if err != nil {
				s.logger.Warn("skipping url", "url", pageURL, "err", err)
				return
			}
			docs[i] = doc
		}); err != nil {
			wg.Done()
			s.logger.Warn("failed to submit fetch", "url", pageURL, "err", err)
		}
	}

	wg.Wait()

	scraped := make([]*core.Document, 0, len(urls))
	for _, doc := range docs {
		if doc != nil {
			scraped = append(scraped, doc)
		}
	}

	s.logger.Info("scrape complete", "requested", len(urls), "scraped", len(scraped))
	return scraped
}

// fetch retrieves one page under the per-URL budget and extracts its text.
func (s *Scraper) fetch(ctx context.Context, pageURL string) (*core.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, s.perURLTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrFetchFailed, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Accept-Language", acceptLanguage)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", core.ErrFetchFailed, resp.StatusCode)
	}
	if !isHTMLContentType(resp.Header.Get("Content-Type")) {
		return nil, fmt.Errorf("%w: content type %q", core.ErrFetchFailed, resp.Header.Get("Content-Type"))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrFetchFailed, err)
	}

	page := string(body)
	contents := extractText(page)
	if len(strings.TrimSpace(contents)) < minContentLength {
		return nil, fmt.Errorf("%w: no meaningful content", core.ErrFetchFailed)
	}

	return &core.Document{
		URL:       pageURL,
		Title:     extractTitle(page),
		Contents:  truncateRunes(contents, s.maxContentLength),
		Retrieved: time.Now().UTC(),
	}, nil
}

// isHTMLContentType accepts HTML responses and servers that omit the header.
func isHTMLContentType(value string) bool {
	if value == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(value)
	if err != nil {
		return false
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}
