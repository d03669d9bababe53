package router

import "errors"

var (
	ErrSearcherRequired   = errors.New("searcher is required")
	ErrRepositoryRequired = errors.New("repository is required")
	ErrProviderRequired   = errors.New("ai provider is required")
	ErrWebSearchRequired  = errors.New("web search is required")
	ErrFilterRequired     = errors.New("url filter is required")
	ErrScraperRequired    = errors.New("scraper is required")
	ErrDomainRequired     = errors.New("university domain is required")
	ErrInvalidDeadline    = errors.New("deadline must be positive")
	ErrInvalidScrapeLimit = errors.New("scrape limit must be at least 1")
	ErrInvalidSearchLimit = errors.New("search limit must be at least 1")
)
