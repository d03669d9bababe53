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

// Package config loads runtime configuration from the environment,
// with an optional .env file for development setups.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var (
	// ErrDomainRequired is returned when UNIVERSITY_DOMAIN is unset.
	ErrDomainRequired = errors.New("UNIVERSITY_DOMAIN is required")

	// ErrInvalidValue wraps parse and range failures for numeric settings.
	ErrInvalidValue = errors.New("invalid configuration value")
)

// Config holds every runtime setting of the assistant.
type Config struct {
	// UniversityDomain is the official domain, normalized to a bare
	// hostname. Required.
	UniversityDomain string

	// UniversityName is the display name used in search queries and
	// prompts. Defaults to the first domain label, uppercased.
	UniversityName string

	// Search provider credentials. A provider without credentials is
	// skipped by the chain.
	SerperAPIKey         string
	GoogleSearchAPIKey   string
	GoogleSearchEngineID string

	// AI backend settings.
	AIHost         string
	EmbeddingModel string
	GeneratorModel string
	AIAPIKey       string

	// StorePath is the on-disk location of the document index.
	StorePath string

	// Retrieval settings.
	MaxSearchResults    int
	TopKResults         int
	SimilarityThreshold float32
	CacheExpiry         time.Duration

	// Scrape settings.
	ScrapeTimeout    time.Duration
	MaxContentLength int
	MaxScrapeURLs    int

	// QueryTimeout is the aggregate per-query deadline.
	QueryTimeout time.Duration

	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// Load reads configuration from a .env file (when present) and the
// process environment. Environment variables win over the file.
func Load() (*Config, error) {
	// godotenv never overrides variables already set in the environment.
	_ = godotenv.Load()
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from the given lookup function. Split out
// from Load so tests can feed a synthetic environment.
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key, fallback string) string {
		if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
		return fallback
	}

	domain := cleanDomain(get("UNIVERSITY_DOMAIN", ""))
	if domain == "" {
		return nil, ErrDomainRequired
	}

	cfg := &Config{
		UniversityDomain:     domain,
		UniversityName:       get("UNIVERSITY_NAME", defaultUniversityName(domain)),
		SerperAPIKey:         get("SERPER_API_KEY", ""),
		GoogleSearchAPIKey:   get("GOOGLE_SEARCH_API_KEY", ""),
		GoogleSearchEngineID: get("GOOGLE_SEARCH_ENGINE_ID", ""),
		AIHost:               get("AI_HOST", "http://localhost:11434"),
		EmbeddingModel:       get("EMBEDDING_MODEL", "embeddinggemma"),
		GeneratorModel:       get("GENERATOR_MODEL", "qwen2.5:3b"),
		AIAPIKey:             get("AI_API_KEY", ""),
		StorePath:            get("STORE_PATH", "./data/unibot"),
		LogLevel:             strings.ToLower(get("LOG_LEVEL", "info")),
	}

	var err error
	if cfg.MaxSearchResults, err = parseInt(get("MAX_SEARCH_RESULTS", "10"), 1); err != nil {
		return nil, fmt.Errorf("MAX_SEARCH_RESULTS: %w", err)
	}
	if cfg.TopKResults, err = parseInt(get("TOP_K_RESULTS", "3"), 1); err != nil {
		return nil, fmt.Errorf("TOP_K_RESULTS: %w", err)
	}
	if cfg.SimilarityThreshold, err = parseThreshold(get("SIMILARITY_THRESHOLD", "0.5")); err != nil {
		return nil, fmt.Errorf("SIMILARITY_THRESHOLD: %w", err)
	}

	expiryHours, err := parseInt(get("CACHE_EXPIRY_HOURS", "24"), 1)
	if err != nil {
		return nil, fmt.Errorf("CACHE_EXPIRY_HOURS: %w", err)
	}
	cfg.CacheExpiry = time.Duration(expiryHours) * time.Hour

	scrapeSeconds, err := parseInt(get("SCRAPE_TIMEOUT", "10"), 1)
	if err != nil {
		return nil, fmt.Errorf("SCRAPE_TIMEOUT: %w", err)
	}
	cfg.ScrapeTimeout = time.Duration(scrapeSeconds) * time.Second

	if cfg.MaxContentLength, err = parseInt(get("MAX_CONTENT_LENGTH", "5000"), 1); err != nil {
		return nil, fmt.Errorf("MAX_CONTENT_LENGTH: %w", err)
	}
	if cfg.MaxScrapeURLs, err = parseInt(get("MAX_SCRAPE_URLS", "5"), 1); err != nil {
		return nil, fmt.Errorf("MAX_SCRAPE_URLS: %w", err)
	}

	querySeconds, err := parseInt(get("QUERY_TIMEOUT", "180"), 1)
	if err != nil {
		return nil, fmt.Errorf("QUERY_TIMEOUT: %w", err)
	}
	cfg.QueryTimeout = time.Duration(querySeconds) * time.Second

	return cfg, nil
}

// OfficialDomains returns the domains considered official sources.
// Subdomains are matched by the URL filter, so the base domain suffices.
func (c *Config) OfficialDomains() []string {
	return []string{c.UniversityDomain}
}

// cleanDomain strips the scheme, a www prefix, and trailing slashes from
// a configured domain.
func cleanDomain(raw string) string {
	domain := strings.TrimSpace(raw)
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	domain = strings.TrimPrefix(domain, "www.")
	domain = strings.TrimRight(domain, "/")
	return strings.TrimSpace(domain)
}

// defaultUniversityName derives a display name from the first domain
// label: "duet.ac.bd" becomes "DUET".
func defaultUniversityName(domain string) string {
	label, _, _ := strings.Cut(domain, ".")
	if label == "" {
		return "University"
	}
	return strings.ToUpper(label)
}

func parseInt(raw string, min int) (int, error) {
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrInvalidValue, raw)
	}
	if value < min {
		return 0, fmt.Errorf("%w: %d is below the minimum %d", ErrInvalidValue, value, min)
	}
	return value, nil
}

func parseThreshold(raw string) (float32, error) {
	value, err := strconv.ParseFloat(raw, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidValue, raw)
	}
	if value < 0 || value > 1 {
		return 0, fmt.Errorf("%w: %v is outside [0, 1]", ErrInvalidValue, value)
	}
	return float32(value), nil
}
