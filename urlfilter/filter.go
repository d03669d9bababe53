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


// Package urlfilter restricts scraping to official university pages.
//
// The filter is the trust boundary between external search results and the
// scraper: only URLs whose host exactly matches or is a subdomain of a
// configured official domain pass, and links to binary files are rejected
// by extension. Filtering is deterministic and preserves input order.
package urlfilter

import (
	"log/slog"
	"net/url"
	"strings"

	"github.com/campusloop/unibot/websearch"
)

// defaultBlockedExtensions lists file types the scraper cannot extract text
// from.
var defaultBlockedExtensions = []string{
	".pdf", ".jpg", ".jpeg", ".png", ".gif", ".mp4", ".zip",
	".doc", ".docx", ".ppt", ".pptx", ".xls", ".xlsx",
}

// Filter validates and deduplicates search result URLs against a set of
// official domains.
type Filter struct {
	officialDomains   []string
	blockedExtensions []string
	logger            *slog.Logger
}

// Option is a functional option for configuring a Filter.
type Option func(*Filter)

// WithBlockedExtensions overrides the default blocked extension list.
func WithBlockedExtensions(exts []string) Option {
	return func(f *Filter) {
		f.blockedExtensions = exts
	}
}

// WithLogger sets the logger used by the filter.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Filter) {
		f.logger = logger
	}
}

// New creates a Filter for the given official domains. Domains may be given
// with or without scheme and "www." prefix; both are stripped for matching.
// With no official domains configured, domain filtering is disabled and only
// the extension check applies.
func New(officialDomains []string, opts ...Option) *Filter {
	cleaned := make([]string, 0, len(officialDomains))
	for _, domain := range officialDomains {
		if d := cleanDomain(domain); d != "" {
			cleaned = append(cleaned, d)
		}
	}

	f := &Filter{
		officialDomains:   cleaned,
		blockedExtensions: defaultBlockedExtensions,
		logger:            slog.Default().With("component", "urlfilter"),
	}
	for _, opt := range opts {
		opt(f)
	}

	if len(f.officialDomains) == 0 {
		f.logger.Warn("no official domains configured, domain filtering disabled")
	}
	return f
}

// Apply filters search results down to unique, official, scrapeable URLs,
// preserving first-seen order.
func (f *Filter) Apply(results []websearch.Result) []websearch.Result {
	seen := make(map[string]struct{}, len(results))
	filtered := make([]websearch.Result, 0, len(results))

	for _, result := range results {
		if result.URL == "" {
			continue
		}
		if !f.IsOfficial(result.URL) {
			f.logger.Debug("rejected non-official url", "url", result.URL)
			continue
		}
		if f.isBlockedExtension(result.URL) {
			f.logger.Debug("rejected binary file url", "url", result.URL)
			continue
		}

		key := normalizeURL(result.URL)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		filtered = append(filtered, result)
	}

	f.logger.Debug("url filter applied", "in", len(results), "out", len(filtered))
	return filtered
}

// IsOfficial reports whether the URL's host exactly matches or is a
// subdomain of a configured official domain. Path segments that merely
// mention an official domain do not count.
func (f *Filter) IsOfficial(raw string) bool {
	if len(f.officialDomains) == 0 {
		return true
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		f.logger.Debug("unparseable url rejected", "url", raw, "err", err)
		return false
	}

	host := strings.ToLower(parsed.Hostname())
	host = strings.TrimPrefix(host, "www.")
	if host == "" {
		return false
	}

	for _, domain := range f.officialDomains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

func (f *Filter) isBlockedExtension(raw string) bool {
	lowered := strings.ToLower(raw)
	for _, ext := range f.blockedExtensions {
		if strings.HasSuffix(lowered, ext) {
			return true
		}
	}
	return false
}

// cleanDomain strips scheme, "www." prefix, and trailing slashes from a
// configured domain.
func cleanDomain(domain string) string {
	d := strings.TrimSpace(strings.ToLower(domain))
	d = strings.TrimPrefix(d, "https://")
	d = strings.TrimPrefix(d, "http://")
	d = strings.TrimPrefix(d, "www.")
	return strings.TrimSuffix(d, "/")
}

// normalizeURL produces the deduplication key: lowercased host without
// "www.", query and fragment stripped, trailing slash trimmed.
func normalizeURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	host := strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
	path := strings.TrimSuffix(parsed.EscapedPath(), "/")
	return host + path
}
