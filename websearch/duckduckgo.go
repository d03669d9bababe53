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


package websearch

import (
	"context"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/campusloop/unibot/core"
)

const duckduckgoEndpoint = "https://html.duckduckgo.com/html/"

// ddgUserAgent mimics a browser; the HTML endpoint rejects obvious bots.
const ddgUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0"

var (
	ddgResultRe  = regexp.MustCompile(`(?is)<a[^>]+class="result__a"[^>]+href="([^"]+)"[^>]*>(.*?)</a>`)
	ddgSnippetRe = regexp.MustCompile(`(?is)<a[^>]+class="result__snippet"[^>]*>(.*?)</a>`)
	ddgTagRe     = regexp.MustCompile(`(?s)<[^>]*>`)
)

// DuckDuckGoProvider scrapes the DuckDuckGo HTML endpoint. It needs no
// credentials, making it the last-resort provider in the chain.
type DuckDuckGoProvider struct {
	client *http.Client
	logger *slog.Logger
}

var _ Provider = (*DuckDuckGoProvider)(nil)

// NewDuckDuckGoProvider creates a credential-free DuckDuckGo provider.
func NewDuckDuckGoProvider(client *http.Client) *DuckDuckGoProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &DuckDuckGoProvider{
		client: client,
		logger: slog.Default().With("component", "duckduckgo"),
	}
}

// Name identifies the provider in logs.
func (p *DuckDuckGoProvider) Name() string {
	return "duckduckgo"
}

// Available always returns true; no credentials are needed.
func (p *DuckDuckGoProvider) Available() bool {
	return true
}

// Search runs the query against the DuckDuckGo HTML endpoint.
func (p *DuckDuckGoProvider) Search(ctx context.Context, query, siteRestrict string, limit int) ([]Result, error) {
	params := url.Values{}
	params.Set("q", restrictQuery(query, siteRestrict))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, duckduckgoEndpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", ddgUserAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: duckduckgo returned status %d", core.ErrProviderUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	results := parseDuckDuckGoHTML(string(body), limit)
	p.logger.Debug("duckduckgo search complete", "query", query, "results", len(results))
	return results, nil
}

// parseDuckDuckGoHTML extracts result links and snippets from the HTML
// response without a full DOM parse.
func parseDuckDuckGoHTML(page string, limit int) []Result {
	links := ddgResultRe.FindAllStringSubmatch(page, -1)
	snippets := ddgSnippetRe.FindAllStringSubmatch(page, -1)

	results := make([]Result, 0, len(links))
	for i, link := range links {
		if len(results) >= limit {
			break
		}

		target := resolveDuckDuckGoURL(html.UnescapeString(link[1]))
		if target == "" {
			continue
		}

		snippet := ""
		if i < len(snippets) {
			snippet = cleanFragment(snippets[i][1])
		}

		results = append(results, Result{
			URL:     target,
			Title:   cleanFragment(link[2]),
			Snippet: snippet,
		})
	}
	return results
}

// resolveDuckDuckGoURL unwraps the redirect links ("/l/?uddg=...") the HTML
// endpoint uses, returning the real destination.
func resolveDuckDuckGoURL(raw string) string {
	if strings.HasPrefix(raw, "//") {
		raw = "https:" + raw
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if uddg := parsed.Query().Get("uddg"); uddg != "" {
		return uddg
	}
	if parsed.Scheme == "http" || parsed.Scheme == "https" {
		return raw
	}
	return ""
}

// cleanFragment strips markup from an inline HTML fragment.
func cleanFragment(fragment string) string {
	text := ddgTagRe.ReplaceAllString(fragment, "")
	return strings.TrimSpace(html.UnescapeString(text))
}
