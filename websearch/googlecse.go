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
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/campusloop/unibot/core"
)

const googleCSEEndpoint = "https://www.googleapis.com/customsearch/v1"

// googleCSEMaxResults is the per-request cap imposed by the API.
const googleCSEMaxResults = 10

// GoogleCSEProvider queries the Google Custom Search JSON API.
type GoogleCSEProvider struct {
	apiKey   string
	engineID string
	client   *http.Client
	logger   *slog.Logger
}

var _ Provider = (*GoogleCSEProvider)(nil)

// NewGoogleCSEProvider creates a Google Custom Search provider. Both the API
// key and the search engine ID are required for availability.
func NewGoogleCSEProvider(apiKey, engineID string, client *http.Client) *GoogleCSEProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &GoogleCSEProvider{
		apiKey:   apiKey,
		engineID: engineID,
		client:   client,
		logger:   slog.Default().With("component", "google-cse"),
	}
}

// Name identifies the provider in logs.
func (p *GoogleCSEProvider) Name() string {
	return "google-cse"
}

// Available reports whether both credentials are configured.
func (p *GoogleCSEProvider) Available() bool {
	return p.apiKey != "" && p.engineID != ""
}

type googleCSEResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"items"`
}

// Search runs the query against the Custom Search API.
func (p *GoogleCSEProvider) Search(ctx context.Context, query, siteRestrict string, limit int) ([]Result, error) {
	num := limit
	if num > googleCSEMaxResults {
		num = googleCSEMaxResults
	}

	params := url.Values{}
	params.Set("key", p.apiKey)
	params.Set("cx", p.engineID)
	params.Set("q", restrictQuery(query, siteRestrict))
	params.Set("num", strconv.Itoa(num))
	params.Set("gl", "bd")
	params.Set("lr", "lang_bn|lang_en")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleCSEEndpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: google cse returned status %d", core.ErrProviderUnavailable, resp.StatusCode)
	}

	var parsed googleCSEResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if len(results) >= limit {
			break
		}
		results = append(results, Result{
			URL:     item.Link,
			Title:   item.Title,
			Snippet: item.Snippet,
		})
	}

	p.logger.Debug("google cse search complete", "query", query, "results", len(results))
	return results, nil
}
