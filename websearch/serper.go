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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/campusloop/unibot/core"
)

const serperEndpoint = "https://google.serper.dev/search"

// SerperProvider queries the Serper API (https://serper.dev).
// Results are biased toward Bangladesh (gl=bd) and Bengali (hl=bn).
type SerperProvider struct {
	apiKey string
	client *http.Client
	logger *slog.Logger
}

var _ Provider = (*SerperProvider)(nil)

// NewSerperProvider creates a Serper-backed provider. An empty apiKey makes
// the provider unavailable rather than failing.
func NewSerperProvider(apiKey string, client *http.Client) *SerperProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &SerperProvider{
		apiKey: apiKey,
		client: client,
		logger: slog.Default().With("component", "serper"),
	}
}

// Name identifies the provider in logs.
func (p *SerperProvider) Name() string {
	return "serper"
}

// Available reports whether an API key is configured.
func (p *SerperProvider) Available() bool {
	return p.apiKey != ""
}

type serperRequest struct {
	Q   string `json:"q"`
	Num int    `json:"num"`
	GL  string `json:"gl"`
	HL  string `json:"hl"`
}

type serperResponse struct {
	Organic []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic"`
}

// Search runs the query against Serper.
func (p *SerperProvider) Search(ctx context.Context, query, siteRestrict string, limit int) ([]Result, error) {
	payload, err := json.Marshal(serperRequest{
		Q:   restrictQuery(query, siteRestrict),
		Num: limit,
		GL:  "bd",
		HL:  "bn",
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, serperEndpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-KEY", p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: serper returned status %d", core.ErrProviderUnavailable, resp.StatusCode)
	}

	var parsed serperResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(parsed.Organic))
	for _, item := range parsed.Organic {
		if len(results) >= limit {
			break
		}
		results = append(results, Result{
			URL:     item.Link,
			Title:   item.Title,
			Snippet: item.Snippet,
		})
	}

	p.logger.Debug("serper search complete", "query", query, "results", len(results))
	return results, nil
}
