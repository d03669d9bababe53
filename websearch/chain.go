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
	"log/slog"
	"time"

	"github.com/campusloop/unibot/core"
	gocache "github.com/patrickmn/go-cache"
)

// DefaultProviderTimeout bounds each provider attempt so a hanging backend
// cannot consume the whole query budget.
const DefaultProviderTimeout = 8 * time.Second

// DefaultMemoTTL is how long identical lookups are served from memory.
const DefaultMemoTTL = 5 * time.Minute

// Chain tries an ordered list of providers and returns the first non-empty
// result set. Results from different providers are never merged.
type Chain struct {
	providers       []Provider
	providerTimeout time.Duration
	memo            *gocache.Cache
	logger          *slog.Logger
}

// ChainOption is a functional option for configuring a Chain.
type ChainOption func(*Chain)

// WithProviderTimeout overrides the per-provider attempt timeout.
func WithProviderTimeout(d time.Duration) ChainOption {
	return func(c *Chain) {
		c.providerTimeout = d
	}
}

// WithMemoTTL overrides how long identical lookups are memoized.
// A non-positive TTL disables memoization.
func WithMemoTTL(ttl time.Duration) ChainOption {
	return func(c *Chain) {
		if ttl <= 0 {
			c.memo = nil
			return
		}
		c.memo = gocache.New(ttl, 2*ttl)
	}
}

// WithLogger sets the logger used by the chain.
func WithLogger(logger *slog.Logger) ChainOption {
	return func(c *Chain) {
		c.logger = logger
	}
}

// NewChain creates a provider chain. Providers are tried in the given order;
// unavailable ones are skipped without an attempt.
func NewChain(providers []Provider, opts ...ChainOption) *Chain {
	c := &Chain{
		providers:       providers,
		providerTimeout: DefaultProviderTimeout,
		memo:            gocache.New(DefaultMemoTTL, 2*DefaultMemoTTL),
		logger:          slog.Default().With("component", "search-chain"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search runs the query through the chain. The first provider returning a
// non-empty result set wins; errors and empty sets fall through to the next
// provider. When every provider fails or returns nothing, the result is an
// empty list and ErrProviderUnavailable.
func (c *Chain) Search(ctx context.Context, query, siteRestrict string, limit int) ([]Result, error) {
	memoKey := query + "\x00" + siteRestrict
	if c.memo != nil {
		if cached, ok := c.memo.Get(memoKey); ok {
			c.logger.Debug("serving memoized search results", "query", query)
			return cached.([]Result), nil
		}
	}

	for _, provider := range c.providers {
		if !provider.Available() {
			c.logger.Debug("skipping unavailable provider", "provider", provider.Name())
			continue
		}

		attemptCtx, cancel := context.WithTimeout(ctx, c.providerTimeout)
		results, err := provider.Search(attemptCtx, query, siteRestrict, limit)
		cancel()

		if err != nil {
			c.logger.Warn("search provider failed, falling through",
				"provider", provider.Name(), "err", err)
			continue
		}
		if len(results) == 0 {
			c.logger.Debug("provider returned no results",
				"provider", provider.Name(), "query", query)
			continue
		}

		c.logger.Info("search complete",
			"provider", provider.Name(), "query", query, "results", len(results))
		if c.memo != nil {
			c.memo.Set(memoKey, results, gocache.DefaultExpiration)
		}
		return results, nil
	}

	c.logger.Warn("all search providers exhausted", "query", query)
	return nil, core.ErrProviderUnavailable
}
