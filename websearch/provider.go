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

import "context"

// Result is one entry returned by an external search provider.
type Result struct {
	URL     string
	Title   string
	Snippet string
}

// Provider is a single external web search backend.
// Implementations must be thread-safe for concurrent use.
type Provider interface {
	// Name identifies the provider in logs.
	Name() string

	// Available reports whether the provider can be queried at all,
	// typically whether its credentials are configured. Unavailable
	// providers are skipped without an attempt.
	Available() bool

	// Search runs the query and returns results in provider order.
	// A non-empty siteRestrict limits results to that domain.
	Search(ctx context.Context, query, siteRestrict string, limit int) ([]Result, error)
}

// restrictQuery applies a site: operator the way search engines expect it.
func restrictQuery(query, siteRestrict string) string {
	if siteRestrict == "" {
		return query
	}
	return "site:" + siteRestrict + " " + query
}
