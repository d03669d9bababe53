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


// Package websearch queries external web search backends through an ordered
// provider chain.
//
// Three providers are implemented: Serper (keyed), Google Custom Search
// (keyed) and the DuckDuckGo HTML endpoint (credential-free). The Chain
// tries them in order, skipping providers whose credentials are absent and
// falling through on errors or empty result sets. The first provider to
// return results wins; result sets are never merged across providers.
//
// Each attempt runs under its own timeout so a hanging backend cannot eat
// the caller's whole budget, and identical query+restriction lookups are
// memoized for a few minutes.
package websearch
