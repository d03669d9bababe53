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


// Package search provides semantic search over the document index and the
// cache-hit decision built on top of it.
//
// The Searcher embeds the query, runs a cosine-similarity search against
// the index (topic-restricted first, unrestricted on a topic miss), and
// applies a verbatim keyword boost so documents containing every meaningful
// query word outrank pure vector neighbors.
//
// IsCacheHit decides whether the top match can answer the query without a
// fresh web search: its score must strictly exceed the policy's hit
// threshold and the document must be strictly younger than the freshness
// ceiling. Both comparisons are strict; a score exactly at the threshold or
// a document exactly at the ceiling forces a fresh search.
package search
