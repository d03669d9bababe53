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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrEmptyURL indicates the URL field is empty.
	ErrEmptyURL = errors.New("url cannot be empty")

	// ErrEmptyContents indicates the Contents field is empty.
	ErrEmptyContents = errors.New("contents cannot be empty")

	// ErrInvalidTimestamp indicates a timestamp is in the future.
	ErrInvalidTimestamp = errors.New("timestamp cannot be in the future")

	// ErrInvalidTopic indicates an undefined Topic value.
	ErrInvalidTopic = errors.New("invalid topic")
)

// Pipeline failure taxonomy. Each of these is recovered from within the
// pipeline and logged; none aborts a query.
var (
	// ErrProviderUnavailable indicates a search or LLM backend is down or
	// unconfigured. Recovered by falling through to the next provider.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrFetchFailed indicates a URL was unreachable or served non-HTML
	// content. Recovered by skipping the URL.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrEmbeddingUnavailable indicates the embedding service could not be
	// reached. Surfaced as a degraded response with empty context.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrIndexCorrupt indicates the persisted index could not be read.
	// Recovered by reinitializing an empty index.
	ErrIndexCorrupt = errors.New("semantic index corrupt")
)
