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


// Package storage provides the storage abstraction layer for the semantic
// index.
//
// This package defines the repository interface that decouples the index's
// persistence from the retrieval pipeline, allowing different backends
// (BadgerDB, in-memory) to be used interchangeably.
//
// # Constructor Return Type Pattern
//
// Public constructors return the storage.DocumentRepository interface to
// enforce abstraction:
//
//	repo, err := badger.NewDocumentRepository(backend)
//
// Internal package constructors may return concrete types since they're only
// used within the implementation package.
//
// # Durability
//
// Every insertion batch is committed to the backing store before
// AddDocuments returns, so the index survives process restarts. A corrupt or
// missing store is treated as an empty index, never as a startup failure.
//
// # Thread Safety
//
// Implementations must serialize writes while allowing concurrent reads; a
// search never observes a partially written record. Each insertion is atomic
// at single-document granularity.
package storage
