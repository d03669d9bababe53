// Package ingestion seeds the document index from official university
// URLs ahead of user queries.
//
// The Pipeline scrapes the given pages, classifies each document's
// topic from its content, generates embeddings, and stores the results.
// URL batches are processed concurrently by a worker pool; failures are
// logged per batch and do not abort the run.
package ingestion
