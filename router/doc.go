// Package router orchestrates the question answering pipeline.
//
// A query flows through classification, a semantic cache lookup, and on
// a cache miss through web search, official-domain URL filtering,
// scraping, indexing and a second index search before the language
// model writes the answer. When every retrieval stage comes up empty
// the model answers from its own knowledge, and when even that fails
// the user still gets a localized message. The whole pipeline runs
// under one aggregate deadline.
package router
