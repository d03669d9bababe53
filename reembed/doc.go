// Package reembed rebuilds the vectors of every indexed document with a
// new or updated embedding model.
//
// Documents are loaded up front, re-embedded in batches with retry and
// exponential backoff, and written back through the repository. A model
// with a different dimensionality triggers the repository's index
// rebuild on the first write; because all documents are already in
// memory by then, none are lost. Vectors are normalized for cosine
// similarity search.
package reembed
