package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"strconv"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Document represents one retrieved web page. Documents are immutable once
// inserted into the index; a later scrape of the same URL becomes a new
// record with a new ID, and ranking resolves staleness by recency.
type Document struct {
	Id         ID
	URL        string
	Title      string
	Contents   string    // cleaned body text
	Topic      Topic     // inherited from the query that caused retrieval
	Retrieved  time.Time // when the page was scraped
	InsertedAt time.Time // when the record was inserted into the index
	Vector     []float32 // embedding vector (populated before insertion)
}

// IdentityKey returns the string hashed into the Document's ID.
// It includes the retrieval timestamp so repeated scrapes of one URL
// produce distinct records.
func (d *Document) IdentityKey() string {
	return d.URL + "@" + strconv.FormatInt(d.Retrieved.UnixMicro(), 10)
}

// Age returns how long ago the document was retrieved.
func (d *Document) Age(now time.Time) time.Duration {
	return now.Sub(d.Retrieved)
}

// SearchResult represents a document match from vector similarity search.
type SearchResult struct {
	Document *Document
	Score    float32
}

// Match is the caller-facing projection of a SearchResult.
type Match struct {
	URL   string
	Title string
	Score float32
}
