package search

import (
	"github.com/campusloop/unibot/core"
)

// Monitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type Monitor interface {
	Start(query string)
	AfterEmbedding(vector []float32)
	AfterIndexSearch(results []*core.SearchResult)
	VerbatimHit(doc *core.Document)
	Finish(results []*core.SearchResult)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                        {}
func (n *noopMonitor) AfterEmbedding(_ []float32)            {}
func (n *noopMonitor) AfterIndexSearch(_ []*core.SearchResult) {}
func (n *noopMonitor) VerbatimHit(_ *core.Document)          {}
func (n *noopMonitor) Finish(_ []*core.SearchResult)         {}
