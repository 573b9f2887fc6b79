package indexing

import (
	"fmt"
	"sync/atomic"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search"
)

// mockIndex is a simple in-memory mock of the Index interface for testing
type mockIndex struct {
	hits        []string // IDs returned by every search, best first
	searchError error
	closeError  error
	closed      atomic.Bool
	lastSize    int
}

// newMockIndex creates a new mock index that answers every search with ids
func newMockIndex(ids ...string) *mockIndex {
	return &mockIndex{hits: ids}
}

func (m *mockIndex) Search(req *bleve.SearchRequest) (*bleve.SearchResult, error) {
	if m.closed.Load() {
		return nil, fmt.Errorf("index closed")
	}
	if m.searchError != nil {
		return nil, m.searchError
	}
	m.lastSize = req.Size

	hits := make(search.DocumentMatchCollection, 0, len(m.hits))
	for i, id := range m.hits {
		hits = append(hits, &search.DocumentMatch{ID: id, Score: float64(len(m.hits) - i)})
	}
	return &bleve.SearchResult{
		Request: req,
		Hits:    hits,
		Total:   uint64(len(hits)),
	}, nil
}

func (m *mockIndex) DocCount() (uint64, error) {
	if m.closed.Load() {
		return 0, fmt.Errorf("index closed")
	}
	return uint64(len(m.hits)), nil
}

func (m *mockIndex) Close() error {
	if m.closed.Load() {
		return fmt.Errorf("already closed")
	}
	m.closed.Store(true)
	return m.closeError
}

// IsClosed returns true if the index has been closed
func (m *mockIndex) IsClosed() bool {
	return m.closed.Load()
}
