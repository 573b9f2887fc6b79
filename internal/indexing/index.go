package indexing

import (
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
)

// Index is an interface that abstracts bleve.Index operations
// This allows for easier testing with mocks
type Index interface {
	// Search executes a search request
	Search(req *bleve.SearchRequest) (*bleve.SearchResult, error)

	// DocCount returns the number of documents in the index
	DocCount() (uint64, error)

	// Close closes the index
	Close() error
}

// bleveIndexWrapper wraps a bleve.Index to implement our Index interface
type bleveIndexWrapper struct {
	index bleve.Index
}

// NewBleveIndexWrapper wraps a bleve.Index
func NewBleveIndexWrapper(index bleve.Index) Index {
	return &bleveIndexWrapper{index: index}
}

func (w *bleveIndexWrapper) Search(req *bleve.SearchRequest) (*bleve.SearchResult, error) {
	return w.index.Search(req)
}

func (w *bleveIndexWrapper) DocCount() (uint64, error) {
	return w.index.DocCount()
}

func (w *bleveIndexWrapper) Close() error {
	return w.index.Close()
}

// TopicHit is a topic matched by a lookup, with its relevance score.
type TopicHit struct {
	Topic Topic   `json:"topic"`
	Score float64 `json:"score"`
}

// TopicIndex is an in-memory search index over syllabus topics.
type TopicIndex struct {
	index  Index
	topics map[string]Topic
}

// NewTopicIndex indexes topics in a fresh in-memory bleve index.
func NewTopicIndex(topics []Topic) (*TopicIndex, error) {
	mapping := bleve.NewIndexMapping()
	index, err := bleve.NewMemOnly(mapping)
	if err != nil {
		return nil, fmt.Errorf("failed to create topic index: %w", err)
	}

	batch := index.NewBatch()
	for _, topic := range topics {
		if err := batch.Index(topic.ID, topic); err != nil {
			index.Close()
			return nil, fmt.Errorf("failed to add topic %s to batch: %w", topic.ID, err)
		}
	}
	if batch.Size() > 0 {
		if err := index.Batch(batch); err != nil {
			index.Close()
			return nil, fmt.Errorf("failed to index topics: %w", err)
		}
	}

	return newTopicIndex(NewBleveIndexWrapper(index), topics), nil
}

func newTopicIndex(index Index, topics []Topic) *TopicIndex {
	byID := make(map[string]Topic, len(topics))
	for _, topic := range topics {
		byID[topic.ID] = topic
	}
	return &TopicIndex{index: index, topics: byID}
}

// Lookup runs a match query over the topic documents and returns up to
// maxResults hits ordered by score, plus the total number of matches.
func (t *TopicIndex) Lookup(query string, maxResults int) ([]TopicHit, int, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []TopicHit{}, 0, nil
	}

	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	if maxResults > MaxResultsLimit {
		maxResults = MaxResultsLimit
	}

	search := bleve.NewSearchRequest(bleve.NewMatchQuery(query))
	search.Size = maxResults

	result, err := t.index.Search(search)
	if err != nil {
		return nil, 0, fmt.Errorf("search failed: %w", err)
	}

	hits := make([]TopicHit, 0, len(result.Hits))
	for _, hit := range result.Hits {
		topic, ok := t.topics[hit.ID]
		if !ok {
			continue
		}
		hits = append(hits, TopicHit{Topic: topic, Score: hit.Score})
	}
	return hits, int(result.Total), nil
}

// DocCount returns the number of indexed topics.
func (t *TopicIndex) DocCount() (uint64, error) {
	return t.index.DocCount()
}

// Close closes the underlying index.
func (t *TopicIndex) Close() error {
	return t.index.Close()
}
