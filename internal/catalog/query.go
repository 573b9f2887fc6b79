package catalog

import (
	"errors"
	"strconv"

	"github.com/pyqhub/mcp-server/internal/indexing"
	"github.com/pyqhub/mcp-server/internal/questions"
)

// ErrTopicIndexUnavailable is returned by LookupTopics when the index could
// not be built for the snapshot's syllabus.
var ErrTopicIndexUnavailable = errors.New("topic index unavailable")

// Resolution is the unit owning a chapter code.
type Resolution struct {
	Code      string `json:"code"`
	Found     bool   `json:"found"`
	Unit      int    `json:"unit"`
	UnitTitle string `json:"unit_title,omitempty"` // empty when the unit is a floor fallback
}

// Resolve finds the unit owning code in the catalog's syllabus.
func (c *Catalog) Resolve(code questions.ChapterCode) Resolution {
	res := Resolution{Code: code.String()}
	unit, ok := questions.UnitOf(code, c.Syllabus)
	if !ok {
		return res
	}
	res.Found = true
	res.Unit = unit
	if c.Syllabus != nil {
		for _, u := range c.Syllabus.Units {
			if u.Number == unit {
				res.UnitTitle = u.Title
				break
			}
		}
	}
	return res
}

// TopicMatch is a syllabus node found by LookupTopics, with the selection
// that reaches it and the number of questions filed under it.
type TopicMatch struct {
	Topic      indexing.Topic `json:"topic"`
	Score      float64        `json:"score"`
	Questions  int            `json:"questions"`
	Unit       int            `json:"unit"`
	Chapter    *float64       `json:"chapter,omitempty"`
	Subchapter *string        `json:"subchapter,omitempty"`
}

// State returns the filter selection of the matched node.
func (m TopicMatch) State() questions.FilterState {
	return questions.FilterState{
		Unit:       questions.Ptr(m.Unit),
		Chapter:    m.Chapter,
		Subchapter: m.Subchapter,
	}
}

// LookupTopics searches the snapshot's topic index. Call it inside
// Store.View so the index stays open.
func (snap *Snapshot) LookupTopics(query string, maxResults int) ([]TopicMatch, int, error) {
	if snap.Topics == nil {
		return nil, 0, ErrTopicIndexUnavailable
	}

	hits, total, err := snap.Topics.Lookup(query, maxResults)
	if err != nil {
		return nil, 0, err
	}

	matches := make([]TopicMatch, 0, len(hits))
	for _, hit := range hits {
		m := TopicMatch{Topic: hit.Topic, Score: hit.Score, Unit: hit.Topic.Unit}
		if hit.Topic.Chapter != "" {
			if n, err := strconv.ParseFloat(hit.Topic.Chapter, 64); err == nil {
				m.Chapter = &n
			}
		}
		if hit.Topic.Kind == indexing.KindSubchapter {
			m.Subchapter = questions.Ptr(hit.Topic.Code)
		}
		m.Questions = questions.Count(snap.Catalog.Questions, m.State(), snap.Catalog.Syllabus)
		matches = append(matches, m)
	}
	return matches, total, nil
}
