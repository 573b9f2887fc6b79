package tools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/pyqhub/mcp-server/internal/catalog"
	"github.com/pyqhub/mcp-server/internal/questions"
)

// BrowseSyllabusInput defines input for browse_syllabus tool
type BrowseSyllabusInput struct {
	Search string `json:"search,omitempty" jsonschema:"Only count questions containing this text"`
	Year   string `json:"year,omitempty" jsonschema:"Only count questions of this exam year"`
	Marks  string `json:"marks,omitempty" jsonschema:"Only count questions in this marks range: low, medium or high"`
	Type   string `json:"type,omitempty" jsonschema:"Only count questions of this type"`
}

// BrowseSyllabusOutput defines output for browse_syllabus tool
type BrowseSyllabusOutput struct {
	Units []questions.OutlineUnit `json:"units"`
	Total int                     `json:"total"` // questions matching the base filters
}

// LookupTopicInput defines input for lookup_topic tool
type LookupTopicInput struct {
	Query      string `json:"query" jsonschema:"Keywords to look for in syllabus titles"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"Maximum number of topics to return (default 10, max 50)"`
}

// LookupTopicOutput defines output for lookup_topic tool
type LookupTopicOutput struct {
	Query   string               `json:"query"`
	Total   int                  `json:"total"`
	Results []catalog.TopicMatch `json:"results"`
}

// BrowseSyllabus returns the syllabus outline with question counts
func (ts *Toolset) BrowseSyllabus(ctx context.Context, req *mcp.CallToolRequest, input BrowseSyllabusInput) (*mcp.CallToolResult, BrowseSyllabusOutput, error) {
	base, err := FilterQuestionsInput{
		Search: input.Search,
		Year:   input.Year,
		Marks:  input.Marks,
		Type:   input.Type,
	}.FilterState()
	if err != nil {
		return nil, BrowseSyllabusOutput{}, err
	}

	cat, err := ts.current()
	if err != nil {
		return nil, BrowseSyllabusOutput{}, err
	}

	return nil, BrowseSyllabusOutput{
		Units: questions.Outline(cat.Syllabus, cat.Questions, base),
		Total: questions.Count(cat.Questions, base, cat.Syllabus),
	}, nil
}

// LookupTopic searches syllabus topics by keyword
func (ts *Toolset) LookupTopic(ctx context.Context, req *mcp.CallToolRequest, input LookupTopicInput) (*mcp.CallToolResult, LookupTopicOutput, error) {
	if input.Query == "" {
		return nil, LookupTopicOutput{}, fmt.Errorf("%w: query is required", ErrInvalidInput)
	}

	out := LookupTopicOutput{Query: input.Query}
	err := ts.store.View(func(snap *catalog.Snapshot) error {
		matches, total, err := snap.LookupTopics(input.Query, input.MaxResults)
		if err != nil {
			return err
		}
		out.Results = matches
		out.Total = total
		return nil
	})
	if err != nil {
		return nil, LookupTopicOutput{}, fmt.Errorf("topic lookup failed: %w", err)
	}

	ts.log.Debug("lookup_topic", zap.String("query", input.Query), zap.Int("total", out.Total))
	return nil, out, nil
}
