package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/pyqhub/mcp-server/internal/catalog"
	"github.com/pyqhub/mcp-server/internal/questions"
)

// ErrInvalidInput is returned for tool arguments that cannot be interpreted.
var ErrInvalidInput = errors.New("invalid input")

// FilterQuestionsInput defines input for filter_questions tool
type FilterQuestionsInput struct {
	Search     string   `json:"search,omitempty" jsonschema:"Case-insensitive text to look for in the question text"`
	Year       string   `json:"year,omitempty" jsonschema:"Exact exam year label, as returned by list_years"`
	Marks      string   `json:"marks,omitempty" jsonschema:"Marks range: low, medium or high. Empty for all marks"`
	Type       string   `json:"type,omitempty" jsonschema:"Exact question type, e.g. Regular or Back"`
	Unit       *int     `json:"unit,omitempty" jsonschema:"Syllabus unit number"`
	Chapter    *float64 `json:"chapter,omitempty" jsonschema:"Syllabus chapter number, e.g. 5.1"`
	Subchapter *string  `json:"subchapter,omitempty" jsonschema:"Syllabus subchapter code, e.g. 5.1.1. Overrides chapter"`
	Highlight  bool     `json:"highlight,omitempty" jsonschema:"Split each question into segments marking the search matches"`
}

// FilterQuestionsOutput defines output for filter_questions tool
type FilterQuestionsOutput struct {
	Heading    questions.Heading `json:"heading"`
	MarksLabel string            `json:"marks_label"`
	Count      int               `json:"count"`
	Questions  []questions.View  `json:"questions"`
}

// ListYearsInput defines input for list_years tool
type ListYearsInput struct{}

// ListYearsOutput defines output for list_years tool
type ListYearsOutput struct {
	Years     []string `json:"years"`
	Types     []string `json:"types"`
	Questions int      `json:"questions"`
}

// ResolveUnitInput defines input for resolve_unit tool
type ResolveUnitInput struct {
	Chapter *float64 `json:"chapter,omitempty" jsonschema:"Numeric chapter code, e.g. 5.1"`
	Code    *string  `json:"code,omitempty" jsonschema:"String chapter code, e.g. 5.1.1"`
}

// ResolveUnitOutput defines output for resolve_unit tool
type ResolveUnitOutput struct {
	catalog.Resolution
}

// TotalMarksInput defines input for total_marks tool
type TotalMarksInput struct {
	Marks string `json:"marks" jsonschema:"Marks descriptor, e.g. 5 or 2+6"`
}

// TotalMarksOutput defines output for total_marks tool
type TotalMarksOutput struct {
	Marks string         `json:"marks"`
	Total int            `json:"total"`
	Band  questions.Band `json:"band"`
}

// FilterState builds the core filter criteria from the tool input.
func (in FilterQuestionsInput) FilterState() (questions.FilterState, error) {
	marks, ok := questions.ParseMarksRange(in.Marks)
	if !ok {
		return questions.FilterState{}, fmt.Errorf("%w: marks range %q (want low, medium or high)", ErrInvalidInput, in.Marks)
	}
	return questions.FilterState{
		SearchTerm:   in.Search,
		Year:         in.Year,
		MarksRange:   marks,
		QuestionType: in.Type,
		Unit:         in.Unit,
		Chapter:      in.Chapter,
		Subchapter:   in.Subchapter,
	}, nil
}

// current returns the catalog in use, or ErrNotLoaded.
func (ts *Toolset) current() (*catalog.Catalog, error) {
	cat := ts.store.Current()
	if cat == nil {
		return nil, catalog.ErrNotLoaded
	}
	return cat, nil
}

// FilterQuestions filters the question bank
func (ts *Toolset) FilterQuestions(ctx context.Context, req *mcp.CallToolRequest, input FilterQuestionsInput) (*mcp.CallToolResult, FilterQuestionsOutput, error) {
	state, err := input.FilterState()
	if err != nil {
		return nil, FilterQuestionsOutput{}, err
	}
	cat, err := ts.current()
	if err != nil {
		return nil, FilterQuestionsOutput{}, err
	}

	matched := cat.Filter(state)

	term := ""
	if input.Highlight {
		term = state.SearchTerm
	}

	ts.log.Debug("filter_questions",
		zap.String("search", state.SearchTerm),
		zap.String("year", state.Year),
		zap.String("marks", string(state.MarksRange)),
		zap.Int("matched", len(matched)),
	)

	return nil, FilterQuestionsOutput{
		Heading:    questions.HeadingFor(state, len(matched)),
		MarksLabel: questions.RangeLabel(state.MarksRange),
		Count:      len(matched),
		Questions:  questions.NewViews(matched, term),
	}, nil
}

// ListYears lists the exam years and question types in the bank
func (ts *Toolset) ListYears(ctx context.Context, req *mcp.CallToolRequest, input ListYearsInput) (*mcp.CallToolResult, ListYearsOutput, error) {
	cat, err := ts.current()
	if err != nil {
		return nil, ListYearsOutput{}, err
	}
	return nil, ListYearsOutput{
		Years:     cat.Years,
		Types:     cat.Types,
		Questions: len(cat.Questions),
	}, nil
}

// ResolveUnit resolves a chapter code to its unit
func (ts *Toolset) ResolveUnit(ctx context.Context, req *mcp.CallToolRequest, input ResolveUnitInput) (*mcp.CallToolResult, ResolveUnitOutput, error) {
	var code questions.ChapterCode
	switch {
	case input.Chapter != nil && input.Code != nil:
		return nil, ResolveUnitOutput{}, fmt.Errorf("%w: pass either chapter or code, not both", ErrInvalidInput)
	case input.Chapter != nil:
		code = questions.NumberCode(*input.Chapter)
	case input.Code != nil && strings.TrimSpace(*input.Code) != "":
		code = questions.StringCode(strings.TrimSpace(*input.Code))
	default:
		return nil, ResolveUnitOutput{}, fmt.Errorf("%w: chapter or code is required", ErrInvalidInput)
	}

	cat, err := ts.current()
	if err != nil {
		return nil, ResolveUnitOutput{}, err
	}

	return nil, ResolveUnitOutput{Resolution: cat.Resolve(code)}, nil
}

// TotalMarks computes the total of a marks descriptor
func (ts *Toolset) TotalMarks(ctx context.Context, req *mcp.CallToolRequest, input TotalMarksInput) (*mcp.CallToolResult, TotalMarksOutput, error) {
	marks := strings.TrimSpace(input.Marks)
	return nil, TotalMarksOutput{
		Marks: marks,
		Total: questions.TotalMarks(marks),
		Band:  questions.BandOf(marks),
	}, nil
}
