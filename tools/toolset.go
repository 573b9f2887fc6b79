package tools

import (
	"go.uber.org/zap"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pyqhub/mcp-server/internal/catalog"
	"github.com/pyqhub/mcp-server/internal/provider"
)

// Toolset holds the state shared by the question bank tools.
type Toolset struct {
	store    *catalog.Store
	provider provider.Provider
	opts     catalog.Options
	checker  *catalog.Checker // nil disables check_question_bank
	log      *zap.Logger
}

// NewToolset creates a toolset over store. The provider and options are used
// by check_question_bank to re-read the source files.
func NewToolset(store *catalog.Store, p provider.Provider, opts catalog.Options, checker *catalog.Checker, log *zap.Logger) *Toolset {
	return &Toolset{
		store:    store,
		provider: p,
		opts:     opts,
		checker:  checker,
		log:      log,
	}
}

// Register registers every question bank tool and returns how many were added.
func (ts *Toolset) Register(server *mcp.Server) int {
	count := 0

	// Tool 1: filter_questions
	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "filter_questions",
			Description: "Filter past exam questions by free-text search, year, marks range (low: up to 4, medium: 5-8, high: 9+), question type, and a unit/chapter/subchapter selection. Units are resolved through the syllabus, so a question tagged only with a subchapter code still matches its unit. Returns the matching questions with a heading.",
		},
		ts.FilterQuestions,
	)
	count++

	// Tool 2: list_years
	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "list_years",
			Description: "List the distinct exam years (sorted as text) and question types present in the question bank. Use the values as year and type filters.",
		},
		ts.ListYears,
	)
	count++

	// Tool 3: resolve_unit
	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "resolve_unit",
			Description: "Resolve a chapter code (a number such as 5.1 or a string such as \"5.1.1\") to the syllabus unit that owns it.",
		},
		ts.ResolveUnit,
	)
	count++

	// Tool 4: total_marks
	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "total_marks",
			Description: "Compute the total of a marks descriptor such as \"2+6\" and its marks band.",
		},
		ts.TotalMarks,
	)
	count++

	// Tool 5: browse_syllabus
	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "browse_syllabus",
			Description: "Return the syllabus tree (units, chapters, subchapters) with the number of questions available under each node, optionally narrowed by search, year, marks and type.",
		},
		ts.BrowseSyllabus,
	)
	count++

	// Tool 6: lookup_topic
	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "lookup_topic",
			Description: "Find syllabus units, chapters and subchapters by keyword (e.g. \"Leibniz\", \"variation of parameters\"). Returns codes usable as unit/chapter/subchapter filters.",
		},
		ts.LookupTopic,
	)
	count++

	// Tool 7: reload_catalog
	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "reload_catalog",
			Description: "Re-read the question files and the syllabus from the configured data source and swap them in. In-flight requests keep the previous data.",
		},
		ts.ReloadCatalog,
	)
	count++

	if ts.checker != nil {
		// Tool 8: check_question_bank
		mcp.AddTool(server,
			&mcp.Tool{
				Name:        "check_question_bank",
				Description: "Validate every question file and the syllabus of the data source against the bank's JSON schemas and report problems per file. Reporting only: loading stays lenient.",
			},
			ts.CheckQuestionBank,
		)
		count++
	}

	return count
}
