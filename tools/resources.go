package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	syllabusURI = "pyqhub://syllabus"
	yearsURI    = "pyqhub://years"
)

// RegisterResources exposes the syllabus and the year list as MCP resources.
func (ts *Toolset) RegisterResources(server *mcp.Server) int {
	server.AddResource(&mcp.Resource{
		URI:         syllabusURI,
		Name:        "syllabus",
		Description: "Syllabus tree (units, chapters, subchapters) of the loaded question bank",
		MIMEType:    "application/json",
	}, ts.readSyllabus)

	server.AddResource(&mcp.Resource{
		URI:         yearsURI,
		Name:        "years",
		Description: "Distinct exam years and question types of the loaded question bank",
		MIMEType:    "application/json",
	}, ts.readYears)

	return 2
}

func (ts *Toolset) readSyllabus(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	cat, err := ts.current()
	if err != nil {
		return nil, err
	}
	return jsonResource(syllabusURI, cat.Syllabus)
}

func (ts *Toolset) readYears(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	cat, err := ts.current()
	if err != nil {
		return nil, err
	}
	return jsonResource(yearsURI, ListYearsOutput{
		Years:     cat.Years,
		Types:     cat.Types,
		Questions: len(cat.Questions),
	})
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
