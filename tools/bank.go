package tools

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/pyqhub/mcp-server/internal/catalog"
)

// ErrCheckerDisabled is returned by check_question_bank when no checker is configured.
var ErrCheckerDisabled = errors.New("question bank checker not configured")

// ReloadCatalogInput defines input for reload_catalog tool
type ReloadCatalogInput struct{}

// ReloadCatalogOutput defines output for reload_catalog tool
type ReloadCatalogOutput struct {
	Questions int                  `json:"questions"`
	Units     int                  `json:"units"`
	Topics    int                  `json:"topics"`
	LoadedAt  string               `json:"loaded_at"` // RFC 3339
	Files     []catalog.FileStatus `json:"files"`
}

// CheckQuestionBankInput defines input for check_question_bank tool
type CheckQuestionBankInput struct{}

// CheckQuestionBankOutput defines output for check_question_bank tool
type CheckQuestionBankOutput struct {
	Valid  bool                 `json:"valid"`
	Issues int                  `json:"issues"`
	Files  []catalog.FileReport `json:"files"`
}

// ReloadCatalog re-reads the data source and swaps in the new catalog
func (ts *Toolset) ReloadCatalog(ctx context.Context, req *mcp.CallToolRequest, input ReloadCatalogInput) (*mcp.CallToolResult, ReloadCatalogOutput, error) {
	snap, err := ts.store.Reload(ctx)
	if err != nil {
		return nil, ReloadCatalogOutput{}, fmt.Errorf("reload failed: %w", err)
	}

	out := ReloadCatalogOutput{
		Questions: len(snap.Catalog.Questions),
		LoadedAt:  snap.Catalog.LoadedAt.Format(time.RFC3339),
		Files:     snap.Catalog.Files,
	}
	if snap.Catalog.Syllabus != nil {
		out.Units = len(snap.Catalog.Syllabus.Units)
	}
	if snap.Topics != nil {
		if n, err := snap.Topics.DocCount(); err == nil {
			out.Topics = int(n)
		}
	}
	return nil, out, nil
}

// CheckQuestionBank validates the data source against the bank schemas
func (ts *Toolset) CheckQuestionBank(ctx context.Context, req *mcp.CallToolRequest, input CheckQuestionBankInput) (*mcp.CallToolResult, CheckQuestionBankOutput, error) {
	if ts.checker == nil {
		return nil, CheckQuestionBankOutput{}, ErrCheckerDisabled
	}

	report, err := ts.checker.Check(ctx, ts.provider, ts.opts)
	if err != nil {
		return nil, CheckQuestionBankOutput{}, fmt.Errorf("check failed: %w", err)
	}

	out := CheckQuestionBankOutput{Valid: report.Valid, Files: report.Files}
	for _, f := range report.Files {
		out.Issues += len(f.Issues)
	}
	if !out.Valid {
		ts.log.Info("question bank has schema issues", zap.Int("issues", out.Issues))
	}
	return nil, out, nil
}
