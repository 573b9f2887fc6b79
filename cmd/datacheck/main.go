package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/pyqhub/mcp-server/internal/catalog"
	"github.com/pyqhub/mcp-server/internal/config"
	"github.com/pyqhub/mcp-server/internal/indexing"
	"github.com/pyqhub/mcp-server/internal/logger"
	"github.com/pyqhub/mcp-server/internal/provider"
)

// Exit codes: 0 valid, 1 schema issues found, 2 the check could not run.
func main() {
	if len(os.Args) > 1 && (os.Args[1] == "-h" || os.Args[1] == "--help") {
		fmt.Fprintf(os.Stderr, "Usage: %s\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nValidates the configured question bank and prints a JSON report.\n")
		fmt.Fprintf(os.Stderr, "The data source is taken from config/config.yaml and the environment, e.g.\n")
		fmt.Fprintf(os.Stderr, "  DATA_SOURCE=dir DATA_DIR=./bank %s\n", os.Args[0])
		os.Exit(2)
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(2)
	}
	defer log.Sync()

	valid, err := run(context.Background(), cfg, log)
	if err != nil {
		log.Error("check failed", zap.Error(err))
		os.Exit(2)
	}
	if !valid {
		os.Exit(1)
	}
}

type output struct {
	catalog.Report
	Source    string `json:"source"`
	Questions int    `json:"questions"` // questions the lenient loader accepts
	Topics    int    `json:"topics"`    // syllabus nodes in the topic index
	IndexV    int    `json:"index_schema"`
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) (bool, error) {
	src, closeSource, err := provider.Open(ctx, cfg.Data, log)
	if err != nil {
		return false, fmt.Errorf("open data source: %w", err)
	}
	defer closeSource()

	checker, err := catalog.NewChecker()
	if err != nil {
		return false, err
	}

	opts := catalog.OptionsFrom(cfg.Data)

	// Step 1: Schema check
	log.Info("checking question bank", zap.String("source", cfg.Data.Source), zap.Int("question_files", opts.QuestionFiles))
	report, err := checker.Check(ctx, src, opts)
	if err != nil {
		return false, err
	}

	// Step 2: What the server would actually load
	cat, err := catalog.Load(ctx, src, opts, log)
	if err != nil {
		return false, err
	}

	out := output{
		Report:    report,
		Source:    cfg.Data.Source,
		Questions: len(cat.Questions),
		Topics:    len(indexing.BuildTopics(cat.Syllabus)),
		IndexV:    indexing.IndexSchemaVersion,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return false, err
	}

	log.Info("check complete", zap.Bool("valid", report.Valid), zap.Int("questions", out.Questions), zap.Int("topics", out.Topics))
	return report.Valid, nil
}
