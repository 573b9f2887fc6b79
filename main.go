package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/pyqhub/mcp-server/internal/catalog"
	"github.com/pyqhub/mcp-server/internal/config"
	"github.com/pyqhub/mcp-server/internal/logger"
	"github.com/pyqhub/mcp-server/internal/provider"
	"github.com/pyqhub/mcp-server/tools"
)

const (
	version     = "0.3.0"
	serverName  = "pyqhub-mcp-server"
	description = "MCP server for filtering past exam questions by syllabus unit, chapter and marks"
)

func main() {
	// Handle version flag
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("%s version %s\n", serverName, version)
		os.Exit(0)
	}

	// .env is optional; real environment variables win
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	// The logger writes to stderr (MCP uses stdout for protocol)
	log, err := logger.New(cfg.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting", zap.String("server", serverName), zap.String("version", version), zap.String("source", cfg.Data.Source))

	src, closeSource, err := provider.Open(ctx, cfg.Data, log)
	if err != nil {
		return fmt.Errorf("failed to open data source: %w", err)
	}
	defer closeSource()

	opts := catalog.OptionsFrom(cfg.Data)
	store := catalog.NewStore(func(ctx context.Context) (*catalog.Catalog, error) {
		return catalog.Load(ctx, src, opts, log)
	}, log)
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn("error closing topic index", zap.Error(err))
		}
	}()

	if _, err := store.Reload(ctx); err != nil {
		return err
	}

	checker, err := catalog.NewChecker()
	if err != nil {
		// Schema checking is optional; the other tools still work
		log.Warn("question bank checker unavailable", zap.Error(err))
	}

	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    serverName,
			Version: version,
		},
		nil, // Default options
	)

	toolset := tools.NewToolset(store, src, opts, checker, log)
	toolCount := toolset.Register(server)
	resourceCount := toolset.RegisterResources(server)
	log.Info("server ready", zap.Int("tools", toolCount), zap.Int("resources", resourceCount))

	// Run server with stdio transport
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
