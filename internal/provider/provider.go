package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/pyqhub/mcp-server/internal/config"
)

// ErrNotFound is returned when the named file does not exist in the source.
var ErrNotFound = errors.New("file not found")

// ErrFileTooLarge is returned when a remote file exceeds the read limit.
var ErrFileTooLarge = errors.New("file exceeds size limit")

// maxFileSize caps how much of a remote file is read.
const maxFileSize = 32 << 20

// readLimited reads r to the end, failing with ErrFileTooLarge when it holds
// more than limit bytes.
func readLimited(r io.Reader, name string, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: %s is over %d bytes", ErrFileTooLarge, name, limit)
	}
	return data, nil
}

// Provider defines the interface for reading question bank files.
// Names are flat file names such as "question_1.json" or "syllabus.json".
//
// Implementations:
//   - fsProvider: embedded data and local directories
//   - httpProvider: files under a base URL
//   - s3Provider: objects under a bucket prefix
//   - PostgresProvider: rows of a (name, content) table
//   - MockProvider: in-memory map for testing
type Provider interface {
	// ReadFile reads the named file and returns its contents.
	ReadFile(ctx context.Context, name string) ([]byte, error)
}

// Open builds the provider selected by cfg. The returned close function
// releases any connections the provider holds and is never nil.
func Open(ctx context.Context, cfg config.Data, log *zap.Logger) (Provider, func(), error) {
	noop := func() {}

	switch cfg.Source {
	case config.SourceEmbedded:
		log.Info("using embedded question bank")
		return NewEmbedded(), noop, nil

	case config.SourceDir:
		log.Info("using question bank directory", zap.String("dir", cfg.Dir))
		return NewDir(cfg.Dir), noop, nil

	case config.SourceHTTP:
		log.Info("using remote question bank", zap.String("base_url", cfg.BaseURL))
		return NewHTTP(cfg.BaseURL, timeoutOrDefault(cfg.Timeout)), noop, nil

	case config.SourceS3:
		p, err := NewS3(ctx, cfg.S3)
		if err != nil {
			return nil, noop, err
		}
		log.Info("using S3 question bank", zap.String("bucket", cfg.S3.Bucket), zap.String("prefix", cfg.S3.Prefix))
		return p, noop, nil

	case config.SourcePostgres:
		p, err := NewPostgres(ctx, cfg.Postgres)
		if err != nil {
			return nil, noop, err
		}
		log.Info("using postgres question bank", zap.String("table", cfg.Postgres.Table))
		return p, p.Close, nil

	default:
		return nil, noop, fmt.Errorf("%w: %q", config.ErrUnknownSource, cfg.Source)
	}
}

func timeoutOrDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return 10 * time.Second
	}
	return d
}
