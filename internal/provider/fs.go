package provider

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Embed a small sample bank into the binary so the servers work standalone
// without a data source configured.
//
// Embedded files:
// - question_N.json partitions
// - syllabus.json

//go:embed data/*.json
var embeddedFS embed.FS

// fsProvider implements Provider over an fs.FS.
type fsProvider struct {
	fsys fs.FS
}

// NewEmbedded creates a Provider over the embedded sample bank.
func NewEmbedded() Provider {
	sub, err := fs.Sub(embeddedFS, "data")
	if err != nil {
		// fs.Sub only fails on an invalid path literal.
		panic(err)
	}
	return &fsProvider{fsys: sub}
}

// NewDir creates a Provider that reads files from a local directory.
func NewDir(dir string) Provider {
	return &fsProvider{fsys: os.DirFS(dir)}
}

// NewFS creates a Provider over an arbitrary filesystem.
func NewFS(fsys fs.FS) Provider {
	return &fsProvider{fsys: fsys}
}

// ReadFile reads the named file from the filesystem.
func (p *fsProvider) ReadFile(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := fs.ReadFile(p.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}
