package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pyqhub/mcp-server/internal/config"
	"github.com/pyqhub/mcp-server/internal/provider"
	"github.com/pyqhub/mcp-server/internal/questions"
)

// ErrSyllabusUnavailable is reported when the syllabus file cannot be read
// or parsed. The loader recovers from it with an empty syllabus.
var ErrSyllabusUnavailable = errors.New("syllabus unavailable")

// Options controls which files make up the bank.
type Options struct {
	QuestionFiles   int
	QuestionPattern string
	SyllabusFile    string
	DeriveTypes     bool
	Timeout         time.Duration
}

// OptionsFrom builds loader options from the data configuration.
func OptionsFrom(d config.Data) Options {
	return Options{
		QuestionFiles:   d.QuestionFiles,
		QuestionPattern: d.QuestionPattern,
		SyllabusFile:    d.SyllabusFile,
		DeriveTypes:     d.DeriveTypes,
		Timeout:         d.Timeout,
	}
}

func (o Options) partitionName(i int) string {
	return fmt.Sprintf(o.QuestionPattern, i)
}

// FileStatus records how one file contributed to the catalog.
type FileStatus struct {
	Name      string `json:"name"`
	Questions int    `json:"questions"`
	Skipped   int    `json:"skipped,omitempty"` // array entries that were not objects
	Missing   bool   `json:"missing,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Catalog is one loaded snapshot of the question bank. It is never mutated
// after Load returns, so it can be shared between goroutines.
type Catalog struct {
	Questions []questions.Question
	Syllabus  *questions.Syllabus
	Years     []string
	Types     []string
	Files     []FileStatus
	LoadedAt  time.Time
}

// Filter applies state to the catalog.
func (c *Catalog) Filter(state questions.FilterState) []questions.Question {
	return questions.Filter(c.Questions, state, c.Syllabus)
}

// Load reads every question partition and the syllabus from p. Unreadable or
// malformed files are logged and skipped; the only error returned is the
// context's.
func Load(ctx context.Context, p provider.Provider, opts Options, log *zap.Logger) (*Catalog, error) {
	start := time.Now()
	cat := &Catalog{Questions: []questions.Question{}}

	for i := 1; i <= opts.QuestionFiles; i++ {
		name := opts.partitionName(i)
		status := FileStatus{Name: name}

		data, err := readFile(ctx, p, name, opts.Timeout)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err != nil {
			if errors.Is(err, provider.ErrNotFound) {
				status.Missing = true
				log.Debug("question file not found", zap.String("file", name))
			} else {
				status.Error = err.Error()
				log.Warn("failed to read question file", zap.String("file", name), zap.Error(err))
			}
			cat.Files = append(cat.Files, status)
			continue
		}

		qs, skipped, err := decodePartition(data)
		if err != nil {
			status.Error = err.Error()
			log.Warn("failed to parse question file", zap.String("file", name), zap.Error(err))
			cat.Files = append(cat.Files, status)
			continue
		}
		if skipped > 0 {
			log.Warn("skipped non-object entries", zap.String("file", name), zap.Int("skipped", skipped))
		}

		status.Questions = len(qs)
		status.Skipped = skipped
		cat.Files = append(cat.Files, status)
		cat.Questions = append(cat.Questions, qs...)
		log.Debug("loaded question file", zap.String("file", name), zap.Int("questions", len(qs)))
	}

	syllabus, err := LoadSyllabus(ctx, p, opts.SyllabusFile, opts.Timeout)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	status := FileStatus{Name: opts.SyllabusFile}
	if err != nil {
		status.Error = err.Error()
		status.Missing = errors.Is(err, provider.ErrNotFound)
		log.Warn("using empty syllabus", zap.String("file", opts.SyllabusFile), zap.Error(err))
		syllabus = &questions.Syllabus{Units: []questions.Unit{}}
	}
	cat.Files = append(cat.Files, status)
	cat.Syllabus = syllabus

	if opts.DeriveTypes {
		for i := range cat.Questions {
			if cat.Questions[i].Type == "" {
				cat.Questions[i].Type = questions.ClassifyType(cat.Questions[i].Year)
			}
		}
	}

	cat.Years = questions.DistinctYears(cat.Questions)
	cat.Types = questions.DistinctTypes(cat.Questions)
	cat.LoadedAt = time.Now()

	log.Info("question bank loaded",
		zap.Int("questions", len(cat.Questions)),
		zap.Int("units", len(cat.Syllabus.Units)),
		zap.Int("years", len(cat.Years)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return cat, nil
}

// LoadSyllabus reads and decodes the syllabus file. Failures wrap
// ErrSyllabusUnavailable.
func LoadSyllabus(ctx context.Context, p provider.Provider, name string, timeout time.Duration) (*questions.Syllabus, error) {
	data, err := readFile(ctx, p, name, timeout)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSyllabusUnavailable, err)
	}

	var syllabus questions.Syllabus
	if err := json.Unmarshal(data, &syllabus); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", ErrSyllabusUnavailable, name, err)
	}
	if syllabus.Units == nil {
		syllabus.Units = []questions.Unit{}
	}
	return &syllabus, nil
}

func readFile(ctx context.Context, p provider.Provider, name string, timeout time.Duration) ([]byte, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return p.ReadFile(ctx, name)
}

// decodePartition decodes a JSON array of questions. Entries that are not
// objects are counted and dropped; fields inside an entry decode leniently.
func decodePartition(data []byte) ([]questions.Question, int, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, 0, fmt.Errorf("not a question array: %w", err)
	}

	qs := make([]questions.Question, 0, len(entries))
	skipped := 0
	for _, entry := range entries {
		trimmed := bytes.TrimSpace(entry)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			skipped++
			continue
		}
		var q questions.Question
		if err := json.Unmarshal(trimmed, &q); err != nil {
			skipped++
			continue
		}
		qs = append(qs, q)
	}
	return qs, skipped, nil
}
