package catalog

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/pyqhub/mcp-server/internal/provider"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const (
	questionsSchemaURL = "https://pyqhub.dev/schema/questions.json"
	syllabusSchemaURL  = "https://pyqhub.dev/schema/syllabus.json"
)

// Issue is one schema violation found in a file.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// FileReport is the check result for one file.
type FileReport struct {
	Name    string  `json:"name"`
	Valid   bool    `json:"valid"`
	Missing bool    `json:"missing,omitempty"`
	Issues  []Issue `json:"issues"`
}

// Report is the check result for a whole bank.
type Report struct {
	Valid bool         `json:"valid"`
	Files []FileReport `json:"files"`
}

// Checker validates bank files against the embedded JSON schemas. It only
// reports; the loader accepts whatever it can decode.
type Checker struct {
	questions *jsonschema.Schema
	syllabus  *jsonschema.Schema
}

// NewChecker compiles the embedded schemas.
func NewChecker() (*Checker, error) {
	compiler := jsonschema.NewCompiler()

	for url, file := range map[string]string{
		questionsSchemaURL: "schemas/questions.json",
		syllabusSchemaURL:  "schemas/syllabus.json",
	} {
		raw, err := schemaFS.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read schema %s: %w", file, err)
		}
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("schema %s is invalid: %w", file, err)
		}
		if err := compiler.AddResource(url, doc); err != nil {
			return nil, fmt.Errorf("failed to add schema %s: %w", file, err)
		}
	}

	questions, err := compiler.Compile(questionsSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("schema compilation error: %w", err)
	}
	syllabus, err := compiler.Compile(syllabusSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("schema compilation error: %w", err)
	}

	return &Checker{questions: questions, syllabus: syllabus}, nil
}

// CheckQuestions validates a question partition.
func (c *Checker) CheckQuestions(name string, data []byte) FileReport {
	return check(c.questions, name, data)
}

// CheckSyllabus validates a syllabus file.
func (c *Checker) CheckSyllabus(name string, data []byte) FileReport {
	return check(c.syllabus, name, data)
}

// Check reads every file the loader would read and validates it. Missing
// question partitions are reported but do not make the bank invalid; a
// missing syllabus does.
func (c *Checker) Check(ctx context.Context, p provider.Provider, opts Options) (Report, error) {
	report := Report{Valid: true}

	for i := 1; i <= opts.QuestionFiles; i++ {
		name := opts.partitionName(i)
		data, err := readFile(ctx, p, name, opts.Timeout)
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if err != nil {
			fr := unreadable(name, err)
			if !fr.Missing {
				report.Valid = false
			}
			report.Files = append(report.Files, fr)
			continue
		}
		fr := c.CheckQuestions(name, data)
		report.Valid = report.Valid && fr.Valid
		report.Files = append(report.Files, fr)
	}

	data, err := readFile(ctx, p, opts.SyllabusFile, opts.Timeout)
	if err := ctx.Err(); err != nil {
		return report, err
	}
	var fr FileReport
	if err != nil {
		fr = unreadable(opts.SyllabusFile, err)
		fr.Valid = false
	} else {
		fr = c.CheckSyllabus(opts.SyllabusFile, data)
	}
	report.Valid = report.Valid && fr.Valid
	report.Files = append(report.Files, fr)

	return report, nil
}

func unreadable(name string, err error) FileReport {
	missing := errors.Is(err, provider.ErrNotFound)
	code := "READ_ERROR"
	if missing {
		code = "FILE_NOT_FOUND"
	}
	return FileReport{
		Name:    name,
		Valid:   missing,
		Missing: missing,
		Issues:  []Issue{{Path: "$", Message: err.Error(), Code: code}},
	}
}

func check(schema *jsonschema.Schema, name string, data []byte) FileReport {
	report := FileReport{Name: name, Issues: []Issue{}}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		report.Issues = append(report.Issues, Issue{
			Path:    "$",
			Message: fmt.Sprintf("Invalid JSON: %s", err.Error()),
			Code:    "INVALID_JSON",
		})
		return report
	}

	if err := schema.Validate(doc); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			report.Issues = append(report.Issues, schemaIssues(validationErr)...)
		} else {
			report.Issues = append(report.Issues, Issue{
				Path:    "$",
				Message: err.Error(),
				Code:    "SCHEMA_VALIDATION_ERROR",
			})
		}
		return report
	}

	report.Valid = true
	return report
}

// schemaIssues flattens the leaves of a validation error tree.
func schemaIssues(validationErr *jsonschema.ValidationError) []Issue {
	if len(validationErr.Causes) > 0 {
		var issues []Issue
		for _, cause := range validationErr.Causes {
			issues = append(issues, schemaIssues(cause)...)
		}
		return issues
	}

	path := "$"
	if len(validationErr.InstanceLocation) > 0 {
		path = "$." + strings.Join(validationErr.InstanceLocation, ".")
	}
	return []Issue{{
		Path:    path,
		Message: lastLine(validationErr.Error()),
		Code:    "SCHEMA_VALIDATION_ERROR",
	}}
}

// lastLine returns the most specific line of a multi-line error message.
func lastLine(msg string) string {
	lines := strings.Split(strings.TrimSpace(msg), "\n")
	return strings.TrimPrefix(strings.TrimSpace(lines[len(lines)-1]), "- ")
}
