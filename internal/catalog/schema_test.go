package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/pyqhub/mcp-server/internal/provider"
)

func TestChecker_EmbeddedBankIsValid(t *testing.T) {
	checker, err := NewChecker()
	if err != nil {
		t.Fatalf("NewChecker() error: %v", err)
	}

	report, err := checker.Check(context.Background(), provider.NewEmbedded(), testOptions(3))
	if err != nil {
		t.Fatalf("Check() error: %v", err)
	}
	if !report.Valid {
		t.Errorf("embedded bank should be valid: %+v", report.Files)
	}
	// question_3.json does not exist in the sample bank.
	if !report.Files[2].Missing {
		t.Errorf("question_3.json report = %+v, want missing", report.Files[2])
	}
}

func TestChecker_CheckQuestions(t *testing.T) {
	checker, err := NewChecker()
	if err != nil {
		t.Fatalf("NewChecker() error: %v", err)
	}

	tests := []struct {
		name      string
		data      string
		wantValid bool
		wantPath  string
	}{
		{
			name:      "valid partition",
			data:      `[{"question_no": 1, "year": "2022", "marks": "2+6", "question": "q", "chapter": [5.1, "5.1.1"]}]`,
			wantValid: true,
		},
		{
			name:     "marks with a decimal point",
			data:     `[{"question_no": 1, "year": "2022", "marks": "2.5", "question": "q"}]`,
			wantPath: "$.0.marks",
		},
		{
			name:     "chapter entry of the wrong type",
			data:     `[{"question_no": 1, "year": "2022", "question": "q", "chapter": [true]}]`,
			wantPath: "$.0.chapter.0",
		},
		{
			name:     "not an array",
			data:     `{"question_no": 1}`,
			wantPath: "$",
		},
		{
			name:     "invalid json",
			data:     `[{`,
			wantPath: "$",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := checker.CheckQuestions("question_1.json", []byte(tt.data))
			if report.Valid != tt.wantValid {
				t.Fatalf("Valid = %v, want %v (issues: %+v)", report.Valid, tt.wantValid, report.Issues)
			}
			if tt.wantValid {
				if len(report.Issues) != 0 {
					t.Errorf("Issues = %+v, want none", report.Issues)
				}
				return
			}
			found := false
			for _, issue := range report.Issues {
				if issue.Path == tt.wantPath {
					found = true
				}
				if strings.Contains(issue.Message, "\n") {
					t.Errorf("issue message spans lines: %q", issue.Message)
				}
			}
			if !found {
				t.Errorf("no issue at %s: %+v", tt.wantPath, report.Issues)
			}
		})
	}
}

func TestChecker_MissingSyllabusIsInvalid(t *testing.T) {
	checker, err := NewChecker()
	if err != nil {
		t.Fatalf("NewChecker() error: %v", err)
	}

	mock := provider.NewMockProvider()
	mock.AddFile("question_1.json", []byte(`[]`))

	report, err := checker.Check(context.Background(), mock, testOptions(1))
	if err != nil {
		t.Fatalf("Check() error: %v", err)
	}
	if report.Valid {
		t.Error("a bank without a syllabus should be invalid")
	}
	last := report.Files[len(report.Files)-1]
	if !last.Missing || last.Issues[0].Code != "FILE_NOT_FOUND" {
		t.Errorf("syllabus report = %+v", last)
	}
}
