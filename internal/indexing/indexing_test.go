package indexing_test

import (
	"testing"

	"github.com/pyqhub/mcp-server/internal/indexing"
	"github.com/pyqhub/mcp-server/internal/questions"
)

func testSyllabus() *questions.Syllabus {
	return &questions.Syllabus{Units: []questions.Unit{
		{
			Number: 1,
			Title:  "Derivatives and Their Applications",
			Chapters: []questions.Chapter{
				{
					Number: 1.2,
					Title:  "Higher Order Derivatives",
					Subchapters: []questions.Subchapter{
						{Code: "1.2.1", Title: "Leibniz theorem"},
						{Code: "1.2.2", Title: "Rolle's theorem and mean value theorems"},
					},
				},
			},
		},
		{
			Number: 3,
			Title:  "Ordinary Differential Equations",
			Chapters: []questions.Chapter{
				{Number: 3, Title: "Exact Equations"},
			},
		},
	}}
}

func TestExtractKeywords(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		parents []string
		wantMin int // Minimum expected keywords
	}{
		{
			name:    "chapter title",
			title:   "Linear Equations of Second Order",
			wantMin: 4, // linear, equations, second, order
		},
		{
			name:    "filters stop words",
			title:   "The Area of a Curve",
			wantMin: 2,
		},
		{
			name:    "includes parents",
			title:   "Leibniz theorem",
			parents: []string{"Higher Order Derivatives"},
			wantMin: 5,
		},
		{
			name:    "empty input",
			title:   "",
			wantMin: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keywords := indexing.ExtractKeywords(tt.title, tt.parents...)

			if len(keywords) < tt.wantMin {
				t.Errorf("indexing.ExtractKeywords() returned %d keywords, want at least %d. Keywords: %v",
					len(keywords), tt.wantMin, keywords)
			}

			stopWords := []string{"the", "a", "of", "and"}
			for _, kw := range keywords {
				for _, stop := range stopWords {
					if kw == stop {
						t.Errorf("indexing.ExtractKeywords() returned stop word: %s", kw)
					}
				}
			}

			if len(keywords) > indexing.MaxKeywords {
				t.Errorf("indexing.ExtractKeywords() returned %d keywords, max should be %d", len(keywords), indexing.MaxKeywords)
			}
		})
	}
}

func TestCreateAnchor(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "simple text", input: "Rolle's Theorem", expected: "rolles-theorem"},
		{name: "dotted code", input: "5.1.1", expected: "5.1.1"},
		{name: "with special chars", input: "Beta (and Gamma)", expected: "beta-and-gamma"},
		{name: "empty string", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := indexing.CreateAnchor(tt.input)
			if result != tt.expected {
				t.Errorf("indexing.CreateAnchor() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestBuildTopics(t *testing.T) {
	topics := indexing.BuildTopics(testSyllabus())

	wantIDs := []string{
		"unit-1",
		"chapter-1-1.2",
		"subchapter-1-1.2.1",
		"subchapter-1-1.2.2",
		"unit-3",
		"chapter-3-3",
	}
	if len(topics) != len(wantIDs) {
		t.Fatalf("BuildTopics() returned %d topics, want %d", len(topics), len(wantIDs))
	}
	for i, id := range wantIDs {
		if topics[i].ID != id {
			t.Errorf("topics[%d].ID = %q, want %q", i, topics[i].ID, id)
		}
	}

	sub := topics[3]
	if sub.Kind != indexing.KindSubchapter || sub.Unit != 1 || sub.Chapter != "1.2" || sub.Code != "1.2.2" {
		t.Errorf("subchapter topic = %+v", sub)
	}
	wantCrumb := "Unit 1: Derivatives and Their Applications > 1.2 Higher Order Derivatives > 1.2.2 Rolle's theorem and mean value theorems"
	if sub.Breadcrumb != wantCrumb {
		t.Errorf("Breadcrumb = %q, want %q", sub.Breadcrumb, wantCrumb)
	}

	// Whole-number chapters render without a trailing ".0".
	if topics[5].Code != "3" {
		t.Errorf("chapter code = %q, want 3", topics[5].Code)
	}

	if got := indexing.BuildTopics(nil); len(got) != 0 {
		t.Errorf("BuildTopics(nil) = %v, want empty", got)
	}
}

func TestTopicIndex_Lookup(t *testing.T) {
	idx, err := indexing.NewTopicIndex(indexing.BuildTopics(testSyllabus()))
	if err != nil {
		t.Fatalf("NewTopicIndex() error: %v", err)
	}
	defer idx.Close()

	count, err := idx.DocCount()
	if err != nil {
		t.Fatalf("DocCount() error: %v", err)
	}
	if count != 6 {
		t.Errorf("DocCount() = %d, want 6", count)
	}

	hits, total, err := idx.Lookup("leibniz", 0)
	if err != nil {
		t.Fatalf("Lookup() error: %v", err)
	}
	if total == 0 || len(hits) == 0 {
		t.Fatal("Lookup(leibniz) returned no hits")
	}
	if hits[0].Topic.Code != "1.2.1" {
		t.Errorf("best hit = %q, want 1.2.1", hits[0].Topic.Code)
	}

	hits, _, err = idx.Lookup("differential", 0)
	if err != nil {
		t.Fatalf("Lookup() error: %v", err)
	}
	found := false
	for _, h := range hits {
		if h.Topic.ID == "unit-3" {
			found = true
		}
	}
	if !found {
		t.Errorf("Lookup(differential) did not return unit 3: %+v", hits)
	}

	hits, total, err = idx.Lookup("   ", 5)
	if err != nil || total != 0 || len(hits) != 0 {
		t.Errorf("Lookup(blank) = %v, %d, %v, want no hits", hits, total, err)
	}
}
