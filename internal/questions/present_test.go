package questions_test

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/pyqhub/mcp-server/internal/questions"
)

func TestHeadingFor(t *testing.T) {
	tests := []struct {
		name  string
		state questions.FilterState
		count int
		want  questions.Heading
	}{
		{
			name:  "all questions",
			count: 12,
			want:  questions.Heading{Title: "All Questions", Subtitle: "12 questions available"},
		},
		{
			name:  "single result",
			state: questions.FilterState{Unit: questions.Ptr(3)},
			count: 1,
			want:  questions.Heading{Title: "Questions for Unit 3", Subtitle: "1 question available"},
		},
		{
			name:  "subchapter selection",
			state: questions.FilterState{Unit: questions.Ptr(3), Chapter: questions.Ptr(3.1), Subchapter: questions.Ptr("3.1.2")},
			count: 2,
			want:  questions.Heading{Title: "Questions for Unit 3, Chapter 3.1, Subchapter 3.1.2", Subtitle: "2 questions available"},
		},
		{
			name:  "search with no results",
			state: questions.FilterState{SearchTerm: "matrix"},
			count: 0,
			want: questions.Heading{
				Title:    "All Questions",
				Subtitle: `0 questions found matching "matrix"`,
				Empty:    `No questions match your search for "matrix"`,
			},
		},
		{
			name:  "criteria with no results",
			state: questions.FilterState{Year: "2070"},
			count: 0,
			want: questions.Heading{
				Title:    "All Questions",
				Subtitle: "0 questions available",
				Empty:    "No questions available for the selected criteria",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := questions.HeadingFor(tt.state, tt.count); got != tt.want {
				t.Errorf("HeadingFor() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBandOf(t *testing.T) {
	tests := []struct {
		marks string
		want  questions.Band
	}{
		{"", questions.BandUnknown},
		{"2+2", questions.BandLow},
		{"5", questions.BandMedium},
		{"2+6", questions.BandMedium},
		{"4+5", questions.BandHigh},
		{"n/a", questions.BandLow},
	}
	for _, tt := range tests {
		if got := questions.BandOf(tt.marks); got != tt.want {
			t.Errorf("BandOf(%q) = %q, want %q", tt.marks, got, tt.want)
		}
	}
}

func TestParseMarksRange(t *testing.T) {
	tests := []struct {
		in     string
		want   questions.MarksRange
		wantOK bool
	}{
		{"", questions.MarksAny, true},
		{"low", questions.MarksLow, true},
		{" HIGH ", questions.MarksHigh, true},
		{"medium", questions.MarksMedium, true},
		{"extreme", questions.MarksAny, false},
	}
	for _, tt := range tests {
		got, ok := questions.ParseMarksRange(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseMarksRange(%q) = %q, %v, want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}

	if got := questions.RangeLabel(questions.MarksHigh); got != "9+ marks" {
		t.Errorf("RangeLabel(high) = %q", got)
	}
}

func TestHighlight(t *testing.T) {
	got := questions.Highlight("Find the limit. LIMITS exist.", "limit")
	want := []questions.Segment{
		{Text: "Find the "},
		{Text: "limit", Match: true},
		{Text: ". "},
		{Text: "LIMIT", Match: true},
		{Text: "S exist."},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Highlight() = %+v, want %+v", got, want)
	}

	// Pattern characters are literal.
	got = questions.Highlight("f(x) = x+1", "x+1")
	want = []questions.Segment{{Text: "f(x) = "}, {Text: "x+1", Match: true}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Highlight() literal = %+v, want %+v", got, want)
	}

	got = questions.Highlight("plain", "")
	if !reflect.DeepEqual(got, []questions.Segment{{Text: "plain"}}) {
		t.Errorf("Highlight() with empty term = %+v", got)
	}
}

func TestClassifyType(t *testing.T) {
	tests := []struct {
		year string
		want string
	}{
		{"2079 Chaitra", questions.TypeRegular},
		{"2080 Bhadra", questions.TypeRegular},
		{"2078 Baishakh", questions.TypeBack},
		{"2022", questions.TypeBack},
	}
	for _, tt := range tests {
		if got := questions.ClassifyType(tt.year); got != tt.want {
			t.Errorf("ClassifyType(%q) = %q, want %q", tt.year, got, tt.want)
		}
	}
}

func TestNewView(t *testing.T) {
	q := questions.Question{
		QuestionNo: 4,
		Year:       "2079 Chaitra",
		Marks:      "2+6",
		Text:       "State Rolle's theorem.",
		Unit:       questions.Ptr(2),
		Chapters:   []questions.ChapterCode{questions.NumberCode(2.1), questions.StringCode("2.1.1"), {}},
	}

	v := questions.NewView(q, "rolle")
	if v.TotalMarks != 8 || v.Band != questions.BandMedium {
		t.Errorf("NewView() marks = %d/%s, want 8/medium", v.TotalMarks, v.Band)
	}
	if want := []any{2.1, "2.1.1", nil}; !reflect.DeepEqual(v.Chapters, want) {
		t.Errorf("NewView() chapters = %#v, want %#v", v.Chapters, want)
	}
	if len(v.Segments) != 3 || !v.Segments[1].Match {
		t.Errorf("NewView() segments = %+v", v.Segments)
	}

	plain := questions.NewView(questions.Question{QuestionNo: 1, Text: "x"}, "")
	if plain.Chapters != nil || plain.Segments != nil || plain.Band != questions.BandUnknown {
		t.Errorf("NewView() without chapters = %+v", plain)
	}

	var numeric questions.Question
	if err := json.Unmarshal([]byte(`{"question_no": 2, "marks": 12}`), &numeric); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if v := questions.NewView(numeric, ""); v.TotalMarks != 0 || v.Band != questions.BandLow {
		t.Errorf("NewView() numeric marks = %d/%s, want 0/low", v.TotalMarks, v.Band)
	}
}
