package questions

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Heading is the title block shown above a result list.
type Heading struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Empty    string `json:"empty,omitempty"` // message when count is zero
}

// HeadingFor builds the heading for a result list of count questions.
func HeadingFor(state FilterState, count int) Heading {
	var parts []string
	if state.Unit != nil {
		parts = append(parts, "Unit "+strconv.Itoa(*state.Unit))
	}
	if state.Chapter != nil {
		parts = append(parts, "Chapter "+FormatChapter(*state.Chapter))
	}
	if state.Subchapter != nil {
		parts = append(parts, "Subchapter "+*state.Subchapter)
	}

	h := Heading{Title: "All Questions"}
	if len(parts) > 0 {
		h.Title = "Questions for " + strings.Join(parts, ", ")
	}

	noun := "questions"
	if count == 1 {
		noun = "question"
	}
	if state.SearchTerm != "" {
		h.Subtitle = fmt.Sprintf("%d %s found matching %q", count, noun, state.SearchTerm)
	} else {
		h.Subtitle = fmt.Sprintf("%d %s available", count, noun)
	}

	if count == 0 {
		if state.SearchTerm != "" {
			h.Empty = fmt.Sprintf("No questions match your search for %q", state.SearchTerm)
		} else {
			h.Empty = "No questions available for the selected criteria"
		}
	}
	return h
}

// Band classifies a question by its marks for display.
type Band string

const (
	BandUnknown Band = "unknown"
	BandLow     Band = "low"
	BandMedium  Band = "medium"
	BandHigh    Band = "high"
)

// BandOf returns the display band of a marks descriptor.
func BandOf(marks string) Band {
	if marks == "" {
		return BandUnknown
	}
	total := TotalMarks(marks)
	switch {
	case total <= 4:
		return BandLow
	case total <= 8:
		return BandMedium
	default:
		return BandHigh
	}
}

// Band returns the display band of the question's marks. Malformed marks
// count as 0.
func (q Question) Band() Band {
	if q.MarksMalformed() {
		return BandLow
	}
	return BandOf(q.Marks)
}

// RangeLabel is the human label of a marks range selection.
func RangeLabel(r MarksRange) string {
	switch r {
	case MarksLow:
		return "2-4 marks"
	case MarksMedium:
		return "5-8 marks"
	case MarksHigh:
		return "9+ marks"
	default:
		return "All Marks"
	}
}

// ParseMarksRange validates a marks range coming from user input.
func ParseMarksRange(s string) (MarksRange, bool) {
	switch r := MarksRange(strings.ToLower(strings.TrimSpace(s))); r {
	case MarksAny, MarksLow, MarksMedium, MarksHigh:
		return r, true
	default:
		return MarksAny, false
	}
}

// Segment is a piece of question text, flagged when it matched the search term.
type Segment struct {
	Text  string `json:"text"`
	Match bool   `json:"match,omitempty"`
}

// Highlight splits text around case-insensitive occurrences of term. The term
// is matched literally.
func Highlight(text, term string) []Segment {
	if term == "" || text == "" {
		return []Segment{{Text: text}}
	}

	re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(term))
	var segments []Segment
	last := 0
	for _, loc := range re.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			segments = append(segments, Segment{Text: text[last:loc[0]]})
		}
		segments = append(segments, Segment{Text: text[loc[0]:loc[1]], Match: true})
		last = loc[1]
	}
	if last < len(text) {
		segments = append(segments, Segment{Text: text[last:]})
	}
	return segments
}

// Question types assigned from the exam session in the year label.
const (
	TypeRegular = "Regular"
	TypeBack    = "Back"
)

// ClassifyType derives the question type from its year label: the Chaitra and
// Bhadra sessions are regular exams, everything else is a back paper.
func ClassifyType(year string) string {
	if strings.Contains(year, "Chaitra") || strings.Contains(year, "Bhadra") {
		return TypeRegular
	}
	return TypeBack
}

// View is the presentation form of a question: chapter codes are flattened
// to plain JSON values and the marks are pre-computed.
type View struct {
	QuestionNo int       `json:"question_no"`
	Year       string    `json:"year"`
	Marks      string    `json:"marks,omitempty"`
	TotalMarks int       `json:"total_marks"`
	Band       Band      `json:"band"`
	Type       string    `json:"type,omitempty"`
	Unit       *int      `json:"unit,omitempty"`
	Chapters   []any     `json:"chapters,omitempty"` // float64, string or nil per entry
	Question   string    `json:"question"`
	Segments   []Segment `json:"segments,omitempty"` // set when a search term is highlighted
}

// NewView converts q. A non-empty term splits the text into highlight segments.
func NewView(q Question, term string) View {
	v := View{
		QuestionNo: q.QuestionNo,
		Year:       q.Year,
		Marks:      q.Marks,
		TotalMarks: TotalMarks(q.Marks),
		Band:       q.Band(),
		Type:       q.Type,
		Unit:       q.Unit,
		Question:   q.Text,
	}
	if q.Chapters != nil {
		v.Chapters = make([]any, 0, len(q.Chapters))
		for _, c := range q.Chapters {
			switch {
			case c.IsNumber():
				v.Chapters = append(v.Chapters, c.Number())
			case c.IsString():
				v.Chapters = append(v.Chapters, c.Text())
			default:
				v.Chapters = append(v.Chapters, nil)
			}
		}
	}
	if term != "" {
		v.Segments = Highlight(q.Text, term)
	}
	return v
}

// NewViews converts every question in qs.
func NewViews(qs []Question, term string) []View {
	views := make([]View, 0, len(qs))
	for _, q := range qs {
		views = append(views, NewView(q, term))
	}
	return views
}
