package questions

import (
	"encoding/json"
	"math"
	"strings"
)

// Question represents a single past exam question as stored in the
// question_N.json partitions.
type Question struct {
	QuestionNo int           `json:"question_no"`
	Year       string        `json:"year"`
	Marks      string        `json:"marks,omitempty"` // "5" or "2+6"; empty means unknown
	Text       string        `json:"question"`
	Unit       *int          `json:"unit,omitempty"`
	Chapters   []ChapterCode `json:"chapter,omitempty"` // nil when the question has no chapter list
	Type       string        `json:"Type,omitempty"`

	marksMalformed bool // marks present but not a string
}

// HasChapterList reports whether the question carried a chapter list at all.
// An empty list still counts.
func (q Question) HasChapterList() bool {
	return q.Chapters != nil
}

// HasMarks reports whether the question carries a marks descriptor.
func (q Question) HasMarks() bool {
	return q.Marks != ""
}

// MarksMalformed reports whether the marks field was set to a non-string
// value such as a bare number. Such a question totals 0 marks.
func (q Question) MarksMalformed() bool {
	return q.marksMalformed
}

// UnmarshalJSON decodes a question leniently: fields with an unexpected JSON
// type are treated as absent instead of failing the whole partition. A
// non-empty marks value of the wrong type is remembered, see MarksMalformed.
func (q *Question) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*q = Question{}
	if n, ok := integerField(raw, "question_no"); ok {
		q.QuestionNo = n
	}
	q.Year, _ = stringField(raw, "year")
	q.Marks, _ = stringField(raw, "marks")
	q.marksMalformed = malformedField(raw, "marks")
	q.Text, _ = stringField(raw, "question")
	q.Type, _ = stringField(raw, "Type")
	if n, ok := integerField(raw, "unit"); ok {
		q.Unit = &n
	}

	if rawChapters, ok := raw["chapter"]; ok {
		var entries []json.RawMessage
		if err := json.Unmarshal(rawChapters, &entries); err == nil && entries != nil {
			q.Chapters = make([]ChapterCode, 0, len(entries))
			for _, entry := range entries {
				var code ChapterCode
				_ = code.UnmarshalJSON(entry)
				q.Chapters = append(q.Chapters, code)
			}
		}
	}

	return nil
}

func stringField(raw map[string]json.RawMessage, key string) (string, bool) {
	v, ok := raw[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return "", false
	}
	return s, true
}

// malformedField reports whether key holds a value that is not a string and
// not one of null, false or 0.
func malformedField(raw map[string]json.RawMessage, key string) bool {
	v, ok := raw[key]
	if !ok {
		return false
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return false
	}
	if strings.TrimSpace(string(v)) == "false" {
		return false
	}
	var f float64
	if err := json.Unmarshal(v, &f); err == nil && f == 0 {
		return false
	}
	return true
}

// integerField accepts any JSON number with an integral value.
func integerField(raw map[string]json.RawMessage, key string) (int, bool) {
	v, ok := raw[key]
	if !ok {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(v, &f); err != nil {
		return 0, false
	}
	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// Subchapter is a leaf syllabus node identified by a dotted code ("5.1.1").
type Subchapter struct {
	Code  string `json:"subchapter"`
	Title string `json:"title"`
}

// Chapter is a syllabus node identified by a decimal number (5.1).
type Chapter struct {
	Number      float64      `json:"chapter"`
	Title       string       `json:"title"`
	Subchapters []Subchapter `json:"subchapters,omitempty"`
}

// Unit is a top-level syllabus grouping.
type Unit struct {
	Number   int       `json:"unit"`
	Title    string    `json:"title"`
	Chapters []Chapter `json:"chapters"`
}

// Syllabus is the root of syllabus.json. It is read-only once loaded.
type Syllabus struct {
	Units []Unit `json:"syllabus"`
}

// MarksRange selects questions by their total marks.
type MarksRange string

const (
	MarksAny    MarksRange = ""
	MarksLow    MarksRange = "low"    // total <= 4
	MarksMedium MarksRange = "medium" // 5 <= total <= 8
	MarksHigh   MarksRange = "high"   // total >= 9
)

// FilterState is the set of criteria applied by Filter. Zero values mean
// "no constraint"; hierarchy selections use nil for "none" so that unit 0 or
// chapter 0 remain selectable.
type FilterState struct {
	SearchTerm   string
	Year         string
	MarksRange   MarksRange
	QuestionType string
	Unit         *int
	Chapter      *float64
	Subchapter   *string
}

// IsEmpty reports whether no criterion is active.
func (s FilterState) IsEmpty() bool {
	return s.SearchTerm == "" &&
		s.Year == "" &&
		s.MarksRange == MarksAny &&
		s.QuestionType == "" &&
		s.Unit == nil &&
		s.Chapter == nil &&
		s.Subchapter == nil
}

// Ptr returns a pointer to v. Handy for building FilterState selections.
func Ptr[T any](v T) *T {
	return &v
}
