package questions

import "strings"

// Filter returns the questions that satisfy every active criterion of state,
// in their original order. The input slice is never modified.
//
// syllabus may be nil; unit selections then only match questions with an
// explicit unit.
func Filter(questions []Question, state FilterState, syllabus *Syllabus) []Question {
	m := newMatcher(state, syllabus)
	out := make([]Question, 0, len(questions))
	for _, q := range questions {
		if m.match(q) {
			out = append(out, q)
		}
	}
	return out
}

// Count is Filter without building the result.
func Count(questions []Question, state FilterState, syllabus *Syllabus) int {
	m := newMatcher(state, syllabus)
	n := 0
	for _, q := range questions {
		if m.match(q) {
			n++
		}
	}
	return n
}

// Matches reports whether a single question passes state.
func Matches(q Question, state FilterState, syllabus *Syllabus) bool {
	return newMatcher(state, syllabus).match(q)
}

// matcher holds the per-invocation values derived from a FilterState.
type matcher struct {
	state    FilterState
	syllabus *Syllabus

	term          string // lower-cased search term
	chapterPrefix string // rendered chapter selection followed by "."
}

func newMatcher(state FilterState, syllabus *Syllabus) matcher {
	m := matcher{
		state:    state,
		syllabus: syllabus,
		term:     strings.ToLower(state.SearchTerm),
	}
	if state.Chapter != nil {
		m.chapterPrefix = FormatChapter(*state.Chapter) + "."
	}
	return m
}

func (m matcher) match(q Question) bool {
	s := m.state

	if m.term != "" && !strings.Contains(strings.ToLower(q.Text), m.term) {
		return false
	}

	if s.Year != "" && q.Year != s.Year {
		return false
	}

	if s.QuestionType != "" && q.Type != s.QuestionType {
		return false
	}

	if s.Unit != nil && !m.inUnit(q, *s.Unit) {
		return false
	}

	// A subchapter selection supersedes the chapter selection. Questions
	// without a chapter list are not excluded by the chapter criterion.
	if s.Chapter != nil && s.Subchapter == nil && q.HasChapterList() && !m.inChapter(q, *s.Chapter) {
		return false
	}

	if s.Subchapter != nil && !hasSubchapter(q, *s.Subchapter) {
		return false
	}

	// Questions with no marks are kept whatever the range. Malformed marks
	// total 0.
	if s.MarksRange != MarksAny && (q.HasMarks() || q.MarksMalformed()) && !s.MarksRange.InRange(TotalMarks(q.Marks)) {
		return false
	}

	return true
}

func (m matcher) inUnit(q Question, unit int) bool {
	if q.Unit != nil && *q.Unit == unit {
		return true
	}
	for _, code := range q.Chapters {
		if resolved, ok := UnitOf(code, m.syllabus); ok && resolved == unit {
			return true
		}
	}
	return false
}

func (m matcher) inChapter(q Question, chapter float64) bool {
	return chapterMatches(q.Chapters, chapter, m.chapterPrefix)
}

// chapterMatches reports whether any code refers to chapter, either directly
// or as one of its dotted descendants.
func chapterMatches(codes []ChapterCode, chapter float64, prefix string) bool {
	for _, code := range codes {
		switch {
		case code.IsNumber():
			if code.Number() == chapter {
				return true
			}
		case code.IsString():
			if v, ok := parseLeadingFloat(code.Text()); ok && v == chapter {
				return true
			}
			if strings.HasPrefix(code.Text(), prefix) {
				return true
			}
		}
	}
	return false
}

func hasSubchapter(q Question, subchapter string) bool {
	for _, code := range q.Chapters {
		if code.IsString() && code.Text() == subchapter {
			return true
		}
	}
	return false
}
