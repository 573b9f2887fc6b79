package questions

// ByUnit returns the questions explicitly assigned to unit. Chapter codes are
// not resolved here; use Filter for that.
func ByUnit(questions []Question, unit int) []Question {
	out := make([]Question, 0)
	for _, q := range questions {
		if q.Unit != nil && *q.Unit == unit {
			out = append(out, q)
		}
	}
	return out
}

// ByChapter returns the questions explicitly assigned to unit whose chapter
// list refers to chapter. Unlike Filter, questions without a chapter list
// never match.
func ByChapter(questions []Question, unit int, chapter float64) []Question {
	prefix := FormatChapter(chapter) + "."
	out := make([]Question, 0)
	for _, q := range questions {
		if q.Unit == nil || *q.Unit != unit {
			continue
		}
		if chapterMatches(q.Chapters, chapter, prefix) {
			out = append(out, q)
		}
	}
	return out
}

// OutlineUnit is a syllabus unit annotated with question counts.
type OutlineUnit struct {
	Unit     int              `json:"unit"`
	Title    string           `json:"title"`
	Count    int              `json:"count"`
	Chapters []OutlineChapter `json:"chapters"`
}

// OutlineChapter is a syllabus chapter annotated with question counts.
type OutlineChapter struct {
	Chapter     float64             `json:"chapter"`
	Title       string              `json:"title"`
	Count       int                 `json:"count"`
	Subchapters []OutlineSubchapter `json:"subchapters,omitempty"`
}

// OutlineSubchapter is a syllabus subchapter annotated with its question count.
type OutlineSubchapter struct {
	Subchapter string `json:"subchapter"`
	Title      string `json:"title"`
	Count      int    `json:"count"`
}

// Outline walks the syllabus and counts, for every node, how many questions
// Filter would return if that node were selected on top of base. Selecting a
// chapter also selects its unit, and selecting a subchapter selects both.
func Outline(syllabus *Syllabus, questions []Question, base FilterState) []OutlineUnit {
	if syllabus == nil {
		return []OutlineUnit{}
	}

	units := make([]OutlineUnit, 0, len(syllabus.Units))
	for _, u := range syllabus.Units {
		state := base
		state.Unit = Ptr(u.Number)
		state.Chapter = nil
		state.Subchapter = nil

		ou := OutlineUnit{
			Unit:     u.Number,
			Title:    u.Title,
			Count:    Count(questions, state, syllabus),
			Chapters: make([]OutlineChapter, 0, len(u.Chapters)),
		}

		for _, c := range u.Chapters {
			chState := state
			chState.Chapter = Ptr(c.Number)

			oc := OutlineChapter{
				Chapter: c.Number,
				Title:   c.Title,
				Count:   Count(questions, chState, syllabus),
			}
			for _, sc := range c.Subchapters {
				scState := chState
				scState.Subchapter = Ptr(sc.Code)
				oc.Subchapters = append(oc.Subchapters, OutlineSubchapter{
					Subchapter: sc.Code,
					Title:      sc.Title,
					Count:      Count(questions, scState, syllabus),
				})
			}
			ou.Chapters = append(ou.Chapters, oc)
		}

		units = append(units, ou)
	}
	return units
}
