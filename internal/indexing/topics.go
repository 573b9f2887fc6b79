package indexing

import (
	"fmt"
	"strconv"

	"github.com/pyqhub/mcp-server/internal/questions"
)

// BuildTopics flattens the syllabus into one topic per unit, chapter and
// subchapter, in syllabus order. A nil syllabus yields no topics.
func BuildTopics(syllabus *questions.Syllabus) []Topic {
	if syllabus == nil {
		return nil
	}

	var topics []Topic
	for _, u := range syllabus.Units {
		unitCode := strconv.Itoa(u.Number)
		unitLabel := fmt.Sprintf("Unit %d: %s", u.Number, u.Title)

		topics = append(topics, Topic{
			ID:         KindUnit + "-" + unitCode,
			Kind:       KindUnit,
			Unit:       u.Number,
			Code:       unitCode,
			Title:      u.Title,
			Breadcrumb: unitLabel,
			Keywords:   ExtractKeywords(u.Title),
		})

		for _, c := range u.Chapters {
			chapterCode := questions.FormatChapter(c.Number)
			chapterLabel := chapterCode + " " + c.Title

			topics = append(topics, Topic{
				ID:         fmt.Sprintf("%s-%d-%s", KindChapter, u.Number, chapterCode),
				Kind:       KindChapter,
				Unit:       u.Number,
				Chapter:    chapterCode,
				Code:       chapterCode,
				Title:      c.Title,
				Breadcrumb: breadcrumb(unitLabel, chapterLabel),
				Keywords:   ExtractKeywords(c.Title, u.Title),
			})

			for _, sc := range c.Subchapters {
				topics = append(topics, Topic{
					ID:         fmt.Sprintf("%s-%d-%s", KindSubchapter, u.Number, CreateAnchor(sc.Code)),
					Kind:       KindSubchapter,
					Unit:       u.Number,
					Chapter:    chapterCode,
					Code:       sc.Code,
					Title:      sc.Title,
					Breadcrumb: breadcrumb(unitLabel, chapterLabel, sc.Code+" "+sc.Title),
					Keywords:   ExtractKeywords(sc.Title, c.Title),
				})
			}
		}
	}
	return topics
}
