package questions

import (
	"math"
	"strings"
)

// UnitOf finds the unit that owns a chapter code.
//
// It returns false when no syllabus is supplied or when the code does not
// normalise to a number. Units and chapters are walked in syllabus order and
// the first chapter that either equals the code, or (for string codes) is a
// dotted prefix of it, decides the unit. Subchapter lists are not consulted.
// When nothing matches, the floor of the code is returned as a best guess:
// chapter 3.1 falls back to unit 3.
func UnitOf(code ChapterCode, syllabus *Syllabus) (int, bool) {
	if syllabus == nil {
		return 0, false
	}

	value, ok := code.Decimal()
	if !ok {
		return 0, false
	}

	for _, unit := range syllabus.Units {
		for _, chapter := range unit.Chapters {
			if chapter.Number == value {
				return unit.Number, true
			}
			if code.IsString() && strings.HasPrefix(code.Text(), FormatChapter(chapter.Number)+".") {
				return unit.Number, true
			}
		}
	}

	return floorUnit(value)
}

func floorUnit(value float64) (int, bool) {
	f := math.Floor(value)
	if math.IsInf(f, 0) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}
