package questions

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

type codeKind uint8

const (
	codeInvalid codeKind = iota
	codeNumber
	codeString
)

// ChapterCode is one entry of a question's chapter list. In the data it is
// either a JSON number (5.1) or a JSON string ("5.1.1", or "5.4" as an
// alternate spelling of a chapter). Entries of any other type decode to an
// invalid code that never matches.
type ChapterCode struct {
	kind codeKind
	num  float64
	str  string
}

// NumberCode builds a numeric chapter code.
func NumberCode(n float64) ChapterCode {
	return ChapterCode{kind: codeNumber, num: n}
}

// StringCode builds a string chapter code.
func StringCode(s string) ChapterCode {
	return ChapterCode{kind: codeString, str: s}
}

// IsNumber reports whether the code was encoded as a JSON number.
func (c ChapterCode) IsNumber() bool { return c.kind == codeNumber }

// IsString reports whether the code was encoded as a JSON string.
func (c ChapterCode) IsString() bool { return c.kind == codeString }

// Valid reports whether the code is a number or a string.
func (c ChapterCode) Valid() bool { return c.kind != codeInvalid }

// Number returns the numeric value of a number code.
func (c ChapterCode) Number() float64 { return c.num }

// Text returns the raw value of a string code.
func (c ChapterCode) Text() string { return c.str }

// Decimal normalises the code to a decimal. String codes go through a
// leading-float parse, so "5.1.1" becomes 5.1.
func (c ChapterCode) Decimal() (float64, bool) {
	switch c.kind {
	case codeNumber:
		if math.IsNaN(c.num) {
			return 0, false
		}
		return c.num, true
	case codeString:
		return parseLeadingFloat(c.str)
	default:
		return 0, false
	}
}

func (c ChapterCode) String() string {
	switch c.kind {
	case codeNumber:
		return FormatChapter(c.num)
	case codeString:
		return c.str
	default:
		return ""
	}
}

func (c ChapterCode) MarshalJSON() ([]byte, error) {
	switch c.kind {
	case codeNumber:
		return []byte(FormatChapter(c.num)), nil
	case codeString:
		return json.Marshal(c.str)
	default:
		return []byte("null"), nil
	}
}

func (c *ChapterCode) UnmarshalJSON(data []byte) error {
	*c = ChapterCode{}

	var n float64
	if err := json.Unmarshal(data, &n); err == nil && !isNull(data) {
		*c = NumberCode(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil && !isNull(data) {
		*c = StringCode(s)
		return nil
	}

	return nil
}

func isNull(data []byte) bool {
	return strings.TrimSpace(string(data)) == "null"
}

// FormatChapter renders a chapter number the way it is written in the data:
// shortest representation, no trailing zeros ("5", "5.1", "12.25").
func FormatChapter(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

var leadingFloat = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)

// parseLeadingFloat parses the longest decimal prefix of s, ignoring leading
// whitespace and any trailing text ("5.1.1" -> 5.1, "3 marks" -> 3).
func parseLeadingFloat(s string) (float64, bool) {
	s = strings.TrimLeft(s, " \t\n\r\f\v")
	if m := leadingFloat.FindString(s); m != "" {
		f, err := strconv.ParseFloat(m, 64)
		if err != nil {
			// Only a range error is possible here; ParseFloat returns ±Inf.
			return f, !math.IsNaN(f)
		}
		return f, true
	}

	switch {
	case strings.HasPrefix(s, "Infinity"), strings.HasPrefix(s, "+Infinity"):
		return math.Inf(1), true
	case strings.HasPrefix(s, "-Infinity"):
		return math.Inf(-1), true
	}
	return 0, false
}
