package questions

import "math"

// TotalMarks sums every run of ASCII digits in a marks descriptor.
// "2+6" is 8, "10" is 10, "" is 0. Decimal points are not special: "2.5"
// yields 2+5. The result saturates at math.MaxInt.
func TotalMarks(marks string) int {
	total := 0
	current := 0
	inRun := false

	flush := func() {
		if !inRun {
			return
		}
		if total > math.MaxInt-current {
			total = math.MaxInt
		} else {
			total += current
		}
		current = 0
		inRun = false
	}

	for i := 0; i < len(marks); i++ {
		c := marks[i]
		if c < '0' || c > '9' {
			flush()
			continue
		}
		inRun = true
		d := int(c - '0')
		if current > (math.MaxInt-d)/10 {
			current = math.MaxInt
		} else {
			current = current*10 + d
		}
	}
	flush()

	return total
}

// InRange reports whether a marks total falls inside r. An unknown range
// value places no constraint.
func (r MarksRange) InRange(total int) bool {
	switch r {
	case MarksLow:
		return total <= 4
	case MarksMedium:
		return total >= 5 && total <= 8
	case MarksHigh:
		return total >= 9
	default:
		return true
	}
}
