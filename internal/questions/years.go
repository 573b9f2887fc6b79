package questions

import "sort"

// DistinctYears returns the distinct year labels of the corpus in byte-wise
// order. A question without a year contributes "". Years are compared as strings, so "10000" sorts before
// "9999".
func DistinctYears(questions []Question) []string {
	seen := make(map[string]struct{})
	for _, q := range questions {
		seen[q.Year] = struct{}{}
	}

	years := make([]string, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Strings(years)
	return years
}

// DistinctTypes returns the distinct non-empty Type tags, sorted.
func DistinctTypes(questions []Question) []string {
	seen := make(map[string]struct{})
	for _, q := range questions {
		if q.Type == "" {
			continue
		}
		seen[q.Type] = struct{}{}
	}

	types := make([]string, 0, len(seen))
	for t := range seen {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
