package indexing

import (
	"sort"
	"strings"
)

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true,
	"but": true, "in": true, "on": true, "at": true, "to": true,
	"for": true, "of": true, "as": true, "by": true, "is": true,
	"it": true, "be": true, "with": true, "from": true, "that": true,
	"their": true, "its": true,
}

// ExtractKeywords extracts key terms from a node title and its parent titles.
// The result is sorted and holds at most MaxKeywords entries.
func ExtractKeywords(title string, parents ...string) []string {
	words := strings.Fields(strings.ToLower(title))
	for _, p := range parents {
		words = append(words, strings.Fields(strings.ToLower(p))...)
	}

	keywordMap := make(map[string]bool)
	for _, word := range words {
		word = strings.TrimFunc(word, func(r rune) bool {
			return !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'))
		})
		if len(word) > 2 && !stopWords[word] {
			keywordMap[word] = true
		}
	}

	keywords := make([]string, 0, len(keywordMap))
	for word := range keywordMap {
		keywords = append(keywords, word)
	}
	sort.Strings(keywords)

	if len(keywords) > MaxKeywords {
		keywords = keywords[:MaxKeywords]
	}
	return keywords
}

// CreateAnchor creates a URL anchor from text
// Example: "Rolle's Theorem" -> "rolles-theorem"
func CreateAnchor(text string) string {
	anchor := strings.ToLower(strings.TrimSpace(text))
	anchor = strings.ReplaceAll(anchor, " ", "-")
	anchor = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '.' {
			return r
		}
		return -1
	}, anchor)
	return anchor
}

// breadcrumb joins the non-empty hierarchy labels.
func breadcrumb(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " > ")
}
