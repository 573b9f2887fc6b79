package indexing

// Topic represents a syllabus node in the topic index
type Topic struct {
	ID         string   `json:"id"`                 // "unit-5", "chapter-5-5.1", "subchapter-5-5.1.1"
	Kind       string   `json:"kind"`               // KindUnit, KindChapter or KindSubchapter
	Unit       int      `json:"unit"`               // owning unit number
	Chapter    string   `json:"chapter,omitempty"`  // rendered chapter number, empty for units
	Code       string   `json:"code"`               // value to use as a filter selection
	Title      string   `json:"title"`              // node title as written in the syllabus
	Breadcrumb string   `json:"breadcrumb"`         // Full hierarchy: "Unit 5: Calculus > 5.1 Limits"
	Keywords   []string `json:"keywords,omitempty"` // Key terms extracted from the title
}
