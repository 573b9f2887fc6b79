package indexing

// Topic kinds
const (
	KindUnit       = "unit"
	KindChapter    = "chapter"
	KindSubchapter = "subchapter"
)

// Lookup limits
const (
	// DefaultMaxResults is used when a lookup does not ask for a size
	DefaultMaxResults = 10

	// MaxResultsLimit caps the size of a single lookup
	MaxResultsLimit = 50

	// MaxKeywords caps the keywords kept per topic
	MaxKeywords = 10

	// IndexSchemaVersion increments when the topic document layout changes
	// v1: flat syllabus nodes with breadcrumb and keywords
	IndexSchemaVersion = 1
)
