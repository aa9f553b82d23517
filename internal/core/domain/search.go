package domain

// SearchMode selects how the browse view finds files.
type SearchMode int

const (
	// SearchModeMetadata filters the cached file list locally.
	SearchModeMetadata SearchMode = iota
	// SearchModeSemantic sends the query to the backend on commit.
	SearchModeSemantic
)

// String returns the mode name.
func (m SearchMode) String() string {
	switch m {
	case SearchModeMetadata:
		return "metadata"
	case SearchModeSemantic:
		return "semantic"
	default:
		return "unknown"
	}
}

// ParseSearchMode parses a mode name.
func ParseSearchMode(s string) (SearchMode, bool) {
	switch s {
	case "metadata":
		return SearchModeMetadata, true
	case "semantic":
		return SearchModeSemantic, true
	}
	return SearchModeMetadata, false
}

// SearchResult is a semantic search hit. Source is the filename of the
// matching document and is the key back into the file catalog.
type SearchResult struct {
	Content string  `json:"content"`
	Source  string  `json:"source"`
	Score   float64 `json:"score"`
}

// SemanticHit pairs a search result with the catalog record it refers to.
// File is nil when the catalog has no record with that filename.
type SemanticHit struct {
	Result SearchResult
	File   *FileRecord
}
