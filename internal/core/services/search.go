package services

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/custodia-labs/kbhub-cli/internal/core/domain"
	"github.com/custodia-labs/kbhub-cli/internal/core/ports/driven"
	"github.com/custodia-labs/kbhub-cli/internal/core/ports/driving"
	"github.com/custodia-labs/kbhub-cli/internal/logger"
)

// Ensure SearchController implements the interface.
var _ driving.SearchController = (*SearchController)(nil)

// SearchController switches between local metadata filtering and backend
// semantic search. Semantic results hold filenames that are resolved
// against the catalog on read.
type SearchController struct {
	api     driven.SearchAPI
	catalog *FileCatalog

	mu         sync.RWMutex
	mode       domain.SearchMode
	query      string
	tagFilters []string
	results    []domain.SearchResult
	executed   bool
	searching  bool
	generation uint64
}

// NewSearchController starts in metadata mode and subscribes to catalog changes.
func NewSearchController(api driven.SearchAPI, catalog *FileCatalog) *SearchController {
	s := &SearchController{
		api:     api,
		catalog: catalog,
		mode:    domain.SearchModeMetadata,
	}
	if catalog != nil {
		catalog.subscribe(s)
	}
	return s
}

// Mode returns the active search mode.
func (s *SearchController) Mode() domain.SearchMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// SetMode switches mode. The query text and semantic results are always
// cleared and any in-flight query is discarded.
func (s *SearchController) SetMode(mode domain.SearchMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
	s.query = ""
	s.clearResultsLocked()
}

// Query returns the current query text.
func (s *SearchController) Query() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

// SetQuery updates the query text. In semantic mode nothing is sent until Commit.
func (s *SearchController) SetQuery(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = query
}

// TagFilters returns the selected tag filters.
func (s *SearchController) TagFilters() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.tagFilters)
}

// ToggleTagFilter adds or removes name from the filter set.
func (s *SearchController) ToggleTagFilter(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := slices.Index(s.tagFilters, name); i >= 0 {
		s.tagFilters = slices.Delete(s.tagFilters, i, i+1)
		return
	}
	s.tagFilters = append(s.tagFilters, name)
}

// ClearTagFilters removes all tag filters.
func (s *SearchController) ClearTagFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tagFilters = nil
}

// Visible returns catalog records matching the query text and any selected tag.
func (s *SearchController) Visible() []domain.FileRecord {
	s.mu.RLock()
	query, tags := s.query, slices.Clone(s.tagFilters)
	s.mu.RUnlock()

	if s.catalog == nil {
		return []domain.FileRecord{}
	}
	return domain.FilterFiles(s.catalog.Files(), query, tags)
}

// Commit runs the semantic query. A blank query reloads the catalog
// instead. Each commit replaces the previous results; a response that
// arrives after a newer commit or a mode switch returns domain.ErrStale.
func (s *SearchController) Commit(ctx context.Context) error {
	s.mu.Lock()
	if s.mode != domain.SearchModeSemantic {
		s.mu.Unlock()
		return nil
	}
	query := strings.TrimSpace(s.query)
	if query == "" {
		s.clearResultsLocked()
		s.mu.Unlock()
		if s.catalog == nil {
			return nil
		}
		return s.catalog.Refresh(ctx)
	}
	if s.api == nil {
		s.mu.Unlock()
		return domain.ErrNotImplemented
	}
	s.generation++
	gen := s.generation
	s.searching = true
	s.mu.Unlock()

	logger.Section("Semantic Search")
	logger.Debug("Query: %q", query)
	results, err := s.api.Search(ctx, query)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		logger.Debug("Discarding stale results for %q", query)
		return domain.ErrStale
	}
	s.searching = false
	if err != nil {
		return &domain.FetchError{Op: "search", Err: err}
	}
	if results == nil {
		results = []domain.SearchResult{}
	}
	s.results = results
	s.executed = true
	logger.Debug("Received %d results", len(results))
	return nil
}

// Results returns semantic hits joined with their catalog records, and
// whether a query has run since the last reset.
func (s *SearchController) Results() ([]domain.SemanticHit, bool) {
	s.mu.RLock()
	results, executed := slices.Clone(s.results), s.executed
	s.mu.RUnlock()

	hits := make([]domain.SemanticHit, 0, len(results))
	for _, r := range results {
		hit := domain.SemanticHit{Result: r}
		if s.catalog != nil {
			if f, ok := s.catalog.GetByFilename(r.Source); ok {
				hit.File = f
			}
		}
		hits = append(hits, hit)
	}
	return hits, executed
}

// Searching reports whether a semantic query is in flight.
func (s *SearchController) Searching() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.searching
}

func (s *SearchController) clearResultsLocked() {
	s.results = nil
	s.executed = false
	s.searching = false
	s.generation++
}

// catalogReplaced implements catalogListener. A full reload clears the
// semantic result set.
func (s *SearchController) catalogReplaced() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearResultsLocked()
}

// fileRemoved implements catalogListener.
func (s *SearchController) fileRemoved(filename string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = slices.DeleteFunc(s.results, func(r domain.SearchResult) bool {
		return r.Source == filename
	})
}
