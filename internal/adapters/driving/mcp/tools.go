package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/kbhub-cli/internal/core/domain"
)

const defaultSearchLimit = 10

// ListFilesInput is the input schema for the list_files tool.
type ListFilesInput struct {
	Query string   `json:"query,omitempty" jsonschema:"case-insensitive substring of the filename"`
	Tags  []string `json:"tags,omitempty" jsonschema:"only return files carrying at least one of these tags"`
}

// ListFilesOutput is the output schema for the list_files tool.
type ListFilesOutput struct {
	Files []FileOutput `json:"files"`
	Count int          `json:"count"`
}

// FileOutput is a file in the knowledge base.
type FileOutput struct {
	FileID      string   `json:"file_id"`
	Filename    string   `json:"filename"`
	Size        int64    `json:"size"`
	Tags        []string `json:"tags"`
	ContentType string   `json:"content_type,omitempty"`
}

// SearchInput is the input schema for the semantic_search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"natural language question to search the document contents for"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
}

// SearchOutput is the output schema for the semantic_search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput is a single semantic search hit.
type SearchResultOutput struct {
	Filename  string  `json:"filename"`
	Content   string  `json:"content"`
	Score     float64 `json:"score"`
	InCatalog bool    `json:"in_catalog"`
}

// PreviewInput is the input schema for the get_preview_url tool.
type PreviewInput struct {
	Filename string `json:"filename" jsonschema:"name of the file to link to"`
	Download bool   `json:"download,omitempty" jsonschema:"return a download link instead of a view link (contributors only)"`
}

// PreviewOutput is the output schema for the get_preview_url tool.
type PreviewOutput struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Kind     string `json:"kind"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_files",
		Description: "List the files in the knowledge base, optionally filtered by name or tag",
	}, s.handleListFiles)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "semantic_search",
		Description: "Search the contents of indexed documents with a natural language query",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_preview_url",
		Description: "Get a short-lived link to view or download a file",
	}, s.handlePreview)
}

// handleListFiles reloads the file list and filters it.
func (s *Server) handleListFiles(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListFilesInput,
) (*mcp.CallToolResult, ListFilesOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws, err := s.workspace(ctx)
	if err != nil {
		return nil, ListFilesOutput{}, err
	}
	if err := ws.Catalog().Refresh(ctx); err != nil {
		return nil, ListFilesOutput{}, err
	}

	files := domain.FilterFiles(ws.Catalog().Files(), input.Query, input.Tags)
	output := ListFilesOutput{
		Files: make([]FileOutput, len(files)),
		Count: len(files),
	}
	for i := range files {
		output.Files[i] = FileOutput{
			FileID:      files[i].FileID,
			Filename:    files[i].Filename,
			Size:        files[i].Size,
			Tags:        files[i].Tags,
			ContentType: files[i].ContentType,
		}
	}
	return nil, output, nil
}

// handleSearch runs a semantic query and returns up to the limit of hits.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return nil, SearchOutput{}, ErrEmptyQuery
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ws, err := s.workspace(ctx)
	if err != nil {
		return nil, SearchOutput{}, err
	}
	search := ws.Search()
	search.SetMode(domain.SearchModeSemantic)
	search.SetQuery(query)
	if err := search.Commit(ctx); err != nil {
		return nil, SearchOutput{}, err
	}

	hits, _ := search.Results()
	if len(hits) > limit {
		hits = hits[:limit]
	}
	output := SearchOutput{
		Results: make([]SearchResultOutput, len(hits)),
		Count:   len(hits),
	}
	for i, hit := range hits {
		output.Results[i] = SearchResultOutput{
			Filename:  hit.Result.Source,
			Content:   hit.Result.Content,
			Score:     hit.Result.Score,
			InCatalog: hit.File != nil,
		}
	}
	return nil, output, nil
}

// handlePreview resolves a view or download link for a catalog file.
func (s *Server) handlePreview(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input PreviewInput,
) (*mcp.CallToolResult, PreviewOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws, err := s.workspace(ctx)
	if err != nil {
		return nil, PreviewOutput{}, err
	}
	file, err := s.lookup(ctx, input.Filename)
	if err != nil {
		return nil, PreviewOutput{}, err
	}

	if input.Download {
		url, err := ws.Preview().DownloadURL(ctx, file.Filename)
		if err != nil {
			return nil, PreviewOutput{}, err
		}
		return nil, PreviewOutput{Filename: file.Filename, URL: url, Kind: "download"}, nil
	}

	preview, err := ws.Preview().Open(ctx, *file)
	if err != nil {
		return nil, PreviewOutput{}, err
	}
	ws.Preview().Close()
	return nil, PreviewOutput{
		Filename: file.Filename,
		URL:      preview.URL,
		Kind:     preview.Kind.String(),
	}, nil
}

// lookup finds filename in the catalog, reloading it once on a miss.
// Callers hold s.mu.
func (s *Server) lookup(ctx context.Context, filename string) (*domain.FileRecord, error) {
	catalog := s.ws.Catalog()
	if f, ok := catalog.GetByFilename(filename); ok {
		return f, nil
	}
	if err := catalog.Refresh(ctx); err != nil {
		return nil, err
	}
	if f, ok := catalog.GetByFilename(filename); ok {
		return f, nil
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, filename)
}
