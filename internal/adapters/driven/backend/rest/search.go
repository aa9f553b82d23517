package rest

import (
	"context"
	"net/http"
	"net/url"

	"github.com/custodia-labs/kbhub-cli/internal/core/domain"
)

// Search runs a semantic query.
func (c *Client) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	var out []searchResultDTO
	req := request{
		method: http.MethodGet,
		path:   "/search",
		query:  url.Values{"q": {query}},
	}
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	results := make([]domain.SearchResult, 0, len(out))
	for _, r := range out {
		results = append(results, domain.SearchResult{
			Content: r.Content,
			Source:  r.Source,
			Score:   float64(r.Score),
		})
	}
	return results, nil
}
