package rest

import (
	"context"
	"net/http"

	"github.com/custodia-labs/kbhub-cli/internal/core/domain"
)

// ListTags returns tag definitions with usage counts.
func (c *Client) ListTags(ctx context.Context) ([]domain.Tag, error) {
	var out []tagDTO
	if err := c.do(ctx, request{method: http.MethodGet, path: "/tags/"}, &out); err != nil {
		return nil, err
	}
	tags := make([]domain.Tag, 0, len(out))
	for _, t := range out {
		color := t.Color
		if color == "" {
			color = domain.DefaultTagColor
		}
		tags = append(tags, domain.Tag{Name: t.Name, Color: color, Count: int(t.Count)})
	}
	return tags, nil
}

// CreateTag defines a tag.
func (c *Client) CreateTag(ctx context.Context, tag domain.Tag) error {
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   "/tags/",
		body:   createTagDTO{Name: tag.Name, Color: tag.Color},
	}, nil)
}

// DeleteTag removes a tag definition.
func (c *Client) DeleteTag(ctx context.Context, name string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/tags/" + escape(name)}, nil)
}

// AssignTags replaces the tag set of fileID.
func (c *Client) AssignTags(ctx context.Context, fileID string, tags []string) error {
	if tags == nil {
		tags = []string{}
	}
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   "/tags/assign",
		body:   assignTagsDTO{FileID: fileID, Tags: tags},
	}, nil)
}
