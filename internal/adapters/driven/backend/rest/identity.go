package rest

import (
	"context"
	"net/http"

	"github.com/custodia-labs/kbhub-cli/internal/core/domain"
)

// CurrentUser returns the identity behind the bound token.
func (c *Client) CurrentUser(ctx context.Context) (*domain.Identity, error) {
	var out identityDTO
	if err := c.do(ctx, request{method: http.MethodGet, path: "/auth/me"}, &out); err != nil {
		return nil, err
	}
	return &domain.Identity{Username: out.Username, Groups: out.Groups}, nil
}

// LogLogin records a login event.
func (c *Client) LogLogin(ctx context.Context, event domain.LoginEvent) error {
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   "/admin/log-login",
		body:   loginEventDTO{Username: event.Username, Source: event.Source},
	}, nil)
}
