package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// uriScheme is the custom URI scheme for kbhub resources.
const uriScheme = "kbhub://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "tags",
		Name:        "tags",
		Description: "Tags defined in the knowledge base with their colours and usage counts",
		MIMEType:    "application/json",
	}, s.handleTagsResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "session",
		Name:        "session",
		Description: "The signed-in user, their groups and what they may do",
		MIMEType:    "application/json",
	}, s.handleSessionResource)
}

// handleTagsResource returns the tag definitions.
func (s *Server) handleTagsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws, err := s.workspace(ctx)
	if err != nil {
		return nil, err
	}
	if err := ws.Tags().Refresh(ctx); err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	return jsonResource(req.Params.URI, ws.Tags().Tags())
}

// handleSessionResource describes the signed-in user.
func (s *Server) handleSessionResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws, err := s.workspace(ctx)
	if err != nil {
		return nil, err
	}

	type sessionInfo struct {
		Username    string   `json:"username"`
		Groups      []string `json:"groups"`
		Degraded    bool     `json:"degraded"`
		CanDownload bool     `json:"can_download"`
		Admin       bool     `json:"admin"`
	}

	session := ws.Session()
	caps := session.Capabilities()
	groups := session.Groups
	if groups == nil {
		groups = []string{}
	}
	return jsonResource(req.Params.URI, sessionInfo{
		Username:    session.Username,
		Groups:      groups,
		Degraded:    session.Degraded,
		CanDownload: caps.CanDownload(),
		Admin:       caps.CanAdminister(),
	})
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
