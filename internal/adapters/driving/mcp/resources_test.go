package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kbhub-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/kbhub-cli/internal/core/domain"
)

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleTagsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns tags with counts", func(t *testing.T) {
		server, _ := newTestServer(t)

		result, err := server.handleTagsResource(ctx, makeReadResourceRequest("kbhub://tags"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "kbhub://tags", result.Contents[0].URI)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)

		var tags []domain.Tag
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &tags))
		require.Len(t, tags, 2)
		assert.Equal(t, domain.Tag{Name: "finance", Color: "#72dbc8", Count: 1}, domain.LookupTag(tags, "finance"))
	})

	t.Run("returns error when tags fail to load", func(t *testing.T) {
		server, b := newTestServer(t)
		_, _, err := server.handleListFiles(ctx, nil, ListFilesInput{})
		require.NoError(t, err)
		b.Fail(memory.OpListTags, errors.New("tag service down"))

		_, err = server.handleTagsResource(ctx, makeReadResourceRequest("kbhub://tags"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing tags")
	})
}

func TestServer_handleSessionResource(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		groups   []string
		download bool
		admin    bool
	}{
		{name: "viewer", groups: nil},
		{name: "contributor", groups: []string{domain.GroupContributors}, download: true},
		{name: "admin", groups: []string{domain.GroupAdmins}, download: true, admin: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := newTestServer(t, tt.groups...)

			result, err := server.handleSessionResource(ctx, makeReadResourceRequest("kbhub://session"))
			require.NoError(t, err)
			require.Len(t, result.Contents, 1)

			var info struct {
				Username    string   `json:"username"`
				Groups      []string `json:"groups"`
				CanDownload bool     `json:"can_download"`
				Admin       bool     `json:"admin"`
			}
			require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &info))
			assert.Equal(t, "alice", info.Username)
			assert.Equal(t, tt.download, info.CanDownload)
			assert.Equal(t, tt.admin, info.Admin)
			assert.NotNil(t, info.Groups)
		})
	}
}
