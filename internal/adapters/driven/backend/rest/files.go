package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/custodia-labs/kbhub-cli/internal/core/domain"
)

// ListFiles returns the catalog in backend order.
func (c *Client) ListFiles(ctx context.Context) ([]domain.FileRecord, error) {
	var out []fileDTO
	if err := c.do(ctx, request{method: http.MethodGet, path: "/files"}, &out); err != nil {
		return nil, err
	}
	files := make([]domain.FileRecord, 0, len(out))
	for _, f := range out {
		files = append(files, f.toDomain())
	}
	return files, nil
}

// DeleteFile removes a file with all its versions.
func (c *Client) DeleteFile(ctx context.Context, filename string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/files/" + escape(filename)}, nil)
}

// ListVersions returns the stored revisions of filename.
func (c *Client) ListVersions(ctx context.Context, filename string) ([]domain.VersionRecord, error) {
	var out []versionDTO
	path := "/files/" + escape(filename) + "/versions"
	if err := c.do(ctx, request{method: http.MethodGet, path: path}, &out); err != nil {
		return nil, err
	}
	versions := make([]domain.VersionRecord, 0, len(out))
	for _, v := range out {
		versions = append(versions, v.toDomain())
	}
	return versions, nil
}

// RestoreVersion promotes versionID to the latest revision.
func (c *Client) RestoreVersion(ctx context.Context, filename, versionID string) error {
	path := "/files/" + escape(filename) + "/versions/" + escape(versionID) + "/restore"
	return c.do(ctx, request{method: http.MethodPost, path: path}, nil)
}

// ViewURL returns a presigned URL for inline viewing.
func (c *Client) ViewURL(ctx context.Context, filename string) (string, error) {
	var out viewURLDTO
	path := "/files/" + escape(filename) + "/view"
	if err := c.do(ctx, request{method: http.MethodGet, path: path}, &out); err != nil {
		return "", err
	}
	if out.ViewURL == "" {
		return "", fmt.Errorf("GET %s: response has no view_url", path)
	}
	return out.ViewURL, nil
}

// DownloadURL returns a presigned URL that downloads the file.
func (c *Client) DownloadURL(ctx context.Context, filename string) (string, error) {
	var out downloadURLDTO
	path := "/files/" + escape(filename) + "/download"
	if err := c.do(ctx, request{method: http.MethodGet, path: path}, &out); err != nil {
		return "", err
	}
	if out.DownloadURL == "" {
		return "", fmt.Errorf("GET %s: response has no download_url", path)
	}
	return out.DownloadURL, nil
}
