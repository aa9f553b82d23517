package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/custodia-labs/kbhub-cli/internal/core/domain"
)

// RequestUploadURL asks for a presigned PUT URL for filename.
func (c *Client) RequestUploadURL(ctx context.Context, filename, contentType string) (*domain.UploadCredential, error) {
	var out uploadURLDTO
	req := request{
		method: http.MethodPost,
		path:   "/files/upload-url",
		query:  url.Values{"filename": {filename}, "content_type": {contentType}},
	}
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	if out.UploadURL == "" {
		return nil, fmt.Errorf("POST %s: response has no upload_url", req.path)
	}
	if out.Filename == "" {
		out.Filename = filename
	}
	return &domain.UploadCredential{UploadURL: out.UploadURL, Filename: out.Filename}, nil
}

// ConfirmIngestion asks the backend to index an uploaded object.
func (c *Client) ConfirmIngestion(ctx context.Context, in domain.IngestRequest) (*domain.IngestResult, error) {
	var out ingestResultDTO
	req := request{
		method: http.MethodPost,
		path:   "/files/ingest",
		body: ingestRequestDTO{
			FileID:      in.FileID,
			Filename:    in.Filename,
			ContentType: in.ContentType,
			Size:        in.Size,
			UploadURL:   in.UploadURL,
		},
	}
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &domain.IngestResult{Status: out.Status, FileID: out.FileID, Error: out.Error}, nil
}
