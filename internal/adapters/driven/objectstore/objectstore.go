// Package objectstore uploads files straight to presigned object store URLs.
package objectstore

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/custodia-labs/kbhub-cli/internal/core/domain"
	"github.com/custodia-labs/kbhub-cli/internal/core/ports/driven"
	"github.com/custodia-labs/kbhub-cli/internal/logger"
)

// Ensure Uploader implements the interface.
var _ driven.ObjectStore = (*Uploader)(nil)

// DefaultTimeout bounds a single upload.
const DefaultTimeout = 10 * time.Minute

// Uploader PUTs bytes to presigned URLs. Its client carries no
// credentials: the backend bearer token must never reach the object store.
type Uploader struct {
	client *http.Client
}

// New creates an uploader. A nil client uses one with DefaultTimeout.
func New(client *http.Client) *Uploader {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &Uploader{client: client}
}

// Put uploads body to url. The signature covers Content-Type, so it is
// always sent as given.
func (u *Uploader) Put(ctx context.Context, url, contentType string, body io.Reader, size int64) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, body)
	if err != nil {
		return fmt.Errorf("create upload request: %w", err)
	}
	req.ContentLength = size
	req.Header.Set("Content-Type", contentType)

	start := time.Now()
	resp, err := u.client.Do(req)
	if err != nil {
		return fmt.Errorf("upload to object store: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	logger.Debug("PUT object (%d bytes) -> %d in %s", size, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &domain.TransferError{StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return nil
}
