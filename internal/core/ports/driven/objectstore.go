package driven

import (
	"context"
	"io"
)

// ObjectStore uploads bytes directly to a presigned URL.
// Implementations must not attach the backend bearer token.
type ObjectStore interface {
	// Put uploads body with the given content type. A non-success response
	// is reported as a *domain.TransferError.
	Put(ctx context.Context, url, contentType string, body io.Reader, size int64) error
}
