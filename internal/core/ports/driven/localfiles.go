package driven

import (
	"io"

	"github.com/custodia-labs/kbhub-cli/internal/core/domain"
)

// LocalFiles reads files selected for upload.
type LocalFiles interface {
	// Stat describes the file at path, including its detected content type.
	Stat(path string) (*domain.LocalFile, error)

	// Open opens the file for reading.
	Open(path string) (io.ReadCloser, error)
}
