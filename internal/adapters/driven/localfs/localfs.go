// Package localfs reads files from the local filesystem for upload.
package localfs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/custodia-labs/kbhub-cli/internal/core/domain"
	"github.com/custodia-labs/kbhub-cli/internal/core/ports/driven"
)

// Ensure Files implements the interface.
var _ driven.LocalFiles = (*Files)(nil)

// Files describes and opens local files.
type Files struct{}

// New creates a Files adapter.
func New() *Files {
	return &Files{}
}

// Stat describes the regular file at path. The content type is sniffed
// from the file's contents, without parameters such as charset.
func (f *Files) Stat(path string) (*domain.LocalFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, path)
	}

	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, fmt.Errorf("detect content type: %w", err)
	}
	contentType := mt.String()
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}

	return &domain.LocalFile{
		Path:        path,
		Name:        filepath.Base(path),
		Size:        info.Size(),
		ContentType: contentType,
	}, nil
}

// Open opens path for reading.
func (f *Files) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}
