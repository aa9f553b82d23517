package localfs

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kbhub-cli/internal/core/domain"
)

func TestFiles_Stat(t *testing.T) {
	dir := t.TempDir()
	pdf := filepath.Join(dir, "report.pdf")
	require.NoError(t, os.WriteFile(pdf, []byte("%PDF-1.7\n%binary\n"), 0o600))
	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("plain notes\n"), 0o600))

	files := New()

	f, err := files.Stat(pdf)
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", f.Name)
	assert.Equal(t, "application/pdf", f.ContentType)
	assert.Equal(t, int64(17), f.Size)

	f, err = files.Stat(txt)
	require.NoError(t, err)
	assert.Equal(t, "text/plain", f.ContentType)
}

func TestFiles_Stat_Errors(t *testing.T) {
	files := New()

	_, err := files.Stat(filepath.Join(t.TempDir(), "missing.pdf"))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = files.Stat(t.TempDir())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFiles_Open(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("content"), 0o600))

	rc, err := New().Open(path)
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
}
