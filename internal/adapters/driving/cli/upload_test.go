package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kbhub-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/kbhub-cli/internal/core/domain"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestUploadCmd_RequiresPath(t *testing.T) {
	setupTestServices(t, domain.GroupContributors)

	_, err := run(t, "upload")

	require.Error(t, err)
}

func TestUploadCmd_UploadsFiles(t *testing.T) {
	env := setupTestServices(t, domain.GroupContributors)
	first := writeTemp(t, "minutes.txt", "board minutes")
	second := writeTemp(t, "plan.md", "# plan")

	out, err := run(t, "upload", first, second)

	require.NoError(t, err)
	assert.Contains(t, out, "Uploading minutes.txt (13 B")
	assert.Contains(t, out, "Uploading plan.md")
	assert.Contains(t, out, "done")

	names := remainingFiles(t, env)
	assert.Contains(t, names, "minutes.txt")
	assert.Contains(t, names, "plan.md")
}

func TestUploadCmd_StoredNotIndexed(t *testing.T) {
	env := setupTestServices(t, domain.GroupContributors)
	env.backend.SetIngestResult(domain.IngestResult{Status: domain.IngestStoredNotParsed, Error: "unsupported encoding"})
	path := writeTemp(t, "scan.txt", "???")

	out, err := run(t, "upload", path)

	require.NoError(t, err)
	assert.Contains(t, out, "stored, not indexed")
	assert.Contains(t, out, "warning: scan.txt: unsupported encoding")
}

func TestUploadCmd_FailureStopsRun(t *testing.T) {
	env := setupTestServices(t, domain.GroupContributors)
	env.backend.Fail(memory.OpUploadURL, errors.New("signer offline"))
	first := writeTemp(t, "a.txt", "a")
	second := writeTemp(t, "b.txt", "b")

	out, err := run(t, "upload", first, second)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "a.txt")
	assert.Contains(t, err.Error(), "signer offline")
	assert.Contains(t, out, "failed")
	assert.NotContains(t, out, "b.txt")

	var perr *domain.PipelineError
	assert.True(t, errors.As(err, &perr))
}

func TestUploadCmd_MissingFile(t *testing.T) {
	setupTestServices(t, domain.GroupContributors)

	_, err := run(t, "upload", filepath.Join(t.TempDir(), "missing.pdf"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.pdf")
}

func TestUploadCmd_ViewerForbidden(t *testing.T) {
	env := setupTestServices(t)
	path := writeTemp(t, "a.txt", "a")

	_, err := run(t, "upload", path)

	assert.ErrorIs(t, err, domain.ErrForbidden)
	files, listErr := env.backend.ListFiles(context.Background())
	require.NoError(t, listErr)
	assert.Len(t, files, 2)
}
