package cli

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kbhub-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/kbhub-cli/internal/core/domain"
)

func TestFilesCmd_Subcommands(t *testing.T) {
	names := make([]string, 0, 6)
	for _, cmd := range filesCmd.Commands() {
		names = append(names, cmd.Name())
	}
	assert.ElementsMatch(t, []string{"list", "delete", "versions", "restore", "preview", "download"}, names)
}

func TestFilesList_Table(t *testing.T) {
	setupTestServices(t)

	out, err := run(t, "files", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "FILENAME")
	assert.Contains(t, out, "report.pdf")
	assert.Contains(t, out, "2.0 KiB")
	assert.Contains(t, out, "finance")
	assert.Contains(t, out, "notes.md")
	assert.Contains(t, out, "Total: 2 files")
}

func TestFilesList_Filters(t *testing.T) {
	setupTestServices(t)

	out, err := run(t, "files", "list", "--query", "NOTES")
	require.NoError(t, err)
	assert.Contains(t, out, "notes.md")
	assert.NotContains(t, out, "report.pdf")

	resetFlags()
	out, err = run(t, "files", "list", "--tag", "finance")
	require.NoError(t, err)
	assert.Contains(t, out, "report.pdf")
	assert.NotContains(t, out, "notes.md")
}

func TestFilesList_NoMatches(t *testing.T) {
	setupTestServices(t)

	out, err := run(t, "files", "list", "-q", "missing")

	require.NoError(t, err)
	assert.Contains(t, out, "No files found.")
}

func TestFilesList_JSON(t *testing.T) {
	setupTestServices(t)

	out, err := run(t, "files", "list", "--json")
	require.NoError(t, err)

	var files []domain.FileRecord
	require.NoError(t, json.Unmarshal([]byte(out), &files))
	require.Len(t, files, 2)
	assert.Equal(t, "report.pdf", files[0].Filename)
}

func TestFilesList_BackendFailure(t *testing.T) {
	env := setupTestServices(t)
	env.backend.Fail(memory.OpListFiles, errors.New("backend down"))

	_, err := run(t, "files", "list")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend down")
}

func TestFilesList_TagsFailureIsNotFatal(t *testing.T) {
	env := setupTestServices(t)
	env.backend.Fail(memory.OpListTags, errors.New("tags down"))

	out, err := run(t, "files", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "report.pdf")
}

func remainingFiles(t *testing.T, env *testEnv) []string {
	t.Helper()
	files, err := env.backend.ListFiles(context.Background())
	require.NoError(t, err)
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Filename
	}
	return names
}

func TestFilesDelete_WithYes(t *testing.T) {
	env := setupTestServices(t, domain.GroupContributors)

	out, err := run(t, "files", "delete", "report.pdf", "--yes")

	require.NoError(t, err)
	assert.Contains(t, out, "Deleted report.pdf.")
	assert.Equal(t, []string{"notes.md"}, remainingFiles(t, env))
}

func TestFilesDelete_Confirmation(t *testing.T) {
	env := setupTestServices(t, domain.GroupContributors)

	out, err := runWithInput(t, "n\n", "files", "delete", "report.pdf")
	require.NoError(t, err)
	assert.Contains(t, out, "Delete report.pdf? This cannot be undone. [y/N]")
	assert.Contains(t, out, "Cancelled.")
	assert.Len(t, remainingFiles(t, env), 2)

	out, err = runWithInput(t, "yes\n", "files", "delete", "report.pdf")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted report.pdf.")
	assert.Len(t, remainingFiles(t, env), 1)
}

func TestFilesDelete_ViewerForbidden(t *testing.T) {
	env := setupTestServices(t)

	_, err := run(t, "files", "delete", "report.pdf", "-y")

	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Len(t, remainingFiles(t, env), 2)
}

func TestFilesDelete_UnknownFile(t *testing.T) {
	setupTestServices(t, domain.GroupContributors)

	_, err := run(t, "files", "delete", "missing.pdf", "-y")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFilesVersions(t *testing.T) {
	env := setupTestServices(t, domain.GroupContributors)
	env.backend.AddFile(domain.FileRecord{FileID: "report.pdf", Filename: "report.pdf", Size: 4096, Tags: []string{"finance"}})

	out, err := run(t, "files", "versions", "report.pdf")

	require.NoError(t, err)
	assert.Contains(t, out, "VERSION")
	assert.Contains(t, out, "v1")
	assert.Contains(t, out, "v2")
	assert.Contains(t, out, "latest")
}

func TestFilesVersions_ViewerForbidden(t *testing.T) {
	setupTestServices(t)

	_, err := run(t, "files", "versions", "report.pdf")

	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestFilesRestore(t *testing.T) {
	env := setupTestServices(t, domain.GroupContributors)
	env.backend.AddFile(domain.FileRecord{FileID: "report.pdf", Filename: "report.pdf", Size: 4096})

	out, err := run(t, "files", "restore", "report.pdf", "v1")

	require.NoError(t, err)
	assert.Contains(t, out, "Restored report.pdf to version v1.")
	versions, err := env.backend.ListVersions(context.Background(), "report.pdf")
	require.NoError(t, err)
	for _, v := range versions {
		assert.Equal(t, v.VersionID == "v1", v.IsLatest, v.VersionID)
	}
}

func TestFilesRestore_AlreadyLatest(t *testing.T) {
	env := setupTestServices(t, domain.GroupContributors)
	env.backend.AddFile(domain.FileRecord{FileID: "report.pdf", Filename: "report.pdf", Size: 4096})

	_, err := run(t, "files", "restore", "report.pdf", "v2")

	assert.ErrorIs(t, err, domain.ErrAlreadyLatest)
}

func TestFilesPreview(t *testing.T) {
	setupTestServices(t)

	out, err := run(t, "files", "preview", "report.pdf")

	require.NoError(t, err)
	assert.Contains(t, out, "report.pdf (document preview)")
	assert.Contains(t, out, "memory://view/report.pdf?signature=view")
}

func TestFilesPreview_UnknownFile(t *testing.T) {
	setupTestServices(t)

	_, err := run(t, "files", "preview", "missing.pdf")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFilesDownload(t *testing.T) {
	setupTestServices(t, domain.GroupContributors)

	out, err := run(t, "files", "download", "notes.md")

	require.NoError(t, err)
	assert.Equal(t, "memory://download/notes.md?signature=download", strings.TrimSpace(out))
}

func TestFilesDownload_ViewerForbidden(t *testing.T) {
	setupTestServices(t)

	_, err := run(t, "files", "download", "notes.md")

	assert.ErrorIs(t, err, domain.ErrForbidden)
}
