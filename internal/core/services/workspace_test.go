package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kbhub-cli/internal/core/domain"
)

func newTestWorkspace(backend *mockBackend, groups ...string) (*Workspace, *manualTimer) {
	if groups == nil {
		groups = []string{}
	}
	res := &Resolution{
		Session: &domain.Session{Token: "tok", Username: "alice", Groups: groups},
		Backend: backend,
	}
	w := NewWorkspace(res, WorkspaceOptions{
		ObjectStore: &mockObjectStore{},
		LocalFiles:  &mockLocalFiles{files: map[string]string{"report.pdf": "data"}},
		URLCache:    newMapCache(),
	})
	timer := &manualTimer{}
	w.upload.afterFunc = func(d time.Duration, f func()) {
		timer.delay = d
		timer.fire = f
	}
	return w, timer
}

func TestWorkspace_ViewerStartsOnBrowse(t *testing.T) {
	w, _ := newTestWorkspace(&mockBackend{})

	assert.Equal(t, domain.TabBrowse, w.View().Active())
	assert.ErrorIs(t, w.Enter(context.Background(), domain.TabUpload), domain.ErrTabUnavailable)
	assert.ErrorIs(t, w.Enter(context.Background(), domain.TabAdmin), domain.ErrTabUnavailable)
}

func TestWorkspace_EnterBrowseLoadsFilesAndTags(t *testing.T) {
	backend := &mockBackend{
		ListFilesFunc: func(context.Context) ([]domain.FileRecord, error) { return testFiles(), nil },
		ListTagsFunc: func(context.Context) ([]domain.Tag, error) {
			return []domain.Tag{{Name: "finance"}}, nil
		},
	}
	w, _ := newTestWorkspace(backend, domain.GroupContributors)
	assert.Equal(t, domain.TabUpload, w.View().Active())

	require.NoError(t, w.Enter(context.Background(), domain.TabBrowse))

	assert.Equal(t, domain.TabBrowse, w.View().Active())
	assert.Len(t, w.Catalog().Files(), 3)
	assert.Len(t, w.Tags().Tags(), 1)
}

func TestWorkspace_EnterBrowseReportsBothFailures(t *testing.T) {
	backend := &mockBackend{
		ListFilesFunc: func(context.Context) ([]domain.FileRecord, error) { return nil, errors.New("files down") },
		ListTagsFunc:  func(context.Context) ([]domain.Tag, error) { return nil, errors.New("tags down") },
	}
	w, _ := newTestWorkspace(backend)

	err := w.Enter(context.Background(), domain.TabBrowse)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "files down")
	assert.Contains(t, err.Error(), "tags down")
}

func TestWorkspace_EnterAdmin(t *testing.T) {
	w, _ := newTestWorkspace(adminBackend(), domain.GroupAdmins)

	require.NoError(t, w.Enter(context.Background(), domain.TabAdmin))

	assert.Equal(t, domain.TabAdmin, w.View().Active())
	assert.Equal(t, 12, w.Admin().Overview().Stats.TotalFiles)
}

func TestWorkspace_UploadCompletionSwitchesToBrowse(t *testing.T) {
	uploaded := false
	backend := &mockBackend{
		ListFilesFunc: func(context.Context) ([]domain.FileRecord, error) {
			if uploaded {
				return []domain.FileRecord{{FileID: "report.pdf", Filename: "report.pdf"}}, nil
			}
			return nil, nil
		},
		ConfirmIngestionFunc: func(_ context.Context, req domain.IngestRequest) (*domain.IngestResult, error) {
			uploaded = true
			return &domain.IngestResult{Status: domain.IngestIndexed, FileID: req.FileID}, nil
		},
	}
	w, timer := newTestWorkspace(backend, domain.GroupContributors)
	require.NoError(t, w.Upload().SelectPath("report.pdf"))
	require.NoError(t, w.Upload().Start(context.Background()))
	assert.Equal(t, domain.TabUpload, w.View().Active())

	timer.fire()

	assert.Equal(t, domain.TabBrowse, w.View().Active())
	assert.Equal(t, domain.UploadIdle, w.Upload().Status().State)
	_, ok := w.Catalog().GetByFilename("report.pdf")
	assert.True(t, ok)
}

func TestWorkspace_PreviewFollowsCatalogDeletes(t *testing.T) {
	backend := &mockBackend{ListFilesFunc: func(context.Context) ([]domain.FileRecord, error) {
		return testFiles(), nil
	}}
	w, _ := newTestWorkspace(backend, domain.GroupContributors)
	require.NoError(t, w.Enter(context.Background(), domain.TabBrowse))
	file, _ := w.Catalog().Get("f3")
	_, err := w.Preview().Open(context.Background(), *file)
	require.NoError(t, err)

	confirm, err := w.Catalog().RequestDelete("notes.txt")
	require.NoError(t, err)
	require.NoError(t, confirm.Confirm(context.Background()))

	assert.Nil(t, w.Preview().Selected())
}
