package admin

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kbhub-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/kbhub-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/kbhub-cli/internal/core/domain"
	"github.com/custodia-labs/kbhub-cli/internal/core/services"
)

func setupAdmin(t *testing.T, configure func(b *memory.Backend)) (*View, string) {
	t.Helper()

	b := memory.NewBackend("root", domain.GroupAdmins)
	b.AddFile(domain.FileRecord{FileID: "a.pdf", Filename: "a.pdf"})
	b.SetAdmin(
		domain.AdminStats{OnlineUsersCount: 1, OnlineUsersList: []string{"root"}, StorageUsed: "1.2 GB", SystemHealth: "Healthy"},
		[]domain.UserEntry{
			{Username: "root", Email: "root@example.com", Enabled: true, Groups: []string{domain.GroupAdmins}},
			{Username: "bob", Email: "bob@example.com", Enabled: false},
		},
		[]domain.AuditLogEntry{
			{EventID: "1", Timestamp: time.Now().Add(-time.Minute), User: "root", Method: "GET", Path: "/files", StatusCode: 200, DurationMS: 12.4},
			{EventID: "2", Timestamp: time.Now(), User: "bob", Method: "DELETE", Path: "/files/a.pdf", StatusCode: 403, DurationMS: 3},
		},
	)
	if configure != nil {
		configure(b)
	}

	ws := services.NewWorkspace(&services.Resolution{
		Session: &domain.Session{Token: "token", Username: "root", Groups: []string{domain.GroupAdmins}},
		Backend: b,
	}, services.WorkspaceOptions{})
	_ = ws.Enter(context.Background(), domain.TabAdmin)

	dir := t.TempDir()
	v := NewView(context.Background(), nil, nil, ws.Admin(), dir)
	v.SetDimensions(140, 40)
	v.Refresh()
	return v, dir
}

func TestView_RendersOverview(t *testing.T) {
	v, _ := setupAdmin(t, nil)

	view := v.View()

	assert.Contains(t, view, "Files: 1")
	assert.Contains(t, view, "Storage: 1.2 GB")
	assert.Contains(t, view, "Healthy")
	assert.Contains(t, view, "Users (2)")
	assert.Contains(t, view, "root@example.com")
	assert.Contains(t, view, "online")
	assert.Contains(t, view, "offline")
	assert.Contains(t, view, "disabled")
	assert.Contains(t, view, "Audit log (2)")
	assert.Contains(t, view, "DELETE /files/a.pdf bob")
	assert.NotContains(t, view, "API:")
	assert.False(t, v.Capturing())
	assert.Nil(t, v.Init())
}

func TestView_PartialFailureBanner(t *testing.T) {
	v, _ := setupAdmin(t, func(b *memory.Backend) {
		b.Fail(memory.OpUsers, errors.New("directory offline"))
		b.Fail(memory.OpStats, errors.New("timeout"))
	})

	view := v.View()

	assert.Contains(t, view, "Stats API: timeout. Users API: directory offline.")
	assert.Contains(t, view, "Users (0)")
	assert.Contains(t, view, "Files: 0")
	assert.Contains(t, view, "Audit log (2)")
}

func TestView_ScrollsLog(t *testing.T) {
	v, _ := setupAdmin(t, nil)

	v.Update(tea.KeyMsg{Type: tea.KeyDown})

	assert.Equal(t, 1, v.logs.Selected())
}

func TestView_Export(t *testing.T) {
	v, dir := setupAdmin(t, nil)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'e'}})
	require.NotNil(t, cmd)
	msg, ok := cmd().(messages.AdminExported)
	require.True(t, ok)
	require.NoError(t, msg.Err)

	assert.Equal(t, dir, filepath.Dir(msg.Path))
	assert.Equal(t, domain.AuditExportFilename(time.Now()), filepath.Base(msg.Path))
	data, err := os.ReadFile(msg.Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "DELETE,/files/a.pdf,403")

	_, cmd = v.Update(msg)
	require.NotNil(t, cmd)
	assert.Equal(t, messages.Notice{Text: "Saved audit log to " + msg.Path, Level: messages.LevelSuccess}, cmd())
}

func TestView_ExportFailure(t *testing.T) {
	v, _ := setupAdmin(t, func(b *memory.Backend) {
		b.Fail(memory.OpExportLogs, errors.New("export disabled"))
	})

	msg := v.export()()
	exported, ok := msg.(messages.AdminExported)
	require.True(t, ok)
	require.Error(t, exported.Err)

	_, cmd := v.Update(exported)
	require.NotNil(t, cmd)
	n, ok := cmd().(messages.Notice)
	require.True(t, ok)
	assert.Equal(t, messages.LevelError, n.Level)
	assert.Contains(t, n.Text, "export disabled")
}
