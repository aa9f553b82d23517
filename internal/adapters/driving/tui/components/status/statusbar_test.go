package status

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kbhub-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/kbhub-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/kbhub-cli/internal/adapters/driving/tui/styles"
)

func TestNewBar(t *testing.T) {
	bar := NewBar(styles.DefaultStyles(), keymap.DefaultKeyMap())

	require.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, messages.LevelInfo, bar.Level())
	assert.Equal(t, 80, bar.Width())
}

func TestNewBar_NilStyles(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.NotNil(t, bar.styles)
	assert.NotNil(t, bar.keymap)
	assert.Nil(t, bar.Init())
}

func TestStatusBar_UpdateIgnoresKeys(t *testing.T) {
	bar := NewBar(nil, nil)

	updated, cmd := bar.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, bar, updated)
	assert.Nil(t, cmd)
	assert.Equal(t, "", bar.Message())
}

func TestStatusBar_UpdateRecordsNotice(t *testing.T) {
	bar := NewBar(nil, nil)

	bar.Update(messages.Notice{Text: "Uploaded report.pdf", Level: messages.LevelSuccess})

	assert.Equal(t, "Uploaded report.pdf", bar.Message())
	assert.Equal(t, messages.LevelSuccess, bar.Level())
	assert.Equal(t, StateReady, bar.State())
	assert.Contains(t, bar.View(), "Uploaded report.pdf")
}

func TestStatusBar_ErrorNotice(t *testing.T) {
	bar := NewBar(nil, nil)

	bar.SetNotice("backend unreachable", messages.LevelError)

	assert.Equal(t, StateError, bar.State())
	assert.Contains(t, bar.View(), "Error: backend unreachable")

	bar.SetNotice("recovered", messages.LevelInfo)
	assert.Equal(t, StateReady, bar.State())
}

func TestStatusBar_View(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		contains string
	}{
		{"ready", StateReady, "Ready"},
		{"loading", StateLoading, "Loading..."},
		{"error", StateError, "Error"},
		{"help", StateHelp, "Help"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewBar(nil, nil)
			bar.SetState(tt.state)

			assert.Contains(t, bar.View(), tt.contains)
		})
	}
}

func TestStatusBar_ShowsUserAndHints(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(160)
	bar.SetUser("alice")

	view := bar.View()

	assert.Contains(t, view, "alice")
	assert.Contains(t, view, "quit")
}

func TestStatusBar_SetBindings(t *testing.T) {
	km := keymap.DefaultKeyMap()
	bar := NewBar(nil, km)
	bar.SetWidth(200)

	bar.SetBindings(km.BrowseHelp())
	assert.Contains(t, bar.View(), "search mode")

	bar.SetBindings(nil)
	assert.NotContains(t, bar.View(), "search mode")
}

func TestStatusBar_Clear(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetNotice("failed", messages.LevelError)

	bar.Clear()

	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, messages.LevelInfo, bar.Level())
}
