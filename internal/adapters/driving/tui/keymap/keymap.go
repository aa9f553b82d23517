// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Help toggles the help view.
	Help key.Binding

	// Back closes an overlay or leaves an input.
	Back key.Binding

	// NextTab and PrevTab cycle through the reachable tabs.
	NextTab key.Binding
	PrevTab key.Binding

	// Up navigates up in a list.
	Up key.Binding

	// Down navigates down in a list.
	Down key.Binding

	// Select confirms a selection.
	Select key.Binding

	// Focus moves to the query input.
	Focus key.Binding

	// Mode switches between metadata and semantic search.
	Mode key.Binding

	// Filter opens the tag filter picker.
	Filter key.Binding

	// TagFile opens the tag picker for the selected file.
	TagFile key.Binding

	// Versions toggles the version history of the selected file.
	Versions key.Binding

	// Restore promotes the selected version.
	Restore key.Binding

	// Preview resolves the preview of the selected file.
	Preview key.Binding

	// Open hands the current preview link to the operating system.
	Open key.Binding

	// Download opens the download link of the selected file.
	Download key.Binding

	// Delete asks to delete the selected item.
	Delete key.Binding

	// NewTag starts creating a tag definition.
	NewTag key.Binding

	// Refresh reloads the current tab.
	Refresh key.Binding

	// Export saves the audit log.
	Export key.Binding

	// Clear drops the upload selection.
	Clear key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous tab"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Focus: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Mode: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "search mode"),
		),
		Filter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "tag filter"),
		),
		TagFile: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "tags"),
		),
		Versions: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "versions"),
		),
		Restore: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restore"),
		),
		Preview: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "preview"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open"),
		),
		Download: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "download"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "delete"),
		),
		NewTag: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new tag"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "reload"),
		),
		Export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export audit log"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear"),
		),
	}
}

// ShortHelp returns a short list of keybindings for the status bar.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.Help, k.Quit}
}

// BrowseHelp returns keybindings for the browse tab.
func (k *KeyMap) BrowseHelp() []key.Binding {
	return []key.Binding{k.Focus, k.Mode, k.Filter, k.Preview, k.Versions, k.TagFile, k.Delete}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextTab, k.PrevTab, k.Refresh, k.Help, k.Quit},
		{k.Up, k.Down, k.Select, k.Back},
		{k.Focus, k.Mode, k.Filter, k.Preview, k.Open, k.Download},
		{k.Versions, k.Restore, k.TagFile, k.NewTag, k.Delete},
		{k.Clear, k.Export},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
