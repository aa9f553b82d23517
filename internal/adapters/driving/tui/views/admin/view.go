// Package admin provides the administration view for the TUI.
package admin

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/custodia-labs/kbhub-cli/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/kbhub-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/kbhub-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/kbhub-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/kbhub-cli/internal/core/domain"
	"github.com/custodia-labs/kbhub-cli/internal/core/ports/driving"
)

// View shows system stats, the user directory and the audit log.
type View struct {
	ctx       context.Context
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	panel     driving.AdminPanel
	logs      *list.RowList
	exportDir string
	width     int
	height    int
}

// NewView creates an admin view. Exports are written to exportDir.
func NewView(ctx context.Context, s *styles.Styles, km *keymap.KeyMap, panel driving.AdminPanel, exportDir string) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		ctx:       ctx,
		styles:    s,
		keymap:    km,
		panel:     panel,
		logs:      list.NewRowList(s, "No audit records."),
		exportDir: exportDir,
		width:     80,
		height:    24,
	}
}

// Init implements the view lifecycle.
func (v *View) Init() tea.Cmd {
	return nil
}

// Capturing reports whether keystrokes belong to the view. The admin view
// has no text input.
func (v *View) Capturing() bool {
	return false
}

// Refresh rebuilds the audit rows from the panel.
func (v *View) Refresh() {
	overview := v.panel.Overview()
	rows := make([]list.Row, 0, len(overview.Logs))
	for _, l := range overview.Logs {
		rows = append(rows, list.Row{
			Title: fmt.Sprintf("%s %s %s", l.Method, l.Path, orDash(l.User)),
			Meta:  fmt.Sprintf("%d  %.0fms  %s", l.StatusCode, l.DurationMS, humanize.Time(l.Timestamp)),
		})
	}
	v.logs.SetHeader("Audit log")
	v.logs.SetRows(rows)
}

// Update handles messages for the admin view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		switch {
		case keymap.Matches(key, v.keymap.Export):
			return v, v.export()
		case keymap.Matches(key, v.keymap.Up), keymap.Matches(key, v.keymap.Down):
			v.logs, _ = v.logs.Update(msg)
		}
		return v, nil

	case messages.AdminExported:
		if msg.Err != nil {
			return v, messages.Failed(msg.Err)
		}
		return v, messages.Notify("Saved audit log to "+msg.Path, messages.LevelSuccess)
	}

	return v, nil
}

// export downloads the audit log and writes it under exportDir.
func (v *View) export() tea.Cmd {
	ctx, panel, dir := v.ctx, v.panel, v.exportDir
	return func() tea.Msg {
		export, err := panel.Export(ctx)
		if err != nil {
			return messages.AdminExported{Err: err}
		}
		path := filepath.Join(dir, filepath.Base(export.Filename))
		if err := os.WriteFile(path, export.Data, 0o600); err != nil {
			return messages.AdminExported{Err: fmt.Errorf("saving audit log: %w", err)}
		}
		return messages.AdminExported{Path: path}
	}
}

// View renders the admin view.
func (v *View) View() string {
	overview := v.panel.Overview()

	var b strings.Builder
	if overview.Banner != "" {
		b.WriteString(v.styles.Banner.Render(overview.Banner))
		b.WriteString("\n\n")
	}
	if overview.Loading {
		b.WriteString(v.styles.Muted.Render("Loading..."))
		b.WriteString("\n\n")
	}

	b.WriteString(v.renderStats(overview.Stats))
	b.WriteString("\n\n")
	b.WriteString(v.renderUsers(overview.Users))
	b.WriteString("\n\n")
	b.WriteString(v.logs.View())
	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("e export audit log • ctrl+r reload • ↑/↓ scroll log"))
	return b.String()
}

func (v *View) renderStats(s domain.AdminStats) string {
	health := v.styles.Success.Render(orDash(s.SystemHealth))
	if s.SystemHealth != "" && !strings.EqualFold(s.SystemHealth, "healthy") {
		health = v.styles.Warning.Render(s.SystemHealth)
	}
	return strings.Join([]string{
		v.styles.Subtitle.Render("System"),
		fmt.Sprintf("Files: %d   Storage: %s   Online: %d   Health: %s",
			s.TotalFiles, orDash(s.StorageUsed), s.OnlineUsersCount, health),
	}, "\n")
}

func (v *View) renderUsers(users []domain.UserPresence) string {
	lines := []string{v.styles.Subtitle.Render(fmt.Sprintf("Users (%d)", len(users)))}
	if len(users) == 0 {
		lines = append(lines, v.styles.Muted.Render("No users."))
	}
	for _, u := range users {
		presence := v.styles.Muted.Render("offline")
		if u.Online {
			presence = v.styles.Success.Render("online")
		}
		enabled := ""
		if !u.Enabled {
			enabled = v.styles.Warning.Render(" disabled")
		}
		lines = append(lines, fmt.Sprintf("  %-16s %-28s %-24s %s%s",
			u.Username, orDash(u.Email), orDash(strings.Join(u.Groups, ",")), presence, enabled))
	}
	return strings.Join(lines, "\n")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.logs.SetDimensions(width, max(height/2, 5))
}
