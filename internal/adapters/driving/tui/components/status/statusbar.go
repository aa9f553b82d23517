// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/kbhub-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/kbhub-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/kbhub-cli/internal/adapters/driving/tui/styles"
)

// State represents the current application state for display.
type State string

const (
	StateReady   State = "ready"
	StateLoading State = "loading"
	StateError   State = "error"
	StateHelp    State = "help"
)

// Bar displays the signed-in user, the latest notice and keybinding hints.
type Bar struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	state    State
	user     string
	message  string
	level    messages.Level
	bindings []key.Binding
	width    int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		level:  messages.LevelInfo,
		width:  80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update records notices; everything else is set through methods.
func (s *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	if n, ok := msg.(messages.Notice); ok {
		s.SetNotice(n.Text, n.Level)
	}
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (s *Bar) renderLeft() string {
	prefix := ""
	if s.user != "" {
		prefix = s.styles.Subtitle.Render(s.user) + " "
	}

	switch s.state {
	case StateLoading:
		return prefix + s.styles.Muted.Render("Loading...")
	case StateError:
		if s.message != "" {
			return prefix + s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message))
		}
		return prefix + s.styles.Error.Render("Error")
	case StateHelp:
		return prefix + s.styles.Normal.Render("Help")
	case StateReady:
	}

	if s.message == "" {
		return prefix + s.styles.Muted.Render("Ready")
	}
	return prefix + s.noticeStyle().Render(s.message)
}

func (s *Bar) noticeStyle() lipgloss.Style {
	switch s.level {
	case messages.LevelSuccess:
		return s.styles.Success
	case messages.LevelWarning:
		return s.styles.Warning
	case messages.LevelError:
		return s.styles.Error
	default:
		return s.styles.Normal
	}
}

// renderRight renders keybinding hints.
func (s *Bar) renderRight() string {
	bindings := s.bindings
	if len(bindings) == 0 {
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetUser sets the identity shown on the left.
func (s *Bar) SetUser(user string) {
	s.user = user
}

// SetNotice shows a message at the given level. An error notice also
// switches the bar into the error state.
func (s *Bar) SetNotice(text string, level messages.Level) {
	s.message = text
	s.level = level
	if level == messages.LevelError {
		s.state = StateError
		return
	}
	s.state = StateReady
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// Level returns the level of the current message.
func (s *Bar) Level() messages.Level {
	return s.level
}

// SetBindings overrides the hints shown on the right. Nil restores the defaults.
func (s *Bar) SetBindings(bindings []key.Binding) {
	s.bindings = bindings
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the status bar to default state.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
	s.level = messages.LevelInfo
}
