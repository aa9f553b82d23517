// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/kbhub-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/kbhub-cli/internal/core/domain"
)

// Row is one entry of a RowList. Detail is rendered muted below the title.
type Row struct {
	Title  string
	Meta   string
	Detail string
	Tags   []domain.Tag
}

// lines reports how many terminal lines the row occupies.
func (r *Row) lines() int {
	if r.Detail != "" {
		return 2
	}
	return 1
}

// RowList displays rows in a navigable, scrolling list.
type RowList struct {
	rows     []Row
	selected int
	header   string
	empty    string
	styles   *styles.Styles
	width    int
	height   int
}

// NewRowList creates a new list component.
func NewRowList(s *styles.Styles, empty string) *RowList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &RowList{
		styles: s,
		empty:  empty,
		width:  80,
		height: 10,
	}
}

// Init initialises the list.
func (r *RowList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *RowList) Update(msg tea.Msg) (*RowList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		case "home", "g":
			r.selected = 0
		case "end", "G":
			if len(r.rows) > 0 {
				r.selected = len(r.rows) - 1
			}
		}
	}
	return r, nil
}

// View renders the list.
func (r *RowList) View() string {
	if len(r.rows) == 0 {
		return r.styles.Muted.Render(r.empty)
	}

	lines := make([]string, 0, len(r.rows)*2+2)
	if r.header != "" {
		lines = append(lines, r.styles.Subtitle.Render(fmt.Sprintf("%s (%d)", r.header, len(r.rows))), "")
	}

	start, end := r.window()
	for i := start; i < end; i++ {
		lines = append(lines, r.renderRow(i, &r.rows[i]))
	}
	if end < len(r.rows) {
		lines = append(lines, r.styles.Muted.Render(fmt.Sprintf("  ... %d more", len(r.rows)-end)))
	}

	return strings.Join(lines, "\n")
}

// window returns the visible range keeping the selection on screen.
func (r *RowList) window() (start, end int) {
	budget := r.height - 3
	if budget < 1 {
		budget = 1
	}

	used := 0
	for i := r.selected; i >= 0; i-- {
		used += r.rows[i].lines()
		if used > budget && i < r.selected {
			break
		}
		start = i
	}

	used = 0
	end = start
	for end < len(r.rows) {
		used += r.rows[end].lines()
		if used > budget && end > r.selected {
			break
		}
		end++
	}
	return start, end
}

func (r *RowList) renderRow(index int, row *Row) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	maxTitleLen := r.width - lipgloss.Width(row.Meta) - 6
	if maxTitleLen < 10 {
		maxTitleLen = 10
	}
	title := truncate(row.Title, maxTitleLen)

	var line string
	if index == r.selected {
		line = r.styles.Selected.Render(fmt.Sprintf("%s%-*s", indicator, maxTitleLen, title))
	} else {
		line = r.styles.Normal.Render(fmt.Sprintf("%s%-*s", indicator, maxTitleLen, title))
	}
	if row.Meta != "" {
		line += "  " + r.styles.Muted.Render(row.Meta)
	}
	for _, t := range row.Tags {
		line += " " + r.styles.Tag(t.Name, t.Color)
	}

	if row.Detail == "" {
		return line
	}
	detail := truncate(strings.Join(strings.Fields(row.Detail), " "), r.width-6)
	return line + "\n" + r.styles.Muted.Render("    "+detail)
}

func truncate(s string, n int) string {
	if n < 4 {
		n = 4
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

// SetRows replaces the rows, keeping the selection in range.
func (r *RowList) SetRows(rows []Row) {
	r.rows = rows
	if r.selected >= len(rows) {
		r.selected = len(rows) - 1
	}
	if r.selected < 0 {
		r.selected = 0
	}
}

// Rows returns the current rows.
func (r *RowList) Rows() []Row {
	return r.rows
}

// SetHeader sets the title shown above the rows.
func (r *RowList) SetHeader(header string) {
	r.header = header
}

// Selected returns the index of the selected row.
func (r *RowList) Selected() int {
	return r.selected
}

// SetSelected sets the selected index.
func (r *RowList) SetSelected(index int) {
	if index >= 0 && index < len(r.rows) {
		r.selected = index
	}
}

// MoveUp moves selection up.
func (r *RowList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *RowList) MoveDown() {
	if r.selected < len(r.rows)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *RowList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of rows.
func (r *RowList) Count() int {
	return len(r.rows)
}

// IsEmpty returns whether the list is empty.
func (r *RowList) IsEmpty() bool {
	return len(r.rows) == 0
}
