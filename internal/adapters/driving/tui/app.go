package tui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/kbhub-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/kbhub-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/kbhub-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/kbhub-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/kbhub-cli/internal/adapters/driving/tui/views/admin"
	"github.com/custodia-labs/kbhub-cli/internal/adapters/driving/tui/views/browse"
	"github.com/custodia-labs/kbhub-cli/internal/adapters/driving/tui/views/upload"
	"github.com/custodia-labs/kbhub-cli/internal/core/domain"
	"github.com/custodia-labs/kbhub-cli/internal/core/ports/driving"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap
	status *status.Bar

	// ws is the signed-in user's workspace, nil until the session opens.
	ws driving.Workspace

	uploadView *upload.View
	browseView *browse.View
	adminView  *admin.View

	// active is the tab being shown.
	active domain.Tab

	// exportDir receives audit log exports.
	exportDir string

	showHelp bool

	// err holds a session error that prevents the workspace from opening.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has received its first window size.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:     ports,
		ctx:       context.Background(),
		styles:    s,
		keymap:    km,
		status:    status.NewBar(s, km),
		exportDir: ".",
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// WithExportDir sets where audit log exports are written.
func (a *App) WithExportDir(dir string) *App {
	a.exportDir = dir
	return a
}

// Init implements tea.Model.
// It opens the session as soon as the program starts.
func (a *App) Init() tea.Cmd {
	a.status.SetState(status.StateLoading)
	return tea.Batch(
		tea.SetWindowTitle("kbhub"),
		a.openSession(),
	)
}

func (a *App) openSession() tea.Cmd {
	ctx, gate := a.ctx, a.ports.Gate
	return func() tea.Msg {
		ws, err := gate.Open(ctx)
		return messages.SessionOpened{Workspace: ws, Err: err}
	}
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.SessionOpened:
		return a, a.sessionOpened(msg)

	case messages.TabEntered:
		return a, a.tabEntered(msg)

	case messages.Notice:
		a.status, cmd = a.status.Update(msg)
		return a, cmd

	case messages.UploadTick:
		if a.uploadView == nil {
			return a, nil
		}
		a.uploadView, cmd = a.uploadView.Update(msg)
		a.syncActiveTab()
		if a.active != domain.TabUpload && a.uploadView.Idle() {
			a.uploadView.Settle()
		}
		return a, cmd

	case messages.UploadFinished, spinner.TickMsg:
		if a.uploadView == nil {
			return a, nil
		}
		a.uploadView, cmd = a.uploadView.Update(msg)
		return a, cmd

	case messages.CatalogLoaded, messages.SearchCompleted, messages.VersionsToggled,
		messages.VersionRestored, messages.PreviewResolved, messages.DownloadResolved,
		messages.FileDeleted, messages.TagsChanged, messages.ExternalOpened:
		if a.browseView == nil {
			return a, nil
		}
		a.browseView, cmd = a.browseView.Update(msg)
		return a, cmd

	case messages.AdminExported:
		if a.adminView == nil {
			return a, nil
		}
		a.adminView, cmd = a.adminView.Update(msg)
		return a, cmd
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return a, tea.Quit
	}

	if a.ws == nil {
		if keymap.Matches(key, a.keymap.Quit) || keymap.Matches(key, a.keymap.Back) {
			return a, tea.Quit
		}
		return a, nil
	}

	if a.showHelp {
		if keymap.Matches(key, a.keymap.Help) || keymap.Matches(key, a.keymap.Back) ||
			keymap.Matches(key, a.keymap.Quit) {
			a.showHelp = false
			a.status.SetState(status.StateReady)
		}
		return a, nil
	}

	if !a.capturing() {
		switch {
		case keymap.Matches(key, a.keymap.Quit):
			return a, tea.Quit
		case keymap.Matches(key, a.keymap.Help):
			a.showHelp = true
			a.status.SetState(status.StateHelp)
			return a, nil
		case keymap.Matches(key, a.keymap.NextTab):
			return a, a.cycleTab(1)
		case keymap.Matches(key, a.keymap.PrevTab):
			return a, a.cycleTab(-1)
		case keymap.Matches(key, a.keymap.Refresh):
			return a, a.enterTab(a.active)
		case len(key) == 1 && key >= "1" && key <= "9":
			tabs := a.ws.View().Tabs()
			if i := int(key[0] - '1'); i < len(tabs) {
				return a, a.enterTab(tabs[i])
			}
			return a, nil
		}
	}

	return a, a.forwardKey(msg)
}

// capturing reports whether the active view owns the keyboard.
func (a *App) capturing() bool {
	switch a.active {
	case domain.TabUpload:
		return a.uploadView != nil && a.uploadView.Capturing()
	case domain.TabBrowse:
		return a.browseView != nil && a.browseView.Capturing()
	case domain.TabAdmin:
		return a.adminView != nil && a.adminView.Capturing()
	}
	return false
}

func (a *App) forwardKey(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	switch a.active {
	case domain.TabUpload:
		if a.uploadView != nil {
			a.uploadView, cmd = a.uploadView.Update(msg)
		}
	case domain.TabBrowse:
		if a.browseView != nil {
			a.browseView, cmd = a.browseView.Update(msg)
		}
	case domain.TabAdmin:
		if a.adminView != nil {
			a.adminView, cmd = a.adminView.Update(msg)
		}
	}
	return cmd
}

func (a *App) sessionOpened(msg messages.SessionOpened) tea.Cmd {
	if msg.Err != nil {
		a.err = msg.Err
		a.status.SetNotice(msg.Err.Error(), messages.LevelError)
		return nil
	}

	a.ws = msg.Workspace
	session := a.ws.Session()
	caps := session.Capabilities()

	a.status.SetUser(session.Username)
	if caps.CanUpload() {
		a.uploadView = upload.NewView(a.ctx, a.styles, a.keymap, a.ws.Upload())
	}
	a.browseView = browse.NewView(a.ctx, a.styles, a.keymap, a.ws)
	if caps.CanAdminister() {
		a.adminView = admin.NewView(a.ctx, a.styles, a.keymap, a.ws.Admin(), a.exportDir)
	}
	if a.ready {
		a.SetDimensions(a.width, a.height)
	}

	var cmds []tea.Cmd
	if session.Degraded {
		cmds = append(cmds, messages.Notify("Could not load your roles; continuing read-only", messages.LevelWarning))
	}
	cmds = append(cmds, a.enterTab(a.ws.View().Active()))
	return tea.Batch(cmds...)
}

// cycleTab moves to the next or previous reachable tab.
func (a *App) cycleTab(step int) tea.Cmd {
	tabs := a.ws.View().Tabs()
	if len(tabs) < 2 {
		return nil
	}
	i := slices.Index(tabs, a.active)
	next := (i + step + len(tabs)) % len(tabs)
	return a.enterTab(tabs[next])
}

// enterTab shows tab and loads its data in a command.
func (a *App) enterTab(tab domain.Tab) tea.Cmd {
	if err := a.ws.View().Switch(tab); err != nil {
		return messages.Failed(err)
	}
	a.active = tab
	a.status.SetState(status.StateLoading)
	a.status.SetBindings(a.bindingsFor(tab))

	ctx, ws := a.ctx, a.ws
	return func() tea.Msg {
		return messages.TabEntered{Tab: tab, Err: ws.Enter(ctx, tab)}
	}
}

func (a *App) tabEntered(msg messages.TabEntered) tea.Cmd {
	if msg.Tab != a.active {
		return nil
	}
	a.status.SetState(status.StateReady)

	var cmds []tea.Cmd
	var partial *domain.PartialAdminError
	switch {
	case errors.As(msg.Err, &partial):
		cmds = append(cmds, messages.Notify(partial.Banner(), messages.LevelWarning))
	case msg.Err != nil:
		cmds = append(cmds, messages.Failed(msg.Err))
	}

	switch msg.Tab {
	case domain.TabUpload:
		if a.uploadView != nil {
			cmds = append(cmds, a.uploadView.Init())
		}
	case domain.TabBrowse:
		a.browseView.Refresh()
	case domain.TabAdmin:
		if a.adminView != nil {
			a.adminView.Refresh()
		}
	}
	return tea.Batch(cmds...)
}

// syncActiveTab follows tab switches made by the workspace itself, such
// as the move to browse after an upload completes.
func (a *App) syncActiveTab() {
	if a.ws == nil {
		return
	}
	if active := a.ws.View().Active(); active != a.active {
		a.active = active
		a.status.SetBindings(a.bindingsFor(active))
	}
	if a.active == domain.TabBrowse && a.browseView != nil {
		a.browseView.Refresh()
	}
}

func (a *App) bindingsFor(tab domain.Tab) []key.Binding {
	if tab == domain.TabBrowse {
		return append(a.keymap.ShortHelp(), a.keymap.Refresh)
	}
	return nil
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch {
	case a.err != nil:
		body = a.viewError()
	case a.ws == nil:
		body = a.styles.Muted.Render("Signing in...")
	case a.showHelp:
		body = a.viewHelp()
	default:
		body = a.viewActive()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		a.viewHeader(),
		"",
		body,
		"",
		a.status.View(),
	)
}

func (a *App) viewHeader() string {
	title := a.styles.Title.Render("kbhub")
	if a.ws == nil {
		return title
	}
	parts := []string{title, "  "}
	for i, tab := range a.ws.View().Tabs() {
		label := fmt.Sprintf("%d %s", i+1, tab)
		if tab == a.active {
			parts = append(parts, a.styles.TabActive.Render(label))
		} else {
			parts = append(parts, a.styles.TabInactive.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (a *App) viewActive() string {
	switch a.active {
	case domain.TabUpload:
		if a.uploadView != nil {
			return a.uploadView.View()
		}
	case domain.TabBrowse:
		if a.browseView != nil {
			return a.browseView.View()
		}
	case domain.TabAdmin:
		if a.adminView != nil {
			return a.adminView.View()
		}
	}
	return ""
}

func (a *App) viewError() string {
	hint := "Press q to quit."
	switch {
	case errors.Is(a.err, domain.ErrNoSession):
		hint = "Run 'kbhub auth login' first, then start the TUI again."
	case errors.Is(a.err, domain.ErrSessionExpired):
		hint = "Your token has expired. Run 'kbhub auth login' with a new one."
	}
	return a.styles.Error.Render(a.err.Error()) + "\n\n" + a.styles.Muted.Render(hint)
}

func (a *App) viewHelp() string {
	lines := []string{a.styles.Subtitle.Render("Keys"), ""}
	for _, group := range a.keymap.FullHelp() {
		for _, b := range group {
			h := b.Help()
			lines = append(lines, fmt.Sprintf("  %-12s %s", h.Key, h.Desc))
		}
		lines = append(lines, "")
	}
	lines = append(lines, a.styles.Muted.Render("[esc] close help"))
	return strings.Join(lines, "\n")
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// Workspace returns the opened workspace, or nil.
func (a *App) Workspace() driving.Workspace {
	return a.ws
}

// ActiveTab returns the tab being shown.
func (a *App) ActiveTab() domain.Tab {
	return a.active
}

// Err returns the session error, if any.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.status.SetWidth(width)

	bodyHeight := max(height-4, 5)
	if a.uploadView != nil {
		a.uploadView.SetDimensions(width, bodyHeight)
	}
	if a.browseView != nil {
		a.browseView.SetDimensions(width, bodyHeight)
	}
	if a.adminView != nil {
		a.adminView.SetDimensions(width, bodyHeight)
	}
}
