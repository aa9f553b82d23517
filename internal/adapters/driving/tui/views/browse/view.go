// Package browse provides the file browser view for the TUI.
package browse

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/custodia-labs/kbhub-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/kbhub-cli/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/kbhub-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/kbhub-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/kbhub-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/kbhub-cli/internal/core/domain"
	"github.com/custodia-labs/kbhub-cli/internal/core/ports/driving"
)

// overlay is the panel drawn over the file list.
type overlay int

const (
	overlayNone overlay = iota
	overlayFilter
	overlayAssign
	overlayNewTag
	overlayConfirm
	overlayVersions
	overlayPreview
)

// entry is one visible row: a catalog record, a semantic hit, or both.
type entry struct {
	file *domain.FileRecord
	hit  *domain.SemanticHit
}

func (e entry) filename() string {
	if e.file != nil {
		return e.file.Filename
	}
	return e.hit.Result.Source
}

// View lists the knowledge base and exposes the per-file actions the
// session's capabilities allow.
type View struct {
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap
	ws     driving.Workspace
	caps   domain.Capabilities

	query   *input.Field
	list    *list.RowList
	entries []entry

	overlay  overlay
	cursor   int
	newTag   *input.Field
	colorIdx int
	confirm  driving.Confirmation
	// confirmFile is set when the pending confirmation deletes a file.
	confirmFile string
	// assignFile is the file ID the tag picker edits.
	assignFile string

	width  int
	height int
}

// NewView creates a browse view for ws.
func NewView(ctx context.Context, s *styles.Styles, km *keymap.KeyMap, ws driving.Workspace) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		ctx:    ctx,
		styles: s,
		keymap: km,
		ws:     ws,
		caps:   ws.Session().Capabilities(),
		query:  input.NewField(s, "Filter", "filename..."),
		list:   list.NewRowList(s, "No files match."),
		newTag: input.NewField(s, "New tag", "name"),
		width:  80,
		height: 24,
	}
	v.syncModeLabel()
	v.Refresh()
	return v
}

// Init implements the view lifecycle.
func (v *View) Init() tea.Cmd {
	return nil
}

// Capturing reports whether keystrokes belong to the view rather than
// the global bindings.
func (v *View) Capturing() bool {
	return v.query.Focused() || v.overlay != overlayNone
}

// Refresh rebuilds the rows from the catalog, search and tag state.
func (v *View) Refresh() {
	search := v.ws.Search()
	hits, executed := search.Results()

	v.entries = v.entries[:0]
	if search.Mode() == domain.SearchModeSemantic && executed {
		v.list.SetHeader("Semantic results")
		for i := range hits {
			v.entries = append(v.entries, entry{file: hits[i].File, hit: &hits[i]})
		}
	} else {
		v.list.SetHeader("Files")
		files := search.Visible()
		for i := range files {
			v.entries = append(v.entries, entry{file: &files[i]})
		}
	}

	rows := make([]list.Row, 0, len(v.entries))
	for _, e := range v.entries {
		rows = append(rows, v.row(e))
	}
	v.list.SetRows(rows)
}

func (v *View) row(e entry) list.Row {
	r := list.Row{Title: e.filename()}
	if e.file != nil {
		r.Meta = humanize.IBytes(uint64(max(e.file.Size, 0)))
		for _, name := range e.file.Tags {
			r.Tags = append(r.Tags, v.ws.Tags().Lookup(name))
		}
	}
	if e.hit != nil {
		r.Meta = fmt.Sprintf("%.0f%%", e.hit.Result.Score*100)
		r.Detail = e.hit.Result.Content
		if e.file == nil {
			r.Meta += "  not in file list"
		}
	}
	return r
}

// selected returns the highlighted entry.
func (v *View) selected() (entry, bool) {
	i := v.list.Selected()
	if i < 0 || i >= len(v.entries) {
		return entry{}, false
	}
	return v.entries[i], true
}

// selectedFile returns the catalog record under the cursor.
func (v *View) selectedFile() (*domain.FileRecord, bool) {
	e, ok := v.selected()
	if !ok || e.file == nil {
		return nil, false
	}
	return e.file, true
}

// Update handles messages for the browse view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return v.handleKey(msg)

	case messages.CatalogLoaded:
		v.Refresh()
		return v, messages.Failed(msg.Err)

	case messages.SearchCompleted:
		v.Refresh()
		if msg.Err != nil {
			return v, messages.Failed(msg.Err)
		}
		if v.ws.Search().Mode() == domain.SearchModeSemantic && strings.TrimSpace(msg.Query) != "" {
			return v, messages.Notify(fmt.Sprintf("%d results for %q", len(v.entries), msg.Query), messages.LevelInfo)
		}
		return v, nil

	case messages.VersionsToggled:
		if msg.Err != nil {
			v.overlay = overlayNone
			return v, messages.Failed(msg.Err)
		}
		v.cursor = 0
		v.overlay = overlayNone
		if msg.Expanded {
			v.overlay = overlayVersions
		}
		return v, nil

	case messages.VersionRestored:
		if msg.Err != nil {
			return v, messages.Failed(msg.Err)
		}
		return v, messages.Notify(fmt.Sprintf("Restored %s of %s", msg.VersionID, msg.Filename), messages.LevelSuccess)

	case messages.PreviewResolved:
		if msg.Err != nil {
			return v, messages.Failed(msg.Err)
		}
		v.overlay = overlayPreview
		return v, nil

	case messages.DownloadResolved:
		if msg.Err != nil {
			return v, messages.Failed(msg.Err)
		}
		return v, tea.Batch(
			messages.Notify("Opening download of "+msg.Filename, messages.LevelInfo),
			v.openExternal(msg.URL),
		)

	case messages.ExternalOpened:
		return v, messages.Failed(msg.Err)

	case messages.FileDeleted:
		v.Refresh()
		if msg.Err != nil {
			return v, messages.Failed(msg.Err)
		}
		return v, messages.Notify("Deleted "+msg.Filename, messages.LevelSuccess)

	case messages.TagsChanged:
		v.Refresh()
		if msg.Err != nil {
			return v, messages.Failed(msg.Err)
		}
		if msg.Notice == "" {
			return v, nil
		}
		return v, messages.Notify(msg.Notice, messages.LevelSuccess)
	}

	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.query.Focused() {
		return v.handleQueryKey(msg)
	}

	switch v.overlay {
	case overlayFilter:
		return v.handleFilterKey(msg)
	case overlayAssign:
		return v.handleAssignKey(msg)
	case overlayNewTag:
		return v.handleNewTagKey(msg)
	case overlayConfirm:
		return v.handleConfirmKey(msg)
	case overlayVersions:
		return v.handleVersionsKey(msg)
	case overlayPreview:
		return v.handlePreviewKey(msg)
	case overlayNone:
	}

	key := msg.String()
	switch {
	case keymap.Matches(key, v.keymap.Up), keymap.Matches(key, v.keymap.Down),
		key == "g", key == "G", key == "home", key == "end":
		v.list, _ = v.list.Update(msg)
		return v, nil
	case keymap.Matches(key, v.keymap.Focus):
		return v, v.query.Focus()
	case keymap.Matches(key, v.keymap.Mode):
		v.toggleMode()
		return v, nil
	case keymap.Matches(key, v.keymap.Filter):
		v.openOverlay(overlayFilter)
		return v, nil
	case keymap.Matches(key, v.keymap.TagFile):
		return v, v.openAssign()
	case keymap.Matches(key, v.keymap.Versions):
		return v, v.toggleVersions()
	case keymap.Matches(key, v.keymap.Preview), keymap.Matches(key, v.keymap.Select):
		return v, v.preview()
	case keymap.Matches(key, v.keymap.Download):
		return v, v.download()
	case keymap.Matches(key, v.keymap.Delete):
		return v, v.requestDelete()
	case keymap.Matches(key, v.keymap.Back):
		return v, v.clearSearch()
	}
	return v, nil
}

func (v *View) handleQueryKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case keymap.Matches(msg.String(), v.keymap.Back):
		v.query.Blur()
		return v, nil
	case keymap.Matches(msg.String(), v.keymap.Select):
		v.query.Blur()
		if v.ws.Search().Mode() == domain.SearchModeSemantic {
			return v, v.commit()
		}
		return v, nil
	}

	var cmd tea.Cmd
	v.query, cmd = v.query.Update(msg)
	search := v.ws.Search()
	search.SetQuery(v.query.Value())
	if search.Mode() == domain.SearchModeMetadata {
		v.Refresh()
	}
	return v, cmd
}

// commit runs the semantic query in a command.
func (v *View) commit() tea.Cmd {
	ctx, search := v.ctx, v.ws.Search()
	query := search.Query()
	return func() tea.Msg {
		return messages.SearchCompleted{Query: query, Err: search.Commit(ctx)}
	}
}

// clearSearch resets the query. In semantic mode this reloads the catalog.
func (v *View) clearSearch() tea.Cmd {
	search := v.ws.Search()
	if search.Query() == "" {
		return nil
	}
	v.query.Reset()
	search.SetQuery("")
	if search.Mode() == domain.SearchModeSemantic {
		return v.commit()
	}
	v.Refresh()
	return nil
}

func (v *View) toggleMode() {
	search := v.ws.Search()
	if search.Mode() == domain.SearchModeMetadata {
		search.SetMode(domain.SearchModeSemantic)
	} else {
		search.SetMode(domain.SearchModeMetadata)
	}
	v.syncModeLabel()
	v.Refresh()
}

func (v *View) syncModeLabel() {
	if v.ws.Search().Mode() == domain.SearchModeSemantic {
		v.query.SetLabel("Ask")
		return
	}
	v.query.SetLabel("Filter")
}

func (v *View) openOverlay(o overlay) {
	v.overlay = o
	v.cursor = 0
}

func (v *View) moveCursor(msg tea.KeyMsg, n int) {
	switch {
	case keymap.Matches(msg.String(), v.keymap.Up):
		if v.cursor > 0 {
			v.cursor--
		}
	case keymap.Matches(msg.String(), v.keymap.Down):
		if v.cursor < n-1 {
			v.cursor++
		}
	}
}

func (v *View) handleFilterKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	tags := v.ws.Tags().Tags()
	key := msg.String()
	switch {
	case keymap.Matches(key, v.keymap.Back), keymap.Matches(key, v.keymap.Filter):
		v.overlay = overlayNone
	case keymap.Matches(key, v.keymap.Select), key == " ":
		if v.cursor < len(tags) {
			v.ws.Search().ToggleTagFilter(tags[v.cursor].Name)
			v.Refresh()
		}
	case keymap.Matches(key, v.keymap.Clear):
		v.ws.Search().ClearTagFilters()
		v.Refresh()
	default:
		v.moveCursor(msg, len(tags))
	}
	return v, nil
}

func (v *View) openAssign() tea.Cmd {
	if !v.caps.CanTag() {
		return messages.Failed(domain.ErrForbidden)
	}
	file, ok := v.selectedFile()
	if !ok {
		return messages.Failed(domain.ErrNoFileSelected)
	}
	v.assignFile = file.FileID
	v.openOverlay(overlayAssign)
	return nil
}

func (v *View) handleAssignKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	tags := v.ws.Tags().Tags()
	key := msg.String()
	switch {
	case keymap.Matches(key, v.keymap.Back), keymap.Matches(key, v.keymap.TagFile):
		v.overlay = overlayNone
	case keymap.Matches(key, v.keymap.Select), key == " ":
		if v.cursor < len(tags) {
			return v, v.toggleTag(v.assignFile, tags[v.cursor].Name)
		}
	case keymap.Matches(key, v.keymap.NewTag):
		if !v.caps.CanManageTags() {
			return v, messages.Failed(domain.ErrForbidden)
		}
		v.overlay = overlayNewTag
		v.newTag.Reset()
		v.colorIdx = 0
		return v, v.newTag.Focus()
	case keymap.Matches(key, v.keymap.Delete):
		if !v.caps.CanManageTags() {
			return v, messages.Failed(domain.ErrForbidden)
		}
		if v.cursor < len(tags) {
			c, err := v.ws.Tags().RequestDelete(tags[v.cursor].Name)
			if err != nil {
				return v, messages.Failed(err)
			}
			v.confirm = c
			v.confirmFile = ""
			v.overlay = overlayConfirm
		}
	default:
		v.moveCursor(msg, len(tags))
	}
	return v, nil
}

func (v *View) toggleTag(fileID, tag string) tea.Cmd {
	ctx, store := v.ctx, v.ws.Tags()
	return func() tea.Msg {
		tags, err := store.Toggle(ctx, fileID, tag)
		if err != nil {
			return messages.TagsChanged{Err: err}
		}
		if len(tags) == 0 {
			return messages.TagsChanged{Notice: "Removed all tags"}
		}
		return messages.TagsChanged{Notice: "Tags: " + strings.Join(tags, ", ")}
	}
}

func (v *View) handleNewTagKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		v.newTag.Blur()
		v.overlay = overlayAssign
		return v, nil
	case tea.KeyUp:
		v.colorIdx = (v.colorIdx + len(domain.PresetTagColors) - 1) % len(domain.PresetTagColors)
		return v, nil
	case tea.KeyDown:
		v.colorIdx = (v.colorIdx + 1) % len(domain.PresetTagColors)
		return v, nil
	case tea.KeyEnter:
		name := strings.TrimSpace(v.newTag.Value())
		if name == "" {
			return v, nil
		}
		v.newTag.Blur()
		v.overlay = overlayAssign
		ctx, store, color := v.ctx, v.ws.Tags(), domain.PresetTagColors[v.colorIdx]
		return v, func() tea.Msg {
			if err := store.Create(ctx, name, color); err != nil {
				return messages.TagsChanged{Err: err}
			}
			return messages.TagsChanged{Notice: "Created tag " + name}
		}
	}

	var cmd tea.Cmd
	v.newTag, cmd = v.newTag.Update(msg)
	return v, cmd
}

func (v *View) requestDelete() tea.Cmd {
	if !v.caps.CanDelete() {
		return messages.Failed(domain.ErrForbidden)
	}
	file, ok := v.selectedFile()
	if !ok {
		return messages.Failed(domain.ErrNoFileSelected)
	}
	c, err := v.ws.Catalog().RequestDelete(file.Filename)
	if err != nil {
		return messages.Failed(err)
	}
	v.confirm = c
	v.confirmFile = file.Filename
	v.overlay = overlayConfirm
	return nil
}

func (v *View) handleConfirmKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		ctx, c, filename := v.ctx, v.confirm, v.confirmFile
		v.confirm = nil
		v.overlay = overlayNone
		if filename == "" {
			v.overlay = overlayAssign
			v.cursor = 0
			return v, func() tea.Msg {
				if err := c.Confirm(ctx); err != nil {
					return messages.TagsChanged{Err: err}
				}
				return messages.TagsChanged{Notice: "Tag deleted"}
			}
		}
		return v, func() tea.Msg {
			return messages.FileDeleted{Filename: filename, Err: c.Confirm(ctx)}
		}
	case "n", "N", "esc":
		v.overlay = overlayNone
		if v.confirmFile == "" {
			v.overlay = overlayAssign
		}
		v.confirm = nil
	}
	return v, nil
}

func (v *View) toggleVersions() tea.Cmd {
	if !v.caps.CanViewVersions() {
		return messages.Failed(domain.ErrForbidden)
	}
	file, ok := v.selectedFile()
	if !ok {
		return messages.Failed(domain.ErrNoFileSelected)
	}
	return v.toggleVersionsOf(file.Filename)
}

func (v *View) toggleVersionsOf(filename string) tea.Cmd {
	ctx, catalog := v.ctx, v.ws.Catalog()
	return func() tea.Msg {
		expanded, err := catalog.ToggleVersions(ctx, filename)
		return messages.VersionsToggled{Filename: filename, Expanded: expanded, Err: err}
	}
}

func (v *View) handleVersionsKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	filename, versions := v.ws.Catalog().Versions()
	key := msg.String()
	switch {
	case keymap.Matches(key, v.keymap.Back), keymap.Matches(key, v.keymap.Versions):
		v.overlay = overlayNone
		if filename == "" {
			return v, nil
		}
		return v, v.toggleVersionsOf(filename)
	case keymap.Matches(key, v.keymap.Restore):
		if v.cursor >= len(versions) {
			return v, nil
		}
		version := versions[v.cursor]
		if version.IsLatest {
			return v, messages.Notify(domain.ErrAlreadyLatest.Error(), messages.LevelInfo)
		}
		ctx, catalog := v.ctx, v.ws.Catalog()
		return v, func() tea.Msg {
			err := catalog.RestoreVersion(ctx, filename, version.VersionID)
			return messages.VersionRestored{Filename: filename, VersionID: version.VersionID, Err: err}
		}
	default:
		v.moveCursor(msg, len(versions))
	}
	return v, nil
}

func (v *View) preview() tea.Cmd {
	e, ok := v.selected()
	if !ok {
		return nil
	}
	if e.file == nil {
		return messages.Notify(e.filename()+" is not in the file list", messages.LevelWarning)
	}
	ctx, resolver, file := v.ctx, v.ws.Preview(), *e.file
	return func() tea.Msg {
		p, err := resolver.Open(ctx, file)
		return messages.PreviewResolved{Preview: p, Err: err}
	}
}

func (v *View) handlePreviewKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	p := v.ws.Preview().Selected()
	key := msg.String()
	switch {
	case keymap.Matches(key, v.keymap.Back), keymap.Matches(key, v.keymap.Preview):
		v.ws.Preview().Close()
		v.overlay = overlayNone
	case keymap.Matches(key, v.keymap.Open):
		if p != nil {
			return v, v.openExternal(p.URL)
		}
	case keymap.Matches(key, v.keymap.Download):
		return v, v.download()
	}
	return v, nil
}

func (v *View) download() tea.Cmd {
	if !v.caps.CanDownload() {
		return messages.Failed(domain.ErrForbidden)
	}
	file, ok := v.selectedFile()
	if !ok {
		return messages.Failed(domain.ErrNoFileSelected)
	}
	ctx, resolver, filename := v.ctx, v.ws.Preview(), file.Filename
	return func() tea.Msg {
		url, err := resolver.DownloadURL(ctx, filename)
		return messages.DownloadResolved{Filename: filename, URL: url, Err: err}
	}
}

func (v *View) openExternal(url string) tea.Cmd {
	resolver := v.ws.Preview()
	return func() tea.Msg {
		return messages.ExternalOpened{Err: resolver.OpenExternal(url)}
	}
}

// Help returns the key hints for the current state.
func (v *View) Help() string {
	switch v.overlay {
	case overlayFilter:
		return "enter toggle • c clear • esc close"
	case overlayAssign:
		if v.caps.CanManageTags() {
			return "enter toggle • n new tag • x delete tag • esc close"
		}
		return "enter toggle • esc close"
	case overlayNewTag:
		return "type a name • ↑/↓ colour • enter create • esc cancel"
	case overlayConfirm:
		return "y confirm • n cancel"
	case overlayVersions:
		return "r restore • esc close"
	case overlayPreview:
		if v.caps.CanDownload() {
			return "o open • d download • esc close"
		}
		return "o open • esc close"
	case overlayNone:
	}

	hints := []string{"/ search", "m mode", "f filter", "p preview"}
	if v.caps.CanTag() {
		hints = append(hints, "t tags")
	}
	if v.caps.CanViewVersions() {
		hints = append(hints, "v versions")
	}
	if v.caps.CanDownload() {
		hints = append(hints, "d download")
	}
	if v.caps.CanDelete() {
		hints = append(hints, "x delete")
	}
	return strings.Join(hints, " • ")
}

// View renders the browse view.
func (v *View) View() string {
	search := v.ws.Search()

	var b strings.Builder
	b.WriteString(v.styles.Subtitle.Render(fmt.Sprintf("[%s]", search.Mode())))
	b.WriteString(" ")
	b.WriteString(v.query.View())
	b.WriteString("\n")

	if filters := search.TagFilters(); len(filters) > 0 {
		b.WriteString(v.styles.Muted.Render("Tags: "))
		for _, name := range filters {
			t := v.ws.Tags().Lookup(name)
			b.WriteString(v.styles.Tag(t.Name, t.Color) + " ")
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case search.Searching():
		b.WriteString(v.styles.Muted.Render("Searching..."))
	case v.ws.Catalog().Loading() && v.list.IsEmpty():
		b.WriteString(v.styles.Muted.Render("Loading files..."))
	default:
		b.WriteString(v.list.View())
	}

	if o := v.renderOverlay(); o != "" {
		b.WriteString("\n\n")
		b.WriteString(o)
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render(v.Help()))
	return b.String()
}

func (v *View) renderOverlay() string {
	var body string
	switch v.overlay {
	case overlayFilter:
		body = v.renderTagPicker("Filter by tag", func(name string) bool {
			for _, f := range v.ws.Search().TagFilters() {
				if f == name {
					return true
				}
			}
			return false
		})
	case overlayAssign:
		file, _ := v.ws.Catalog().Get(v.assignFile)
		body = v.renderTagPicker("Tags of "+v.assignFile, func(name string) bool {
			return file != nil && file.HasTag(name)
		})
	case overlayNewTag:
		color := domain.PresetTagColors[v.colorIdx]
		body = v.newTag.View() + "\n" + v.styles.Muted.Render("Colour: ") + v.styles.Tag(color, color)
	case overlayConfirm:
		if v.confirm != nil {
			body = v.styles.Warning.Render(v.confirm.Prompt()) + "\n" + v.styles.Muted.Render("[y/n]")
		}
	case overlayVersions:
		body = v.renderVersions()
	case overlayPreview:
		body = v.renderPreview()
	case overlayNone:
		return ""
	}
	return v.styles.Dialog.Width(max(v.width-4, 20)).Render(body)
}

func (v *View) renderTagPicker(title string, checked func(string) bool) string {
	tags := v.ws.Tags().Tags()
	lines := []string{v.styles.Subtitle.Render(title)}
	if len(tags) == 0 {
		lines = append(lines, v.styles.Muted.Render("No tags defined."))
	}
	for i, t := range tags {
		mark := "[ ]"
		if checked(t.Name) {
			mark = "[x]"
		}
		prefix := "  "
		if i == v.cursor {
			prefix = "> "
		}
		lines = append(lines, fmt.Sprintf("%s%s %s %s", prefix, mark,
			v.styles.Tag(t.Name, t.Color), v.styles.Muted.Render(fmt.Sprintf("(%d)", t.Count))))
	}
	return strings.Join(lines, "\n")
}

func (v *View) renderVersions() string {
	filename, versions := v.ws.Catalog().Versions()
	lines := []string{v.styles.Subtitle.Render("Versions of " + filename)}
	if len(versions) == 0 {
		lines = append(lines, v.styles.Muted.Render("No versions."))
	}
	for i, ver := range versions {
		prefix := "  "
		if i == v.cursor {
			prefix = "> "
		}
		line := fmt.Sprintf("%s%-12s %s  %s", prefix, ver.VersionID,
			humanize.Time(ver.LastModified), humanize.IBytes(uint64(max(ver.Size, 0))))
		if ver.IsLatest {
			line += "  " + v.styles.Success.Render("latest")
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (v *View) renderPreview() string {
	p := v.ws.Preview().Selected()
	if p == nil {
		return v.styles.Muted.Render("Resolving preview...")
	}
	lines := []string{
		v.styles.Subtitle.Render(p.File.Filename),
		v.styles.Muted.Render(fmt.Sprintf("%s • %s • %s", p.Kind,
			humanize.IBytes(uint64(max(p.File.Size, 0))), orDash(p.File.ContentType))),
		"",
	}
	switch p.Kind {
	case domain.PreviewFallback:
		lines = append(lines, v.styles.Normal.Render("No inline preview for this file type. Press o to open it externally."))
	default:
		lines = append(lines, v.styles.Normal.Render(p.URL))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
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
	v.query.SetWidth(min(width-12, 80))
	v.list.SetDimensions(width, max(height-12, 5))
}
