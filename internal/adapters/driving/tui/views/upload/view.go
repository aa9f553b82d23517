// Package upload provides the upload view for the TUI.
package upload

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/custodia-labs/kbhub-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/kbhub-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/kbhub-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/kbhub-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/kbhub-cli/internal/core/domain"
	"github.com/custodia-labs/kbhub-cli/internal/core/ports/driving"
)

// TickInterval is how often the pipeline is polled while it is busy.
const TickInterval = 150 * time.Millisecond

const barWidth = 30

// View selects a local file and drives it through the upload pipeline.
type View struct {
	ctx      context.Context
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	pipeline driving.UploadPipeline
	path     *input.Field
	spinner  spinner.Model
	// awaiting is set from a successful upload until the workspace has
	// moved on to the file list.
	awaiting bool
	width    int
	height   int
}

// NewView creates an upload view bound to pipeline.
func NewView(ctx context.Context, s *styles.Styles, km *keymap.KeyMap, pipeline driving.UploadPipeline) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Title

	return &View{
		ctx:      ctx,
		styles:   s,
		keymap:   km,
		pipeline: pipeline,
		path:     input.NewField(s, "File", "path to a local file, then enter"),
		spinner:  sp,
		width:    80,
		height:   24,
	}
}

// Init focuses the path input when nothing is selected.
func (v *View) Init() tea.Cmd {
	if v.pipeline.Status().State == domain.UploadIdle {
		return v.path.Focus()
	}
	return nil
}

// Capturing reports whether keystrokes go to the path input.
func (v *View) Capturing() bool {
	return v.path.Focused()
}

// Update handles messages for the upload view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if v.path.Focused() {
			return v.handlePathKey(msg)
		}
		return v.handleKey(msg)

	case messages.UploadFinished:
		if msg.Err != nil {
			return v, tea.Batch(messages.Failed(msg.Err), v.path.Focus())
		}
		notice := messages.Notify("Uploaded "+msg.File, messages.LevelSuccess)
		if msg.Ingest != nil && !msg.Ingest.Indexed() {
			notice = messages.Notify(msg.File+" was stored but not indexed", messages.LevelWarning)
		}
		v.awaiting = true
		return v, tea.Batch(notice, Tick())

	case messages.UploadTick:
		status := v.pipeline.Status()
		switch {
		case status.Busy(), status.State == domain.UploadSuccess:
			return v, Tick()
		case status.State == domain.UploadIdle && v.awaiting:
			return v, Tick()
		}
		v.awaiting = false
		if status.State == domain.UploadIdle && !v.path.Focused() {
			return v, v.path.Focus()
		}
		return v, nil

	case spinner.TickMsg:
		if !v.pipeline.Status().Busy() {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd
	}

	return v, nil
}

func (v *View) handlePathKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case keymap.Matches(msg.String(), v.keymap.Back):
		v.path.Blur()
		return v, nil
	case keymap.Matches(msg.String(), v.keymap.Select):
		path := strings.TrimSpace(v.path.Value())
		if path == "" {
			return v, nil
		}
		if err := v.pipeline.SelectPath(path); err != nil {
			return v, messages.Failed(err)
		}
		v.path.Blur()
		v.path.Reset()
		return v, nil
	}

	var cmd tea.Cmd
	v.path, cmd = v.path.Update(msg)
	return v, cmd
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()
	switch {
	case keymap.Matches(key, v.keymap.Focus):
		if v.pipeline.Status().Busy() {
			return v, nil
		}
		return v, v.path.Focus()
	case keymap.Matches(key, v.keymap.Select):
		return v, v.start()
	case keymap.Matches(key, v.keymap.Clear):
		if err := v.pipeline.Clear(); err != nil {
			return v, messages.Failed(err)
		}
		return v, v.path.Focus()
	}
	return v, nil
}

// start runs the pipeline in a command and spins while it works.
func (v *View) start() tea.Cmd {
	status := v.pipeline.Status()
	switch {
	case status.Busy():
		return messages.Failed(domain.ErrUploadInProgress)
	case status.State != domain.UploadSelected:
		return messages.Failed(domain.ErrNoFileSelected)
	}

	ctx, pipeline, name := v.ctx, v.pipeline, status.File.Name
	run := func() tea.Msg {
		msg := messages.UploadFinished{File: name, Err: pipeline.Start(ctx)}
		if msg.Err == nil {
			msg.Ingest = pipeline.Status().Ingest
		}
		return msg
	}
	return tea.Batch(run, v.spinner.Tick, Tick())
}

// Settle stops polling once the completed upload has been handed off.
func (v *View) Settle() {
	v.awaiting = false
}

// Idle reports whether the pipeline has nothing selected.
func (v *View) Idle() bool {
	return v.pipeline.Status().State == domain.UploadIdle
}

// Tick schedules the next pipeline poll.
func Tick() tea.Cmd {
	return tea.Tick(TickInterval, func(time.Time) tea.Msg {
		return messages.UploadTick{}
	})
}

// View renders the upload view.
func (v *View) View() string {
	status := v.pipeline.Status()

	var b strings.Builder
	b.WriteString(v.styles.Subtitle.Render("Upload a document"))
	b.WriteString("\n\n")
	b.WriteString(v.path.View())
	b.WriteString("\n\n")

	if status.File != nil {
		b.WriteString(v.styles.Normal.Render(status.File.Name))
		b.WriteString("  ")
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("%s  %s",
			humanize.IBytes(uint64(max(status.File.Size, 0))), status.File.ContentType)))
		b.WriteString("\n\n")
	}

	switch status.State {
	case domain.UploadIdle:
		b.WriteString(v.styles.Muted.Render("No file selected."))
	case domain.UploadSelected:
		b.WriteString(v.styles.Normal.Render("Ready. Press enter to upload, c to clear."))
	case domain.UploadUploading:
		b.WriteString(v.spinner.View() + " " + v.renderProgress(status.Progress))
	case domain.UploadSuccess:
		b.WriteString(v.renderProgress(status.Progress))
		b.WriteString("\n")
		if status.Ingest != nil && !status.Ingest.Indexed() {
			b.WriteString(v.styles.Warning.Render(ingestWarning(status.Ingest)))
		} else {
			b.WriteString(v.styles.Success.Render("Upload complete. Opening the file list..."))
		}
	case domain.UploadError:
		b.WriteString(v.styles.Error.Render(describeError(status.Err)))
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render("Press enter to retry or c to clear."))
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("/ choose file • enter upload • c clear • tab switch view"))
	return b.String()
}

// renderProgress draws a fixed-width bar for a 0-100 progress value.
func (v *View) renderProgress(progress int) string {
	progress = min(max(progress, 0), 100)
	filled := progress * barWidth / 100
	bar := v.styles.Title.Render(strings.Repeat("█", filled)) +
		v.styles.Muted.Render(strings.Repeat("░", barWidth-filled))
	return fmt.Sprintf("%s %3d%%", bar, progress)
}

func ingestWarning(r *domain.IngestResult) string {
	if r.Error == "" {
		return "Stored, but the document could not be indexed for search."
	}
	return "Stored, but the document could not be indexed for search: " + r.Error
}

func describeError(err error) string {
	var perr *domain.PipelineError
	if errors.As(err, &perr) {
		return fmt.Sprintf("Upload failed during %s: %v", perr.Step, perr.Err)
	}
	if err != nil {
		return "Upload failed: " + err.Error()
	}
	return "Upload failed."
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.path.SetWidth(min(width-4, 80))
}
