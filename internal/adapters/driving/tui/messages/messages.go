// Package messages defines Bubbletea message types for the TUI.
// Messages carry the outcome of service calls run as commands back into
// the Elm update loop; each carries the error of the call, if any.
package messages

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/kbhub-cli/internal/core/domain"
	"github.com/custodia-labs/kbhub-cli/internal/core/ports/driving"
)

// SessionOpened carries the workspace of the signed-in user.
type SessionOpened struct {
	Workspace driving.Workspace
	Err       error
}

// TabEntered is sent once a tab has been switched to and its data loaded.
type TabEntered struct {
	Tab domain.Tab
	Err error
}

// CatalogLoaded is sent after the file list has been reloaded.
type CatalogLoaded struct {
	Err error
}

// SearchCompleted is sent when a semantic query settles.
type SearchCompleted struct {
	Query string
	Err   error
}

// VersionsToggled is sent when a version history was expanded or collapsed.
type VersionsToggled struct {
	Filename string
	Expanded bool
	Err      error
}

// VersionRestored is sent after a restore request settles.
type VersionRestored struct {
	Filename  string
	VersionID string
	Err       error
}

// PreviewResolved carries a resolved preview link.
type PreviewResolved struct {
	Preview *domain.Preview
	Err     error
}

// DownloadResolved carries a resolved download link.
type DownloadResolved struct {
	Filename string
	URL      string
	Err      error
}

// FileDeleted is sent after a confirmed delete settles.
type FileDeleted struct {
	Filename string
	Err      error
}

// TagsChanged is sent after tag definitions or assignments change.
type TagsChanged struct {
	Notice string
	Err    error
}

// UploadFinished is sent when the upload pipeline reaches Success or Error.
type UploadFinished struct {
	File   string
	Ingest *domain.IngestResult
	Err    error
}

// UploadTick polls the pipeline while it is busy or holding Success.
type UploadTick struct{}

// AdminExported is sent after the audit log was saved.
type AdminExported struct {
	Path string
	Err  error
}

// ExternalOpened is sent after a link was handed to the operating system.
type ExternalOpened struct {
	Err error
}

// Notice is a transient status-bar message.
type Notice struct {
	Text  string
	Level Level
}

// Level is the severity of a notice.
type Level int

const (
	// LevelInfo is a neutral notice.
	LevelInfo Level = iota
	// LevelSuccess reports a completed action.
	LevelSuccess
	// LevelWarning reports a degraded outcome.
	LevelWarning
	// LevelError reports a failure.
	LevelError
)

// String returns the level name.
func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// Notify returns a command that emits a notice.
func Notify(text string, level Level) tea.Cmd {
	return func() tea.Msg {
		return Notice{Text: text, Level: level}
	}
}

// Failed returns a command reporting err as an error notice. Stale
// responses are superseded by a newer request and produce no notice.
func Failed(err error) tea.Cmd {
	if err == nil || errors.Is(err, domain.ErrStale) {
		return nil
	}
	return Notify(err.Error(), LevelError)
}
