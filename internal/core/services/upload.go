package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/kbhub-cli/internal/core/domain"
	"github.com/custodia-labs/kbhub-cli/internal/core/ports/driven"
	"github.com/custodia-labs/kbhub-cli/internal/core/ports/driving"
	"github.com/custodia-labs/kbhub-cli/internal/logger"
)

// Ensure UploadPipeline implements the interface.
var _ driving.UploadPipeline = (*UploadPipeline)(nil)

// UploadPipeline runs the three-step upload: request a write credential,
// PUT the bytes straight to the object store, then ask the backend to
// ingest the object. A failed upload stays in the error state until a
// file is selected again.
type UploadPipeline struct {
	api   driven.UploadAPI
	store driven.ObjectStore
	files driven.LocalFiles
	caps  domain.Capabilities

	resetDelay time.Duration
	afterFunc  func(time.Duration, func())
	onComplete func()

	mu       sync.RWMutex
	state    domain.UploadState
	file     *domain.LocalFile
	progress int
	err      error
	ingest   *domain.IngestResult
	epoch    uint64
}

// NewUploadPipeline creates an idle pipeline.
func NewUploadPipeline(
	api driven.UploadAPI,
	store driven.ObjectStore,
	files driven.LocalFiles,
	caps domain.Capabilities,
	resetDelay time.Duration,
) *UploadPipeline {
	if resetDelay <= 0 {
		resetDelay = domain.DefaultUploadResetDelay
	}
	return &UploadPipeline{
		api:        api,
		store:      store,
		files:      files,
		caps:       caps,
		resetDelay: resetDelay,
		afterFunc: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
	}
}

// OnComplete sets the hook run after a successful upload has reset.
func (p *UploadPipeline) OnComplete(f func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onComplete = f
}

// ResetDelay is how long Success is held before the pipeline resets.
func (p *UploadPipeline) ResetDelay() time.Duration {
	return p.resetDelay
}

// Status returns a snapshot of the pipeline.
func (p *UploadPipeline) Status() domain.UploadStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()
	st := domain.UploadStatus{
		State:    p.state,
		Progress: p.progress,
		Err:      p.err,
		Ingest:   p.ingest,
	}
	if p.file != nil {
		f := *p.file
		st.File = &f
	}
	return st
}

// Select makes file the upload candidate. Allowed in every state except
// Uploading; progress and any previous error are cleared.
func (p *UploadPipeline) Select(file domain.LocalFile) error {
	if !p.caps.CanUpload() {
		return domain.ErrForbidden
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == domain.UploadUploading {
		return domain.ErrUploadInProgress
	}
	p.epoch++
	p.state = domain.UploadSelected
	p.file = &file
	p.progress = 0
	p.err = nil
	p.ingest = nil
	return nil
}

// SelectPath describes the file at path and selects it.
func (p *UploadPipeline) SelectPath(path string) error {
	if p.files == nil {
		return domain.ErrNotImplemented
	}
	file, err := p.files.Stat(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return p.Select(*file)
}

// Clear returns to Idle.
func (p *UploadPipeline) Clear() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == domain.UploadUploading {
		return domain.ErrUploadInProgress
	}
	p.epoch++
	p.resetLocked()
	return nil
}

func (p *UploadPipeline) resetLocked() {
	p.state = domain.UploadIdle
	p.file = nil
	p.progress = 0
	p.err = nil
	p.ingest = nil
}

// Start uploads the selected file. It blocks until the pipeline reaches
// Success or Error. Steps run strictly in order and stop at the first failure.
func (p *UploadPipeline) Start(ctx context.Context) error {
	if !p.caps.CanUpload() {
		return domain.ErrForbidden
	}
	if p.api == nil || p.store == nil || p.files == nil {
		return domain.ErrNotImplemented
	}

	p.mu.Lock()
	switch {
	case p.state == domain.UploadUploading:
		p.mu.Unlock()
		return domain.ErrUploadInProgress
	case p.state != domain.UploadSelected || p.file == nil:
		p.mu.Unlock()
		return domain.ErrNoFileSelected
	}
	file := *p.file
	p.state = domain.UploadUploading
	p.progress = domain.ProgressRequested
	p.err = nil
	epoch := p.epoch
	p.mu.Unlock()

	logger.Section("Upload")
	logger.Debug("File: %s (%d bytes, %s)", file.Name, file.Size, file.ContentType)

	cred, err := p.api.RequestUploadURL(ctx, file.Name, file.ContentType)
	if err != nil {
		return p.fail(domain.StepCredential, err)
	}
	p.setProgress(domain.ProgressCredential)

	if err := p.transfer(ctx, cred.UploadURL, file); err != nil {
		return p.fail(domain.StepTransfer, err)
	}
	p.setProgress(domain.ProgressTransferred)

	result, err := p.api.ConfirmIngestion(ctx, domain.IngestRequest{
		FileID:      file.Name,
		Filename:    file.Name,
		ContentType: file.ContentType,
		Size:        file.Size,
		UploadURL:   domain.ObjectURL(cred.UploadURL),
	})
	if err != nil {
		return p.fail(domain.StepIngest, err)
	}
	if result != nil && !result.Indexed() {
		logger.Warn("%s was stored but not indexed: %s", file.Name, result.Error)
	}

	p.mu.Lock()
	p.state = domain.UploadSuccess
	p.progress = domain.ProgressDone
	p.ingest = result
	after := p.afterFunc
	p.mu.Unlock()

	logger.Info("Uploaded %s", file.Name)
	after(p.resetDelay, func() { p.autoReset(epoch) })
	return nil
}

func (p *UploadPipeline) transfer(ctx context.Context, url string, file domain.LocalFile) error {
	body, err := p.files.Open(file.Path)
	if err != nil {
		return err
	}
	defer body.Close()
	return p.store.Put(ctx, url, file.ContentType, body, file.Size)
}

func (p *UploadPipeline) setProgress(progress int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.progress = progress
}

func (p *UploadPipeline) fail(step domain.UploadStep, err error) error {
	perr := &domain.PipelineError{Step: step, Err: err}
	p.mu.Lock()
	p.state = domain.UploadError
	p.progress = 0
	p.err = perr
	p.mu.Unlock()
	logger.Warn("%v", perr)
	return perr
}

// autoReset returns a Success to Idle and runs the completion hook. A newer
// selection is left in place, but the hook still runs since the ingested
// object is already in the catalog.
func (p *UploadPipeline) autoReset(epoch uint64) {
	p.mu.Lock()
	if p.epoch == epoch && p.state == domain.UploadSuccess {
		p.resetLocked()
	}
	hook := p.onComplete
	p.mu.Unlock()

	if hook != nil {
		hook()
	}
}
