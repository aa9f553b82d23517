package domain

import (
	"strings"
	"time"
)

// UploadState is the state of the upload pipeline.
type UploadState int

const (
	UploadIdle UploadState = iota
	UploadSelected
	UploadUploading
	UploadSuccess
	UploadError
)

// String returns the state name.
func (s UploadState) String() string {
	switch s {
	case UploadIdle:
		return "idle"
	case UploadSelected:
		return "selected"
	case UploadUploading:
		return "uploading"
	case UploadSuccess:
		return "success"
	case UploadError:
		return "error"
	default:
		return "unknown"
	}
}

// UploadStep names a step of the three-step upload protocol.
type UploadStep string

const (
	StepCredential UploadStep = "credential"
	StepTransfer   UploadStep = "transfer"
	StepIngest     UploadStep = "ingest"
)

// Progress milestones reported by the pipeline.
const (
	ProgressRequested   = 10
	ProgressCredential  = 30
	ProgressTransferred = 85
	ProgressDone        = 100
)

// DefaultUploadResetDelay is how long Success is shown before the pipeline resets.
const DefaultUploadResetDelay = 1500 * time.Millisecond

// LocalFile is a file selected for upload.
type LocalFile struct {
	Path        string
	Name        string
	Size        int64
	ContentType string
}

// UploadCredential is a short-lived write credential for the object store.
type UploadCredential struct {
	UploadURL string `json:"upload_url"`
	Filename  string `json:"filename"`
}

// IngestRequest asks the backend to index an uploaded object.
type IngestRequest struct {
	FileID      string `json:"file_id"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	UploadURL   string `json:"upload_url"`
}

// Ingestion outcomes.
const (
	IngestIndexed         = "indexed"
	IngestStoredNotParsed = "uploaded_but_failed_processing"
)

// IngestResult is the backend's response to an ingestion request.
type IngestResult struct {
	Status string `json:"status"`
	FileID string `json:"file_id"`
	Error  string `json:"error,omitempty"`
}

// Indexed reports whether the document was fully processed.
func (r *IngestResult) Indexed() bool {
	return r.Status == "" || r.Status == IngestIndexed
}

// ObjectURL strips the query string (the signature) from a presigned URL.
func ObjectURL(presigned string) string {
	if i := strings.IndexByte(presigned, '?'); i >= 0 {
		return presigned[:i]
	}
	return presigned
}

// UploadStatus is a snapshot of the pipeline.
type UploadStatus struct {
	State    UploadState
	File     *LocalFile
	Progress int
	Err      error
	Ingest   *IngestResult
}

// Busy reports whether a transfer is underway.
func (s UploadStatus) Busy() bool {
	return s.State == UploadUploading
}
