package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrStale indicates a response arrived after a newer request was issued
	// and was discarded.
	ErrStale = errors.New("stale response discarded")

	// Session Errors.

	// ErrNoSession indicates no bearer token is available.
	ErrNoSession = errors.New("no active session")

	// ErrSessionExpired indicates the stored token is past its expiry.
	ErrSessionExpired = errors.New("session expired")

	// ErrAuthInvalid indicates the backend rejected the credentials.
	ErrAuthInvalid = errors.New("authentication invalid")

	// ErrForbidden indicates the role set does not grant the operation.
	// Client-side checks only mirror the backend; they are not a security boundary.
	ErrForbidden = errors.New("operation not permitted for this role")

	// ErrTabUnavailable indicates a view tab is not reachable for the role set.
	ErrTabUnavailable = errors.New("tab not available")

	// Catalog Errors.

	// ErrAlreadyLatest indicates a restore targeted the current version.
	ErrAlreadyLatest = errors.New("version is already the latest")

	// ErrNoVersionsOpen indicates no file has its version history expanded.
	ErrNoVersionsOpen = errors.New("no version history open")

	// Upload Errors.

	// ErrUploadInProgress indicates the pipeline is busy and cannot change selection.
	ErrUploadInProgress = errors.New("upload in progress")

	// ErrNoFileSelected indicates an upload was started without a selection.
	ErrNoFileSelected = errors.New("no file selected")
)

// FetchError reports a failed read from the backend. Cached state is left as it was.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// MutationError reports a failed write. No optimistic change was applied.
type MutationError struct {
	Op  string
	Err error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *MutationError) Unwrap() error { return e.Err }

// PipelineError reports the upload step that failed.
type PipelineError struct {
	Step UploadStep
	Err  error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("upload %s: %v", e.Step, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }

// TransferError is returned when the object store rejects a direct upload.
type TransferError struct {
	StatusCode int
	Status     string
}

func (e *TransferError) Error() string {
	return "object store upload failed: " + e.Status
}

// AdminSource names one of the independently fetched admin datasets.
type AdminSource string

const (
	AdminSourceStats AdminSource = "Stats"
	AdminSourceUsers AdminSource = "Users"
	AdminSourceLogs  AdminSource = "Logs"
)

// AdminFailure is one failed admin dataset.
type AdminFailure struct {
	Source AdminSource
	Err    error
}

// PartialAdminError reports admin datasets that failed while others loaded.
type PartialAdminError struct {
	Failures []AdminFailure
}

// Banner joins the failures into a single line, one sentence per source.
func (e *PartialAdminError) Banner() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s API: %s.", f.Source, strings.TrimSuffix(f.Err.Error(), ".")))
	}
	return strings.Join(parts, " ")
}

func (e *PartialAdminError) Error() string {
	return "admin data partially unavailable: " + e.Banner()
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *PartialAdminError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f.Err)
	}
	return errs
}
