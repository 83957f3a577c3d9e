package pipeline

import (
	"errors"
	"fmt"

	"github.com/akolanti/IngestAPI/internal/domain/docModel"
)

// FetchError covers network, auth and not-found failures while downloading
// the source blob. Treated as permanent: a bad URL will not fix itself.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string { return fmt.Sprintf("fetch %s: %v", e.URL, e.Err) }
func (e *FetchError) Unwrap() error { return e.Err }

// UnsupportedFormatError stops the run at the detect stage before any
// parser is picked.
type UnsupportedFormatError struct {
	Detected string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file format: %s", e.Detected)
}

type ParseError struct {
	FileType string
	Err      error
}

func (e *ParseError) Error() string { return fmt.Sprintf("parse %s: %v", e.FileType, e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

// SummarizeError is per-item and non-fatal: the failing chunk falls back to
// a placeholder summary. The vision stage only fails when every item fails.
type SummarizeError struct {
	Item int
	Err  error
}

func (e *SummarizeError) Error() string { return fmt.Sprintf("summarize item %d: %v", e.Item, e.Err) }
func (e *SummarizeError) Unwrap() error { return e.Err }

type EmbedError struct {
	Batch int
	Err   error
}

func (e *EmbedError) Error() string { return fmt.Sprintf("embed batch %d: %v", e.Batch, e.Err) }
func (e *EmbedError) Unwrap() error { return e.Err }

type StoreError struct {
	Namespace string
	Err       error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store in %s: %v", e.Namespace, e.Err) }
func (e *StoreError) Unwrap() error { return e.Err }

var ErrNoChunks = errors.New("no chunks extracted from document")

// StageError ties an underlying failure to the stage it happened in. Its
// message is what lands in Document.ErrorMessage, so it has to be readable
// by a human checking why their upload failed.
type StageError struct {
	Stage docModel.Stage
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

func stageFailure(stage docModel.Stage, err error) *StageError {
	return &StageError{Stage: stage, Err: err}
}
