package domain

import (
	"errors"
	"fmt"
)

// ErrNothingToDownload is returned when a share link produced zero jobs.
var ErrNothingToDownload = errors.New("no files to download")

// ResolutionError means a share key could not be turned into any files.
type ResolutionError struct {
	Key string
	Err error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve %q: %v", e.Key, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// TransferErrorKind classifies a failed transfer
type TransferErrorKind string

const (
	TransferNetwork TransferErrorKind = "network" // connect, timeout, broken body
	TransferHTTP    TransferErrorKind = "http"    // non-success status or unusable response
	TransferIO      TransferErrorKind = "io"      // local filesystem
)

// TransferError is the per-job failure produced by a Transferer.
type TransferError struct {
	Kind       TransferErrorKind
	StatusCode int
	Err        error
}

func (e *TransferError) Error() string {
	if e.Kind == TransferHTTP && e.StatusCode != 0 {
		return fmt.Sprintf("%s error: status %d: %v", e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}

// NewTransferError wraps err with a transfer kind
func NewTransferError(kind TransferErrorKind, err error) *TransferError {
	return &TransferError{Kind: kind, Err: err}
}

// IsTransferKind reports whether err carries a TransferError of the given kind
func IsTransferKind(err error, kind TransferErrorKind) bool {
	var te *TransferError
	if !errors.As(err, &te) {
		return false
	}
	return te.Kind == kind
}
