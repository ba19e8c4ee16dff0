package invoice

import (
	"errors"
	"fmt"
)

// Common invoice printing errors
var (
	// ErrAssetMissing is returned when the logo image does not exist.
	ErrAssetMissing = errors.New("invoice asset not found")

	// ErrAssetUnreadable is returned when the logo exists but cannot be read
	// or is not an image format the renderer understands.
	ErrAssetUnreadable = errors.New("invoice asset unreadable")

	// ErrOutputNotWritable is returned when the output file cannot be
	// created, written or moved into place.
	ErrOutputNotWritable = errors.New("invoice output not writable")

	// ErrRenderFailed is returned when the document renderer reports an error.
	ErrRenderFailed = errors.New("invoice rendering failed")

	// ErrInvalidSettings is returned when printer settings cannot be used,
	// e.g. an empty output path or a tax rate of -100% or less.
	ErrInvalidSettings = errors.New("invalid invoice settings")

	// ErrContextCanceled is returned when printing is canceled via context.
	ErrContextCanceled = errors.New("invoice printing was canceled")
)

// Kind classifies a PrintError for callers that choose exit codes or messages.
type Kind int

const (
	KindRender Kind = iota
	KindAsset
	KindIO
	KindConfig
	KindCanceled
)

func (k Kind) String() string {
	switch k {
	case KindAsset:
		return "asset"
	case KindIO:
		return "io"
	case KindConfig:
		return "config"
	case KindCanceled:
		return "canceled"
	default:
		return "render"
	}
}

// PrintError wraps errors with additional context about invoice printing failures.
type PrintError struct {
	// Op is the operation that failed (e.g., "LoadLogo", "WriteOutput").
	Op string

	// Kind is the failure class.
	Kind Kind

	// Path is the file involved, if any.
	Path string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *PrintError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("invoice: %s failed (%s): %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("invoice: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *PrintError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *PrintError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// newPrintError joins the sentinel for kind with cause so that both
// errors.Is(err, ErrAssetMissing) and errors.Is(err, fs.ErrNotExist) hold.
func newPrintError(op string, kind Kind, path string, sentinel, cause error) *PrintError {
	err := sentinel
	if cause != nil {
		err = fmt.Errorf("%w: %w", sentinel, cause)
	}
	return &PrintError{
		Op:   op,
		Kind: kind,
		Path: path,
		Err:  err,
	}
}

// KindOf reports the Kind of err, and false when err is not a PrintError.
func KindOf(err error) (Kind, bool) {
	var printErr *PrintError
	if errors.As(err, &printErr) {
		return printErr.Kind, true
	}
	return KindRender, false
}
