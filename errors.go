package mpfs

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// MPFSError is the interface implemented by all errors returned from this
// module. Every error can be refined with a more specific message or wrap an
// underlying cause while still matching its root sentinel with [errors.Is].
type MPFSError interface {
	error
	WithMessage(message string) MPFSError
	Wrap(err error) MPFSError
}

type baseMPFSError string

const rootError = baseMPFSError("")

// Build-time errors. These abort the whole build.
var ErrConfiguration = rootError.WithMessage("Invalid transcoder configuration")
var ErrDataRange = rootError.WithMessage("Symbol out of representable range")
var ErrInternalConsistency = rootError.WithMessage("Internal consistency fault")
var ErrNameValidation = rootError.WithMessage("Invalid file name")

// Run-time errors, returned to the caller of the driver or stream.
var ErrNotFound = rootError.WithMessage("No such file")
var ErrState = rootError.WithMessage("File descriptor in bad state")
var ErrInvalidArgument = rootError.WithMessage("Invalid argument")
var ErrUnknownFormat = rootError.WithMessage("Unknown container format")
var ErrCorruptData = rootError.WithMessage("Container data is corrupt")

func (e baseMPFSError) Error() string {
	return string(e)
}

func (e baseMPFSError) WithMessage(message string) MPFSError {
	return customMPFSError{
		message:       message,
		originalError: e,
	}
}

func (e baseMPFSError) Wrap(err error) MPFSError {
	return customMPFSError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: multierror.Append(e, err),
	}
}

// -----------------------------------------------------------------------------

type customMPFSError struct {
	message       string
	originalError error
}

// Error implements the `error` object interface. When called, it returns a string
// describing the error.
func (e customMPFSError) Error() string {
	return e.message
}

func (e customMPFSError) WithMessage(message string) MPFSError {
	return customMPFSError{
		message:       fmt.Sprintf("%s: %s", e.message, message),
		originalError: e,
	}
}

func (e customMPFSError) Wrap(err error) MPFSError {
	return customMPFSError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: multierror.Append(e, err),
	}
}

func (e customMPFSError) Unwrap() error {
	return e.originalError
}
