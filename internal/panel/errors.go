package panel

import (
	"errors"
	"fmt"
)

var (
	ErrNoFileSelected          = errors.New("no audio file selected")
	ErrNothingToSave           = errors.New("no transcription to save")
	ErrTranscriptionInProgress = errors.New("a transcription is already running")
)

// PreconditionError is returned when an operation is requested in a state
// that does not allow it. The panel shows a warning and changes nothing.
type PreconditionError struct {
	Err error
}

func (e *PreconditionError) Error() string {
	return e.Err.Error()
}

func (e *PreconditionError) Unwrap() error {
	return e.Err
}

// OperationFailure wraps an error raised while transcribing or saving.
type OperationFailure struct {
	Op  string
	Err error
}

func (e *OperationFailure) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *OperationFailure) Unwrap() error {
	return e.Err
}
