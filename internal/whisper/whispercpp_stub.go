//go:build !whispercpp

package whisper

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// CPPEngine is unavailable unless voxdesk is built with -tags whispercpp.
type CPPEngine struct{}

func NewCPPEngine(_ *zap.Logger) (*CPPEngine, error) {
	return nil, fmt.Errorf("%w: rebuild with -tags whispercpp to use the %s backend", ErrBackendUnavailable, BackendWhisperCPP)
}

func (e *CPPEngine) Transcribe(context.Context, TranscriptionRequest) (string, error) {
	return "", ErrBackendUnavailable
}

func (e *CPPEngine) Close() error {
	return nil
}
