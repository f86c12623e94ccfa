package whisper

import (
	"context"
	"errors"
)

// Backend names accepted in config and on the command line.
const (
	BackendWhisperCLI = "whisper-cli"
	BackendWhisperCPP = "whispercpp"
	BackendOpenAI     = "openai"
)

var ErrBackendUnavailable = errors.New("transcription backend not available in this build")

type TranscriptionRequest struct {
	AudioPath string
	ModelPath string
	Language  string
}

type Engine interface {
	Transcribe(ctx context.Context, req TranscriptionRequest) (string, error)
}

// Backends lists the backend names in the order they are documented.
func Backends() []string {
	return []string{BackendWhisperCLI, BackendWhisperCPP, BackendOpenAI}
}

// NeedsLocalModel reports whether the backend reads a ggml model from disk.
func NeedsLocalModel(backend string) bool {
	return backend != BackendOpenAI
}
