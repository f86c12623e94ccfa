//go:build whispercpp

package whisper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fmueller/voxdesk/internal/audio"
	whispercpp "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
	"go.uber.org/zap"
)

// CPPEngine runs whisper.cpp in-process. The model stays loaded until Close.
// mu serialises runs; Close goes through lease only and never blocks on a run.
type CPPEngine struct {
	mu        sync.Mutex
	lease     modelLease
	model     whispercpp.Model
	modelPath string
	logger    *zap.Logger
}

func NewCPPEngine(logger *zap.Logger) (*CPPEngine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CPPEngine{logger: logger}, nil
}

func (e *CPPEngine) Transcribe(ctx context.Context, req TranscriptionRequest) (string, error) {
	if strings.TrimSpace(req.AudioPath) == "" {
		return "", errors.New("audio path is required")
	}

	samples, err := audio.ReadMono16k(req.AudioPath)
	if err != nil {
		return "", fmt.Errorf("whispercpp needs PCM WAV input: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.lease.acquire(); err != nil {
		return "", err
	}
	defer func() {
		if err := e.lease.release(); err != nil {
			e.logger.Warn("free whisper.cpp model", zap.Error(err))
		}
	}()

	model, err := e.loadLocked(req.ModelPath)
	if err != nil {
		return "", err
	}

	wctx, err := model.NewContext()
	if err != nil {
		return "", fmt.Errorf("whispercpp: create context: %w", err)
	}

	if lang := strings.TrimSpace(req.Language); lang != "" && lang != "auto" {
		if err := wctx.SetLanguage(lang); err != nil {
			return "", fmt.Errorf("whispercpp: set language %q: %w", lang, err)
		}
	}

	e.logger.Debug("running whisper.cpp", zap.String("model", e.modelPath), zap.Int("samples", len(samples)))
	if err := wctx.Process(samples, nil, nil, nil); err != nil {
		return "", fmt.Errorf("whispercpp: process: %w", err)
	}

	var segments []string
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		seg, err := wctx.NextSegment()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("whispercpp: next segment: %w", err)
		}
		segments = append(segments, strings.TrimSpace(seg.Text))
	}

	return strings.TrimSpace(strings.Join(segments, " ")), nil
}

func (e *CPPEngine) loadLocked(modelPath string) (whispercpp.Model, error) {
	if strings.TrimSpace(modelPath) == "" {
		return nil, errors.New("model path is required")
	}
	if e.model != nil && e.modelPath == modelPath {
		return e.model, nil
	}
	if e.model != nil {
		_ = e.model.Close()
		e.model = nil
	}

	model, err := whispercpp.New(modelPath)
	if err != nil {
		e.lease.hold(nil)
		return nil, fmt.Errorf("whispercpp: load model %q: %w", modelPath, err)
	}
	e.model = model
	e.modelPath = modelPath
	e.lease.hold(model.Close)
	return model, nil
}

// Close frees the model, or marks the engine closed and leaves freeing the
// model to a transcription that is still running.
func (e *CPPEngine) Close() error {
	return e.lease.close()
}
