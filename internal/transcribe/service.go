// Package transcribe turns an audio file into text: it resolves and fetches
// the model, skips silent recordings and runs the configured backend.
package transcribe

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fmueller/voxdesk/internal/audio"
	"github.com/fmueller/voxdesk/internal/download"
	"github.com/fmueller/voxdesk/internal/platform"
	"github.com/fmueller/voxdesk/internal/whisper"
	"go.uber.org/zap"
)

type Options struct {
	Model         string
	ModelDir      string
	Language      string
	Backend       string
	AutoDownload  bool
	SilenceGate   bool
	SilenceDBFS   float64
	NoProgress    bool
	OpenAIModel   string
	OpenAIBaseURL string
	Logger        *zap.Logger

	// Status receives human readable progress while the service is built
	// (model download percentage and similar). Optional.
	Status func(string)

	// Engine replaces the backend built from Backend. Used by tests.
	Engine whisper.Engine
}

// Service is the engine handed to front-ends. It is safe to reuse for many
// files; the model is resolved once in New.
type Service struct {
	engine      whisper.Engine
	model       whisper.ResolvedModel
	language    string
	silenceGate bool
	silenceDBFS float64
	logger      *zap.Logger
}

func New(ctx context.Context, opts Options) (*Service, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	status := opts.Status
	if status == nil {
		status = func(string) {}
	}

	backend := strings.TrimSpace(opts.Backend)
	if backend == "" {
		backend = whisper.BackendWhisperCLI
	}

	s := &Service{
		language:    SanitizeLanguage(opts.Language),
		silenceGate: opts.SilenceGate,
		silenceDBFS: opts.SilenceDBFS,
		logger:      logger,
	}

	if whisper.NeedsLocalModel(backend) {
		model, err := EnsureModel(ctx, opts, status)
		if err != nil {
			return nil, err
		}
		s.model = model
	}

	engine := opts.Engine
	if engine == nil {
		status("Loading " + backend + " engine...")
		built, err := newBackend(backend, opts, logger)
		if err != nil {
			return nil, err
		}
		engine = built
	}
	s.engine = engine

	logger.Info("transcriber ready", zap.String("backend", backend), zap.String("model", s.model.Name), zap.String("language", s.language))
	return s, nil
}

func newBackend(backend string, opts Options, logger *zap.Logger) (whisper.Engine, error) {
	switch backend {
	case whisper.BackendWhisperCLI:
		return whisper.NewBundledEngine(logger)
	case whisper.BackendWhisperCPP:
		return whisper.NewCPPEngine(logger)
	case whisper.BackendOpenAI:
		return whisper.NewOpenAIEngine(whisper.OpenAIOptions{
			Model:   opts.OpenAIModel,
			BaseURL: opts.OpenAIBaseURL,
			Logger:  logger,
		})
	default:
		return nil, fmt.Errorf("unknown backend %q (supported: %s)", backend, strings.Join(whisper.Backends(), ", "))
	}
}

// Transcribe returns the transcript of audioPath, or BlankAudioToken when
// the silence gate decides the file holds no speech.
func (s *Service) Transcribe(ctx context.Context, audioPath string) (string, error) {
	audioPath = filepath.Clean(audioPath)
	if _, err := os.Stat(audioPath); err != nil {
		return "", fmt.Errorf("audio file not found: %w", err)
	}

	if s.isSilent(audioPath) {
		return BlankAudioToken, nil
	}

	s.logger.Info("transcribing...", zap.String("audio", audioPath), zap.String("model", s.model.Path), zap.String("language", s.language))
	started := time.Now()

	transcript, err := s.engine.Transcribe(ctx, whisper.TranscriptionRequest{
		AudioPath: audioPath,
		ModelPath: s.model.Path,
		Language:  s.language,
	})
	if err != nil {
		s.logger.Warn("transcription failed", zap.Duration("elapsed", time.Since(started)), zap.Error(err))
		return "", err
	}
	s.logger.Info("transcription finished", zap.Duration("elapsed", time.Since(started)))

	return transcript, nil
}

func (s *Service) Model() whisper.ResolvedModel {
	return s.model
}

// Close releases backends that hold native resources.
func (s *Service) Close() error {
	if closer, ok := s.engine.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (s *Service) isSilent(audioPath string) bool {
	if !s.silenceGate || !strings.EqualFold(filepath.Ext(audioPath), ".wav") {
		return false
	}

	silent, metrics, err := audio.IsSilentWAV(audioPath, s.silenceDBFS)
	if err != nil {
		s.logger.Warn("silence gate analysis failed; continuing transcription", zap.Error(err), zap.String("audio", audioPath))
		return false
	}
	if !silent {
		return false
	}

	s.logger.Info(
		"audio considered silent; skipping transcription",
		zap.String("audio", audioPath),
		zap.Float64("rms_dbfs", metrics.RMSdBFS),
		zap.Float64("peak_dbfs", metrics.PeakdBFS),
		zap.Float64("threshold_dbfs", s.silenceDBFS),
	)
	return true
}

// EnsureModel resolves the configured model and downloads it when it is
// missing and auto-download is on.
func EnsureModel(ctx context.Context, opts Options, status func(string)) (whisper.ResolvedModel, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if status == nil {
		status = func(string) {}
	}

	modelDir, err := ModelStorageDir(opts.ModelDir)
	if err != nil {
		return whisper.ResolvedModel{}, err
	}

	resolved, err := whisper.ResolveModel(opts.Model, modelDir)
	if err != nil {
		return whisper.ResolvedModel{}, err
	}
	if !resolved.NeedsDownload {
		return resolved, nil
	}

	if !opts.AutoDownload {
		return whisper.ResolvedModel{}, fmt.Errorf("model %q is missing at %s; run `voxdesk setup --model %s` or enable auto_download", resolved.Name, resolved.Path, resolved.Name)
	}

	logger.Info("model not found, downloading", zap.String("model", resolved.Name), zap.String("destination", resolved.Path))
	status(fmt.Sprintf("Downloading %s model (%d MB)...", resolved.Name, resolved.SizeMB))

	if err := download.DownloadFile(ctx, download.Options{
		URL:            resolved.URL,
		Destination:    resolved.Path,
		ExpectedSHA256: resolved.SHA256,
		ChecksumURL:    resolved.SHA256URL,
		NoProgress:     opts.NoProgress,
		Progress:       downloadStatus(resolved.Name, status),
		Logger:         logger,
	}); err != nil {
		return whisper.ResolvedModel{}, fmt.Errorf("download model %q: %w", resolved.Name, err)
	}

	resolved.NeedsDownload = false
	return resolved, nil
}

func downloadStatus(model string, status func(string)) download.ProgressFunc {
	return func(written, total int64) {
		if total <= 0 {
			status(fmt.Sprintf("Downloading %s model... %d MB", model, written>>20))
			return
		}
		status(fmt.Sprintf("Downloading %s model... %d%%", model, written*100/total))
	}
}

func ModelStorageDir(override string) (string, error) {
	dir, err := platform.ResolveModelDir(override)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create model directory %s: %w", dir, err)
	}
	return dir, nil
}

func SanitizeLanguage(input string) string {
	trimmed := strings.TrimSpace(strings.ToLower(input))
	if trimmed == "" {
		return "auto"
	}
	return trimmed
}
