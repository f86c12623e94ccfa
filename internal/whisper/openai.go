package whisper

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const APIKeyEnv = "OPENAI_API_KEY"

var ErrMissingAPIKey = errors.New("OpenAI API key missing; set " + APIKeyEnv + " or add it to a .env file")

type OpenAIOptions struct {
	APIKey  string
	BaseURL string
	Model   string
	Logger  *zap.Logger
}

// OpenAIEngine sends the audio file to the OpenAI transcription endpoint.
// The model path of a request is ignored.
type OpenAIEngine struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

func NewOpenAIEngine(opts OpenAIOptions) (*OpenAIEngine, error) {
	key := strings.TrimSpace(opts.APIKey)
	if key == "" {
		key = strings.TrimSpace(os.Getenv(APIKeyEnv))
	}
	if key == "" {
		return nil, ErrMissingAPIKey
	}

	cfg := openai.DefaultConfig(key)
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		cfg.BaseURL = strings.TrimRight(base, "/")
	}

	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = openai.Whisper1
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &OpenAIEngine{client: openai.NewClientWithConfig(cfg), model: model, logger: logger}, nil
}

func (o *OpenAIEngine) Transcribe(ctx context.Context, req TranscriptionRequest) (string, error) {
	if strings.TrimSpace(req.AudioPath) == "" {
		return "", errors.New("audio path is required")
	}

	audioReq := openai.AudioRequest{
		Model:    o.model,
		FilePath: req.AudioPath,
	}
	if lang := strings.TrimSpace(req.Language); lang != "" && lang != "auto" {
		audioReq.Language = lang
	}

	started := time.Now()
	o.logger.Debug("sending audio to openai", zap.String("model", o.model), zap.String("audio", req.AudioPath))
	resp, err := o.client.CreateTranscription(ctx, audioReq)
	if err != nil {
		return "", fmt.Errorf("openai transcription: %w", err)
	}
	o.logger.Debug("openai transcription received", zap.Duration("elapsed", time.Since(started)))

	return strings.TrimSpace(resp.Text), nil
}
