package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fmueller/voxdesk/internal/whisper"
	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by the desktop, terminal and headless front-ends.
type Config struct {
	Model                string       `yaml:"model"`
	ModelDir             string       `yaml:"model_dir"`
	Language             string       `yaml:"language"`
	Backend              string       `yaml:"backend"`
	AutoDownload         bool         `yaml:"auto_download"`
	SilenceGate          bool         `yaml:"silence_gate"`
	SilenceThresholdDBFS float64      `yaml:"silence_threshold_dbfs"`
	LogLevel             string       `yaml:"log_level"`
	OpenAI               OpenAIConfig `yaml:"openai"`
}

type OpenAIConfig struct {
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

func Default() *Config {
	return &Config{
		Model:                whisper.DefaultModel,
		Language:             "auto",
		Backend:              whisper.BackendWhisperCLI,
		AutoDownload:         true,
		SilenceGate:          true,
		SilenceThresholdDBFS: -65,
		LogLevel:             "info",
	}
}

// Load reads a YAML config file on top of the defaults. A missing file is
// not an error; the defaults are returned as is.
func Load(path string) (*Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	cfg.ModelDir = expandTilde(cfg.ModelDir)
	if strings.HasPrefix(cfg.Model, "~") {
		cfg.Model = expandTilde(cfg.Model)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Model) == "" {
		return errors.New("model must not be empty")
	}

	if !slices.Contains(whisper.Backends(), c.Backend) {
		return fmt.Errorf("backend must be one of %s, got %q", strings.Join(whisper.Backends(), ", "), c.Backend)
	}

	if c.SilenceThresholdDBFS > 0 {
		return fmt.Errorf("silence_threshold_dbfs must be <= 0, got %g", c.SilenceThresholdDBFS)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn, or error, got %q", c.LogLevel)
	}

	return nil
}

// Save writes the config as YAML, creating the parent directory.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func expandTilde(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
