package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fmueller/voxdesk/internal/audio"
	"github.com/fmueller/voxdesk/internal/config"
	"github.com/fmueller/voxdesk/internal/gui"
	"github.com/fmueller/voxdesk/internal/logging"
	"github.com/fmueller/voxdesk/internal/panel"
	"github.com/fmueller/voxdesk/internal/platform"
	"github.com/fmueller/voxdesk/internal/transcribe"
	"github.com/fmueller/voxdesk/internal/tui"
	"github.com/fmueller/voxdesk/internal/version"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// logToFile marks commands whose front-end owns the terminal or runs
// without one.
const logToFile = "voxdesk/log-to-file"

type appState struct {
	configPath   string
	verbose      bool
	jsonLogs     bool
	noProgress   bool
	model        string
	modelDir     string
	language     string
	backend      string
	autoDownload bool
	silenceGate  bool
	silenceDBFS  float64

	cfg    *config.Config
	logger *zap.Logger

	runGUIFn     func(opts gui.Options) error
	runTUIFn     func(opts tui.Options) error
	transcribeFn func(ctx context.Context, audioPath string) (string, error)
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(newAppState())
}

func newAppState() *appState {
	defaults := config.Default()
	app := &appState{
		model:        defaults.Model,
		language:     defaults.Language,
		backend:      defaults.Backend,
		autoDownload: defaults.AutoDownload,
		silenceGate:  defaults.SilenceGate,
		silenceDBFS:  defaults.SilenceThresholdDBFS,
	}
	app.runGUIFn = gui.Run
	app.runTUIFn = runTUI
	app.transcribeFn = app.transcribeFile
	return app
}

func newRootCmd(app *appState) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "voxdesk [audio-file]",
		Short:         "Transcribe audio files in a desktop window with a whisper engine",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Resolve(),
		Annotations:   map[string]string{logToFile: "true"},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.prepare(cmd)
		},
		RunE: func(_ *cobra.Command, args []string) error {
			return app.runGUI(firstArg(args))
		},
	}

	cmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	bindConfigFlags(cmd.PersistentFlags(), app)
	bindLoggingFlags(cmd.PersistentFlags(), app)
	bindModelFlags(cmd.PersistentFlags(), app)
	bindEngineFlags(cmd.PersistentFlags(), app)

	cmd.AddCommand(newTUICmd(app))
	cmd.AddCommand(newTranscribeCmd(app))
	cmd.AddCommand(newSetupCmd(app))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func bindConfigFlags(flags *pflag.FlagSet, app *appState) {
	flags.StringVar(&app.configPath, "config", app.configPath, "Config file (default: <config dir>/voxdesk/config.yaml)")
}

func bindLoggingFlags(flags *pflag.FlagSet, app *appState) {
	flags.BoolVar(&app.verbose, "verbose", app.verbose, "Enable verbose logs")
	flags.BoolVar(&app.jsonLogs, "json", app.jsonLogs, "Enable JSON logging")
	flags.BoolVar(&app.noProgress, "no-progress", app.noProgress, "Disable progress indicators")
}

func bindModelFlags(flags *pflag.FlagSet, app *appState) {
	flags.StringVar(&app.model, "model", app.model, "Model name or model file path")
	flags.StringVar(&app.modelDir, "model-dir", app.modelDir, "Directory where models are stored")
	flags.BoolVar(&app.autoDownload, "auto-download", app.autoDownload, "Automatically download missing models")
}

func bindEngineFlags(flags *pflag.FlagSet, app *appState) {
	flags.StringVar(&app.language, "language", app.language, "Language code (auto|en|de|...) for transcription")
	flags.StringVar(&app.backend, "backend", app.backend, "Transcription backend: whisper-cli|whispercpp|openai")
	flags.BoolVar(&app.silenceGate, "silence-gate", app.silenceGate, "Detect near-silent WAV audio and skip transcription")
	flags.Float64Var(&app.silenceDBFS, "silence-threshold-dbfs", app.silenceDBFS, "Silence gate threshold in dBFS")
}

// prepare loads .env files and the config file, lets explicitly set flags
// win over both, and builds the logger.
func (a *appState) prepare(cmd *cobra.Command) error {
	if _, err := config.LoadEnvFiles(config.DefaultEnvFiles()...); err != nil {
		return err
	}

	path, err := platform.ResolveConfigFile(a.configPath)
	if err != nil {
		return fmt.Errorf("resolve config file: %w", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	a.overlayFlags(cmd.Flags(), cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	opts := logging.Options{Verbose: a.verbose, JSON: a.jsonLogs, Level: cfg.LogLevel}
	if a.verbose {
		opts.Level = ""
	}
	if wantsLogFile(cmd) {
		if opts.File, err = platform.ResolveLogFile(); err != nil {
			return fmt.Errorf("resolve log file: %w", err)
		}
	}

	logger, err := logging.New(opts)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	a.logger = logger
	a.log().Debug("configuration loaded", zap.String("config", path), zap.String("model", cfg.Model), zap.String("backend", cfg.Backend))
	return nil
}

func (a *appState) overlayFlags(flags *pflag.FlagSet, cfg *config.Config) {
	if flags.Changed("model") {
		cfg.Model = a.model
	}
	if flags.Changed("model-dir") {
		cfg.ModelDir = a.modelDir
	}
	if flags.Changed("language") {
		cfg.Language = a.language
	}
	if flags.Changed("backend") {
		cfg.Backend = a.backend
	}
	if flags.Changed("auto-download") {
		cfg.AutoDownload = a.autoDownload
	}
	if flags.Changed("silence-gate") {
		cfg.SilenceGate = a.silenceGate
	}
	if flags.Changed("silence-threshold-dbfs") {
		cfg.SilenceThresholdDBFS = a.silenceDBFS
	}
	cfg.Language = transcribe.SanitizeLanguage(cfg.Language)
}

func wantsLogFile(cmd *cobra.Command) bool {
	return cmd.Annotations[logToFile] == "true"
}

func (a *appState) config() *config.Config {
	if a.cfg == nil {
		return config.Default()
	}
	return a.cfg
}

func (a *appState) serviceOptions(status func(string), noProgress bool) transcribe.Options {
	cfg := a.config()
	return transcribe.Options{
		Model:         cfg.Model,
		ModelDir:      cfg.ModelDir,
		Language:      cfg.Language,
		Backend:       cfg.Backend,
		AutoDownload:  cfg.AutoDownload,
		SilenceGate:   cfg.SilenceGate,
		SilenceDBFS:   cfg.SilenceThresholdDBFS,
		NoProgress:    noProgress,
		OpenAIModel:   cfg.OpenAI.Model,
		OpenAIBaseURL: cfg.OpenAI.BaseURL,
		Logger:        a.log(),
		Status:        status,
	}
}

// engineFactory builds the transcription service on the panel's first run.
// Download progress goes to the status line, not to a terminal bar.
func (a *appState) engineFactory() panel.EngineFactory {
	return func(ctx context.Context, status func(string)) (panel.Engine, error) {
		svc, err := transcribe.New(ctx, a.serviceOptions(status, true))
		if err != nil {
			return nil, err
		}
		return svc, nil
	}
}

func (a *appState) runGUI(audioPath string) error {
	a.log().Info("opening window", zap.String("audio", audioPath))
	return a.runGUIFn(gui.Options{
		Engine:    a.engineFactory(),
		Describe:  a.describeAudio,
		Logger:    a.log().Named("gui"),
		AudioPath: audioPath,
	})
}

// describeAudio reports format and length for WAV files; other formats are
// left to the engine.
func (a *appState) describeAudio(path string) string {
	if !strings.EqualFold(filepath.Ext(path), ".wav") {
		return ""
	}

	info, err := audio.Probe(path)
	if err != nil {
		a.log().Debug("probe audio file", zap.String("path", path), zap.Error(err))
		return ""
	}
	return describeInfo(info)
}

func describeInfo(info audio.Info) string {
	channels := "mono"
	switch {
	case info.Channels == 2:
		channels = "stereo"
	case info.Channels > 2:
		channels = fmt.Sprintf("%d channels", info.Channels)
	}
	return fmt.Sprintf("WAV, %d Hz, %s, %s", info.SampleRate, channels, formatDuration(info.Duration))
}

func formatDuration(d time.Duration) string {
	total := int(d.Round(time.Second) / time.Second)
	if total >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", total/3600, total%3600/60, total%60)
	}
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

func (a *appState) log() *zap.Logger {
	if a.logger == nil {
		return zap.NewNop()
	}
	return a.logger
}

func (a *appState) progressEnabled() bool {
	if a.noProgress {
		return false
	}
	return term.IsTerminal(int(os.Stderr.Fd()))
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
