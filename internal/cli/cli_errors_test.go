package cli

import (
	"strings"
	"testing"

	"github.com/fmueller/voxdesk/internal/config"
	"github.com/stretchr/testify/require"
)

func TestCLIErrorCases(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		args        []string
		errContains string
	}{
		{
			name:        "tui too many args",
			args:        []string{"tui", "a.wav", "b.wav"},
			errContains: "accepts at most 1 arg(s)",
		},
		{
			name:        "unknown root flag",
			args:        []string{"--badflag"},
			errContains: "unknown flag",
		},
		{
			name:        "unknown subcommand flag",
			args:        []string{"transcribe", "--bogus", "f.wav"},
			errContains: "unknown flag",
		},
		{
			name:        "transcribe missing arg",
			args:        []string{"transcribe"},
			errContains: "accepts 1 arg(s)",
		},
		{
			name:        "transcribe too many args",
			args:        []string{"transcribe", "a.wav", "b.wav"},
			errContains: "accepts 1 arg(s)",
		},
		{
			name:        "root too many args",
			args:        []string{"a.wav", "b.wav"},
			errContains: "accepts at most 1 arg(s)",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := runCommand(t, tt.args)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestTranscribeNonexistentFile(t *testing.T) {
	isolateUserDirs(t)

	_, _, err := runCommand(t, []string{"transcribe", "/no/such/file.wav"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "audio file not found")
}

func TestSetupRejectsNonexistentCustomModelPath(t *testing.T) {
	isolateUserDirs(t)

	_, _, err := runCommand(t, []string{"setup", "--model", "/no/such/path/model.bin", "--model-dir", t.TempDir()})
	require.Error(t, err)
	require.Contains(t, err.Error(), "custom model path does not exist")
}

func TestSetupSkipsModelForCloudBackend(t *testing.T) {
	isolateUserDirs(t)

	stdout, _, err := runCommand(t, []string{"setup", "--backend", "openai"})
	require.NoError(t, err)
	require.Equal(t, "Backend openai needs no local model\n", stdout)
}

func TestSetupWritesConfig(t *testing.T) {
	isolateUserDirs(t)
	configPath := writeConfigFile(t, "model: small\n")

	stdout, _, err := runCommand(t, []string{"setup", "--config", configPath, "--backend", "openai", "--language", "fr", "--write-config"})
	require.NoError(t, err)
	require.Contains(t, stdout, "Config written to "+configPath)

	cfg, err := config.Load(configPath)
	require.NoError(t, err)
	require.Equal(t, "small", cfg.Model)
	require.Equal(t, "fr", cfg.Language)
	require.Equal(t, "openai", cfg.Backend)
}

func TestVersionFlagOutput(t *testing.T) {
	t.Parallel()

	stdout, _, err := runCommand(t, []string{"--version"})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(stdout, "voxdesk v"), "expected version prefix, got: %s", stdout)
}

func TestVersionCommandOutput(t *testing.T) {
	isolateUserDirs(t)

	stdout, _, err := runCommand(t, []string{"version"})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(stdout, "voxdesk v"), "expected version prefix, got: %s", stdout)
}
