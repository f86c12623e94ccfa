package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const appDirName = "voxdesk"

type Runtime struct {
	OS   string
	Arch string
}

func CurrentRuntime() Runtime {
	return Runtime{
		OS:   runtime.GOOS,
		Arch: NormalizeArch(runtime.GOARCH),
	}
}

func NormalizeArch(arch string) string {
	switch arch {
	case "x86_64":
		return "amd64"
	case "aarch64":
		return "arm64"
	default:
		return arch
	}
}

// Env carries the environment values directory resolution depends on so
// callers and tests can resolve paths for any OS.
type Env struct {
	GOOS          string
	HomeDir       string
	XDGDataHome   string
	XDGConfigHome string
	AppData       string
}

func CurrentEnv() (Env, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return Env{}, fmt.Errorf("resolve user home: %w", err)
	}

	return Env{
		GOOS:          runtime.GOOS,
		HomeDir:       homeDir,
		XDGDataHome:   os.Getenv("XDG_DATA_HOME"),
		XDGConfigHome: os.Getenv("XDG_CONFIG_HOME"),
		AppData:       os.Getenv("APPDATA"),
	}, nil
}

func (e Env) ModelDir() (string, error) {
	dataDir, err := e.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "models"), nil
}

func (e Env) LogFile() (string, error) {
	dataDir, err := e.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "voxdesk.log"), nil
}

func (e Env) DataDir() (string, error) {
	if e.HomeDir == "" {
		return "", errors.New("home directory is empty")
	}

	switch e.GOOS {
	case "linux":
		if e.XDGDataHome != "" {
			return filepath.Join(e.XDGDataHome, appDirName), nil
		}
		return filepath.Join(e.HomeDir, ".local", "share", appDirName), nil
	case "darwin":
		return filepath.Join(e.HomeDir, "Library", "Application Support", appDirName), nil
	case "windows":
		if e.AppData != "" {
			return filepath.Join(e.AppData, appDirName), nil
		}
		return filepath.Join(e.HomeDir, "AppData", "Roaming", appDirName), nil
	default:
		return "", fmt.Errorf("unsupported OS: %s", e.GOOS)
	}
}

func (e Env) ConfigDir() (string, error) {
	if e.HomeDir == "" {
		return "", errors.New("home directory is empty")
	}

	switch e.GOOS {
	case "linux":
		if e.XDGConfigHome != "" {
			return filepath.Join(e.XDGConfigHome, appDirName), nil
		}
		return filepath.Join(e.HomeDir, ".config", appDirName), nil
	case "darwin", "windows":
		return e.DataDir()
	default:
		return "", fmt.Errorf("unsupported OS: %s", e.GOOS)
	}
}

func ResolveModelDir(override string) (string, error) {
	if override != "" {
		return filepath.Clean(override), nil
	}

	env, err := CurrentEnv()
	if err != nil {
		return "", err
	}
	return env.ModelDir()
}

func ResolveConfigFile(override string) (string, error) {
	if override != "" {
		return filepath.Clean(override), nil
	}

	env, err := CurrentEnv()
	if err != nil {
		return "", err
	}

	dir, err := env.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func ResolveLogFile() (string, error) {
	env, err := CurrentEnv()
	if err != nil {
		return "", err
	}
	return env.LogFile()
}
