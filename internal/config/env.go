package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// EnvFileEnv names an extra .env file loaded before the defaults.
const EnvFileEnv = "VOXDESK_ENV"

// DefaultEnvFiles lists the .env files consulted at startup, first match wins
// per variable: $VOXDESK_ENV, ~/.voxdesk.env, ./.env.
func DefaultEnvFiles() []string {
	var files []string
	if p := strings.TrimSpace(os.Getenv(EnvFileEnv)); p != "" {
		files = append(files, p)
	}
	if home, err := os.UserHomeDir(); err == nil {
		files = append(files, filepath.Join(home, ".voxdesk.env"))
	}
	return append(files, ".env")
}

// LoadEnvFiles loads each existing file into the process environment.
// Variables that are already set are never overridden.
func LoadEnvFiles(paths ...string) ([]string, error) {
	var loaded []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return loaded, fmt.Errorf("stat env file %s: %w", p, err)
		}
		if info.IsDir() {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return loaded, fmt.Errorf("load env file %s: %w", p, err)
		}
		loaded = append(loaded, p)
	}
	return loaded, nil
}
