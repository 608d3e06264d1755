package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// DefaultPath is the YAML file read when MILA_CONFIG is not set.
const DefaultPath = "./mila.yaml"

// Load reads configuration from a YAML file and environment variables.
// Priority: ENV > YAML > defaults (via env-default tags).
// A .env file in the working directory is loaded into the environment first.
// The YAML path is MILA_CONFIG (fallback "./mila.yaml"). If the file does not
// exist and MILA_CONFIG was not set explicitly, ENV + defaults are used.
func Load() (*Config, error) {
	return LoadFile(os.Getenv("MILA_CONFIG"))
}

// LoadFile is Load with an explicit YAML path. An empty path behaves like
// Load without MILA_CONFIG.
func LoadFile(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Config{Scorer: DefaultScorerConfig()}

	explicitPath := path != ""
	if !explicitPath {
		path = DefaultPath
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicitPath {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	dbPath, err := ExpandHome(cfg.DB.Path)
	if err != nil {
		return nil, fmt.Errorf("config: db.path: %w", err)
	}
	cfg.DB.Path = dbPath

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
