// Package config loads process configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	// DataDir holds the SQLite database. Empty means the platform default.
	DataDir string `env:"BRAINSAVER_DATA_DIR"`

	// FileRoot is where the file agent searches and organizes.
	FileRoot string `env:"BRAINSAVER_FILE_ROOT" envDefault:"."`

	// DesktopPath overrides the automation agent's desktop location.
	DesktopPath string `env:"BRAINSAVER_DESKTOP_PATH"`

	// PhotoPath and ContactsFile are the phone agent's working data.
	PhotoPath    string `env:"BRAINSAVER_PHOTO_PATH" envDefault:"sample_photos"`
	ContactsFile string `env:"BRAINSAVER_CONTACTS_FILE" envDefault:"sample_contacts.json"`

	// Port is the local HTTP API port used by the serve command.
	Port int `env:"BRAINSAVER_PORT" envDefault:"4600"`

	LogLevel string `env:"BRAINSAVER_LOG_LEVEL" envDefault:"info"`
}

// Load reads an optional .env file, then the environment. Missing variables
// fall back to defaults; DataDir defaults to the user config directory.
func Load() (Config, error) {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}

	if cfg.DataDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolving data directory: %w", err)
		}
		cfg.DataDir = filepath.Join(base, "brainsaver")
	}

	return cfg, nil
}
