// Package config loads runtime settings from MIMIC_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// DBFile is the database file name inside the data directory.
const DBFile = "mimic.db"

// Config holds runtime settings. Command-line flags override these values.
type Config struct {
	Camera int `env:"MIMIC_CAMERA" envDefault:"0"`
	Width  int `env:"MIMIC_WIDTH"  envDefault:"640"`
	Height int `env:"MIMIC_HEIGHT" envDefault:"480"`
	FPS    int `env:"MIMIC_FPS"    envDefault:"30"`

	// AssetDir holds the overlay PNGs, one per gesture.
	AssetDir string `env:"MIMIC_ASSET_DIR" envDefault:"overlays"`
	// DataDir holds the database. Empty means ~/.mimic.
	DataDir string `env:"MIMIC_DATA_DIR"`
	// Addr is the HTTP listen address. Empty disables the server.
	Addr string `env:"MIMIC_ADDR" envDefault:"127.0.0.1:8080"`
	// WebDir holds the browser viewer served at /. Empty disables it.
	WebDir string `env:"MIMIC_WEB_DIR" envDefault:"web"`

	Mirror          bool    `env:"MIMIC_MIRROR"           envDefault:"true"`
	MotionThreshold float64 `env:"MIMIC_MOTION_THRESHOLD" envDefault:"0"`

	MediaPipeScript string  `env:"MIMIC_MEDIAPIPE_SCRIPT"`
	MediaPipePython string  `env:"MIMIC_MEDIAPIPE_PYTHON"`
	MaxHands        int     `env:"MIMIC_MAX_HANDS"      envDefault:"2"`
	MinConfidence   float64 `env:"MIMIC_MIN_CONFIDENCE" envDefault:"0.5"`

	// Headless skips the preview window; frames are only streamed over HTTP.
	Headless bool `env:"MIMIC_HEADLESS" envDefault:"false"`
	// Tray shows a system tray menu. Only available when headless.
	Tray bool `env:"MIMIC_TRAY" envDefault:"false"`
}

// Load parses the environment and fills in derived defaults.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve data dir: %w", err)
		}
		cfg.DataDir = filepath.Join(home, ".mimic")
	}
	return cfg, nil
}

// Validate reports every setting that cannot work.
func (c Config) Validate() error {
	var errs []error
	if c.Camera < 0 {
		errs = append(errs, fmt.Errorf("camera index must be >= 0, got %d", c.Camera))
	}
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("frame size must be positive, got %dx%d", c.Width, c.Height))
	}
	if c.FPS <= 0 {
		errs = append(errs, fmt.Errorf("fps must be positive, got %d", c.FPS))
	}
	if c.MotionThreshold < 0 || c.MotionThreshold > 100 {
		errs = append(errs, fmt.Errorf("motion threshold must be within [0,100], got %g", c.MotionThreshold))
	}
	if c.MaxHands < 1 {
		errs = append(errs, fmt.Errorf("max hands must be >= 1, got %d", c.MaxHands))
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		errs = append(errs, fmt.Errorf("min confidence must be within [0,1], got %g", c.MinConfidence))
	}
	if c.Tray && !c.Headless {
		errs = append(errs, errors.New("tray requires headless mode"))
	}
	if c.Headless && c.Addr == "" {
		errs = append(errs, errors.New("headless mode needs an HTTP address to stream to"))
	}
	return errors.Join(errs...)
}

// DBPath returns the database file path.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, DBFile)
}
