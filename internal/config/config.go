// Package config resolves environment defaults for the stemfetch CLI. Flags
// take precedence over the environment; both fall back to the values below.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Default Zenodo records: MUSDB18 (compressed STEMS) and MedleyDB v2. Both can
// be overridden per run because Zenodo records occasionally move.
const (
	DefaultMusdbRecordID    = "1117372"
	DefaultMedleydbRecordID = "3677432"
)

// Config holds the environment-provided settings, prefix STEMFETCH_.
type Config struct {
	BaseURL          string `envconfig:"BASE_URL" default:"https://zenodo.org"`
	AccessToken      string `envconfig:"ACCESS_TOKEN"`
	MusdbRecordID    string `envconfig:"MUSDB_RECORD_ID" default:"1117372"`
	MedleydbRecordID string `envconfig:"MEDLEYDB_RECORD_ID" default:"3677432"`
	OutputDir        string `envconfig:"OUTPUT_DIR" default:"./downloads"`
	LogLevel         string `envconfig:"LOG_LEVEL" default:"INFO"`

	// Paths to the external decode tools; bare names are resolved on PATH.
	FFmpegPath  string `envconfig:"FFMPEG_PATH" default:"ffmpeg"`
	FFprobePath string `envconfig:"FFPROBE_PATH" default:"ffprobe"`
}

// Load reads STEMFETCH_* environment variables and populates the Config.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("stemfetch", &cfg); err != nil {
		return nil, fmt.Errorf("error processing env: %w", err)
	}

	return &cfg, nil
}

func (c *Config) SlogLevel() slog.Level {
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
