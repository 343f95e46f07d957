package logger

import (
	"os"
	"strings"

	"mamba-store/internal/config"

	"github.com/rs/zerolog"
)

// New builds the process logger from the Log config section.
// Format "console" is meant for local development; anything else emits JSON.
func New(cfg config.Log) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.Format == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		logger = zerolog.New(os.Stderr)
	}

	return logger.Level(level).With().Timestamp().Logger()
}
