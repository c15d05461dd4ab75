// Package logging builds the process logger.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/platform/config"
)

// New returns a zerolog logger writing JSON (or console output) to stdout.
func New(cfg config.LogConfig, component string) zerolog.Logger {
	return NewWithWriter(cfg, component, os.Stdout)
}

func NewWithWriter(cfg config.LogConfig, component string, w io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	if cfg.Format == config.LogFormatConsole {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).
		Level(cfg.Level).
		With().
		Timestamp().
		Str("component", component).
		Logger()
}
