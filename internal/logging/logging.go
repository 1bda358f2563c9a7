// Package logging builds the process logger from the logging settings.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"homewizard-client/internal/domain/model"
)

// New returns a logger writing to out. Format "json" emits one JSON object
// per line; anything else uses the human readable console writer.
func New(cfg model.LoggingConfig, out io.Writer) (zerolog.Logger, error) {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		l, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = l
	}

	w := out
	switch strings.ToLower(cfg.Format) {
	case "json":
	case "", "console":
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	default:
		return zerolog.Nop(), fmt.Errorf("invalid log format %q", cfg.Format)
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}
