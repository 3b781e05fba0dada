// Package logging builds the process-wide slog.Logger.
package logging

import (
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"
)

// New returns a logger writing to w. The text format uses tint's colorized
// handler; the json format uses slog's JSON handler for log shipping.
func New(cfg *Config, w io.Writer) *slog.Logger {
	if cfg.Format == FormatJSON {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     cfg.SlogLevel(),
			AddSource: cfg.AddSource,
		}))
	}

	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      cfg.SlogLevel(),
		TimeFormat: time.Kitchen,
		AddSource:  cfg.AddSource,
	}))
}
