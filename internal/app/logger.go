package app

import (
	"log/slog"
	"os"
)

// NewLogger returns a configured slog.Logger. Logs go to stderr so command
// output on stdout stays pipeable; source locations are recorded everywhere
// except production, where the extra frame lookup buys nothing.
func NewLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{AddSource: !cfg.IsProduction()}
	if cfg != nil && cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
