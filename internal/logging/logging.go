// Package logging sets up the slog handler used by the command line tools.
package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// New returns a tint logger writing to f, colored only when f is a terminal.
func New(f *os.File, level slog.Leveler) *slog.Logger {
	return slog.New(NewHandler(colorable.NewColorable(f), level, !isatty.IsTerminal(f.Fd())))
}

// NewHandler returns the tint handler. Timestamps are dropped under systemd,
// which adds its own, and attributes with zero values are omitted.
func NewHandler(w io.Writer, level slog.Leveler, noColor bool) slog.Handler {
	underSystemd := os.Getenv("JOURNAL_STREAM") != ""
	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05.000", // Like time.TimeOnly plus milliseconds.
		NoColor:    noColor,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if underSystemd && a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			// Never log the integration token.
			if a.Key == "token" {
				return slog.String("token", "<redacted>")
			}
			if isZero(a.Value.Any()) {
				return slog.Attr{}
			}
			return a
		},
	})
}

func isZero(val any) bool {
	switch t := val.(type) {
	case string:
		return t == ""
	case bool:
		return !t
	case uint64:
		return t == 0
	case int64:
		return t == 0
	case float64:
		return t == 0
	case time.Time:
		return t.IsZero()
	case time.Duration:
		return t == 0
	case nil:
		return true
	}
	return false
}
