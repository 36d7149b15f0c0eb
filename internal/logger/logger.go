// Package logger builds the process slog.Logger: tint on a console,
// JSON when asked for.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"golang.org/x/term"
)

// Level is shared by every handler New builds so it can be changed at runtime.
var Level = new(slog.LevelVar)

// ParseLevel maps debug|info|warn|error to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New returns a logger writing to w. format is "json" or anything else
// for the tint console handler.
func New(w io.Writer, level, format string) *slog.Logger {
	Level.Set(ParseLevel(level))

	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: Level}))
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      Level,
		TimeFormat: time.DateTime,
		NoColor:    !isTerminal(w),
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == "error" && a.Value.Kind() == slog.KindAny {
				if err, ok := a.Value.Any().(error); ok {
					return tint.Err(err)
				}
			}
			return a
		},
	}))
}

// Init builds a stderr logger and installs it as the slog default.
func Init(level, format string) *slog.Logger {
	log := New(os.Stderr, level, format)
	slog.SetDefault(log)
	return log
}

func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}
