package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/samber/oops"
	slogmulti "github.com/samber/slog-multi"
)

// Setup installs the default logger: a text handler for everyday logs and a
// JSON handler on stderr for errors, fanned out with slog-multi. When the
// terminal shell owns stdout the text handler writes to logFile instead and
// the JSON handler is dropped so nothing bleeds into the screen.
//
// The returned closer releases the log file, if one was opened.
func Setup(level string, logFile string, tuiOwnsStdout bool) (*slog.Logger, io.Closer, error) {
	textOut := io.Writer(os.Stdout)
	var closer io.Closer = nopCloser{}

	if tuiOwnsStdout {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, oops.With("log_file", logFile).Wrap(err)
		}
		textOut = f
		closer = f
	}

	textHandler := slog.NewTextHandler(textOut, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})

	var handler slog.Handler = textHandler
	if !tuiOwnsStdout {
		jsonHandler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelError,
		})
		handler = slogmulti.Fanout(textHandler, jsonHandler)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, closer, nil
}

// ParseLevel maps a level name to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
