// Package logging sets up the slog logger shared by the server and the
// gridexport CLI.
//
// Entries written while handling a request carry chi's request id, and
// entries about a view carry its view id and dataset key, so one view's
// gestures, row actions and exports can be followed through the log.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
)

// Attribute keys shared by every view entry.
const (
	KeyRequestID = "request_id"
	KeyViewID    = "view_id"
	KeyDataset   = "dataset"
)

// Setup installs the server's default logger on stdout. level is one of
// debug, info, warn or error; format is "json" or "text".
func Setup(level, format string) {
	slog.SetDefault(New(os.Stdout, level, format))
}

// New builds a logger writing to w. gridexport passes stderr so a CSV
// written to stdout is never interleaved with log lines.
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// ParseLevel maps a configured level name to a slog.Level. Unknown names
// log at info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// FromContext returns the default logger, tagged with the request id when
// ctx came through chi's RequestID middleware.
func FromContext(ctx context.Context) *slog.Logger {
	logger := slog.Default()
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		logger = logger.With(KeyRequestID, reqID)
	}
	return logger
}

// WithFields is FromContext plus extra key/value pairs.
func WithFields(ctx context.Context, args ...any) *slog.Logger {
	return FromContext(ctx).With(args...)
}

// ForView tags the request logger with a view and its dataset. dataset may
// be empty when the view is already gone.
//
//	logging.ForView(r.Context(), v.ID, v.Dataset.Key).Info("export complete", "bytes", n)
func ForView(ctx context.Context, viewID, dataset string) *slog.Logger {
	logger := WithFields(ctx, KeyViewID, viewID)
	if dataset != "" {
		logger = logger.With(KeyDataset, dataset)
	}
	return logger
}
