package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
)

// Logger wraps slog.Logger with build-specific helpers so stage events use
// consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger writing to w (stderr when nil) in the given
// format, "json" or anything else for text.
func NewLogger(level slog.Level, format string, w io.Writer) *Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return &Logger{Logger: slog.New(handler)}
}

// NoopLogger creates a Logger that discards all output.
func NoopLogger() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000),
	}))}
}

// WithFile adds the input file to every record.
func (l *Logger) WithFile(path string) *Logger {
	return &Logger{Logger: l.Logger.With("file", path)}
}

// LogLoad logs the outcome of reading the input file.
func (l *Logger) LogLoad(ctx context.Context, size int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed", "error", err)
		return
	}
	l.InfoContext(ctx, "input loaded", "bytes", size, "size", humanize.Bytes(uint64(size)))
}

// LogSplit logs line splitting and dimensionality detection.
func (l *Logger) LogSplit(ctx context.Context, lines, dimensions int) {
	l.InfoContext(ctx, "lines split",
		"lines", humanize.Comma(int64(lines)),
		"dimensions", dimensions,
	)
}

// LogParse logs vector parsing.
func (l *Logger) LogParse(ctx context.Context, vectors int, floats uint64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "parse failed", "error", err)
		return
	}
	l.DebugContext(ctx, "vectors parsed",
		"vectors", vectors,
		"arena", humanize.Bytes(floats*4),
	)
}

// LogInsert logs tree construction.
func (l *Logger) LogInsert(ctx context.Context, order, vectors, depth int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "insert failed", "order", order, "error", err)
		return
	}
	l.InfoContext(ctx, "tree built",
		"order", order,
		"vectors", vectors,
		"depth", depth,
	)
}

// LogWrite logs the serialized tree output.
func (l *Logger) LogWrite(ctx context.Context, path string, written int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "write failed", "out", path, "error", err)
		return
	}
	l.InfoContext(ctx, "tree saved", "out", path, "size", humanize.Bytes(uint64(written)))
}
