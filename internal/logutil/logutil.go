// Package logutil builds the slog loggers used by the host binaries.
package logutil

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
)

// Discard is a Logger that ignores all records.
var Discard = slog.New(slog.DiscardHandler)

// LineSink receives complete log lines without the trailing newline.
type LineSink interface {
	WriteLineBytes(b []byte)
}

type lineWriter struct {
	mu   sync.Mutex
	sink LineSink
	buf  []byte
}

// NewLineWriter returns a writer that forwards every complete line written
// to it to sink. A trailing partial line is kept until its newline arrives.
func NewLineWriter(sink LineSink) io.Writer {
	return &lineWriter{sink: sink}
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.sink.WriteLineBytes(w.buf[:i])
		w.buf = w.buf[i+1:]
	}
	if len(w.buf) == 0 {
		w.buf = nil
	}
	return len(p), nil
}

// IsTerminal reports whether f refers to a terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// New returns a logger writing to w: human-readable text when text is set,
// JSON lines otherwise.
func New(w io.Writer, level slog.Level, text bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if text {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// ForSink returns a logger writing through sink, choosing text output when
// stderr is a terminal.
func ForSink(sink LineSink, level slog.Level) *slog.Logger {
	return New(NewLineWriter(sink), level, IsTerminal(os.Stderr))
}

// ParseLevel parses debug, info, warn or error, case-insensitively. An
// empty string means info.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if strings.TrimSpace(s) == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, err
	}
	return l, nil
}
