// Package logger builds the zerolog logger shared by the application.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

const permission = 0o640

// Builder collects output and level settings before Make.
type Builder struct {
	writer io.Writer
	path   string
	level  string
}

// Log is a built logger plus the file it writes to, if any.
type Log struct {
	Logger zerolog.Logger
	file   *os.File
}

func New() *Builder {
	return &Builder{}
}

// FromPath appends to the file at path, creating parent directories.
func (b *Builder) FromPath(path string) *Builder {
	b.path = path
	return b
}

// FromWriter logs to w. Ignored when a path is set.
func (b *Builder) FromWriter(w io.Writer) *Builder {
	b.writer = w
	return b
}

// Level sets the minimum level by name ("debug", "info", ...).
func (b *Builder) Level(level string) *Builder {
	b.level = level
	return b
}

func (b *Builder) Make() (*Log, error) {
	lvl := zerolog.InfoLevel
	if b.level != "" {
		parsed, err := zerolog.ParseLevel(b.level)
		if err != nil {
			return nil, fmt.Errorf("log level %q: %w", b.level, err)
		}
		lvl = parsed
	}

	out := &Log{}
	w := b.writer
	if w == nil {
		w = os.Stderr
	}
	if b.path != "" {
		if err := os.MkdirAll(filepath.Dir(b.path), 0o755); err != nil {
			return nil, fmt.Errorf("mkdir log dir: %w", err)
		}
		f, err := os.OpenFile(b.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permission)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		out.file = f
		w = zerolog.SyncWriter(f)
	}
	out.Logger = zerolog.New(w).Level(lvl).With().Timestamp().Logger()
	return out, nil
}

// Close releases the log file when one was opened.
func (l *Log) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}
