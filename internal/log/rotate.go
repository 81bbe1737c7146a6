package log

import (
	"io"
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures New.
type Options struct {
	// Verbose sets the level to Debug instead of Warn.
	Verbose bool

	// JSON selects the JSON handler instead of the text handler.
	JSON bool

	// File, when set, receives a copy of every log line and is rotated
	// once it grows past MaxSizeMB.
	File string

	// MaxSizeMB is the rotation size in megabytes.
	MaxSizeMB int

	// MaxBackups is the number of rotated files kept.
	MaxBackups int
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New creates a secure logger writing to w and, when opts.File is set, to a
// rotating log file. The returned io.Closer closes the log file and must be
// called before exit.
func New(w io.Writer, opts Options) (*slog.Logger, io.Closer) {
	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
		}
		w = io.MultiWriter(w, rotator)
		closer = rotator
	}

	if opts.JSON {
		return NewSecureJSONLogger(w, opts.Verbose), closer
	}
	return NewSecureLogger(w, opts.Verbose), closer
}
