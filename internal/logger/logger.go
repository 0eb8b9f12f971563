package logger

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// Logger wraps charm/log for structured logging
type Logger struct {
	*log.Logger
}

// New creates a new logger with the given output
func New(w io.Writer) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
	return &Logger{Logger: l}
}

// NewWithLevel creates a logger with a specific level
func NewWithLevel(w io.Writer, level log.Level) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	})
	return &Logger{Logger: l}
}

// NewFileLogger creates a logger that writes to a file
func NewFileLogger(path string) (*Logger, func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}

	l := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})

	cleanup := func() {
		f.Close()
	}

	return &Logger{Logger: l}, cleanup, nil
}

// NewMultiLogger creates a logger that writes to multiple outputs
func NewMultiLogger(writers ...io.Writer) *Logger {
	w := io.MultiWriter(writers...)
	return New(w)
}

// Discard returns a logger that discards all output
func Discard() *Logger {
	return New(io.Discard)
}

// SetLevelName sets the level from a config string, keeping the current level
// when the name is not recognized
func (l *Logger) SetLevelName(name string) {
	if level, err := log.ParseLevel(name); err == nil {
		l.SetLevel(level)
	}
}

// BuildStarted logs the start of a site build
func (l *Logger) BuildStarted(buildID, contentDir, publicDir string) {
	l.Info("build started",
		"build_id", buildID,
		"content_dir", contentDir,
		"public_dir", publicDir)
}

// BuildCompleted logs the completion of a site build
func (l *Logger) BuildCompleted(buildID string, pages, skipped, errors int, duration time.Duration) {
	l.Info("build completed",
		"build_id", buildID,
		"pages", pages,
		"skipped", skipped,
		"errors", errors,
		"duration", duration.Round(time.Millisecond))
}

// StaticCopied logs the static tree copy
func (l *Logger) StaticCopied(src, dst string, files int) {
	l.Info("static copied",
		"source", src,
		"dest", dst,
		"files", files)
}

// PageGenerated logs a successfully written page
func (l *Logger) PageGenerated(source, dest string) {
	l.Info("page generated",
		"source", source,
		"dest", dest)
}

// PageError logs a page that failed to render
func (l *Logger) PageError(source string, err error) {
	l.Error("page failed",
		"source", source,
		"error", err)
}

// StateError logs a state-related error
func (l *Logger) StateError(operation string, err error) {
	l.Error("state error",
		"operation", operation,
		"error", err)
}

// ConfigLoaded logs successful config loading
func (l *Logger) ConfigLoaded(path, contentDir, publicDir, basePath string) {
	l.Debug("config loaded",
		"path", path,
		"content_dir", contentDir,
		"public_dir", publicDir,
		"base_path", basePath)
}

// PageSkipped logs when a page is skipped
func (l *Logger) PageSkipped(source, reason string) {
	l.Debug("page skipped",
		"source", source,
		"reason", reason)
}
