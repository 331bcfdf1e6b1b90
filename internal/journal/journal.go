// Package journal records caught-and-continued errors with enough detail
// to diagnose a run after the fact, independent of the console log.
package journal

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"
	"time"
)

// Journal appends structured exception entries to a per-run log file.
// It is constructed once per run and passed to the components that need it.
type Journal struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
}

// New creates a journal writing to dir/exceptions_<timestamp>.log.
// The directory is created if needed.
func New(dir string, logger *slog.Logger) (*Journal, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	name := fmt.Sprintf("exceptions_%s.log", time.Now().Format("20060102_150405"))
	return &Journal{
		path:   filepath.Join(dir, name),
		logger: logger,
	}, nil
}

// Path returns the journal file path. The file is created lazily on the
// first Record call.
func (j *Journal) Path() string {
	return j.path
}

// SetLogger replaces the logger used to echo entries to the console.
// Callers that construct the journal before their logger exists swap
// the real one in here.
func (j *Journal) SetLogger(logger *slog.Logger) {
	if logger == nil {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.logger = logger
}

// Record logs the error at the console level and appends a detailed entry
// (timestamp, message, error type, error text, stack trace) to the journal
// file. A journal write failure is itself logged, never propagated.
func (j *Journal) Record(message string, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.logger.Error(message, "error", err)

	f, openErr := os.OpenFile(j.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if openErr != nil {
		j.logger.Error("failed to open exception journal", "path", j.path, "error", openErr)
		return
	}
	defer f.Close()

	sep := strings.Repeat("=", 80)
	entry := fmt.Sprintf("\n%s\nTimestamp: %s\nMessage: %s\nError Type: %T\nError: %v\n\nStack:\n%s\n%s\n",
		sep,
		time.Now().Format(time.RFC3339),
		message,
		err,
		err,
		debug.Stack(),
		sep,
	)
	if _, writeErr := f.WriteString(entry); writeErr != nil {
		j.logger.Error("failed to write to exception journal", "path", j.path, "error", writeErr)
	}
}
