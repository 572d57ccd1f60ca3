// internal/logbook/logbook.go
//
// The logbook records console activity (fetch failures, cue playback
// problems, clear-table results) to a plain text file and keeps the
// most recent lines in memory so the TUI can show a live log panel
// without re-reading the file every frame.

package logbook

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Level represents the severity of a log entry.
type Level string

const (
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

const recentCapacity = 64

// Logbook appends timestamped lines to a log file and retains a small
// in-memory tail for display.
type Logbook struct {
	mu     sync.Mutex
	path   string
	file   *os.File
	recent []string
}

// New opens (or creates) the log file at path, creating parent
// directories as needed.
func New(path string) (*Logbook, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("logbook: ensure log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logbook: open log file: %w", err)
	}
	return &Logbook{path: path, file: f}, nil
}

// Path returns the file backing this logbook.
func (l *Logbook) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Close releases the file handle.
func (l *Logbook) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Append writes one entry at the given level.
func (l *Logbook) Append(level Level, format string, args ...any) {
	if l == nil {
		return
	}
	message := strings.TrimSpace(fmt.Sprintf(format, args...))
	line := fmt.Sprintf("%s %-5s %s", time.Now().UTC().Format(time.RFC3339), level, message)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		_, _ = fmt.Fprintln(l.file, line)
	}
	l.recent = append(l.recent, line)
	if len(l.recent) > recentCapacity {
		l.recent = l.recent[len(l.recent)-recentCapacity:]
	}
}

func (l *Logbook) Info(format string, args ...any)  { l.Append(LevelInfo, format, args...) }
func (l *Logbook) Warn(format string, args ...any)  { l.Append(LevelWarn, format, args...) }
func (l *Logbook) Error(format string, args ...any) { l.Append(LevelError, format, args...) }

// Tail returns up to maxLines of the most recent entries, oldest first.
func (l *Logbook) Tail(maxLines int) []string {
	if l == nil || maxLines <= 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.recent) <= maxLines {
		return append([]string(nil), l.recent...)
	}
	return append([]string(nil), l.recent[len(l.recent)-maxLines:]...)
}
