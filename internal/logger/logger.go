package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DefaultPath is where the run log lands when the caller has no preference,
// relative to the working directory.
const DefaultPath = "logs/run.txt"

// Logger records run-control events: resets, pause toggles, batch-size
// changes, step errors. Events are kept in memory and appended to the log
// file as they arrive. Safe for concurrent use; disk failures are swallowed
// so logging can never take the simulation down.
type Logger struct {
	path string

	mu    sync.Mutex
	lines []string
}

// New returns a logger writing to the given file, creating its parent
// directory. An empty path means DefaultPath.
func New(path string) *Logger {
	if path == "" {
		path = DefaultPath
	}
	if dir := filepath.Dir(path); dir != "." {
		_ = os.MkdirAll(dir, 0755)
	}
	return &Logger{path: path}
}

// Logf records one formatted event, stamped with the current time.
func (l *Logger) Logf(format string, args ...any) {
	stamped := time.Now().Format("[2006-01-02 15:04:05] ") + fmt.Sprintf(format, args...)

	l.mu.Lock()
	l.lines = append(l.lines, stamped)
	l.mu.Unlock()

	l.append(stamped)
}

// Lines returns a copy of all events recorded so far, oldest first.
func (l *Logger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

// Path returns the log file location.
func (l *Logger) Path() string { return l.path }

func (l *Logger) append(line string) {
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	_, _ = f.WriteString(line + "\n")
	_ = f.Close()
}
