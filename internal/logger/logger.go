// Package logger writes sheetchat's debug log. The TUI owns the terminal,
// so everything goes to a file instead of stdout.
package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// DefaultLogPath is where the TUI logs unless Init is given another path.
const DefaultLogPath = "/tmp/sheetchat-debug.log"

// DemoLogPath returns the log path used while replaying a demo scenario.
func DemoLogPath(scenario string) string {
	return fmt.Sprintf("/tmp/sheetchat-demo-%s.log", scenario)
}

var (
	mu        sync.Mutex
	base      *slog.Logger
	levelVar  = new(slog.LevelVar)
	level     = LevelInfo
	file      *os.File
	path      string
	opened    bool
	openFails bool
)

// open must be called with mu held.
func open(p string) error {
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", p, err)
	}
	file = f
	path = p
	levelVar.Set(level.slogLevel())
	base = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: levelVar}))
	opened = true
	base.Info("logger initialized", "path", p)
	return nil
}

// ensureOpen lazily opens DefaultLogPath. Must be called with mu held.
// A failure is reported once on stderr and logging becomes a no-op.
func ensureOpen() {
	if opened || openFails {
		return
	}
	if err := open(DefaultLogPath); err != nil {
		openFails = true
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
}

// Init points the logger at path. It is a no-op if the logger is already open.
func Init(p string) error {
	mu.Lock()
	defer mu.Unlock()
	if opened {
		return nil
	}
	return open(p)
}

// SetLevel sets the minimum log level to output
func SetLevel(l LogLevel) {
	mu.Lock()
	defer mu.Unlock()
	level = l
	levelVar.Set(l.slogLevel())
}

// SetDebug toggles between debug and info level.
func SetDebug(enabled bool) {
	if enabled {
		SetLevel(LevelDebug)
		return
	}
	SetLevel(LevelInfo)
}

// Path returns the file currently being written, or "" before the first write.
func Path() string {
	mu.Lock()
	defer mu.Unlock()
	return path
}

func logf(lvl slog.Level, format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()

	ensureOpen()
	if base == nil || !base.Enabled(context.Background(), lvl) {
		return
	}
	base.Log(context.Background(), lvl, fmt.Sprintf(format, args...))
}

// Debug writes a debug message (only when debug level is enabled).
func Debug(format string, args ...interface{}) { logf(slog.LevelDebug, format, args...) }

// Info writes an info message.
func Info(format string, args ...interface{}) { logf(slog.LevelInfo, format, args...) }

// Warn writes a warning message.
func Warn(format string, args ...interface{}) { logf(slog.LevelWarn, format, args...) }

// Error writes an error message.
func Error(format string, args ...interface{}) { logf(slog.LevelError, format, args...) }

// Close closes the log file. Later writes are dropped until Reset.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if file != nil {
		file.Close()
		file = nil
	}
	base = nil
}

// Reset returns the logger to its pristine state so tests can re-Init it.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	if file != nil {
		file.Close()
		file = nil
	}
	base = nil
	path = ""
	opened = false
	openFails = false
	level = LevelInfo
	levelVar = new(slog.LevelVar)
}

// ClearLogs removes the debug log and any demo logs from /tmp.
// It returns how many files were deleted.
func ClearLogs() (int, error) {
	demoLogs, err := filepath.Glob("/tmp/sheetchat-demo-*.log")
	if err != nil {
		return 0, err
	}

	count := 0
	for _, p := range append([]string{DefaultLogPath}, demoLogs...) {
		if err := os.Remove(p); err == nil {
			count++
		} else if !os.IsNotExist(err) {
			return count, err
		}
	}
	return count, nil
}

func with(attr slog.Attr) *slog.Logger {
	mu.Lock()
	defer mu.Unlock()

	ensureOpen()
	if base == nil {
		return slog.Default()
	}
	return base.With(attr)
}

// WithComponent returns a structured logger tagged with a component name.
//
//	log := logger.WithComponent("provider")
//	log.Info("reply received", "provider", p.Name(), "elapsed", d)
func WithComponent(component string) *slog.Logger {
	return with(slog.String("component", component))
}

// WithSession returns a structured logger tagged with a chat session ID.
func WithSession(sessionID string) *slog.Logger {
	return with(slog.String("sessionID", sessionID))
}
