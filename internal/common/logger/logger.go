// Package logger provides leveled logging for the CLI with optional
// file output under XDG_STATE_HOME.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Level is a message severity. Messages below the configured level are
// dropped.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelQuiet // No output
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "QUIET"
	}
}

// Logger writes leveled messages to a console writer and, when enabled,
// to a timestamped log file.
type Logger struct {
	level      Level
	output     io.Writer
	fileOutput *os.File
	mu         sync.Mutex
}

var (
	defaultLogger *Logger
	once          sync.Once
)

// Default returns the process-wide logger, writing to stderr at Info.
func Default() *Logger {
	once.Do(func() {
		defaultLogger = &Logger{level: LevelInfo, output: os.Stderr}
	})
	return defaultLogger
}

// SetLevel sets the minimum severity that gets emitted.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	l.level = level
	l.mu.Unlock()
}

// SetVerbose lowers the level to Debug.
func (l *Logger) SetVerbose(verbose bool) {
	if verbose {
		l.SetLevel(LevelDebug)
	}
}

// SetQuiet raises the level so only errors are emitted.
func (l *Logger) SetQuiet(quiet bool) {
	if quiet {
		l.SetLevel(LevelError)
	}
}

// EnableFileLogging opens the log file and mirrors all messages to it.
func (l *Logger) EnableFileLogging() error {
	dir, err := LogDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(dir, "esm_versions.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	l.mu.Lock()
	l.fileOutput = f
	l.mu.Unlock()
	return nil
}

// Close releases the log file, if one was opened.
func (l *Logger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fileOutput != nil {
		l.fileOutput.Close()
		l.fileOutput = nil
	}
}

// LogDir returns where log files are kept: $XDG_STATE_HOME/esm_versions/logs,
// defaulting XDG_STATE_HOME to ~/.local/state.
func LogDir() (string, error) {
	state := os.Getenv("XDG_STATE_HOME")
	if state == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		state = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(state, "esm_versions", "logs"), nil
}

func (l *Logger) emit(level Level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	msg := fmt.Sprintf(format, args...)
	if l.output != nil {
		fmt.Fprintln(l.output, msg)
	}
	if l.fileOutput != nil {
		stamp := time.Now().Format("2006-01-02 15:04:05")
		fmt.Fprintf(l.fileOutput, "[%s] %s: %s\n", stamp, level, msg)
	}
}

func (l *Logger) Debug(format string, args ...any) { l.emit(LevelDebug, format, args...) }
func (l *Logger) Info(format string, args ...any)  { l.emit(LevelInfo, format, args...) }
func (l *Logger) Warn(format string, args ...any)  { l.emit(LevelWarn, format, args...) }
func (l *Logger) Error(format string, args ...any) { l.emit(LevelError, format, args...) }

// Package-level convenience functions on the default logger.
func Debug(format string, args ...any) { Default().Debug(format, args...) }
func Info(format string, args ...any)  { Default().Info(format, args...) }
func Warn(format string, args ...any)  { Default().Warn(format, args...) }
func Error(format string, args ...any) { Default().Error(format, args...) }
func SetVerbose(v bool)                { Default().SetVerbose(v) }
func SetQuiet(q bool)                  { Default().SetQuiet(q) }
