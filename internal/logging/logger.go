package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Level represents log severity, mapped onto slog's level scale.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
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
		return "UNKNOWN"
	}
}

func (l Level) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Logger wraps a *slog.Logger writing to a file named for the day
// Initialize ran (the file is not rotated afterwards), keeping
// the package-level Debug/Info/Warn/Error call shape this codebase uses
// everywhere else.
type Logger struct {
	mu       sync.Mutex
	file     io.Closer
	slog     *slog.Logger
	level    *slog.LevelVar
	enabled  bool
	filePath string
}

var defaultLogger *Logger

// Initialize sets up the default logger, writing leveled text records to
// a file named vterm-YYYY-MM-DD.log under logDir.
func Initialize(logDir string, level Level) error {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return err
	}

	logPath := filepath.Join(logDir, fmt.Sprintf("vterm-%s.log", time.Now().Format("2006-01-02")))
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	lv := &slog.LevelVar{}
	lv.Set(level.slogLevel())

	handler := slog.NewTextHandler(file, &slog.HandlerOptions{Level: lv})
	defaultLogger = &Logger{
		file:     file,
		slog:     slog.New(handler),
		level:    lv,
		enabled:  true,
		filePath: logPath,
	}

	return nil
}

// SetEnabled enables or disables logging.
func SetEnabled(enabled bool) {
	if defaultLogger != nil {
		defaultLogger.mu.Lock()
		defaultLogger.enabled = enabled
		defaultLogger.mu.Unlock()
	}
}

func log(level Level, format string, args ...interface{}) {
	if defaultLogger == nil {
		return
	}
	defaultLogger.mu.Lock()
	enabled := defaultLogger.enabled
	l := defaultLogger.slog
	defaultLogger.mu.Unlock()
	if !enabled {
		return
	}
	l.Log(context.Background(), level.slogLevel(), fmt.Sprintf(format, args...))
}

// Debug logs a debug message.
func Debug(format string, args ...interface{}) {
	log(LevelDebug, format, args...)
}

// Info logs an info message.
func Info(format string, args ...interface{}) {
	log(LevelInfo, format, args...)
}

// Warn logs a warning message.
func Warn(format string, args ...interface{}) {
	log(LevelWarn, format, args...)
}

// Error logs an error message.
func Error(format string, args ...interface{}) {
	log(LevelError, format, args...)
}

// WithError logs an error with context.
func WithError(err error, context string) {
	if err != nil {
		log(LevelError, "%s: %v", context, err)
	}
}

// Close closes the log file.
func Close() error {
	if defaultLogger != nil && defaultLogger.file != nil {
		return defaultLogger.file.Close()
	}
	return nil
}

// GetLogPath returns the current log file path.
func GetLogPath() string {
	if defaultLogger != nil {
		return defaultLogger.filePath
	}
	return ""
}
