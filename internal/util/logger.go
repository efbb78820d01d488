package util

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
)

// LogLevel represents the logging level
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// LogFormat represents the output format
type LogFormat string

const (
	FormatText LogFormat = "text"
	FormatJSON LogFormat = "json"
)

// LogEntry represents a single log entry
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
}

// Output represents a log output destination
type Output interface {
	Write(entry LogEntry) error
	Close() error
}

// Logger provides leveled logging to one or more outputs
type Logger struct {
	level   LogLevel
	outputs []Output
	mu      sync.RWMutex
}

// NewLogger creates a new logger with optional console output for debug mode
func NewLogger(levelStr string, logFile string, debugToConsole bool) *Logger {
	logger := &Logger{
		level: parseLogLevel(levelStr),
	}

	if debugToConsole {
		logger.outputs = append(logger.outputs, newWriterOutput(os.Stderr, FormatText, nil))
	}

	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			log.Printf("Failed to open log file %s: %v", logFile, err)
		} else {
			logger.outputs = append(logger.outputs, newWriterOutput(file, FormatText, file))
		}
	}

	return logger
}

func parseLogLevel(levelStr string) LogLevel {
	switch strings.ToLower(levelStr) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func levelToString(level LogLevel) string {
	switch level {
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

func (l *Logger) log(level LogLevel, msg string) {
	if l.level > level {
		return
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     levelToString(level),
		Message:   msg,
	}

	for _, output := range l.outputs {
		if err := output.Write(entry); err != nil {
			log.Printf("Failed to write log entry: %v", err)
		}
	}
}

// Debug logs a debug message
func (l *Logger) Debug(msg string) { l.log(LevelDebug, msg) }

// Debugf logs a formatted debug message
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.log(LevelDebug, fmt.Sprintf(format, args...))
}

// Info logs an info message
func (l *Logger) Info(msg string) { l.log(LevelInfo, msg) }

// Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.log(LevelInfo, fmt.Sprintf(format, args...))
}

// Warn logs a warning message
func (l *Logger) Warn(msg string) { l.log(LevelWarn, msg) }

// Warnf logs a formatted warning message
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.log(LevelWarn, fmt.Sprintf(format, args...))
}

// Error logs an error message
func (l *Logger) Error(msg string) { l.log(LevelError, msg) }

// Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.log(LevelError, fmt.Sprintf(format, args...))
}

// Close closes all outputs
func (l *Logger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, output := range l.outputs {
		_ = output.Close()
	}
}

// writerOutput writes log entries to an io.Writer
type writerOutput struct {
	writer io.Writer
	format LogFormat
	closer io.Closer
	mu     sync.Mutex
}

func newWriterOutput(w io.Writer, format LogFormat, closer io.Closer) Output {
	return &writerOutput{writer: w, format: format, closer: closer}
}

// Write writes a log entry
func (o *writerOutput) Write(entry LogEntry) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	var output string
	if o.format == FormatJSON {
		data, err := sonic.Marshal(entry)
		if err != nil {
			return err
		}
		output = string(data)
	} else {
		timestamp := entry.Timestamp.Format("2006/01/02 15:04:05")
		output = fmt.Sprintf("%s [%s] %s", timestamp, entry.Level, entry.Message)
	}

	_, err := fmt.Fprintln(o.writer, output)
	return err
}

// Close closes the underlying writer when it is closeable
func (o *writerOutput) Close() error {
	if o.closer != nil {
		return o.closer.Close()
	}
	return nil
}

var (
	globalLogger *Logger
	loggerOnce   sync.Once
)

// InitLogger initializes the global logger instance with debug mode support
func InitLogger(logLevel, logFile string, debugToConsole bool) {
	loggerOnce.Do(func() {
		globalLogger = NewLogger(logLevel, logFile, debugToConsole)
	})
}

// LogInfo convenience functions for logging
func LogInfo(msg string) {
	if globalLogger != nil {
		globalLogger.Info(msg)
	}
}

func LogInfof(format string, args ...interface{}) {
	if globalLogger != nil {
		globalLogger.Infof(format, args...)
	}
}

func LogDebug(msg string) {
	if globalLogger != nil {
		globalLogger.Debug(msg)
	}
}

func LogDebugf(format string, args ...interface{}) {
	if globalLogger != nil {
		globalLogger.Debugf(format, args...)
	}
}

func LogWarn(msg string) {
	if globalLogger != nil {
		globalLogger.Warn(msg)
	}
}

func LogWarnf(format string, args ...interface{}) {
	if globalLogger != nil {
		globalLogger.Warnf(format, args...)
	}
}

func LogError(msg string) {
	if globalLogger != nil {
		globalLogger.Error(msg)
	}
}

func LogErrorf(format string, args ...interface{}) {
	if globalLogger != nil {
		globalLogger.Errorf(format, args...)
	}
}
