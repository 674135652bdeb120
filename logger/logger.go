// Package logger is the logging interface shared by the alarm clock daemon
// and its command line front end.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is implemented by every log backend.
type Logger interface {
	Info(format string, args ...any)
	Warning(format string, args ...any)
	Error(format string, args ...any)

	// Close releases the backend. It is safe to call more than once.
	Close() error
}

// StandardLogger writes level-prefixed lines through a *log.Logger.
type StandardLogger struct {
	logger *log.Logger
	closer io.Closer
}

func NewStandardLogger(l *log.Logger) *StandardLogger {
	return &StandardLogger{logger: l}
}

// NewConsoleLogger logs to stderr.
func NewConsoleLogger() *StandardLogger {
	return NewStandardLogger(log.New(os.Stderr, "", log.LstdFlags))
}

// FileConfig controls the rotating log file.
type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// NewFileLogger logs to a file that is rotated once it grows past
// MaxSizeMB.
func NewFileLogger(cfg FileConfig) *StandardLogger {
	w := &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	return &StandardLogger{
		logger: log.New(w, "", log.LstdFlags),
		closer: w,
	}
}

func (s *StandardLogger) Info(format string, args ...any) {
	s.logger.Printf("[INFO] "+format, args...)
}

func (s *StandardLogger) Warning(format string, args ...any) {
	s.logger.Printf("[WARNING] "+format, args...)
}

func (s *StandardLogger) Error(format string, args ...any) {
	s.logger.Printf("[ERROR] "+format, args...)
}

func (s *StandardLogger) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// NopLogger discards everything.
type NopLogger struct{}

func NewNopLogger() *NopLogger { return &NopLogger{} }

func (NopLogger) Info(format string, args ...any)    {}
func (NopLogger) Warning(format string, args ...any) {}
func (NopLogger) Error(format string, args ...any)   {}
func (NopLogger) Close() error                       { return nil }

// MockLogger records formatted messages by level, for tests.
type MockLogger struct {
	InfoCalls    []string
	WarningCalls []string
	ErrorCalls   []string
	CloseCalled  bool
}

func NewMockLogger() *MockLogger { return &MockLogger{} }

func (m *MockLogger) Info(format string, args ...any) {
	m.InfoCalls = append(m.InfoCalls, fmt.Sprintf(format, args...))
}

func (m *MockLogger) Warning(format string, args ...any) {
	m.WarningCalls = append(m.WarningCalls, fmt.Sprintf(format, args...))
}

func (m *MockLogger) Error(format string, args ...any) {
	m.ErrorCalls = append(m.ErrorCalls, fmt.Sprintf(format, args...))
}

func (m *MockLogger) Close() error {
	m.CloseCalled = true
	return nil
}

var (
	_ Logger = (*StandardLogger)(nil)
	_ Logger = (*NopLogger)(nil)
	_ Logger = (*MockLogger)(nil)
)
