package logger

// MultiLogger sends every message to each of its backends in order.
type MultiLogger struct {
	loggers []Logger
}

func NewMultiLogger(loggers ...Logger) *MultiLogger {
	return &MultiLogger{loggers: loggers}
}

func (m *MultiLogger) Info(format string, args ...any) {
	for _, l := range m.loggers {
		l.Info(format, args...)
	}
}

func (m *MultiLogger) Warning(format string, args ...any) {
	for _, l := range m.loggers {
		l.Warning(format, args...)
	}
}

func (m *MultiLogger) Error(format string, args ...any) {
	for _, l := range m.loggers {
		l.Error(format, args...)
	}
}

// Close closes every backend and returns the first error.
func (m *MultiLogger) Close() error {
	var first error
	for _, l := range m.loggers {
		if err := l.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

var _ Logger = (*MultiLogger)(nil)
