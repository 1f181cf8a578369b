package logger

import (
	"sync"

	"go.uber.org/zap"
)

// Log levels accepted in the log_level setting.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

var (
	globalLogger *Logger
	globalLevel  = zap.NewAtomicLevel()
	once         sync.Once
)

// Get returns the process-wide logger. The first call fixes the initial
// level; later calls return the same instance. Use SetLevel to change it.
func Get(level string) *Logger {
	once.Do(func() {
		globalLevel.SetLevel(toZapLevel(level))
		globalLogger = newZapLogger(globalLevel)
	})
	return globalLogger
}

// SetLevel changes the level of the logger returned by Get. Called on
// config reload.
func SetLevel(level string) {
	globalLevel.SetLevel(toZapLevel(level))
}
