package logger

import (
	"sync"

	"github.com/ecompay/checkout/infra/opensearch"
)

var (
	globalLogger *SystemLogger
	loggerMutex  sync.RWMutex
)

// InitGlobalLogger initializes the global system logger
func InitGlobalLogger(openSearchLogger *opensearch.Logger, config SystemLoggerConfig) {
	loggerMutex.Lock()
	defer loggerMutex.Unlock()
	globalLogger = NewSystemLogger(openSearchLogger, config)
}

// GetLogger returns the global logger, creating a console fallback if needed
func GetLogger() *SystemLogger {
	loggerMutex.RLock()
	if globalLogger != nil {
		defer loggerMutex.RUnlock()
		return globalLogger
	}
	loggerMutex.RUnlock()

	loggerMutex.Lock()
	defer loggerMutex.Unlock()
	if globalLogger == nil {
		globalLogger = NewSystemLogger(nil, SystemLoggerConfig{
			EnableConsole: true,
			MinLevel:      LevelInfo,
			Service:       "checkout-strategies",
			Version:       "1.0.0",
			Environment:   "development",
		})
	}
	return globalLogger
}

// Debug logs a debug message using the global logger
func Debug(message string, ctx ...LogContext) {
	GetLogger().Debug(message, ctx...)
}

// Info logs an info message using the global logger
func Info(message string, ctx ...LogContext) {
	GetLogger().Info(message, ctx...)
}

// Warn logs a warning message using the global logger
func Warn(message string, ctx ...LogContext) {
	GetLogger().Warn(message, ctx...)
}

// Error logs an error message using the global logger
func Error(message string, err error, ctx ...LogContext) {
	GetLogger().Error(message, err, ctx...)
}
