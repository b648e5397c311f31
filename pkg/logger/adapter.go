package logger

import (
	"go.uber.org/zap"
)

// LoggerAdapter pairs the general logger with the optional categorised event logs.
// A nil MultiLogger turns the event methods into general-logger debug lines.
type LoggerAdapter struct {
	general     *zap.Logger
	multiLogger *MultiLogger
}

// NewLoggerAdapter creates a new logger adapter; multiLogger may be nil
func NewLoggerAdapter(general *zap.Logger, multiLogger *MultiLogger) *LoggerAdapter {
	if general == nil {
		general = zap.NewNop()
	}
	return &LoggerAdapter{
		general:     general,
		multiLogger: multiLogger,
	}
}

// NewNopAdapter returns an adapter that discards everything
func NewNopAdapter() *LoggerAdapter {
	return NewLoggerAdapter(zap.NewNop(), nil)
}

// General returns the general logger
func (la *LoggerAdapter) General() *zap.Logger {
	return la.general
}

// MultiLogger returns the underlying multi-logger, nil when event logs are off
func (la *LoggerAdapter) MultiLogger() *MultiLogger {
	return la.multiLogger
}

// LogQueueEvent records a job lifecycle event
func (la *LoggerAdapter) LogQueueEvent(event string, fields ...zap.Field) {
	if la.multiLogger != nil {
		la.multiLogger.LogQueueEvent(event, fields...)
		return
	}
	la.general.Debug(event, fields...)
}

// LogAppError logs to the general logger and the error category
func (la *LoggerAdapter) LogAppError(msg string, fields ...zap.Field) {
	la.general.Error(msg, fields...)
	if la.multiLogger != nil {
		la.multiLogger.LogAppError(msg, fields...)
	}
}

// Sync flushes all loggers
func (la *LoggerAdapter) Sync() error {
	err := la.general.Sync()
	if la.multiLogger != nil {
		if mErr := la.multiLogger.Sync(); mErr != nil {
			err = mErr
		}
	}
	return err
}
