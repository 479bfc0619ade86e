package logging

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// StandardLogger provides a standardized logging interface around logrus,
// with context helpers for the curve domain and structured event helpers
// used across services.
type StandardLogger struct {
	logger *logrus.Logger
}

// NewStandardLogger creates a logger for the given level and environment.
// Development logs human-readable text; everything else logs JSON.
func NewStandardLogger(logLevel string, environment string) *StandardLogger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetLevel(ParseLogrusLevel(logLevel))

	if environment == "development" {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	}

	return &StandardLogger{logger: logger}
}

// Logger returns the underlying *logrus.Logger for constructor injection.
func (l *StandardLogger) Logger() *logrus.Logger {
	return l.logger
}

// WithComponent adds component name to the log context.
func (l *StandardLogger) WithComponent(componentName string) *logrus.Entry {
	return l.logger.WithField("component", componentName)
}

// WithOperation adds operation name to the log context.
func (l *StandardLogger) WithOperation(operationName string) *logrus.Entry {
	return l.logger.WithField("operation", operationName)
}

// WithCurve adds the curve definition ID to the log context.
func (l *StandardLogger) WithCurve(definitionID string) *logrus.Entry {
	return l.logger.WithField("definition_id", definitionID)
}

// WithInstance adds the curve instance ID to the log context.
func (l *StandardLogger) WithInstance(instanceID string) *logrus.Entry {
	return l.logger.WithField("instance_id", instanceID)
}

// WithError adds error details to the log context.
func (l *StandardLogger) WithError(err error) *logrus.Entry {
	return l.logger.WithError(err)
}

// LogStartup logs application startup information.
func (l *StandardLogger) LogStartup(serviceName string, version string, port int) {
	l.logger.WithFields(logrus.Fields{
		"service": serviceName,
		"version": version,
		"port":    port,
		"event":   "startup",
	}).Info("Service starting")
}

// LogShutdown logs application shutdown information.
func (l *StandardLogger) LogShutdown(serviceName string, reason string) {
	l.logger.WithFields(logrus.Fields{
		"service": serviceName,
		"reason":  reason,
		"event":   "shutdown",
	}).Info("Service shutting down")
}

// LogDatabaseOperation logs database operations in a standardized format.
func (l *StandardLogger) LogDatabaseOperation(operation string, table string, duration int64, rowsAffected int64) {
	l.logger.WithFields(logrus.Fields{
		"operation":     operation,
		"table":         table,
		"duration_ms":   duration,
		"rows_affected": rowsAffected,
		"event":         "database_operation",
	}).Info("Database operation")
}

// LogCacheOperation logs cache operations in a standardized format.
func (l *StandardLogger) LogCacheOperation(operation string, key string, hit bool, duration int64) {
	l.logger.WithFields(logrus.Fields{
		"operation":   operation,
		"key":         key,
		"hit":         hit,
		"duration_ms": duration,
		"event":       "cache_operation",
	}).Info("Cache operation")
}

// LogAPIRequest logs API requests in a standardized format.
func (l *StandardLogger) LogAPIRequest(method string, path string, statusCode int, duration int64) {
	l.logger.WithFields(logrus.Fields{
		"method":      method,
		"path":        path,
		"status_code": statusCode,
		"duration_ms": duration,
		"event":       "api_request",
	}).Info("API request")
}

// ParseLogrusLevel converts a string level to logrus.Level.
func ParseLogrusLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}
