// Package logging wraps a process-wide logrus logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// DebugEnv switches debug logging on when set to any non-empty value.
const DebugEnv = "TASK_DEBUG"

var logger = newLogger(os.Stderr)

func newLogger(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	l.SetLevel(logrus.WarnLevel)
	if os.Getenv(DebugEnv) != "" {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}

// Configure sets level and format. verbose forces debug level regardless of level.
func Configure(level, format string, verbose bool) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	if verbose || os.Getenv(DebugEnv) != "" {
		lvl = logrus.DebugLevel
	}
	logger.SetLevel(lvl)

	switch strings.ToLower(format) {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "ts",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	default:
		logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}
	return nil
}

// SetOutput redirects log output.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

// DebugEnabled reports whether debug messages are emitted
func DebugEnabled() bool {
	return logger.IsLevelEnabled(logrus.DebugLevel)
}

// Debugf logs a formatted debug message
func Debugf(format string, args ...interface{}) {
	logger.Debugf(strings.TrimSuffix(format, "\n"), args...)
}

// WithOperation returns an entry tagged with the operation name.
func WithOperation(operation string) *logrus.Entry {
	return logger.WithField("operation", operation)
}

// Error logs err with the given structured fields.
func Error(err error, fields map[string]string) {
	entry := logrus.NewEntry(logger)
	for k, v := range fields {
		entry = entry.WithField(k, v)
	}
	entry.WithError(err).Error("operation failed")
}
