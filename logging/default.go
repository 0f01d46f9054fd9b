package logging

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
)

// DefaultLogger implements Logger on top of logrus, writing to stderr so
// analysis output on stdout stays machine-readable.
type DefaultLogger struct {
	entry *logrus.Entry
}

// NewDefaultLogger creates a logrus-backed logger with text formatting
func NewDefaultLogger() *DefaultLogger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	return &DefaultLogger{entry: logrus.NewEntry(l)}
}

// NewJSONLogger creates a logrus-backed logger with JSON formatting,
// suitable for machine-parsed pipeline output
func NewJSONLogger() *DefaultLogger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.JSONFormatter{})
	return &DefaultLogger{entry: logrus.NewEntry(l)}
}

func (d *DefaultLogger) withFields(fields []Fields) *logrus.Entry {
	entry := d.entry
	for _, f := range fields {
		entry = entry.WithFields(logrus.Fields(f))
	}
	return entry
}

func (d *DefaultLogger) Debug(msg string, fields ...Fields) {
	d.withFields(fields).Debug(msg)
}

func (d *DefaultLogger) Info(msg string, fields ...Fields) {
	d.withFields(fields).Info(msg)
}

func (d *DefaultLogger) Warn(msg string, fields ...Fields) {
	d.withFields(fields).Warn(msg)
}

func (d *DefaultLogger) Error(err error, msg string, fields ...Fields) {
	entry := d.withFields(fields)
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Error(msg)
}

func (d *DefaultLogger) Fatal(err error, msg string, fields ...Fields) {
	entry := d.withFields(fields)
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Fatal(msg)
}

// WithFields returns a logger with preset fields
func (d *DefaultLogger) WithFields(fields Fields) Logger {
	return &DefaultLogger{entry: d.entry.WithFields(logrus.Fields(fields))}
}

// WithContext returns a logger bound to the given context
func (d *DefaultLogger) WithContext(ctx context.Context) Logger {
	return &DefaultLogger{entry: d.entry.WithContext(ctx)}
}

// SetLevel sets the minimum log level
func (d *DefaultLogger) SetLevel(level Level) {
	switch level {
	case DebugLevel:
		d.entry.Logger.SetLevel(logrus.DebugLevel)
	case InfoLevel:
		d.entry.Logger.SetLevel(logrus.InfoLevel)
	case WarnLevel:
		d.entry.Logger.SetLevel(logrus.WarnLevel)
	case ErrorLevel:
		d.entry.Logger.SetLevel(logrus.ErrorLevel)
	case FatalLevel:
		d.entry.Logger.SetLevel(logrus.FatalLevel)
	}
}
