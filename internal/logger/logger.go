// Package logger provides context-aware structured logging using logrus, and
// an adapter that satisfies the Logger interfaces of the internal packages.
package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	// G is a convenience alias for GetLogger.
	G = GetLogger
	// L is the global logger entry used when no logger is found in context.
	L = logrus.NewEntry(newLogger())
)

type (
	loggerKey struct{}
)

// WithLogger attaches a logger entry to the given context.
func WithLogger(ctx context.Context, logger *logrus.Entry) context.Context {
	e := logger.WithContext(ctx)
	return context.WithValue(ctx, loggerKey{}, e)
}

// GetLogger retrieves the logger entry from the context, falling back to L.
func GetLogger(ctx context.Context) *logrus.Entry {
	logger := ctx.Value(loggerKey{})

	if logger == nil {
		return L.WithContext(ctx)
	}

	return logger.(*logrus.Entry)
}

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.WarnLevel)
	l.Formatter = &logrus.TextFormatter{
		TimestampFormat: time.RFC3339Nano,
		FullTimestamp:   true,
	}
	return l
}

// SetLogLevel sets the log level for the global logger
func SetLogLevel(level string) error {
	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	L.Logger.SetLevel(logLevel)
	return nil
}

// SetLogOutput sets the output destination for the global logger
func SetLogOutput(w io.Writer) {
	L.Logger.SetOutput(w)
}

// Adapter turns key/value pairs into logrus fields. It satisfies add.Logger
// and resty.Logger.
type Adapter struct {
	entry *logrus.Entry
}

// NewAdapter wraps entry. A nil entry uses L.
func NewAdapter(entry *logrus.Entry) *Adapter {
	if entry == nil {
		entry = L
	}
	return &Adapter{entry: entry}
}

func (a *Adapter) Debug(msg string, fields ...interface{}) {
	a.entry.WithFields(toFields(fields)).Debug(msg)
}

func (a *Adapter) Info(msg string, fields ...interface{}) {
	a.entry.WithFields(toFields(fields)).Info(msg)
}

func (a *Adapter) Warn(msg string, fields ...interface{}) {
	a.entry.WithFields(toFields(fields)).Warn(msg)
}

func (a *Adapter) Error(msg string, err error, fields ...interface{}) {
	a.entry.WithFields(toFields(fields)).WithError(err).Error(msg)
}

func (a *Adapter) Errorf(format string, v ...interface{}) {
	a.entry.Errorf(format, v...)
}

func (a *Adapter) Warnf(format string, v ...interface{}) {
	a.entry.Warnf(format, v...)
}

func (a *Adapter) Debugf(format string, v ...interface{}) {
	a.entry.Debugf(format, v...)
}

func toFields(kv []interface{}) logrus.Fields {
	fields := make(logrus.Fields, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		key := fmt.Sprint(kv[i])
		if i+1 >= len(kv) {
			fields[key] = "(missing)"
			break
		}
		fields[key] = kv[i+1]
	}
	return fields
}
