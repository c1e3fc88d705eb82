// Package logger provides context-aware structured logging built on logrus.
// A logger entry can travel with a context; code that finds none falls back
// to the process-wide entry L.
package logger

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	// G is shorthand for GetLogger.
	G = GetLogger
	// L is the process-wide entry used when a context carries no logger.
	L = logrus.NewEntry(newLogger())
)

type loggerKey struct{}

// WithLogger returns a copy of ctx that carries entry.
func WithLogger(ctx context.Context, entry *logrus.Entry) context.Context {
	return context.WithValue(ctx, loggerKey{}, entry.WithContext(ctx))
}

// GetLogger returns the entry stored in ctx, or L bound to ctx.
func GetLogger(ctx context.Context) *logrus.Entry {
	if entry, ok := ctx.Value(loggerKey{}).(*logrus.Entry); ok {
		return entry
	}
	return L.WithContext(ctx)
}

// WithComponent returns a context whose logger is tagged with the component name.
func WithComponent(ctx context.Context, component string) context.Context {
	return WithLogger(ctx, G(ctx).WithField("component", component))
}

func newLogger() *logrus.Logger {
	l := logrus.New()
	setLoggerFormat(l, "fmt")
	return l
}

func setLoggerFormat(l *logrus.Logger, format string) {
	switch format {
	case "json":
		l.Formatter = &logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "logLevel",
				logrus.FieldKeyMsg:   "message",
			},
			TimestampFormat: time.RFC3339Nano,
		}
	default:
		l.Formatter = &logrus.TextFormatter{
			TimestampFormat: time.RFC3339Nano,
			FullTimestamp:   true,
		}
	}
}

// SetLogLevel sets the level of the global logger
func SetLogLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return errors.Wrapf(err, "invalid log level %q", level)
	}
	L.Logger.SetLevel(lvl)
	return nil
}

// SetLogFormat switches the global logger between "fmt" and "json" output
func SetLogFormat(format string) {
	setLoggerFormat(L.Logger, format)
}

// SetLogOutput redirects the global logger
func SetLogOutput(w io.Writer) {
	L.Logger.SetOutput(w)
}

// Configure applies level and format to the global logger in one call.
func Configure(level, format string) error {
	if err := SetLogLevel(level); err != nil {
		return err
	}
	SetLogFormat(format)
	return nil
}

// StdLogger adapts the context logger for libraries that want a *log.Logger.
// Lines are logged at error level. The caller must close the returned writer
// once the *log.Logger is no longer used.
func StdLogger(ctx context.Context) (*log.Logger, io.Closer) {
	w := G(ctx).WriterLevel(logrus.ErrorLevel)
	return log.New(w, "", 0), w
}
