package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	tlog "go.temporal.io/sdk/log"
)

// New builds a logger from a level name and a format ("text" or "json").
func New(level, format string, out io.Writer) (*logrus.Logger, error) {
	if out == nil {
		out = os.Stderr
	}
	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(lvl)
	switch strings.ToLower(format) {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}
	return logger, nil
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type temporalLogWrapper struct {
	entry *logrus.Entry
}

// NewTemporalLogger adapts a logrus logger to the temporal SDK's key/value
// logger interface.
func NewTemporalLogger(logger logrus.FieldLogger) tlog.Logger {
	return &temporalLogWrapper{entry: logger.WithField("component", "temporal")}
}

// Temporal passes alternating keys and values; a trailing key without a
// value is logged under "extra".
func fields(keyvals []interface{}) logrus.Fields {
	f := make(logrus.Fields, len(keyvals)/2)
	for i := 0; i < len(keyvals); i += 2 {
		if i+1 == len(keyvals) {
			f["extra"] = keyvals[i]
			break
		}
		f[fmt.Sprint(keyvals[i])] = keyvals[i+1]
	}
	return f
}

func (l *temporalLogWrapper) Debug(msg string, keyvals ...interface{}) {
	l.entry.WithFields(fields(keyvals)).Debug(msg)
}

func (l *temporalLogWrapper) Info(msg string, keyvals ...interface{}) {
	l.entry.WithFields(fields(keyvals)).Info(msg)
}

func (l *temporalLogWrapper) Warn(msg string, keyvals ...interface{}) {
	l.entry.WithFields(fields(keyvals)).Warn(msg)
}

func (l *temporalLogWrapper) Error(msg string, keyvals ...interface{}) {
	l.entry.WithFields(fields(keyvals)).Error(msg)
}
