package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

const timestampFormat = "2006-01-02 15:04:05"

type Logger interface {
	Debug(args ...interface{})
	Debugf(format string, args ...interface{})
	Info(args ...interface{})
	Infof(format string, args ...interface{})
	Warn(args ...interface{})
	Warnf(format string, args ...interface{})
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
	WithField(key string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
}

// entryLogger gets the leveled methods from the embedded entry and only
// rewraps the field helpers so chaining stays behind the interface.
type entryLogger struct {
	*logrus.Entry
}

func (l entryLogger) WithField(key string, value interface{}) Logger {
	return entryLogger{l.Entry.WithField(key, value)}
}

func (l entryLogger) WithFields(fields map[string]interface{}) Logger {
	return entryLogger{l.Entry.WithFields(fields)}
}

// New writes to stdout: JSON lines in production, colored text elsewhere.
func New(level, env string) Logger {
	var formatter logrus.Formatter = &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: timestampFormat,
		ForceColors:     true,
	}
	if env == "production" {
		formatter = &logrus.JSONFormatter{TimestampFormat: timestampFormat}
	}
	return build(level, formatter, os.Stdout)
}

// NewWithWriter always emits JSON so callers can assert on the fields.
func NewWithWriter(level string, w io.Writer) Logger {
	return build(level, &logrus.JSONFormatter{TimestampFormat: timestampFormat}, w)
}

// Discard drops everything. Components built without a logger fall back to it.
func Discard() Logger {
	return build("panic", &logrus.JSONFormatter{}, io.Discard)
}

// Component tags entries with the component name. A nil base yields Discard.
func Component(base Logger, name string) Logger {
	if base == nil {
		base = Discard()
	}
	return base.WithField("component", name)
}

// StringToLevel is case and whitespace tolerant; unknown names mean info.
func StringToLevel(level string) logrus.Level {
	lvl, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

func build(level string, formatter logrus.Formatter, out io.Writer) Logger {
	base := &logrus.Logger{
		Out:       out,
		Formatter: formatter,
		Hooks:     make(logrus.LevelHooks),
		Level:     StringToLevel(level),
		ExitFunc:  os.Exit,
	}
	return entryLogger{logrus.NewEntry(base)}
}
