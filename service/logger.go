package service

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger interface for flexible logging
type Logger interface {
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Debug(msg string, args ...interface{})
}

// DefaultLogger implements Logger interface using fmt
type DefaultLogger struct{}

func (l *DefaultLogger) Info(msg string, args ...interface{}) {
	fmt.Printf("ℹ [INFO] %s %v\n", msg, args)
}

func (l *DefaultLogger) Warn(msg string, args ...interface{}) {
	fmt.Printf("⚠ [WARN] %s %v\n", msg, args)
}

func (l *DefaultLogger) Error(msg string, args ...interface{}) {
	fmt.Printf("✗ [ERROR] %s %v\n", msg, args)
}

func (l *DefaultLogger) Debug(msg string, args ...interface{}) {
	fmt.Printf("🔍 [DEBUG] %s %v\n", msg, args)
}

// LogrusLogger adapts key/value logging calls onto a logrus logger.
type LogrusLogger struct {
	entry *logrus.Logger
}

// NewLogger returns a logrus-backed Logger writing to stderr.
// Debug messages are emitted only when verbose is set.
func NewLogger(verbose bool) Logger {
	return NewLoggerTo(os.Stderr, verbose)
}

// NewLoggerTo is NewLogger with an explicit destination.
func NewLoggerTo(w io.Writer, verbose bool) Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	l.SetLevel(logrus.InfoLevel)
	if verbose {
		l.SetLevel(logrus.DebugLevel)
	}
	return &LogrusLogger{entry: l}
}

func (l *LogrusLogger) Info(msg string, args ...interface{}) {
	l.entry.WithFields(toFields(args)).Info(msg)
}

func (l *LogrusLogger) Warn(msg string, args ...interface{}) {
	l.entry.WithFields(toFields(args)).Warn(msg)
}

func (l *LogrusLogger) Error(msg string, args ...interface{}) {
	l.entry.WithFields(toFields(args)).Error(msg)
}

func (l *LogrusLogger) Debug(msg string, args ...interface{}) {
	l.entry.WithFields(toFields(args)).Debug(msg)
}

// toFields pairs up alternating key/value arguments. A trailing key without
// a value is kept under "extra".
func toFields(args []interface{}) logrus.Fields {
	fields := logrus.Fields{}
	for i := 0; i < len(args); i += 2 {
		if i+1 >= len(args) {
			fields["extra"] = args[i]
			break
		}
		fields[fmt.Sprint(args[i])] = args[i+1]
	}
	return fields
}
