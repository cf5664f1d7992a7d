// Package log is the logging front end shared by the fdio packages.
//
// It keeps the small Debugf/Infof/Warningf surface used throughout the code
// and forwards to a logrus logger. Library packages only emit debug messages;
// the fdctl binary decides the level, format and destination.
package log

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// Level is the log level.
type Level uint32

// Levels, from least to most verbose.
const (
	Warning Level = iota
	Info
	Debug
)

// String implements fmt.Stringer.
func (l Level) String() string {
	switch l {
	case Warning:
		return "warning"
	case Info:
		return "info"
	case Debug:
		return "debug"
	default:
		return fmt.Sprintf("Level(%d)", uint32(l))
	}
}

// ParseLevel parses "warning", "info" or "debug".
func ParseLevel(s string) (Level, error) {
	switch s {
	case "warning", "warn":
		return Warning, nil
	case "info", "":
		return Info, nil
	case "debug":
		return Debug, nil
	default:
		return Info, fmt.Errorf("unknown log level %q", s)
	}
}

func (l Level) logrus() logrus.Level {
	switch l {
	case Warning:
		return logrus.WarnLevel
	case Debug:
		return logrus.DebugLevel
	default:
		return logrus.InfoLevel
	}
}

var (
	level  atomic.Uint32
	logger = newLogger(os.Stderr)
)

func init() {
	level.Store(uint32(Info))
}

func newLogger(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	return l
}

// SetLevel sets the level below which messages are dropped.
func SetLevel(l Level) {
	level.Store(uint32(l))
	logger.SetLevel(l.logrus())
}

// IsLogging returns true iff messages at l are emitted.
func IsLogging(l Level) bool {
	return Level(level.Load()) >= l
}

// SetTarget redirects log output to w.
func SetTarget(w io.Writer) {
	logger.SetOutput(w)
}

// SetFormat selects "text" or "json" output.
func SetFormat(format string) error {
	switch format {
	case "text", "":
		logger.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("unknown log format %q", format)
	}
	return nil
}

// Debugf logs at debug level.
func Debugf(format string, v ...any) {
	if IsLogging(Debug) {
		logger.Debugf(format, v...)
	}
}

// Infof logs at info level.
func Infof(format string, v ...any) {
	if IsLogging(Info) {
		logger.Infof(format, v...)
	}
}

// Warningf logs at warning level.
func Warningf(format string, v ...any) {
	logger.Warnf(format, v...)
}

// WithField returns an entry for structured messages carrying key=value.
func WithField(key string, value any) *logrus.Entry {
	return logger.WithField(key, value)
}
