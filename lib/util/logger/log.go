package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	log  *Logger
	once sync.Once
)

// Fields is a set of structured log fields.
type Fields = logrus.Fields

type Logger struct {
	*logrus.Logger
}

type Entry struct {
	Logger
	entry *logrus.Entry
}

func (l *Logger) Warn(args ...interface{}) {
	warnFatal(args...)
	l.Logger.Warn(args...)
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	warnFatalf(format, args...)
	l.Logger.Warnf(format, args...)
}

func (l *Logger) Error(args ...interface{}) {
	warnFatal(args...)
	l.Logger.Error(args...)
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	warnFatalf(format, args...)
	l.Logger.Errorf(format, args...)
}

func (l *Logger) WithField(key string, value interface{}) *Entry {
	entry := l.Logger.WithField(key, value)
	return &Entry{*l, entry}
}

func (l *Logger) WithFields(fields Fields) *Entry {
	entry := l.Logger.WithFields(fields)
	return &Entry{*l, entry}
}

func (l *Logger) WithError(err error) *Entry {
	entry := l.Logger.WithError(err)
	return &Entry{*l, entry}
}

func (e *Entry) Debug(args ...interface{}) {
	e.entry.Debug(args...)
}

func (e *Entry) Debugf(format string, args ...interface{}) {
	e.entry.Debugf(format, args...)
}

func (e *Entry) Info(args ...interface{}) {
	e.entry.Info(args...)
}

func (e *Entry) Warn(args ...interface{}) {
	warnFatal(args...)
	e.entry.Warn(args...)
}

func (e *Entry) Warnf(format string, args ...interface{}) {
	warnFatalf(format, args...)
	e.entry.Warnf(format, args...)
}

func (e *Entry) Error(args ...interface{}) {
	warnFatal(args...)
	e.entry.Error(args...)
}

func (e *Entry) WithField(key string, value interface{}) *Entry {
	return &Entry{e.Logger, e.entry.WithField(key, value)}
}

func (e *Entry) WithError(err error) *Entry {
	return &Entry{e.Logger, e.entry.WithError(err)}
}

func warnFatal(args ...interface{}) {
	if failFast != "" {
		log.Logger.Fatal(args...)
	}
}

func warnFatalf(format string, args ...interface{}) {
	if failFast != "" {
		log.Logger.Fatalf(format, args...)
	}
}

var failFast string

// InitializeSddmLogger configures the shared logger from the environment.
// Logging is off unless SDDMCONF_DEBUG is set; SDDMCONF_WARNFAIL turns every
// warning into a fatal error, which is useful when hunting stray config keys.
func InitializeSddmLogger() {
	once.Do(func() {
		log = &Logger{}
		log.Logger = logrus.New()
		// We do not want to log by default
		log.SetOutput(io.Discard)
		log.SetLevel(logrus.PanicLevel)
		if logLevel := os.Getenv("SDDMCONF_DEBUG"); logLevel != "" {
			failFast = os.Getenv("SDDMCONF_WARNFAIL")
			if failFast != "" {
				logLevel = "debug"
			}
			log.SetOutput(os.Stderr)
			log.SetLevel(parseLevel(logLevel))
			log.WithField("level", log.GetLevel()).Debug("Logging enabled.")
		}
	})
}

func parseLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.DebugLevel
	}
}

// SetVerbose forces warning-level output to stderr, regardless of the
// environment. The CLI uses it for --verbose.
func SetVerbose(debug bool) {
	l := GetSddmLogger()
	l.SetOutput(os.Stderr)
	if debug {
		l.SetLevel(logrus.DebugLevel)
		return
	}
	if l.GetLevel() < logrus.WarnLevel {
		l.SetLevel(logrus.WarnLevel)
	}
}

// GetSddmLogger returns the initialized Logger
func GetSddmLogger() *Logger {
	if log == nil {
		InitializeSddmLogger()
	}
	return log
}

func init() {
	InitializeSddmLogger()
}
