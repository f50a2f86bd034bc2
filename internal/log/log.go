package log

import (
	"os"

	"github.com/sirupsen/logrus"
)

var defaultLogger = logrus.StandardLogger()

func init() {
	// This ensures that any log statements that occur before
	// the configuration has been loaded will be written to
	// stderr, keeping stdout free for lump dumps
	defaultLogger.Out = os.Stderr
}

// Config contains logging configuration values
type Config struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Configure sets the format and level on the default logger. An unknown
// level falls back to info.
func Configure(format string, level string) {
	configure(defaultLogger, format, level)
}

func configure(l *logrus.Logger, format string, level string) {
	switch format {
	case "json":
		l.Formatter = &logrus.JSONFormatter{}
	case "text":
		l.Formatter = &logrus.TextFormatter{}
	case "":
		// Just stick with the default
	default:
		l.WithField("format", format).Fatal("invalid logger format")
	}

	logrusLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logrusLevel = logrus.InfoLevel
	}

	l.SetLevel(logrusLevel)
}

// Default is the default logrus logger
func Default() *logrus.Entry { return defaultLogger.WithField("pid", os.Getpid()) }
