package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Options selects level, format ("text" or "json") and an optional log file.
type Options struct {
	Level  string
	Format string
	File   string
	Debug  bool
}

// New returns a logrus logger writing to stderr, and to Options.File when set.
// Console output goes to stdout, so logs never mix into piped reports.
func New(opts Options) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(parseLevel(opts.Level, opts.Debug))

	if strings.EqualFold(opts.Format, "json") {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	}

	if opts.File != "" {
		file, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.WithError(err).Error("could not open log file")
			return log
		}
		log.SetOutput(io.MultiWriter(os.Stderr, file))
	}
	return log
}

// Discard returns a logger that drops everything; used by tests and library callers.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func parseLevel(level string, debug bool) logrus.Level {
	if debug {
		return logrus.DebugLevel
	}
	if level == "" {
		return logrus.InfoLevel
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}
