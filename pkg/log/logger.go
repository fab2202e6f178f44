package log

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// New builds a logrus logger writing to out. Invalid level or format values
// fall back to info/text and are reported as warnings.
func New(level, format string, out io.Writer) (*logrus.Logger, []string) {
	var warnings []string

	log := logrus.New()
	log.SetOutput(out)

	switch format {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})
	case "", "text":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "15:04:05.000"})
	default:
		warnings = append(warnings, fmt.Sprintf("Invalid log format '%s', using 'text'", format))
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "15:04:05.000"})
	}

	log.SetLevel(logrus.InfoLevel)
	if level != "" {
		parsed, err := logrus.ParseLevel(level)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("Invalid log level '%s', using default 'info'. Error: %v", level, err))
		} else {
			log.SetLevel(parsed)
		}
	}

	return log, warnings
}

// ForScreen derives the entry used by one screen session
func ForScreen(base *logrus.Entry, screen, sessionID string) *logrus.Entry {
	return base.WithFields(logrus.Fields{
		"screen":  screen,
		"session": sessionID,
	})
}

// Discard returns an entry that drops everything; used by tests and headless callers
func Discard() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}
