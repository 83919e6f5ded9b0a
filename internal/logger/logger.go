// Package logger builds the process-wide logrus logger.
package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New returns a logger writing to stdout. Production uses the JSON
// formatter; every other environment gets human-readable text.
func New(level string, production bool) *logrus.Logger {
	return newLogger(os.Stdout, level, production)
}

func newLogger(w io.Writer, level string, production bool) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	if production {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	return l
}
