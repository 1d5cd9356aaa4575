// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

// Package log builds the logrus logger shared by the commands and the HTTP
// server. Log output goes to stderr so stdout stays machine-readable.
package log

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
	"golang.org/x/term"
)

const timestampFormat = "2006-01-02 15:04:05"

// Config selects the level and format of the logger.
type Config struct {
	Level      logrus.Level
	Structured bool
	// Output defaults to os.Stderr.
	Output io.Writer
}

// New creates a logger from cfg. Structured loggers write JSON lines;
// otherwise entries use the prefixed text format, coloured on a terminal.
func New(cfg Config) *logrus.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(cfg.Level)

	if cfg.Structured {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: timestampFormat,
		})
	} else {
		logger.SetFormatter(&prefixed.TextFormatter{
			TimestampFormat: timestampFormat,
			FullTimestamp:   true,
			ForceColors:     isTerminal(out),
			DisableColors:   !isTerminal(out),
			ForceFormatting: true,
		})
	}
	return logger
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

// LevelFromVerbosity maps the -v count to a level: warn by default, then
// info, debug and trace. Quiet suppresses everything below panic.
func LevelFromVerbosity(verbosity int, quiet bool) logrus.Level {
	switch {
	case quiet:
		return logrus.PanicLevel
	case verbosity <= 0:
		return logrus.WarnLevel
	case verbosity == 1:
		return logrus.InfoLevel
	case verbosity == 2:
		return logrus.DebugLevel
	default:
		return logrus.TraceLevel
	}
}

// ResolveLevel picks the effective level. Quiet and an explicit -v count
// win over the configured level name; an empty name means warn.
func ResolveLevel(name string, verbosity int, quiet bool) (logrus.Level, error) {
	if quiet || verbosity > 0 || name == "" {
		return LevelFromVerbosity(verbosity, quiet), nil
	}
	level, err := logrus.ParseLevel(name)
	if err != nil {
		return logrus.WarnLevel, fmt.Errorf("bad log level %q: %w", name, err)
	}
	return level, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
