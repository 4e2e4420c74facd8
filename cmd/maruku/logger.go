package main

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns the CLI logger. Engine notices are Warn; --verbose adds
// Debug output such as baseline measurement, --quiet keeps errors only.
func newLogger(w io.Writer, quiet, verbose bool) *log.Logger {
	level := log.WarnLevel
	switch {
	case quiet:
		level = log.ErrorLevel
	case verbose:
		level = log.DebugLevel
	}

	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: verbose,
		TimeFormat:      time.TimeOnly,
		Level:           level,
		Prefix:          "maruku",
	})
}
