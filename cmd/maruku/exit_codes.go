package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dgleich/maruku"
	"github.com/dgleich/maruku/internal/config"
	"github.com/dgleich/maruku/internal/hints"
)

// Exit codes for the maruku CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful conversion
	ExitGeneral = 1 // General/unexpected error, or document errors with --strict
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, maruku.ErrBrowserConnect) ||
		errors.Is(err, maruku.ErrPageLoad) ||
		errors.Is(err, maruku.ErrScreenshot) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadMarkdown) ||
		errors.Is(err, ErrReadCSS) ||
		errors.Is(err, ErrWriteHTML) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, maruku.ErrEmptyMarkdown) ||
		errors.Is(err, maruku.ErrUnknownEngine) ||
		errors.Is(err, maruku.ErrStyleNotFound) ||
		errors.Is(err, maruku.ErrInvalidStyle) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrUnsupportedShell) ||
		errors.Is(err, ErrUsage) {
		return ExitUsage
	}

	return ExitGeneral
}

// formatError appends actionable hints to an error message.
func formatError(err error) string {
	msg := err.Error()

	var notFound *configNotFoundError
	switch {
	case errors.As(err, &notFound):
		msg += hints.ForConfigNotFound(config.SearchPaths(notFound.name))
	case errors.Is(err, maruku.ErrBrowserConnect):
		msg += hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		msg += hints.ForTimeout()
	}
	return msg
}

// configNotFoundError remembers the config name for the not-found hint.
type configNotFoundError struct {
	name string
	err  error
}

func (e *configNotFoundError) Error() string {
	return fmt.Sprintf("loading config: %v", e.err)
}

func (e *configNotFoundError) Unwrap() error { return e.err }
