package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/dgleich/maruku"
	"github.com/dgleich/maruku/internal/config"
)

// ---------------------------------------------------------------------------
// TestExitCodeFor - Error to exit code mapping
// ---------------------------------------------------------------------------

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		// Success
		{"nil error", nil, ExitSuccess},

		// Browser errors (exit 4)
		{"browser connect", maruku.ErrBrowserConnect, ExitBrowser},
		{"page load", maruku.ErrPageLoad, ExitBrowser},
		{"screenshot", maruku.ErrScreenshot, ExitBrowser},
		{"wrapped browser connect", fmt.Errorf("failed: %w", maruku.ErrBrowserConnect), ExitBrowser},

		// I/O errors (exit 3)
		{"file not exist", os.ErrNotExist, ExitIO},
		{"permission denied", os.ErrPermission, ExitIO},
		{"read markdown", ErrReadMarkdown, ExitIO},
		{"read css", ErrReadCSS, ExitIO},
		{"write html", ErrWriteHTML, ExitIO},
		{"no input", ErrNoInput, ExitIO},
		{"wrapped file not exist", fmt.Errorf("reading: %w", os.ErrNotExist), ExitIO},

		// Usage/config/validation errors (exit 2)
		{"config not found", config.ErrConfigNotFound, ExitUsage},
		{"config not found with name", &configNotFoundError{name: "work", err: config.ErrConfigNotFound}, ExitUsage},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"field too long", config.ErrFieldTooLong, ExitUsage},
		{"invalid value", config.ErrInvalidValue, ExitUsage},
		{"empty markdown", maruku.ErrEmptyMarkdown, ExitUsage},
		{"unknown engine", maruku.ErrUnknownEngine, ExitUsage},
		{"unknown style", fmt.Errorf("loading style: %w", maruku.ErrStyleNotFound), ExitUsage},
		{"invalid extension", ErrInvalidExtension, ExitUsage},
		{"invalid worker count", ErrInvalidWorkerCount, ExitUsage},
		{"unsupported shell", ErrUnsupportedShell, ExitUsage},
		{"usage", ErrUsage, ExitUsage},

		// General errors (exit 1)
		{"document errors", ErrDocumentErrors, ExitGeneral},
		{"unknown error", errors.New("boom"), ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCodeConstants(t *testing.T) {
	t.Parallel()

	codes := []int{ExitSuccess, ExitGeneral, ExitUsage, ExitIO, ExitBrowser}
	seen := map[int]bool{}
	for _, c := range codes {
		if c >= 126 {
			t.Errorf("exit code %d collides with shell-reserved codes", c)
		}
		if seen[c] {
			t.Errorf("exit code %d defined twice", c)
		}
		seen[c] = true
	}
	if ExitSuccess != 0 || ExitGeneral != 1 || ExitUsage != 2 {
		t.Error("exit codes 0-2 must follow Unix conventions")
	}
}

// ---------------------------------------------------------------------------
// TestFormatError - Hints
// ---------------------------------------------------------------------------

func TestFormatError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"config not found", &configNotFoundError{name: "work", err: config.ErrConfigNotFound}, "hint: use --config"},
		{"browser", fmt.Errorf("render: %w", maruku.ErrBrowserConnect), "--png-engine gofont"},
		{"timeout", fmt.Errorf("render: %w", context.DeadlineExceeded), "chrome.timeout"},
		{"plain", errors.New("boom"), "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := formatError(tt.err); !strings.Contains(got, tt.want) {
				t.Errorf("formatError() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}
