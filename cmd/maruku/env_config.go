package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dgleich/maruku"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
// Command-line flags win over these values.
type envConfig struct {
	ConfigPath string // MARUKU_CONFIG: config file name or path
	OutputDir  string // MARUKU_OUTPUT_DIR: default output directory
	MathEngine string // MARUKU_MATH_ENGINE: html_math_engine
	PNGEngine  string // MARUKU_PNG_ENGINE: html_png_engine
	Workers    int    // MARUKU_WORKERS: parallel workers
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig(getenv func(string) string) (*envConfig, error) {
	cfg := &envConfig{
		ConfigPath: strings.TrimSpace(getenv("MARUKU_CONFIG")),
		OutputDir:  strings.TrimSpace(getenv("MARUKU_OUTPUT_DIR")),
		MathEngine: strings.TrimSpace(getenv("MARUKU_MATH_ENGINE")),
		PNGEngine:  strings.TrimSpace(getenv("MARUKU_PNG_ENGINE")),
	}

	if v := strings.TrimSpace(getenv("MARUKU_WORKERS")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%w: MARUKU_WORKERS=%q", ErrInvalidWorkerCount, v)
		}
		cfg.Workers = n
	}

	return cfg, nil
}

// applyTo fills engine settings missing from overrides.
func (e *envConfig) applyTo(overrides map[string]any) {
	if _, ok := overrides[maruku.SettingMathEngine]; !ok && e.MathEngine != "" {
		overrides[maruku.SettingMathEngine] = e.MathEngine
	}
	if _, ok := overrides[maruku.SettingPNGEngine]; !ok && e.PNGEngine != "" {
		overrides[maruku.SettingPNGEngine] = e.PNGEngine
	}
}
