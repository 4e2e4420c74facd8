package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/charmbracelet/log"
	flag "github.com/spf13/pflag"

	"github.com/dgleich/maruku"
	"github.com/dgleich/maruku/internal/config"
	"github.com/dgleich/maruku/internal/hints"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage          = errors.New("invalid usage")
	ErrNoInput        = errors.New("no input specified")
	ErrReadCSS        = errors.New("failed to read CSS file")
	ErrDocumentErrors = errors.New("documents reported errors")
)

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseConvertFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	envCfg, err := loadEnvConfig(env.Getenv)
	if err != nil {
		return err
	}

	workers := flags.workers
	if !flags.changed("workers") && envCfg.Workers > 0 {
		workers = envCfg.Workers
	}
	if err := validateWorkers(workers); err != nil {
		return err
	}

	logger := newLogger(env.Stderr, flags.common.quiet, flags.common.verbose)

	// Load configuration
	cfg, err := loadConfig(firstNonEmpty(flags.common.config, envCfg.ConfigPath))
	if err != nil {
		return err
	}

	// Resolve input path
	switch {
	case len(positional) == 0:
		return ErrNoInput
	case len(positional) > 1:
		return fmt.Errorf("%w: expected one input, got %d", ErrUsage, len(positional))
	}
	inputPath := positional[0]

	// Discover files to convert
	outputDir := firstNonEmpty(flags.output, envCfg.OutputDir, cfg.Output.DefaultDir)
	files, err := discoverFiles(inputPath, outputDir)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no markdown files found in %s", ErrNoInput, inputPath)
	}

	cssContent, err := readCSS(firstNonEmpty(flags.css, cfg.HTML.CSS))
	if err != nil {
		return err
	}

	conv, err := maruku.NewConverter(converterOptions(cfg, flags, logger)...)
	if err != nil {
		return err
	}
	defer conv.Close()

	overrides := flags.overrides()
	envCfg.applyTo(overrides)
	if err := checkEngines(conv, overrides); err != nil {
		return err
	}

	params := &conversionParams{css: cssContent, settings: overrides}
	results := convertBatch(ctx, conv, resolveWorkers(workers), files, params)

	summary := printResults(results, flags.common.quiet, flags.common.verbose, env)
	if summary.Failed > 0 {
		return fmt.Errorf("%d conversion(s) failed", summary.Failed)
	}
	if flags.strict && summary.WithErrors > 0 {
		return fmt.Errorf("%w: %d document(s)%s", ErrDocumentErrors, summary.WithErrors, hints.ForDocumentErrors())
	}
	return nil
}

// loadConfig loads the named config, or returns the defaults when name is empty.
func loadConfig(name string) (*config.Config, error) {
	if name == "" {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.LoadConfig(name)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, &configNotFoundError{name: name, err: err}
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// converterOptions maps the config file and flags to converter options.
func converterOptions(cfg *config.Config, flags *convertFlags, logger *log.Logger) []maruku.Option {
	style := cfg.HTML.Style
	if flags.changed("style") {
		style = flags.style
	}
	opts := []maruku.Option{
		maruku.WithLogger(logger),
		maruku.WithDefaults(cfg.Settings()),
		maruku.WithTitle(cfg.HTML.Title),
		maruku.WithHighlightStyle(firstNonEmpty(flags.highlight, cfg.HTML.HighlightStyle)),
		maruku.WithStyle(style),
	}
	if cfg.Math.MathJaxURL != "" {
		opts = append(opts, maruku.WithMathJaxURL(cfg.Math.MathJaxURL))
	}
	// Validated by config.LoadConfig
	if d, err := cfg.Chrome.TimeoutDuration(); err == nil && d > 0 {
		opts = append(opts, maruku.WithTimeout(d))
	}
	if cfg.Gofont.FontSize > 0 {
		opts = append(opts, maruku.WithFontSize(cfg.Gofont.FontSize))
	}
	if cfg.Chrome.FontSize > 0 {
		opts = append(opts, maruku.WithChromeFontSize(cfg.Chrome.FontSize))
	}
	return opts
}

// checkEngines rejects engine names given on the command line that no
// engine provides, listing the available ones.
func checkEngines(conv *maruku.Converter, overrides map[string]any) error {
	for _, c := range []struct {
		key       string
		available []string
	}{
		{maruku.SettingMathEngine, conv.MarkupEngines()},
		{maruku.SettingPNGEngine, conv.PNGEngines()},
	} {
		name, ok := overrides[c.key].(string)
		if !ok || name == "" || slices.Contains(c.available, name) {
			continue
		}
		return fmt.Errorf("%w: %s %q%s", maruku.ErrUnknownEngine, c.key, name, hints.ForUnknownEngine(c.available))
	}
	return nil
}

// readCSS reads an extra stylesheet. An empty path yields no CSS.
func readCSS(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadCSS, err)
	}
	return string(data), nil
}

// firstNonEmpty returns the first non-empty value.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
