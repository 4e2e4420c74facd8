package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/dgleich/maruku"
	"github.com/dgleich/maruku/internal/hints"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Worker sizing constants.
const (
	// MinWorkers ensures at least one worker is available.
	MinWorkers = 1

	// MaxWorkers caps concurrent conversions sharing one browser.
	MaxWorkers = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// Sentinel errors for batch operations.
var (
	ErrReadMarkdown = errors.New("failed to read markdown file")
	ErrWriteHTML    = errors.New("failed to write HTML file")
)

// DocumentConverter is the interface for the conversion service.
type DocumentConverter interface {
	Convert(ctx context.Context, input maruku.Input) (*maruku.ConvertResult, error)
}

// Compile-time interface implementation check.
var _ DocumentConverter = (*maruku.Converter)(nil)

// conversionParams groups parameters shared across batch/file conversion.
type conversionParams struct {
	css      string
	settings map[string]any
}

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath   string
	OutputPath  string
	Err         error
	Diagnostics []error
	Duration    time.Duration
}

// convertBatch processes files concurrently with n workers sharing conv.
// Results keep the order of files.
func convertBatch(ctx context.Context, conv DocumentConverter, n int, files []FileToConvert, params *conversionParams) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := n
	if concurrency > len(files) {
		concurrency = len(files)
	}
	if concurrency < MinWorkers {
		concurrency = MinWorkers
	}

	results := make([]ConversionResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ConversionResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = convertFile(ctx, conv, files[idx], params)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// convertFile processes a single file and returns the result.
func convertFile(ctx context.Context, conv DocumentConverter, f FileToConvert, params *conversionParams) ConversionResult {
	start := time.Now()
	result := ConversionResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}
	done := func(err error) ConversionResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		return done(fmt.Errorf("%w: %v", ErrReadMarkdown, err))
	}

	outDir := filepath.Dir(f.OutputPath)
	if err := os.MkdirAll(outDir, dirPermissions); err != nil {
		return done(fmt.Errorf("creating output directory: %w%s", err, hints.ForOutputDirectory()))
	}

	res, err := conv.Convert(ctx, maruku.Input{
		Markdown:  string(content),
		SourceDir: filepath.Dir(f.InputPath),
		OutputDir: outDir,
		CSS:       params.css,
		Settings:  params.settings,
	})
	if err != nil {
		return done(err)
	}
	result.Diagnostics = res.Diagnostics

	// #nosec G306 -- HTML files are meant to be readable
	if err := os.WriteFile(f.OutputPath, res.HTML, filePermissions); err != nil {
		return done(fmt.Errorf("%w: %v", ErrWriteHTML, err))
	}

	return done(nil)
}

// ResultSummary holds the count of succeeded and failed conversions.
type ResultSummary struct {
	Succeeded  int
	Failed     int
	WithErrors int // succeeded, but reported document errors
}

// countResults tallies succeeded and failed conversions.
func countResults(results []ConversionResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		switch {
		case r.Err != nil:
			summary.Failed++
		case len(r.Diagnostics) > 0:
			summary.Succeeded++
			summary.WithErrors++
		default:
			summary.Succeeded++
		}
	}
	return summary
}

// printResults outputs conversion results to the environment writers.
func printResults(results []ConversionResult, quiet, verbose bool, env *Environment) ResultSummary {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}
		if len(r.Diagnostics) > 0 {
			fmt.Fprintf(env.Stderr, "%s: %d document error(s)\n", r.InputPath, len(r.Diagnostics))
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary
}

// resolveWorkers determines the worker count.
// Priority: explicit value > GOMAXPROCS-based calculation.
func resolveWorkers(workers int) int {
	// Explicit value takes priority
	if workers > 0 {
		return workers
	}

	// Auto-calculate based on GOMAXPROCS (adjusted by automaxprocs for containers)
	n := runtime.GOMAXPROCS(0) / cpuDivisor
	if n < MinWorkers {
		return MinWorkers
	}
	if n > MaxWorkers {
		return MaxWorkers
	}
	return n
}
