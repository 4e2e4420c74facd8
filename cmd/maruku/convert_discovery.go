package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgleich/maruku/internal/fileutil"
)

// Sentinel errors for file discovery.
var (
	ErrInvalidExtension   = errors.New("file must have a markdown extension (.md, .markdown, .mdown, .mkd)")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// htmlExt is the extension of converted files.
const htmlExt = ".html"

// FileToConvert represents a single file to process.
type FileToConvert struct {
	InputPath  string
	OutputPath string
}

// discoverFiles finds all markdown files to convert. Directory inputs are
// walked recursively and their layout is mirrored under outputDir.
func discoverFiles(inputPath, outputDir string) ([]FileToConvert, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if !fileutil.IsMarkdown(inputPath) {
			return nil, fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(inputPath))
		}
		return []FileToConvert{{InputPath: inputPath, OutputPath: resolveOutputPath(inputPath, outputDir, "")}}, nil
	}

	var files []FileToConvert
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() || !fileutil.IsMarkdown(path) {
			return nil
		}
		files = append(files, FileToConvert{InputPath: path, OutputPath: resolveOutputPath(path, outputDir, inputPath)})
		return nil
	})

	return files, err
}

// resolveOutputPath determines the HTML output path for a markdown file.
// An outputDir ending in .html names the output file itself.
func resolveOutputPath(inputPath, outputDir, baseInputDir string) string {
	if outputDir == "" {
		return fileutil.OutputPath(inputPath, "", htmlExt)
	}

	if strings.HasSuffix(strings.ToLower(outputDir), htmlExt) {
		return outputDir
	}

	if baseInputDir != "" {
		if relPath, err := filepath.Rel(baseInputDir, inputPath); err == nil {
			return fileutil.OutputPath(inputPath, filepath.Join(outputDir, filepath.Dir(relPath)), htmlExt)
		}
	}

	return fileutil.OutputPath(inputPath, outputDir, htmlExt)
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > MaxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, MaxWorkers)
	}
	return nil
}
