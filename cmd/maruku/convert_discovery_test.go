package main

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"testing"
)

// ---------------------------------------------------------------------------
// TestDiscoverFiles - Input discovery
// ---------------------------------------------------------------------------

func TestDiscoverFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"a.md", "notes.markdown", "skip.txt", filepath.Join("sub", "b.md")} {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("# x"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("directory next to sources", func(t *testing.T) {
		t.Parallel()

		files, err := discoverFiles(dir, "")
		if err != nil {
			t.Fatalf("discoverFiles() error = %v", err)
		}
		got := outputs(files)
		want := []string{
			filepath.Join(dir, "a.html"),
			filepath.Join(dir, "notes.html"),
			filepath.Join(dir, "sub", "b.html"),
		}
		if !slices.Equal(got, want) {
			t.Errorf("outputs = %v, want %v", got, want)
		}
	})

	t.Run("directory mirrored into output dir", func(t *testing.T) {
		t.Parallel()

		out := filepath.Join(dir, "site")
		files, err := discoverFiles(dir, out)
		if err != nil {
			t.Fatalf("discoverFiles() error = %v", err)
		}
		got := outputs(files)
		want := []string{
			filepath.Join(out, "a.html"),
			filepath.Join(out, "notes.html"),
			filepath.Join(out, "sub", "b.html"),
		}
		if !slices.Equal(got, want) {
			t.Errorf("outputs = %v, want %v", got, want)
		}
	})

	t.Run("single file", func(t *testing.T) {
		t.Parallel()

		files, err := discoverFiles(filepath.Join(dir, "a.md"), "")
		if err != nil {
			t.Fatalf("discoverFiles() error = %v", err)
		}
		if len(files) != 1 || files[0].OutputPath != filepath.Join(dir, "a.html") {
			t.Errorf("files = %+v", files)
		}
	})

	t.Run("single file with explicit output file", func(t *testing.T) {
		t.Parallel()

		files, err := discoverFiles(filepath.Join(dir, "a.md"), filepath.Join(dir, "index.html"))
		if err != nil {
			t.Fatalf("discoverFiles() error = %v", err)
		}
		if files[0].OutputPath != filepath.Join(dir, "index.html") {
			t.Errorf("OutputPath = %q", files[0].OutputPath)
		}
	})

	t.Run("wrong extension", func(t *testing.T) {
		t.Parallel()

		_, err := discoverFiles(filepath.Join(dir, "skip.txt"), "")
		if !errors.Is(err, ErrInvalidExtension) {
			t.Errorf("error = %v, want ErrInvalidExtension", err)
		}
	})

	t.Run("missing input", func(t *testing.T) {
		t.Parallel()

		_, err := discoverFiles(filepath.Join(dir, "missing.md"), "")
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("error = %v, want os.ErrNotExist", err)
		}
	})
}

func outputs(files []FileToConvert) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.OutputPath
	}
	sort.Strings(out)
	return out
}

// ---------------------------------------------------------------------------
// TestValidateWorkers / TestResolveWorkers - Worker sizing
// ---------------------------------------------------------------------------

func TestValidateWorkers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n       int
		wantErr bool
	}{
		{0, false},
		{1, false},
		{MaxWorkers, false},
		{-1, true},
		{MaxWorkers + 1, true},
	}

	for _, tt := range tests {
		err := validateWorkers(tt.n)
		if (err != nil) != tt.wantErr {
			t.Errorf("validateWorkers(%d) error = %v, wantErr %v", tt.n, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidWorkerCount) {
			t.Errorf("validateWorkers(%d) error = %v, want ErrInvalidWorkerCount", tt.n, err)
		}
	}
}

func TestResolveWorkers(t *testing.T) {
	t.Parallel()

	if got := resolveWorkers(3); got != 3 {
		t.Errorf("resolveWorkers(3) = %d, want 3", got)
	}
	if got := resolveWorkers(0); got < MinWorkers || got > MaxWorkers {
		t.Errorf("resolveWorkers(0) = %d, want between %d and %d", got, MinWorkers, MaxWorkers)
	}
}
