package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/dgleich/maruku/internal/fileutil"
	"github.com/dgleich/maruku/internal/settings"
	"github.com/dgleich/maruku/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxEngineNameLength = 50   // "none", "gofont", "chrome"
	MaxURLLength        = 2048 // Browser limit
	MaxTitleLength      = 200  // Document title
	MaxStyleLength      = 50   // Chroma style name
	MaxPathLength       = 4096 // PATH_MAX
)

// Font size bounds, in pixels.
const (
	MinFontSize = 4
	MaxFontSize = 200
)

// DefaultMathJaxURL is the loader injected when MathJax output is enabled.
const DefaultMathJaxURL = "https://cdn.jsdelivr.net/npm/mathjax@2/MathJax.js?config=TeX-AMS_HTML"

// appDir is the directory under the user config dir searched for named configs.
const appDir = "maruku"

var engineNamePattern = regexp.MustCompile(`^[a-z0-9_-]*$`)

// Config holds all configuration for document conversion.
type Config struct {
	Math   MathConfig   `yaml:"math"`
	HTML   HTMLConfig   `yaml:"html"`
	Gofont GofontConfig `yaml:"gofont"`
	Chrome ChromeConfig `yaml:"chrome"`
	Output OutputConfig `yaml:"output"`
}

// MathConfig selects math engines and outputs. These are document defaults;
// front matter and node attributes override them.
type MathConfig struct {
	Engine     string           `yaml:"engine"`    // markup engine (default: "none")
	PNGEngine  string           `yaml:"pngEngine"` // raster engine (default: "gofont")
	Output     MathOutputConfig `yaml:"output"`
	MathJaxURL string           `yaml:"mathjaxURL"` // empty = DefaultMathJaxURL
}

// MathOutputConfig switches the three math outputs.
type MathOutputConfig struct {
	MathML  bool `yaml:"mathml"`
	PNG     bool `yaml:"png"`
	MathJax bool `yaml:"mathjax"`
}

// HTMLConfig defines document assembly options.
type HTMLConfig struct {
	Title          string `yaml:"title"`          // used when the document has no title header
	Style          string `yaml:"style"`          // embedded document style (default: "default", empty = none)
	HighlightStyle string `yaml:"highlightStyle"` // chroma style (default: "github")
	CSS            string `yaml:"css"`            // path of an extra stylesheet
}

// GofontConfig defines the built-in raster engine options.
type GofontConfig struct {
	FontSize float64 `yaml:"fontSize"` // pixels (default: 16)
}

// ChromeConfig defines the headless browser raster engine options.
type ChromeConfig struct {
	Timeout  string  `yaml:"timeout"`  // Go duration (default: "30s")
	FontSize float64 `yaml:"fontSize"` // CSS pixels (default: 16)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // empty = same as source
}

// TimeoutDuration parses Timeout. An empty value returns 0.
func (c ChromeConfig) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: chrome.timeout: %v", ErrInvalidValue, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: chrome.timeout: must be positive, got %s", ErrInvalidValue, d)
	}
	return d, nil
}

// Settings returns the math settings layer of the config.
func (c *Config) Settings() settings.Map {
	return settings.Map{
		settings.MathEngine:    c.Math.Engine,
		settings.PNGEngine:     c.Math.PNGEngine,
		settings.OutputMathML:  c.Math.Output.MathML,
		settings.OutputPNG:     c.Math.Output.PNG,
		settings.OutputMathJax: c.Math.Output.MathJax,
	}
}

// Validate checks field lengths and value ranges.
// Called automatically by LoadConfig, but available for library users who
// construct Config manually.
func (c *Config) Validate() error {
	for _, f := range []struct {
		name, value string
	}{
		{"math.engine", c.Math.Engine},
		{"math.pngEngine", c.Math.PNGEngine},
	} {
		if err := validateFieldLength(f.name, f.value, MaxEngineNameLength); err != nil {
			return err
		}
		if !engineNamePattern.MatchString(f.value) {
			return fmt.Errorf("%w: %s: %q (use lowercase letters, digits, '-' and '_')", ErrInvalidValue, f.name, f.value)
		}
	}

	if err := validateFieldLength("math.mathjaxURL", c.Math.MathJaxURL, MaxURLLength); err != nil {
		return err
	}
	if err := validateFieldLength("html.title", c.HTML.Title, MaxTitleLength); err != nil {
		return err
	}
	if err := validateFieldLength("html.style", c.HTML.Style, MaxStyleLength); err != nil {
		return err
	}
	if err := validateFieldLength("html.highlightStyle", c.HTML.HighlightStyle, MaxStyleLength); err != nil {
		return err
	}
	if err := validateFieldLength("html.css", c.HTML.CSS, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxPathLength); err != nil {
		return err
	}

	if err := validateFontSize("gofont.fontSize", c.Gofont.FontSize); err != nil {
		return err
	}
	if err := validateFontSize("chrome.fontSize", c.Chrome.FontSize); err != nil {
		return err
	}
	if _, err := c.Chrome.TimeoutDuration(); err != nil {
		return err
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// validateFontSize accepts 0 (engine default) or a size within bounds.
func validateFontSize(fieldName string, size float64) error {
	if size != 0 && (size < MinFontSize || size > MaxFontSize) {
		return fmt.Errorf("%w: %s: must be between %d and %d, got %g", ErrInvalidValue, fieldName, MinFontSize, MaxFontSize, size)
	}
	return nil
}

// DefaultConfig returns the built-in defaults: the "none" markup engine,
// MathML-style output only.
func DefaultConfig() *Config {
	return &Config{
		Math: MathConfig{
			Engine:    "none",
			PNGEngine: "gofont",
			Output:    MathOutputConfig{MathML: true},
		},
		HTML: HTMLConfig{Style: "default", HighlightStyle: "github"},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in SearchPaths.
// Fields missing from the file keep their DefaultConfig values.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SearchPaths lists where a named config is looked up, in order:
// the current directory, then the user config directory (~/.config/maruku/),
// each with .yaml before .yml.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, appDir, name+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first existing file from SearchPaths.
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
