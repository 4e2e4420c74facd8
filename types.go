package maruku

import (
	"errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dgleich/maruku/internal/mathrender"
	"github.com/dgleich/maruku/internal/settings"
)

// Setting keys accepted in Input.Settings, WithDefaults and front matter.
const (
	SettingMathEngine    = settings.MathEngine
	SettingPNGEngine     = settings.PNGEngine
	SettingOutputMathML  = settings.OutputMathML
	SettingOutputPNG     = settings.OutputPNG
	SettingOutputMathJax = settings.OutputMathJax
	SettingTitle         = settings.Title
	SettingCSS           = settings.CSS
)

// Input contains conversion parameters.
type Input struct {
	Markdown  string         // Markdown content (required)
	SourceDir string         // Directory of the markdown file (optional)
	OutputDir string         // Directory the HTML is written to; with SourceDir, rebases relative links
	CSS       string         // Extra stylesheet content, appended last (optional)
	Settings  map[string]any // Overrides above the front matter, e.g. from CLI flags (optional)
}

// ConvertResult contains the output of a conversion.
type ConvertResult struct {
	HTML        []byte  // Complete HTML document
	Title       string  // Resolved document title
	Diagnostics []error // Document errors, in the order they were found
}

// Err joins the document errors, or returns nil if there are none.
func (r *ConvertResult) Err() error {
	if r == nil {
		return nil
	}
	return errors.Join(r.Diagnostics...)
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	logger         *log.Logger
	defaults       settings.Map
	title          string
	highlightStyle string
	style          string
	mathjaxURL     string
	timeout        time.Duration
	fontSize       float64
	chromeFontSize float64
	baseline       *mathrender.PixelBaseline
}

// DefaultMathJaxURL is the loader injected for documents using MathJax output.
const DefaultMathJaxURL = "https://cdn.jsdelivr.net/npm/mathjax@2/MathJax.js?config=TeX-AMS_HTML"

// defaultTimeout bounds each chrome engine render.
const defaultTimeout = 30 * time.Second

// WithLogger sets the logger for engine notices and document errors.
func WithLogger(l *log.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.cfg.logger = l
		}
	}
}

// WithDefaults sets document defaults, consulted after the front matter.
// Keys are normalized like front matter keys.
func WithDefaults(m map[string]any) Option {
	return func(c *Converter) {
		c.cfg.defaults = normalize(m)
	}
}

// WithTitle sets the title used when a document has no title setting.
func WithTitle(title string) Option {
	return func(c *Converter) {
		c.cfg.title = title
	}
}

// WithHighlightStyle sets the chroma style for code blocks.
func WithHighlightStyle(style string) Option {
	return func(c *Converter) {
		c.cfg.highlightStyle = style
	}
}

// WithStyle selects the embedded document style ("default", "technical").
// An empty name leaves the page unstyled apart from math and code blocks.
func WithStyle(name string) Option {
	return func(c *Converter) {
		c.cfg.style = name
	}
}

// WithMathJaxURL replaces DefaultMathJaxURL.
func WithMathJaxURL(url string) Option {
	return func(c *Converter) {
		c.cfg.mathjaxURL = url
	}
}

// WithTimeout sets the per-render timeout of the chrome engine.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("maruku: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithFontSize sets the font size, in pixels, of the gofont png engine.
// Panics if px <= 0.
func WithFontSize(px float64) Option {
	if px <= 0 {
		panic("maruku: WithFontSize size must be positive")
	}
	return func(c *Converter) {
		c.cfg.fontSize = px
	}
}

// WithChromeFontSize sets the CSS font size, in pixels, of the chrome png engine.
// Panics if px <= 0.
func WithChromeFontSize(px float64) Option {
	if px <= 0 {
		panic("maruku: WithChromeFontSize size must be positive")
	}
	return func(c *Converter) {
		c.cfg.chromeFontSize = px
	}
}

// withBaseline replaces the process-wide pixel baseline. Used by tests.
func withBaseline(b *mathrender.PixelBaseline) Option {
	return func(c *Converter) {
		c.cfg.baseline = b
	}
}

// normalize copies m with normalized keys. Nil stays nil.
func normalize(m map[string]any) settings.Map {
	if m == nil {
		return nil
	}
	out := make(settings.Map, len(m))
	for k, v := range m {
		out[settings.NormalizeKey(k)] = v
	}
	return out
}
