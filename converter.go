package maruku

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/dgleich/maruku/internal/assets"
	"github.com/dgleich/maruku/internal/engines/chrome"
	"github.com/dgleich/maruku/internal/engines/gofont"
	"github.com/dgleich/maruku/internal/frontmatter"
	"github.com/dgleich/maruku/internal/mathext"
	"github.com/dgleich/maruku/internal/mathrender"
	"github.com/dgleich/maruku/internal/pipeline"
	"github.com/dgleich/maruku/internal/settings"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.CommonMarkPreprocessor)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.CSSInjector          = (*pipeline.CSSInjection)(nil)
)

// deferredScriptMarker appears in the body when any node used MathJax output.
const deferredScriptMarker = `type="math/tex`

// Converter orchestrates the markdown-to-HTML conversion pipeline.
// Create with NewConverter(), use Convert() for conversion, and Close() when done.
// A Converter is safe for concurrent use.
type Converter struct {
	cfg           converterConfig
	registry      *mathrender.Registry
	chrome        *chrome.Engine
	preprocessor  pipeline.MarkdownPreprocessor
	htmlConverter pipeline.HTMLConverter
	cssInjector   pipeline.CSSInjector
	stylesheet    string // document style + math + highlight
}

// NewConverter creates a Converter with the none, gofont and chrome engines
// registered. Returns an error if an engine cannot be initialized or the
// defaults name an unknown engine.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			logger:         log.Default(),
			highlightStyle: pipeline.DefaultHighlightStyle,
			style:          assets.DefaultStyleName,
			mathjaxURL:     DefaultMathJaxURL,
			timeout:        defaultTimeout,
		},
		preprocessor: &pipeline.CommonMarkPreprocessor{},
		cssInjector:  &pipeline.CSSInjection{},
	}

	for _, opt := range opts {
		opt(c)
	}

	c.registry = mathrender.NewRegistry()

	gf, err := gofont.New(gofont.Options{FontSize: c.cfg.fontSize})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngineInit, err)
	}
	gf.Register(c.registry)

	c.chrome = chrome.New(chrome.Options{Timeout: c.cfg.timeout, FontSize: c.cfg.chromeFontSize})
	c.chrome.Register(c.registry)

	if err := c.validateEngines(c.cfg.defaults); err != nil {
		return nil, err
	}

	mathOpts := []mathrender.Option{mathrender.WithLogger(c.cfg.logger)}
	if c.cfg.baseline != nil {
		mathOpts = append(mathOpts, mathrender.WithBaseline(c.cfg.baseline))
	}

	c.htmlConverter = pipeline.NewGoldmarkConverter(pipeline.ConverterOptions{
		Math:           mathrender.NewRenderer(c.registry, mathOpts...),
		Logger:         c.cfg.logger,
		HighlightStyle: c.cfg.highlightStyle,
	})

	c.stylesheet, err = c.loadStylesheet()
	if err != nil {
		return nil, err
	}

	return c, nil
}

// Convert runs the full pipeline and returns the HTML document.
// The context is used for cancellation and timeout.
// Document errors (unresolved references, duplicate labels, a malformed
// header) do not fail the conversion; they are returned in the result.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *ConvertResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if strings.TrimSpace(input.Markdown) == "" {
		return nil, ErrEmptyMarkdown
	}

	overrides := normalize(input.Settings)
	if err := c.validateEngines(overrides); err != nil {
		return nil, err
	}

	header, body, fmErr := frontmatter.Split(input.Markdown)
	doc := settings.Chain{overrides, header, c.cfg.defaults, settings.Defaults()}

	st := mathext.NewState(doc)
	if fmErr != nil {
		st.Diagnostics.Add(fmErr)
		c.cfg.logger.Error(fmErr)
	}

	// Preprocess markdown
	mdContent := c.preprocessor.PreprocessMarkdown(ctx, body)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	// Convert to HTML
	fragment, err := c.htmlConverter.ToHTML(ctx, mdContent, st)
	if err != nil {
		return nil, fmt.Errorf("converting to HTML: %w", err)
	}

	// Keep relative links working from the output location
	if input.SourceDir != "" && input.OutputDir != "" {
		fragment, err = pipeline.RebasePaths(fragment, input.SourceDir, input.OutputDir)
		if err != nil {
			return nil, fmt.Errorf("rewriting relative paths: %w", err)
		}
	}

	title := settings.StringOr(doc, settings.Title, c.cfg.title)
	if strings.TrimSpace(title) == "" {
		title = pipeline.DefaultTitle
	}
	page := pipeline.WrapDocument(title, fragment)

	// Built-in styles first, user CSS last so it can override
	css := c.stylesheet
	if input.CSS != "" {
		css += "\n" + input.CSS
	}
	page = c.cssInjector.InjectCSS(ctx, page, css)
	page = pipeline.InjectStylesheet(ctx, page, settings.StringOr(doc, settings.CSS, ""))

	if settings.BoolOr(doc, settings.OutputMathJax, false) || strings.Contains(fragment, deferredScriptMarker) {
		page = pipeline.InjectMathJax(ctx, page, c.cfg.mathjaxURL)
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	return &ConvertResult{
		HTML:        []byte(page),
		Title:       title,
		Diagnostics: st.Diagnostics.Errors(),
	}, nil
}

// loadStylesheet joins the document style, the math style and the code
// highlighting style, in that order.
func (c *Converter) loadStylesheet() (string, error) {
	var sb strings.Builder
	if c.cfg.style != "" {
		doc, err := assets.LoadStyle(c.cfg.style)
		if err != nil {
			return "", err
		}
		sb.WriteString(doc)
	}

	math, err := assets.LoadStyle(assets.MathStyleName)
	if err != nil {
		return "", err
	}
	sb.WriteString(math)

	highlight, err := pipeline.HighlightCSS(c.cfg.highlightStyle)
	if err != nil {
		return "", err
	}
	sb.WriteString(highlight)
	return sb.String(), nil
}

// MarkupEngines returns the names usable as html_math_engine.
func (c *Converter) MarkupEngines() []string {
	return c.registry.Names(mathrender.CapabilityMarkup)
}

// PNGEngines returns the names usable as html_png_engine.
func (c *Converter) PNGEngines() []string {
	return c.registry.Names(mathrender.CapabilityRaster)
}

// Close releases resources (headless Chrome browser, if one was started).
func (c *Converter) Close() error {
	if c.chrome != nil {
		return c.chrome.Close()
	}
	return nil
}

// validateEngines checks engine names set by the caller. Names set in a
// document header are not checked here; the renderer falls back for them.
func (c *Converter) validateEngines(m settings.Map) error {
	if name, ok := m.String(settings.MathEngine); ok && name != "" && !c.registry.Has(mathrender.CapabilityMarkup, name) {
		return fmt.Errorf("%w: %s %q", ErrUnknownEngine, settings.MathEngine, name)
	}
	if name, ok := m.String(settings.PNGEngine); ok && name != "" && !c.registry.Has(mathrender.CapabilityRaster, name) {
		return fmt.Errorf("%w: %s %q", ErrUnknownEngine, settings.PNGEngine, name)
	}
	return nil
}
