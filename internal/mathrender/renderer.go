package mathrender

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dgleich/maruku/internal/settings"
)

// Output classes.
const (
	ClassInline    = "maruku-inline"
	ClassEquation  = "maruku-equation"
	ClassPNG       = "maruku-png"
	ClassMathML    = "maruku-mathml"
	ClassEqNumber  = "maruku-eq-number"
	ClassEqTeX     = "maruku-eq-tex"
	ClassEqRef     = "maruku-eqref"
	ClassRef       = "maruku-ref"
	ClassMJPreview = "MathJax_Preview"
)

// MathNode is a math span or display equation. Number is assigned by the
// numbering pass and only read here.
type MathNode struct {
	Kind   Kind
	TeX    string
	Label  string
	Number int
}

// AnchorID returns the element id of a labeled equation ("eq:<label>").
func (n *MathNode) AnchorID() string {
	return "eq:" + n.Label
}

// Renderer builds HTML fragments for math nodes. It holds no per-node state.
type Renderer struct {
	registry *Registry
	baseline *PixelBaseline
	logger   *log.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithBaseline replaces the process-wide DefaultBaseline.
func WithBaseline(b *PixelBaseline) Option {
	return func(r *Renderer) {
		if b != nil {
			r.baseline = b
		}
	}
}

// WithLogger sets the logger for advisory notices.
func WithLogger(l *log.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRenderer creates a Renderer resolving engines from reg.
// A nil reg gets a registry with only the "none" engine.
func NewRenderer(reg *Registry, opts ...Option) *Renderer {
	if reg == nil {
		reg = NewRegistry()
	}
	r := &Renderer{
		registry: reg,
		baseline: DefaultBaseline,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Registry returns the engine registry used by r.
func (r *Renderer) Registry() *Registry { return r.registry }

// Baseline returns the pixel baseline used by r.
func (r *Renderer) Baseline() *PixelBaseline { return r.baseline }

// Render dispatches on the node kind. A nil lookup uses settings.Defaults.
// It always returns a node; missing engines only reduce what it contains.
func (r *Renderer) Render(n *MathNode, s settings.Lookup) *html.Node {
	if s == nil {
		s = settings.Defaults()
	}
	if n.Kind == KindEquation {
		return r.RenderEquation(n, s)
	}
	return r.RenderInline(n, s)
}

// RenderInline renders an inline math span.
func (r *Renderer) RenderInline(n *MathNode, s settings.Lookup) *html.Node {
	markup, img, script := r.renderParts(n, s, true)
	plan := ComposeInline(Parts{Markup: markup != nil, Raster: img != nil, Script: script != nil})

	span := element(atom.Span, "class", ClassInline)
	switch plan.Composition {
	case CompositionMarkupOnly:
		addClass(markup, ClassMathML)
		appendChild(span, markup)
	case CompositionRasterPlusScript:
		if plan.Raster {
			appendChild(span, img)
		}
		if plan.Script {
			appendChild(span, script)
		}
	}
	return span
}

// RenderEquation renders a display equation.
func (r *Renderer) RenderEquation(n *MathNode, s settings.Lookup) *html.Node {
	markup, img, script := r.renderParts(n, s, false)
	plan := ComposeEquation(Parts{Markup: markup != nil, Raster: img != nil, Script: script != nil})

	if plan.Composition == CompositionScriptOnly {
		span := element(atom.Span, "class", ClassEquation)
		appendChild(span, script)
		return span
	}

	div := element(atom.Div, "class", ClassEquation)
	if plan.Markup {
		if n.Label != "" {
			appendChild(div, r.numberBadge(n))
			setAttr(div, "id", n.AnchorID())
		}
		addClass(markup, ClassMathML)
		appendChild(div, markup)
	}
	if plan.Raster {
		appendChild(div, img)
		// Each active output carries its own badge; the id is set once.
		if n.Label != "" {
			appendChild(div, r.numberBadge(n))
			setAttr(div, "id", n.AnchorID())
		}
	}

	source := element(atom.Span, "class", ClassEqTeX)
	code := None(KindEquation, n.TeX)
	setAttr(code, "style", "display: none")
	appendChild(source, code)
	appendChild(div, source)

	return div
}

// renderParts attempts each enabled output. Disabled or unavailable outputs are nil.
func (r *Renderer) renderParts(n *MathNode, s settings.Lookup, useDepth bool) (markup, img, script *html.Node) {
	if settings.BoolOr(s, settings.OutputMathML, true) {
		markup = r.renderMarkup(n.Kind, n.TeX, settings.StringOr(s, settings.MathEngine, NoneEngineName))
	}
	if settings.BoolOr(s, settings.OutputPNG, false) {
		img = r.renderImage(n, settings.StringOr(s, settings.PNGEngine, ""), useDepth)
	}
	if settings.BoolOr(s, settings.OutputMathJax, false) {
		script = RenderScript(n.Kind, n.TeX)
	}
	return markup, img, script
}

// renderMarkup never returns nil: a missing engine, an empty result or an
// engine error all fall back to the none engine.
func (r *Renderer) renderMarkup(kind Kind, tex, engine string) *html.Node {
	fn, err := r.registry.Markup(engine)
	if err != nil {
		r.logger.Warn("math engine not found, falling back to none",
			"engine", engine, "method", MethodName(CapabilityMarkup, engine))
		return None(kind, tex)
	}

	node, err := fn(kind, tex)
	if err != nil {
		r.logger.Warn("math engine failed, falling back to none", "engine", engine, "err", err)
		return None(kind, tex)
	}
	if node == nil {
		return None(kind, tex)
	}
	return node
}

// RenderRaster calls the named raster engine. It returns nil when the engine
// is missing, fails or produces nothing.
func (r *Renderer) RenderRaster(kind Kind, tex, engine string) *RasterDescriptor {
	fn, err := r.registry.Raster(engine)
	if err != nil {
		r.logger.Debug("png engine not found", "engine", engine, "method", MethodName(CapabilityRaster, engine))
		return nil
	}
	d, err := fn(kind, tex)
	if err != nil {
		r.logger.Warn("png engine failed", "engine", engine, "err", err)
		return nil
	}
	return d
}

// PixelsPerEx returns the baseline, measuring it with engine on first use.
func (r *Renderer) PixelsPerEx(engine string) (float64, error) {
	return r.baseline.Ensure(func() (float64, error) {
		v, err := r.measureBaseline(engine)
		if err != nil {
			r.logger.Warn("cannot measure pixel baseline, png output disabled", "engine", engine, "err", err)
			return 0, err
		}
		r.logger.Debug("measured pixel baseline", "engine", engine, "pixelsPerEx", v)
		return v, nil
	})
}

func (r *Renderer) measureBaseline(engine string) (float64, error) {
	fn, err := r.registry.Raster(engine)
	if err != nil {
		return 0, err
	}
	d, err := fn(KindInline, "x")
	if err != nil {
		return 0, err
	}
	if d == nil {
		return 0, ErrNoBaseline
	}
	if d.HeightPx <= 0 {
		return 0, fmt.Errorf("%w: measured height %v", ErrNoBaseline, d.HeightPx)
	}
	return d.HeightPx, nil
}

func (r *Renderer) renderImage(n *MathNode, engine string, useDepth bool) *html.Node {
	d := r.RenderRaster(n.Kind, n.TeX, engine)
	if d == nil {
		return nil
	}

	ppe, err := r.PixelsPerEx(engine)
	if err != nil {
		r.logger.Debug("skipping png output", "engine", engine, "err", err)
		return nil
	}
	style, err := ToLayoutStyle(*d, useDepth, ppe)
	if err != nil {
		r.logger.Warn("skipping png output", "engine", engine, "err", err)
		return nil
	}

	return element(atom.Img,
		"src", d.SourceURL,
		"style", style.CSS(),
		"alt", "$"+strings.TrimSpace(n.TeX)+"$",
		"class", ClassPNG,
	)
}

func (r *Renderer) numberBadge(n *MathNode) *html.Node {
	span := element(atom.Span, "class", ClassEqNumber)
	span.AppendChild(textNode("(" + strconv.Itoa(n.Number) + ")"))
	return span
}

// RenderScript builds the deferred MathJax rendering. Equations get a
// preview span showing the source until MathJax replaces it.
func RenderScript(kind Kind, tex string) *html.Node {
	body := scriptBody(strings.TrimSpace(tex))

	if kind != KindEquation {
		script := element(atom.Script, "type", "math/tex")
		script.AppendChild(textNode(body))
		return script
	}

	preview := element(atom.Span, "class", ClassMJPreview)
	appendChild(preview, None(KindEquation, tex))

	script := element(atom.Script, "type", "math/tex; mode=display")
	script.AppendChild(textNode(body))

	wrapper := element(atom.Span)
	appendChild(wrapper, preview)
	appendChild(wrapper, script)
	return wrapper
}
