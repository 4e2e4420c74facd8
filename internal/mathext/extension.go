// Package mathext is a goldmark extension for maruku-style math.
//
// Syntax:
//
//	inline      $e^{i\pi}$
//	equation    $$ E = mc^2 $$ (einstein) {html_math_engine=none}
//	references  \eqref{einstein}  (eq:einstein)  \ref{section-id}
//
// A multi-line equation opens with a line starting with $$ and ends at the
// next line containing $$. The "(label)" and the attribute list after the
// closing $$ are optional; attributes act as node-local settings.
//
// Labeled equations and headings are numbered by an AST transformer before
// rendering, so references may point forward in the document.
package mathext

import (
	"github.com/charmbracelet/log"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
	"golang.org/x/net/html"

	"github.com/dgleich/maruku/internal/mathrender"
)

// Extension wires the math parsers, numbering pass and renderers into goldmark.
type Extension struct {
	math   *mathrender.Renderer
	logger *log.Logger
}

// Option configures an Extension.
type Option func(*Extension)

// WithRenderer sets the math renderer (and with it the engine registry).
func WithRenderer(r *mathrender.Renderer) Option {
	return func(e *Extension) { e.math = r }
}

// WithLogger sets the logger used for reference errors.
func WithLogger(l *log.Logger) Option {
	return func(e *Extension) { e.logger = l }
}

// New returns an Extension. Without options it renders with the "none"
// engine only.
func New(opts ...Option) *Extension {
	e := &Extension{}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = log.Default()
	}
	if e.math == nil {
		e.math = mathrender.NewRenderer(nil, mathrender.WithLogger(e.logger))
	}
	return e
}

// Extend implements goldmark.Extender.
func (e *Extension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithBlockParsers(
			util.Prioritized(NewEquationParser(), 701),
		),
		parser.WithInlineParsers(
			util.Prioritized(NewInlineMathParser(), 501),
			util.Prioritized(NewRefParser(), 502),
		),
		parser.WithASTTransformers(
			util.Prioritized(NewNumberingTransformer(), 100),
		),
	)
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(NewNodeRenderer(e.math, e.logger), 500),
	))
}

// NodeRenderer writes math and reference nodes as HTML.
type NodeRenderer struct {
	math   *mathrender.Renderer
	logger *log.Logger
}

// NewNodeRenderer returns a goldmark node renderer backed by r.
func NewNodeRenderer(r *mathrender.Renderer, logger *log.Logger) renderer.NodeRenderer {
	return &NodeRenderer{math: r, logger: logger}
}

// RegisterFuncs implements renderer.NodeRenderer.
func (r *NodeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindInlineMath, r.renderInlineMath)
	reg.Register(KindEquation, r.renderEquation)
	reg.Register(KindRef, r.renderRef)
}

func (r *NodeRenderer) renderInlineMath(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*InlineMath)
	frag := r.math.Render(&n.Math, n.state.Lookup(n))
	return ast.WalkSkipChildren, html.Render(w, frag)
}

func (r *NodeRenderer) renderEquation(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*Equation)
	frag := r.math.Render(&n.Math, n.state.Lookup(n))
	if err := html.Render(w, frag); err != nil {
		return ast.WalkStop, err
	}
	_ = w.WriteByte('\n')
	return ast.WalkSkipChildren, nil
}

func (r *NodeRenderer) renderRef(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*Ref)
	resolver := n.state.Resolver(r.logger)

	var frag *html.Node
	if n.RefKind == RefDivision {
		frag = resolver.DivisionRef(n.Target)
	} else {
		frag = resolver.EquationRef(n.Target)
	}
	return ast.WalkSkipChildren, html.Render(w, frag)
}
