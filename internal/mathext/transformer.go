package mathext

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/dgleich/maruku/internal/mathrender"
)

type numberingTransformer struct{}

// NewNumberingTransformer returns the numbering pass. It numbers labeled
// equations and headings in document order, fills the label tables and
// attaches the document State to every math and reference node.
func NewNumberingTransformer() parser.ASTTransformer {
	return numberingTransformer{}
}

func (numberingTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	st := StateFrom(pc)
	sections := st.Divisions.Group(GroupSection)
	equations, headings := 0, 0

	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := node.(type) {
		case *Equation:
			n.state = st
			if n.Math.Label == "" {
				break
			}
			equations++
			n.Math.Number = equations
			st.Diagnostics.Add(st.Equations.Register(&n.Math))
		case *InlineMath:
			n.state = st
		case *Ref:
			n.state = st
		case *ast.Heading:
			headings++
			if id, ok := headingID(n); ok {
				sections.Add(mathrender.Division{ID: id, Number: headings})
			}
		}
		return ast.WalkContinue, nil
	})
}

func headingID(h *ast.Heading) (string, bool) {
	v, ok := h.AttributeString("id")
	if !ok {
		return "", false
	}
	switch id := v.(type) {
	case []byte:
		return string(id), len(id) > 0
	case string:
		return id, id != ""
	}
	return "", false
}
