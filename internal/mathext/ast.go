package mathext

import (
	"github.com/yuin/goldmark/ast"

	"github.com/dgleich/maruku/internal/mathrender"
)

// Node kinds registered by the extension.
var (
	KindInlineMath = ast.NewNodeKind("InlineMath")
	KindEquation   = ast.NewNodeKind("Equation")
	KindRef        = ast.NewNodeKind("MathRef")
)

// InlineMath is a $...$ span.
type InlineMath struct {
	ast.BaseInline
	Math  mathrender.MathNode
	state *State
}

// NewInlineMath returns an inline math node for tex.
func NewInlineMath(tex string) *InlineMath {
	return &InlineMath{Math: mathrender.MathNode{Kind: mathrender.KindInline, TeX: tex}}
}

// Kind implements ast.Node.
func (n *InlineMath) Kind() ast.NodeKind { return KindInlineMath }

// Dump implements ast.Node.
func (n *InlineMath) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"TeX": n.Math.TeX}, nil)
}

// Equation is a $$...$$ display block with an optional label.
type Equation struct {
	ast.BaseBlock
	Math   mathrender.MathNode
	closed bool
	state  *State
}

// NewEquation returns an empty display equation.
func NewEquation() *Equation {
	return &Equation{Math: mathrender.MathNode{Kind: mathrender.KindEquation}}
}

// Kind implements ast.Node.
func (n *Equation) Kind() ast.NodeKind { return KindEquation }

// IsRaw keeps goldmark from parsing the TeX as inline markdown.
func (n *Equation) IsRaw() bool { return true }

// Dump implements ast.Node.
func (n *Equation) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"TeX":   n.Math.TeX,
		"Label": n.Math.Label,
	}, nil)
}

// RefKind tells equation references from division references.
type RefKind uint8

const (
	RefEquation RefKind = iota // \eqref{id} or (eq:id)
	RefDivision                // \ref{id}
)

// Ref is a cross-reference resolved at render time.
type Ref struct {
	ast.BaseInline
	RefKind RefKind
	Target  string
	state   *State
}

// NewRef returns a reference node.
func NewRef(kind RefKind, target string) *Ref {
	return &Ref{RefKind: kind, Target: target}
}

// Kind implements ast.Node.
func (n *Ref) Kind() ast.NodeKind { return KindRef }

// Dump implements ast.Node.
func (n *Ref) Dump(source []byte, level int) {
	kind := "equation"
	if n.RefKind == RefDivision {
		kind = "division"
	}
	ast.DumpHelper(n, source, level, map[string]string{"Target": n.Target, "RefKind": kind}, nil)
}
