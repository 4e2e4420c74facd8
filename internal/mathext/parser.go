package mathext

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

var dollars = []byte("$$")

// labelPattern matches "(label)" after a closing $$.
var labelPattern = regexp.MustCompile(`^\s*\(([^\s()]+)\)`)

type equationParser struct{}

// NewEquationParser returns a block parser for $$...$$ equations.
// The closing $$ may be followed by "(label)" and an attribute list.
func NewEquationParser() parser.BlockParser {
	return &equationParser{}
}

func (p *equationParser) Trigger() []byte {
	return []byte{'$'}
}

func (p *equationParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || !bytes.HasPrefix(line[pos:], dollars) {
		return nil, parser.NoChildren
	}

	node := NewEquation()
	rest := line[pos+len(dollars):]
	if idx := bytes.Index(rest, dollars); idx >= 0 {
		node.appendTeX(rest[:idx])
		node.finish(rest[idx+len(dollars):])
		reader.Advance(segment.Len() - 1)
		return node, parser.Close | parser.NoChildren
	}

	node.appendTeX(rest)
	reader.Advance(segment.Len() - 1)
	return node, parser.NoChildren
}

func (p *equationParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	eq := node.(*Equation)
	if eq.closed {
		return parser.Close
	}

	line, segment := reader.PeekLine()
	if line == nil {
		return parser.Close
	}
	if idx := bytes.Index(line, dollars); idx >= 0 {
		eq.appendTeX(line[:idx])
		eq.finish(line[idx+len(dollars):])
		reader.Advance(segment.Len() - 1)
		return parser.Close
	}

	eq.appendTeX(line)
	reader.Advance(segment.Len() - 1)
	return parser.Continue | parser.NoChildren
}

func (p *equationParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {
	eq := node.(*Equation)
	eq.Math.TeX = strings.TrimSpace(eq.Math.TeX)
}

func (p *equationParser) CanInterruptParagraph() bool { return true }

func (p *equationParser) CanAcceptIndentedLine() bool { return false }

func (n *Equation) appendTeX(b []byte) {
	n.Math.TeX += string(b)
}

// finish parses what follows the closing $$: an optional label and an
// optional attribute list used as node-local settings.
func (n *Equation) finish(trailer []byte) {
	n.closed = true
	if m := labelPattern.FindSubmatchIndex(trailer); m != nil {
		n.Math.Label = string(trailer[m[2]:m[3]])
		trailer = trailer[m[1]:]
	}
	trailer = util.TrimLeftSpace(trailer)
	if len(trailer) == 0 || trailer[0] != '{' {
		return
	}
	attrs, ok := parser.ParseAttributes(text.NewReader(trailer))
	if !ok {
		return
	}
	for _, a := range attrs {
		n.SetAttribute(a.Name, a.Value)
	}
}

type inlineMathParser struct{}

// NewInlineMathParser returns an inline parser for $...$ spans. The opening
// $ must not be followed by a space and the closing $ must not be preceded
// by a space or followed by a digit, so "$5 and $6" stays text.
func NewInlineMathParser() parser.InlineParser {
	return &inlineMathParser{}
}

func (p *inlineMathParser) Trigger() []byte {
	return []byte{'$'}
}

func (p *inlineMathParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, _ := block.PeekLine()
	if len(line) < 3 || line[1] == '$' || util.IsSpace(line[1]) {
		return nil
	}

	for i := 1; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case '$':
			if util.IsSpace(line[i-1]) {
				return nil
			}
			if i+1 < len(line) && line[i+1] >= '0' && line[i+1] <= '9' {
				return nil
			}
			node := NewInlineMath(string(line[1:i]))
			block.Advance(i + 1)
			return node
		}
	}
	return nil
}

var (
	texRefPattern   = regexp.MustCompile(`^\\(eqref|ref)\{([^{}\s]+)\}`)
	parenRefPattern = regexp.MustCompile(`^\(eq:([^()\s]+)\)`)
)

type refParser struct{}

// NewRefParser returns an inline parser for \eqref{id}, (eq:id) and \ref{id}.
func NewRefParser() parser.InlineParser {
	return &refParser{}
}

func (p *refParser) Trigger() []byte {
	return []byte{'\\', '('}
}

func (p *refParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, _ := block.PeekLine()

	if m := texRefPattern.FindSubmatch(line); m != nil {
		kind := RefEquation
		if string(m[1]) == "ref" {
			kind = RefDivision
		}
		block.Advance(len(m[0]))
		return NewRef(kind, string(m[2]))
	}
	if m := parenRefPattern.FindSubmatch(line); m != nil {
		block.Advance(len(m[0]))
		return NewRef(RefEquation, string(m[1]))
	}
	return nil
}
