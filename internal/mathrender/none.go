package mathrender

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// None renders TeX source as inert text inside <code>, without interpreting it.
// It backs the "none" engine, the hidden equation source and MathJax previews.
func None(_ Kind, tex string) *html.Node {
	code := element(atom.Code)
	code.AppendChild(textNode(strings.TrimSpace(tex)))
	return code
}
