package mathrender

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// element creates an element node with attributes given as key/value pairs.
func element(a atom.Atom, kv ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(kv); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: kv[i], Val: kv[i+1]})
	}
	return n
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// scriptBody escapes sequences that would close a <script> element early.
func scriptBody(s string) string {
	return strings.ReplaceAll(s, "</", `<\/`)
}

// setAttr sets key on n, replacing an existing value.
func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// addClass appends class to the class attribute of n.
func addClass(n *html.Node, class string) {
	if n == nil || n.Type != html.ElementNode {
		return
	}
	for i := range n.Attr {
		if n.Attr[i].Key == "class" {
			for _, c := range strings.Fields(n.Attr[i].Val) {
				if c == class {
					return
				}
			}
			if n.Attr[i].Val == "" {
				n.Attr[i].Val = class
			} else {
				n.Attr[i].Val += " " + class
			}
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: class})
}

// appendChild attaches c to n, detaching it from any previous parent.
func appendChild(n, c *html.Node) {
	if c == nil {
		return
	}
	if c.Parent != nil {
		c.Parent.RemoveChild(c)
	}
	n.AppendChild(c)
}

// RenderHTML serialises a fragment. A nil node renders as the empty string.
func RenderHTML(n *html.Node) (string, error) {
	if n == nil {
		return "", nil
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
