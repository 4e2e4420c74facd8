package pipeline

import (
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RebasePaths rewrites relative img[src] and a[href] values in an HTML body
// fragment so they still resolve when the page is written to outputDir
// instead of sourceDir. Equal or empty directories return the fragment
// unchanged. Paths escaping sourceDir, URLs, anchors and absolute paths are
// left alone.
func RebasePaths(fragment, sourceDir, outputDir string) (string, error) {
	if sourceDir == "" || outputDir == "" {
		return fragment, nil
	}

	absSource, err := filepath.Abs(sourceDir)
	if err != nil {
		return "", err
	}
	absOutput, err := filepath.Abs(outputDir)
	if err != nil {
		return "", err
	}
	if absSource == absOutput {
		return fragment, nil
	}

	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	for _, n := range nodes {
		rewriteNode(n, absSource, absOutput)
		if err := html.Render(&buf, n); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// rewriteNode traverses the DOM and rewrites relative paths.
func rewriteNode(n *html.Node, sourceDir, outputDir string) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Img:
			rewriteAttr(n, "src", sourceDir, outputDir)
		case atom.A:
			rewriteAttr(n, "href", sourceDir, outputDir)
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rewriteNode(c, sourceDir, outputDir)
	}
}

// rewriteAttr rewrites a single attribute if it's a relative path.
func rewriteAttr(n *html.Node, attrName, sourceDir, outputDir string) {
	for i, attr := range n.Attr {
		if attr.Key != attrName || !isRelativePath(attr.Val) {
			continue
		}

		target := filepath.Join(sourceDir, attr.Val)
		if !isPathUnderDir(target, sourceDir) {
			continue
		}
		rel, err := filepath.Rel(outputDir, target)
		if err != nil {
			continue
		}
		n.Attr[i].Val = filepath.ToSlash(rel)
	}
}

// isRelativePath returns true if the path should be rewritten.
func isRelativePath(path string) bool {
	if path == "" {
		return false
	}

	// URLs (http, https, file, data, mailto, protocol-relative) and anchors
	for _, prefix := range []string{"http://", "https://", "file://", "data:", "mailto:", "//", "#"} {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}

	return !filepath.IsAbs(path)
}

// isPathUnderDir checks if absPath is under dir (prevents path traversal).
func isPathUnderDir(absPath, dir string) bool {
	cleanPath := filepath.Clean(absPath)
	cleanDir := filepath.Clean(dir)

	if !strings.HasSuffix(cleanDir, string(filepath.Separator)) {
		cleanDir += string(filepath.Separator)
	}

	return strings.HasPrefix(cleanPath+string(filepath.Separator), cleanDir)
}
