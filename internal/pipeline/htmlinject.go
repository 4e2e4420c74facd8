package pipeline

import (
	"context"
	"fmt"
	"html"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
)

// htmlTemplate wraps Goldmark's fragment output in a complete HTML5 document.
const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
%s
</body>
</html>
`

// DefaultTitle is used for documents without a title.
const DefaultTitle = "Document"

// WrapDocument places an HTML body fragment in a full page. title is escaped.
func WrapDocument(title, body string) string {
	if strings.TrimSpace(title) == "" {
		title = DefaultTitle
	}
	return fmt.Sprintf(htmlTemplate, html.EscapeString(title), body)
}

// CSSInjector defines the contract for CSS injection into HTML.
type CSSInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
}

// CSSInjection injects CSS as a <style> block into HTML content.
type CSSInjection struct{}

// InjectCSS inserts a <style> block into HTML content.
// CSS content is sanitized so it cannot close the style element.
func (s *CSSInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if cssContent == "" || ctx.Err() != nil {
		return htmlContent
	}
	return injectHead(htmlContent, "<style>"+sanitizeCSS(cssContent)+"</style>")
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// InjectMathJax adds the MathJax loader script to the document head.
// Deferred math scripts in the body are typeset by it on load.
func InjectMathJax(ctx context.Context, htmlContent, url string) string {
	if url == "" || ctx.Err() != nil {
		return htmlContent
	}
	script := `<script type="text/javascript" src="` + html.EscapeString(url) + `"></script>`
	return injectHead(htmlContent, script)
}

// InjectStylesheet links an external stylesheet from the document head.
func InjectStylesheet(ctx context.Context, htmlContent, href string) string {
	if href == "" || ctx.Err() != nil {
		return htmlContent
	}
	link := `<link rel="stylesheet" type="text/css" href="` + html.EscapeString(href) + `">`
	return injectHead(htmlContent, link)
}

// injectHead inserts block before </head>, after <body> when there is no
// head, or prepends it.
func injectHead(htmlContent, block string) string {
	lowerHTML := strings.ToLower(htmlContent)

	if idx := strings.Index(lowerHTML, "</head>"); idx != -1 {
		return htmlContent[:idx] + block + htmlContent[idx:]
	}

	if idx := strings.Index(lowerHTML, "<body"); idx != -1 {
		if closeIdx := strings.Index(htmlContent[idx:], ">"); closeIdx != -1 {
			insertPos := idx + closeIdx + 1
			return htmlContent[:insertPos] + block + htmlContent[insertPos:]
		}
	}

	return block + htmlContent
}

// HighlightCSS returns the stylesheet for chroma's class-based code output.
// Unknown style names fall back to chroma's default style.
func HighlightCSS(style string) (string, error) {
	if style == "" {
		style = DefaultHighlightStyle
	}
	var buf strings.Builder
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&buf, styles.Get(style)); err != nil {
		return "", fmt.Errorf("writing %s highlight css: %w", style, err)
	}
	return buf.String(), nil
}
