package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/charmbracelet/log"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/dgleich/maruku/internal/mathext"
	"github.com/dgleich/maruku/internal/mathrender"
)

// ErrHTMLConversion indicates HTML conversion failed.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// DefaultHighlightStyle is the chroma style used for code blocks.
const DefaultHighlightStyle = "github"

// HTMLConverter abstracts Markdown to HTML conversion.
type HTMLConverter interface {
	ToHTML(ctx context.Context, content string, st *mathext.State) (string, error)
}

// ConverterOptions configures a GoldmarkConverter.
type ConverterOptions struct {
	Math           *mathrender.Renderer // nil = "none" engine only
	Logger         *log.Logger
	HighlightStyle string
}

// GoldmarkConverter converts Markdown to an HTML body fragment using goldmark.
// Safe for concurrent use; per-document state travels in the parser context.
type GoldmarkConverter struct {
	md goldmark.Markdown
}

// NewGoldmarkConverter creates a GoldmarkConverter with GFM, footnotes,
// syntax highlighting and the math extension.
func NewGoldmarkConverter(opts ConverterOptions) *GoldmarkConverter {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.HighlightStyle == "" {
		opts.HighlightStyle = DefaultHighlightStyle
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,      // Tables, strikethrough, autolinks, task lists
			extension.Footnote, // [^1] footnotes
			highlighting.NewHighlighting(
				highlighting.WithStyle(opts.HighlightStyle),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true), // styled by the stylesheet from HighlightCSS
				),
			),
			mathext.New(
				mathext.WithRenderer(opts.Math),
				mathext.WithLogger(opts.Logger),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(), // Heading ids are \ref targets
			parser.WithAttribute(),     // {#id} on headings
		),
	)
	return &GoldmarkConverter{md: md}
}

// ToHTML converts Markdown content to an HTML body fragment. Labels and
// document errors are recorded in st; a nil st uses default settings.
// Supports context cancellation via goroutine + select pattern since
// Goldmark doesn't natively support context.
func (c *GoldmarkConverter) ToHTML(ctx context.Context, content string, st *mathext.State) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	pc := parser.NewContext()
	if st != nil {
		mathext.SetState(pc, st)
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(content), &buf, parser.WithContext(pc)); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}
