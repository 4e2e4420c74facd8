package pipeline

import (
	"context"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestWrapDocument - Page template
// ---------------------------------------------------------------------------

func TestWrapDocument(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name, title, want string
	}{
		{"plain title", "Notes", "<title>Notes</title>"},
		{"escaped title", "a < b & c", "<title>a &lt; b &amp; c</title>"},
		{"empty title", "  ", "<title>Document</title>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := WrapDocument(tt.title, "<p>x</p>")
			if !strings.Contains(got, tt.want) {
				t.Errorf("page missing %q:\n%s", tt.want, got)
			}
			if !strings.Contains(got, "<body>\n<p>x</p>\n</body>") {
				t.Errorf("body not wrapped:\n%s", got)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestInjectCSS / TestInjectMathJax - Head injection
// ---------------------------------------------------------------------------

func TestInjectCSS(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := &CSSInjection{}

	tests := []struct {
		name string
		html string
		css  string
		want string
	}{
		{"before head close", "<html><head></head><body></body></html>", "p{}", "<head><style>p{}</style></head>"},
		{"after body open", `<body class="x"><p>a</p></body>`, "p{}", `<body class="x"><style>p{}</style><p>a</p>`},
		{"prepended", "<p>a</p>", "p{}", "<style>p{}</style><p>a</p>"},
		{"sanitized", "<head></head>", "</style><script>", `<style><\/style><script></style>`},
		{"empty css", "<head></head>", "", "<head></head>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := c.InjectCSS(ctx, tt.html, tt.css); !strings.Contains(got, tt.want) {
				t.Errorf("InjectCSS() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestInject_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	const page = "<head></head>"
	if got := (&CSSInjection{}).InjectCSS(ctx, page, "p{}"); got != page {
		t.Errorf("InjectCSS() with cancelled context = %q", got)
	}
	if got := InjectMathJax(ctx, page, "https://x/MathJax.js"); got != page {
		t.Errorf("InjectMathJax() with cancelled context = %q", got)
	}
}

func TestInjectMathJax(t *testing.T) {
	t.Parallel()

	got := InjectMathJax(context.Background(), "<head></head>", `https://cdn.example/MathJax.js?config=a&b="c"`)
	want := `<script type="text/javascript" src="https://cdn.example/MathJax.js?config=a&amp;b=&#34;c&#34;"></script></head>`
	if !strings.Contains(got, want) {
		t.Errorf("InjectMathJax() = %q, want it to contain %q", got, want)
	}
	if got := InjectMathJax(context.Background(), "<head></head>", ""); got != "<head></head>" {
		t.Errorf("empty url should not inject, got %q", got)
	}
}

func TestInjectStylesheet(t *testing.T) {
	t.Parallel()

	got := InjectStylesheet(context.Background(), "<head></head><body></body>", "print.css")
	want := `<link rel="stylesheet" type="text/css" href="print.css"></head>`
	if !strings.Contains(got, want) {
		t.Errorf("InjectStylesheet() = %q, want it to contain %q", got, want)
	}
}

// ---------------------------------------------------------------------------
// TestHighlightCSS - Chroma stylesheet
// ---------------------------------------------------------------------------

func TestHighlightCSS(t *testing.T) {
	t.Parallel()

	for _, style := range []string{"", "monokai", "no-such-style"} {
		css, err := HighlightCSS(style)
		if err != nil {
			t.Fatalf("HighlightCSS(%q) error = %v", style, err)
		}
		if !strings.Contains(css, ".chroma") {
			t.Errorf("HighlightCSS(%q) has no .chroma rules", style)
		}
	}
}
