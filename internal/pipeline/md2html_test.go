package pipeline

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/dgleich/maruku/internal/mathext"
	"github.com/dgleich/maruku/internal/mathrender"
	"github.com/dgleich/maruku/internal/settings"
)

func newTestConverter() *GoldmarkConverter {
	logger := log.New(io.Discard)
	return NewGoldmarkConverter(ConverterOptions{
		Math:   mathrender.NewRenderer(nil, mathrender.WithLogger(logger), mathrender.WithBaseline(&mathrender.PixelBaseline{})),
		Logger: logger,
	})
}

// ---------------------------------------------------------------------------
// TestGoldmarkConverter_ToHTML - Markdown features
// ---------------------------------------------------------------------------

func TestGoldmarkConverter_ToHTML(t *testing.T) {
	t.Parallel()

	c := newTestConverter()

	tests := []struct {
		name string
		md   string
		want []string
	}{
		{
			name: "heading ids",
			md:   "# Hello World",
			want: []string{`<h1 id="hello-world">Hello World</h1>`},
		},
		{
			name: "explicit heading id",
			md:   "# Intro {#start}",
			want: []string{`<h1 id="start">Intro</h1>`},
		},
		{
			name: "gfm table",
			md:   "| a | b |\n|---|---|\n| 1 | 2 |",
			want: []string{"<table>", "<td>1</td>"},
		},
		{
			name: "highlighted code uses classes",
			md:   "```go\nfunc main() {}\n```",
			want: []string{`class="chroma"`},
		},
		{
			name: "inline math",
			md:   "Let $x$ be.",
			want: []string{`<span class="maruku-inline"><code class="maruku-mathml">x</code></span>`},
		},
		{
			name: "equation and reference",
			md:   "$$ a^2 $$ (sq)\n\nSee \\eqref{sq}.",
			want: []string{`id="eq:sq"`, `<a class="maruku-eqref" href="#eq:sq">(1)</a>`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := c.ToHTML(context.Background(), tt.md, nil)
			if err != nil {
				t.Fatalf("ToHTML() error = %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("output missing %q:\n%s", want, got)
				}
			}
		})
	}
}

func TestGoldmarkConverter_ToHTML_State(t *testing.T) {
	t.Parallel()

	st := mathext.NewState(settings.Map{settings.OutputMathML: false, settings.OutputMathJax: true})
	got, err := newTestConverter().ToHTML(context.Background(), "$y$ and \\ref{nowhere}", st)
	if err != nil {
		t.Fatalf("ToHTML() error = %v", err)
	}

	if !strings.Contains(got, `<script type="math/tex">y</script>`) {
		t.Errorf("document settings ignored:\n%s", got)
	}
	if !errors.Is(st.Diagnostics.Err(), mathrender.ErrUnresolvedDivision) {
		t.Errorf("diagnostics = %v, want ErrUnresolvedDivision", st.Diagnostics.Err())
	}
}

func TestGoldmarkConverter_ToHTML_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestConverter().ToHTML(ctx, "# x", nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ToHTML() error = %v, want context.Canceled", err)
	}
}

// ---------------------------------------------------------------------------
// TestPreprocessMarkdown - Line endings and blank lines
// ---------------------------------------------------------------------------

func TestPreprocessMarkdown(t *testing.T) {
	t.Parallel()

	p := &CommonMarkPreprocessor{}

	tests := []struct {
		name, in, want string
	}{
		{"crlf", "a\r\nb\r\n", "a\nb\n"},
		{"bare cr", "a\rb", "a\nb"},
		{"blank lines compressed", "a\n\n\n\nb", "a\n\nb"},
		{"single blank line kept", "a\n\nb", "a\n\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := p.PreprocessMarkdown(context.Background(), tt.in); got != tt.want {
				t.Errorf("PreprocessMarkdown(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPreprocessMarkdown_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	in := "a\r\n\n\n\nb"
	if got := (&CommonMarkPreprocessor{}).PreprocessMarkdown(ctx, in); got != in {
		t.Errorf("cancelled preprocess changed content: %q", got)
	}
}
