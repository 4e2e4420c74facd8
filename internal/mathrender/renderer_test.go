package mathrender_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dgleich/maruku/internal/mathrender"
	"github.com/dgleich/maruku/internal/settings"
)

// fakeRaster returns fixed metrics: "x" is 10px tall, anything else 20px
// above and 10px below the baseline.
func fakeRaster(kind mathrender.Kind, tex string) (*mathrender.RasterDescriptor, error) {
	if tex == "x" {
		return &mathrender.RasterDescriptor{SourceURL: "x.png", WidthPx: 8, HeightPx: 10}, nil
	}
	return &mathrender.RasterDescriptor{SourceURL: kind.String() + ".png", WidthPx: 40, HeightPx: 20, DepthPx: 10}, nil
}

func fakeMathML(_ mathrender.Kind, tex string) (*html.Node, error) {
	n := &html.Node{Type: html.ElementNode, DataAtom: atom.Math, Data: "math"}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: strings.TrimSpace(tex)})
	return n, nil
}

func newTestRenderer(t *testing.T, buf *bytes.Buffer) *mathrender.Renderer {
	t.Helper()
	reg := mathrender.NewRegistry()
	reg.RegisterRaster("fake", fakeRaster)
	reg.RegisterMarkup("fake", fakeMathML)
	return mathrender.NewRenderer(reg,
		mathrender.WithBaseline(&mathrender.PixelBaseline{}),
		mathrender.WithLogger(log.NewWithOptions(buf, log.Options{Level: log.WarnLevel})),
	)
}

func render(t *testing.T, r *mathrender.Renderer, n *mathrender.MathNode, s settings.Lookup) string {
	t.Helper()
	got, err := mathrender.RenderHTML(r.Render(n, s))
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	return got
}

func assertOrder(t *testing.T, got string, parts ...string) {
	t.Helper()
	pos := 0
	for _, p := range parts {
		i := strings.Index(got[pos:], p)
		if i < 0 {
			t.Fatalf("output %q missing %q after offset %d", got, p, pos)
		}
		pos += i + len(p)
	}
}

// ---------------------------------------------------------------------------
// TestRenderInline - Inline precedence rules
// ---------------------------------------------------------------------------

func TestRenderInline(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		s     settings.Map
		want  string
		check func(t *testing.T, got string)
	}{
		{
			name: "defaults use none engine",
			s:    settings.Defaults(),
			want: `<span class="maruku-inline"><code class="maruku-mathml">a^2</code></span>`,
		},
		{
			name: "markup wins over raster and script",
			s: settings.Map{
				settings.MathEngine: "fake", settings.PNGEngine: "fake",
				settings.OutputMathML: true, settings.OutputPNG: true, settings.OutputMathJax: true,
			},
			want: `<span class="maruku-inline"><math class="maruku-mathml">a^2</math></span>`,
		},
		{
			name: "raster and script together",
			s: settings.Map{
				settings.PNGEngine:    "fake",
				settings.OutputMathML: false, settings.OutputPNG: true, settings.OutputMathJax: true,
			},
			check: func(t *testing.T, got string) {
				assertOrder(t, got,
					`<span class="maruku-inline">`,
					`<img src="inline.png" style="vertical-align: -1ex;height: 3ex;" alt="$a^2$" class="maruku-png"`,
					`<script type="math/tex">a^2</script>`,
					`</span>`)
			},
		},
		{
			name: "script only",
			s:    settings.Map{settings.OutputMathML: false, settings.OutputMathJax: true},
			want: `<span class="maruku-inline"><script type="math/tex">a^2</script></span>`,
		},
		{
			name: "nothing enabled",
			s:    settings.Map{settings.OutputMathML: false},
			want: `<span class="maruku-inline"></span>`,
		},
		{
			name: "missing raster engine contributes nothing",
			s: settings.Map{
				settings.PNGEngine:    "blahtex",
				settings.OutputMathML: false, settings.OutputPNG: true,
			},
			want: `<span class="maruku-inline"></span>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			r := newTestRenderer(t, &buf)
			got := render(t, r, &mathrender.MathNode{Kind: mathrender.KindInline, TeX: " a^2 "}, tt.s)
			if tt.check != nil {
				tt.check(t, got)
				return
			}
			if got != tt.want {
				t.Errorf("got  %q\nwant %q", got, tt.want)
			}
		})
	}
}

func TestRenderInline_MissingMarkupEngineFallsBack(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := newTestRenderer(t, &buf)
	s := settings.Map{settings.MathEngine: "itex2mml", settings.OutputMathML: true}

	got := render(t, r, &mathrender.MathNode{Kind: mathrender.KindInline, TeX: `\alpha`}, s)

	want := `<span class="maruku-inline"><code class="maruku-mathml">\alpha</code></span>`
	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
	if n := strings.Count(buf.String(), "WARN"); n != 1 {
		t.Errorf("advisory notices = %d, want 1; log:\n%s", n, buf.String())
	}
	if !strings.Contains(buf.String(), "convert_to_mathml_itex2mml") {
		t.Errorf("notice should name the missing method; log:\n%s", buf.String())
	}
}

func TestRenderInline_FailingEngineFallsBack(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := newTestRenderer(t, &buf)
	r.Registry().RegisterMarkup("broken", func(mathrender.Kind, string) (*html.Node, error) {
		return nil, errors.New("boom")
	})
	r.Registry().RegisterMarkup("empty", func(mathrender.Kind, string) (*html.Node, error) {
		return nil, nil
	})

	for _, engine := range []string{"broken", "empty"} {
		got := render(t, r, &mathrender.MathNode{Kind: mathrender.KindInline, TeX: "y"},
			settings.Map{settings.MathEngine: engine})
		if !strings.Contains(got, `<code class="maruku-mathml">y</code>`) {
			t.Errorf("%s: got %q, want none fallback", engine, got)
		}
	}
}

// ---------------------------------------------------------------------------
// TestRenderEquation - Block equation assembly
// ---------------------------------------------------------------------------

func TestRenderEquation_RasterOnlyLabeled(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := newTestRenderer(t, &buf)
	s := settings.Map{settings.PNGEngine: "fake", settings.OutputMathML: false, settings.OutputPNG: true}
	n := &mathrender.MathNode{Kind: mathrender.KindEquation, TeX: "\n E = mc^2 \n", Label: "e1", Number: 2}

	got := render(t, r, n, s)

	assertOrder(t, got,
		`<div class="maruku-equation" id="eq:e1">`,
		`<img src="equation.png" style="height: 3ex;" alt="$E = mc^2$" class="maruku-png"`,
		`<span class="maruku-eq-number">(2)</span>`,
		`<span class="maruku-eq-tex"><code style="display: none">E = mc^2</code></span>`,
		`</div>`)
}

func TestRenderEquation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		s      settings.Map
		label  string
		want   []string
		deny   []string
		badges int
	}{
		{
			name:   "markup labeled puts badge first",
			s:      settings.Map{settings.MathEngine: "fake"},
			label:  "euler",
			badges: 1,
			want: []string{
				`<div class="maruku-equation" id="eq:euler">`,
				`<span class="maruku-eq-number">(7)</span>`,
				`<math class="maruku-mathml">e^{i\pi}+1=0</math>`,
				`<span class="maruku-eq-tex">`,
			},
		},
		{
			name: "unlabeled has no id or badge",
			s:    settings.Map{settings.MathEngine: "none"},
			want: []string{
				`<div class="maruku-equation"><code class="maruku-mathml">e^{i\pi}+1=0</code>`,
				`<span class="maruku-eq-tex"><code style="display: none">e^{i\pi}+1=0</code></span></div>`,
			},
			deny: []string{"maruku-eq-number", "id="},
		},
		{
			name: "markup and raster each carry a badge, id once",
			s: settings.Map{
				settings.MathEngine: "fake", settings.PNGEngine: "fake",
				settings.OutputPNG: true,
			},
			label: "euler",
			want: []string{
				`<div class="maruku-equation" id="eq:euler">`,
				`<span class="maruku-eq-number">(7)</span>`,
				`<math class="maruku-mathml">`,
				`<img src="equation.png"`,
				`<span class="maruku-eq-number">(7)</span>`,
				`<span class="maruku-eq-tex">`,
			},
			badges: 2,
		},
		{
			name: "script takes precedence and numbers itself",
			s: settings.Map{
				settings.MathEngine: "fake", settings.PNGEngine: "fake",
				settings.OutputPNG: true, settings.OutputMathJax: true,
			},
			label: "euler",
			want: []string{
				`<span class="maruku-equation"><span>`,
				`<span class="MathJax_Preview"><code>e^{i\pi}+1=0</code></span>`,
				`<script type="math/tex; mode=display">e^{i\pi}+1=0</script>`,
				`</span></span>`,
			},
			deny: []string{"maruku-eq-number", "maruku-eq-tex", "<math", "<img", "<div"},
		},
		{
			name: "nothing enabled still emits hidden source",
			s:    settings.Map{settings.OutputMathML: false},
			want: []string{
				`<div class="maruku-equation"><span class="maruku-eq-tex">`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			r := newTestRenderer(t, &buf)
			n := &mathrender.MathNode{Kind: mathrender.KindEquation, TeX: ` e^{i\pi}+1=0 `, Label: tt.label, Number: 7}
			got := render(t, r, n, tt.s)

			assertOrder(t, got, tt.want...)
			for _, d := range tt.deny {
				if strings.Contains(got, d) {
					t.Errorf("output %q should not contain %q", got, d)
				}
			}
			if c := strings.Count(got, "maruku-eq-number"); c != tt.badges {
				t.Errorf("number badge emitted %d times, want %d", c, tt.badges)
			}
			if c := strings.Count(got, `id="eq:`); c > 1 {
				t.Errorf("anchor id emitted %d times", c)
			}
		})
	}
}

func TestRender_Idempotent(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := newTestRenderer(t, &buf)
	s := settings.Map{
		settings.MathEngine: "fake", settings.PNGEngine: "fake",
		settings.OutputPNG: true, settings.OutputMathJax: true,
	}

	for _, kind := range []mathrender.Kind{mathrender.KindInline, mathrender.KindEquation} {
		n := &mathrender.MathNode{Kind: kind, TeX: `\sum_i x_i`, Label: "s", Number: 1}
		first := render(t, r, n, s)
		second := render(t, r, n, s)
		if first != second {
			t.Errorf("%v renders differ:\n%q\n%q", kind, first, second)
		}
	}
}

func TestRender_BaselineMeasuredWithXOnce(t *testing.T) {
	t.Parallel()

	var calls []string
	reg := mathrender.NewRegistry()
	reg.RegisterRaster("spy", func(kind mathrender.Kind, tex string) (*mathrender.RasterDescriptor, error) {
		calls = append(calls, kind.String()+":"+tex)
		return fakeRaster(kind, tex)
	})
	baseline := &mathrender.PixelBaseline{}
	r := mathrender.NewRenderer(reg,
		mathrender.WithBaseline(baseline),
		mathrender.WithLogger(log.NewWithOptions(&bytes.Buffer{}, log.Options{})))
	s := settings.Map{settings.PNGEngine: "spy", settings.OutputMathML: false, settings.OutputPNG: true}

	render(t, r, &mathrender.MathNode{Kind: mathrender.KindInline, TeX: "a"}, s)
	render(t, r, &mathrender.MathNode{Kind: mathrender.KindInline, TeX: "b"}, s)

	want := "inline:a,inline:x,inline:b"
	if got := strings.Join(calls, ","); got != want {
		t.Errorf("engine calls = %q, want %q", got, want)
	}
	if v, ok := baseline.Get(); !ok || v != 10 {
		t.Errorf("baseline = %v, %v; want 10, true", v, ok)
	}
}

func TestRender_FailedBaselineWarnsOnce(t *testing.T) {
	t.Parallel()

	var xCalls int
	reg := mathrender.NewRegistry()
	reg.RegisterRaster("flat", func(kind mathrender.Kind, tex string) (*mathrender.RasterDescriptor, error) {
		if tex == "x" {
			xCalls++
			return nil, errors.New("no glyph")
		}
		return fakeRaster(kind, tex)
	})
	var logs bytes.Buffer
	r := mathrender.NewRenderer(reg,
		mathrender.WithBaseline(&mathrender.PixelBaseline{}),
		mathrender.WithLogger(log.NewWithOptions(&logs, log.Options{})))
	s := settings.Map{settings.PNGEngine: "flat", settings.OutputMathML: false, settings.OutputPNG: true}

	for _, tex := range []string{"a", "b", "c"} {
		got := render(t, r, &mathrender.MathNode{Kind: mathrender.KindInline, TeX: tex}, s)
		if strings.Contains(got, "<img") {
			t.Errorf("node %q has an image without a baseline: %q", tex, got)
		}
	}

	if xCalls != 1 {
		t.Errorf("baseline measured %d times, want 1", xCalls)
	}
	if n := strings.Count(logs.String(), "cannot measure pixel baseline"); n != 1 {
		t.Errorf("baseline warning logged %d times, want 1:\n%s", n, logs.String())
	}
}

func TestRenderRaster_MissingEngineLogsAtDebug(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		level log.Level
		want  bool
	}{
		{"hidden at info", log.InfoLevel, false},
		{"shown with debug", log.DebugLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var logs bytes.Buffer
			r := mathrender.NewRenderer(mathrender.NewRegistry(),
				mathrender.WithBaseline(&mathrender.PixelBaseline{}),
				mathrender.WithLogger(log.NewWithOptions(&logs, log.Options{Level: tt.level})))

			if d := r.RenderRaster(mathrender.KindInline, "a", "nosuch"); d != nil {
				t.Fatalf("RenderRaster() = %+v, want nil", d)
			}
			if got := strings.Contains(logs.String(), "png engine not found"); got != tt.want {
				t.Errorf("log has missing-engine line = %v, want %v:\n%s", got, tt.want, logs.String())
			}
		})
	}
}

func TestRender_SeededBaselineSkipsMeasurement(t *testing.T) {
	t.Parallel()

	baseline := &mathrender.PixelBaseline{}
	baseline.Seed(5)
	reg := mathrender.NewRegistry()
	reg.RegisterRaster("fake", fakeRaster)
	r := mathrender.NewRenderer(reg, mathrender.WithBaseline(baseline),
		mathrender.WithLogger(log.NewWithOptions(&bytes.Buffer{}, log.Options{})))

	got := render(t, r, &mathrender.MathNode{Kind: mathrender.KindInline, TeX: "a"},
		settings.Map{settings.PNGEngine: "fake", settings.OutputMathML: false, settings.OutputPNG: true})

	if !strings.Contains(got, `style="vertical-align: -2ex;height: 6ex;"`) {
		t.Errorf("got %q, want layout from seeded baseline 5", got)
	}
}

func TestRenderScript_EscapesClosingTag(t *testing.T) {
	t.Parallel()

	got, err := mathrender.RenderHTML(mathrender.RenderScript(mathrender.KindInline, `a</script>b`))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(got, "</script>") != 1 {
		t.Errorf("script body not escaped: %q", got)
	}
}
