package gofont_test

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"strings"
	"sync"
	"testing"

	"github.com/dgleich/maruku/internal/engines/gofont"
	"github.com/dgleich/maruku/internal/mathrender"
)

func newEngine(t *testing.T) *gofont.Engine {
	t.Helper()
	e, err := gofont.New(gofont.Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

// ---------------------------------------------------------------------------
// Text
// ---------------------------------------------------------------------------

func TestText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name, tex, want string
	}{
		{"plain", " x + y ", "x + y"},
		{"greek", `\alpha + \beta`, "α + β"},
		{"subscript", "x_1", "x1"},
		{"grouping", `e^{i\pi}`, "eiπ"},
		{"unknown command", `\foo x`, "foo x"},
		{"spacing", `a\,b\quad c`, "a b c"},
		{"line break", `a \\ b`, "a b"},
		{"operators", `a \leq b \neq c`, "a ≤ b ≠ c"},
		{"empty", "  ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := gofont.Text(tt.tex); got != tt.want {
				t.Errorf("Text(%q) = %q, want %q", tt.tex, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Render
// ---------------------------------------------------------------------------

func TestRender_Metrics(t *testing.T) {
	t.Parallel()

	e := newEngine(t)

	x, err := e.Render(mathrender.KindInline, "x")
	if err != nil {
		t.Fatalf("Render(x): %v", err)
	}
	if x == nil || x.HeightPx <= 0 {
		t.Fatalf("Render(x) = %+v, want positive height", x)
	}

	g, err := e.Render(mathrender.KindInline, "g")
	if err != nil {
		t.Fatalf("Render(g): %v", err)
	}
	if g.DepthPx <= 0 {
		t.Errorf("g depth = %v, want a descender", g.DepthPx)
	}

	tall, err := e.Render(mathrender.KindEquation, "Xb")
	if err != nil {
		t.Fatalf("Render(Xb): %v", err)
	}
	if tall.HeightPx <= x.HeightPx {
		t.Errorf("cap height %v should exceed x-height %v", tall.HeightPx, x.HeightPx)
	}
}

func TestRender_DataURI(t *testing.T) {
	t.Parallel()

	d, err := newEngine(t).Render(mathrender.KindInline, `\alpha^2`)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	const prefix = "data:image/png;base64,"
	if !strings.HasPrefix(d.SourceURL, prefix) {
		t.Fatalf("SourceURL = %.40q, want %q prefix", d.SourceURL, prefix)
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(d.SourceURL, prefix))
	if err != nil {
		t.Fatalf("decoding base64: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("decoding png: %v", err)
	}
	if float64(cfg.Width) != d.WidthPx {
		t.Errorf("png width %d, descriptor %v", cfg.Width, d.WidthPx)
	}
	if float64(cfg.Height) != d.HeightPx+d.DepthPx {
		t.Errorf("png height %d, descriptor %v+%v", cfg.Height, d.HeightPx, d.DepthPx)
	}
}

func TestRender_EmptyIsAbsent(t *testing.T) {
	t.Parallel()

	d, err := newEngine(t).Render(mathrender.KindInline, "   ")
	if err != nil || d != nil {
		t.Errorf("Render(blank) = %+v, %v; want nil, nil", d, err)
	}
}

func TestRender_Concurrent(t *testing.T) {
	t.Parallel()

	e := newEngine(t)
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := e.Render(mathrender.KindInline, "a+b"); err != nil {
				t.Errorf("Render: %v", err)
			}
		}()
	}
	wg.Wait()
}

// ---------------------------------------------------------------------------
// Registration
// ---------------------------------------------------------------------------

func TestRegister_BaselineFromX(t *testing.T) {
	t.Parallel()

	reg := mathrender.NewRegistry()
	newEngine(t).Register(reg)
	if !reg.Has(mathrender.CapabilityRaster, gofont.Name) {
		t.Fatalf("%s not registered", gofont.Name)
	}

	r := mathrender.NewRenderer(reg, mathrender.WithBaseline(&mathrender.PixelBaseline{}))
	ppe, err := r.PixelsPerEx(gofont.Name)
	if err != nil || ppe <= 0 {
		t.Errorf("PixelsPerEx = %v, %v; want positive", ppe, err)
	}
}
