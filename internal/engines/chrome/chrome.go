// Package chrome is a raster math engine backed by headless Chrome.
//
// The TeX source is converted to plain text (see gofont.Text), laid out by
// the browser in an inline box and captured with an element screenshot. A
// zero-size marker placed on the text baseline gives the height above and the
// depth below it. Rod downloads Chromium on first use if no browser is found.
package chrome

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"html"
	"math"
	"os"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/dgleich/maruku/internal/engines/gofont"
	"github.com/dgleich/maruku/internal/fileutil"
	"github.com/dgleich/maruku/internal/mathrender"
	"github.com/dgleich/maruku/internal/process"
)

// Name is the engine name used in html_png_engine.
const Name = "chrome"

// Defaults.
const (
	DefaultTimeout  = 30 * time.Second
	DefaultFontSize = 16.0
)

// Sentinel errors.
var (
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrMeasure        = errors.New("failed to measure math box")
	ErrScreenshot     = errors.New("failed to capture screenshot")
)

// Options configures an Engine. Zero values select the defaults.
type Options struct {
	Timeout  time.Duration
	FontSize float64 // CSS pixels
}

// Engine renders TeX through a lazily launched browser.
// Safe for concurrent use; call Close to release the browser.
type Engine struct {
	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
	timeout  time.Duration
	fontSize float64
}

// New returns an Engine. No browser is started until the first render.
func New(opts Options) *Engine {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.FontSize <= 0 {
		opts.FontSize = DefaultFontSize
	}
	return &Engine{timeout: opts.Timeout, fontSize: opts.FontSize}
}

// Register adds the engine to reg under Name.
func (e *Engine) Register(reg *mathrender.Registry) {
	reg.RegisterRaster(Name, e.Render)
}

// Render implements mathrender.RasterFunc with the engine timeout.
func (e *Engine) Render(kind mathrender.Kind, tex string) (*mathrender.RasterDescriptor, error) {
	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()
	return e.RenderContext(ctx, kind, tex)
}

// RenderContext renders tex as a PNG data URI. Source that draws nothing
// yields (nil, nil).
func (e *Engine) RenderContext(ctx context.Context, kind mathrender.Kind, tex string) (*mathrender.RasterDescriptor, error) {
	text := gofont.Text(tex)
	if text == "" {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	browser, err := e.ensureBrowser()
	if err != nil {
		return nil, err
	}

	path, cleanup, err := fileutil.WriteTempFile(PageHTML(kind, text, e.fontSize), "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	page, err := browser.Page(proto.TargetCreateTarget{URL: "file://" + path})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()
	page = page.Context(ctx)

	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	box, err := measure(page)
	if err != nil {
		return nil, err
	}
	if box.Height()+box.Depth() <= 0 {
		return nil, nil
	}

	el, err := page.Element("#" + mathID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMeasure, err)
	}
	img, err := el.Screenshot(proto.PageCaptureScreenshotFormatPng, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScreenshot, err)
	}

	return &mathrender.RasterDescriptor{
		SourceURL: dataURI(img),
		WidthPx:   box.Width,
		HeightPx:  box.Height(),
		DepthPx:   box.Depth(),
	}, nil
}

// ensureBrowser lazily connects to the browser.
func (e *Engine) ensureBrowser() (*rod.Browser, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.browser != nil {
		return e.browser, nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}
	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		killBrowser(l)
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	e.launcher = l
	e.browser = browser
	return browser, nil
}

// Close releases browser resources. Renderer subprocesses left behind by
// the browser are killed with it.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.browser == nil {
		return nil
	}
	err := e.browser.Close()
	killBrowser(e.launcher)
	e.browser = nil
	e.launcher = nil
	return err
}

func killBrowser(l *launcher.Launcher) {
	if l == nil {
		return
	}
	if pid := l.PID(); pid > 0 {
		process.KillProcessGroup(pid)
	}
	l.Kill()
	l.Cleanup()
}

// Box is the layout of the math element in CSS pixels.
type Box struct {
	Top, Bottom, Baseline, Width float64
}

// Height is the extent above the baseline.
func (b Box) Height() float64 { return math.Max(0, b.Baseline-b.Top) }

// Depth is the extent below the baseline.
func (b Box) Depth() float64 { return math.Max(0, b.Bottom-b.Baseline) }

const measureJS = `() => {
	const box = document.getElementById("` + mathID + `").getBoundingClientRect();
	const marker = document.getElementById("` + markerID + `").getBoundingClientRect();
	return {top: box.top, bottom: box.bottom, baseline: marker.top, width: box.width};
}`

func measure(page *rod.Page) (Box, error) {
	res, err := page.Eval(measureJS)
	if err != nil {
		return Box{}, fmt.Errorf("%w: %v", ErrMeasure, err)
	}
	return Box{
		Top:      res.Value.Get("top").Num(),
		Bottom:   res.Value.Get("bottom").Num(),
		Baseline: res.Value.Get("baseline").Num(),
		Width:    res.Value.Get("width").Num(),
	}, nil
}

const (
	mathID  = "maruku-math"
	markerID = "maruku-baseline"
)

// PageHTML builds the page laid out by the browser. text is escaped.
// Equations are drawn 20% larger than inline math.
func PageHTML(kind mathrender.Kind, text string, fontSize float64) string {
	if kind == mathrender.KindEquation {
		fontSize *= 1.2
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><style>
body { margin: 0; background: transparent; }
#%[1]s { display: inline-block; padding: 0 1px; font-family: serif; font-size: %[3]gpx; line-height: 1; }
#%[2]s { display: inline-block; width: 0; height: 0; vertical-align: baseline; }
</style></head>
<body><span id="%[1]s">%[4]s<span id="%[2]s"></span></span></body></html>
`, mathID, markerID, fontSize, html.EscapeString(text))
}

func dataURI(png []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}
