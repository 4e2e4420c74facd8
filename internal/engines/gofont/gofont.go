// Package gofont is a raster math engine that draws TeX source as plain text
// with the Go Regular font. It does no typesetting: common commands are mapped
// to Unicode symbols and grouping characters are dropped.
package gofont

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/dgleich/maruku/internal/mathrender"
)

// Name is the engine name used in html_png_engine.
const Name = "gofont"

// Defaults.
const (
	DefaultFontSize    = 16.0
	DefaultSupersample = 2
	dpi                = 72
)

// ErrFontLoad is returned when the embedded font cannot be parsed.
var ErrFontLoad = errors.New("failed to load font")

// Options configures an Engine. Zero values select the defaults.
type Options struct {
	FontSize    float64 // points at 72 DPI, so one point is one pixel
	Supersample int     // draw at this multiple and scale down
	Color       color.Color
}

// Engine renders TeX to PNG data URIs. Safe for concurrent use.
type Engine struct {
	mu    sync.Mutex
	face  font.Face
	scale int
	ink   image.Image
}

// New parses the embedded Go Regular font and builds a face.
func New(opts Options) (*Engine, error) {
	if opts.FontSize <= 0 {
		opts.FontSize = DefaultFontSize
	}
	if opts.Supersample <= 0 {
		opts.Supersample = DefaultSupersample
	}
	if opts.Color == nil {
		opts.Color = color.Black
	}

	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFontLoad, err)
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    opts.FontSize * float64(opts.Supersample),
		DPI:     dpi,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFontLoad, err)
	}

	return &Engine{
		face:  face,
		scale: opts.Supersample,
		ink:   image.NewUniform(opts.Color),
	}, nil
}

// Register adds the engine to reg under Name.
func (e *Engine) Register(reg *mathrender.Registry) {
	reg.RegisterRaster(Name, e.Render)
}

// Render draws tex and returns the image as a data URI with its metrics.
// Source that draws nothing visible yields (nil, nil).
func (e *Engine) Render(kind mathrender.Kind, tex string) (*mathrender.RasterDescriptor, error) {
	text := Text(tex)
	if text == "" {
		return nil, nil
	}

	e.mu.Lock()
	big, ascent, descent := e.draw(text)
	e.mu.Unlock()
	if big == nil {
		return nil, nil
	}

	b := big.Bounds()
	w, h := b.Dx()/e.scale, b.Dy()/e.scale
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(out, out.Bounds(), big, b, draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("encoding %s png: %w", kind, err)
	}

	return &mathrender.RasterDescriptor{
		SourceURL: "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
		WidthPx:   float64(w),
		HeightPx:  float64(ascent / e.scale),
		DepthPx:   float64(descent / e.scale),
	}, nil
}

// draw renders text at supersampled size. Every dimension of the returned
// image, ascent and descent are multiples of the scale. Callers hold e.mu.
func (e *Engine) draw(text string) (img *image.RGBA, ascent, descent int) {
	bounds, advance := font.BoundString(e.face, text)

	ascent = roundUp(max(0, (-bounds.Min.Y).Ceil()), e.scale)
	descent = roundUp(max(0, bounds.Max.Y.Ceil()), e.scale)
	if ascent+descent == 0 {
		return nil, 0, 0
	}

	left := max(0, -bounds.Min.X.Floor())
	width := max(advance.Ceil(), bounds.Max.X.Ceil()) + left
	pad := e.scale
	width = roundUp(width+2*pad, e.scale)

	img = image.NewRGBA(image.Rect(0, 0, width, ascent+descent))
	d := &font.Drawer{
		Dst:  img,
		Src:  e.ink,
		Face: e.face,
		Dot:  fixed.P(left+pad, ascent),
	}
	d.DrawString(text)
	return img, ascent, descent
}

func roundUp(v, m int) int {
	if r := v % m; r != 0 {
		return v + m - r
	}
	return v
}
