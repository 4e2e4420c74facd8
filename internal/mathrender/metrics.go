package mathrender

import (
	"fmt"
	"strconv"
	"strings"
)

// LayoutStyle is a raster image's size in ex units.
type LayoutStyle struct {
	VerticalAlignEx  float64
	HasVerticalAlign bool
	HeightEx         float64
}

// ToLayoutStyle converts pixel metrics to ex units. The style height covers
// the part above and below the baseline. With useDepth the image is shifted
// down by its depth so it sits on the surrounding text baseline.
func ToLayoutStyle(d RasterDescriptor, useDepth bool, pixelsPerEx float64) (LayoutStyle, error) {
	if pixelsPerEx <= 0 {
		return LayoutStyle{}, fmt.Errorf("%w: %v pixels per ex", ErrNoBaseline, pixelsPerEx)
	}

	heightEx := d.HeightPx / pixelsPerEx
	depthEx := d.DepthPx / pixelsPerEx

	style := LayoutStyle{HeightEx: heightEx + depthEx}
	if useDepth {
		style.VerticalAlignEx = -depthEx
		style.HasVerticalAlign = true
	}
	return style, nil
}

// CSS renders the style attribute value, e.g.
// "vertical-align: -0.5ex;height: 2.5ex;".
func (s LayoutStyle) CSS() string {
	var b strings.Builder
	if s.HasVerticalAlign {
		b.WriteString("vertical-align: ")
		b.WriteString(formatEx(s.VerticalAlignEx))
		b.WriteString("ex;")
	}
	b.WriteString("height: ")
	b.WriteString(formatEx(s.HeightEx))
	b.WriteString("ex;")
	return b.String()
}

// formatEx prints the shortest exact decimal and never "-0".
func formatEx(v float64) string {
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
