package mathrender

import (
	"fmt"
	"sort"
	"sync"

	"golang.org/x/net/html"
)

// Kind distinguishes inline math from display equations.
type Kind uint8

const (
	KindInline Kind = iota
	KindEquation
)

// String returns the kind name used in engine method names and logs.
func (k Kind) String() string {
	if k == KindEquation {
		return "equation"
	}
	return "inline"
}

// Capability is a rendering output an engine may provide.
type Capability uint8

const (
	CapabilityMarkup Capability = iota // structured markup (MathML)
	CapabilityRaster                   // raster image (PNG)
)

// String returns the short capability name ("mathml" or "png").
func (c Capability) String() string {
	if c == CapabilityRaster {
		return "png"
	}
	return "mathml"
}

// RasterDescriptor locates a rendered image and gives its pixel metrics.
// HeightPx is the part above the text baseline, DepthPx the part below it.
type RasterDescriptor struct {
	SourceURL string
	WidthPx   float64
	HeightPx  float64
	DepthPx   float64
}

// MarkupFunc renders TeX source to a markup fragment.
// A nil node with a nil error means the engine produced nothing.
type MarkupFunc func(kind Kind, tex string) (*html.Node, error)

// RasterFunc renders TeX source to an image.
// A nil descriptor with a nil error means the engine produced nothing.
type RasterFunc func(kind Kind, tex string) (*RasterDescriptor, error)

// NoneEngineName is the markup engine that is always registered.
const NoneEngineName = "none"

// Registry maps engine names to render functions, one table per capability.
type Registry struct {
	mu     sync.RWMutex
	markup map[string]MarkupFunc
	raster map[string]RasterFunc
}

// NewRegistry returns a registry holding only the "none" markup engine.
func NewRegistry() *Registry {
	r := &Registry{
		markup: make(map[string]MarkupFunc),
		raster: make(map[string]RasterFunc),
	}
	r.RegisterMarkup(NoneEngineName, func(kind Kind, tex string) (*html.Node, error) {
		return None(kind, tex), nil
	})
	return r
}

// RegisterMarkup registers fn as the markup renderer for name,
// replacing any previous registration.
func (r *Registry) RegisterMarkup(name string, fn MarkupFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.markup[name] = fn
}

// RegisterRaster registers fn as the raster renderer for name,
// replacing any previous registration.
func (r *Registry) RegisterRaster(name string, fn RasterFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.raster[name] = fn
}

// Markup returns the markup renderer registered for name.
// The error wraps ErrEngineNotFound and names the missing method.
func (r *Registry) Markup(name string) (MarkupFunc, error) {
	r.mu.RLock()
	fn, ok := r.markup[name]
	r.mu.RUnlock()
	if !ok || fn == nil {
		return nil, notFound(CapabilityMarkup, name)
	}
	return fn, nil
}

// Raster returns the raster renderer registered for name.
// The error wraps ErrEngineNotFound and names the missing method.
func (r *Registry) Raster(name string) (RasterFunc, error) {
	r.mu.RLock()
	fn, ok := r.raster[name]
	r.mu.RUnlock()
	if !ok || fn == nil {
		return nil, notFound(CapabilityRaster, name)
	}
	return fn, nil
}

// Has reports whether an engine is registered for the capability.
func (r *Registry) Has(c Capability, name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if c == CapabilityRaster {
		_, ok := r.raster[name]
		return ok
	}
	_, ok := r.markup[name]
	return ok
}

// Names returns the sorted engine names registered for the capability.
func (r *Registry) Names(c Capability) []string {
	r.mu.RLock()
	var names []string
	if c == CapabilityRaster {
		for name := range r.raster {
			names = append(names, name)
		}
	} else {
		for name := range r.markup {
			names = append(names, name)
		}
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

// MethodName is the plugin method a missing engine should provide,
// e.g. "convert_to_png_blahtex".
func MethodName(c Capability, name string) string {
	return "convert_to_" + c.String() + "_" + name
}

func notFound(c Capability, name string) error {
	return fmt.Errorf("%w: %s engine %q (define %s)", ErrEngineNotFound, c, name, MethodName(c, name))
}
