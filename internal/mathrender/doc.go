// Package mathrender turns math spans, display equations and cross-references
// into HTML fragments.
//
// Rendering engines are plain functions registered by name for one of two
// capabilities: markup (MathML-style structured output) and raster (an image
// plus its pixel metrics). The built-in "none" markup engine is always
// available and is used whenever a configured markup engine is missing.
//
// Three independent switches decide what a node contributes: markup, raster
// image and a deferred MathJax script. Their precedence rules live in the pure
// functions ComposeInline and ComposeEquation; Renderer turns the chosen
// composition into an *html.Node tree.
//
// Raster images are sized in ex units. The conversion factor is measured once,
// by rendering the letter "x" with the configured raster engine, and cached in
// a PixelBaseline. A failed measurement is cached as well, so png output stays
// off for the rest of the process. The baseline is never invalidated when the
// configured engine changes later; call Reset to force a new measurement.
//
// Resolver turns equation and division references into numbered links. An
// unknown target produces readable placeholder text and a document error in
// Diagnostics; it never aborts rendering.
//
// Renderer, Registry, PixelBaseline and Diagnostics are safe for concurrent
// use. Engines are called synchronously; a slow engine blocks the caller.
package mathrender
