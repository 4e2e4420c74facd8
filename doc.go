// Package maruku converts Markdown documents with TeX math to HTML.
//
// # Quick Start
//
// Create a converter, convert markdown, and close when done:
//
//	conv, err := maruku.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	result, err := conv.Convert(ctx, maruku.Input{
//	    Markdown: "# Hello\n\nEuler: $e^{i\\pi} + 1 = 0$",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("output.html", result.HTML, 0644)
//
// # Math Syntax
//
// Inline math is written $tex$. Display equations sit between $$ lines; a
// label in parentheses after the closing $$ numbers the equation:
//
//	$$
//	a^2 + b^2 = c^2
//	$$ (pythagoras)
//
// Equations are referenced with \eqref{pythagoras} or (eq:pythagoras), and
// headings with \ref{heading-id}. Unresolved references are reported in
// ConvertResult.Diagnostics and never stop the conversion.
//
// # Math Output
//
// Each math node may carry up to three outputs, switched by settings:
//
//   - html_math_output_mathml: markup from the engine named by html_math_engine
//   - html_math_output_png: an image from the engine named by html_png_engine
//   - html_math_output_mathjax: a deferred script typeset by MathJax
//
// Settings are looked up on the node itself ({html_math_engine=none} after an
// equation), then in Input.Settings, then in the document's YAML front
// matter, then in the converter defaults (WithDefaults), and finally in the
// built-in defaults. Input.Settings carry command-line overrides.
//
// # Engines
//
// The "none" markup engine is always available and emits the TeX source in a
// <code> element. Two raster engines are registered: "gofont", which draws
// text with the Go fonts and needs nothing else, and "chrome", which lays out
// the math in headless Chrome. Rod downloads Chromium on first use of the
// chrome engine (~/.cache/rod/browser/). For containers and CI environments,
// set ROD_NO_SANDBOX=1, and use ROD_BROWSER_BIN to pick a Chrome binary.
//
// # Styles
//
// Pages embed the "default" document style unless WithStyle picks another
// ("technical") or none. Math and code highlighting styles are always
// included, and Input.CSS is appended last.
package maruku
