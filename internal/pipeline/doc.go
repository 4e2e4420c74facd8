// Package pipeline implements the Markdown-to-HTML conversion pipeline.
//
// Stages, in order:
//   - Markdown preprocessing (line normalization, blank line compression)
//   - Markdown to HTML conversion via Goldmark with the math extension
//     and chroma code highlighting
//   - Page assembly: title, stylesheets and the MathJax loader in <head>
//   - Rebasing relative links when the output lives in another directory
//
// Math rendering itself lives in internal/mathrender; this package only wires
// it into goldmark and assembles the page around the result.
package pipeline
