// Package assets holds the stylesheets embedded in the binary.
//
// The "math" style is always injected; it lays out equation blocks,
// numbers and PNG images. Document styles ("default", "technical") set the
// page typography and are selected by name.
//
// Names are validated before lookup so a name can never reach outside the
// styles directory.
package assets
