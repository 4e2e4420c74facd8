// Package settings resolves converter settings for a node, falling back from
// node-local values to the document's front matter and then to converter
// defaults.
package settings

import (
	"fmt"
	"strings"
)

// Keys read by the math renderer.
const (
	MathEngine    = "html_math_engine"
	PNGEngine     = "html_png_engine"
	OutputMathML  = "html_math_output_mathml"
	OutputPNG     = "html_math_output_png"
	OutputMathJax = "html_math_output_mathjax"
)

// Document keys.
const (
	Title = "title"
	CSS   = "css"
)

// Lookup is the read contract for settings.
// The second return value reports whether the key was found.
type Lookup interface {
	String(key string) (string, bool)
	Bool(key string) (bool, bool)
}

// Map is a flat set of settings, typically decoded from YAML.
type Map map[string]any

// Compile-time interface checks.
var (
	_ Lookup = Map(nil)
	_ Lookup = Chain(nil)
)

// String returns the value for key formatted as a string.
func (m Map) String(key string) (string, bool) {
	v, ok := m[key]
	if !ok || v == nil {
		return "", false
	}
	switch s := v.(type) {
	case string:
		return s, true
	case fmt.Stringer:
		return s.String(), true
	default:
		return fmt.Sprint(v), true
	}
}

// Bool returns the value for key as a boolean.
// Strings such as "yes" or "off" are accepted; anything else is not found.
func (m Map) Bool(key string) (bool, bool) {
	v, ok := m[key]
	if !ok || v == nil {
		return false, false
	}
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		return ParseBool(b)
	case int:
		return b != 0, true
	case uint64:
		return b != 0, true
	case int64:
		return b != 0, true
	case float64:
		return b != 0, true
	default:
		return false, false
	}
}

// ParseBool accepts the spellings used in document headers.
func ParseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "on", "1":
		return true, true
	case "false", "no", "off", "0":
		return false, true
	}
	return false, false
}

// Chain resolves a key against each Lookup in order; the first hit wins.
// Nil entries are skipped.
type Chain []Lookup

// String returns the first string value found for key.
func (c Chain) String(key string) (string, bool) {
	for _, l := range c {
		if l == nil {
			continue
		}
		if v, ok := l.String(key); ok {
			return v, true
		}
	}
	return "", false
}

// Bool returns the first boolean value found for key.
func (c Chain) Bool(key string) (bool, bool) {
	for _, l := range c {
		if l == nil {
			continue
		}
		if v, ok := l.Bool(key); ok {
			return v, true
		}
	}
	return false, false
}

// Defaults returns the built-in math defaults.
func Defaults() Map {
	return Map{
		MathEngine:    "none",
		PNGEngine:     "gofont",
		OutputMathML:  true,
		OutputPNG:     false,
		OutputMathJax: false,
	}
}

// StringOr returns the value for key or def when it is missing.
func StringOr(l Lookup, key, def string) string {
	if l == nil {
		return def
	}
	if v, ok := l.String(key); ok {
		return v
	}
	return def
}

// BoolOr returns the value for key or def when it is missing.
func BoolOr(l Lookup, key string, def bool) bool {
	if l == nil {
		return def
	}
	if v, ok := l.Bool(key); ok {
		return v
	}
	return def
}

// NormalizeKey lower-cases a header key and replaces spaces with underscores,
// so "HTML math engine" becomes "html_math_engine".
func NormalizeKey(k string) string {
	k = strings.ToLower(strings.TrimSpace(k))
	k = strings.Join(strings.Fields(k), "_")
	return strings.ReplaceAll(k, "-", "_")
}
