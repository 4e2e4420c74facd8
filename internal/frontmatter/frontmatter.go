// Package frontmatter splits a YAML header from a markdown document.
//
//	---
//	Title: Notes
//	HTML math engine: none
//	---
//	# Body
//
// Keys are normalized with settings.NormalizeKey, so the header above yields
// "title" and "html_math_engine".
package frontmatter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dgleich/maruku/internal/settings"
	"github.com/dgleich/maruku/internal/yamlutil"
)

// ErrFrontMatter is returned for a header that is not a YAML mapping.
var ErrFrontMatter = errors.New("invalid front matter")

const fence = "---"

// Split separates the header from the body. A document without a header
// returns an empty Map and the content unchanged. A malformed header is
// still removed from the body; the error wraps ErrFrontMatter and the
// returned Map is empty.
func Split(content string) (settings.Map, string, error) {
	header, body, ok := cut(content)
	if !ok {
		return settings.Map{}, content, nil
	}

	raw, err := yamlutil.UnmarshalMap([]byte(header))
	if err != nil {
		return settings.Map{}, body, fmt.Errorf("%w: %v", ErrFrontMatter, err)
	}

	m := make(settings.Map, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			v = strings.TrimSpace(s)
		}
		m[settings.NormalizeKey(k)] = v
	}
	return m, body, nil
}

// cut finds a header opened by a "---" first line and closed by the next
// "---" line. Trailing whitespace on fence lines is ignored.
func cut(content string) (header, body string, ok bool) {
	first, rest, found := strings.Cut(content, "\n")
	if !found || !isFence(first) {
		return "", content, false
	}

	offset := 0
	for {
		line, next, more := strings.Cut(rest[offset:], "\n")
		if isFence(line) {
			header = rest[:offset]
			if more {
				body = next
			}
			return header, body, true
		}
		if !more {
			return "", content, false
		}
		offset += len(line) + 1
	}
}

func isFence(line string) bool {
	return strings.TrimRight(line, " \t\r") == fence
}
