package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed styles/*.css
var styles embed.FS

// MathStyleName is the stylesheet for math output classes.
const MathStyleName = "math"

// DefaultStyleName is the document style used when none is configured.
const DefaultStyleName = "default"

// LoadStyle loads an embedded CSS style by name (without .css extension).
// Returns ErrStyleNotFound if the style does not exist.
// Returns ErrInvalidAssetName if the name contains path separators or dots.
func LoadStyle(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	content, err := styles.ReadFile("styles/" + name + ".css")
	if err != nil {
		return "", fmt.Errorf("%w: %q (available: %s)", ErrStyleNotFound, name, strings.Join(DocumentStyles(), ", "))
	}
	return string(content), nil
}

// DocumentStyles lists the selectable document styles, sorted.
// The math style is not included.
func DocumentStyles() []string {
	entries, err := fs.ReadDir(styles, "styles")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), ".css")
		if name != MathStyleName {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
