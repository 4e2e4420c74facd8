package assets

import (
	"fmt"
	"strings"
)

// ValidateAssetName checks a style name before it is joined into
// "styles/<name>.css". Style names are bare words: an empty name, a path
// separator or a dot gives ErrInvalidAssetName.
func ValidateAssetName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty style name", ErrInvalidAssetName)
	case strings.ContainsAny(name, "/\\."):
		return fmt.Errorf("%w: style %q must not contain '/', '\\' or '.'", ErrInvalidAssetName, name)
	}
	return nil
}
