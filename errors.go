package maruku

import (
	"errors"

	"github.com/dgleich/maruku/internal/assets"
	"github.com/dgleich/maruku/internal/engines/chrome"
	"github.com/dgleich/maruku/internal/frontmatter"
	"github.com/dgleich/maruku/internal/mathrender"
	"github.com/dgleich/maruku/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	ErrEmptyMarkdown  = errors.New("markdown content cannot be empty")
	ErrHTMLConversion = pipeline.ErrHTMLConversion
	ErrUnknownEngine  = errors.New("unknown math engine")
	ErrEngineInit     = errors.New("failed to initialize math engine")
	ErrStyleNotFound  = assets.ErrStyleNotFound
	ErrInvalidStyle   = assets.ErrInvalidAssetName

	// Browser errors of the chrome png engine.
	ErrBrowserConnect = chrome.ErrBrowserConnect
	ErrPageLoad       = chrome.ErrPageLoad
	ErrScreenshot     = chrome.ErrScreenshot

	// Document errors, reported in ConvertResult.Diagnostics.
	ErrUnresolvedEquation = mathrender.ErrUnresolvedEquation
	ErrUnresolvedDivision = mathrender.ErrUnresolvedDivision
	ErrDuplicateLabel     = mathrender.ErrDuplicateLabel
	ErrFrontMatter        = frontmatter.ErrFrontMatter
)
