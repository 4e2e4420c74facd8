package mathrender

import "errors"

// Sentinel errors for math rendering and reference resolution.
var (
	ErrEngineNotFound     = errors.New("math engine not found")
	ErrNoBaseline         = errors.New("pixel baseline unavailable")
	ErrUnresolvedEquation = errors.New("cannot find equation")
	ErrUnresolvedDivision = errors.New("cannot find division")
	ErrDuplicateLabel     = errors.New("duplicate equation label")
)
