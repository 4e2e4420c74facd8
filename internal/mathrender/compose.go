package mathrender

// Composition names the shape of a rendered math node.
type Composition uint8

const (
	// CompositionEmpty: nothing to show (inline only).
	CompositionEmpty Composition = iota
	// CompositionMarkupOnly: the markup result alone.
	CompositionMarkupOnly
	// CompositionRasterPlusScript: image and/or script side by side (inline only).
	CompositionRasterPlusScript
	// CompositionScriptOnly: the deferred script alone, which numbers itself.
	CompositionScriptOnly
	// CompositionBlock: equation wrapper with markup and/or image plus the
	// hidden source span.
	CompositionBlock
)

var compositionNames = [...]string{
	CompositionEmpty:            "empty",
	CompositionMarkupOnly:       "markup-only",
	CompositionRasterPlusScript: "raster-plus-script",
	CompositionScriptOnly:       "script-only",
	CompositionBlock:            "block",
}

func (c Composition) String() string {
	if int(c) < len(compositionNames) {
		return compositionNames[c]
	}
	return "unknown"
}

// Parts records which renderings are available for a node.
type Parts struct {
	Markup bool
	Raster bool
	Script bool
}

// Plan is the outcome of composing parts: the shape and the parts it uses.
type Plan struct {
	Composition Composition
	Markup      bool
	Raster      bool
	Script      bool
}

// ComposeInline applies the inline precedence: markup wins outright;
// otherwise image and script are combined.
func ComposeInline(p Parts) Plan {
	switch {
	case p.Markup:
		return Plan{Composition: CompositionMarkupOnly, Markup: true}
	case p.Raster || p.Script:
		return Plan{Composition: CompositionRasterPlusScript, Raster: p.Raster, Script: p.Script}
	default:
		return Plan{Composition: CompositionEmpty}
	}
}

// ComposeEquation applies the equation precedence: the script wins outright;
// otherwise markup and image share the block wrapper, which is produced even
// when both are missing so the hidden source is still emitted.
func ComposeEquation(p Parts) Plan {
	if p.Script {
		return Plan{Composition: CompositionScriptOnly, Script: true}
	}
	return Plan{Composition: CompositionBlock, Markup: p.Markup, Raster: p.Raster}
}
