package mathext

import (
	"github.com/charmbracelet/log"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"

	"github.com/dgleich/maruku/internal/mathrender"
	"github.com/dgleich/maruku/internal/settings"
)

// GroupSection is the division group holding numbered headings.
const GroupSection = "section"

// State is the per-document data shared by the numbering pass and the
// renderers: label tables, document errors and document-level settings.
type State struct {
	Equations   mathrender.EquationLabelTable
	Divisions   mathrender.DivisionLabelTable
	Diagnostics *mathrender.Diagnostics
	Settings    settings.Lookup
}

// NewState returns an empty State reading document settings from s.
// The section group is created first so it is searched first.
func NewState(s settings.Lookup) *State {
	st := &State{
		Equations:   mathrender.EquationLabelTable{},
		Diagnostics: &mathrender.Diagnostics{},
		Settings:    s,
	}
	st.Divisions.Group(GroupSection)
	return st
}

var stateKey = parser.NewContextKey()

// SetState stores st in the parser context; set it before conversion to
// supply document settings and read diagnostics afterwards.
func SetState(pc parser.Context, st *State) {
	pc.Set(stateKey, st)
}

// StateFrom returns the State in pc, creating one with default settings.
func StateFrom(pc parser.Context) *State {
	if st, ok := pc.Get(stateKey).(*State); ok && st != nil {
		return st
	}
	st := NewState(settings.Defaults())
	pc.Set(stateKey, st)
	return st
}

// Lookup returns the settings for node: its own attributes first, then the
// document settings.
func (s *State) Lookup(node ast.Node) settings.Lookup {
	var doc settings.Lookup = settings.Defaults()
	if s != nil && s.Settings != nil {
		doc = s.Settings
	}
	local := attributeSettings(node)
	if local == nil {
		return doc
	}
	return settings.Chain{local, doc}
}

// Resolver returns a reference resolver over the document tables.
func (s *State) Resolver(logger *log.Logger) *mathrender.Resolver {
	if s == nil {
		return &mathrender.Resolver{Logger: logger}
	}
	return &mathrender.Resolver{
		Equations:   s.Equations,
		Divisions:   s.Divisions,
		Diagnostics: s.Diagnostics,
		Logger:      logger,
	}
}

// attributeSettings turns node attributes ({html_math_engine=foo}) into
// node-local settings.
func attributeSettings(node ast.Node) settings.Map {
	if node == nil {
		return nil
	}
	attrs := node.Attributes()
	if len(attrs) == 0 {
		return nil
	}
	m := make(settings.Map, len(attrs))
	for _, a := range attrs {
		key := settings.NormalizeKey(string(a.Name))
		switch v := a.Value.(type) {
		case []byte:
			m[key] = string(v)
		default:
			m[key] = v
		}
	}
	return m
}
