package mathrender

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/log"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Resolver turns reference nodes into numbered links using the document's
// label tables. Unknown targets become placeholder text plus a document error.
type Resolver struct {
	Equations   EquationLabelTable
	Divisions   DivisionLabelTable
	Diagnostics *Diagnostics
	Logger      *log.Logger
}

// EquationRef links to a labeled equation: <a href="#eq:id">(N)</a>.
func (r *Resolver) EquationRef(id string) *html.Node {
	eq, ok := r.Equations[id]
	if !ok || eq == nil {
		r.report(fmt.Errorf("%w %q", ErrUnresolvedEquation, id))
		return textNode("(eq:" + id + ")")
	}

	a := element(atom.A, "class", ClassEqRef, "href", "#eq:"+id)
	a.AppendChild(textNode("(" + strconv.Itoa(eq.Number) + ")"))
	return a
}

// DivisionRef links to a numbered division: <a href="#id">N</a>.
func (r *Resolver) DivisionRef(id string) *html.Node {
	div, ok := r.Divisions.Lookup(id)
	if !ok {
		r.report(fmt.Errorf("%w %q", ErrUnresolvedDivision, id))
		return textNode(`\ref{` + id + `}`)
	}

	a := element(atom.A, "class", ClassRef, "href", "#"+id)
	a.AppendChild(textNode(strconv.Itoa(div.Number)))
	return a
}

func (r *Resolver) report(err error) {
	if r.Diagnostics != nil {
		r.Diagnostics.Add(err)
	}
	if r.Logger != nil {
		r.Logger.Error(err)
	}
}
