package mathrender

import "fmt"

// EquationLabelTable maps equation labels to their labeled equation nodes.
type EquationLabelTable map[string]*MathNode

// Register adds a labeled equation. Unlabeled nodes are ignored; a label
// already present keeps its first node and ErrDuplicateLabel is returned.
func (t EquationLabelTable) Register(n *MathNode) error {
	if n == nil || n.Kind != KindEquation || n.Label == "" {
		return nil
	}
	if _, ok := t[n.Label]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateLabel, n.Label)
	}
	t[n.Label] = n
	return nil
}

// Division is a numbered document part that references can point to.
type Division struct {
	ID     string
	Number int
}

// DivisionGroup holds the divisions of one kind, e.g. sections.
type DivisionGroup struct {
	Name    string
	Entries map[string]Division
}

// DivisionLabelTable is searched group by group in slice order.
type DivisionLabelTable []*DivisionGroup

// Group returns the group called name, appending an empty one if needed.
func (t *DivisionLabelTable) Group(name string) *DivisionGroup {
	for _, g := range *t {
		if g.Name == name {
			return g
		}
	}
	g := &DivisionGroup{Name: name, Entries: make(map[string]Division)}
	*t = append(*t, g)
	return g
}

// Add registers d in the group. An id already in the group is kept.
func (g *DivisionGroup) Add(d Division) bool {
	if g.Entries == nil {
		g.Entries = make(map[string]Division)
	}
	if _, ok := g.Entries[d.ID]; ok {
		return false
	}
	g.Entries[d.ID] = d
	return true
}

// Lookup returns the division for id from the first group containing it.
func (t DivisionLabelTable) Lookup(id string) (Division, bool) {
	for _, g := range t {
		if g == nil {
			continue
		}
		if d, ok := g.Entries[id]; ok {
			return d, true
		}
	}
	return Division{}, false
}
