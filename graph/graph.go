// Package graph implements spec.md's C2 component: a directed graph of
// cell-name dependee/dependent edges. It generalizes the dependents/
// dependencies bookkeeping the teacher inlines directly on its Cell type
// (spreadsheet/engine.go's addDependent/removeDependent/
// updateDependencies) into a standalone adjacency structure, the way
// kalexmills-spreadsheets/internal/spreadsheet.go keeps refersTo and
// referredFrom as a symmetric pair — so ReplaceDependees can be atomic and
// the symmetry invariant can be checked independently of CellStore.
package graph

// Graph holds two mutually-consistent adjacency maps: Dependents[x] is the
// set of cells whose formulas reference x; Dependees[x] is the set of
// cells that x's formula references. For every operation, y is in
// Dependents[x] if and only if x is in Dependees[y].
type Graph struct {
	dependents map[string]map[string]struct{}
	dependees  map[string]map[string]struct{}
}

// New returns an empty dependency graph.
func New() *Graph {
	return &Graph{
		dependents: make(map[string]map[string]struct{}),
		dependees:  make(map[string]map[string]struct{}),
	}
}

// AddDependency records that t's formula references s: s is a dependee of
// t, t is a dependent of s. No self-loop check happens here — spec.md
// §4.2 assigns cycle detection to C4, not the graph itself.
func (g *Graph) AddDependency(s, t string) {
	g.addEdge(g.dependents, s, t)
	g.addEdge(g.dependees, t, s)
}

// RemoveDependency undoes AddDependency(s, t).
func (g *Graph) RemoveDependency(s, t string) {
	g.removeEdge(g.dependents, s, t)
	g.removeEdge(g.dependees, t, s)
}

// ReplaceDependees atomically drops every current dependee of t and
// replaces it with newSet, keeping Dependents symmetric in the same pass
// — there is no intermediate state in which the two maps disagree.
func (g *Graph) ReplaceDependees(t string, newSet []string) {
	for old := range g.dependees[t] {
		g.removeEdge(g.dependents, old, t)
	}
	delete(g.dependees, t)

	for _, s := range newSet {
		g.addEdge(g.dependents, s, t)
		g.addEdge(g.dependees, t, s)
	}
}

// DependentsOf returns the cells whose formulas reference s.
func (g *Graph) DependentsOf(s string) []string {
	return keys(g.dependents[s])
}

// DependeesOf returns the cells t's formula references.
func (g *Graph) DependeesOf(t string) []string {
	return keys(g.dependees[t])
}

func (g *Graph) addEdge(m map[string]map[string]struct{}, from, to string) {
	set, ok := m[from]
	if !ok {
		set = make(map[string]struct{})
		m[from] = set
	}
	set[to] = struct{}{}
}

func (g *Graph) removeEdge(m map[string]map[string]struct{}, from, to string) {
	set, ok := m[from]
	if !ok {
		return
	}
	delete(set, to)
	if len(set) == 0 {
		delete(m, from)
	}
}

func keys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}
