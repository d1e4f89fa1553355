package sheet

// cellsToRecalculate implements spec.md §4.3's cellsToRecalculate(name): a
// depth-first traversal from name following dependents edges, emitting
// cells in an order such that for every edge u→v in the traversed
// subgraph, u precedes v (dependees before their dependents). Grounded on
// kalexmills-spreadsheets' topSort, adapted to traverse forward from a
// single mutated cell instead of backward from every root.
//
// newDependees simulates the proposed dependees[name] = f.Variables()
// edge for cycle-detection purposes without mutating the real graph: any
// v in newDependees is treated as having name among its dependents for
// the duration of this call, so a cycle through the new formula is caught
// exactly when the DFS, started at name, walks back into name via one of
// its new variables.
func (s *Store) cellsToRecalculate(name string, newDependees map[string]struct{}) ([]string, error) {
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[string]int)
	var order []string

	var visit func(cur string) error
	visit = func(cur string) error {
		switch state[cur] {
		case done:
			return nil
		case visiting:
			return &CircularDependencyError{Name: name}
		}
		state[cur] = visiting

		for _, next := range s.dependentsWithOverride(cur, name, newDependees) {
			if err := visit(next); err != nil {
				return err
			}
		}

		state[cur] = done
		order = append(order, cur)
		return nil
	}

	if err := visit(name); err != nil {
		return nil, err
	}

	// order is post-order (dependents appended before their dependees);
	// reverse it so name comes first and its transitive dependents follow
	// in an order safe to recompute left-to-right.
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order, nil
}

// dependentsWithOverride returns cur's real dependents, plus name if cur
// is one of the simulated new dependees and name isn't already listed.
func (s *Store) dependentsWithOverride(cur, name string, newDependees map[string]struct{}) []string {
	neighbors := s.graph.DependentsOf(cur)
	if newDependees == nil {
		return neighbors
	}
	if _, isNewDependee := newDependees[cur]; !isNewDependee {
		return neighbors
	}
	for _, n := range neighbors {
		if n == name {
			return neighbors
		}
	}
	return append(neighbors, name)
}
