// Package sheet implements spec.md's C3/C4 components: CellStore, the
// sparse normalized-name → (contents, value) mapping, and topological
// recomputation over its backing DependencyGraph. Grounded on the
// teacher's interpreter.Value tagged-variant pattern (interpreter/value.go)
// for Contents/Value, and on kalexmills-spreadsheets' topSort for
// cellsToRecalculate (recompute.go).
package sheet

import (
	"strconv"
	"strings"

	"collabsheet/cellname"
	"collabsheet/formula"
	"collabsheet/graph"
)

// Cell is spec.md's Cell: an authored Contents paired with its displayable
// Value.
type Cell struct {
	Contents Contents
	Value    Value
}

// Store is spec.md's CellStore: a partial mapping from normalized cell
// name to Cell, backed by a DependencyGraph for recomputation. A name
// absent from cells denotes an empty cell with value Text("").
//
// Store is not safe for concurrent use by itself — spec.md §5 assigns
// serialization of access to the caller (the client engine's single
// mutex), the same way the teacher leaves spreadsheet.Engine's locking to
// its own callers.
type Store struct {
	cells     map[string]*Cell
	graph     *graph.Graph
	isValid   func(string) bool
	normalize func(string) string
}

// New returns an empty CellStore. isValid and normalize are the
// caller-supplied CellName hooks from spec.md §3; both may be nil, in
// which case every shape-valid name is accepted as-is.
func New(isValid func(string) bool, normalize func(string) string) *Store {
	return &Store{
		cells:     make(map[string]*Cell),
		graph:     graph.New(),
		isValid:   isValid,
		normalize: normalize,
	}
}

func (s *Store) normalizeName(raw string) (string, error) {
	name := raw
	if s.normalize != nil {
		name = s.normalize(name)
	}
	if !cellname.HasShape(name) {
		return "", &InvalidNameError{Name: raw}
	}
	if s.isValid != nil && !s.isValid(name) {
		return "", &InvalidNameError{Name: raw}
	}
	return name, nil
}

// NormalizeName runs raw through the store's shape/validity/normalize
// pipeline without touching any cell, so callers (client.Engine) can
// compute the wire-ready cell name before a change is even proposed.
func (s *Store) NormalizeName(raw string) (string, error) {
	return s.normalizeName(raw)
}

// Validate reports whether SetContents(rawName, raw) would succeed
// without performing any mutation — the local pre-check spec.md §4.4
// requires before a CHANGE is ever sent to the server ("circular
// dependencies are rejected before the request is sent").
func (s *Store) Validate(rawName, raw string) error {
	name, err := s.normalizeName(rawName)
	if err != nil {
		return err
	}
	if raw == "" {
		return nil
	}
	contents, err := s.parseContents(name, raw)
	if err != nil {
		return err
	}
	f, ok := AsFormula(contents)
	if !ok {
		return nil
	}
	newDependees := make(map[string]struct{}, len(f.Variables()))
	for _, v := range f.Variables() {
		newDependees[v] = struct{}{}
	}
	_, err = s.cellsToRecalculate(name, newDependees)
	return err
}

// GetContents returns name's authored contents, or Text("") if name is
// empty or invalid.
func (s *Store) GetContents(rawName string) Contents {
	name, err := s.normalizeName(rawName)
	if err != nil {
		return textContents{}
	}
	cell, ok := s.cells[name]
	if !ok {
		return textContents{}
	}
	return cell.Contents
}

// GetValue returns name's displayable value, or Text("") if name is empty
// or invalid.
func (s *Store) GetValue(rawName string) Value {
	name, err := s.normalizeName(rawName)
	if err != nil {
		return emptyValue
	}
	cell, ok := s.cells[name]
	if !ok {
		return emptyValue
	}
	return cell.Value
}

// NamesOfAllNonemptyCells returns every name currently holding a
// non-deleted Cell.
func (s *Store) NamesOfAllNonemptyCells() []string {
	out := make([]string, 0, len(s.cells))
	for name := range s.cells {
		out = append(out, name)
	}
	return out
}

// SetContents is spec.md §4.3's central mutator. raw is the unparsed
// authored text: empty deletes the cell, a leading '=' starts a Formula,
// a string that parses entirely as a finite float64 is a Number, anything
// else is Text. On success it returns the ordered set of cells whose
// value changed (name first, then its transitive dependents in a safe
// recompute order) — the structural dependent set, not filtered down to
// cells whose recomputed value is actually different from before (a
// formula like "=A1-A1" is still reported after an A1 change even though
// its value stays 0). On failure — InvalidNameError, FormulaFormatError,
// or CircularDependencyError — cells and graph are left exactly as they
// were.
func (s *Store) SetContents(rawName, raw string) ([]string, error) {
	name, err := s.normalizeName(rawName)
	if err != nil {
		return nil, err
	}

	if raw == "" {
		return s.deleteCell(name), nil
	}

	contents, err := s.parseContents(name, raw)
	if err != nil {
		return nil, err
	}

	var newDependees map[string]struct{}
	if f, ok := AsFormula(contents); ok {
		newDependees = make(map[string]struct{}, len(f.Variables()))
		for _, v := range f.Variables() {
			newDependees[v] = struct{}{}
		}
	}

	order, err := s.cellsToRecalculate(name, newDependees)
	if err != nil {
		return nil, err
	}

	deps := make([]string, 0, len(newDependees))
	for v := range newDependees {
		deps = append(deps, v)
	}
	s.graph.ReplaceDependees(name, deps)

	s.cells[name] = &Cell{Contents: contents}

	s.recomputeAll(order)
	return order, nil
}

func (s *Store) deleteCell(name string) []string {
	if _, ok := s.cells[name]; !ok {
		return nil // empty-string idempotence: deleting an already-empty cell is a no-op
	}
	order, err := s.cellsToRecalculate(name, nil)
	if err != nil {
		// Deleting a cell can never introduce a cycle; a failure here would
		// indicate a pre-existing cycle, which setContents never allows.
		order = []string{name}
	}
	s.graph.ReplaceDependees(name, nil)
	delete(s.cells, name)
	s.recomputeAll(order)
	return order
}

// parseContents classifies raw authored text into a Contents variant.
func (s *Store) parseContents(name, raw string) (Contents, error) {
	if strings.HasPrefix(raw, "=") {
		f, err := formula.Parse(raw[1:], s.isValid, s.normalize)
		if err != nil {
			return nil, &FormulaFormatError{Name: name, Err: err}
		}
		return formulaContents{value: f}, nil
	}
	if n, err := strconv.ParseFloat(raw, 64); err == nil && !isInfOrNaN(n) {
		return numberContents{value: n}, nil
	}
	return textContents{value: raw}, nil
}

func isInfOrNaN(f float64) bool {
	return f != f || f > maxFinite || f < -maxFinite
}

const maxFinite = 1.7976931348623157e+308

// recomputeAll evaluates each cell in order using a lookup backed by
// already-updated values earlier in the same order, per spec.md §4.3
// step 4.
func (s *Store) recomputeAll(order []string) {
	for _, name := range order {
		cell, ok := s.cells[name]
		if !ok {
			continue // name was deleted; nothing to recompute
		}
		cell.Value = s.computeValue(cell.Contents)
	}
}

func (s *Store) computeValue(contents Contents) Value {
	switch contents.Kind() {
	case TextKind:
		t, _ := AsText(contents)
		return textValue{value: t}
	case NumberKind:
		n, _ := AsNumber(contents)
		return numberValue{value: n}
	case FormulaKind:
		f, _ := AsFormula(contents)
		result, err := f.Evaluate(s.lookup)
		if err != nil {
			return formulaErrorValue{reason: err.Error()}
		}
		return numberValue{value: result}
	}
	return emptyValue
}

func (s *Store) lookup(name string) (float64, bool) {
	cell, ok := s.cells[name]
	if !ok {
		return 0, false
	}
	n, ok := AsNumberValue(cell.Value)
	return n, ok
}
