package sheet

import "fmt"

// InvalidNameError reports a cell name that failed the CellName shape
// check, the caller's isValid predicate, or normalization.
type InvalidNameError struct {
	Name string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("%q is not a valid cell name", e.Name)
}

// CircularDependencyError reports that a proposed Formula would close a
// cycle in the dependency graph. setContents leaves all state untouched
// when this is returned, per spec.md §4.3's transactional boundary.
type CircularDependencyError struct {
	Name string
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("%s would create a circular dependency", e.Name)
}

// FormulaFormatError wraps a formula parse failure with the cell it was
// being assigned to, so callers (the client engine, the CLI) can report
// which cell the malformed formula was destined for.
type FormulaFormatError struct {
	Name string
	Err  error
}

func (e *FormulaFormatError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

func (e *FormulaFormatError) Unwrap() error { return e.Err }
