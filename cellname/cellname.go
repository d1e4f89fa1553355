// Package cellname defines the shape a spreadsheet cell name must take
// before a caller-supplied validity predicate and normalizer ever see it.
package cellname

import "regexp"

// ShapeRegex matches the bare syntactic shape of a cell name: one or more
// letters followed by one or more digits. It says nothing about whether the
// name is in range for a given sheet — that's what the caller-supplied
// IsValid predicate is for.
var ShapeRegex = regexp.MustCompile(`^[A-Za-z]+[0-9]+$`)

// HasShape reports whether s matches the cell-name shape, prior to any
// caller-supplied validity check or normalization.
func HasShape(s string) bool {
	return ShapeRegex.MatchString(s)
}
