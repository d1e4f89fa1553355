package sheet

import "collabsheet/formula"

// ContentsKind tags which of the three CellContents variants a Contents
// value holds. Mirrors the teacher's interpreter.ValueType tag pattern
// (interpreter/value.go) applied to spec.md's CellContents tagged union.
type ContentsKind string

const (
	TextKind    ContentsKind = "TEXT"
	NumberKind  ContentsKind = "NUMBER"
	FormulaKind ContentsKind = "FORMULA"
)

// Contents is spec.md's CellContents tagged variant: exactly one of Text,
// Number, or Formula. Implementations are unexported so the only way to
// produce one from outside this file is Store.parseContents (store.go),
// keeping the invariant that an authored Text's string is non-empty and
// doesn't start with '=' enforced in one place.
type Contents interface {
	Kind() ContentsKind
	// String renders the contents back to the textual form a caller would
	// author to reproduce it (spec.md §4.6's XML round-trip: the string,
	// number.toString(), or "="+formula.toString()).
	String() string
}

type textContents struct{ value string }

func (c textContents) Kind() ContentsKind { return TextKind }
func (c textContents) String() string     { return c.value }

// Text returns the string authored for this cell, valid only when Kind()
// is TextKind.
func (c textContents) Text() string { return c.value }

type numberContents struct{ value float64 }

func (c numberContents) Kind() ContentsKind { return NumberKind }
func (c numberContents) String() string     { return formatNumber(c.value) }

// Number returns the authored numeric literal, valid only when Kind() is
// NumberKind.
func (c numberContents) Number() float64 { return c.value }

type formulaContents struct{ value *formula.Formula }

func (c formulaContents) Kind() ContentsKind { return FormulaKind }
func (c formulaContents) String() string     { return "=" + c.value.String() }

// Formula returns the parsed formula, valid only when Kind() is
// FormulaKind.
func (c formulaContents) Formula() *formula.Formula { return c.value }

// AsText type-asserts c to its Text accessor; ok is false if c is not
// TextKind. Exported so callers outside the package (xmlstore, client) can
// pattern-match without a type switch on unexported types.
func AsText(c Contents) (string, bool) {
	t, ok := c.(textContents)
	return t.value, ok
}

// AsNumber type-asserts c to its Number accessor.
func AsNumber(c Contents) (float64, bool) {
	n, ok := c.(numberContents)
	return n.value, ok
}

// AsFormula type-asserts c to its Formula accessor.
func AsFormula(c Contents) (*formula.Formula, bool) {
	f, ok := c.(formulaContents)
	if !ok {
		return nil, false
	}
	return f.value, true
}
