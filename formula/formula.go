// Package formula implements spec.md's C1 component: parsing and
// evaluating arithmetic expressions over cell-name variables via a
// caller-supplied lookup. The lexer/parser/AST/evaluator split follows the
// teacher's lexer/parser/ast/interpreter packages, narrowed from the
// teacher's full expression language down to the four arithmetic
// operators, parenthesization, numeric literals, and cell-name variables
// spec.md requires.
package formula

import (
	"sort"

	"collabsheet/cellname"
)

// Formula is a parsed, validated arithmetic expression over cell-name
// variables. Variables are stored normalized, the way CellStore and
// DependencyGraph keys are normalized, so Variables() and Evaluate() never
// need to re-run IsValid/Normalize.
type Formula struct {
	source string
	root   expr
	vars   []string // normalized, de-duplicated, sorted for deterministic iteration
}

// Parse parses src (without its leading '=') into a Formula. isValid and
// normalize are the caller-supplied hooks spec.md's CellName description
// requires: every variable the formula references must match the
// CellName shape, pass isValid after normalization, and is stored in its
// normalized form. A malformed formula, or a variable that fails either
// check, is reported as a *FormatError.
func Parse(src string, isValid func(string) bool, normalize func(string) string) (*Formula, error) {
	l := newLexer(src)
	p := newParser(l)
	root, err := p.parse()
	if err != nil {
		return nil, err
	}

	varSet := map[string]struct{}{}
	if err := collectVariables(root, isValid, normalize, varSet); err != nil {
		return nil, err
	}

	vars := make([]string, 0, len(varSet))
	for v := range varSet {
		vars = append(vars, v)
	}
	sort.Strings(vars)

	return &Formula{source: src, root: root, vars: vars}, nil
}

// collectVariables walks e, validating and normalizing each variableLit
// (the node keeps its raw literal in name and records the normalized form
// in normalized, which evaluation and String use as-is) and collecting the
// normalized names into seen.
func collectVariables(e expr, isValid func(string) bool, normalize func(string) string, seen map[string]struct{}) error {
	switch n := e.(type) {
	case *numberLit:
		return nil
	case *variableLit:
		return validateVariable(n, isValid, normalize, seen)
	case *unaryExpr:
		return collectVariables(n.operand, isValid, normalize, seen)
	case *binaryExpr:
		if err := collectVariables(n.left, isValid, normalize, seen); err != nil {
			return err
		}
		return collectVariables(n.right, isValid, normalize, seen)
	}
	return nil
}

func validateVariable(n *variableLit, isValid func(string) bool, normalize func(string) string, seen map[string]struct{}) error {
	normalized := n.name
	if normalize != nil {
		normalized = normalize(normalized)
	}
	if !cellname.HasShape(normalized) {
		return formatErrorf(n.tok, "%q is not a valid cell name", n.name)
	}
	if isValid != nil && !isValid(normalized) {
		return formatErrorf(n.tok, "%q is not a valid cell name", n.name)
	}
	n.normalized = normalized
	seen[normalized] = struct{}{}
	return nil
}

// Variables returns the normalized, de-duplicated set of cell names this
// formula references, in sorted order.
func (f *Formula) Variables() []string {
	out := make([]string, len(f.vars))
	copy(out, f.vars)
	return out
}

// Evaluate computes the formula's value via lookup. Variables were already
// normalized at Parse time, so lookup is always called with the same
// normalized CellName keys the rest of the engine uses.
func (f *Formula) Evaluate(lookup Lookup) (float64, error) {
	return evaluate(f.root, lookup)
}

// String reconstructs the formula's textual form (without the leading
// '='), used by the XML save component to serialize a Formula cell's
// contents (spec.md §4.6: `"=" + formula.toString()`).
func (f *Formula) String() string {
	return exprString(f.root)
}

func exprString(e expr) string {
	switch n := e.(type) {
	case *numberLit:
		return n.tok.Literal
	case *variableLit:
		return n.normalized
	case *unaryExpr:
		return "-" + wrapIfNeeded(n.operand, unaryPrec, false)
	case *binaryExpr:
		prec := binaryPrecedence[n.operator]
		left := wrapIfNeeded(n.left, prec, false)
		right := wrapIfNeeded(n.right, prec, true)
		return left + string(n.operator) + right
	}
	return ""
}

// wrapIfNeeded serializes a child node, parenthesizing it when printing it
// bare inside an operator of precedence parentPrec would reparse
// differently than the original AST: a strictly lower-precedence child
// always needs parens, and — since every binary operator here is
// left-associative — an equal-precedence child on the right side does too
// (a-(b-c) would read back as (a-b)-c without them).
func wrapIfNeeded(e expr, parentPrec int, isRight bool) string {
	s := exprString(e)
	b, ok := e.(*binaryExpr)
	if !ok {
		return s
	}
	childPrec := binaryPrecedence[b.operator]
	if childPrec < parentPrec || (isRight && childPrec == parentPrec) {
		return "(" + s + ")"
	}
	return s
}
