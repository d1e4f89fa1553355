package formula

import "fmt"

// Lookup resolves a (normalized) cell name to its current numeric value.
// ok is false for both "the cell is missing" and "the cell holds a
// non-numeric value" — spec.md's evaluate() treats both as the same class
// of lookup failure, so the two cases collapse into one boolean here
// instead of a three-way missing/non-numeric/numeric result.
type Lookup func(name string) (value float64, ok bool)

// evaluate walks e, resolving variableLit nodes through lookup. Division by
// zero and a failed lookup both produce an *EvalError rather than a panic
// or a NaN/Inf float, per spec.md §4.1.
func evaluate(e expr, lookup Lookup) (float64, error) {
	switch n := e.(type) {
	case *numberLit:
		return n.value, nil
	case *variableLit:
		val, ok := lookup(n.normalized)
		if !ok {
			return 0, &EvalError{Reason: fmt.Sprintf("%s is missing or not a number", n.normalized)}
		}
		return val, nil
	case *unaryExpr:
		val, err := evaluate(n.operand, lookup)
		if err != nil {
			return 0, err
		}
		return -val, nil
	case *binaryExpr:
		left, err := evaluate(n.left, lookup)
		if err != nil {
			return 0, err
		}
		right, err := evaluate(n.right, lookup)
		if err != nil {
			return 0, err
		}
		switch n.operator {
		case tokPlus:
			return left + right, nil
		case tokMinus:
			return left - right, nil
		case tokAsterisk:
			return left * right, nil
		case tokSlash:
			if right == 0 {
				return 0, &EvalError{Reason: "division by zero"}
			}
			return left / right, nil
		}
	}
	return 0, &EvalError{Reason: "malformed expression"}
}
