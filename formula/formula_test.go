package formula

import (
	"strings"
	"testing"
)

func upper(s string) string { return strings.ToUpper(s) }
func alwaysValid(string) bool { return true }

func mustParse(t *testing.T, src string) *Formula {
	t.Helper()
	f, err := Parse(src, alwaysValid, upper)
	if err != nil {
		t.Fatalf("Parse(%q) unexpected error: %v", src, err)
	}
	return f
}

func TestParseArithmetic(t *testing.T) {
	f := mustParse(t, "1 + 2 * 3")
	got, err := f.Evaluate(func(string) (float64, bool) { return 0, false })
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got != 7 {
		t.Errorf("1 + 2 * 3 = %v, want 7", got)
	}
}

func TestLeftAssociativity(t *testing.T) {
	f := mustParse(t, "10 - 2 - 3")
	got, err := f.Evaluate(nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got != 5 {
		t.Errorf("10 - 2 - 3 = %v, want 5 (left-to-right)", got)
	}
}

func TestParens(t *testing.T) {
	f := mustParse(t, "(1 + 2) * 3")
	got, err := f.Evaluate(nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got != 9 {
		t.Errorf("(1+2)*3 = %v, want 9", got)
	}
}

func TestVariables(t *testing.T) {
	f := mustParse(t, "a1 + B2 * a1")
	vars := f.Variables()
	if len(vars) != 2 || vars[0] != "A1" || vars[1] != "B2" {
		t.Errorf("Variables() = %v, want [A1 B2]", vars)
	}
}

func TestEvaluateLookup(t *testing.T) {
	f := mustParse(t, "A1 + A2")
	lookup := func(name string) (float64, bool) {
		switch name {
		case "A1":
			return 5, true
		case "A2":
			return 10, true
		}
		return 0, false
	}
	got, err := f.Evaluate(lookup)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got != 15 {
		t.Errorf("A1+A2 = %v, want 15", got)
	}
}

func TestMissingReferenceIsEvalError(t *testing.T) {
	f := mustParse(t, "A1 + 1")
	_, err := f.Evaluate(func(string) (float64, bool) { return 0, false })
	if err == nil {
		t.Fatal("expected EvalError for missing reference")
	}
	if _, ok := err.(*EvalError); !ok {
		t.Errorf("expected *EvalError, got %T", err)
	}
}

func TestDivisionByZero(t *testing.T) {
	f := mustParse(t, "1 / 0")
	_, err := f.Evaluate(nil)
	if err == nil {
		t.Fatal("expected division-by-zero EvalError")
	}
}

func TestFormatErrors(t *testing.T) {
	cases := []string{
		"",
		"1 + + 2",
		"(1 + 2",
		"1 + 2)",
		"()",
		"1 2",
	}
	for _, src := range cases {
		if _, err := Parse(src, alwaysValid, upper); err == nil {
			t.Errorf("Parse(%q) expected FormatError, got nil", src)
		} else if _, ok := err.(*FormatError); !ok {
			t.Errorf("Parse(%q) expected *FormatError, got %T", src, err)
		}
	}
}

func TestInvalidVariable(t *testing.T) {
	if _, err := Parse("ABC + 1", alwaysValid, upper); err == nil {
		t.Fatal("expected FormatError for shapeless variable")
	}
	notValid := func(string) bool { return false }
	if _, err := Parse("A1 + 1", notValid, upper); err == nil {
		t.Fatal("expected FormatError for isValid-rejected variable")
	}
}

func TestUnaryMinus(t *testing.T) {
	f := mustParse(t, "-5 + 10")
	got, err := f.Evaluate(nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got != 5 {
		t.Errorf("-5+10 = %v, want 5", got)
	}
}

func TestStringRoundTrip(t *testing.T) {
	f := mustParse(t, "A1+B2*2")
	if f.String() != "A1+B2*2" {
		t.Errorf("String() = %q, want %q", f.String(), "A1+B2*2")
	}
}

// TestStringRoundTripParentheses guards against exprString dropping
// precedence-changing parentheses: reparsing and re-evaluating the printed
// form must produce the same value as the original, not just look similar.
func TestStringRoundTripParentheses(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"(A1+B1)*2", "(A1+B1)*2"},
		{"A1+B1*2", "A1+B1*2"},
		{"A1-(B1-C1)", "A1-(B1-C1)"},
		{"A1-B1-C1", "A1-B1-C1"},
		{"A1/(B1*C1)", "A1/(B1*C1)"},
		{"-(A1+B1)", "-(A1+B1)"},
	}
	for _, c := range cases {
		f := mustParse(t, c.src)
		if got := f.String(); got != c.want {
			t.Errorf("Parse(%q).String() = %q, want %q", c.src, got, c.want)
			continue
		}
		reparsed := mustParse(t, f.String())
		lookup := func(name string) (float64, bool) {
			switch name {
			case "A1":
				return 5, true
			case "B1":
				return 3, true
			case "C1":
				return 2, true
			}
			return 0, false
		}
		want, err := f.Evaluate(lookup)
		if err != nil {
			t.Fatalf("Evaluate(%q): %v", c.src, err)
		}
		got, err := reparsed.Evaluate(lookup)
		if err != nil {
			t.Fatalf("Evaluate(reparsed %q): %v", c.src, err)
		}
		if got != want {
			t.Errorf("round trip %q: reparsed evaluates to %v, want %v", c.src, got, want)
		}
	}
}
