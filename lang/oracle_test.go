package lang_test

import (
	"math"
	"testing"

	"github.com/expr-lang/expr"

	"github.com/ardnew/formula/lang"
	"github.com/ardnew/formula/lang/builtin"
)

// oracleEnv exposes the functions shared by both languages under the same
// names, so the reference expression can be written like the formula.
func oracleEnv() map[string]any {
	return map[string]any{
		"pi":   math.Pi,
		"e":    math.E,
		"sin":  math.Sin,
		"cos":  math.Cos,
		"sqrt": math.Sqrt,
		"ln":   math.Log,
		"exp":  math.Exp,
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// TestEvaluateMatchesReference evaluates formulas of literals and built-ins
// and compares them against the equivalent expr-lang expression.
func TestEvaluateMatchesReference(t *testing.T) {
	tests := []struct {
		formula   string
		reference string
	}{
		{"1+2*3", "1+2*3"},
		{"(1+2)*3", "(1+2)*3"},
		{"10/4", "10/4"},
		{"7-2-1", "7-2-1"},
		{"2^10", "2^10"},
		{"1.5*(2.25-0.25)/0.5", "1.5*(2.25-0.25)/0.5"},
		{"sin(pi/2)+cos(0.0)", "sin(pi/2)+cos(0.0)"},
		{"sqrt(16.0)*ln(e)", "sqrt(16.0)*ln(e)"},
		{"exp(1.0)-e", "exp(1.0)-e"},
		{"(-3)*(-2)", "(-3)*(-2)"},
		{"1e3/8", "1e3/8"},
		{"IF(1, 2.5, 3.5)", "1 != 0 ? 2.5 : 3.5"},
		{"IF(0, 2.5, 3.5)", "0 != 0 ? 2.5 : 3.5"},
		{"sum({1,2,3,4})/4", "(1+2+3+4)/4"},
		{"component({1.5,2.5,3.5},2)*2", "3.5*2"},
	}

	reg := builtin.Registry()

	for _, tt := range tests {
		t.Run(tt.formula, func(t *testing.T) {
			ref, err := expr.Compile(tt.reference, expr.Env(oracleEnv()))
			if err != nil {
				t.Fatalf("reference compile: %v", err)
			}

			out, err := expr.Run(ref, oracleEnv())
			if err != nil {
				t.Fatalf("reference run: %v", err)
			}

			want, ok := toFloat(out)
			if !ok {
				t.Fatalf("reference produced %T", out)
			}

			p, err := lang.Compile(t.Context(), tt.formula, reg)
			if err != nil {
				t.Fatalf("compile: %v", err)
			}

			got, err := p.Evaluate(t.Context(), nil)
			if err != nil {
				t.Fatalf("evaluate: %v", err)
			}

			if math.Abs(got-want) > 1e-9*math.Max(1, math.Abs(want)) {
				t.Errorf("expected %v, got %v", want, got)
			}
		})
	}
}

func TestSpecScenarios(t *testing.T) {
	reg := builtin.Registry()
	ctx := t.Context()

	for formula, want := range map[string]float64{
		"1+2*3":                   7,
		"sum({1,2,3})":            6,
		"component({10,20,30},1)": 20,
		"IF(1,2,3)":               2,
		"IF(0,2,3)":               3,
	} {
		v, err := lang.Evaluate(ctx, lang.MustCompile(formula, reg), nil)
		if err != nil || v != want {
			t.Errorf("%s: expected %v, got %v (%v)", formula, want, v, err)
		}
	}

	for formula, code := range map[string]lang.Code{
		"(1+2":     lang.MissingClosingBracket,
		"sin(0,1)": lang.InvalidFunctionArgumentCount,
		"IF(1,2)":  lang.InvalidIfArgumentCount,
		"":         lang.FormulaNullEmpty,
	} {
		if d := lang.Check(ctx, formula, reg); d.Code != code {
			t.Errorf("%q: expected %v, got %v", formula, code, d.Code)
		}
	}
}
