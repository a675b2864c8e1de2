package lang

import (
	"errors"
	"testing"
	"unicode/utf8"
)

// FuzzCompile checks that compilation never panics and that every program
// it accepts honors the stack contract.
func FuzzCompile(f *testing.F) {
	// Seed corpus with known valid and invalid inputs
	f.Add("1+2*3")
	f.Add("-(1+2)^2/3")
	f.Add("sum({1,2,3})")
	f.Add("component({10,20,30},1)")
	f.Add("IF(1,2,3)")
	f.Add("max(sin(pi), e)")
	f.Add("'x'*2")
	f.Add("sum('v')+'v'")
	f.Add("((1)")
	f.Add("{1,{2}}")
	f.Add("'a''b'")
	f.Add("1.2.3e")

	reg := testRegistry(f)

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		p, err := Compile(t.Context(), input, reg)
		if err != nil {
			var d *Diagnostic
			if !errors.As(err, &d) {
				t.Fatalf("compile returned %T, want *Diagnostic", err)
			}

			if d.Code.IsSuccess() || d.Code.IsReserved() {
				t.Fatalf("compile failed with non-failure code %v", d.Code)
			}

			return
		}

		b := NewBindings()
		for _, it := range p.CustomItems() {
			if it.Kind == KindVector {
				_ = b.BindVector(it.Name, 1, 2)
			} else {
				_ = b.BindScalar(it.Name, 1)
			}
		}

		if _, err := p.Evaluate(t.Context(), b); err != nil {
			t.Fatalf("evaluate %q: %v\n%s", input, err, p)
		}
	})
}
