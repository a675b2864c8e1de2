package lang

import (
	"math"
	"testing"
)

// testRegistry builds a small registry covering every capability variant.
func testRegistry(tb testing.TB) *Registry {
	tb.Helper()

	reg, err := NewBuilder().
		Constant(Constant{Name: "pi", Description: "pi", Value: math.Pi}).
		Constant(Constant{Name: "e", Value: math.E}).
		Scalar(ScalarFunction{
			Name:      "sin",
			Arity:     1,
			Calculate: func(a []float64) float64 { return math.Sin(a[0]) },
		}).
		Scalar(ScalarFunction{
			Name:      "max",
			Arity:     2,
			Calculate: func(a []float64) float64 { return math.Max(a[0], a[1]) },
		}).
		Vector(VectorFunction{
			Name:             "sum",
			VectorArity:      1,
			IsVectorArgument: func(int) bool { return true },
			Calculate: func(_ []float64, v [][]float64) float64 {
				var s float64
				for _, f := range v[0] {
					s += f
				}

				return s
			},
		}).
		Vector(VectorFunction{
			Name:             "component",
			ScalarArity:      1,
			VectorArity:      1,
			IsVectorArgument: func(i int) bool { return i == 0 },
			Calculate: func(s []float64, v [][]float64) float64 {
				i := int(s[0])
				if i < 0 || i >= len(v[0]) {
					return math.NaN()
				}

				return v[0][i]
			},
		}).
		Vector(VectorFunction{
			Name:             "dot",
			VectorArity:      2,
			IsVectorArgument: func(int) bool { return true },
			Calculate: func(_ []float64, v [][]float64) float64 {
				if len(v[0]) != len(v[1]) {
					return math.NaN()
				}

				var s float64
				for i := range v[0] {
					s += v[0][i] * v[1][i]
				}

				return s
			},
		}).
		Build()
	if err != nil {
		tb.Fatalf("build registry: %v", err)
	}

	return reg
}
