package builtin

import (
	"math"
	"slices"

	"github.com/ardnew/formula/lang"
)

// reduce describes a function of exactly one vector argument.
func reduce(name, desc string, fn func(v []float64) float64) lang.VectorFunction {
	return lang.VectorFunction{
		Name:             name,
		Description:      desc,
		ScalarArity:      0,
		VectorArity:      1,
		IsVectorArgument: func(int) bool { return true },
		Calculate: func(_ []float64, vectors [][]float64) float64 {
			return fn(vectors[0])
		},
	}
}

// VectorFunctions returns the capability records of the default vector
// functions. Statistics of an empty vector are NaN, except sum (0),
// product (1) and count (0).
func VectorFunctions() []lang.VectorFunction {
	return []lang.VectorFunction{
		reduce("sum", "sum of the components", sum),
		reduce("product", "product of the components", product),
		reduce("count", "number of components", func(v []float64) float64 { return float64(len(v)) }),
		reduce("mean", "arithmetic mean", mean),
		reduce("median", "middle value, or mean of the two middle values", median),
		reduce("minimum", "smallest component", minimum),
		reduce("maximum", "largest component", maximum),
		reduce("variance", "sample variance", variance),
		reduce("stdDev", "sample standard deviation", stdDev),
		reduce("sampleError", "standard error of the mean", sampleError),
		reduce("norm", "Euclidean length", norm),
		{
			Name:             "dot",
			Description:      "dot product of two vectors of equal length",
			VectorArity:      2,
			IsVectorArgument: func(int) bool { return true },
			Calculate: func(_ []float64, vectors [][]float64) float64 {
				return dot(vectors[0], vectors[1])
			},
		},
		{
			Name:             "component",
			Description:      "component of a vector at a zero-based index",
			ScalarArity:      1,
			VectorArity:      1,
			IsVectorArgument: func(i int) bool { return i == 0 },
			Calculate: func(scalars []float64, vectors [][]float64) float64 {
				return component(vectors[0], scalars[0])
			},
		},
	}
}

func sum(v []float64) float64 {
	var s float64
	for _, f := range v {
		s += f
	}

	return s
}

func product(v []float64) float64 {
	p := 1.0
	for _, f := range v {
		p *= f
	}

	return p
}

func mean(v []float64) float64 {
	if len(v) == 0 {
		return math.NaN()
	}

	return sum(v) / float64(len(v))
}

// median sorts a copy, leaving the bound value untouched.
func median(v []float64) float64 {
	n := len(v)
	if n == 0 {
		return math.NaN()
	}

	s := slices.Clone(v)
	slices.Sort(s)

	if n%2 == 1 {
		return s[n/2]
	}

	return (s[n/2-1] + s[n/2]) / 2
}

func minimum(v []float64) float64 {
	if len(v) == 0 {
		return math.NaN()
	}

	m := v[0]
	for _, f := range v[1:] {
		m = math.Min(m, f)
	}

	return m
}

func maximum(v []float64) float64 {
	if len(v) == 0 {
		return math.NaN()
	}

	m := v[0]
	for _, f := range v[1:] {
		m = math.Max(m, f)
	}

	return m
}

// variance is the sample variance, dividing by n-1.
func variance(v []float64) float64 {
	n := len(v)
	if n < 2 {
		return math.NaN()
	}

	mu := mean(v)

	var ss float64
	for _, f := range v {
		d := f - mu
		ss += d * d
	}

	return ss / float64(n-1)
}

func stdDev(v []float64) float64 {
	return math.Sqrt(variance(v))
}

func sampleError(v []float64) float64 {
	return stdDev(v) / math.Sqrt(float64(len(v)))
}

func norm(v []float64) float64 {
	if len(v) == 0 {
		return math.NaN()
	}

	return math.Sqrt(dot(v, v))
}

func dot(a, b []float64) float64 {
	if len(a) != len(b) {
		return math.NaN()
	}

	var s float64
	for i := range a {
		s += a[i] * b[i]
	}

	return s
}

// component returns v[i] when i is an integral in-range index, NaN
// otherwise.
func component(v []float64, i float64) float64 {
	if i != math.Trunc(i) || i < 0 || i >= float64(len(v)) {
		return math.NaN()
	}

	return v[int(i)]
}
