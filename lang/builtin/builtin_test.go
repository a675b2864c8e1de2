package builtin

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/formula/lang"
)

func eval(t *testing.T, formula string, b *lang.Bindings) float64 {
	t.Helper()

	p, err := lang.Compile(t.Context(), formula, Registry())
	require.NoError(t, err, formula)

	v, err := p.Evaluate(t.Context(), b)
	require.NoError(t, err, formula)

	return v
}

func TestRegistryIsShared(t *testing.T) {
	assert.Same(t, Registry(), Registry())
	assert.Equal(t,
		len(Constants())+len(ScalarFunctions())+len(VectorFunctions()),
		Registry().Len())
}

func TestCatalog(t *testing.T) {
	tests := []struct {
		formula string
		want    float64
	}{
		{"pi", math.Pi},
		{"e", math.E},
		{"true + false", 1},
		{"abs(-2.5)", 2.5},
		{"sign(-7)", -1},
		{"sign(0)", 0},
		{"sqrt(81)", 9},
		{"ln(exp(2))", 2},
		{"log(8, 2)", 3},
		{"log10(1000)", 3},
		{"floor(2.7) + ceil(2.1) + trunc(-2.7)", 3},
		{"round(2.345, 2)", 2.35},
		{"round(-2.5, 0)", -3},
		{"round(1234, -2)", 1200},
		{"min(3, 4) + max(3, 4)", 7},
		{"pow(2, 0.5)^2", 2},
		{"mod(7, 3)", 1},
		{"gt(2, 1) + ge(1, 1) + lt(2, 1) + le(2, 1)", 2},
		{"eq(1, 1) + ne(1, 1)", 1},
		{"and(1, 0) + or(1, 0) + not(0)", 2},
		{"isNaN(undefined)", 1},
		{"atan2(1, 1)*4", math.Pi},
		{"sum({1,2,3})", 6},
		{"product({1,2,3,4})", 24},
		{"count({5,5,5})", 3},
		{"mean({1,2,3,4})", 2.5},
		{"median({3,1,2})", 2},
		{"median({4,1,3,2})", 2.5},
		{"minimum({3,-1,2})", -1},
		{"maximum({3,-1,2})", 3},
		{"variance({2,4,4,4,5,5,7,9})", 32.0 / 7},
		{"stdDev({1,1,1})", 0},
		{"norm({3,4})", 5},
		{"dot({1,2,3},{4,5,6})", 32},
		{"component({10,20,30}, 2)", 30},
	}

	for _, tt := range tests {
		t.Run(tt.formula, func(t *testing.T) {
			assert.InDelta(t, tt.want, eval(t, tt.formula, nil), 1e-12)
		})
	}
}

func TestUndefinedResults(t *testing.T) {
	for _, formula := range []string{
		"component({1,2}, 2)",
		"component({1,2}, -1)",
		"component({1,2}, 0.5)",
		"dot({1,2},{1})",
		"variance({1})",
		"sqrt(-1)",
		"round(1, undefined)",
		"sign(undefined)",
	} {
		assert.True(t, math.IsNaN(eval(t, formula, nil)), formula)
	}
}

func TestEmptyVector(t *testing.T) {
	b := lang.NewBindings()
	require.NoError(t, b.BindVector("v"))

	assert.Zero(t, eval(t, "sum('v')", b))
	assert.Equal(t, 1.0, eval(t, "product('v')", b))
	assert.Zero(t, eval(t, "count('v')", b))

	for _, fn := range []string{
		"mean", "median", "minimum", "maximum", "variance", "stdDev", "sampleError", "norm",
	} {
		assert.True(t, math.IsNaN(eval(t, fn+"('v')", b)), fn)
	}
}

func TestMedianLeavesInputUnsorted(t *testing.T) {
	v := []float64{3, 1, 2}

	assert.Equal(t, 2.0, median(v))
	assert.Equal(t, []float64{3, 1, 2}, v)

	b := lang.NewBindings()
	require.NoError(t, b.BindVector("v", v...))
	assert.Equal(t, 2.0, eval(t, "median('v') + component('v', 0) - 3", b))
}

func TestRegisterExtends(t *testing.T) {
	reg, err := Register(lang.NewBuilder()).
		Scalar(lang.ScalarFunction{
			Name:      "double",
			Arity:     1,
			Calculate: func(a []float64) float64 { return 2 * a[0] },
		}).
		Build()
	require.NoError(t, err)

	p, err := lang.Compile(t.Context(), "double(sum({1,2}))", reg)
	require.NoError(t, err)

	v, err := p.Evaluate(t.Context(), nil)
	require.NoError(t, err)
	assert.Equal(t, 6.0, v)

	_, err = Register(lang.NewBuilder()).
		Constant(lang.Constant{Name: "pi", Value: 3}).
		Build()
	require.ErrorIs(t, err, lang.ErrRegistry)
}

func TestDescribe(t *testing.T) {
	desc, ok := Registry().Describe("component")
	require.True(t, ok)
	assert.Contains(t, desc, "component(vector, scalar)")

	assert.Contains(t, Registry().Suggest("sn"), "sin")
}
