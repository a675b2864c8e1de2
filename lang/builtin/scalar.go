package builtin

import (
	"math"

	"github.com/ardnew/formula/lang"
)

// Constants returns the capability records of the default constants.
func Constants() []lang.Constant {
	return []lang.Constant{
		{Name: "e", Description: "Euler's number", Value: math.E},
		{Name: "pi", Description: "ratio of a circle's circumference to its diameter", Value: math.Pi},
		{Name: "true", Description: "logical true (1)", Value: 1},
		{Name: "false", Description: "logical false (0)", Value: 0},
		{Name: "undefined", Description: "not a number", Value: math.NaN()},
	}
}

func unary(name, desc string, fn func(float64) float64) lang.ScalarFunction {
	return lang.ScalarFunction{
		Name:        name,
		Description: desc,
		Arity:       1,
		Calculate:   func(args []float64) float64 { return fn(args[0]) },
	}
}

func binary(name, desc string, fn func(a, b float64) float64) lang.ScalarFunction {
	return lang.ScalarFunction{
		Name:        name,
		Description: desc,
		Arity:       2,
		Calculate:   func(args []float64) float64 { return fn(args[0], args[1]) },
	}
}

// ScalarFunctions returns the capability records of the default scalar
// functions. Logical functions treat any non-zero argument as true and
// return 1 or 0.
func ScalarFunctions() []lang.ScalarFunction {
	return []lang.ScalarFunction{
		unary("abs", "absolute value", math.Abs),
		unary("sign", "sign of x: -1, 0 or 1", sign),
		unary("sqrt", "square root", math.Sqrt),
		unary("exp", "e raised to x", math.Exp),
		unary("ln", "natural logarithm", math.Log),
		binary("log", "logarithm of x to the given base", logBase),
		unary("log10", "decimal logarithm", math.Log10),
		unary("sin", "sine (radians)", math.Sin),
		unary("cos", "cosine (radians)", math.Cos),
		unary("tan", "tangent (radians)", math.Tan),
		unary("asin", "arcsine", math.Asin),
		unary("acos", "arccosine", math.Acos),
		unary("atan", "arctangent", math.Atan),
		binary("atan2", "arctangent of y/x using the signs of both", math.Atan2),
		unary("sinh", "hyperbolic sine", math.Sinh),
		unary("cosh", "hyperbolic cosine", math.Cosh),
		unary("tanh", "hyperbolic tangent", math.Tanh),
		unary("floor", "greatest integer not above x", math.Floor),
		unary("ceil", "least integer not below x", math.Ceil),
		unary("trunc", "integer part of x", math.Trunc),
		binary("round", "x rounded half away from zero to the given decimals", round),
		binary("min", "smaller of two values", math.Min),
		binary("max", "larger of two values", math.Max),
		binary("pow", "x raised to y", math.Pow),
		binary("mod", "remainder of x/y with the sign of x", math.Mod),
		binary("gt", "1 if x > y", func(a, b float64) float64 { return truth(a > b) }),
		binary("ge", "1 if x >= y", func(a, b float64) float64 { return truth(a >= b) }),
		binary("lt", "1 if x < y", func(a, b float64) float64 { return truth(a < b) }),
		binary("le", "1 if x <= y", func(a, b float64) float64 { return truth(a <= b) }),
		binary("eq", "1 if x = y", func(a, b float64) float64 { return truth(a == b) }),
		binary("ne", "1 if x != y", func(a, b float64) float64 { return truth(a != b) }),
		binary("and", "1 if both are non-zero", func(a, b float64) float64 { return truth(a != 0 && b != 0) }),
		binary("or", "1 if either is non-zero", func(a, b float64) float64 { return truth(a != 0 || b != 0) }),
		unary("not", "1 if x is zero", func(a float64) float64 { return truth(a == 0) }),
		unary("isNaN", "1 if x is not a number", func(a float64) float64 { return truth(math.IsNaN(a)) }),
	}
}

func sign(x float64) float64 {
	switch {
	case math.IsNaN(x):
		return x
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

func logBase(x, base float64) float64 {
	return math.Log(x) / math.Log(base)
}

// round rounds x half away from zero to the given number of decimals.
// Negative decimals round to tens, hundreds, and so on.
func round(x, decimals float64) float64 {
	if math.IsNaN(decimals) || math.IsInf(decimals, 0) {
		return math.NaN()
	}

	p := math.Pow(10, math.Trunc(decimals))

	return math.Round(x*p) / p
}
