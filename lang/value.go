package lang

import (
	"log/slog"
	"slices"
	"strconv"
	"strings"
)

// Kind distinguishes scalar values from vector values.
type Kind uint8

// Value kinds.
const (
	KindScalar Kind = iota
	KindVector
)

// String returns "scalar" or "vector".
func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindVector:
		return "vector"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Value is a scalar or an ordered sequence of scalars.
// The zero Value is the scalar 0.
type Value struct {
	vector []float64
	scalar float64
	kind   Kind
}

// Scalar returns a scalar Value.
func Scalar(f float64) Value {
	return Value{kind: KindScalar, scalar: f}
}

// Vector returns a vector Value holding a copy of v.
func Vector(v ...float64) Value {
	if v == nil {
		v = []float64{}
	}

	return Value{kind: KindVector, vector: slices.Clone(v)}
}

// Kind returns the kind of v.
func (v Value) Kind() Kind { return v.kind }

// Float returns the scalar of v, or NaN when v is a vector.
func (v Value) Float() float64 {
	if v.kind != KindScalar {
		return nan
	}

	return v.scalar
}

// Floats returns a copy of the components of v, or nil when v is a scalar.
func (v Value) Floats() []float64 {
	if v.kind != KindVector {
		return nil
	}

	return slices.Clone(v.vector)
}

// Len returns the number of components of a vector, or 1 for a scalar.
func (v Value) Len() int {
	if v.kind == KindVector {
		return len(v.vector)
	}

	return 1
}

// String formats v the way it would be written in a formula.
func (v Value) String() string {
	if v.kind == KindScalar {
		return formatFloat(v.scalar)
	}

	var sb strings.Builder

	sb.WriteByte('{')

	for i, f := range v.vector {
		if i > 0 {
			sb.WriteByte(',')
		}

		sb.WriteString(formatFloat(f))
	}

	sb.WriteByte('}')

	return sb.String()
}

// LogValue implements slog.LogValuer.
func (v Value) LogValue() slog.Value {
	return slog.StringValue(v.String())
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
