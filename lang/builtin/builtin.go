// Package builtin provides the default catalog of constants, scalar
// functions and vector functions for formulas.
//
// The catalog is supplied to a [lang.Builder] as capability records; the
// compiler itself knows nothing about any of these names.
package builtin

import (
	"sync"

	"github.com/ardnew/formula/lang"
)

// Private singleton cache.
//
//nolint:gochecknoglobals
var registry = sync.OnceValue(func() *lang.Registry {
	reg, err := Register(lang.NewBuilder()).Build()
	if err != nil {
		panic("builtin: " + err.Error())
	}

	return reg
})

// Registry returns the frozen registry holding the default catalog.
// It is built once per process and shared by all callers.
func Registry() *lang.Registry {
	return registry()
}

// Register adds the default catalog to b, so that callers can extend it
// with their own functions before building.
func Register(b *lang.Builder) *lang.Builder {
	for _, c := range Constants() {
		b.Constant(c)
	}

	for _, f := range ScalarFunctions() {
		b.Scalar(f)
	}

	for _, f := range VectorFunctions() {
		b.Vector(f)
	}

	return b
}

// truth converts a boolean into the numeric truth values 1 and 0.
func truth(b bool) float64 {
	if b {
		return 1
	}

	return 0
}
