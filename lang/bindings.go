package lang

import (
	"maps"
	"slices"
)

// Bindings maps custom item names to the values they take during one
// evaluation. Bindings are not safe for concurrent mutation; give each
// concurrent evaluation its own set, for instance through [Bindings.Clone].
type Bindings struct {
	values map[string]Value
}

// NewBindings returns an empty set of bindings.
func NewBindings() *Bindings {
	return &Bindings{values: make(map[string]Value)}
}

// Bind associates name with value, replacing any previous value.
// An invalid name is rejected with an IllegalCustomItem [Diagnostic].
func (b *Bindings) Bind(name string, value Value) error {
	if !ValidCustomItemName(name) {
		return &Diagnostic{Code: IllegalCustomItem, Pos: -1, Name: name}
	}

	if b.values == nil {
		b.values = make(map[string]Value)
	}

	b.values[name] = value

	return nil
}

// BindScalar binds name to a scalar.
func (b *Bindings) BindScalar(name string, f float64) error {
	return b.Bind(name, Scalar(f))
}

// BindVector binds name to a copy of v.
func (b *Bindings) BindVector(name string, v ...float64) error {
	return b.Bind(name, Vector(v...))
}

// SetAll binds every entry of values. Names are checked first, in lexical
// order, and nothing is bound unless all of them are valid.
// It returns CustomItemsSuccessfullySet or the IllegalCustomItem failure.
func (b *Bindings) SetAll(values map[string]Value) *Diagnostic {
	for _, name := range slices.Sorted(maps.Keys(values)) {
		if !ValidCustomItemName(name) {
			return &Diagnostic{Code: IllegalCustomItem, Pos: -1, Name: name}
		}
	}

	if b.values == nil {
		b.values = make(map[string]Value, len(values))
	}

	maps.Copy(b.values, values)

	return &Diagnostic{Code: CustomItemsSuccessfullySet, Pos: -1}
}

// Get returns the value bound to name.
func (b *Bindings) Get(name string) (Value, bool) {
	if b == nil {
		return Value{}, false
	}

	v, ok := b.values[name]

	return v, ok
}

// Delete removes the binding of name.
func (b *Bindings) Delete(name string) {
	if b != nil {
		delete(b.values, name)
	}
}

// Len returns the number of bound names.
func (b *Bindings) Len() int {
	if b == nil {
		return 0
	}

	return len(b.values)
}

// Names returns the bound names in lexical order.
func (b *Bindings) Names() []string {
	if b == nil {
		return nil
	}

	return slices.Sorted(maps.Keys(b.values))
}

// Clone returns an independent copy of b.
func (b *Bindings) Clone() *Bindings {
	if b == nil {
		return NewBindings()
	}

	return &Bindings{values: maps.Clone(b.values)}
}
