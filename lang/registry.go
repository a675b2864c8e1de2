package lang

import (
	"iter"
	"log/slog"
	"math/bits"
	"slices"
	"strconv"
	"strings"

	"github.com/sahilm/fuzzy"
)

// ID is the dense integer token assigned to a registered name.
type ID int

// Class is the variant of a registered capability.
type Class uint8

// Registered capability variants.
const (
	ClassConstant Class = iota
	ClassScalar
	ClassVector
)

// String returns the lowercase name of the class.
func (c Class) String() string {
	switch c {
	case ClassConstant:
		return "constant"
	case ClassScalar:
		return "scalar"
	case ClassVector:
		return "vector"
	default:
		return "Class(" + strconv.Itoa(int(c)) + ")"
	}
}

// MaxArity is the largest number of arguments a function may declare.
const MaxArity = 64

// Constant is the capability record of a named constant.
type Constant struct {
	Name        string
	Description string
	Value       float64
}

// ScalarFunction is the capability record of a function whose arguments
// are all scalars.
type ScalarFunction struct {
	Name        string
	Description string
	Arity       int
	Calculate   func(args []float64) float64
}

// VectorFunction is the capability record of a function with at least one
// vector argument. IsVectorArgument classifies each of the
// ScalarArity+VectorArity argument positions; exactly VectorArity of them
// must be vectors. Calculate receives vectors owned by the evaluation and
// may modify them.
type VectorFunction struct {
	Name             string
	Description      string
	ScalarArity      int
	VectorArity      int
	IsVectorArgument func(index int) bool
	Calculate        func(scalars []float64, vectors [][]float64) float64
}

// Entry is the frozen registration of one name.
type Entry struct {
	scalar      func([]float64) float64
	vector      func([]float64, [][]float64) float64
	name        string
	description string
	value       float64
	mask        uint64
	id          ID
	arity       int
	vectorArity int
	class       Class
}

// ID returns the token assigned to the entry.
func (e Entry) ID() ID { return e.id }

// Class returns the capability variant of the entry.
func (e Entry) Class() Class { return e.class }

// Name returns the registered name.
func (e Entry) Name() string { return e.name }

// Description returns the human readable description.
func (e Entry) Description() string { return e.description }

// Value returns the value of a constant, or 0 for functions.
func (e Entry) Value() float64 { return e.value }

// Arity returns the total number of arguments, or 0 for constants.
func (e Entry) Arity() int { return e.arity }

// VectorArity returns the number of vector arguments.
func (e Entry) VectorArity() int { return e.vectorArity }

// ScalarArity returns the number of scalar arguments.
func (e Entry) ScalarArity() int { return e.arity - e.vectorArity }

// Mask returns the argument kind bitmask; bit i is set when argument i is a
// vector.
func (e Entry) Mask() uint64 { return e.mask }

// IsVectorArgument reports whether argument i must be a vector.
func (e Entry) IsVectorArgument(i int) bool {
	return i >= 0 && i < e.arity && e.mask&(1<<uint(i)) != 0
}

// Signature returns a short call signature, such as "component(vector,
// scalar)" for a function or the bare name for a constant.
func (e Entry) Signature() string {
	if e.class == ClassConstant {
		return e.name
	}

	var sb strings.Builder

	sb.WriteString(e.name)
	sb.WriteByte('(')

	for i := range e.arity {
		if i > 0 {
			sb.WriteString(", ")
		}

		if e.IsVectorArgument(i) {
			sb.WriteString(KindVector.String())
		} else {
			sb.WriteString(KindScalar.String())
		}
	}

	sb.WriteByte(')')

	return sb.String()
}

// LogValue implements slog.LogValuer.
func (e Entry) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("id", int(e.id)),
		slog.String("class", e.class.String()),
		slog.String("name", e.name),
		slog.Int("arity", e.arity),
	)
}

// Builder collects capability records and freezes them into a [Registry].
// The first invalid record is remembered and reported by [Builder.Build];
// records added after it are ignored.
type Builder struct {
	entries []Entry
	index   map[string]ID
	err     error
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{index: make(map[string]ID)}
}

// Constant registers a named constant.
func (b *Builder) Constant(c Constant) *Builder {
	if !b.admit(c.Name) {
		return b
	}

	b.add(Entry{
		class:       ClassConstant,
		name:        c.Name,
		description: c.Description,
		value:       c.Value,
	})

	return b
}

// Scalar registers a scalar function.
func (b *Builder) Scalar(f ScalarFunction) *Builder {
	if !b.admit(f.Name) {
		return b
	}

	switch {
	case f.Arity <= 0 || f.Arity > MaxArity:
		b.fail(f.Name, "arity out of range", slog.Int("arity", f.Arity))
	case f.Calculate == nil:
		b.fail(f.Name, "nil calculation rule")
	default:
		b.add(Entry{
			class:       ClassScalar,
			name:        f.Name,
			description: f.Description,
			arity:       f.Arity,
			scalar:      f.Calculate,
		})
	}

	return b
}

// Vector registers a vector function.
func (b *Builder) Vector(f VectorFunction) *Builder {
	if !b.admit(f.Name) {
		return b
	}

	arity := f.ScalarArity + f.VectorArity

	switch {
	case f.ScalarArity < 0 || f.VectorArity <= 0 || arity > MaxArity:
		b.fail(f.Name, "arity out of range",
			slog.Int("scalar_arity", f.ScalarArity),
			slog.Int("vector_arity", f.VectorArity))

		return b
	case f.IsVectorArgument == nil || f.Calculate == nil:
		b.fail(f.Name, "nil classification or calculation rule")

		return b
	}

	var mask uint64

	for i := range arity {
		if f.IsVectorArgument(i) {
			mask |= 1 << uint(i)
		}
	}

	if n := bits.OnesCount64(mask); n != f.VectorArity {
		b.fail(f.Name, "vector argument count mismatch",
			slog.Int("declared", f.VectorArity),
			slog.Int("classified", n))

		return b
	}

	b.add(Entry{
		class:       ClassVector,
		name:        f.Name,
		description: f.Description,
		arity:       arity,
		vectorArity: f.VectorArity,
		mask:        mask,
		vector:      f.Calculate,
	})

	return b
}

// Build freezes the registered entries. It returns the first registration
// error, if any.
func (b *Builder) Build() (*Registry, error) {
	if b.err != nil {
		return nil, b.err
	}

	r := &Registry{
		entries: slices.Clone(b.entries),
		index:   make(map[string]ID, len(b.index)),
	}

	for name, id := range b.index {
		r.index[name] = id
	}

	r.names = make([]string, len(r.entries))
	for i, e := range r.entries {
		r.names[i] = e.name
	}

	slices.Sort(r.names)

	return r, nil
}

func (b *Builder) admit(name string) bool {
	if b.err != nil {
		return false
	}

	switch {
	case !ValidIdentifier(name):
		b.fail(name, "invalid name")
	case strings.EqualFold(name, keywordIf):
		b.fail(name, "name is reserved")
	default:
		if _, dup := b.index[name]; dup {
			b.fail(name, "duplicate name")
		}
	}

	return b.err == nil
}

func (b *Builder) add(e Entry) {
	e.id = ID(len(b.entries))
	b.entries = append(b.entries, e)
	b.index[e.name] = e.id
}

func (b *Builder) fail(name, reason string, attrs ...slog.Attr) {
	b.err = ErrRegistry.With(
		append([]slog.Attr{
			slog.String("name", name),
			slog.String("reason", reason),
		}, attrs...)...,
	)
}

// Registry is the frozen set of constants and functions known to the
// compiler. It is safe for concurrent use. A nil *Registry is empty.
type Registry struct {
	entries []Entry
	index   map[string]ID
	names   []string // sorted
}

// Lookup returns the entry registered under name. Names are case sensitive.
func (r *Registry) Lookup(name string) (Entry, bool) {
	if r == nil {
		return Entry{}, false
	}

	id, ok := r.index[name]
	if !ok {
		return Entry{}, false
	}

	return r.entries[id], true
}

// Entry returns the entry with the given id.
func (r *Registry) Entry(id ID) (Entry, bool) {
	if r == nil || id < 0 || int(id) >= len(r.entries) {
		return Entry{}, false
	}

	return r.entries[id], true
}

// All yields every entry in id order.
func (r *Registry) All() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		if r == nil {
			return
		}

		for _, e := range r.entries {
			if !yield(e) {
				return
			}
		}
	}
}

// Names returns the registered names in lexical order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}

	return slices.Clone(r.names)
}

// Len returns the number of registered entries.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}

	return len(r.entries)
}

// Suggest returns registered names that fuzzily match name, best first.
func (r *Registry) Suggest(name string) []string {
	if r == nil || name == "" {
		return nil
	}

	matches := fuzzy.Find(name, r.names)
	out := make([]string, len(matches))

	for i, m := range matches {
		out[i] = m.Str
	}

	return out
}

// Describe returns the signature and description of the named entry.
func (r *Registry) Describe(name string) (string, bool) {
	e, ok := r.Lookup(name)
	if !ok {
		return "", false
	}

	if e.description == "" {
		return e.Signature(), true
	}

	return e.Signature() + ": " + e.description, true
}
