package lang

import (
	"context"
	"log/slog"
	"math"
	"slices"
	"sync"
)

var nan = math.NaN()

// cell is one stack slot: a scalar, or a vector when vec is set.
type cell struct {
	v   []float64
	f   float64
	vec bool
}

// machine is the reusable state of one evaluation.
type machine struct {
	stack   []cell
	slots   []Value
	scalars []float64
	vectors [][]float64
}

var machines = sync.Pool{
	New: func() any { return new(machine) },
}

func (m *machine) reset() {
	clear(m.stack)
	clear(m.slots)
	clear(m.vectors)
	m.stack = m.stack[:0]
	m.slots = m.slots[:0]
	m.scalars = m.scalars[:0]
	m.vectors = m.vectors[:0]
}

// Evaluate executes p against the custom item values in b.
//
// Every custom item required by p must be bound to a value of the required
// kind, otherwise Evaluate fails with [ErrUnboundCustomItem] or
// [ErrCustomItemKind] before executing any instruction. Numeric domain
// problems are not errors: NaN and infinities propagate to the result.
func (p *Program) Evaluate(
	ctx context.Context,
	b *Bindings,
	opts ...Option,
) (float64, error) {
	if p == nil {
		return nan, ErrNilProgram
	}

	cfg := makeConfig(opts...)

	m, _ := machines.Get().(*machine)
	defer func() {
		m.reset()
		machines.Put(m)
	}()

	if err := p.bind(m, b); err != nil {
		cfg.logger.TraceContext(ctx, "evaluate failed", slog.Any("error", err))

		return nan, err
	}

	f, err := p.run(m)
	if err != nil {
		cfg.logger.TraceContext(ctx, "evaluate failed", slog.Any("error", err))

		return nan, err
	}

	cfg.logger.TraceContext(ctx, "evaluated",
		slog.String("source", p.source),
		slog.Float64("result", f),
	)

	return f, nil
}

// Evaluate executes p against b. See [Program.Evaluate].
func Evaluate(
	ctx context.Context,
	p *Program,
	b *Bindings,
	opts ...Option,
) (float64, error) {
	return p.Evaluate(ctx, b, opts...)
}

// bind resolves every required custom item into its slot.
func (p *Program) bind(m *machine, b *Bindings) error {
	for _, it := range p.items {
		v, ok := b.Get(it.Name)
		if !ok {
			return ErrUnboundCustomItem.With(slog.String("name", it.Name))
		}

		if v.kind != it.Kind {
			return ErrCustomItemKind.With(
				slog.String("name", it.Name),
				slog.String("want", it.Kind.String()),
				slog.String("got", v.kind.String()),
			)
		}

		m.slots = append(m.slots, v)
	}

	return nil
}

func (m *machine) push(c cell) { m.stack = append(m.stack, c) }

func (m *machine) scalar(f float64) { m.stack = append(m.stack, cell{f: f}) }

func contract(reason string, pc int, in Instruction) error {
	return ErrStackContract.With(
		slog.String("reason", reason),
		slog.Int("pc", pc),
		slog.String("op", in.Op.String()),
	)
}

// run executes the instruction sequence of p.
func (p *Program) run(m *machine) (float64, error) {
	if cap(m.stack) < p.maxStack {
		m.stack = make([]cell, 0, p.maxStack)
	}

	for pc, in := range p.code {
		switch in.Op {
		case OpPushNumber, OpPushConstant:
			m.scalar(in.Number)

		case OpPushCustomItem:
			if in.Slot < 0 || in.Slot >= len(m.slots) {
				return nan, contract("slot out of range", pc, in)
			}

			v := m.slots[in.Slot]
			if v.kind == KindVector {
				// Functions may modify their arguments; the binding must not change.
				m.push(cell{v: slices.Clone(v.vector), vec: true})
			} else {
				m.scalar(v.scalar)
			}

		case OpUnary:
			n := len(m.stack)
			if n < 1 || m.stack[n-1].vec {
				return nan, contract("unary operand", pc, in)
			}

			if in.Operator != OperatorNegate {
				return nan, ErrUnknownInstruction.With(
					slog.String("operator", in.Operator.String()))
			}

			m.stack[n-1].f = -m.stack[n-1].f

		case OpBinary:
			n := len(m.stack)
			if n < 2 || m.stack[n-1].vec || m.stack[n-2].vec {
				return nan, contract("binary operands", pc, in)
			}

			r, ok := arithmetic(in.Operator, m.stack[n-2].f, m.stack[n-1].f)
			if !ok {
				return nan, ErrUnknownInstruction.With(
					slog.String("operator", in.Operator.String()))
			}

			m.stack = m.stack[:n-1]
			m.stack[n-2].f = r

		case OpCallScalar, OpCallVector:
			if err := p.call(m, pc, in); err != nil {
				return nan, err
			}

		case OpPushVector:
			n := len(m.stack)
			if in.Arity < 1 || n < in.Arity {
				return nan, contract("vector components", pc, in)
			}

			v := make([]float64, in.Arity)

			for i, c := range m.stack[n-in.Arity:] {
				if c.vec {
					return nan, contract("nested vector", pc, in)
				}

				v[i] = c.f
			}

			m.stack = m.stack[:n-in.Arity]
			m.push(cell{v: v, vec: true})

		case OpConditional:
			n := len(m.stack)
			if n < 3 || m.stack[n-3].vec || m.stack[n-2].vec || m.stack[n-1].vec {
				return nan, contract("conditional operands", pc, in)
			}

			cond, then, els := m.stack[n-3].f, m.stack[n-2].f, m.stack[n-1].f
			m.stack = m.stack[:n-2]

			if cond != 0 {
				m.stack[n-3].f = then
			} else {
				m.stack[n-3].f = els
			}

		default:
			return nan, ErrUnknownInstruction.With(
				slog.Int("pc", pc),
				slog.String("op", in.Op.String()),
			)
		}
	}

	if len(m.stack) != 1 || m.stack[0].vec {
		return nan, ErrStackContract.With(
			slog.String("reason", "final stack"),
			slog.Int("depth", len(m.stack)),
		)
	}

	return m.stack[0].f, nil
}

// call invokes the function of a call instruction on the top Arity cells.
func (p *Program) call(m *machine, pc int, in Instruction) error {
	e, ok := p.registry.Entry(in.ID)
	if !ok {
		return ErrUnknownInstruction.With(
			slog.Int("pc", pc),
			slog.Int("id", int(in.ID)),
		)
	}

	n := len(m.stack)
	if in.Arity < 1 || n < in.Arity {
		return contract("call arguments", pc, in)
	}

	args := m.stack[n-in.Arity:]
	m.scalars = m.scalars[:0]
	m.vectors = m.vectors[:0]

	for i, c := range args {
		wantVec := in.Op == OpCallVector && in.Mask&(1<<uint(i)) != 0
		if c.vec != wantVec {
			return contract("argument kind", pc, in)
		}

		if c.vec {
			m.vectors = append(m.vectors, c.v)
		} else {
			m.scalars = append(m.scalars, c.f)
		}
	}

	var r float64

	switch {
	case in.Op == OpCallScalar && e.scalar != nil:
		r = e.scalar(m.scalars)
	case in.Op == OpCallVector && e.vector != nil:
		r = e.vector(m.scalars, m.vectors)
	default:
		return ErrUnknownInstruction.With(
			slog.Int("pc", pc),
			slog.String("function", e.name),
		)
	}

	clear(args)
	m.stack = m.stack[:n-in.Arity]
	m.scalar(r)

	return nil
}

func arithmetic(op Operator, a, b float64) (float64, bool) {
	switch op {
	case OperatorAdd:
		return a + b, true
	case OperatorSubtract:
		return a - b, true
	case OperatorMultiply:
		return a * b, true
	case OperatorDivide:
		return a / b, true
	case OperatorPower:
		return math.Pow(a, b), true
	default:
		return nan, false
	}
}
