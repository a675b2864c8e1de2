package lang

import (
	"context"
	"log/slog"
)

// Compile translates formula text into a [Program] bound to reg.
//
// Compilation is fail-fast: the first violated rule aborts it, and the
// returned error is a *[Diagnostic] describing that rule. No partial
// program is ever returned.
func Compile(
	ctx context.Context,
	text string,
	reg *Registry,
	opts ...Option,
) (*Program, error) {
	cfg := makeConfig(opts...)

	toks, items, d := analyze(text, reg, cfg)
	if d != nil {
		cfg.logger.TraceContext(ctx, "compile failed",
			slog.Any("diagnostic", d),
		)

		return nil, d
	}

	g := generator{
		toks:  toks,
		reg:   reg,
		slots: make(map[string]int, len(items)),
		code:  make([]Instruction, 0, len(toks)),
	}

	for _, it := range items {
		g.slots[it.Name] = it.Slot
	}

	g.expression()

	p := &Program{
		registry: reg,
		source:   text,
		code:     g.code,
		items:    items,
		maxStack: stackDepth(g.code),
	}

	cfg.logger.TraceContext(ctx, "compiled",
		slog.Int("tokens", len(toks)),
		slog.Int("instructions", len(p.code)),
		slog.Int("custom_items", len(items)),
		slog.Int("max_stack", p.maxStack),
	)

	return p, nil
}

// MustCompile is like [Compile] but panics on failure. It simplifies the
// initialization of package level programs.
func MustCompile(text string, reg *Registry) *Program {
	p, err := Compile(context.Background(), text, reg)
	if err != nil {
		panic("lang: compile " + text + ": " + err.Error())
	}

	return p
}

// Check validates formula text against reg without generating code.
// It returns a SuccessfullyCompiled diagnostic or the first failure.
func Check(
	ctx context.Context,
	text string,
	reg *Registry,
	opts ...Option,
) *Diagnostic {
	cfg := makeConfig(opts...)

	if _, _, d := analyze(text, reg, cfg); d != nil {
		cfg.logger.TraceContext(ctx, "check failed", slog.Any("diagnostic", d))

		return d
	}

	return &Diagnostic{Code: SuccessfullyCompiled, Pos: -1}
}

func analyze(text string, reg *Registry, cfg config) ([]Token, []CustomItem, *Diagnostic) {
	toks, d := Tokenize(text)
	if d != nil {
		return nil, nil, d
	}

	items, d := validate(toks, reg, cfg.suggest)
	if d != nil {
		return nil, nil, d
	}

	return toks, items, nil
}

// stackDepth returns the deepest stack reached by code.
func stackDepth(code []Instruction) int {
	depth, peak := 0, 0

	for _, in := range code {
		depth += in.delta()
		peak = max(peak, depth)
	}

	return peak
}

// generator emits postfix code for a validated token sequence by
// precedence climbing:
//
//	expression = term { ('+' | '-') term }
//	term       = power { ('*' | '/') power }
//	power      = unary { '^' unary }
//	unary      = [ '-' ] atom
//	atom       = number | constant | item | '(' expression ')' | call
type generator struct {
	reg   *Registry
	slots map[string]int
	toks  []Token
	code  []Instruction
	pos   int
}

func (g *generator) peek() TokenType {
	if g.pos >= len(g.toks) {
		return numTokenTypes
	}

	return g.toks[g.pos].Type
}

func (g *generator) next() Token {
	t := g.toks[g.pos]
	g.pos++

	return t
}

func (g *generator) emit(in Instruction) { g.code = append(g.code, in) }

func (g *generator) binary(op Operator) {
	g.emit(Instruction{Op: OpBinary, Operator: op})
}

func (g *generator) expression() {
	g.term()

	for {
		switch g.peek() {
		case TokenPlus:
			g.next()
			g.term()
			g.binary(OperatorAdd)
		case TokenMinus:
			g.next()
			g.term()
			g.binary(OperatorSubtract)
		default:
			return
		}
	}
}

func (g *generator) term() {
	g.power()

	for {
		switch g.peek() {
		case TokenTimes:
			g.next()
			g.power()
			g.binary(OperatorMultiply)
		case TokenDivide:
			g.next()
			g.power()
			g.binary(OperatorDivide)
		default:
			return
		}
	}
}

func (g *generator) power() {
	g.unary()

	for g.peek() == TokenPower {
		g.next()
		g.unary()
		g.binary(OperatorPower)
	}
}

func (g *generator) unary() {
	if g.peek() == TokenMinus {
		g.next()
		g.atom()
		g.emit(Instruction{Op: OpUnary, Operator: OperatorNegate})

		return
	}

	g.atom()
}

func (g *generator) atom() {
	tok := g.next()

	switch tok.Type {
	case TokenNumber:
		g.emit(Instruction{Op: OpPushNumber, Number: tok.Value})

	case TokenConstant:
		g.emit(Instruction{Op: OpPushConstant, ID: tok.ID, Number: tok.Value})

	case TokenCustomItem:
		g.emit(Instruction{Op: OpPushCustomItem, Slot: g.slots[tok.Name()]})

	case TokenLeftParen:
		g.expression()
		g.next() // )

	case TokenIf:
		g.next() // (
		g.expression()
		g.next() // ,
		g.expression()
		g.next() // ,
		g.expression()
		g.next() // )
		g.emit(Instruction{Op: OpConditional})

	case TokenFunction:
		g.call(tok.ID)
	}
}

func (g *generator) call(id ID) {
	e, _ := g.reg.Entry(id)

	g.next() // (

	for i := 0; ; i++ {
		if e.IsVectorArgument(i) {
			g.vector()
		} else {
			g.expression()
		}

		if g.next().Type != TokenComma {
			break
		}
	}

	if e.class == ClassVector {
		g.emit(Instruction{
			Op:      OpCallVector,
			ID:      id,
			Arity:   e.arity,
			Vectors: e.vectorArity,
			Mask:    e.mask,
		})

		return
	}

	g.emit(Instruction{Op: OpCallScalar, ID: id, Arity: e.arity})
}

// vector emits a vector argument: a literal or a vector custom item.
func (g *generator) vector() {
	if g.peek() != TokenLeftCurly {
		g.atom()

		return
	}

	g.next() // {

	n := 0

	for {
		g.expression()
		n++

		if g.next().Type != TokenComma {
			break
		}
	}

	g.emit(Instruction{Op: OpPushVector, Arity: n})
}
