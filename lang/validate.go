package lang

import (
	"strings"
)

// tokenSet is a bitmask of token categories.
type tokenSet uint32

func setOf(types ...TokenType) tokenSet {
	var s tokenSet
	for _, t := range types {
		s |= 1 << t
	}

	return s
}

func (s tokenSet) has(t TokenType) bool { return s&(1<<t) != 0 }

var (
	firstTokens = setOf(
		TokenNumber, TokenMinus, TokenLeftParen, TokenFunction,
		TokenConstant, TokenCustomItem, TokenLeftCurly, TokenIf,
	)
	lastTokens = setOf(
		TokenNumber, TokenRightParen, TokenConstant, TokenCustomItem,
		TokenRightCurly,
	)

	afterOperand = setOf(
		TokenPlus, TokenMinus, TokenTimes, TokenDivide, TokenPower,
		TokenRightParen, TokenComma, TokenRightCurly,
	)
	afterOperator = setOf(
		TokenNumber, TokenLeftParen, TokenFunction, TokenConstant,
		TokenCustomItem, TokenIf,
	)
	afterOpen = afterOperator | setOf(TokenMinus, TokenLeftCurly)
)

// follow maps each category to the categories allowed to come next.
var follow = [numTokenTypes]tokenSet{
	TokenNumber:     afterOperand,
	TokenConstant:   afterOperand,
	TokenCustomItem: afterOperand,
	TokenRightParen: afterOperand,
	TokenRightCurly: setOf(TokenRightParen, TokenComma),
	TokenPlus:       afterOperator,
	TokenMinus:      afterOperator,
	TokenTimes:      afterOperator,
	TokenDivide:     afterOperator,
	TokenPower:      afterOperator,
	TokenLeftParen:  afterOpen,
	TokenComma:      afterOpen,
	TokenLeftCurly:  afterOpen | setOf(TokenRightCurly),
	TokenFunction:   setOf(TokenLeftParen),
	TokenIf:         setOf(TokenLeftParen),
}

type frameKind uint8

const (
	frameGroup frameKind = iota
	frameFunction
	frameIf
	frameVector
)

// frame is one open bracket context.
type frame struct {
	entry    Entry
	kind     frameKind
	arg      int // index of the argument being scanned
	argStart int // token index where that argument begins
}

// vectorSlot reports whether the current argument of f must be a vector.
func (f *frame) vectorSlot() bool {
	return f.kind == frameFunction && f.entry.class == ClassVector &&
		f.entry.IsVectorArgument(f.arg)
}

// scalarSlot reports whether the current argument of f is a declared scalar
// position of a vector function.
func (f *frame) scalarSlot() bool {
	return f.kind == frameFunction && f.entry.class == ClassVector &&
		f.arg < f.entry.arity && !f.entry.IsVectorArgument(f.arg)
}

func (f *frame) missingClose() *Diagnostic {
	switch f.kind {
	case frameFunction:
		return &Diagnostic{
			Code: MissingFunctionClosingBracket,
			Pos:  -1,
			Name: f.entry.name,
		}
	case frameIf:
		return &Diagnostic{Code: MissingIfClosingBracket, Pos: -1}
	case frameVector:
		return &Diagnostic{Code: InvalidVector, Pos: -1}
	default:
		return &Diagnostic{Code: MissingClosingBracket, Pos: -1}
	}
}

// validator checks a token sequence in a single left to right pass.
type validator struct {
	reg     *Registry
	toks    []Token
	frames  []frame
	items   []CustomItem
	slots   map[string]int
	suggest bool
}

// validate resolves identifiers in toks and checks the grammar. On success
// it returns the custom items in first occurrence order.
func validate(toks []Token, reg *Registry, suggest bool) ([]CustomItem, *Diagnostic) {
	v := validator{
		reg:     reg,
		toks:    toks,
		slots:   make(map[string]int),
		suggest: suggest,
	}

	if d := v.resolve(); d != nil {
		return nil, d
	}

	if first := toks[0]; !firstTokens.has(first.Type) {
		return nil, diagnose(InvalidFirstToken, first)
	}

	if last := toks[len(toks)-1]; !lastTokens.has(last.Type) {
		return nil, diagnose(InvalidLastToken, last)
	}

	for i := range toks {
		if i > 0 {
			prev, cur := toks[i-1], toks[i]
			if !follow[prev.Type].has(cur.Type) {
				return nil, &Diagnostic{
					Code:   InvalidFollowToken,
					Pos:    cur.Pos,
					Token:  prev.Text,
					Follow: cur.Text,
				}
			}
		}

		if d := v.step(i); d != nil {
			return nil, d
		}
	}

	if n := len(v.frames); n > 0 {
		last := v.toks[len(v.toks)-1]
		d := v.frames[n-1].missingClose()
		d.Pos = last.Pos + len(last.Text)

		return nil, d
	}

	return v.items, nil
}

// resolve classifies every bare identifier and checks custom item names.
func (v *validator) resolve() *Diagnostic {
	for i := range v.toks {
		tok := &v.toks[i]

		switch tok.Type {
		case TokenIdentifier:
			if strings.EqualFold(tok.Text, keywordIf) {
				tok.Type = TokenIf

				continue
			}

			e, ok := v.reg.Lookup(tok.Text)
			if !ok {
				d := diagnose(InvalidToken, *tok)
				if v.suggest {
					if s := v.reg.Suggest(tok.Text); len(s) > 0 {
						d.Hint = s[0]
					}
				}

				return d
			}

			tok.ID = e.id
			if e.class == ClassConstant {
				tok.Type = TokenConstant
				tok.Value = e.value
			} else {
				tok.Type = TokenFunction
			}

		case TokenCustomItem:
			if name := tok.Name(); !ValidCustomItemName(name) {
				return &Diagnostic{Code: IllegalCustomItem, Pos: tok.Pos, Name: name}
			}
		}
	}

	return nil
}

func (v *validator) top() *frame {
	if len(v.frames) == 0 {
		return nil
	}

	return &v.frames[len(v.frames)-1]
}

func (v *validator) push(f frame) { v.frames = append(v.frames, f) }

func (v *validator) pop() { v.frames = v.frames[:len(v.frames)-1] }

func (v *validator) insideVector() bool {
	for i := range v.frames {
		if v.frames[i].kind == frameVector {
			return true
		}
	}

	return false
}

func (v *validator) count(opening, closing TokenType) (int, int) {
	var o, c int

	for _, t := range v.toks {
		switch t.Type {
		case opening:
			o++
		case closing:
			c++
		}
	}

	return o, c
}

func (v *validator) step(i int) *Diagnostic {
	tok := v.toks[i]

	switch tok.Type {
	case TokenLeftParen:
		f := frame{kind: frameGroup, argStart: i + 1}

		if i > 0 {
			switch prev := v.toks[i-1]; prev.Type {
			case TokenFunction:
				f.kind = frameFunction
				f.entry, _ = v.reg.Entry(prev.ID)
			case TokenIf:
				f.kind = frameIf
			}
		}

		v.push(f)

	case TokenComma:
		f := v.top()
		if f == nil || f.kind == frameGroup {
			return diagnose(InvalidTokenOutsideFormula, tok)
		}

		if d := v.closeArgument(f, i); d != nil {
			return d
		}

		f.arg++
		f.argStart = i + 1

	case TokenRightParen:
		f := v.top()
		if f == nil {
			o, c := v.count(TokenLeftParen, TokenRightParen)

			return &Diagnostic{
				Code:  UnequalNumberOfBrackets,
				Pos:   tok.Pos,
				Open:  o,
				Close: c,
			}
		}

		switch f.kind {
		case frameVector:
			d := f.missingClose()
			d.Pos = tok.Pos

			return d

		case frameFunction, frameIf:
			if d := v.closeArgument(f, i); d != nil {
				return d
			}

			if d := v.checkArity(f, tok); d != nil {
				return d
			}
		}

		v.pop()

	case TokenLeftCurly:
		if v.insideVector() {
			return diagnose(IllegalNestedVector, tok)
		}

		f := v.top()
		if f == nil || f.kind != frameFunction || f.entry.class != ClassVector ||
			(f.arg < f.entry.arity && !f.entry.IsVectorArgument(f.arg)) {
			return diagnose(InvalidVectorExpression, tok)
		}

		v.push(frame{kind: frameVector, argStart: i + 1})

	case TokenRightCurly:
		f := v.top()
		if f == nil || f.kind != frameVector {
			if !v.insideVector() {
				o, c := v.count(TokenLeftCurly, TokenRightCurly)

				return &Diagnostic{
					Code:  UnequalNumberOfCurlyBrackets,
					Pos:   tok.Pos,
					Open:  o,
					Close: c,
				}
			}

			d := f.missingClose()
			d.Pos = tok.Pos

			return d
		}

		if f.argStart == i {
			return diagnose(InvalidVector, tok)
		}

		v.pop()

	case TokenCustomItem:
		return v.customItem(i)
	}

	return nil
}

// closeArgument checks the argument of f that ends just before token i.
func (v *validator) closeArgument(f *frame, i int) *Diagnostic {
	if f.kind != frameFunction || !f.vectorSlot() {
		return nil
	}

	first := v.toks[f.argStart]
	lone := i-f.argStart == 1 && first.Type == TokenCustomItem

	// Every call returns a scalar, so a vector function call cannot fill a
	// vector slot.
	if first.Type != TokenLeftCurly && !lone {
		return &Diagnostic{
			Code:  MissingVectorArgument,
			Pos:   first.Pos,
			Name:  f.entry.name,
			Index: f.arg,
		}
	}

	return nil
}

func (v *validator) checkArity(f *frame, tok Token) *Diagnostic {
	n := f.arg + 1

	switch f.kind {
	case frameIf:
		if n != 3 {
			return &Diagnostic{Code: InvalidIfArgumentCount, Pos: tok.Pos, Count: n}
		}
	case frameFunction:
		if n != f.entry.arity {
			return &Diagnostic{
				Code:  InvalidFunctionArgumentCount,
				Pos:   tok.Pos,
				Name:  f.entry.name,
				Count: n,
			}
		}
	}

	return nil
}

// customItem infers the kind of the custom item at token i and checks it
// against earlier occurrences of the same name.
func (v *validator) customItem(i int) *Diagnostic {
	tok := v.toks[i]
	name := tok.Name()
	f := v.top()

	lone := f != nil && f.argStart == i && i+1 < len(v.toks) &&
		(v.toks[i+1].Type == TokenComma || v.toks[i+1].Type == TokenRightParen)

	kind := KindScalar
	if lone && f.vectorSlot() {
		kind = KindVector
	}

	slot, seen := v.slots[name]
	if !seen {
		v.slots[name] = len(v.items)
		v.items = append(v.items, CustomItem{Name: name, Slot: len(v.items), Kind: kind})

		return nil
	}

	if v.items[slot].Kind == kind {
		return nil
	}

	switch {
	case lone && kind == KindVector:
		return &Diagnostic{
			Code:  MissingVectorArgument,
			Pos:   tok.Pos,
			Name:  f.entry.name,
			Index: f.arg,
		}
	case lone && f.scalarSlot():
		return &Diagnostic{
			Code:  MissingScalarArgument,
			Pos:   tok.Pos,
			Name:  f.entry.name,
			Index: f.arg,
		}
	default:
		return &Diagnostic{Code: InconsistentCustomItemKind, Pos: tok.Pos, Name: name}
	}
}
