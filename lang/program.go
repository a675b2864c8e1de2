package lang

import (
	"slices"
	"strconv"
)

// Op is the opcode of an [Instruction].
type Op uint8

// Opcodes of the evaluation stack machine.
const (
	OpPushNumber     Op = iota // push Number
	OpPushConstant             // push constant ID, whose value is Number
	OpPushCustomItem           // push the value bound to Slot
	OpUnary                    // apply Operator to the top scalar
	OpBinary                   // apply Operator to the top two scalars
	OpCallScalar               // call scalar function ID with Arity scalars
	OpCallVector               // call vector function ID with Arity args shaped by Mask
	OpPushVector               // collect Arity scalars into one vector
	OpConditional              // select between two values by a condition

	numOps
)

var opNames = [numOps]string{
	OpPushNumber:     "push",
	OpPushConstant:   "const",
	OpPushCustomItem: "item",
	OpUnary:          "unary",
	OpBinary:         "binary",
	OpCallScalar:     "call",
	OpCallVector:     "vcall",
	OpPushVector:     "vector",
	OpConditional:    "if",
}

// String returns the mnemonic of the opcode.
func (o Op) String() string {
	if o >= numOps {
		return "Op(" + strconv.Itoa(int(o)) + ")"
	}

	return opNames[o]
}

// MarshalText implements encoding.TextMarshaler.
func (o Op) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Operator is an arithmetic operator.
type Operator uint8

// Arithmetic operators.
const (
	OperatorNegate Operator = iota
	OperatorAdd
	OperatorSubtract
	OperatorMultiply
	OperatorDivide
	OperatorPower

	numOperators
)

var operatorSymbols = [numOperators]string{
	OperatorNegate:   "neg",
	OperatorAdd:      "+",
	OperatorSubtract: "-",
	OperatorMultiply: "*",
	OperatorDivide:   "/",
	OperatorPower:    "^",
}

// String returns the symbol of the operator.
func (o Operator) String() string {
	if o >= numOperators {
		return "Operator(" + strconv.Itoa(int(o)) + ")"
	}

	return operatorSymbols[o]
}

// MarshalText implements encoding.TextMarshaler.
func (o Operator) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Instruction is one step of a compiled [Program]. Only the fields
// documented for its Op are meaningful.
type Instruction struct {
	Number   float64  `json:"number,omitempty"   yaml:"number,omitempty"`
	Mask     uint64   `json:"mask,omitempty"     yaml:"mask,omitempty"`
	ID       ID       `json:"id,omitempty"       yaml:"id,omitempty"`
	Slot     int      `json:"slot,omitempty"     yaml:"slot,omitempty"`
	Arity    int      `json:"arity,omitempty"    yaml:"arity,omitempty"`
	Vectors  int      `json:"vectors,omitempty"  yaml:"vectors,omitempty"`
	Op       Op       `json:"op"                 yaml:"op"`
	Operator Operator `json:"operator,omitempty" yaml:"operator,omitempty"`
}

// delta returns the net change of stack depth caused by i.
func (i Instruction) delta() int {
	switch i.Op {
	case OpPushNumber, OpPushConstant, OpPushCustomItem:
		return 1
	case OpBinary:
		return -1
	case OpCallScalar, OpCallVector, OpPushVector:
		return 1 - i.Arity
	case OpConditional:
		return -2
	default:
		return 0
	}
}

// CustomItem is a custom item required by a [Program].
type CustomItem struct {
	Name string `json:"name" yaml:"name"`
	Slot int    `json:"slot" yaml:"slot"`
	Kind Kind   `json:"kind" yaml:"kind"`
}

// Program is a compiled formula: an immutable postfix instruction
// sequence. A Program is safe for concurrent evaluation as long as every
// evaluation is given its own [Bindings].
type Program struct {
	registry *Registry
	source   string
	code     []Instruction
	items    []CustomItem
	maxStack int
}

// Source returns the formula text the program was compiled from.
func (p *Program) Source() string { return p.source }

// Registry returns the registry the program was compiled against.
func (p *Program) Registry() *Registry { return p.registry }

// Instructions returns a copy of the instruction sequence.
func (p *Program) Instructions() []Instruction { return slices.Clone(p.code) }

// Len returns the number of instructions.
func (p *Program) Len() int { return len(p.code) }

// MaxStack returns the deepest stack the program reaches.
func (p *Program) MaxStack() int { return p.maxStack }

// CustomItems returns the custom items the program requires, ordered by
// slot.
func (p *Program) CustomItems() []CustomItem { return slices.Clone(p.items) }

// RequiredCustomItems returns the names, slots and kinds of every custom
// item that must be bound before p can be evaluated.
func RequiredCustomItems(p *Program) []CustomItem {
	if p == nil {
		return nil
	}

	return p.CustomItems()
}
