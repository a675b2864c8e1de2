package lang

import (
	"encoding/json"
	"math"
)

// MarshalJSON implements json.Marshaler for Program.
func (p *Program) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ToMap())
}

// MarshalYAML implements yaml.InterfaceMarshaler for Program.
func (p *Program) MarshalYAML() (any, error) {
	return p.ToMap(), nil
}

// ToMap converts the program to a native Go map structure.
func (p *Program) ToMap() map[string]any {
	items := make([]any, len(p.items))
	for i, it := range p.items {
		items[i] = map[string]any{
			"name": it.Name,
			"slot": it.Slot,
			"kind": it.Kind.String(),
		}
	}

	code := make([]any, len(p.code))
	for i, in := range p.code {
		code[i] = p.instructionMap(in)
	}

	return map[string]any{
		"source":       p.source,
		"custom_items": items,
		"instructions": code,
		"max_stack":    p.maxStack,
	}
}

func (p *Program) instructionMap(in Instruction) map[string]any {
	m := map[string]any{"op": in.Op.String()}

	switch in.Op {
	case OpPushNumber:
		m["number"] = Native(in.Number)
	case OpPushConstant:
		m["name"] = p.name(in.ID)
		m["number"] = Native(in.Number)
	case OpPushCustomItem:
		m["slot"] = in.Slot
		if in.Slot >= 0 && in.Slot < len(p.items) {
			m["name"] = p.items[in.Slot].Name
		}
	case OpUnary, OpBinary:
		m["operator"] = in.Operator.String()
	case OpCallScalar:
		m["name"] = p.name(in.ID)
		m["arity"] = in.Arity
	case OpCallVector:
		m["name"] = p.name(in.ID)
		m["arity"] = in.Arity
		m["vectors"] = in.Vectors
		m["mask"] = in.Mask
	case OpPushVector:
		m["arity"] = in.Arity
	}

	return m
}

func (p *Program) name(id ID) string {
	if e, ok := p.registry.Entry(id); ok {
		return e.name
	}

	return "?"
}

// Native returns f unchanged when it is finite, or its string form ("NaN",
// "+Inf", "-Inf") otherwise, since JSON has no representation for them.
func Native(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return formatFloat(f)
	}

	return f
}
