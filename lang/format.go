package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes a disassembly of the program to the writer, one
// instruction per line. Operands are aligned to the given indent.
func (p *Program) Format(_ context.Context, w io.Writer, indent int) error {
	if _, err := fmt.Fprintf(w, "; %s\n", p.source); err != nil {
		return err
	}

	for _, it := range p.items {
		_, err := fmt.Fprintf(w, "; slot %d %s '%s'\n", it.Slot, it.Kind, it.Name)
		if err != nil {
			return err
		}
	}

	width := len(strconv.Itoa(len(p.code)))
	pad := strings.Repeat(" ", max(indent, 1))

	for pc, in := range p.code {
		_, err := fmt.Fprintf(w, "%0*d%s%-6s %s\n",
			width, pc, pad, in.Op, p.operands(in))
		if err != nil {
			return err
		}
	}

	return nil
}

// FormatJSON writes the program as JSON to the writer.
func (p *Program) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(p, "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(p)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes the program as YAML to the writer.
func (p *Program) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, p.ToMap(), opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

// String returns the disassembly of the program.
func (p *Program) String() string {
	var sb strings.Builder

	_ = p.Format(context.Background(), &sb, 2)

	return sb.String()
}

func (p *Program) operands(in Instruction) string {
	switch in.Op {
	case OpPushNumber:
		return formatFloat(in.Number)
	case OpPushConstant:
		return p.name(in.ID) + " = " + formatFloat(in.Number)
	case OpPushCustomItem:
		if in.Slot >= 0 && in.Slot < len(p.items) {
			return "#" + strconv.Itoa(in.Slot) + " '" + p.items[in.Slot].Name + "'"
		}

		return "#" + strconv.Itoa(in.Slot)
	case OpUnary, OpBinary:
		return in.Operator.String()
	case OpCallScalar:
		return p.name(in.ID) + "/" + strconv.Itoa(in.Arity)
	case OpCallVector:
		return p.name(in.ID) + "/" + strconv.Itoa(in.Arity) +
			" mask=" + strconv.FormatUint(in.Mask, 2)
	case OpPushVector:
		return strconv.Itoa(in.Arity)
	default:
		return ""
	}
}
