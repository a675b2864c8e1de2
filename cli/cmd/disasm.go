package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/formula/lang"
)

// Disasm compiles a formula and prints its stack-machine program.
type Disasm struct {
	Formula string `arg:"" help:"Formula text, '-' to read it from stdin, or '@file'" name:"formula"`
	Output  Output `       help:"Output format (text, json, yaml)" default:"text" enum:"text,json,yaml" short:"o"`
	Indent  int    `       help:"Indentation width"                default:"2"                                  short:"i"`

	w io.Writer
}

// Run executes the disasm command.
func (d *Disasm) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	text, p, err := compile(ctx, d.Formula)
	if err != nil {
		return ErrCompile.With(slog.String("formula", text)).Wrap(err)
	}

	format := map[Output]func(*lang.Program, context.Context, io.Writer, int) error{
		"":         (*lang.Program).Format,
		OutputText: (*lang.Program).Format,
		OutputJSON: (*lang.Program).FormatJSON,
		OutputYAML: (*lang.Program).FormatYAML,
	}[d.Output]

	if format == nil {
		return ErrInvalidFormat.With(slog.String("format", string(d.Output)))
	}

	if err := format(p, ctx, stdout(d.w), d.Indent); err != nil {
		return ErrMarshal.With(slog.String("format", string(d.Output))).Wrap(err)
	}

	return nil
}
