package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/ardnew/formula/lang"
)

// Eval compiles a formula, binds its custom items, and prints the result.
type Eval struct {
	Formula  string   `arg:"" help:"Formula text, '-' to read it from stdin, or '@file'" name:"formula"`
	Set      []string `       help:"Bind a custom item: name=number or name={n,n,...}"  placeholder:"NAME=VALUE" sep:"none" short:"s"`
	Bindings string   `       help:"YAML or JSON file mapping custom item names to values"                                 short:"b" type:"existingfile"`
	Output   Output   `       help:"Output format (text, json, yaml)" default:"text" enum:"text,json,yaml"                  short:"o"`

	w io.Writer
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	text, p, err := compile(ctx, e.Formula)
	if err != nil {
		return ErrCompile.With(slog.String("formula", text)).Wrap(err)
	}

	b, err := e.bindings(ctx)
	if err != nil {
		return err
	}

	result, err := p.Evaluate(ctx, b)
	if err != nil {
		return ErrEvaluate.With(slog.String("formula", p.Source())).Wrap(err)
	}

	w := stdout(e.w)

	if e.Output == OutputText || e.Output == "" {
		_, err = fmt.Fprintln(w, FormatResult(result))

		return err
	}

	return encode(ctx, w, e.Output, 2, map[string]any{
		"formula": p.Source(),
		"result":  lang.Native(result),
	})
}

// bindings merges the bindings file with the -s assignments, which take
// precedence.
func (e *Eval) bindings(ctx context.Context) (*lang.Bindings, error) {
	b := lang.NewBindings()

	if e.Bindings != "" {
		r, err := openInput(e.Bindings)
		if err != nil {
			return nil, err
		}
		defer r.Close()

		if b, err = decodeBindings(ctx, r); err != nil {
			return nil, err
		}
	}

	for _, s := range e.Set {
		name, v, err := ParseAssignment(s)
		if err != nil {
			return nil, err
		}

		if err := b.Bind(name, v); err != nil {
			return nil, ErrBinding.With(slog.String("binding", s)).Wrap(err)
		}
	}

	return b, nil
}

// FormatResult renders an evaluation result in its shortest exact form.
func FormatResult(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
