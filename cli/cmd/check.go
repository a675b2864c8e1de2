package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ardnew/formula/lang"
)

// Check validates a formula and reports its custom items, or points at the
// first problem found.
type Check struct {
	Formula string `arg:"" help:"Formula text, '-' to read it from stdin, or '@file'" name:"formula"`
	Quiet   bool   `       help:"Report only through the exit status"                          short:"q"`

	w io.Writer
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) error {
	w := stdout(c.w)

	text, p, err := compile(ctx, c.Formula)
	if err != nil {
		var d *lang.Diagnostic
		if errors.As(err, &d) && !c.Quiet {
			_, _ = fmt.Fprintf(w, "%s\n%s\n", d.Caret(text), d.Error())
		}

		return ErrCompile.With(slog.String("formula", text)).Wrap(err)
	}

	if c.Quiet {
		return nil
	}

	if _, err := fmt.Fprintln(w, lang.Message(lang.SuccessfullyCompiled)); err != nil {
		return err
	}

	for _, it := range lang.RequiredCustomItems(p) {
		if _, err := fmt.Fprintf(w, "  %s '%s'\n", it.Kind, it.Name); err != nil {
			return err
		}
	}

	return nil
}
