package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"

	"github.com/ardnew/formula/lang"
	"github.com/ardnew/formula/log"
)

// Batch compiles a formula once and evaluates it for every row of a
// bindings file.
type Batch struct {
	Formula string `arg:"" help:"Formula text, '-' to read it from stdin, or '@file'" name:"formula"`
	Rows    string `       help:"YAML or JSON sequence of binding mappings, or '-' for stdin" default:"-" short:"r"`
	Output  Output `       help:"Output format (text, json, yaml)"       default:"text" enum:"text,json,yaml" short:"o"`
	Jobs    int    `       help:"Number of rows evaluated concurrently (0 for one per CPU)" default:"0" short:"j"`

	w io.Writer
}

// Result is the outcome of evaluating one row.
type Result struct {
	Row    int    `json:"row"             yaml:"row"`
	Value  any    `json:"value,omitempty" yaml:"value,omitempty"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty"`
	result float64
}

// Run executes the batch command.
func (b *Batch) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	text, p, err := compile(ctx, b.Formula)
	if err != nil {
		return ErrCompile.With(slog.String("formula", text)).Wrap(err)
	}

	r, err := openInput(b.Rows)
	if err != nil {
		return err
	}
	defer r.Close()

	rows, err := decodeRows(ctx, r)
	if err != nil {
		return err
	}

	results := Evaluate(ctx, p, rows, b.Jobs)

	log.DebugContext(ctx, "batch evaluated",
		slog.String("formula", p.Source()),
		slog.Int("rows", len(rows)),
	)

	w := stdout(b.w)

	if b.Output == OutputText || b.Output == "" {
		for _, res := range results {
			line := FormatResult(res.result)
			if res.Error != "" {
				line = "error: " + res.Error
			}

			if _, err := fmt.Fprintf(w, "%d\t%s\n", res.Row, line); err != nil {
				return err
			}
		}

		return nil
	}

	return encode(ctx, w, b.Output, 2, results)
}

// Evaluate evaluates p once per row with up to jobs concurrent workers and
// returns the results in row order. A row that fails to bind or evaluate
// yields a Result carrying the error; the remaining rows are unaffected.
func Evaluate(ctx context.Context, p *lang.Program, rows []map[string]any, jobs int) []Result {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, len(rows))
	next := make(chan int)

	var wg sync.WaitGroup

	for range min(jobs, len(rows)) {
		wg.Go(func() {
			for i := range next {
				results[i] = evaluateRow(ctx, p, i, rows[i])
			}
		})
	}

	for i := range rows {
		next <- i
	}

	close(next)
	wg.Wait()

	return results
}

func evaluateRow(ctx context.Context, p *lang.Program, i int, row map[string]any) Result {
	res := Result{Row: i}

	b, err := bindingsOf(row)
	if err == nil {
		res.result, err = p.Evaluate(ctx, b)
	}

	if err != nil {
		res.Error = err.Error()
		res.result = 0

		return res
	}

	res.Value = lang.Native(res.result)

	return res
}
