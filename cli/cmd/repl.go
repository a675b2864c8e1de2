package cmd

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/ardnew/formula/cli/cmd/repl"
	"github.com/ardnew/formula/log"
	"github.com/ardnew/formula/pkg"
)

// Repl starts an interactive formula session.
type Repl struct {
	Set       []string `help:"Bind a custom item: name=number or name={n,n,...}" placeholder:"NAME=VALUE" sep:"none" short:"s"`
	Bindings  string   `help:"YAML or JSON file mapping custom item names to values"                                 short:"b" type:"existingfile"`
	NoHistory bool     `help:"Do not read or write the history file"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	b, err := (&Eval{Set: r.Set, Bindings: r.Bindings}).bindings(ctx)
	if err != nil {
		return err
	}

	return repl.Run(ctx, repl.Config{
		Cache:       Cache(),
		Bindings:    b,
		Value:       ValueOf,
		HistoryFile: r.historyFile(ctx),
		Logger:      log.Default().With(slog.String("component", "repl")),
	})
}

// historyFile returns the history path within the cache directory, or ""
// when history is disabled.
func (r *Repl) historyFile(ctx context.Context) string {
	if r.NoHistory {
		return ""
	}

	if ktx := kongContextFrom(ctx); ktx != nil {
		if dir, ok := ktx.Model.Vars()[CacheIdentifier]; ok && dir != "" {
			return filepath.Join(dir, pkg.HistoryName)
		}
	}

	return pkg.HistoryFile()
}
