package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ardnew/formula/lang"
)

// Funcs lists the constants and functions available to formulas.
type Funcs struct {
	Filter string `arg:"" help:"Show only names fuzzily matching filter" optional:""`
	Output Output `       help:"Output format (text, json, yaml)" default:"text" enum:"text,json,yaml" short:"o"`

	w io.Writer
}

// Capability describes one registered name.
type Capability struct {
	Name        string `json:"name"                  yaml:"name"`
	Class       string `json:"class"                 yaml:"class"`
	Signature   string `json:"signature"             yaml:"signature"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Run executes the funcs command.
func (f *Funcs) Run(ctx context.Context) error {
	caps, err := Capabilities(Cache().Registry(), f.Filter)
	if err != nil {
		return err
	}

	w := stdout(f.w)

	if f.Output == OutputText || f.Output == "" {
		_, err := fmt.Fprintln(w, capabilityTable(caps))

		return err
	}

	return encode(ctx, w, f.Output, 2, caps)
}

// Capabilities returns the entries of reg in lexical order, or only the
// fuzzy matches of filter, best first, when filter is non-empty.
func Capabilities(reg *lang.Registry, filter string) ([]Capability, error) {
	var names []string

	if filter == "" {
		names = reg.Names()
	} else if names = reg.Suggest(filter); len(names) == 0 {
		return nil, ErrUnknownName.With(slog.String("filter", filter))
	}

	caps := make([]Capability, 0, len(names))

	for _, name := range names {
		e, ok := reg.Lookup(name)
		if !ok {
			continue
		}

		caps = append(caps, Capability{
			Name:        e.Name(),
			Class:       e.Class().String(),
			Signature:   e.Signature(),
			Description: e.Description(),
		})
	}

	return caps, nil
}

func capabilityTable(caps []Capability) *table.Table {
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderColumn(false).
		Headers("NAME", "CLASS", "SIGNATURE", "DESCRIPTION").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}

			return cell
		})

	for _, c := range caps {
		t.Row(c.Name, c.Class, c.Signature, c.Description)
	}

	return t
}
